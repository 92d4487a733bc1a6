// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wire

// Payload is one opcode-specific message body. Every variant in this
// package implements it; spec.md §3 invariant 4 requires that an
// opcode uniquely determine which variant decode produces, which is
// why decodePayload below is a plain switch rather than a mutable
// registration table (design notes, spec.md §9, prefer "one
// enumeration per axis... and one pure function per variant" over the
// source's subclass-registration pattern for the opcode axis — the
// compressor axis, in wire/compress, still uses a runtime registry,
// since which compressors are available genuinely varies by build).
type Payload interface {
	// OpCode returns the wire opcode this payload encodes as.
	OpCode() OpCode

	// HasReply reports whether a client sending this payload should
	// expect a reply frame back.
	HasReply() bool

	// encodePayload serializes the payload body, not including the
	// frame header or opcode.
	encodePayload() ([]byte, error)
}

// decodePayload dispatches a frame's opcode to the matching variant's
// decoder over the payload bytes that follow the header. The decoder
// must consume every byte of payload; leftovers are a DecodeError
// (spec.md §4.1: "trailing bytes within the frame are a decode
// error").
func decodePayload(op OpCode, payload []byte) (Payload, error) {
	switch op {
	case OpCodeReply:
		return decodeOpReply(payload)
	case OpCodeUpdate:
		return decodeOpUpdate(payload)
	case OpCodeInsert:
		return decodeOpInsert(payload)
	case OpCodeQuery:
		return decodeOpQuery(payload)
	case OpCodeGetMore:
		return decodeOpGetMore(payload)
	case OpCodeDelete:
		return decodeOpDelete(payload)
	case OpCodeKillCursors:
		return decodeOpKillCursors(payload)
	case OpCodeMsg:
		return decodeOpMsg(payload)
	case OpCodeCompressed:
		return decodeOpCompressed(payload)
	default:
		return nil, &UnknownOpcodeError{OpCode: int32(op)}
	}
}

func checkExhausted(op string, c *cursor) error {
	if c.remaining() != 0 {
		return decodeErrorf(op, "%d trailing byte(s) left in payload", c.remaining())
	}
	return nil
}
