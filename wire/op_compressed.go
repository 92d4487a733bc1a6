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

import (
	"github.com/packetd/mongowire/wire/compress"
	"github.com/pkg/errors"
)

// OpCompressed wraps any other payload variant under a compressor.
// Decode recurses into decodePayload for OriginalOpCode over the
// decompressed bytes, treating them as a complete payload region with
// no nested frame header.
type OpCompressed struct {
	OriginalOpCode OpCode
	CompressorID   byte
	Wrapped        Payload
}

func (op *OpCompressed) OpCode() OpCode { return OpCodeCompressed }

// HasReply delegates to the wrapped payload: OP_COMPRESSED is a
// transport-level wrapper, not an opcode with its own reply semantics
// (spec.md §9 open question 5).
func (op *OpCompressed) HasReply() bool { return op.Wrapped.HasReply() }

func (op *OpCompressed) encodePayload() ([]byte, error) {
	body, err := op.Wrapped.encodePayload()
	if err != nil {
		return nil, errors.Wrap(err, "compress: encode wrapped payload")
	}

	c, ok := compress.Lookup(op.CompressorID)
	if !ok {
		return nil, newError("unknown compressor id %d", op.CompressorID)
	}
	compressed, err := c.Compress(body)
	if err != nil {
		return nil, errors.Wrap(err, "compress: compress wrapped payload")
	}

	b := make([]byte, 0, 9+len(compressed))
	b = appendInt32(b, int32(op.Wrapped.OpCode()))
	b = appendInt32(b, int32(len(body)))
	b = append(b, op.CompressorID)
	b = append(b, compressed...)
	return b, nil
}

func decodeOpCompressed(payload []byte) (Payload, error) {
	const opName = "OP_COMPRESSED"
	c := newCursor(payload)

	originalOpCode, ok := c.readInt32()
	if !ok {
		return nil, decodeErrorf(opName, "truncated original_opcode")
	}
	originalLength, ok := c.readInt32()
	if !ok {
		return nil, decodeErrorf(opName, "truncated original_length")
	}
	if originalLength < 0 {
		return nil, decodeErrorf(opName, "negative original_length %d", originalLength)
	}
	compressorID, ok := c.readByte()
	if !ok {
		return nil, decodeErrorf(opName, "truncated compressor_id")
	}

	compressor, ok := compress.Lookup(compressorID)
	if !ok {
		return nil, decodeErrorf(opName, "unknown compressor id %d", compressorID)
	}

	body, err := compressor.Decompress(c.rest())
	if err != nil {
		return nil, &DecodeError{Op: opName, Err: errors.Wrap(err, "decompress wrapped payload")}
	}
	if int32(len(body)) != originalLength {
		return nil, decodeErrorf(opName, "original_length=%d but decompressed to %d bytes", originalLength, len(body))
	}

	wrapped, err := decodePayload(OpCode(originalOpCode), body)
	if err != nil {
		return nil, err
	}

	return &OpCompressed{
		OriginalOpCode: OpCode(originalOpCode),
		CompressorID:   compressorID,
		Wrapped:        wrapped,
	}, nil
}
