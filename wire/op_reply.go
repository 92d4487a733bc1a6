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

// OpReplyFlags is the OP_REPLY response_flags bit vector.
type OpReplyFlags uint32

const (
	ReplyCursorNotFound   OpReplyFlags = 1 << 0
	ReplyQueryFailure     OpReplyFlags = 1 << 1
	ReplyShardConfigStale OpReplyFlags = 1 << 2
	ReplyAwaitCapable     OpReplyFlags = 1 << 3
)

// OpReply is the server's response to OP_QUERY and OP_GET_MORE. It is a
// server-to-client message only: nothing in this library ever constructs
// one to send, so encodePayload always fails.
type OpReply struct {
	ResponseFlags OpReplyFlags
	CursorID      int64
	StartingFrom  int32
	NumberReturned int32
	Documents     []Document
}

func (*OpReply) OpCode() OpCode { return OpCodeReply }

// HasReply reports false: OP_REPLY is itself a reply, the protocol never
// solicits a reply to a reply.
func (*OpReply) HasReply() bool { return false }

func (op *OpReply) encodePayload() ([]byte, error) {
	return nil, &EncodeUnsupportedError{OpCode: OpCodeReply}
}

func decodeOpReply(payload []byte) (Payload, error) {
	const opName = "OP_REPLY"
	c := newCursor(payload)

	flags, ok := c.readUint32()
	if !ok {
		return nil, decodeErrorf(opName, "truncated response_flags")
	}
	cursorID, ok := c.readInt64()
	if !ok {
		return nil, decodeErrorf(opName, "truncated cursor id")
	}
	startingFrom, ok := c.readInt32()
	if !ok {
		return nil, decodeErrorf(opName, "truncated starting_from")
	}
	numberReturned, ok := c.readInt32()
	if !ok {
		return nil, decodeErrorf(opName, "truncated number_returned")
	}
	if numberReturned < 0 {
		return nil, decodeErrorf(opName, "negative number_returned %d", numberReturned)
	}

	docs := make([]Document, 0, numberReturned)
	for c.remaining() > 0 {
		doc, ok := c.readDocument()
		if !ok {
			return nil, decodeErrorf(opName, "truncated document at offset %d", c.i)
		}
		docs = append(docs, doc)
	}
	if len(docs) != int(numberReturned) {
		return nil, decodeErrorf(opName, "number_returned=%d but decoded %d documents", numberReturned, len(docs))
	}

	return &OpReply{
		ResponseFlags:  OpReplyFlags(flags),
		CursorID:       cursorID,
		StartingFrom:   startingFrom,
		NumberReturned: numberReturned,
		Documents:      docs,
	}, nil
}
