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

// OpKillCursors notifies the server that the client is done with the
// given cursors. Never has a reply.
type OpKillCursors struct {
	CursorIDs []int64
}

func (*OpKillCursors) OpCode() OpCode { return OpCodeKillCursors }
func (*OpKillCursors) HasReply() bool { return false }

func (op *OpKillCursors) encodePayload() ([]byte, error) {
	b := make([]byte, 0, 4+4+8*len(op.CursorIDs))
	b = appendInt32(b, 0) // reserved
	b = appendInt32(b, int32(len(op.CursorIDs)))
	for _, id := range op.CursorIDs {
		b = appendInt64(b, id)
	}
	return b, nil
}

func decodeOpKillCursors(payload []byte) (Payload, error) {
	const opName = "OP_KILL_CURSORS"
	c := newCursor(payload)

	if !c.skip(4) {
		return nil, decodeErrorf(opName, "missing reserved field")
	}
	n, ok := c.readInt32()
	if !ok {
		return nil, decodeErrorf(opName, "truncated cursor count")
	}
	if n < 0 {
		return nil, decodeErrorf(opName, "negative cursor count %d", n)
	}

	ids := make([]int64, 0, n)
	for i := int32(0); i < n; i++ {
		id, ok := c.readInt64()
		if !ok {
			return nil, decodeErrorf(opName, "truncated cursor id %d/%d", i+1, n)
		}
		ids = append(ids, id)
	}
	if err := checkExhausted(opName, c); err != nil {
		return nil, err
	}

	return &OpKillCursors{CursorIDs: ids}, nil
}
