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

// OpGetMore fetches more documents for a cursor opened by an earlier
// OpQuery (or the getMore command over OP_MSG, for modern servers).
type OpGetMore struct {
	FullCollectionName string
	NumberToReturn     int32
	CursorID           int64
}

func (*OpGetMore) OpCode() OpCode { return OpCodeGetMore }
func (*OpGetMore) HasReply() bool { return true }

func (op *OpGetMore) encodePayload() ([]byte, error) {
	b := make([]byte, 0, 4+len(op.FullCollectionName)+1+4+8)
	b = appendInt32(b, 0) // reserved
	b = appendCString(b, op.FullCollectionName)
	b = appendInt32(b, op.NumberToReturn)
	b = appendInt64(b, op.CursorID)
	return b, nil
}

func decodeOpGetMore(payload []byte) (Payload, error) {
	const opName = "OP_GET_MORE"
	c := newCursor(payload)

	if !c.skip(4) {
		return nil, decodeErrorf(opName, "missing reserved field")
	}
	name, ok := c.readCString()
	if !ok {
		return nil, decodeErrorf(opName, "truncated full collection name")
	}
	toReturn, ok := c.readInt32()
	if !ok {
		return nil, decodeErrorf(opName, "truncated number_to_return")
	}
	cursorID, ok := c.readInt64()
	if !ok {
		return nil, decodeErrorf(opName, "truncated cursor id")
	}
	if err := checkExhausted(opName, c); err != nil {
		return nil, err
	}

	return &OpGetMore{
		FullCollectionName: name,
		NumberToReturn:     toReturn,
		CursorID:           cursorID,
	}, nil
}
