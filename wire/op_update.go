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

// OpUpdateFlags is the OP_UPDATE bit vector.
type OpUpdateFlags uint32

const (
	UpdateUpsert      OpUpdateFlags = 1 << 0
	UpdateMultiUpdate OpUpdateFlags = 1 << 1
)

// OpUpdate requests an update of documents matching Selector in
// FullCollectionName. It never has a reply (spec.md §3) — write
// acknowledgement is a later-era concept (OP_MSG), not part of this
// legacy opcode.
type OpUpdate struct {
	FullCollectionName string
	Flags              OpUpdateFlags
	Selector           Document
	Update             Document
}

func (*OpUpdate) OpCode() OpCode { return OpCodeUpdate }
func (*OpUpdate) HasReply() bool { return false }

func (op *OpUpdate) encodePayload() ([]byte, error) {
	b := make([]byte, 0, 4+len(op.FullCollectionName)+1+4+len(op.Selector)+len(op.Update))
	b = appendInt32(b, 0) // reserved
	b = appendCString(b, op.FullCollectionName)
	b = appendUint32(b, uint32(op.Flags))
	b = append(b, op.Selector...)
	b = append(b, op.Update...)
	return b, nil
}

func decodeOpUpdate(payload []byte) (Payload, error) {
	const opName = "OP_UPDATE"
	c := newCursor(payload)

	if !c.skip(4) {
		return nil, decodeErrorf(opName, "missing reserved field")
	}
	name, ok := c.readCString()
	if !ok {
		return nil, decodeErrorf(opName, "truncated full collection name")
	}
	flags, ok := c.readUint32()
	if !ok {
		return nil, decodeErrorf(opName, "truncated flags")
	}
	selector, ok := c.readDocument()
	if !ok {
		return nil, decodeErrorf(opName, "truncated selector document")
	}
	update, ok := c.readDocument()
	if !ok {
		return nil, decodeErrorf(opName, "truncated update document")
	}
	if err := checkExhausted(opName, c); err != nil {
		return nil, err
	}

	return &OpUpdate{
		FullCollectionName: name,
		Flags:              OpUpdateFlags(flags),
		Selector:           selector,
		Update:             update,
	}, nil
}
