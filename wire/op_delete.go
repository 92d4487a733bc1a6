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

// OpDeleteFlags is the OP_DELETE bit vector.
type OpDeleteFlags uint32

const (
	DeleteSingleRemove OpDeleteFlags = 1 << 0
)

// OpDelete removes documents matching Selector from FullCollectionName.
// Never has a reply.
type OpDelete struct {
	FullCollectionName string
	Flags              OpDeleteFlags
	Selector           Document
}

func (*OpDelete) OpCode() OpCode { return OpCodeDelete }
func (*OpDelete) HasReply() bool { return false }

func (op *OpDelete) encodePayload() ([]byte, error) {
	b := make([]byte, 0, 4+len(op.FullCollectionName)+1+4+len(op.Selector))
	b = appendInt32(b, 0) // reserved
	b = appendCString(b, op.FullCollectionName)
	b = appendUint32(b, uint32(op.Flags))
	b = append(b, op.Selector...)
	return b, nil
}

func decodeOpDelete(payload []byte) (Payload, error) {
	const opName = "OP_DELETE"
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
	if err := checkExhausted(opName, c); err != nil {
		return nil, err
	}

	return &OpDelete{
		FullCollectionName: name,
		Flags:              OpDeleteFlags(flags),
		Selector:           selector,
	}, nil
}
