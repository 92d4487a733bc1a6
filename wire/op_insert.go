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

// OpInsertFlags is the OP_INSERT bit vector.
type OpInsertFlags int32

const (
	InsertContinueOnError OpInsertFlags = 1 << 0
)

// OpInsert inserts one or more Documents into FullCollectionName. No
// reply is ever sent for it — use OP_MSG for write acknowledgement.
type OpInsert struct {
	Flags              OpInsertFlags
	FullCollectionName string
	Documents          []Document
}

func (*OpInsert) OpCode() OpCode { return OpCodeInsert }
func (*OpInsert) HasReply() bool { return false }

func (op *OpInsert) encodePayload() ([]byte, error) {
	b := make([]byte, 0, 4+len(op.FullCollectionName)+1)
	b = appendInt32(b, int32(op.Flags))
	b = appendCString(b, op.FullCollectionName)
	for _, doc := range op.Documents {
		b = append(b, doc...)
	}
	return b, nil
}

func decodeOpInsert(payload []byte) (Payload, error) {
	const opName = "OP_INSERT"
	c := newCursor(payload)

	flags, ok := c.readInt32()
	if !ok {
		return nil, decodeErrorf(opName, "truncated flags")
	}
	name, ok := c.readCString()
	if !ok {
		return nil, decodeErrorf(opName, "truncated full collection name")
	}

	var docs []Document
	for c.remaining() > 0 {
		doc, ok := c.readDocument()
		if !ok {
			return nil, decodeErrorf(opName, "truncated document at offset %d", c.i)
		}
		docs = append(docs, doc)
	}

	return &OpInsert{
		Flags:              OpInsertFlags(flags),
		FullCollectionName: name,
		Documents:          docs,
	}, nil
}
