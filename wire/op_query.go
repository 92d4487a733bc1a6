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

// OpQueryFlags is the OP_QUERY bit vector.
type OpQueryFlags uint32

const (
	QueryTailableCursor OpQueryFlags = 1 << 1
	QuerySlaveOK        OpQueryFlags = 1 << 2
	QueryOplogReplay    OpQueryFlags = 1 << 3
	QueryNoCursorTimeout OpQueryFlags = 1 << 4
	QueryAwaitData      OpQueryFlags = 1 << 5
	QueryExhaust        OpQueryFlags = 1 << 6
	QueryPartial        OpQueryFlags = 1 << 7
)

// OpQuery queries FullCollectionName (e.g. "admin.$cmd" for commands).
// It is the one legacy opcode still commonly seen, used by drivers for
// the pre-3.6 handshake; everything else has moved to OP_MSG.
type OpQuery struct {
	Flags                 OpQueryFlags
	FullCollectionName    string
	NumberToSkip          int32
	NumberToReturn        int32
	Query                 Document
	ReturnFieldsSelector  Document // nil if absent
}

func (*OpQuery) OpCode() OpCode { return OpCodeQuery }
func (*OpQuery) HasReply() bool { return true }

func (op *OpQuery) encodePayload() ([]byte, error) {
	b := make([]byte, 0, 4+len(op.FullCollectionName)+1+8+len(op.Query)+len(op.ReturnFieldsSelector))
	b = appendUint32(b, uint32(op.Flags))
	b = appendCString(b, op.FullCollectionName)
	b = appendInt32(b, op.NumberToSkip)
	b = appendInt32(b, op.NumberToReturn)
	b = append(b, op.Query...)
	if op.ReturnFieldsSelector != nil {
		b = append(b, op.ReturnFieldsSelector...)
	}
	return b, nil
}

func decodeOpQuery(payload []byte) (Payload, error) {
	const opName = "OP_QUERY"
	c := newCursor(payload)

	flags, ok := c.readUint32()
	if !ok {
		return nil, decodeErrorf(opName, "truncated flags")
	}
	name, ok := c.readCString()
	if !ok {
		return nil, decodeErrorf(opName, "truncated full collection name")
	}
	skip, ok := c.readInt32()
	if !ok {
		return nil, decodeErrorf(opName, "truncated number_to_skip")
	}
	toReturn, ok := c.readInt32()
	if !ok {
		return nil, decodeErrorf(opName, "truncated number_to_return")
	}
	query, ok := c.readDocument()
	if !ok {
		return nil, decodeErrorf(opName, "truncated query document")
	}

	var selector Document
	if c.remaining() > 0 {
		selector, ok = c.readDocument()
		if !ok {
			return nil, decodeErrorf(opName, "truncated return_fields_selector document")
		}
	}
	if err := checkExhausted(opName, c); err != nil {
		return nil, err
	}

	return &OpQuery{
		Flags:                OpQueryFlags(flags),
		FullCollectionName:   name,
		NumberToSkip:         skip,
		NumberToReturn:       toReturn,
		Query:                query,
		ReturnFieldsSelector: selector,
	}, nil
}
