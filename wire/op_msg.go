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

import "hash/crc32"

// OpMsgFlags is the OP_MSG flag_bits bit vector.
type OpMsgFlags uint32

const (
	MsgChecksumPresent OpMsgFlags = 1 << 0
	MsgMoreToCome      OpMsgFlags = 1 << 1
	MsgExhaustAllowed  OpMsgFlags = 1 << 16
)

// SectionKind discriminates the two OP_MSG section shapes.
type SectionKind byte

const (
	SectionBody             SectionKind = 0
	SectionDocumentSequence SectionKind = 1
)

// Section is one tagged unit of an OP_MSG payload: exactly one of
// Document (SectionBody) or Identifier+Documents (SectionDocumentSequence)
// is populated, per Kind.
type Section struct {
	Kind       SectionKind
	Document   Document   // SectionBody
	Identifier string     // SectionDocumentSequence
	Documents  []Document // SectionDocumentSequence
}

func (s Section) encode(b []byte) ([]byte, error) {
	switch s.Kind {
	case SectionBody:
		b = append(b, byte(SectionBody))
		b = append(b, s.Document...)
		return b, nil
	case SectionDocumentSequence:
		b = append(b, byte(SectionDocumentSequence))
		var docsLen int
		for _, d := range s.Documents {
			docsLen += len(d)
		}
		// size counts itself, the preceding tag byte, the identifier
		// C-string and the documents: spec.md §4.2's
		// size-5-len(identifier)-1 remaining-bytes formula, solved for
		// size.
		size := int32(docsLen + len(s.Identifier) + 6)
		b = appendInt32(b, size)
		b = appendCString(b, s.Identifier)
		for _, d := range s.Documents {
			b = append(b, d...)
		}
		return b, nil
	default:
		return nil, newError("unknown section kind %d", s.Kind)
	}
}

func decodeSection(c *cursor) (Section, error) {
	const opName = "OP_MSG"

	tag, ok := c.readByte()
	if !ok {
		return Section{}, decodeErrorf(opName, "truncated section tag")
	}

	switch SectionKind(tag) {
	case SectionBody:
		doc, ok := c.readDocument()
		if !ok {
			return Section{}, decodeErrorf(opName, "truncated body section document")
		}
		return Section{Kind: SectionBody, Document: doc}, nil

	case SectionDocumentSequence:
		size, ok := c.readInt32()
		if !ok {
			return Section{}, decodeErrorf(opName, "truncated document sequence size")
		}
		identifier, ok := c.readCString()
		if !ok {
			return Section{}, decodeErrorf(opName, "truncated document sequence identifier")
		}
		remaining := int(size) - 5 - len(identifier) - 1
		if remaining < 0 {
			return Section{}, decodeErrorf(opName, "document sequence size %d too small for identifier %q", size, identifier)
		}
		if c.remaining() < remaining {
			return Section{}, decodeErrorf(opName, "document sequence declares %d bytes, only %d remain", remaining, c.remaining())
		}
		end := c.i + remaining
		var docs []Document
		for c.i < end {
			doc, ok := c.readDocument()
			if !ok {
				return Section{}, decodeErrorf(opName, "truncated document sequence document at offset %d", c.i)
			}
			docs = append(docs, doc)
		}
		if c.i != end {
			return Section{}, decodeErrorf(opName, "document sequence documents overran declared size")
		}
		return Section{Kind: SectionDocumentSequence, Identifier: identifier, Documents: docs}, nil

	default:
		return Section{}, decodeErrorf(opName, "unknown section tag %d", tag)
	}
}

// castagnoliTable is the CRC-32C polynomial OP_MSG's optional checksum
// field uses; it is not the CRC-32 IEEE stdlib default.
var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

// OpMsg is the modern (3.6+) wire opcode: one or more sections plus an
// optional CRC-32C checksum. Everything a client needs to talk to a
// current server — commands, writes, reads — goes over this opcode.
type OpMsg struct {
	Flags    OpMsgFlags
	Sections []Section
	// Checksum is only meaningful, and only emitted on encode, when
	// Flags has MsgChecksumPresent set (spec.md §9 open question 4).
	Checksum uint32
}

func (*OpMsg) OpCode() OpCode { return OpCodeMsg }
func (*OpMsg) HasReply() bool { return true }

func (op *OpMsg) encodePayload() ([]byte, error) {
	b := make([]byte, 0, 4+len(op.Sections)*16)
	b = appendUint32(b, uint32(op.Flags))
	for _, s := range op.Sections {
		var err error
		b, err = s.encode(b)
		if err != nil {
			return nil, err
		}
	}
	if op.Flags&MsgChecksumPresent != 0 {
		sum := crc32.Checksum(b, castagnoliTable)
		b = appendUint32(b, sum)
	}
	return b, nil
}

func decodeOpMsg(payload []byte) (Payload, error) {
	const opName = "OP_MSG"
	c := newCursor(payload)

	flags, ok := c.readUint32()
	if !ok {
		return nil, decodeErrorf(opName, "truncated flag_bits")
	}
	msgFlags := OpMsgFlags(flags)

	bodyEnd := len(payload)
	if msgFlags&MsgChecksumPresent != 0 {
		if len(payload) < 4 {
			return nil, decodeErrorf(opName, "checksum_present but payload too short")
		}
		bodyEnd -= 4
	}

	var sections []Section
	for c.i < bodyEnd {
		s, err := decodeSection(c)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	if c.i != bodyEnd {
		return nil, decodeErrorf(opName, "sections overran body boundary")
	}

	msg := &OpMsg{Flags: msgFlags, Sections: sections}
	if msgFlags&MsgChecksumPresent != 0 {
		sum, ok := c.readUint32()
		if !ok {
			return nil, decodeErrorf(opName, "truncated checksum")
		}
		want := crc32.Checksum(payload[:bodyEnd], castagnoliTable)
		if sum != want {
			return nil, decodeErrorf(opName, "checksum mismatch: got %08x want %08x", sum, want)
		}
		msg.Checksum = sum
	}
	if err := checkExhausted(opName, c); err != nil {
		return nil, err
	}

	return msg, nil
}
