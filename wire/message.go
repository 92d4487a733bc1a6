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

// FramedMessage pairs a MessageHeader with exactly one Payload. Its
// wire encoding is the standard message header (length, requestID,
// responseTo, opcode) immediately followed by the payload bytes
// (spec.md §4.1).
type FramedMessage struct {
	Header  MessageHeader
	Payload Payload
}

// NewFramedMessage wraps payload in a frame. If header is nil, one is
// generated with a fresh random request id (spec.md §3).
func NewFramedMessage(payload Payload, header *MessageHeader) *FramedMessage {
	h := NewMessageHeader(nil)
	if header != nil {
		h = *header
	}
	return &FramedMessage{Header: h, Payload: payload}
}

// HasReply reports whether the wrapped payload expects a reply.
func (m *FramedMessage) HasReply() bool {
	return m.Payload.HasReply()
}

// Encode serializes the frame: a 4-byte little-endian total length
// (including itself), the header, the opcode, and the payload bytes
// (spec.md §4.1).
func (m *FramedMessage) Encode() ([]byte, error) {
	body, err := m.Payload.encodePayload()
	if err != nil {
		return nil, err
	}

	total := headerLength + len(body)
	out := make([]byte, 0, total)
	out = appendUint32(out, uint32(total))
	out = m.Header.appendTo(out)
	out = appendInt32(out, int32(m.Payload.OpCode()))
	out = append(out, body...)
	return out, nil
}

// DecodeFrame decodes one complete frame from b, which must hold
// exactly the bytes the length prefix claims (a conn.Connection
// reassembles that much before calling this). Returns UnknownOpcodeError
// if the opcode isn't recognized, or a DecodeError for any malformed
// payload.
func DecodeFrame(b []byte) (*FramedMessage, error) {
	c := newCursor(b)

	total, ok := c.readUint32()
	if !ok {
		return nil, decodeErrorf("frame", "buffer shorter than the length prefix")
	}
	if int(total) != len(b) {
		return nil, decodeErrorf("frame", "length prefix %d does not match buffer size %d", total, len(b))
	}

	header, ok := decodeHeader(c)
	if !ok {
		return nil, decodeErrorf("frame", "buffer too short for header")
	}

	opRaw, ok := c.readInt32()
	if !ok {
		return nil, decodeErrorf("frame", "buffer too short for opcode")
	}
	op := OpCode(opRaw)

	payload, err := decodePayload(op, c.rest())
	if err != nil {
		return nil, err
	}

	return &FramedMessage{Header: header, Payload: payload}, nil
}

// PeekFrameLength reads the 4-byte little-endian total-length prefix
// from the start of b, which must hold at least 4 bytes. It's used by
// conn.Connection to know how many bytes to buffer before calling
// DecodeFrame.
func PeekFrameLength(b []byte) (int, bool) {
	if len(b) < 4 {
		return 0, false
	}
	c := newCursor(b[:4])
	n, ok := c.readUint32()
	return int(n), ok
}
