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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reqID(id int32) *MessageHeader {
	return &MessageHeader{RequestID: id, ResponseTo: 0}
}

func roundTrip(t *testing.T, payload Payload) *FramedMessage {
	t.Helper()
	frame := NewFramedMessage(payload, reqID(42))
	b, err := frame.Encode()
	require.NoError(t, err)

	decoded, err := DecodeFrame(b)
	require.NoError(t, err)
	assert.Equal(t, frame.Header, decoded.Header)
	return decoded
}

func TestOpUpdateRoundTrip(t *testing.T) {
	op := &OpUpdate{
		FullCollectionName: "db.collection",
		Flags:              UpdateUpsert | UpdateMultiUpdate,
		Selector:           fakeDocument("x"),
		Update:             fakeDocument("y"),
	}
	decoded := roundTrip(t, op)
	assert.Equal(t, op, decoded.Payload)
	assert.False(t, decoded.HasReply())
}

func TestOpInsertRoundTrip(t *testing.T) {
	op := &OpInsert{
		Flags:              InsertContinueOnError,
		FullCollectionName: "db.collection",
		Documents:          []Document{fakeDocument("a"), fakeDocument("bb")},
	}
	decoded := roundTrip(t, op)
	assert.Equal(t, op, decoded.Payload)
}

func TestOpInsertEmptyDocuments(t *testing.T) {
	op := &OpInsert{FullCollectionName: "db.c"}
	decoded := roundTrip(t, op)
	assert.Equal(t, op, decoded.Payload)
}

func TestOpQueryRoundTripWithoutSelector(t *testing.T) {
	op := &OpQuery{
		Flags:              QuerySlaveOK,
		FullCollectionName: "admin.$cmd",
		NumberToSkip:       0,
		NumberToReturn:     1,
		Query:              fakeDocument("q"),
	}
	decoded := roundTrip(t, op)
	assert.Equal(t, op, decoded.Payload)
	assert.True(t, decoded.HasReply())
}

func TestOpQueryRoundTripWithSelector(t *testing.T) {
	op := &OpQuery{
		FullCollectionName:   "db.c",
		NumberToReturn:       10,
		Query:                fakeDocument("q"),
		ReturnFieldsSelector: fakeDocument("s"),
	}
	decoded := roundTrip(t, op)
	assert.Equal(t, op, decoded.Payload)
}

func TestOpGetMoreRoundTrip(t *testing.T) {
	op := &OpGetMore{FullCollectionName: "db.c", NumberToReturn: 100, CursorID: 123456789}
	decoded := roundTrip(t, op)
	assert.Equal(t, op, decoded.Payload)
	assert.True(t, decoded.HasReply())
}

func TestOpDeleteRoundTrip(t *testing.T) {
	op := &OpDelete{FullCollectionName: "db.c", Flags: DeleteSingleRemove, Selector: fakeDocument("d")}
	decoded := roundTrip(t, op)
	assert.Equal(t, op, decoded.Payload)
	assert.False(t, decoded.HasReply())
}

func TestOpKillCursorsRoundTrip(t *testing.T) {
	op := &OpKillCursors{CursorIDs: []int64{1, 2, 3}}
	decoded := roundTrip(t, op)
	assert.Equal(t, op, decoded.Payload)
}

// TestOpKillCursorsEncodedLength pins the exact byte layout: 4 zero
// reserved bytes, i32 count, then count i64 cursor ids.
func TestOpKillCursorsEncodedLength(t *testing.T) {
	op := &OpKillCursors{CursorIDs: []int64{1, 2, 3}}
	b, err := op.encodePayload()
	require.NoError(t, err)
	assert.Len(t, b, 4+4+24)
	assert.Equal(t, []byte{0, 0, 0, 0}, b[:4])
	assert.Equal(t, []byte{3, 0, 0, 0}, b[4:8])
}

func TestOpReplyDecodeOnly(t *testing.T) {
	payload := []byte{}
	payload = appendUint32(payload, 0) // response_flags
	payload = appendInt64(payload, 7)  // cursor_id
	payload = appendInt32(payload, 0)  // starting_from
	payload = appendInt32(payload, 2)  // number_returned
	d1 := fakeDocument("a")
	d2 := fakeDocument("b")
	payload = append(payload, d1...)
	payload = append(payload, d2...)

	decoded, err := decodeOpReply(payload)
	require.NoError(t, err)
	reply, ok := decoded.(*OpReply)
	require.True(t, ok)
	assert.Equal(t, int64(7), reply.CursorID)
	assert.Equal(t, int32(2), reply.NumberReturned)
	assert.Len(t, reply.Documents, 2)
	assert.False(t, reply.HasReply())
}

func TestOpReplyEncodeUnsupported(t *testing.T) {
	op := &OpReply{}
	_, err := op.encodePayload()
	var target *EncodeUnsupportedError
	assert.ErrorAs(t, err, &target)
}

func TestOpMsgRoundTripBodyOnly(t *testing.T) {
	op := &OpMsg{
		Flags: 0,
		Sections: []Section{
			{Kind: SectionBody, Document: fakeDocument("hello")},
		},
	}
	decoded := roundTrip(t, op)
	assert.Equal(t, op, decoded.Payload)
}

func TestOpMsgRoundTripWithDocumentSequenceAndChecksum(t *testing.T) {
	op := &OpMsg{
		Flags: MsgChecksumPresent,
		Sections: []Section{
			{Kind: SectionBody, Document: fakeDocument("cmd")},
			{
				Kind:       SectionDocumentSequence,
				Identifier: "documents",
				Documents:  []Document{fakeDocument("1"), fakeDocument("22")},
			},
		},
	}
	decoded := roundTrip(t, op)
	msg, ok := decoded.Payload.(*OpMsg)
	require.True(t, ok)
	assert.Equal(t, op.Flags, msg.Flags)
	assert.Equal(t, op.Sections, msg.Sections)
	assert.NotZero(t, msg.Checksum)
}

func TestOpMsgChecksumMismatchIsDecodeError(t *testing.T) {
	op := &OpMsg{
		Flags:    MsgChecksumPresent,
		Sections: []Section{{Kind: SectionBody, Document: fakeDocument("a")}},
	}
	b, err := op.encodePayload()
	require.NoError(t, err)
	b[len(b)-1] ^= 0xFF // corrupt the checksum's last byte

	_, err = decodeOpMsg(b)
	require.Error(t, err)
	var target *DecodeError
	assert.ErrorAs(t, err, &target)
}

func TestOpMsgNoChecksumWhenFlagUnset(t *testing.T) {
	op := &OpMsg{Sections: []Section{{Kind: SectionBody, Document: fakeDocument("a")}}}
	b, err := op.encodePayload()
	require.NoError(t, err)

	decoded, err := decodeOpMsg(b)
	require.NoError(t, err)
	msg := decoded.(*OpMsg)
	assert.Zero(t, msg.Checksum)
}

func TestOpCompressedRoundTrip(t *testing.T) {
	inner := &OpQuery{FullCollectionName: "db.c", NumberToReturn: 1, Query: fakeDocument("q")}
	op := &OpCompressed{CompressorID: 0, Wrapped: inner}

	decoded := roundTrip(t, op)
	compressed, ok := decoded.Payload.(*OpCompressed)
	require.True(t, ok)
	assert.Equal(t, inner, compressed.Wrapped)
	assert.True(t, compressed.HasReply())
}

func TestDecodeFrameRejectsUnknownOpcode(t *testing.T) {
	b := []byte{}
	b = appendUint32(b, 16) // total length == header only
	b = appendInt32(b, 1)   // request id
	b = appendInt32(b, 0)   // response to
	b = appendInt32(b, 999999)

	_, err := DecodeFrame(b)
	var target *UnknownOpcodeError
	assert.ErrorAs(t, err, &target)
}

func TestDecodeFrameRejectsTrailingBytes(t *testing.T) {
	op := &OpDelete{FullCollectionName: "db.c", Selector: fakeDocument("d")}
	frame := NewFramedMessage(op, reqID(1))
	b, err := frame.Encode()
	require.NoError(t, err)
	b = append(b, 0xAB) // trailing byte, without updating the length prefix

	// The length prefix no longer matches len(b), which itself is
	// rejected first.
	_, err = DecodeFrame(b)
	assert.Error(t, err)
}

func TestDecodeFrameRejectsLengthMismatch(t *testing.T) {
	op := &OpDelete{FullCollectionName: "db.c", Selector: fakeDocument("d")}
	frame := NewFramedMessage(op, reqID(1))
	b, err := frame.Encode()
	require.NoError(t, err)

	_, err = DecodeFrame(b[:len(b)-1])
	assert.Error(t, err)
}

func TestPeekFrameLength(t *testing.T) {
	op := &OpDelete{FullCollectionName: "db.c", Selector: fakeDocument("d")}
	frame := NewFramedMessage(op, reqID(1))
	b, err := frame.Encode()
	require.NoError(t, err)

	n, ok := PeekFrameLength(b)
	require.True(t, ok)
	assert.Equal(t, len(b), n)
}

func TestOpCodeStringAndValid(t *testing.T) {
	assert.Equal(t, "OP_MSG", OpCodeMsg.String())
	assert.True(t, OpCodeMsg.Valid())
	assert.Equal(t, "OP_UNKNOWN", OpCode(424242).String())
	assert.False(t, OpCode(424242).Valid())
}

// fakeDocument builds a minimal well-formed length-prefixed "document":
// a 4-byte length (including itself), one content byte per rune of tag,
// and a terminating NUL — enough to round-trip through the wire codec,
// which never looks past the length.
func fakeDocument(tag string) Document {
	body := []byte(tag)
	n := 4 + len(body) + 1
	d := make([]byte, 0, n)
	d = appendInt32(d, int32(n))
	d = append(d, body...)
	d = append(d, 0)
	return d
}
