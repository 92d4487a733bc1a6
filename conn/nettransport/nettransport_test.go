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

package nettransport

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/mongowire/wire"
)

// encodeRawOpReply hand-builds OP_REPLY frame bytes the way a real
// MongoDB server would put them on the wire. wire.OpReply intentionally
// has no working encodePayload (this library only ever decodes that
// opcode), so the fake server standing in for a real server here can't
// use the library's own Encode and builds the bytes itself instead.
func encodeRawOpReply(requestID, responseTo int32) []byte {
	payload := make([]byte, 0, 20)
	payload = binary.LittleEndian.AppendUint32(payload, 0)  // response_flags
	payload = binary.LittleEndian.AppendUint64(payload, 0)  // cursor_id
	payload = binary.LittleEndian.AppendUint32(payload, 0)  // starting_from
	payload = binary.LittleEndian.AppendUint32(payload, 0)  // number_returned

	total := 16 + len(payload)
	frame := make([]byte, 0, total)
	frame = binary.LittleEndian.AppendUint32(frame, uint32(total))
	frame = binary.LittleEndian.AppendUint32(frame, uint32(requestID))
	frame = binary.LittleEndian.AppendUint32(frame, uint32(responseTo))
	frame = binary.LittleEndian.AppendUint32(frame, uint32(wire.OpCodeReply))
	frame = append(frame, payload...)
	return frame
}

// TestRoundTripOverPipe drives a real Connection across a net.Pipe: the
// "server" side reads whatever the client submits and hand-writes back
// a matching OP_REPLY, exercising the full encode/write/read/decode
// path end to end.
func TestRoundTripOverPipe(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	client := New(clientConn)

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		buf := make([]byte, 4096)
		n, err := serverConn.Read(buf)
		if err != nil {
			return
		}
		frame, err := wire.DecodeFrame(buf[:n])
		if err != nil {
			return
		}
		_, _ = serverConn.Write(encodeRawOpReply(1, frame.Header.RequestID))
	}()

	doc := make([]byte, 0, 5)
	doc = append(doc, 5, 0, 0, 0, 0)
	query := &wire.OpQuery{FullCollectionName: "admin.$cmd", NumberToReturn: 1, Query: doc}
	frame := wire.NewFramedMessage(query, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	reply, err := client.Submit(ctx, frame)
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.IsType(t, &wire.OpReply{}, reply.Payload)

	<-serverDone
}

// TestReadLoopFiresEOFBeforeClose verifies a clean peer close drives
// HandleEOF before the HandleClose that tears the Connection down.
func TestReadLoopFiresEOFBeforeClose(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()

	client := New(clientConn)

	var eofFired bool
	disconnected := make(chan error, 1)
	client.OnEOF(func() { eofFired = true })
	client.OnDisconnected(func(err error) { disconnected <- err })

	serverConn.Close()

	select {
	case err := <-disconnected:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("connection never disconnected after peer close")
	}
	assert.True(t, eofFired, "HandleEOF should have run before HandleClose")
}
