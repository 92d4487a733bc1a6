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
	"math/rand"
)

// headerLength is the fixed 16-byte standard message header: length
// (4) + requestID (4) + responseTo (4) + opcode (4). Length and
// opcode live outside MessageHeader itself — they're owned by
// FramedMessage, since neither is meaningful without the payload.
const headerLength = 16

// MessageHeader carries the two fields that correlate a request with
// its eventual reply.
type MessageHeader struct {
	RequestID  int32
	ResponseTo int32
}

// NewMessageHeader builds a client-side header. If requestID is nil, a
// fresh id is drawn uniformly from [0, 2^31) per spec.md §3; ResponseTo
// defaults to 0, as it always does for an outbound client message.
func NewMessageHeader(requestID *int32) MessageHeader {
	id := rand.Int31()
	if requestID != nil {
		id = *requestID
	}
	return MessageHeader{RequestID: id, ResponseTo: 0}
}

func decodeHeader(c *cursor) (MessageHeader, bool) {
	reqID, ok := c.readInt32()
	if !ok {
		return MessageHeader{}, false
	}
	rspTo, ok := c.readInt32()
	if !ok {
		return MessageHeader{}, false
	}
	return MessageHeader{RequestID: reqID, ResponseTo: rspTo}, true
}

func (h MessageHeader) appendTo(b []byte) []byte {
	b = appendInt32(b, h.RequestID)
	b = appendInt32(b, h.ResponseTo)
	return b
}
