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

// Package conn implements the client-side connection multiplexer: one
// send loop, one receive path, and a pending-reply table that pairs
// submitted frames with their eventual OP_REPLY / OP_MSG response by
// request id.
package conn

// Transport is the byte-oriented channel a Connection writes frames
// to. It owns nothing about framing; Connection does all of that.
// conn/nettransport adapts a net.Conn to this interface and drives
// HandleData/HandleEOF/HandleClose from its own read loop.
type Transport interface {
	Write(b []byte) error
}
