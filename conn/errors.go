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

package conn

import "fmt"

// NotConnectedError is returned by Submit before the first connection
// and after teardown; only Connected → Disconnected is observable.
type NotConnectedError struct{}

func (NotConnectedError) Error() string { return "conn: not connected" }

// DuplicateRequestIDError is returned when Submit is given a frame
// whose request id already has a live pending slot. spec.md §9 open
// question 3 requires this to be an error rather than silently
// overwriting (and orphaning) the earlier waiter.
type DuplicateRequestIDError struct {
	RequestID int32
}

func (e *DuplicateRequestIDError) Error() string {
	return fmt.Sprintf("conn: duplicate request id %d already pending", e.RequestID)
}

// DisconnectedError is delivered to every pending waiter at teardown.
type DisconnectedError struct {
	Err error // the transport-reported close cause, if any
}

func (e *DisconnectedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("conn: disconnected: %v", e.Err)
	}
	return "conn: disconnected"
}

func (e *DisconnectedError) Unwrap() error { return e.Err }

// WriteError wraps a transport.Write failure delivered to the frame's
// pending waiter, if it had one.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("conn: write: %v", e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// UnexpectedResponseError is logged (never returned to a caller) when a
// decoded frame's response_to names no pending request.
type UnexpectedResponseError struct {
	ResponseTo int32
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("conn: unexpected response to unknown request id %d", e.ResponseTo)
}
