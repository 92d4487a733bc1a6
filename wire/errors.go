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
	"fmt"

	"github.com/pkg/errors"
)

func newError(format string, args ...any) error {
	return errors.Errorf("wire: "+format, args...)
}

// UnknownOpcodeError is returned when a frame header carries an opcode
// not present in the OpCode enum.
type UnknownOpcodeError struct {
	OpCode int32
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("wire: unknown opcode %d", e.OpCode)
}

// DecodeError wraps a malformed-payload failure: too few bytes, a
// document length mismatch, an unknown section tag, an unknown
// compressor id, or trailing bytes left over inside a frame.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("wire: decode %s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErrorf(op, format string, args ...any) error {
	return &DecodeError{Op: op, Err: errors.Errorf(format, args...)}
}

// EncodeUnsupportedError is returned by variants spec.md §3 invariant
// 5 forbids the client from encoding (OP_REPLY) or decoding in the
// outbound direction (OP_MSG has no such restriction; only OP_REPLY
// is decode-only).
type EncodeUnsupportedError struct {
	OpCode OpCode
}

func (e *EncodeUnsupportedError) Error() string {
	return fmt.Sprintf("wire: %s cannot be encoded by a client", e.OpCode)
}
