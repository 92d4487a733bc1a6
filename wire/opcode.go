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

// Package wire implements the client-side MongoDB wire protocol: a
// family of opcode-discriminated payload variants and the framed
// message envelope that carries exactly one of them.
//
// https://www.mongodb.com/docs/manual/reference/mongodb-wire-protocol/
package wire

// OpCode identifies the payload variant carried by a FramedMessage.
type OpCode int32

const (
	OpCodeReply       OpCode = 1
	OpCodeUpdate      OpCode = 2001
	OpCodeInsert      OpCode = 2002
	OpCodeReserved    OpCode = 2003
	OpCodeQuery       OpCode = 2004
	OpCodeGetMore     OpCode = 2005
	OpCodeDelete      OpCode = 2006
	OpCodeKillCursors OpCode = 2007
	OpCodeCompressed  OpCode = 2012
	OpCodeMsg         OpCode = 2013
)

var opCodeNames = map[OpCode]string{
	OpCodeReply:       "OP_REPLY",
	OpCodeUpdate:      "OP_UPDATE",
	OpCodeInsert:      "OP_INSERT",
	OpCodeReserved:    "RESERVED",
	OpCodeQuery:       "OP_QUERY",
	OpCodeGetMore:     "OP_GET_MORE",
	OpCodeDelete:      "OP_DELETE",
	OpCodeKillCursors: "OP_KILL_CURSORS",
	OpCodeCompressed:  "OP_COMPRESSED",
	OpCodeMsg:         "OP_MSG",
}

// String implements fmt.Stringer, returning the opcode's protocol name
// or "OP_UNKNOWN" for values outside the enum.
func (c OpCode) String() string {
	if name, ok := opCodeNames[c]; ok {
		return name
	}
	return "OP_UNKNOWN"
}

// Valid reports whether c is one of the opcodes in this enum,
// including RESERVED. RESERVED has no payload variant, so a frame
// carrying it is still rejected by DecodeFrame with UnknownOpcodeError.
func (c OpCode) Valid() bool {
	_, ok := opCodeNames[c]
	return ok
}
