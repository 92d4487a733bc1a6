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

import "encoding/binary"

// cursor reads fixed-size fields off a payload slice without copying.
// Unlike internal/zerocopy.Reader (which returns whatever is left when
// fewer than n bytes remain, fit for a live reassembly stream), a
// cursor errors on a short read: a payload region is already fully
// buffered by the time the codec sees it, so running out of bytes mid
// field is always a malformed frame (spec.md §3 invariant 2).
type cursor struct {
	b []byte
	i int
}

func newCursor(b []byte) *cursor {
	return &cursor{b: b}
}

// remaining returns the number of unread bytes.
func (c *cursor) remaining() int {
	return len(c.b) - c.i
}

// rest returns every remaining byte without advancing the cursor.
func (c *cursor) rest() []byte {
	return c.b[c.i:]
}

func (c *cursor) take(n int) ([]byte, bool) {
	if c.remaining() < n {
		return nil, false
	}
	b := c.b[c.i : c.i+n]
	c.i += n
	return b, true
}

func (c *cursor) skip(n int) bool {
	_, ok := c.take(n)
	return ok
}

func (c *cursor) readUint32() (uint32, bool) {
	b, ok := c.take(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

func (c *cursor) readInt32() (int32, bool) {
	v, ok := c.readUint32()
	return int32(v), ok
}

func (c *cursor) readUint64() (uint64, bool) {
	b, ok := c.take(8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}

func (c *cursor) readInt64() (int64, bool) {
	v, ok := c.readUint64()
	return int64(v), ok
}

func (c *cursor) readByte() (byte, bool) {
	b, ok := c.take(1)
	if !ok {
		return 0, false
	}
	return b[0], true
}

// readDocument reads one length-prefixed BSON document: the 4-byte
// little-endian total length (including itself) followed by the
// remainder of the document body, exactly as spec.md §4.1 describes.
func (c *cursor) readDocument() ([]byte, bool) {
	if c.remaining() < 4 {
		return nil, false
	}
	n := int(binary.LittleEndian.Uint32(c.b[c.i:]))
	if n < 5 {
		return nil, false
	}
	return c.take(n)
}

// readCString reads a NUL-terminated byte run per spec.md §9 open
// question 1 — the BSON C-string form, not the 4-byte-length-prefixed
// form some original_source/aiomongowire decoders mistakenly used.
func (c *cursor) readCString() (string, bool) {
	for j := c.i; j < len(c.b); j++ {
		if c.b[j] == 0 {
			s := string(c.b[c.i:j])
			c.i = j + 1
			return s, true
		}
	}
	return "", false
}

func appendUint32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendInt32(b []byte, v int32) []byte {
	return appendUint32(b, uint32(v))
}

func appendUint64(b []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendInt64(b []byte, v int64) []byte {
	return appendUint64(b, uint64(v))
}

// appendCString appends a NUL-terminated C-string, the counterpart of
// readCString.
func appendCString(b []byte, s string) []byte {
	b = append(b, s...)
	return append(b, 0)
}
