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

// Package compress implements the OP_COMPRESSED compressor axis.
//
// Unlike the opcode axis in package wire, which opcode a build supports
// is fixed at compile time, the set of compressors available genuinely
// varies: a build without cgo might drop zstd, a size-constrained build
// might keep only noop and snappy. Each backend self-registers from an
// init() in its own file, following the same pattern
// original_source/aiomongowire/compressor.py uses for its Compressor
// subclasses (there: __init_subclass__ hooks into a class-level
// registry; here: an init() populates a package-level map).
package compress

import "fmt"

// Compressor implements one OP_COMPRESSED compressor_id.
type Compressor interface {
	ID() byte
	Name() string
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
}

var registry = map[byte]Compressor{}

// Register adds a compressor under its ID. It panics on a duplicate ID:
// two backends claiming the same compressor_id is a build-time wiring
// bug, not a runtime condition to recover from.
func Register(c Compressor) {
	if _, exists := registry[c.ID()]; exists {
		panic(fmt.Sprintf("compress: compressor id %d already registered", c.ID()))
	}
	registry[c.ID()] = c
}

// Lookup resolves a compressor_id to its Compressor, if registered.
func Lookup(id byte) (Compressor, bool) {
	c, ok := registry[id]
	return c, ok
}
