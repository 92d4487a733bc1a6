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

package compress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinCompressorsRegistered(t *testing.T) {
	for _, id := range []byte{0, 1, 2, 3} {
		_, ok := Lookup(id)
		assert.True(t, ok, "compressor id %d should be registered", id)
	}
}

func TestLookupUnknownID(t *testing.T) {
	_, ok := Lookup(99)
	assert.False(t, ok)
}

func TestRegisterDuplicateIDPanics(t *testing.T) {
	assert.Panics(t, func() {
		Register(noop{})
	})
}

func TestRoundTripEveryCompressor(t *testing.T) {
	src := []byte("the quick brown fox jumps over the lazy dog, repeated: the quick brown fox jumps over the lazy dog")

	for _, id := range []byte{0, 1, 2, 3} {
		c, ok := Lookup(id)
		require.True(t, ok)

		compressed, err := c.Compress(src)
		require.NoError(t, err, c.Name())

		decompressed, err := c.Decompress(compressed)
		require.NoError(t, err, c.Name())
		assert.Equal(t, src, decompressed, c.Name())
	}
}

func TestNoopIsIdentity(t *testing.T) {
	src := []byte("abc")
	c, ok := Lookup(0)
	require.True(t, ok)

	compressed, err := c.Compress(src)
	require.NoError(t, err)
	assert.Equal(t, src, compressed)
}
