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

package zerocopy

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blockSize = 4096

func TestZeroCopy(t *testing.T) {
	t.Run("Read", func(t *testing.T) {
		n := 64
		buf := NewBuffer(bytes.Repeat([]byte("a"), n*blockSize))

		for i := 0; i < n; i++ {
			_, err := buf.Read(blockSize)
			assert.NoError(t, err)
		}
		_, err := buf.Read(1)
		assert.Equal(t, io.EOF, err)
	})

	t.Run("Close", func(t *testing.T) {
		buf := NewBuffer(bytes.Repeat([]byte("a"), 1024))
		buf.Close()
		_, err := buf.Read(1)
		assert.Equal(t, io.EOF, err)
	})
}

func TestBufferWriteAcrossPartialReads(t *testing.T) {
	buf := NewBuffer(nil)
	buf.Write([]byte{1, 2, 3})

	// Peek past what's been written fails without consuming anything.
	_, ok := buf.Peek(5)
	assert.False(t, ok)

	got, ok := buf.Peek(3)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, got)

	// A second Write before the first is drained must accumulate, not
	// replace — this is the case a multi-chunk frame reassembly relies on.
	buf.Write([]byte{4, 5})

	got, ok = buf.Peek(5)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, got)

	read, err := buf.Read(5)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, read)

	_, ok = buf.Peek(1)
	assert.False(t, ok)
}

func TestBufferWriteReplacesWhenDrained(t *testing.T) {
	buf := NewBuffer([]byte{1, 2, 3})
	_, err := buf.Read(3)
	require.NoError(t, err)

	buf.Write([]byte{9, 9})
	got, ok := buf.Peek(2)
	require.True(t, ok)
	assert.Equal(t, []byte{9, 9}, got)
}

func BenchmarkZeroCopyBuffer(b *testing.B) {
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			buf := NewBuffer(nil)
			buf.Write(bytes.Repeat([]byte("a"), 1500))
			for {
				data, err := buf.Read(blockSize)
				if err != nil {
					break
				}
				_ = data // 避免编译器优化
			}
		}
	})
}

func BenchmarkBuffer(b *testing.B) {
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			buf := bytes.NewBuffer(nil)
			buf.Write(bytes.Repeat([]byte("a"), 1500))
			for {
				data := make([]byte, blockSize)
				_, err := buf.Read(data)
				if err != nil {
					break
				}
			}
		}
	})
}
