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
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

func init() {
	Register(&zstdCompressor{})
}

// zstdCompressor is compressor_id 3. The encoder and decoder are
// expensive to build and safe for concurrent use, so each is
// constructed once lazily and kept for the process lifetime.
type zstdCompressor struct {
	encOnce sync.Once
	enc     *zstd.Encoder
	encErr  error

	decOnce sync.Once
	dec     *zstd.Decoder
	decErr  error
}

func (*zstdCompressor) ID() byte     { return 3 }
func (*zstdCompressor) Name() string { return "zstd" }

func (z *zstdCompressor) encoder() (*zstd.Encoder, error) {
	z.encOnce.Do(func() {
		z.enc, z.encErr = zstd.NewWriter(nil)
	})
	return z.enc, z.encErr
}

func (z *zstdCompressor) decoder() (*zstd.Decoder, error) {
	z.decOnce.Do(func() {
		z.dec, z.decErr = zstd.NewReader(nil)
	})
	return z.dec, z.decErr
}

func (z *zstdCompressor) Compress(src []byte) ([]byte, error) {
	enc, err := z.encoder()
	if err != nil {
		return nil, errors.Wrap(err, "compress: zstd new encoder")
	}
	return enc.EncodeAll(src, nil), nil
}

func (z *zstdCompressor) Decompress(src []byte) ([]byte, error) {
	dec, err := z.decoder()
	if err != nil {
		return nil, errors.Wrap(err, "compress: zstd new decoder")
	}
	return dec.DecodeAll(src, nil)
}
