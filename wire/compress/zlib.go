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
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

func init() {
	Register(zlibCompressor{})
}

// zlibCompressor is compressor_id 2. It uses klauspost/compress's zlib,
// a drop-in for the standard library package with a faster deflate
// implementation, rather than compress/zlib itself.
type zlibCompressor struct{}

func (zlibCompressor) ID() byte     { return 2 }
func (zlibCompressor) Name() string { return "zlib" }

func (zlibCompressor) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(src); err != nil {
		return nil, errors.Wrap(err, "compress: zlib write")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "compress: zlib close")
	}
	return buf.Bytes(), nil
}

func (zlibCompressor) Decompress(src []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, errors.Wrap(err, "compress: zlib new reader")
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "compress: zlib read")
	}
	return out, nil
}
