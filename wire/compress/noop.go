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

func init() {
	Register(noop{})
}

// noop is compressor_id 0: bytes pass through unchanged. A server can
// legally wrap every OP_MSG in OP_COMPRESSED with compressor "noop";
// clients must be able to round-trip it.
type noop struct{}

func (noop) ID() byte   { return 0 }
func (noop) Name() string { return "noop" }

func (noop) Compress(src []byte) ([]byte, error) {
	return src, nil
}

func (noop) Decompress(src []byte) ([]byte, error) {
	return src, nil
}
