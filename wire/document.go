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

// Document is an opaque, already-length-prefixed BSON byte sequence.
// The codec never looks past the leading 4-byte length to understand
// its contents (spec.md §3 invariant 2); it only needs to know how
// many bytes to slice off the payload.
type Document = []byte

// DocumentCodec is the one collaborator this package depends on to
// make sense of document payloads. Any conformant BSON implementation
// may be plugged in via SetDocumentCodec; Document itself is opaque to
// this package, so encode/decode here never need to parse it.
//
// This mirrors original_source/aiomongowire's pluggable BsonTools: the
// wire codec only ever deals in raw document bytes, never in a
// concrete document type.
type DocumentCodec interface {
	// EncodeDocument is kept for symmetry with DecodeDocument and
	// interface completeness; the wire codec itself never needs to
	// construct a Document from a richer value because payload
	// variants already carry Documents verbatim. It is exposed so a
	// caller building, say, an OpQuery from a map can do so without
	// reaching for the concrete implementation package directly.
	EncodeDocument(v any) (Document, error)
	DecodeDocument(raw Document, v any) error
}

var docCodec DocumentCodec

// SetDocumentCodec installs the DocumentCodec used by Encode/Decode
// helpers that accept or produce typed values instead of raw
// Documents. Call it once at process start, before encoding or
// decoding any payload that uses the typed helpers.
func SetDocumentCodec(c DocumentCodec) {
	docCodec = c
}

// EncodeDocument encodes v into a raw Document using the installed
// DocumentCodec; it panics if none has been installed, the same way a
// nil pointer dereference would — this is a programmer error, not a
// runtime condition a caller can recover from mid-request.
func EncodeDocument(v any) (Document, error) {
	if docCodec == nil {
		panic("wire: no DocumentCodec installed; call wire.SetDocumentCodec first")
	}
	return docCodec.EncodeDocument(v)
}

// DecodeDocument decodes a raw Document into v using the installed
// DocumentCodec.
func DecodeDocument(raw Document, v any) error {
	if docCodec == nil {
		panic("wire: no DocumentCodec installed; call wire.SetDocumentCodec first")
	}
	return docCodec.DecodeDocument(raw, v)
}
