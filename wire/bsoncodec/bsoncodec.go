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

// Package bsoncodec implements wire.DocumentCodec on top of
// go.mongodb.org/mongo-driver/bson, the BSON library the retrieved
// dependency pack already depends on (it's the teacher's own
// transitive dependency for parsing sniffed MongoDB traffic). It is
// the default codec; callers with a different BSON library can supply
// their own wire.DocumentCodec instead.
package bsoncodec

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/packetd/mongowire/wire"
)

// Codec is the go.mongodb.org/mongo-driver/bson-backed wire.DocumentCodec.
type Codec struct{}

var _ wire.DocumentCodec = Codec{}

// New returns the default codec and installs it as the package-level
// wire.DocumentCodec, so most programs need nothing more than:
//
//	bsoncodec.New()
func New() Codec {
	c := Codec{}
	wire.SetDocumentCodec(c)
	return c
}

// EncodeDocument marshals v to a length-prefixed BSON document.
func (Codec) EncodeDocument(v any) (wire.Document, error) {
	b, err := bson.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "bsoncodec: encode document")
	}
	return b, nil
}

// DecodeDocument unmarshals a length-prefixed BSON document into v.
// v is typically *bson.M, *bson.D, or a struct with `bson:"..."` tags.
func (Codec) DecodeDocument(raw wire.Document, v any) error {
	if err := bson.Unmarshal(raw, v); err != nil {
		return errors.Wrap(err, "bsoncodec: decode document")
	}
	return nil
}

// DecodeM is a convenience wrapper decoding raw into a bson.M, the
// shape most callers want for an arbitrary server reply or command
// document.
func DecodeM(raw wire.Document) (bson.M, error) {
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(err, "bsoncodec: decode document")
	}
	return m, nil
}
