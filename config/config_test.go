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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverSection struct {
	Address string `config:"address"`
	Pprof   bool   `config:"pprof"`
}

type document struct {
	Server serverSection `config:"server"`
}

func TestLoadPathAndUnpack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mongowire.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  address: 127.0.0.1:9090\n  pprof: true\n"), 0o600))

	conf, err := LoadPath(path)
	require.NoError(t, err)

	var doc document
	require.NoError(t, conf.Unpack(&doc))
	assert.Equal(t, "127.0.0.1:9090", doc.Server.Address)
	assert.True(t, doc.Server.Pprof)
}

func TestUnpackChild(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mongowire.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  address: 0.0.0.0:8080\n"), 0o600))

	conf, err := LoadPath(path)
	require.NoError(t, err)

	var sec serverSection
	require.NoError(t, conf.UnpackChild("server", &sec))
	assert.Equal(t, "0.0.0.0:8080", sec.Address)
}

func TestApplyOverrides(t *testing.T) {
	sec := serverSection{Address: "127.0.0.1:9090"}
	err := ApplyOverrides(map[string]any{"address": "0.0.0.0:1234", "pprof": "true"}, &sec)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:1234", sec.Address)
	assert.True(t, sec.Pprof)
}

func TestApplyOverridesNoopOnEmpty(t *testing.T) {
	sec := serverSection{Address: "unchanged"}
	require.NoError(t, ApplyOverrides(nil, &sec))
	assert.Equal(t, "unchanged", sec.Address)
}
