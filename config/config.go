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

// Package config loads the demo CLI's YAML configuration and layers
// command-line overrides on top of it.
package config

import (
	"github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"
	"github.com/mitchellh/mapstructure"
)

// Config wraps a ucfg.Config, the same thin convenience layer
// confengine.Config provided: named child lookup and struct unpacking
// by `config:"..."` tags.
type Config struct {
	conf *ucfg.Config
}

func New(conf *ucfg.Config) *Config {
	return &Config{conf: conf}
}

// LoadPath reads and parses a YAML config file.
func LoadPath(path string) (*Config, error) {
	conf, err := yaml.NewConfigWithFile(path, ucfg.PathSep("."))
	if err != nil {
		return nil, err
	}
	return New(conf), nil
}

// Unpack decodes the whole document into to.
func (c *Config) Unpack(to any) error {
	return c.conf.Unpack(to)
}

// UnpackChild decodes the named child section into to.
func (c *Config) UnpackChild(name string, to any) error {
	child, err := c.conf.Child(name, -1)
	if err != nil {
		return err
	}
	return child.Unpack(to)
}

// ApplyOverrides decodes loose key/value command-line overrides (as
// produced by repeated --set key=value flags) onto an already-unpacked
// struct. It uses mapstructure rather than go-ucfg's own Unpack because
// the source here is a flat map[string]any built up one flag at a time,
// not a parsed document — go-ucfg wants to own parsing from a source
// document, mapstructure is happy decoding an arbitrary map into a
// struct in place.
func ApplyOverrides(overrides map[string]any, to any) error {
	if len(overrides) == 0 {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		Result:           to,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(overrides)
}
