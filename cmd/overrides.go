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

package cmd

import (
	"strings"

	"github.com/packetd/mongowire/common"
)

// parseSetOverrides turns repeated "--set key=value" flags into the
// flat common.Options map config.ApplyOverrides expects. Entries
// without an '=' are ignored.
func parseSetOverrides(raw []string) common.Options {
	overrides := common.NewOptions()
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		overrides.Merge(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return overrides
}
