// Copyright (c) 2018 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

// Load reads the configuration document from a file and parses it. The raw
// text is returned alongside the parsed document so the caller can persist
// or report exactly what was applied. JSON documents parse as-is; YAML is
// accepted as well since it is a superset here.
func Load(path string) (*SwitchConfig, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "unable to read %s", path)
	}
	cfg, err := Parse(raw)
	if err != nil {
		return nil, "", errors.Wrapf(err, "unable to parse %s", path)
	}
	return cfg, string(raw), nil
}

// Parse decodes a configuration document, applying the scalar defaults for
// omitted fields.
func Parse(raw []byte) (*SwitchConfig, error) {
	cfg := NewSwitchConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrap(err, "decoding switch config")
	}
	return cfg, nil
}
