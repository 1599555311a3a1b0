// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/conform/pkg/errors"
	"github.com/NVIDIA/conform/pkg/format"
)

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(`
config:
- file: Cargo.toml
  format: toml
  schema:
    package:
      edition: "2021"
- file: Cargo.lock
  exists: true
- file: src/lib.rs
  matches-regex: '(?m)^use'
- file: values.yaml
  schema:
    replicas: 3
- file: notes.txt
include:
- ./shared.yaml
- https://example.com/another-conform.yaml
`))
	require.NoError(t, err)
	require.Len(t, doc.Config, 5)
	assert.Equal(t, []string{"./shared.yaml", "https://example.com/another-conform.yaml"}, doc.Include)

	cargo := doc.Config[0]
	assert.Equal(t, "Cargo.toml", cargo.File)
	assert.Equal(t, format.FormatTOML, cargo.Format)
	require.NotNil(t, cargo.Schema)
	assert.Nil(t, cargo.Exists)

	lock := doc.Config[1]
	assert.Equal(t, ptr.To(true), lock.Exists)
	assert.True(t, lock.HasConstraints())
	assert.False(t, lock.NeedsContent())

	lib := doc.Config[2]
	require.NotNil(t, lib.MatchesRegex)
	assert.Equal(t, "(?m)^use", lib.MatchesRegex.String())
	assert.True(t, lib.NeedsContent())

	values := doc.Config[3]
	assert.Equal(t, format.FormatYAML, values.Format, "format inferred from extension")
	assert.NotNil(t, values.Schema)

	notes := doc.Config[4]
	assert.False(t, notes.HasConstraints())
}

func TestParseEmpty(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"explicit empty lists", "config: []\ninclude: []\n"},
		{"comment only", "# nothing here\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Empty(t, doc.Config)
			assert.Empty(t, doc.Include)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{
			name:     "not yaml",
			input:    "config: [",
			contains: "invalid config document",
		},
		{
			name:     "missing file",
			input:    "config:\n- exists: true\n",
			contains: `missing required key "file"`,
		},
		{
			name:     "invalid regex",
			input:    "config:\n- file: a\n  matches-regex: '(['\n",
			contains: "invalid matches-regex",
		},
		{
			name:     "unknown format",
			input:    "config:\n- file: a\n  format: ini\n  schema: {a: 1}\n",
			contains: "unknown format",
		},
		{
			name:     "schema without inferable format",
			input:    "config:\n- file: Makefile\n  schema: {a: 1}\n",
			contains: "no format",
		},
		{
			name:     "unknown rule key",
			input:    "config:\n- file: a\n  exist: true\n",
			contains: `unknown rule key "exist"`,
		},
		{
			name:     "unknown top-level key",
			input:    "rules: []\n",
			contains: "invalid config document",
		},
		{
			name:     "rule is not a mapping",
			input:    "config:\n- a.txt\n",
			contains: "rule must be a mapping",
		},
		{
			name:     "empty include",
			input:    "include:\n- \"\"\n",
			contains: "include[0] is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
		})
	}
}

func TestParseNullSchemaIsIgnored(t *testing.T) {
	doc, err := Parse([]byte("config:\n- file: a.txt\n  schema:\n"))
	require.NoError(t, err)
	require.Len(t, doc.Config, 1)
	assert.Nil(t, doc.Config[0].Schema)
	assert.Empty(t, doc.Config[0].Format)
}

func TestEffectiveLen(t *testing.T) {
	var nilCfg *Effective
	assert.Equal(t, 0, nilCfg.Len())
	assert.Equal(t, 2, (&Effective{Rules: []FileRule{{File: "a"}, {File: "b"}}}).Len())
}
