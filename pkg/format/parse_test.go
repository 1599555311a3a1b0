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

package format

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/conform/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		want   any
	}{
		{
			name:   "yaml mapping",
			format: FormatYAML,
			input:  "package:\n  edition: \"2021\"\n  publish: false\n",
			want: map[string]any{
				"package": map[string]any{"edition": "2021", "publish": false},
			},
		},
		{
			name:   "yaml empty document is null",
			format: FormatYAML,
			input:  "",
			want:   nil,
		},
		{
			name:   "yaml numbers keep integer literal",
			format: FormatYAML,
			input:  "replicas: 3\nratio: 0.5\n",
			want: map[string]any{
				"replicas": json.Number("3"),
				"ratio":    json.Number("0.5"),
			},
		},
		{
			name:   "json document",
			format: FormatJSON,
			input:  `{"name": "conform", "tags": ["a", "b"], "count": 10, "extra": null}`,
			want: map[string]any{
				"name":  "conform",
				"tags":  []any{"a", "b"},
				"count": json.Number("10"),
				"extra": nil,
			},
		},
		{
			name:   "toml tables",
			format: FormatTOML,
			input:  "[hello]\nworld = true\n",
			want: map[string]any{
				"hello": map[string]any{"world": true},
			},
		},
		{
			name:   "toml array of tables",
			format: FormatTOML,
			input:  "[[bin]]\nname = \"a\"\n\n[[bin]]\nname = \"b\"\n",
			want: map[string]any{
				"bin": []any{
					map[string]any{"name": "a"},
					map[string]any{"name": "b"},
				},
			},
		},
		{
			name:   "toml integer",
			format: FormatTOML,
			input:  "port = 8080\n",
			want:   map[string]any{"port": json.Number("8080")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse([]byte(tt.input), tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Interface())
		})
	}
}

func TestParseRejectsMismatchedContent(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"json declared as toml", FormatTOML, `{"a": 1}`},
		{"toml declared as json", FormatJSON, "[hello]\nworld = true\n"},
		{"broken yaml", FormatYAML, "a: [1, 2\n"},
		{"json trailing data", FormatJSON, `{"a": 1} {"b": 2}`},
		{"toml nan", FormatTOML, "x = nan\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), tt.format)
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
		})
	}
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := Parse([]byte("a: 1"), Format("xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" TOML ")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, f)

	_, err = ParseFormat("ini")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supported: yaml, json, toml")
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"Cargo.toml", FormatTOML},
		{"package.json", FormatJSON},
		{"conform.yaml", FormatYAML},
		{"ci.YML", FormatYAML},
		{"/path/to/CONFIG.JSON", FormatJSON},
		{"README.md", ""},
		{"Makefile", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFromPath(tt.path))
		})
	}
}

func TestFromAny(t *testing.T) {
	ts := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

	v, err := FromAny(map[any]any{
		"when":  ts,
		1:       "one",
		"list":  []map[string]any{{"k": uint64(7)}},
		"small": int8(-2),
	})
	require.NoError(t, err)
	require.Equal(t, KindObject, v.Kind())
	assert.Equal(t, []string{"1", "list", "small", "when"}, v.Keys())

	when, ok := v.Get("when")
	require.True(t, ok)
	s, ok := when.AsString()
	require.True(t, ok)
	assert.Equal(t, "2025-01-15T10:30:00Z", s)

	list, _ := v.Get("list")
	require.Equal(t, 1, list.Len())
	k, _ := list.Items()[0].Get("k")
	n, ok := k.AsNumber()
	require.True(t, ok)
	assert.Equal(t, json.Number("7"), n)

	_, err = FromAny(struct{}{})
	assert.Error(t, err)
}

func TestValueAccessors(t *testing.T) {
	v := Object(map[string]Value{
		"on":   Bool(true),
		"name": String("x"),
		"nums": Array(Int(1), Int(2)),
	})

	assert.Equal(t, 3, v.Len())
	on, _ := v.Get("on")
	b, ok := on.AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = v.Get("missing")
	assert.False(t, ok)

	assert.True(t, Null().IsNull())
	assert.Equal(t, "null", Null().Kind().String())
	assert.Equal(t, `{"name":"x","nums":[1,2],"on":true}`, v.String())

	_, err := Float(1.0 / zero())
	assert.Error(t, err)
}

func zero() float64 { return 0 }

func TestPointer(t *testing.T) {
	assert.Equal(t, "/", Pointer(nil))
	assert.Equal(t, "/package/edition", Pointer([]string{"package", "edition"}))
	assert.Equal(t, "/a~1b/c~0d", Pointer([]string{"a/b", "c~d"}))
}
