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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/conform/pkg/errors"
)

// Format names a serialization format a target file can be declared as.
type Format string

const (
	// FormatYAML parses documents with gopkg.in/yaml.v3.
	FormatYAML Format = "yaml"
	// FormatJSON parses documents with encoding/json.
	FormatJSON Format = "json"
	// FormatTOML parses documents with github.com/BurntSushi/toml.
	FormatTOML Format = "toml"
)

// IsUnknown reports whether f is not one of the supported formats.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatYAML, FormatJSON, FormatTOML:
		return false
	default:
		return true
	}
}

// DisplayName returns the upper-case name used in problem messages.
func (f Format) DisplayName() string {
	return strings.ToUpper(string(f))
}

// SupportedFormats returns the accepted format names.
func SupportedFormats() []string {
	return []string{
		string(FormatYAML),
		string(FormatJSON),
		string(FormatTOML),
	}
}

// ParseFormat converts a case-insensitive name into a Format.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if f.IsUnknown() {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown format %q (supported: %s)", name, strings.Join(SupportedFormats(), ", ")),
			map[string]any{"format": name})
	}
	return f, nil
}

// FormatFromPath determines the format from a file extension:
//   - .yaml, .yml → FormatYAML
//   - .json → FormatJSON
//   - .toml → FormatTOML
//
// Returns an empty Format for anything else. Matching is case-insensitive.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return ""
	}
}

// Parse decodes data as format f. Syntax errors are returned as
// ErrCodeInvalidRequest with the parser error as cause.
func Parse(data []byte, f Format) (Value, error) {
	var (
		raw any
		err error
	)

	switch f {
	case FormatYAML:
		raw, err = decodeYAML(data)
	case FormatJSON:
		raw, err = decodeJSON(data)
	case FormatTOML:
		raw, err = decodeTOML(data)
	default:
		return Value{}, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported format for parsing: %q", f))
	}
	if err != nil {
		return Value{}, errors.Wrap(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid %s", f.DisplayName()), err)
	}

	v, err := FromAny(raw)
	if err != nil {
		return Value{}, errors.Wrap(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported %s content", f.DisplayName()), err)
	}

	slog.Debug("parsed document", "format", string(f), "kind", v.Kind().String(), "size", len(data))
	return v, nil
}

// decodeYAML reads the first document; an empty input is null.
func decodeYAML(data []byte) (any, error) {
	var out any
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&out); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func decodeJSON(data []byte) (any, error) {
	var out any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
		}
		return nil, err
	}
	return out, nil
}

func decodeTOML(data []byte) (any, error) {
	out := make(map[string]any)
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
