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
	"bytes"
	"fmt"
	"io"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/conform/pkg/errors"
	"github.com/NVIDIA/conform/pkg/format"
	"github.com/NVIDIA/conform/pkg/schema"
)

// Document is one parsed configuration document.
type Document struct {
	// Config holds the rules declared by this document, in order.
	Config []FileRule `yaml:"config"`

	// Include lists further documents to merge, as paths or URLs.
	Include []string `yaml:"include"`
}

// FileRule is the set of constraints declared against one target file.
type FileRule struct {
	// File is the target path relative to the context root.
	File string

	// Exists requires the file to exist (true) or to be absent (false).
	Exists *bool

	// MatchesRegex must match somewhere in the file's text.
	MatchesRegex *regexp.Regexp

	// Format is the serialization the file must parse as.
	Format format.Format

	// Schema constrains the parsed document. Requires Format.
	Schema *schema.Schema

	// Origin is the key of the config source that declared the rule.
	Origin string
}

// HasConstraints reports whether the rule declares any check.
func (r FileRule) HasConstraints() bool {
	return r.Exists != nil || r.MatchesRegex != nil || r.Format != ""
}

// NeedsContent reports whether evaluating the rule reads the file.
func (r FileRule) NeedsContent() bool {
	return r.MatchesRegex != nil || r.Format != ""
}

type rawRule struct {
	File         string    `yaml:"file"`
	Exists       *bool     `yaml:"exists"`
	MatchesRegex *string   `yaml:"matches-regex"`
	Format       string    `yaml:"format"`
	Schema       yaml.Node `yaml:"schema"`
}

var ruleKeys = map[string]bool{
	"file":          true,
	"exists":        true,
	"matches-regex": true,
	"format":        true,
	"schema":        true,
}

// UnmarshalYAML decodes and compiles a rule.
func (r *FileRule) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: rule must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !ruleKeys[key.Value] {
			return fmt.Errorf("line %d: unknown rule key %q", key.Line, key.Value)
		}
	}

	var raw rawRule
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.File == "" {
		return fmt.Errorf("line %d: rule is missing required key \"file\"", node.Line)
	}

	rule := FileRule{
		File:   raw.File,
		Exists: raw.Exists,
	}

	if raw.MatchesRegex != nil {
		re, err := regexp.Compile(*raw.MatchesRegex)
		if err != nil {
			return fmt.Errorf("line %d: rule for %q has invalid matches-regex: %w", node.Line, raw.File, err)
		}
		rule.MatchesRegex = re
	}

	if raw.Format != "" {
		f, err := format.ParseFormat(raw.Format)
		if err != nil {
			return fmt.Errorf("line %d: rule for %q: %w", node.Line, raw.File, err)
		}
		rule.Format = f
	}

	if !raw.Schema.IsZero() && raw.Schema.Tag != "!!null" {
		if rule.Format == "" {
			rule.Format = format.FormatFromPath(raw.File)
			if rule.Format == "" {
				return fmt.Errorf("line %d: rule for %q declares a schema but no format, and none can be inferred from the file extension",
					node.Line, raw.File)
			}
		}

		var example any
		if err := raw.Schema.Decode(&example); err != nil {
			return fmt.Errorf("line %d: rule for %q has invalid schema: %w", node.Line, raw.File, err)
		}
		v, err := format.FromAny(example)
		if err != nil {
			return fmt.Errorf("line %d: rule for %q has invalid schema: %w", node.Line, raw.File, err)
		}
		s, err := schema.Compile(v)
		if err != nil {
			return fmt.Errorf("line %d: rule for %q: %w", node.Line, raw.File, err)
		}
		rule.Schema = s
	}

	*r = rule
	return nil
}

// Parse decodes a configuration document. Unknown top-level or rule keys are
// rejected. An empty input is an empty document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid config document", err)
	}

	for i, inc := range doc.Include {
		if inc == "" {
			return nil, errors.New(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid config document: include[%d] is empty", i))
		}
	}

	return &doc, nil
}

// Effective is the flattened, ordered rule list of a fully resolved
// configuration. It is not modified after resolution.
type Effective struct {
	Rules []FileRule
}

// Len returns the number of rules.
func (e *Effective) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Rules)
}
