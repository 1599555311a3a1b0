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

package schema

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/NVIDIA/conform/pkg/errors"
	"github.com/NVIDIA/conform/pkg/format"
)

const (
	// DialectKey marks a schema value as an explicit JSON Schema document.
	DialectKey = "$schema"

	resourceURL = "https://conform.local/schema.json"
)

var printer = message.NewPrinter(language.English)

// Schema is a compiled schema ready to validate documents. It is safe for
// concurrent use.
type Schema struct {
	source   format.Value
	explicit bool
	compiled *jsonschema.Schema
}

// Compile builds a Schema from a config value. Example-shaped values are
// described first; values with a top-level $schema key are compiled as-is.
func Compile(v format.Value) (*Schema, error) {
	_, explicit := v.Get(DialectKey)

	var doc any
	if explicit {
		doc = v.Interface()
	} else {
		doc = Describe(v)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(resourceURL, doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid schema document", err)
	}

	compiled, err := c.Compile(resourceURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to compile schema", err)
	}

	return &Schema{
		source:   v,
		explicit: explicit,
		compiled: compiled,
	}, nil
}

// Explicit reports whether the schema was given as a JSON Schema document.
func (s *Schema) Explicit() bool { return s.explicit }

// Source returns the schema value as written in the config.
func (s *Schema) Source() format.Value { return s.source }

// Validate checks v against the schema and returns one message per
// violation. An empty result means v conforms.
func (s *Schema) Validate(v format.Value) []string {
	err := s.compiled.Validate(v.Interface())
	if err == nil {
		return nil
	}

	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{err.Error()}
	}

	var leaves []*jsonschema.ValidationError
	collectLeaves(verr, &leaves)

	// Engine order is kept within one location; locations are ordered so the
	// output does not depend on map iteration inside the engine.
	sort.SliceStable(leaves, func(i, j int) bool {
		return format.Pointer(leaves[i].InstanceLocation) < format.Pointer(leaves[j].InstanceLocation)
	})

	msgs := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		msgs = append(msgs, fmt.Sprintf("%s: %s",
			format.Pointer(leaf.InstanceLocation),
			leaf.ErrorKind.LocalizedString(printer)))
	}

	slog.Debug("schema violations", "count", len(msgs))
	return msgs
}

func collectLeaves(e *jsonschema.ValidationError, out *[]*jsonschema.ValidationError) {
	if len(e.Causes) == 0 {
		*out = append(*out, e)
		return
	}
	for _, c := range e.Causes {
		collectLeaves(c, out)
	}
}
