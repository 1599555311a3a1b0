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
	"github.com/NVIDIA/conform/pkg/format"
)

// Describe converts an example-shaped value into a JSON Schema document.
//
//   - objects: type object, every key described recursively and required
//   - null: type null
//   - everything else: const equal to the example
func Describe(example format.Value) map[string]any {
	switch example.Kind() {
	case format.KindObject:
		keys := example.Keys()
		props := make(map[string]any, len(keys))
		required := make([]any, 0, len(keys))
		for _, k := range keys {
			field, _ := example.Get(k)
			props[k] = Describe(field)
			required = append(required, k)
		}
		return map[string]any{
			"type":       "object",
			"properties": props,
			"required":   required,
		}
	case format.KindNull:
		return map[string]any{"type": "null"}
	default:
		return map[string]any{"const": example.Interface()}
	}
}
