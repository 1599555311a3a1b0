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

// Package format parses YAML, JSON and TOML documents into a single
// format-agnostic value tree.
//
// The format is always chosen by the caller; bytes are never sniffed, so a
// JSON file declared as TOML fails to parse instead of silently succeeding:
//
//	v, err := format.Parse(data, format.FormatTOML)
//	if err != nil {
//	    // err wraps the parser's syntax error
//	}
//
// Value is a tagged union over null, bool, number, string, array and object.
// Numbers keep their decimal literal so integers from TOML and floats from
// YAML compare exactly. Value.Interface converts the tree to plain Go values
// (map[string]any, []any, json.Number, ...) for consumers such as the schema
// engine.
package format
