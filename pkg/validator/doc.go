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

// Package validator evaluates file rules against a directory tree.
//
// Each rule names a file relative to the context root and declares any of:
//
//   - exists: the file must (true) or must not (false) be present
//   - matches-regex: the file's text must contain a match
//   - format: the file must parse as YAML, JSON or TOML
//   - schema: the parsed document must satisfy a schema
//
// Every declared check runs, so one rule can yield several problems. A file
// that is required, or that has content checks, but is absent yields a single
// not-found problem and no further checks. Files are read at most once and
// never modified.
//
// Rules are evaluated concurrently, bounded by WithConcurrency. Problems are
// returned in rule order regardless of completion order.
//
// Usage:
//
//	v := validator.New(validator.WithContextRoot("./repo"))
//	problems, err := v.Validate(ctx, &resolved.Config)
package validator
