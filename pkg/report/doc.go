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

// Package report aggregates conformance problems into a report.
//
// A Problem is one violation: a missing or disallowed file, a regex that does
// not match, a document that does not parse or does not satisfy its schema, or
// a configuration source that could not be fetched or parsed. Problems keep the
// order in which they were produced, which is the order of the effective rule
// list.
//
// Render writes the human-readable form:
//
//	File a.txt does not exist
//	Schema not matched in Cargo.toml: /package: missing property 'edition'
//	Found 2 problems
//
// Report wraps the same list with a resource header and a summary, and is what
// the CLI serializes for the json, yaml and table output formats:
//
//	r := report.New(problems, report.WithConfigSource("conform.yaml"))
//	os.Exit(r.ExitCode())
package report
