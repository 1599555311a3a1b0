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

// Package schema validates format.Value trees against structural schemas.
//
// A schema in a conform config is normally example-shaped: it looks like the
// document it constrains, and every key it mentions is required:
//
//	schema:
//	  package:
//	    edition: "2021"
//
// Describe turns such an example into JSON Schema (2020-12): objects become
// `type: object` with all keys listed under `required`, and scalars and arrays
// become `const`. A schema object carrying a top-level `$schema` key is taken
// verbatim as a JSON Schema document instead.
//
// Validation is delegated to github.com/santhosh-tekuri/jsonschema/v6. Each
// leaf of its error tree becomes one message of the form
// "<json-pointer>: <reason>", for example:
//
//	/: missing property 'package'
//	/package/edition: value must be "2021"
package schema
