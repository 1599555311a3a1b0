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

// Package config defines the conform configuration document and the rules
// it declares.
//
// A document is YAML with two optional top-level keys:
//
//	config:
//	- file: Cargo.toml
//	  format: toml
//	  schema:                   # every key below must be present and equal
//	    package:
//	      edition: "2021"
//	- file: Cargo.lock
//	  exists: true
//	- file: src/lib.rs
//	  matches-regex: '(?m)^use'
//
//	include:                    # merged depth-first after this document's rules
//	- ./shared/conform.yaml
//	- https://example.com/another-conform.yaml
//
// Each rule combines any subset of constraints; a rule without constraints
// is accepted and never produces a problem. Regexes and schemas are compiled
// while decoding so a broken rule fails the whole document, not one file.
package config
