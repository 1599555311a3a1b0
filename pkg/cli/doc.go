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

/*
Package cli implements the conform command-line interface.

The root command resolves a configuration document, checks every rule it
declares against files under a context root and writes a report.

# Usage

Check the files under the current directory against ./conform.yaml:

	conform

Check a repository checkout against a remote configuration:

	conform --url https://example.com/conform.yaml --context ./repo

Read the configuration from a ConfigMap or an OCI artifact:

	conform --url cm://platform/conform-rules
	conform --url oci://ghcr.io/nvidia/conform/base:v1

Publish a local configuration document to a registry:

	conform publish --file conform.yaml oci://ghcr.io/nvidia/conform/base:v1

# Configuration Document

	config:
	  - file: README.md
	    exists: true
	  - file: .env
	    exists: false
	  - file: go.mod
	    matches-regex: '^module github\.com/'
	  - file: Cargo.toml
	    format: toml
	    schema:
	      package:
	        edition: "2021"
	include:
	  - shared/conform.yaml
	  - https://example.com/conform.yaml

Includes are resolved depth-first in declaration order. A document is only
loaded once, so include cycles are harmless. Relative includes resolve
against the including document's location.

# Flags

	--file, -f          Local configuration document (default: conform.yaml)
	--url, -u           Remote configuration document (http(s)://, cm://, oci://)
	--context, -c       Context root for rule paths (default: .)
	--format, -t        Report format: text, json, yaml, table (default: text)
	--output, -o        Report file (default: stdout)
	--concurrency       Parallel include fetches and rule evaluations (default: 8)
	--fetch-timeout     Time limit per remote fetch (default: 30s)
	--kubeconfig, -k    Kubeconfig for cm:// sources
	--plain-http        Use plain HTTP for oci:// registries
	--insecure-tls      Skip TLS verification for remote sources
	--metrics-file      Write Prometheus text-format run metrics
	--log-level         Log verbosity: debug, info, warn, error (default: warn)

Every flag can also be set through a CONFORM_ environment variable, for
example CONFORM_CONTEXT or CONFORM_FETCH_TIMEOUT. LOG_LEVEL is honored as
well.

# Exit Codes

	0  Every rule holds
	1  Problems were found
	2  Invalid arguments, or the configuration could not be loaded
*/
package cli
