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

// Package source identifies and loads conformance configuration documents.
//
// A Source is an immutable location of one document:
//
//	conform.yaml                          local file
//	https://example.com/conform.yaml      HTTP(S)
//	cm://platform/policies[/key]          Kubernetes ConfigMap
//	oci://ghcr.io/nvidia/policies:v1      OCI artifact
//
// Key returns the canonical identity used to detect include cycles: two
// spellings of the same location have the same key.
//
// Relative include entries resolve against the including source. A file
// include is a sibling of the including file, an HTTP include follows
// RFC 3986 reference resolution, and an include of a ConfigMap or OCI
// document resolves against the working directory.
//
// Loader fetches the bytes of a Source, dispatching on its kind. Remote
// fetches are bounded by a per-fetch timeout.
package source
