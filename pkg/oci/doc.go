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

// Package oci distributes conformance configuration documents as OCI artifacts.
//
// A configuration artifact is an OCI 1.1 manifest with artifact type
// ArtifactType and a single layer holding the YAML document. The layer carries
// an org.opencontainers.image.title annotation with the document's file name.
//
// # References
//
// Sources use the oci:// scheme followed by a standard image reference:
//
//	oci://ghcr.io/nvidia/conform-policies:v1
//	oci://localhost:5000/policies@sha256:...
//
// A reference without tag or digest resolves to DefaultTag.
//
// # Usage
//
// Publish a document:
//
//	ref, _ := oci.ParseReference("oci://ghcr.io/nvidia/policies:v1")
//	desc, err := oci.Publish(ctx, ref, "conform.yaml", data, oci.RegistryOptions{})
//
// Read it back:
//
//	data, err := oci.Pull(ctx, ref, oci.RegistryOptions{})
//
// FetchConfig and PushConfig work against any oras target, including the
// in-memory store used in tests.
//
// # Authentication
//
// Registry clients use Docker credential helpers (~/.docker/config.json) via
// the ORAS credentials package. RegistryOptions.PlainHTTP and InsecureTLS
// cover local development registries.
package oci
