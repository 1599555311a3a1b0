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

package oci

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/NVIDIA/conform/pkg/errors"
)

// URIScheme is the URI scheme for OCI config sources (e.g., "oci://ghcr.io/org/repo:tag").
const URIScheme = "oci://"

// DefaultTag is used when a reference names neither tag nor digest.
const DefaultTag = "latest"

// Reference is a parsed oci:// location.
type Reference struct {
	// Registry is the OCI registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the repository path (e.g., "nvidia/policies").
	Repository string
	// Tag is the image tag. Empty when Digest is set.
	Tag string
	// Digest pins the manifest (e.g., "sha256:...").
	Digest string
}

// IsOCI reports whether s uses the oci:// scheme.
func IsOCI(s string) bool {
	return strings.HasPrefix(s, URIScheme)
}

// ParseReference parses an oci:// URI. Registry hosts are normalized the way
// container tooling does it, so "oci://library/x" refers to docker.io.
func ParseReference(uri string) (*Reference, error) {
	if !IsOCI(uri) {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"OCI reference must start with "+URIScheme, map[string]any{"reference": uri})
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(uri, URIScheme))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}

	r := &Reference{
		Registry:   reference.Domain(ref),
		Repository: reference.Path(ref),
	}
	if digested, ok := ref.(reference.Digested); ok {
		r.Digest = digested.Digest().String()
	} else if tagged, ok := ref.(reference.Tagged); ok {
		r.Tag = tagged.Tag()
	} else {
		r.Tag = DefaultTag
	}

	return r, nil
}

// Target returns the tag or digest to resolve in the repository.
func (r *Reference) Target() string {
	if r.Digest != "" {
		return r.Digest
	}
	return r.Tag
}

// Repo returns "registry/repository".
func (r *Reference) Repo() string {
	return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
}

// ImageReference returns the Docker-style image reference (without oci:// scheme).
func (r *Reference) ImageReference() string {
	if r.Digest != "" {
		return fmt.Sprintf("%s@%s", r.Repo(), r.Digest)
	}
	return fmt.Sprintf("%s:%s", r.Repo(), r.Tag)
}

// String returns the full reference string, "oci://registry/repository:tag".
func (r *Reference) String() string {
	return URIScheme + r.ImageReference()
}
