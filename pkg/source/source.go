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

package source

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/conform/pkg/errors"
	"github.com/NVIDIA/conform/pkg/k8s/client"
	"github.com/NVIDIA/conform/pkg/oci"
)

// Kind is the transport of a Source.
type Kind string

const (
	KindFile      Kind = "file"
	KindHTTP      Kind = "http"
	KindConfigMap Kind = "configmap"
	KindOCI       Kind = "oci"
)

// Source is the location of one configuration document.
type Source struct {
	kind     Kind
	location string
	key      string
}

// File returns a local file source. The key is the canonical path with
// symlinks evaluated, so a linked directory cannot defeat the visited set.
// The location keeps the path as written.
func File(path string) Source {
	clean := filepath.Clean(path)
	key := clean
	if abs, err := filepath.Abs(clean); err == nil {
		key = abs
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			key = resolved
		}
	}
	return Source{kind: KindFile, location: clean, key: key}
}

// Parse classifies raw by its scheme. Strings without a scheme are file paths.
func Parse(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, errors.New(errors.ErrCodeInvalidRequest, "config source is empty")
	}

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return File(raw), nil
	}
	scheme = strings.ToLower(scheme)
	normalized := scheme + "://" + rest

	switch scheme {
	case "http", "https":
		u, err := url.Parse(normalized)
		if err != nil {
			return Source{}, errors.Wrap(errors.ErrCodeInvalidRequest, fmt.Sprintf("invalid URL %q", raw), err)
		}
		return httpSource(u)
	case "cm":
		ref, err := client.ParseConfigMapURI(normalized)
		if err != nil {
			return Source{}, err
		}
		return Source{kind: KindConfigMap, location: ref.String(), key: ref.String()}, nil
	case "oci":
		ref, err := oci.ParseReference(normalized)
		if err != nil {
			return Source{}, err
		}
		return Source{kind: KindOCI, location: normalized, key: ref.String()}, nil
	case "file":
		u, err := url.Parse(normalized)
		if err != nil || u.Path == "" {
			return Source{}, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("invalid file URL %q", raw))
		}
		return File(filepath.FromSlash(u.Path)), nil
	default:
		return Source{}, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported config source scheme %q", scheme),
			map[string]any{"source": raw})
	}
}

func httpSource(u *url.URL) (Source, error) {
	if u.Host == "" {
		return Source{}, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("URL %q has no host", u.String()))
	}
	return Source{kind: KindHTTP, location: u.String(), key: normalizeURL(u)}, nil
}

// normalizeURL lower-cases scheme and host, strips default ports and drops
// the fragment.
func normalizeURL(u *url.URL) string {
	n := *u
	n.Scheme = strings.ToLower(n.Scheme)
	n.Fragment = ""
	n.RawFragment = ""

	host := strings.ToLower(n.Host)
	if h, port, err := net.SplitHostPort(host); err == nil {
		if (n.Scheme == "http" && port == "80") || (n.Scheme == "https" && port == "443") {
			host = h
			if strings.Contains(h, ":") {
				host = "[" + h + "]"
			}
		}
	}
	n.Host = host
	if n.Path == "" {
		n.Path = "/"
	}
	return n.String()
}

// Kind returns the transport of the source.
func (s Source) Kind() Kind {
	return s.kind
}

// Location returns the path or URL the source was created from.
func (s Source) Location() string {
	return s.location
}

// Key returns the canonical identity of the source.
func (s Source) Key() string {
	return s.key
}

// IsZero reports whether s is the zero Source.
func (s Source) IsZero() bool {
	return s.kind == ""
}

// IsRemote reports whether fetching s leaves the local machine.
func (s Source) IsRemote() bool {
	return s.kind != KindFile
}

// String returns the location for display.
func (s Source) String() string {
	return s.location
}

// Resolve returns the source an include entry of s refers to.
func (s Source) Resolve(include string) (Source, error) {
	include = strings.TrimSpace(include)
	if include == "" {
		return Source{}, errors.New(errors.ErrCodeInvalidRequest, "include entry is empty")
	}
	if strings.Contains(include, "://") {
		return Parse(include)
	}

	switch s.kind {
	case KindFile:
		if filepath.IsAbs(include) {
			return File(include), nil
		}
		return File(filepath.Join(filepath.Dir(s.location), include)), nil
	case KindHTTP:
		base, err := url.Parse(s.location)
		if err != nil {
			return Source{}, errors.Wrap(errors.ErrCodeInternal, "invalid base URL", err)
		}
		rel, err := url.Parse(include)
		if err != nil {
			return Source{}, errors.Wrap(errors.ErrCodeInvalidRequest, fmt.Sprintf("invalid include %q", include), err)
		}
		return httpSource(base.ResolveReference(rel))
	default:
		return File(include), nil
	}
}
