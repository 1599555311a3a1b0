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
	"context"
	"crypto/tls"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/memory"
	"oras.land/oras-go/v2/errdef"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	apperrors "github.com/NVIDIA/conform/pkg/errors"
)

const (
	// ArtifactType is the artifact type of configuration manifests.
	ArtifactType = "application/vnd.nvidia.conform.config"

	// ConfigMediaType is the media type of the layer holding the document.
	ConfigMediaType = "application/vnd.nvidia.conform.config.v1+yaml"

	// MaxManifestSize caps fetched manifests.
	MaxManifestSize = 4 << 20

	// MaxConfigSize caps fetched configuration layers.
	MaxConfigSize = 10 << 20
)

// RegistryOptions configures the connection to a remote registry.
type RegistryOptions struct {
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PushConfig stores data as a single-layer configuration artifact in target.
// The manifest is tagged when tag is not empty.
func PushConfig(ctx context.Context, target oras.Target, tag, name string, data []byte) (ociv1.Descriptor, error) {
	layer, err := oras.PushBytes(ctx, target, ConfigMediaType, data)
	if err != nil {
		return ociv1.Descriptor{}, fmt.Errorf("failed to push config layer: %w", err)
	}
	layer.Annotations = map[string]string{ociv1.AnnotationTitle: name}

	manifest, err := oras.PackManifest(ctx, target, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers: []ociv1.Descriptor{layer},
	})
	if err != nil {
		return ociv1.Descriptor{}, fmt.Errorf("failed to pack manifest: %w", err)
	}

	if tag != "" {
		if err := target.Tag(ctx, manifest, tag); err != nil {
			return ociv1.Descriptor{}, fmt.Errorf("failed to tag manifest %s: %w", tag, err)
		}
	}

	return manifest, nil
}

// FetchConfig reads the configuration document of the manifest that ref
// (a tag or digest) resolves to in target.
func FetchConfig(ctx context.Context, target oras.ReadOnlyTarget, ref string) ([]byte, error) {
	opts := oras.DefaultFetchBytesOptions
	opts.MaxBytes = MaxManifestSize

	desc, raw, err := oras.FetchBytes(ctx, target, ref, opts)
	if err != nil {
		return nil, classify(fmt.Sprintf("failed to fetch manifest %s", ref), err)
	}

	var manifest ociv1.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI manifest", err)
	}

	layer, err := configLayer(manifest)
	if err != nil {
		return nil, err
	}
	if layer.Size > MaxConfigSize {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("config layer exceeds %d bytes", MaxConfigSize),
			map[string]any{"digest": layer.Digest.String(), "size": layer.Size})
	}

	slog.Debug("fetching config layer",
		"manifest", desc.Digest.String(),
		"layer", layer.Digest.String(),
		"size", layer.Size,
	)

	data, err := content.FetchAll(ctx, target, layer)
	if err != nil {
		return nil, classify("failed to fetch config layer", err)
	}
	return data, nil
}

// configLayer picks the layer holding the document: a YAML-titled layer,
// then a layer with ConfigMediaType, then the first layer.
func configLayer(m ociv1.Manifest) (ociv1.Descriptor, error) {
	if len(m.Layers) == 0 {
		return ociv1.Descriptor{}, apperrors.New(apperrors.ErrCodeInvalidRequest, "OCI manifest has no layers")
	}
	for _, l := range m.Layers {
		switch strings.ToLower(path.Ext(l.Annotations[ociv1.AnnotationTitle])) {
		case ".yaml", ".yml":
			return l, nil
		}
	}
	for _, l := range m.Layers {
		if l.MediaType == ConfigMediaType {
			return l, nil
		}
	}
	return m.Layers[0], nil
}

// Pull reads the configuration document referenced by ref from its registry.
func Pull(ctx context.Context, ref *Reference, opts RegistryOptions) ([]byte, error) {
	repo, err := newRepository(ref, opts)
	if err != nil {
		return nil, err
	}
	return FetchConfig(ctx, repo, ref.Target())
}

// Publish pushes data as a configuration artifact to the registry at ref.
// The reference must carry a tag.
func Publish(ctx context.Context, ref *Reference, name string, data []byte, opts RegistryOptions) (ociv1.Descriptor, error) {
	if ref.Tag == "" {
		return ociv1.Descriptor{}, apperrors.New(apperrors.ErrCodeInvalidRequest, "tag is required to publish a config artifact")
	}

	store := memory.New()
	if _, err := PushConfig(ctx, store, ref.Tag, name, data); err != nil {
		return ociv1.Descriptor{}, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to package config artifact", err)
	}

	repo, err := newRepository(ref, opts)
	if err != nil {
		return ociv1.Descriptor{}, err
	}

	slog.Info("publishing config artifact", "reference", ref.String())

	desc, err := oras.Copy(ctx, store, ref.Tag, repo, ref.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return ociv1.Descriptor{}, classify("failed to push config artifact to registry", err)
	}
	return desc, nil
}

func newRepository(ref *Reference, opts RegistryOptions) (*remote.Repository, error) {
	repo, err := remote.NewRepository(ref.Repo())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to initialize remote repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)
	return repo, nil
}

// createAuthClient creates an HTTP client with optional TLS configuration
// and Docker credential support.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credentials unavailable", "error", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	client := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	if credStore != nil {
		client.Credential = credentials.Credential(credStore)
	}
	return client
}

func classify(msg string, err error) error {
	switch {
	case stderrors.Is(err, errdef.ErrNotFound):
		return apperrors.Wrap(apperrors.ErrCodeNotFound, msg, err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(apperrors.ErrCodeTimeout, msg, err)
	case stderrors.Is(err, errdef.ErrSizeExceedsLimit):
		return apperrors.Wrap(apperrors.ErrCodeInvalidRequest, msg, err)
	default:
		return apperrors.Wrap(apperrors.ErrCodeUnavailable, msg, err)
	}
}
