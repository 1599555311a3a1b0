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
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	oras "oras.land/oras-go/v2"

	"github.com/NVIDIA/conform/pkg/defaults"
	"github.com/NVIDIA/conform/pkg/errors"
	"github.com/NVIDIA/conform/pkg/k8s/client"
	"github.com/NVIDIA/conform/pkg/oci"
	"github.com/NVIDIA/conform/pkg/serializer"
)

// Fetcher loads the raw bytes of a configuration document.
type Fetcher interface {
	Fetch(ctx context.Context, s Source) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, s Source) ([]byte, error)

// Fetch calls f(ctx, s).
func (f FetcherFunc) Fetch(ctx context.Context, s Source) ([]byte, error) {
	return f(ctx, s)
}

// OCITargetFunc opens the repository a reference points to.
type OCITargetFunc func(ctx context.Context, ref *oci.Reference) (oras.ReadOnlyTarget, error)

// Loader fetches sources of every kind.
type Loader struct {
	timeout    time.Duration
	http       *serializer.HttpReader
	kubeconfig string
	registry   oci.RegistryOptions
	ociTarget  OCITargetFunc

	kubeOnce   sync.Once
	kubeClient client.Interface
	kubeErr    error
}

// Option is a functional option for configuring Loader instances.
type Option func(*Loader)

// WithTimeout bounds each remote fetch. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		l.timeout = d
	}
}

// WithHTTPReader sets the reader used for http(s) sources.
func WithHTTPReader(r *serializer.HttpReader) Option {
	return func(l *Loader) {
		l.http = r
	}
}

// WithKubeconfig sets the kubeconfig used for cm:// sources.
func WithKubeconfig(path string) Option {
	return func(l *Loader) {
		l.kubeconfig = path
	}
}

// WithKubeClient sets the client used for cm:// sources.
func WithKubeClient(c client.Interface) Option {
	return func(l *Loader) {
		l.kubeClient = c
		l.kubeOnce.Do(func() {})
	}
}

// WithRegistryOptions configures connections to OCI registries.
func WithRegistryOptions(opts oci.RegistryOptions) Option {
	return func(l *Loader) {
		l.registry = opts
	}
}

// WithOCITarget replaces registry access for oci:// sources.
func WithOCITarget(f OCITargetFunc) Option {
	return func(l *Loader) {
		l.ociTarget = f
	}
}

// NewLoader creates a Loader with the specified options.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		timeout: defaults.FetchTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.http == nil {
		l.http = serializer.NewHttpReader()
	}
	return l
}

// Fetch implements Fetcher.
func (l *Loader) Fetch(ctx context.Context, s Source) ([]byte, error) {
	if s.IsRemote() && l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	slog.Debug("fetching config source", "source", s.String(), "kind", s.Kind())

	var data []byte
	var err error
	switch s.Kind() {
	case KindFile:
		data, err = readFile(s.Location())
	case KindHTTP:
		data, err = l.http.ReadWithContext(ctx, s.Location())
	case KindConfigMap:
		data, err = l.fetchConfigMap(ctx, s)
	case KindOCI:
		data, err = l.fetchOCI(ctx, s)
	default:
		return nil, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("unknown source kind %q", s.Kind()))
	}

	if err != nil && errors.CodeOf(err) != errors.ErrCodeTimeout && stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, errors.Wrap(errors.ErrCodeTimeout, fmt.Sprintf("fetch of %s timed out after %s", s, l.timeout), err)
	}
	return data, err
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, fmt.Sprintf("config file %s not found", path), err)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to read config file %s", path), err)
	}
	return data, nil
}

func (l *Loader) fetchConfigMap(ctx context.Context, s Source) ([]byte, error) {
	ref, err := client.ParseConfigMapURI(s.Location())
	if err != nil {
		return nil, err
	}

	l.kubeOnce.Do(func() {
		l.kubeClient, _, l.kubeErr = client.BuildKubeClient(l.kubeconfig)
	})
	if l.kubeErr != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to create kubernetes client", l.kubeErr)
	}

	return client.ReadConfigMap(ctx, l.kubeClient, ref)
}

func (l *Loader) fetchOCI(ctx context.Context, s Source) ([]byte, error) {
	ref, err := oci.ParseReference(s.Location())
	if err != nil {
		return nil, err
	}

	if l.ociTarget == nil {
		return oci.Pull(ctx, ref, l.registry)
	}

	target, err := l.ociTarget(ctx, ref)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, fmt.Sprintf("failed to open %s", ref.Repo()), err)
	}
	return oci.FetchConfig(ctx, target, ref.Target())
}
