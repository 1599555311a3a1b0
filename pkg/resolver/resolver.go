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

package resolver

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/NVIDIA/conform/pkg/config"
	"github.com/NVIDIA/conform/pkg/errors"
	"github.com/NVIDIA/conform/pkg/report"
	"github.com/NVIDIA/conform/pkg/source"
)

// State is the lifecycle stage of one config source during resolution.
type State string

const (
	StatePending     State = "pending"
	StateFetching    State = "fetching"
	StateParsed      State = "parsed"
	StateFetchFailed State = "fetch-failed"
	StateParseFailed State = "parse-failed"
	StateExpanding   State = "expanding"
	StateDone        State = "done"
	StateSkipped     State = "skipped"
)

// Result is a fully resolved configuration.
type Result struct {
	// Config is the merged rule list.
	Config config.Effective
	// Problems are the include failures, in visit order.
	Problems []report.Problem
	// Sources are the keys of the documents that contributed, in visit order.
	Sources []string
}

// Resolver expands a root config source and its includes.
type Resolver struct {
	fetcher     source.Fetcher
	concurrency int
}

// Option is a functional option for configuring Resolver instances.
type Option func(*Resolver)

// WithFetcher sets the fetcher used to load documents.
func WithFetcher(f source.Fetcher) Option {
	return func(r *Resolver) {
		r.fetcher = f
	}
}

// WithConcurrency bounds background include fetches. Values below 2 fetch
// every document on demand.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		r.concurrency = n
	}
}

// New creates a Resolver with the specified options. Without WithFetcher a
// default source.Loader is used.
func New(opts ...Option) *Resolver {
	r := &Resolver{concurrency: 1}
	for _, opt := range opts {
		opt(r)
	}
	if r.fetcher == nil {
		r.fetcher = source.NewLoader()
	}
	return r
}

// entry is one pending worklist element.
type entry struct {
	src  source.Source
	raw  string
	err  error
	root bool
	pre  *future
}

type future struct {
	done chan struct{}
	data []byte
	err  error
}

func (f *future) wait(ctx context.Context) ([]byte, error) {
	select {
	case <-f.done:
		return f.data, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Resolve loads root and its includes and merges their rules.
func (r *Resolver) Resolve(ctx context.Context, root source.Source) (*Result, error) {
	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var sem *semaphore.Weighted
	if r.concurrency > 1 {
		sem = semaphore.NewWeighted(int64(r.concurrency))
	}
	inflight := make(map[string]*future)

	prefetch := func(src source.Source) *future {
		if sem == nil {
			return nil
		}
		if f, ok := inflight[src.Key()]; ok {
			return f
		}
		f := &future{done: make(chan struct{})}
		inflight[src.Key()] = f
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer close(f.done)
			if err := sem.Acquire(ctx, 1); err != nil {
				f.err = err
				return
			}
			defer sem.Release(1)
			f.data, f.err = r.fetch(ctx, src)
		}()
		return f
	}

	res := &Result{}
	visited := make(map[string]bool)
	stack := []entry{{src: root, raw: root.String(), root: true}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, canceled(err)
		}

		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if e.err != nil {
			slog.Debug("config source state", "source", e.raw, "state", StateFetchFailed, "error", e.err)
			sourcesTotal.WithLabelValues(string(StateFetchFailed)).Inc()
			res.Problems = append(res.Problems, report.FetchFailed(e.raw, e.err))
			continue
		}

		key := e.src.Key()
		if visited[key] {
			slog.Debug("config source state", "source", key, "state", StateSkipped)
			sourcesTotal.WithLabelValues(string(StateSkipped)).Inc()
			continue
		}
		visited[key] = true

		slog.Debug("config source state", "source", key, "state", StateFetching)
		var data []byte
		var err error
		if e.pre != nil {
			data, err = e.pre.wait(ctx)
		} else {
			data, err = r.fetch(ctx, e.src)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, canceled(ctxErr)
			}
			slog.Debug("config source state", "source", key, "state", StateFetchFailed, "error", err)
			sourcesTotal.WithLabelValues(string(StateFetchFailed)).Inc()
			if e.root {
				return nil, rootError(fmt.Sprintf("failed to load config %s", e.src), err)
			}
			res.Problems = append(res.Problems, report.FetchFailed(e.src.String(), err))
			continue
		}

		doc, err := config.Parse(data)
		if err != nil {
			slog.Debug("config source state", "source", key, "state", StateParseFailed, "error", err)
			sourcesTotal.WithLabelValues(string(StateParseFailed)).Inc()
			if e.root {
				return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest,
					fmt.Sprintf("failed to parse config %s", e.src), err,
					map[string]any{"source": key})
			}
			res.Problems = append(res.Problems, report.ConfigParseFailed(e.src.String(), err))
			continue
		}
		slog.Debug("config source state", "source", key, "state", StateParsed,
			"rules", len(doc.Config), "includes", len(doc.Include))

		for _, rule := range doc.Config {
			rule.Origin = e.src.String()
			res.Config.Rules = append(res.Config.Rules, rule)
		}
		rulesTotal.Add(float64(len(doc.Config)))
		res.Sources = append(res.Sources, key)
		sourcesTotal.WithLabelValues(string(StateDone)).Inc()

		slog.Debug("config source state", "source", key, "state", StateExpanding)
		children := make([]entry, 0, len(doc.Include))
		for _, inc := range doc.Include {
			child, err := e.src.Resolve(inc)
			if err != nil {
				children = append(children, entry{raw: inc, err: err})
				continue
			}
			c := entry{src: child, raw: inc}
			if !visited[child.Key()] {
				c.pre = prefetch(child)
				slog.Debug("config source state", "source", child.Key(), "state", StatePending)
			}
			children = append(children, c)
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
		slog.Debug("config source state", "source", key, "state", StateDone)
	}

	slog.Debug("config resolved",
		"root", root.String(),
		"sources", len(res.Sources),
		"rules", res.Config.Len(),
		"problems", len(res.Problems),
	)

	return res, nil
}

func (r *Resolver) fetch(ctx context.Context, src source.Source) ([]byte, error) {
	start := time.Now()
	defer func() {
		fetchDuration.WithLabelValues(string(src.Kind())).Observe(time.Since(start).Seconds())
	}()
	return r.fetcher.Fetch(ctx, src)
}

func rootError(msg string, err error) error {
	code := errors.CodeOf(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.Wrap(code, msg, err)
}

func canceled(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeTimeout, "config resolution timed out", err)
	}
	return errors.Wrap(errors.ErrCodeInternal, "config resolution canceled", err)
}
