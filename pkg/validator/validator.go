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

package validator

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/conform/pkg/config"
	"github.com/NVIDIA/conform/pkg/defaults"
	"github.com/NVIDIA/conform/pkg/errors"
	"github.com/NVIDIA/conform/pkg/format"
	"github.com/NVIDIA/conform/pkg/report"
)

var errNotUTF8 = stderrors.New("content is not valid UTF-8")

// Validator evaluates file rules.
type Validator struct {
	// Version is the validator version (typically the CLI version).
	Version string

	contextRoot string
	concurrency int
}

// Option is a functional option for configuring Validator instances.
type Option func(*Validator)

// WithVersion returns an Option that sets the Validator version string.
func WithVersion(version string) Option {
	return func(v *Validator) {
		v.Version = version
	}
}

// WithContextRoot sets the directory rule paths are resolved against.
func WithContextRoot(dir string) Option {
	return func(v *Validator) {
		v.contextRoot = dir
	}
}

// WithConcurrency bounds the number of rules evaluated at once.
// Values below 1 evaluate one rule at a time.
func WithConcurrency(n int) Option {
	return func(v *Validator) {
		v.concurrency = n
	}
}

// New creates a new Validator with the provided options.
func New(opts ...Option) *Validator {
	v := &Validator{
		contextRoot: defaults.ContextRoot,
		concurrency: defaults.Concurrency,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.concurrency < 1 {
		v.concurrency = 1
	}
	return v
}

// ContextRoot returns the directory rule paths are resolved against.
func (v *Validator) ContextRoot() string {
	return v.contextRoot
}

// Validate evaluates every rule of cfg and returns the problems in rule order.
// It fails only when ctx is done before all rules are evaluated.
func (v *Validator) Validate(ctx context.Context, cfg *config.Effective) ([]report.Problem, error) {
	start := time.Now()
	defer func() {
		validateDuration.Observe(time.Since(start).Seconds())
	}()

	if cfg.Len() == 0 {
		return []report.Problem{}, nil
	}

	slots := make([][]report.Problem, len(cfg.Rules))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)
	for i, rule := range cfg.Rules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = v.Evaluate(gctx, rule)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "rule evaluation aborted", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "rule evaluation aborted", err)
	}

	problems := make([]report.Problem, 0)
	for _, s := range slots {
		problems = append(problems, s...)
	}

	rulesEvaluated.Add(float64(len(cfg.Rules)))
	for _, p := range problems {
		problemsFound.WithLabelValues(p.Kind.String()).Inc()
	}

	slog.Debug("validation completed",
		"rules", len(cfg.Rules),
		"problems", len(problems),
		"context", v.contextRoot,
		"duration", time.Since(start))

	return problems, nil
}

// Evaluate runs every check of rule and returns the problems it finds.
func (v *Validator) Evaluate(ctx context.Context, rule config.FileRule) []report.Problem {
	problems := v.evaluate(ctx, rule)
	for i := range problems {
		problems[i] = problems[i].WithSource(rule.Origin)
	}
	return problems
}

func (v *Validator) evaluate(_ context.Context, rule config.FileRule) []report.Problem {
	if !rule.HasConstraints() {
		return nil
	}

	path := filepath.Join(v.contextRoot, filepath.FromSlash(rule.File))

	info, err := os.Stat(path)
	present := err == nil
	if err != nil && !isAbsent(err) {
		return []report.Problem{report.ReadFailed(rule.File, err)}
	}

	if rule.Exists != nil {
		switch {
		case *rule.Exists && !present:
			slog.Debug("required file is missing", "file", rule.File)
			return []report.Problem{report.NotFound(rule.File)}
		case !*rule.Exists && present:
			slog.Debug("disallowed file is present", "file", rule.File)
			return []report.Problem{report.Disallowed(rule.File)}
		case !*rule.Exists:
			return nil
		}
	}

	if !present {
		if rule.NeedsContent() {
			return []report.Problem{report.NotFound(rule.File)}
		}
		return nil
	}

	if !rule.NeedsContent() {
		return nil
	}

	if info.IsDir() {
		return []report.Problem{report.ReadFailed(rule.File, fmt.Errorf("%s is a directory", rule.File))}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return []report.Problem{report.ReadFailed(rule.File, err)}
	}
	if !utf8.Valid(data) {
		return []report.Problem{report.ReadFailed(rule.File, errNotUTF8)}
	}

	var problems []report.Problem

	if rule.MatchesRegex != nil && !rule.MatchesRegex.Match(data) {
		slog.Debug("regex not matched", "file", rule.File, "pattern", rule.MatchesRegex.String())
		problems = append(problems, report.RegexNotMatched(rule.File, rule.MatchesRegex.String()))
	}

	if rule.Format != "" {
		doc, err := format.Parse(data, rule.Format)
		if err != nil {
			return append(problems, report.ParseFailed(rule.File, rule.Format.DisplayName(), parseCause(err)))
		}
		if rule.Schema != nil {
			if msgs := rule.Schema.Validate(doc); len(msgs) > 0 {
				slog.Debug("schema not matched", "file", rule.File, "violations", len(msgs))
				problems = append(problems, report.SchemaViolation(rule.File, msgs))
			}
		}
	}

	return problems
}

// parseCause strips the structured wrapper so the parser's own message is reported.
// isAbsent reports whether a stat error means nothing is at the path. A
// regular file used as a parent directory yields ENOTDIR.
func isAbsent(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist) || stderrors.Is(err, syscall.ENOTDIR)
}

func parseCause(err error) error {
	var se *errors.StructuredError
	if stderrors.As(err, &se) && se.Cause != nil {
		return se.Cause
	}
	return err
}
