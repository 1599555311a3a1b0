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

package report

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

const (
	// KindConformanceReport is the resource kind of a serialized Report.
	KindConformanceReport = "ConformanceReport"

	// APIVersion is the schema version of a serialized Report.
	APIVersion = "conform.nvidia.com/v1alpha1"

	// ExitProblems is the process exit code when problems were found.
	ExitProblems = 1

	// ExitFatal is the process exit code for invalid arguments and for
	// configuration that could not be resolved at all.
	ExitFatal = 2

	StatusConforming    = "conforming"
	StatusNonConforming = "non-conforming"
)

// Metadata keys set on the report header.
const (
	MetadataRunID     = "run-id"
	MetadataConfig    = "config"
	MetadataContext   = "context"
	MetadataTimestamp = "timestamp"
	MetadataVersion   = "version"
)

// Header carries Kubernetes-style resource identification for a report.
type Header struct {
	Kind       string            `json:"kind,omitempty" yaml:"kind,omitempty"`
	APIVersion string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Summary counts problems.
type Summary struct {
	Total  int          `json:"total" yaml:"total"`
	ByKind map[Kind]int `json:"byKind,omitempty" yaml:"byKind,omitempty"`
	Status string       `json:"status" yaml:"status"`
}

// Report is the outcome of one conformance run.
type Report struct {
	Header `json:",inline" yaml:",inline"`

	Summary  Summary   `json:"summary" yaml:"summary"`
	Problems []Problem `json:"problems" yaml:"problems"`
}

// Option is a functional option for configuring Report instances.
type Option func(*Report)

// WithMetadata adds a metadata key-value pair to the report header.
// Empty values are ignored.
func WithMetadata(key, value string) Option {
	return func(r *Report) {
		if value == "" {
			return
		}
		r.Metadata[key] = value
	}
}

// WithConfigSource records the root configuration source.
func WithConfigSource(source string) Option {
	return WithMetadata(MetadataConfig, source)
}

// WithContextRoot records the directory rule paths were resolved against.
func WithContextRoot(dir string) Option {
	return WithMetadata(MetadataContext, dir)
}

// WithVersion records the version of the tool that produced the report.
func WithVersion(version string) Option {
	return WithMetadata(MetadataVersion, version)
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return WithMetadata(MetadataRunID, id)
}

// New creates a report over problems, preserving their order.
func New(problems []Problem, opts ...Option) *Report {
	if problems == nil {
		problems = []Problem{}
	}

	r := &Report{
		Header: Header{
			Kind:       KindConformanceReport,
			APIVersion: APIVersion,
			Metadata: map[string]string{
				MetadataRunID:     uuid.NewString(),
				MetadataTimestamp: time.Now().UTC().Format(time.RFC3339),
			},
		},
		Problems: problems,
		Summary:  summarize(problems),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func summarize(problems []Problem) Summary {
	s := Summary{
		Total:  len(problems),
		Status: StatusConforming,
	}
	if len(problems) == 0 {
		return s
	}

	s.Status = StatusNonConforming
	s.ByKind = make(map[Kind]int)
	for _, p := range problems {
		s.ByKind[p.Kind]++
	}
	return s
}

// ExitCode returns 0 for a conforming run and ExitProblems otherwise.
func (r *Report) ExitCode() int {
	if r == nil || len(r.Problems) == 0 {
		return 0
	}
	return ExitProblems
}

// WriteText renders the report in its human-readable form.
func (r *Report) WriteText(w io.Writer) error {
	return Render(w, r.Problems)
}

// TableRows returns the report as a header row and one row per problem.
func (r *Report) TableRows() ([]string, [][]string) {
	rows := make([][]string, 0, len(r.Problems))
	for _, p := range r.Problems {
		target := p.File
		if p.IsConfig() {
			target = p.Source
		}
		rows = append(rows, []string{p.Kind.String(), target, p.String()})
	}
	return []string{"KIND", "TARGET", "DETAIL"}, rows
}

// Render writes one line per problem followed by a summary line.
// The output depends only on problems.
func Render(w io.Writer, problems []Problem) error {
	for _, p := range problems {
		if _, err := fmt.Fprintln(w, p.String()); err != nil {
			return fmt.Errorf("failed to write problem: %w", err)
		}
	}
	if _, err := fmt.Fprintln(w, SummaryLine(len(problems))); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// SummaryLine returns the closing line of the human-readable form.
func SummaryLine(n int) string {
	if n == 1 {
		return "Found 1 problem"
	}
	return fmt.Sprintf("Found %d problems", n)
}
