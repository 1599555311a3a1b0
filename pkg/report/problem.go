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
	"strings"
)

// Kind discriminates problems.
type Kind string

const (
	KindNotFound        Kind = "not-found"
	KindDisallowed      Kind = "disallowed"
	KindRegexNotMatched Kind = "regex-not-matched"
	KindSchemaViolation Kind = "schema-violation"
	KindParseFailed     Kind = "parse-failed"
	KindReadFailed      Kind = "read-failed"
	KindFetchFailed     Kind = "fetch-failed"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// Kinds returns every problem kind in display order.
func Kinds() []Kind {
	return []Kind{
		KindNotFound,
		KindDisallowed,
		KindRegexNotMatched,
		KindSchemaViolation,
		KindParseFailed,
		KindReadFailed,
		KindFetchFailed,
	}
}

// Problem is a single conformance violation.
//
// Problems raised by a rule carry the target File and the Source of the
// configuration that declared the rule. Problems raised while resolving
// configuration carry only Source.
type Problem struct {
	Kind     Kind     `json:"kind" yaml:"kind"`
	File     string   `json:"file,omitempty" yaml:"file,omitempty"`
	Source   string   `json:"source,omitempty" yaml:"source,omitempty"`
	Pattern  string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Format   string   `json:"format,omitempty" yaml:"format,omitempty"`
	Messages []string `json:"messages,omitempty" yaml:"messages,omitempty"`
	Cause    string   `json:"cause,omitempty" yaml:"cause,omitempty"`
}

// NotFound reports a file that is required but absent.
func NotFound(file string) Problem {
	return Problem{Kind: KindNotFound, File: file}
}

// Disallowed reports a file that must not exist but does.
func Disallowed(file string) Problem {
	return Problem{Kind: KindDisallowed, File: file}
}

// RegexNotMatched reports file content that does not match pattern.
func RegexNotMatched(file, pattern string) Problem {
	return Problem{Kind: KindRegexNotMatched, File: file, Pattern: pattern}
}

// SchemaViolation reports a parsed document that does not satisfy its schema.
func SchemaViolation(file string, messages []string) Problem {
	return Problem{Kind: KindSchemaViolation, File: file, Messages: messages}
}

// ParseFailed reports a target file that does not parse as format.
func ParseFailed(file, format string, cause error) Problem {
	return Problem{Kind: KindParseFailed, File: file, Format: format, Cause: causeText(cause)}
}

// ReadFailed reports a target file that exists but cannot be read as text.
func ReadFailed(file string, cause error) Problem {
	return Problem{Kind: KindReadFailed, File: file, Cause: causeText(cause)}
}

// FetchFailed reports an included configuration source that could not be loaded.
func FetchFailed(source string, cause error) Problem {
	return Problem{Kind: KindFetchFailed, Source: source, Cause: causeText(cause)}
}

// ConfigParseFailed reports an included configuration document that is not valid.
func ConfigParseFailed(source string, cause error) Problem {
	return Problem{Kind: KindParseFailed, Source: source, Format: "YAML", Cause: causeText(cause)}
}

// WithSource returns a copy of p attributed to the given configuration source.
func (p Problem) WithSource(source string) Problem {
	p.Source = source
	return p
}

// IsConfig reports whether the problem concerns a configuration source rather
// than a target file.
func (p Problem) IsConfig() bool {
	return p.File == ""
}

// String renders the problem as a single line.
func (p Problem) String() string {
	switch p.Kind {
	case KindNotFound:
		return fmt.Sprintf("File %s does not exist", p.File)
	case KindDisallowed:
		return fmt.Sprintf("File %s is not allowed to exist", p.File)
	case KindRegexNotMatched:
		return fmt.Sprintf("File %s does not match regex %s", p.File, p.Pattern)
	case KindSchemaViolation:
		return fmt.Sprintf("Schema not matched in %s: %s", p.File, strings.Join(p.Messages, "; "))
	case KindParseFailed:
		if p.IsConfig() {
			return fmt.Sprintf("Config %s couldn't be parsed: %s", p.Source, p.Cause)
		}
		return fmt.Sprintf("File %s couldn't be read in as %s: %s", p.File, p.Format, p.Cause)
	case KindReadFailed:
		return fmt.Sprintf("File %s couldn't be read: %s", p.File, p.Cause)
	case KindFetchFailed:
		return fmt.Sprintf("Config %s couldn't be fetched: %s", p.Source, p.Cause)
	default:
		return fmt.Sprintf("%s: %s", p.Kind, p.File)
	}
}

func causeText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
