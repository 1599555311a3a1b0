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

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/conform/pkg/report"
)

// workspace writes files under a temp dir and returns its path.
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

// run executes the root command and returns its exit code.
func run(t *testing.T, args ...string) int {
	t.Helper()
	err := newRootCmd().Run(context.Background(), append([]string{name}, args...))
	return exitCode(err)
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCheck_MissingFile(t *testing.T) {
	dir := workspace(t, map[string]string{
		"conform.yaml": "config:\n  - file: a.txt\n    exists: true\n",
	})
	out := filepath.Join(dir, "report.txt")

	code := run(t, "-f", filepath.Join(dir, "conform.yaml"), "-c", dir, "-o", out)

	assert.Equal(t, report.ExitProblems, code)
	assert.Equal(t, "File a.txt does not exist\nFound 1 problem\n", readOutput(t, out))
}

func TestCheck_MissingFileErrorCarriesCount(t *testing.T) {
	dir := workspace(t, map[string]string{
		"conform.yaml": "config:\n  - file: a.txt\n    exists: true\n",
	})

	err := newRootCmd().Run(context.Background(), []string{name,
		"-f", filepath.Join(dir, "conform.yaml"), "-c", dir, "-o", filepath.Join(dir, "out.txt")})

	var ec cli.ExitCoder
	require.True(t, errors.As(err, &ec))
	assert.Equal(t, report.ExitProblems, ec.ExitCode())
	assert.Equal(t, "Found 1 problem", err.Error())
}

func TestCheck_Conforming(t *testing.T) {
	dir := workspace(t, map[string]string{
		"conform.yaml": `config:
  - file: a.txt
    exists: true
    matches-regex: hello
  - file: b.txt
    exists: false
  - file: Cargo.toml
    format: toml
    schema:
      package:
        edition: "2021"
`,
		"a.txt":      "hello world\n",
		"Cargo.toml": "[package]\nname = \"x\"\nedition = \"2021\"\n",
	})
	out := filepath.Join(dir, "report.txt")

	code := run(t, "-f", filepath.Join(dir, "conform.yaml"), "-c", dir, "-o", out)

	assert.Equal(t, 0, code)
	assert.Equal(t, "Found 0 problems\n", readOutput(t, out))
}

func TestCheck_EmptyConfig(t *testing.T) {
	dir := workspace(t, map[string]string{"conform.yaml": ""})
	out := filepath.Join(dir, "report.txt")

	code := run(t, "-f", filepath.Join(dir, "conform.yaml"), "-c", dir, "-o", out)

	assert.Equal(t, 0, code)
	assert.Equal(t, "Found 0 problems\n", readOutput(t, out))
}

func TestCheck_JSONReport(t *testing.T) {
	dir := workspace(t, map[string]string{
		"conform.yaml": "config:\n  - file: a.txt\n    exists: true\n  - file: b.txt\n    exists: false\n",
		"b.txt":        "present",
	})
	out := filepath.Join(dir, "report.json")

	code := run(t, "-f", filepath.Join(dir, "conform.yaml"), "-c", dir, "-t", "json", "-o", out)
	require.Equal(t, report.ExitProblems, code)

	var got report.Report
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, out)), &got))

	assert.Equal(t, report.KindConformanceReport, got.Kind)
	assert.Equal(t, report.APIVersion, got.APIVersion)
	assert.Equal(t, dir, got.Metadata[report.MetadataContext])
	assert.NotEmpty(t, got.Metadata[report.MetadataRunID])
	assert.Equal(t, 2, got.Summary.Total)
	assert.Equal(t, report.StatusNonConforming, got.Summary.Status)
	require.Len(t, got.Problems, 2)
	assert.Equal(t, report.KindNotFound, got.Problems[0].Kind)
	assert.Equal(t, report.KindDisallowed, got.Problems[1].Kind)
}

func TestCheck_TableReport(t *testing.T) {
	dir := workspace(t, map[string]string{
		"conform.yaml": "config:\n  - file: a.txt\n    exists: true\n",
	})
	out := filepath.Join(dir, "report.txt")

	code := run(t, "-f", filepath.Join(dir, "conform.yaml"), "-c", dir, "-t", "table", "-o", out)
	require.Equal(t, report.ExitProblems, code)

	got := readOutput(t, out)
	assert.Contains(t, got, "KIND")
	assert.Contains(t, got, "a.txt")
}

func TestCheck_IncludesAndConfigProblemsFirst(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dir := workspace(t, map[string]string{
		"conform.yaml": "config:\n  - file: a.txt\n    exists: true\ninclude:\n  - shared/more.yaml\n  - " +
			srv.URL + "/missing.yaml\n",
		"shared/more.yaml": "config:\n  - file: b.txt\n    exists: true\n",
	})
	out := filepath.Join(dir, "report.txt")

	code := run(t, "-f", filepath.Join(dir, "conform.yaml"), "-c", dir, "-o", out)
	require.Equal(t, report.ExitProblems, code)

	var got report.Report
	jsonOut := filepath.Join(dir, "report.json")
	run(t, "-f", filepath.Join(dir, "conform.yaml"), "-c", dir, "-t", "json", "-o", jsonOut)
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, jsonOut)), &got))

	require.Len(t, got.Problems, 3)
	assert.Equal(t, report.KindFetchFailed, got.Problems[0].Kind)
	assert.Equal(t, srv.URL+"/missing.yaml", got.Problems[0].Source)
	assert.Equal(t, "a.txt", got.Problems[1].File)
	assert.Equal(t, "b.txt", got.Problems[2].File)
	assert.Contains(t, readOutput(t, out), "Found 3 problems")
}

func TestCheck_FatalErrors(t *testing.T) {
	dir := workspace(t, map[string]string{
		"conform.yaml": "config:\n  - file: a.txt\n    exists: true\n",
		"broken.yaml":  "config: [\n",
		"file.txt":     "not a directory",
	})
	cfg := filepath.Join(dir, "conform.yaml")

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing root config", args: []string{"-f", filepath.Join(dir, "absent.yaml"), "-c", dir}},
		{name: "unparseable root config", args: []string{"-f", filepath.Join(dir, "broken.yaml"), "-c", dir}},
		{name: "file and url", args: []string{"-f", cfg, "-u", "https://example.com/conform.yaml", "-c", dir}},
		{name: "unsupported url scheme", args: []string{"-u", "ftp://example.com/conform.yaml", "-c", dir}},
		{name: "unknown format", args: []string{"-f", cfg, "-c", dir, "-t", "xml"}},
		{name: "zero concurrency", args: []string{"-f", cfg, "-c", dir, "--concurrency", "0"}},
		{name: "missing context root", args: []string{"-f", cfg, "-c", filepath.Join(dir, "nope")}},
		{name: "context root is a file", args: []string{"-f", cfg, "-c", filepath.Join(dir, "file.txt")}},
		{name: "unknown flag", args: []string{"--no-such-flag"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "report.txt")
			code := run(t, append(tt.args, "-o", out)...)
			assert.Equal(t, report.ExitFatal, code)
			assert.NoFileExists(t, out)
		})
	}
}

func TestCheck_EnvironmentFlags(t *testing.T) {
	dir := workspace(t, map[string]string{
		"conform.yaml": "config:\n  - file: a.txt\n    exists: true\n",
	})
	out := filepath.Join(dir, "report.txt")
	t.Setenv("CONFORM_FILE", filepath.Join(dir, "conform.yaml"))
	t.Setenv("CONFORM_CONTEXT", dir)
	t.Setenv("CONFORM_OUTPUT", out)

	assert.Equal(t, report.ExitProblems, run(t))
	assert.Contains(t, readOutput(t, out), "File a.txt does not exist")
}

func TestCheck_MetricsFile(t *testing.T) {
	dir := workspace(t, map[string]string{
		"conform.yaml": "config:\n  - file: a.txt\n    exists: true\n",
		"a.txt":        "",
	})
	metrics := filepath.Join(dir, "conform.prom")

	code := run(t, "-f", filepath.Join(dir, "conform.yaml"), "-c", dir,
		"-o", filepath.Join(dir, "report.txt"), "--metrics-file", metrics)
	require.Equal(t, 0, code)

	got := readOutput(t, metrics)
	assert.Contains(t, got, "conform_resolver_sources_total")
	assert.Contains(t, got, "conform_validator_rules_evaluated_total")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, report.ExitProblems, exitCode(cli.Exit("Found 2 problems", report.ExitProblems)))
	assert.Equal(t, report.ExitFatal, exitCode(cli.Exit("boom", report.ExitFatal)))
	assert.Equal(t, report.ExitFatal, exitCode(errors.New("flag provided but not defined")))
}

func TestPublish_ArgumentErrors(t *testing.T) {
	dir := workspace(t, map[string]string{
		"conform.yaml": "config:\n  - file: a.txt\n    exists: true\n",
		"broken.yaml":  "config: [\n",
	})

	tests := []struct {
		name string
		args []string
	}{
		{name: "no reference", args: []string{"publish", "-f", filepath.Join(dir, "conform.yaml")}},
		{name: "invalid reference", args: []string{"publish", "-f", filepath.Join(dir, "conform.yaml"), "oci://"}},
		{name: "missing tag", args: []string{"publish", "-f", filepath.Join(dir, "conform.yaml"),
			"oci://registry.example.com/conform/base@sha256:" + sha256Zero}},
		{name: "missing file", args: []string{"publish", "-f", filepath.Join(dir, "absent.yaml"),
			"oci://registry.example.com/conform/base:v1"}},
		{name: "unparseable file", args: []string{"publish", "-f", filepath.Join(dir, "broken.yaml"),
			"oci://registry.example.com/conform/base:v1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, report.ExitFatal, run(t, tt.args...))
		})
	}
}

const sha256Zero = "0000000000000000000000000000000000000000000000000000000000000000"
