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
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/conform/pkg/defaults"
	"github.com/NVIDIA/conform/pkg/errors"
	"github.com/NVIDIA/conform/pkg/oci"
	"github.com/NVIDIA/conform/pkg/report"
	"github.com/NVIDIA/conform/pkg/resolver"
	"github.com/NVIDIA/conform/pkg/serializer"
	"github.com/NVIDIA/conform/pkg/source"
	"github.com/NVIDIA/conform/pkg/validator"
)

// runCheck resolves the configuration, evaluates every rule and writes the
// report. Config problems from include resolution precede rule problems.
func runCheck(ctx context.Context, cmd *cli.Command) error {
	defer func() {
		if path := cmd.String(flagMetricsFile); path != "" {
			if merr := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); merr != nil {
				slog.Warn("failed to write metrics", "path", path, "error", merr)
			}
		}
	}()

	outFormat := serializer.Format(cmd.String(flagFormat))
	if outFormat.IsUnknown() {
		return fatal(fmt.Errorf("unknown output format: %q", outFormat))
	}

	concurrency := cmd.Int(flagConcurrency)
	if concurrency < 1 {
		return fatal(fmt.Errorf("invalid concurrency %d: must be at least 1", concurrency))
	}

	root, err := rootSource(cmd)
	if err != nil {
		return fatal(err)
	}

	contextRoot := cmd.String(flagContext)
	if err := checkContextRoot(contextRoot); err != nil {
		return fatal(err)
	}

	res, err := resolver.New(
		resolver.WithFetcher(newLoader(cmd)),
		resolver.WithConcurrency(concurrency),
	).Resolve(ctx, root)
	if err != nil {
		return fatal(err)
	}

	slog.Debug("configuration resolved",
		"root", root.String(),
		"sources", len(res.Sources),
		"rules", res.Config.Len(),
		"problems", len(res.Problems))

	v := validator.New(
		validator.WithVersion(version),
		validator.WithContextRoot(contextRoot),
		validator.WithConcurrency(concurrency),
	)
	ruleProblems, err := v.Validate(ctx, &res.Config)
	if err != nil {
		return fatal(err)
	}

	problems := make([]report.Problem, 0, len(res.Problems)+len(ruleProblems))
	problems = append(problems, res.Problems...)
	problems = append(problems, ruleProblems...)

	rep := report.New(problems,
		report.WithConfigSource(root.String()),
		report.WithContextRoot(v.ContextRoot()),
		report.WithVersion(version),
	)

	ser, err := serializer.NewFileWriterOrStdout(outFormat, cmd.String(flagOutput))
	if err != nil {
		return fatal(err)
	}
	defer func() {
		if cerr := ser.Close(); cerr != nil {
			slog.Warn("failed to close serializer", "error", cerr)
		}
	}()

	if err := ser.Serialize(ctx, rep); err != nil {
		return fatal(fmt.Errorf("failed to write report: %w", err))
	}

	if code := rep.ExitCode(); code != 0 {
		return cli.Exit(report.SummaryLine(rep.Summary.Total), code)
	}
	return nil
}

// rootSource picks the configuration source from --url or --file.
func rootSource(cmd *cli.Command) (source.Source, error) {
	if cmd.IsSet(flagURL) && cmd.IsSet(flagFile) {
		return source.Source{}, errors.New(errors.ErrCodeInvalidRequest,
			"--file and --url are mutually exclusive")
	}
	if raw := cmd.String(flagURL); raw != "" {
		return source.Parse(raw)
	}
	path := cmd.String(flagFile)
	if path == "" {
		return source.Source{}, errors.New(errors.ErrCodeInvalidRequest, "config file path is empty")
	}
	return source.File(path), nil
}

func checkContextRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNotFound, fmt.Sprintf("context root %s is not accessible", dir), err)
	}
	if !info.IsDir() {
		return errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("context root %s is not a directory", dir))
	}
	return nil
}

// newLoader builds the source loader from the fetch flags. HTTP fetches share
// one rate limiter for the run.
func newLoader(cmd *cli.Command) *source.Loader {
	timeout := cmd.Duration(flagFetchTimeout)
	insecure := cmd.Bool(flagInsecureTLS)

	reader := serializer.NewHttpReader(
		serializer.WithTotalTimeout(timeout),
		serializer.WithInsecureSkipVerify(insecure),
		serializer.WithRateLimit(rate.NewLimiter(rate.Limit(defaults.FetchRateLimit), defaults.FetchRateBurst)),
	)

	return source.NewLoader(
		source.WithTimeout(timeout),
		source.WithHTTPReader(reader),
		source.WithKubeconfig(cmd.String(flagKubeconfig)),
		source.WithRegistryOptions(registryOptions(cmd)),
	)
}

func registryOptions(cmd *cli.Command) oci.RegistryOptions {
	return oci.RegistryOptions{
		PlainHTTP:   cmd.Bool(flagPlainHTTP),
		InsecureTLS: cmd.Bool(flagInsecureTLS),
	}
}

// fatal marks err as a fatal run error.
func fatal(err error) error {
	return cli.Exit(err.Error(), report.ExitFatal)
}
