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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/conform/pkg/logging"
	"github.com/NVIDIA/conform/pkg/report"
)

const (
	name           = "conform"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the conform command with the process arguments and exits with
// its status: 0 when every file conforms, 1 when problems were found and 2
// on fatal errors.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().Run(ctx, os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	stop()
	os.Exit(exitCode(err))
}

// exitCode maps a command error onto the process status. Errors that do not
// carry their own code are usage errors and therefore fatal.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return report.ExitFatal
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Usage:                 "Check that files conform to declared constraints",
		UsageText:             name + " [options] | " + name + " publish [options] oci://registry/repo:tag",
		Description: `Checks files under a context root against the rules of a configuration
document. A rule names a file and any combination of:
  - exists: the file must (true) or must not (false) exist
  - matches-regex: the file's text must contain a match
  - format: the file must parse as yaml, json or toml
  - schema: the parsed document must conform to an example-shaped
    or JSON Schema description

Documents may include other documents by relative path, http(s) URL,
ConfigMap URI (cm://namespace/name[/key]) or OCI reference
(oci://registry/repo:tag). Includes are merged depth-first in order.

Exit status is 0 when every rule holds, 1 when problems were found
and 2 when the configuration could not be loaded.`,
		Flags:  checkFlags(),
		Before: setupLogging,
		Action: runCheck,
		Commands: []*cli.Command{
			publishCmd(),
		},
		// Exit codes are handled by Execute.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

// setupLogging configures slog once flags are parsed so --log-level takes
// effect before any command runs.
func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := cmd.String(flagLogLevel)
	logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", level)
	return ctx, nil
}
