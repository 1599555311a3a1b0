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
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/conform/pkg/defaults"
	"github.com/NVIDIA/conform/pkg/logging"
	"github.com/NVIDIA/conform/pkg/serializer"
)

// Flag names shared by the commands.
const (
	flagFile         = "file"
	flagURL          = "url"
	flagContext      = "context"
	flagFormat       = "format"
	flagOutput       = "output"
	flagConcurrency  = "concurrency"
	flagFetchTimeout = "fetch-timeout"
	flagKubeconfig   = "kubeconfig"
	flagPlainHTTP    = "plain-http"
	flagInsecureTLS  = "insecure-tls"
	flagMetricsFile  = "metrics-file"
	flagLogLevel     = "log-level"
)

// envPrefix prefixes the environment variables that back each flag.
const envPrefix = "CONFORM_"

func env(flag string) cli.ValueSourceChain {
	return cli.EnvVars(envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_")))
}

// Flags carry parse state, so every command gets its own instances.
func checkFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagFile,
			Aliases: []string{"f"},
			Value:   defaults.ConfigFileName,
			Usage:   "Path to the local configuration document",
			Sources: env(flagFile),
		},
		&cli.StringFlag{
			Name:    flagURL,
			Aliases: []string{"u"},
			Usage: `Location of a remote configuration document.
	Supports: HTTP/HTTPS URLs, ConfigMap URIs (cm://namespace/name[/key]) and
	OCI references (oci://registry/repo:tag). Cannot be combined with --file.`,
			Sources: env(flagURL),
		},
		&cli.StringFlag{
			Name:    flagContext,
			Aliases: []string{"c"},
			Value:   defaults.ContextRoot,
			Usage:   "Directory that rule file paths are relative to",
			Sources: env(flagContext),
		},
		&cli.StringFlag{
			Name:    flagFormat,
			Aliases: []string{"t"},
			Value:   string(serializer.FormatText),
			Usage: fmt.Sprintf("Report format (supported values: %s)",
				strings.Join(serializer.SupportedFormats(), ", ")),
			Sources: env(flagFormat),
		},
		outputFlag(),
		&cli.IntFlag{
			Name:    flagConcurrency,
			Value:   defaults.Concurrency,
			Usage:   "Maximum number of parallel include fetches and rule evaluations",
			Sources: env(flagConcurrency),
		},
		&cli.DurationFlag{
			Name:    flagFetchTimeout,
			Value:   defaults.FetchTimeout,
			Usage:   "Time limit for fetching each remote configuration document",
			Sources: env(flagFetchTimeout),
		},
		kubeconfigFlag(),
		&cli.BoolFlag{
			Name:    flagPlainHTTP,
			Usage:   "Use plain HTTP instead of HTTPS for oci:// registries",
			Sources: env(flagPlainHTTP),
		},
		&cli.BoolFlag{
			Name:    flagInsecureTLS,
			Usage:   "Skip TLS certificate verification for https:// and oci:// sources",
			Sources: env(flagInsecureTLS),
		},
		&cli.StringFlag{
			Name:    flagMetricsFile,
			Usage:   "Write run metrics in Prometheus text format to this path",
			Sources: env(flagMetricsFile),
		},
		&cli.StringFlag{
			Name:    flagLogLevel,
			Value:   "warn",
			Usage:   "Log verbosity (debug, info, warn, error)",
			Sources: cli.EnvVars(logging.EnvLogLevel, envPrefix+"LOG_LEVEL"),
		},
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage:   "Path to the report file (default: stdout)",
		Sources: env(flagOutput),
	}
}

func kubeconfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagKubeconfig,
		Aliases: []string{"k"},
		Usage:   "Path to kubeconfig used for cm:// sources (default: in-cluster or ~/.kube/config)",
		Sources: env(flagKubeconfig),
	}
}
