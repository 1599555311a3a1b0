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
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/conform/pkg/config"
	"github.com/NVIDIA/conform/pkg/oci"
)

func publishCmd() *cli.Command {
	return &cli.Command{
		Name:                  "publish",
		EnableShellCompletion: true,
		Usage:                 "Publish a configuration document as an OCI artifact",
		ArgsUsage:             "oci://registry/repo:tag",
		Description: `Packages the local configuration document named by --file as an OCI
artifact and pushes it to a registry, so that other documents can include it
and checks can run against it with --url oci://registry/repo:tag.

The document must parse before it is pushed. Its includes are not resolved.
Registry credentials are read from the Docker credential store.

Example:

  conform publish --file conform.yaml oci://ghcr.io/nvidia/conform/base:v1`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fatal(fmt.Errorf("expected exactly one OCI reference, got %d arguments", cmd.Args().Len()))
			}

			ref, err := oci.ParseReference(cmd.Args().First())
			if err != nil {
				return fatal(err)
			}

			path := cmd.String(flagFile)
			data, err := os.ReadFile(path)
			if err != nil {
				return fatal(fmt.Errorf("failed to read config file %s: %w", path, err))
			}
			if _, err := config.Parse(data); err != nil {
				return fatal(fmt.Errorf("refusing to publish %s: %w", path, err))
			}

			desc, err := oci.Publish(ctx, ref, filepath.Base(path), data, registryOptions(cmd))
			if err != nil {
				return fatal(err)
			}

			fmt.Fprintf(cmd.Root().Writer, "Published %s@%s\n", ref.Repo(), desc.Digest)
			return nil
		},
	}
}
