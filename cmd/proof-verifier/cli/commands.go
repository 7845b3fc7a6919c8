// Copyright 2024 The Plumaa ID Authors.
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

	"github.com/spf13/cobra"

	"github.com/plumaa-id/proof-verifier/cmd/proof-verifier/cli/options"
	"github.com/plumaa-id/proof-verifier/internal/ui"
)

func New() *cobra.Command {
	ro := &options.RootOptions{}

	cmd := &cobra.Command{
		Use:               "proof-verifier",
		Short:             "Verify signed-document proof artifacts",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := ro.NewViper()
			if err != nil {
				return err
			}
			return options.BindFlags(cmd, v)
		},
	}
	ro.AddFlags(cmd)

	// Add sub-commands.
	addVerify(cmd, ro)
	addOCSP(cmd, ro)
	cmd.AddCommand(Env())
	cmd.AddCommand(Version())

	return cmd
}

// uiContext attaches the command's streams to ctx for user-facing logging.
func uiContext(cmd *cobra.Command, ro *options.RootOptions) context.Context {
	return ui.WithEnv(cmd.Context(), &ui.Env{
		Stderr:  cmd.ErrOrStderr(),
		Stdin:   cmd.InOrStdin(),
		Verbose: ro.Verbose,
	})
}
