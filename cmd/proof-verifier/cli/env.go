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
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plumaa-id/proof-verifier/cmd/proof-verifier/cli/options"
	"github.com/plumaa-id/proof-verifier/pkg/env"
)

func Env() *cobra.Command {
	o := &options.EnvOptions{}

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Prints proof-verifier environment variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printEnv(cmd.OutOrStdout(), env.EnvironmentVariables(), getEnv(), getEnviron(), o.ShowDescriptions, o.ShowSensitiveValues)
			return nil
		},
	}

	o.AddFlags(cmd)
	return cmd
}

// envGetter and environGetter can be swapped in tests.
type envGetter func(env.Variable) string
type environGetter func() []string

func getEnv() envGetter {
	return env.Getenv
}

func getEnviron() environGetter {
	return os.Environ
}

func printEnv(w io.Writer, envVars map[env.Variable]env.VariableOpts,
	envGet envGetter,
	environGet environGetter,
	showDescription, showSensitive bool) {
	keys := sortEnvKeys(envVars)

	for _, e := range keys {
		opts := envVars[e]
		val := envGet(e)

		if showDescription {
			fmt.Fprintf(w, "# %s %s\n", e.String(), opts.Description)
			fmt.Fprintf(w, "# Expects: %s\n", opts.Expects)
		}

		// Unset sensitive variables print like any other.
		if opts.Sensitive && !showSensitive && val != "" {
			fmt.Fprintf(w, "%s=\"******\"\n", e.String())
		} else {
			fmt.Fprintf(w, "%s=%q\n", e.String(), val)
		}
	}

	nonRegEnv := map[string]string{}
	for _, e := range environGet() {
		if !strings.HasPrefix(e, options.EnvPrefix+"_") {
			continue
		}
		key, val, _ := strings.Cut(e, "=")
		if _, ok := envVars[env.Variable(key)]; ok {
			continue
		}
		nonRegEnv[key] = val
	}
	if len(nonRegEnv) > 0 && showDescription {
		fmt.Fprintln(w, "# Environment variables below are not registered with proof-verifier,\n# but might still set flag defaults.")
	}
	nonRegKeys := make([]string, 0, len(nonRegEnv))
	for k := range nonRegEnv {
		nonRegKeys = append(nonRegKeys, k)
	}
	sort.Strings(nonRegKeys)
	for _, key := range nonRegKeys {
		fmt.Fprintf(w, "%s=%s\n", key, nonRegEnv[key])
	}
}

func sortEnvKeys(envVars map[env.Variable]env.VariableOpts) []env.Variable {
	keys := []env.Variable{}
	for k := range envVars {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		return strings.Compare(keys[i].String(), keys[j].String()) < 0
	})

	return keys
}
