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
	"github.com/spf13/cobra"

	"github.com/plumaa-id/proof-verifier/cmd/proof-verifier/cli/options"
	"github.com/plumaa-id/proof-verifier/cmd/proof-verifier/cli/verify"
)

func addVerify(topLevel *cobra.Command, ro *options.RootOptions) {
	o := &options.VerifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify [flags] <proof.json>...",
		Short: "Verify the document, signatures, OCSP responses and conservation claims of proofs",
		Long: `Verify proof artifacts.

Every proof is checked independently: the document digest, each signature
digest and signature, each embedded OCSP response and every conservation
claim. NOM-151 certificates are downloaded from the named provider unless
--offline is set. A report is written per proof; the command fails when any
check failed or could not decode its input.`,
		Example: `  proof-verifier verify <PROOF>

  # print a JSON report
  proof-verifier verify -o json <PROOF>

  # verify without network access
  proof-verifier verify --offline <PROOF>

  # check the OCSP response signatures with the issuing CA
  proof-verifier verify --ocsp-issuer ca.pem <PROOF>

  # extract the signed document and signer certificates
  proof-verifier verify --extract-document ./out <PROOF>

  # use the development profile against a local provider
  PROOF_VERIFIER_PROFILE=development proof-verifier verify --cincel-url http://localhost:8080/v3 <PROOF>`,
		Args: cobra.MinimumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return options.ProofExts, cobra.ShellCompDirectiveFilterFileExt
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(); err != nil {
				return err
			}
			cfg, err := o.Conservation.Config()
			if err != nil {
				return err
			}
			v := &verify.VerifyCommand{
				Output:           o.Output,
				OCSPIssuer:       o.OCSPIssuer,
				Offline:          o.Offline,
				Concurrency:      o.Concurrency,
				ExtractDocument:  o.ExtractDocument,
				SaveConservation: o.SaveConservation,
				SkipConfirmation: o.SkipConfirmation,
				Conservation:     cfg,
				Out:              cmd.OutOrStdout(),
			}
			return v.Exec(uiContext(cmd, ro), args)
		},
	}

	o.AddFlags(cmd)
	topLevel.AddCommand(cmd)
}
