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

package options

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// VerifyOptions is the top level wrapper for the `verify` command.
type VerifyOptions struct {
	Output           string
	OCSPIssuer       string
	Offline          bool
	Concurrency      int
	ExtractDocument  string
	SaveConservation string
	SkipConfirmation bool

	Conservation ConservationOptions
}

var _ Interface = (*VerifyOptions)(nil)

// AddFlags implements Interface
func (o *VerifyOptions) AddFlags(cmd *cobra.Command) {
	o.Conservation.AddFlags(cmd)

	cmd.Flags().StringVarP(&o.Output, "output", "o", OutputFormats[0],
		"report format ("+strings.Join(OutputFormats, "|")+")")

	cmd.Flags().StringVar(&o.OCSPIssuer, "ocsp-issuer", "",
		"path to the certificate of the CA that signs the OCSP responses")
	_ = cmd.MarkFlagFilename("ocsp-issuer", certificateExts...)

	cmd.Flags().BoolVar(&o.Offline, "offline", false,
		"skip conservation certificate downloads")

	cmd.Flags().IntVar(&o.Concurrency, "concurrency", 0,
		"maximum signer pipelines and downloads in flight, number of CPUs when 0")

	cmd.Flags().StringVar(&o.ExtractDocument, "extract-document", "",
		"directory to write the embedded document and signer certificates to")
	_ = cmd.MarkFlagDirname("extract-document")

	cmd.Flags().StringVar(&o.SaveConservation, "save-conservation", "",
		"directory to write the downloaded NOM-151 certificates to")
	_ = cmd.MarkFlagDirname("save-conservation")

	cmd.Flags().BoolVarP(&o.SkipConfirmation, "yes", "y", false,
		"overwrite existing files without prompting")
}

// Validate checks the flag combination.
func (o *VerifyOptions) Validate() error {
	return ValidateOutput(o.Output)
}

// ValidateOutput rejects unknown report formats.
func ValidateOutput(format string) error {
	if !slices.Contains(OutputFormats, format) {
		return fmt.Errorf("unsupported output format %q, want one of %s", format, strings.Join(OutputFormats, ", "))
	}
	return nil
}
