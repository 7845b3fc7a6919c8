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
	"strings"

	"github.com/spf13/cobra"
)

// OCSPOptions is the top level wrapper for the `ocsp` command.
type OCSPOptions struct {
	Issuer string
	Output string
}

var _ Interface = (*OCSPOptions)(nil)

// AddFlags implements Interface
func (o *OCSPOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Issuer, "issuer", "",
		"path to the issuer certificate to verify the response signature with")
	_ = cmd.MarkFlagFilename("issuer", certificateExts...)

	cmd.Flags().StringVarP(&o.Output, "output", "o", OutputFormats[0],
		"output format ("+strings.Join(OutputFormats, "|")+")")
}
