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
	"bytes"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/plumaa-id/proof-verifier/cmd/proof-verifier/cli/options"
	"github.com/plumaa-id/proof-verifier/cmd/proof-verifier/cli/verify"
	"github.com/plumaa-id/proof-verifier/internal/ui"
	"github.com/plumaa-id/proof-verifier/pkg/codec"
	"github.com/plumaa-id/proof-verifier/pkg/ocsp"
)

func addOCSP(topLevel *cobra.Command, ro *options.RootOptions) {
	o := &options.OCSPOptions{}

	cmd := &cobra.Command{
		Use:   "ocsp [flags] <response>",
		Short: "Decode an OCSP response",
		Long: `Decode an OCSP response stored as DER or base64, such as the ocspResponse
field of a proof. Use - to read from standard input.`,
		Example: `  proof-verifier ocsp response.der

  # check the response signature
  proof-verifier ocsp --issuer ca.pem -o yaml response.b64`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := options.ValidateOutput(o.Output); err != nil {
				return err
			}
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			var issuer *x509.Certificate
			if o.Issuer != "" {
				if issuer, err = verify.LoadCertificate(o.Issuer); err != nil {
					return err
				}
			}
			res, err := decodeOCSP(data, issuer)
			if err != nil {
				return err
			}
			if res.DecodeError != "" {
				ui.Warnf(uiContext(cmd, ro), "full decode failed: %s", res.DecodeError)
			}
			return res.render(cmd.OutOrStdout(), o.Output)
		},
	}

	o.AddFlags(cmd)
	topLevel.AddCommand(cmd)
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

type ocspResult struct {
	CertStatus     ocsp.CertStatus `json:"certStatus"`
	Details        *ocsp.Details   `json:"details,omitempty"`
	DecodeError    string          `json:"decodeError,omitempty"`
	IssuerVerified *bool           `json:"issuerVerified,omitempty"`
	IssuerError    string          `json:"issuerError,omitempty"`
}

// decodeOCSP accepts DER, which starts with a SEQUENCE tag, or base64.
func decodeOCSP(data []byte, issuer *x509.Certificate) (*ocspResult, error) {
	der := data
	if len(data) == 0 || data[0] != 0x30 {
		var err error
		if der, err = codec.DecodeBase64(string(bytes.TrimSpace(data))); err != nil {
			return nil, fmt.Errorf("OCSP response is neither DER nor base64: %w", err)
		}
	}

	raw, err := ocsp.ExtractCertStatus(der)
	if err != nil {
		return nil, err
	}
	res := &ocspResult{CertStatus: ocsp.DecodeCertStatus(raw)}
	if res.Details, err = ocsp.Decode(der); err != nil {
		res.DecodeError = err.Error()
	}
	if issuer != nil {
		ok := true
		if err := ocsp.VerifyIssuer(der, issuer); err != nil {
			ok = false
			res.IssuerError = err.Error()
		}
		res.IssuerVerified = &ok
	}
	return res, nil
}

func (r *ocspResult) render(w io.Writer, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		b, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Status: %s\n", r.CertStatus.Status)
	if ri := r.CertStatus.RevokedInfo; ri != nil {
		if ri.RevocationTime != nil {
			fmt.Fprintf(&buf, "Revoked at: %s\n", ri.RevocationTime.Format(time.RFC3339))
		}
		if ri.RevocationReason != "" {
			fmt.Fprintf(&buf, "Reason: %s\n", ri.RevocationReason)
		}
	}
	if d := r.Details; d != nil {
		fmt.Fprintf(&buf, "Serial number: %s\n", d.SerialNumber)
		fmt.Fprintf(&buf, "Produced at: %s\n", d.ProducedAt.Format(time.RFC3339))
		fmt.Fprintf(&buf, "This update: %s\n", d.ThisUpdate.Format(time.RFC3339))
		if d.NextUpdate != nil {
			fmt.Fprintf(&buf, "Next update: %s\n", d.NextUpdate.Format(time.RFC3339))
		}
		if d.ResponderName != "" {
			fmt.Fprintf(&buf, "Responder: %s\n", d.ResponderName)
		}
		fmt.Fprintf(&buf, "Signature algorithm: %s\n", d.SignatureAlgorithm)
	}
	if r.IssuerVerified != nil {
		if *r.IssuerVerified {
			fmt.Fprintln(&buf, "Issuer signature: verified")
		} else {
			fmt.Fprintf(&buf, "Issuer signature: %s\n", r.IssuerError)
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}
