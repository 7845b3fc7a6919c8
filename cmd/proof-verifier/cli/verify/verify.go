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

package verify

import (
	"context"
	"crypto/x509"
	"fmt"
	"io"
	"os"

	"github.com/sigstore/sigstore/pkg/cryptoutils"

	perrors "github.com/plumaa-id/proof-verifier/cmd/proof-verifier/errors"
	"github.com/plumaa-id/proof-verifier/internal/ui"
	"github.com/plumaa-id/proof-verifier/pkg/conservation"
	"github.com/plumaa-id/proof-verifier/pkg/conservation/cincel"
	"github.com/plumaa-id/proof-verifier/pkg/proof"
	proofverify "github.com/plumaa-id/proof-verifier/pkg/verify"
)

// VerifyCommand verifies proof artifacts and renders their reports.
type VerifyCommand struct {
	Output           string
	OCSPIssuer       string
	Offline          bool
	Concurrency      int
	ExtractDocument  string
	SaveConservation string
	SkipConfirmation bool
	Conservation     conservation.Config

	// Registry replaces the providers built from Conservation.
	Registry *conservation.Registry
	// Out receives the reports. Default is os.Stdout.
	Out io.Writer
}

// Exec runs the verification for every path. A path that cannot be read is
// reported in place and the remaining paths are still verified. It returns a
// *errors.InvalidProofError when any path could not be read, otherwise a
// *errors.VerificationError when any check failed, after all reports were
// written.
func (c *VerifyCommand) Exec(ctx context.Context, paths []string) error {
	render, err := RendererFor(c.Output)
	if err != nil {
		return err
	}
	out := c.Out
	if out == nil {
		out = os.Stdout
	}

	opts := []proofverify.Option{
		proofverify.WithConcurrency(c.Concurrency),
		proofverify.WithOffline(c.Offline),
	}
	if c.OCSPIssuer != "" {
		issuer, err := LoadCertificate(c.OCSPIssuer)
		if err != nil {
			return err
		}
		opts = append(opts, proofverify.WithOCSPIssuer(issuer))
	}
	registry := c.Registry
	if registry == nil {
		client, err := cincel.New(c.Conservation)
		if err != nil {
			return err
		}
		registry = conservation.NewRegistry(client)
	}
	opts = append(opts, proofverify.WithRegistry(registry))
	v := proofverify.New(opts...)

	var (
		failed  int
		invalid int
		readErr error
	)
	for i, path := range paths {
		if i > 0 {
			if err := render.Separator(out); err != nil {
				return err
			}
		}
		p, err := proof.ParseFile(path)
		if err != nil {
			err = fmt.Errorf("reading %s: %w", path, err)
			ui.Warnf(ctx, "%v", err)
			if invalid == 0 {
				readErr = err
			}
			invalid++
			if err := render.RenderError(out, path, err); err != nil {
				return err
			}
			continue
		}
		ui.Debugf(ctx, "verifying %s proof %s", p.Kind, path)
		report, err := v.Verify(ctx, p)
		if err != nil {
			return fmt.Errorf("verifying %s: %w", path, err)
		}
		if err := render.Render(out, path, report); err != nil {
			return err
		}

		if c.ExtractDocument != "" {
			if err := c.extract(ctx, p); err != nil {
				return err
			}
		}
		if c.SaveConservation != "" {
			if err := c.saveConservation(ctx, report); err != nil {
				return err
			}
		}
		for _, check := range report.Checks() {
			if check.Status.Problem() {
				failed++
			}
		}
	}
	if invalid > 0 {
		return &perrors.InvalidProofError{Invalid: invalid, Failed: failed, Err: readErr}
	}
	if failed > 0 {
		return &perrors.VerificationError{Failed: failed}
	}
	return nil
}

// LoadCertificate reads a PEM or DER certificate file.
func LoadCertificate(path string) (*x509.Certificate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading certificate: %w", err)
	}
	if certs, err := cryptoutils.UnmarshalCertificatesFromPEM(raw); err == nil && len(certs) > 0 {
		return certs[0], nil
	}
	cert, err := x509.ParseCertificate(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing certificate %s: %w", path, err)
	}
	return cert, nil
}
