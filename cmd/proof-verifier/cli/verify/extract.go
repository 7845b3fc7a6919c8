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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/plumaa-id/proof-verifier/internal/ui"
	"github.com/plumaa-id/proof-verifier/pkg/codec"
	"github.com/plumaa-id/proof-verifier/pkg/proof"
	"github.com/plumaa-id/proof-verifier/pkg/signature"
	proofverify "github.com/plumaa-id/proof-verifier/pkg/verify"
)

// extract writes the embedded document and every signer certificate to the
// extraction directory.
func (c *VerifyCommand) extract(ctx context.Context, p *proof.Proof) error {
	var signatures []proof.SignatureProof
	switch p.Kind {
	case proof.KindSignatureRequest:
		raw, err := codec.DecodeBase64(p.Request.Raw)
		if err != nil {
			ui.Warnf(ctx, "not extracting %s: %v", p.Request.FileName(), err)
		} else if err := c.writeFile(ctx, c.ExtractDocument, p.Request.FileName(), raw); err != nil {
			return err
		}
		signatures = p.Request.Signatures
	case proof.KindSignature:
		signatures = []proof.SignatureProof{*p.Signature}
	}

	for i, s := range signatures {
		pem, err := codec.DecodeBase64(s.Certificate)
		if err != nil {
			ui.Warnf(ctx, "not extracting certificate of signature %d: %v", i, err)
			continue
		}
		if err := c.writeFile(ctx, c.ExtractDocument, certificateFileName(s.Certificate, i), pem); err != nil {
			return err
		}
	}
	return nil
}

// certificateFileName names a signer certificate after its unique identifier,
// falling back to the serial number and then the signature index.
func certificateFileName(b64PEM string, index int) string {
	name := fmt.Sprintf("signer-%d", index)
	if cert, err := signature.ParseCertificate(b64PEM); err == nil {
		id := signature.IdentityFromCertificate(cert)
		switch {
		case id.UniqueIdentifier != "":
			name = id.UniqueIdentifier
		case id.SerialNumber != "":
			name = id.SerialNumber
		}
	}
	return name + ".cer"
}

// saveConservation writes every downloaded NOM-151 certificate of report.
func (c *VerifyCommand) saveConservation(ctx context.Context, report *proofverify.Report) error {
	var sections []*proofverify.ConservationReport
	if report.Conservation != nil {
		sections = append(sections, report.Conservation)
	}
	for i := range report.Signatures {
		sections = append(sections, &report.Signatures[i].Conservation)
	}

	for _, s := range sections {
		certs := []*proofverify.NOM151Report{&s.NOM151}
		if s.Merkle.RootCertificate != nil {
			certs = append(certs, s.Merkle.RootCertificate)
		}
		for _, n := range certs {
			if n.Certificate == nil {
				continue
			}
			if err := c.writeFile(ctx, c.SaveConservation, n.Certificate.FileName(), n.Certificate.Raw); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *VerifyCommand) writeFile(ctx context.Context, dir, name string, data []byte) error {
	path := filepath.Join(dir, filepath.Base(name))
	if _, err := os.Stat(path); err == nil && !c.SkipConfirmation {
		ui.Warnf(ctx, "%s already exists and will be overwritten.", path)
		if err := ui.ConfirmContinue(ctx); err != nil {
			return err
		}
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	ui.Infof(ctx, "Wrote %s", path)
	return nil
}
