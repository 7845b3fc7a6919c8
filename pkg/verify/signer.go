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
	"fmt"
	"time"

	"github.com/plumaa-id/proof-verifier/internal/ui"
	"github.com/plumaa-id/proof-verifier/pkg/codec"
	"github.com/plumaa-id/proof-verifier/pkg/hashing"
	"github.com/plumaa-id/proof-verifier/pkg/ocsp"
	"github.com/plumaa-id/proof-verifier/pkg/proof"
	"github.com/plumaa-id/proof-verifier/pkg/signature"
)

// signature runs one signer's pipeline. documentHash is the hash of the
// enclosing request, empty for standalone signature proofs.
func (r *run) signature(ctx context.Context, index int, s *proof.SignatureProof, documentHash string) SignatureReport {
	rep := SignatureReport{
		Index:         index,
		SignatureHash: s.SignatureHash,
		Hash:          s.Hash,
	}
	scope := signatureScope(index)

	sig, err := codec.DecodeBase64(s.Signature)
	if err != nil {
		rep.Checks = append(rep.Checks, errorCheck(CheckSignatureHash, &DecodeError{Field: "signature", err: err}))
	} else {
		rep.Checks = append(rep.Checks, boolCheck(CheckSignatureHash, hashing.VerifyHash(sig, s.SignatureHash),
			fmt.Sprintf("signature digest is %s", hashing.SHA256Hex(sig))))
	}

	if documentHash == "" {
		rep.Checks = append(rep.Checks, Check{Name: CheckDocumentBinding, Status: StatusNotApplicable})
	} else {
		rep.Checks = append(rep.Checks, boolCheck(CheckDocumentBinding, codec.EqualHex(s.Hash, documentHash),
			"signature was made over a different document digest"))
	}

	cert, err := signature.ParseCertificate(s.Certificate)
	if err != nil {
		rep.Checks = append(rep.Checks,
			errorCheck(CheckCertificate, err),
			Check{Name: CheckSignature, Status: StatusError, Message: "no usable certificate"})
	} else {
		id := signature.IdentityFromCertificate(cert)
		rep.Signer = &id
		rep.Checks = append(rep.Checks, Check{Name: CheckCertificate, Status: StatusPassed})

		ok, err := signature.VerifyDigest(cert, s.Signature, s.Hash)
		if err != nil {
			rep.Checks = append(rep.Checks, errorCheck(CheckSignature, err))
		} else {
			rep.Checks = append(rep.Checks, boolCheck(CheckSignature, ok,
				"signature does not verify against the certificate key"))
		}
	}

	rep.Checks = append(rep.Checks, r.certificateStatus(ctx, scope, s.OCSPResponse, &rep)...)
	for _, c := range rep.Checks {
		ui.Debugf(ctx, "%s %s: %s", scope, c.Name, c.Status)
	}

	rep.Conservation = r.conservation(ctx, s.SignatureHash, s.Conservation)
	return rep
}

// certificateStatus decodes the embedded OCSP response. The minimal
// certStatus scan decides the check; the full decode and the issuer
// signature are extras.
func (r *run) certificateStatus(ctx context.Context, scope, ocspB64 string, rep *SignatureReport) []Check {
	if ocspB64 == "" {
		return []Check{
			{Name: CheckCertificateStatus, Status: StatusNotApplicable, Message: "proof carries no OCSP response"},
			{Name: CheckOCSPSignature, Status: StatusNotApplicable},
		}
	}
	der, err := codec.DecodeBase64(ocspB64)
	if err != nil {
		derr := &DecodeError{Field: "ocspResponse", err: err}
		return []Check{errorCheck(CheckCertificateStatus, derr), errorCheck(CheckOCSPSignature, derr)}
	}

	var checks []Check
	raw, err := ocsp.ExtractCertStatus(der)
	if err != nil {
		checks = append(checks, errorCheck(CheckCertificateStatus, err))
	} else {
		status := ocsp.DecodeCertStatus(raw)
		rep.CertStatus = &status
		checks = append(checks, statusCheck(status))
	}

	if details, err := ocsp.Decode(der); err != nil {
		ui.Debugf(ctx, "%s: full OCSP decode: %v", scope, err)
	} else {
		rep.OCSP = details
	}

	if r.ocspIssuer == nil {
		return append(checks, Check{Name: CheckOCSPSignature, Status: StatusNotApplicable, Message: "no issuer certificate configured"})
	}
	if err := ocsp.VerifyIssuer(der, r.ocspIssuer); err != nil {
		return append(checks, Check{Name: CheckOCSPSignature, Status: StatusFailed, Message: err.Error()})
	}
	return append(checks, Check{Name: CheckOCSPSignature, Status: StatusPassed})
}

func statusCheck(s ocsp.CertStatus) Check {
	c := Check{Name: CheckCertificateStatus}
	switch s.Status {
	case ocsp.StatusGood:
		c.Status = StatusPassed
	case ocsp.StatusRevoked:
		c.Status = StatusFailed
		c.Message = "certificate revoked"
		if s.RevokedInfo != nil {
			if t := s.RevokedInfo.RevocationTime; t != nil {
				c.Message += " at " + t.Format(time.RFC3339)
			}
			if reason := s.RevokedInfo.RevocationReason; reason != "" {
				c.Message += " (" + reason + ")"
			}
		}
	case ocsp.StatusUnknown:
		c.Status = StatusUnverified
		c.Message = "responder does not know the certificate"
	default:
		c.Status = StatusError
		c.Message = "no certStatus tag found"
	}
	return c
}
