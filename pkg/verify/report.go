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
	"github.com/plumaa-id/proof-verifier/pkg/conservation"
	"github.com/plumaa-id/proof-verifier/pkg/ocsp"
	"github.com/plumaa-id/proof-verifier/pkg/proof"
	"github.com/plumaa-id/proof-verifier/pkg/signature"
)

// Status is the outcome of a single check.
type Status string

const (
	StatusPassed        Status = "passed"
	StatusFailed        Status = "failed"
	StatusNotApplicable Status = "not-applicable"
	StatusError         Status = "error"
	StatusUnavailable   Status = "unavailable"
	StatusUnverified    Status = "unverified"
)

// Problem reports whether s should fail a verification run. Unavailable and
// unverified outcomes are informational.
func (s Status) Problem() bool {
	return s == StatusFailed || s == StatusError
}

// CheckName identifies a check within its report section.
type CheckName string

const (
	CheckAlgorithm         CheckName = "algorithm"
	CheckDocumentHash      CheckName = "documentHash"
	CheckSignatureHash     CheckName = "signatureHash"
	CheckDocumentBinding   CheckName = "documentBinding"
	CheckCertificate       CheckName = "certificate"
	CheckSignature         CheckName = "signature"
	CheckCertificateStatus CheckName = "certificateStatus"
	CheckOCSPSignature     CheckName = "ocspSignature"
	CheckNOM151            CheckName = "nom151"
	CheckMerkle            CheckName = "merkle"
	CheckMerkleRoot        CheckName = "merkleRootCertificate"
	CheckWitnessCo         CheckName = "witnessCo"
)

type Check struct {
	Name    CheckName `json:"name"`
	Status  Status    `json:"status"`
	Message string    `json:"message,omitempty"`
}

// Report is the result of verifying one proof. Sections are always
// populated, whatever the outcome of individual checks.
type Report struct {
	Kind proof.Kind `json:"kind"`
	// Document is set for signature request proofs.
	Document *DocumentReport `json:"document,omitempty"`
	// Conservation holds the request's own conservation claims. Signature
	// proofs carry theirs in Signatures[0].
	Conservation *ConservationReport `json:"conservation,omitempty"`
	Signatures   []SignatureReport   `json:"signatures,omitempty"`
}

type DocumentReport struct {
	Name      string  `json:"name"`
	MediaType string  `json:"mediaType,omitempty"`
	FileName  string  `json:"fileName"`
	Algorithm string  `json:"algorithm"`
	Hash      string  `json:"hash"`
	Size      int     `json:"size"`
	Checks    []Check `json:"checks"`
}

type SignatureReport struct {
	Index         int                 `json:"index"`
	SignatureHash string              `json:"signatureHash"`
	Hash          string              `json:"hash"`
	Signer        *signature.Identity `json:"signer,omitempty"`
	CertStatus    *ocsp.CertStatus    `json:"certStatus,omitempty"`
	OCSP          *ocsp.Details       `json:"ocsp,omitempty"`
	Checks        []Check             `json:"checks"`
	Conservation  ConservationReport  `json:"conservation"`
}

type ConservationReport struct {
	AnchorHash string          `json:"anchorHash"`
	Methods    int             `json:"methods"`
	NOM151     NOM151Report    `json:"nom151"`
	Merkle     MerkleReport    `json:"merkle"`
	WitnessCo  WitnessCoReport `json:"witnessCo"`
}

type NOM151Report struct {
	Check
	Provider    string                      `json:"provider,omitempty"`
	Certificate *conservation.Certificate   `json:"certificate,omitempty"`
	ASN1        string                      `json:"asn1,omitempty"`
	ExplorerURL string                      `json:"explorerURL,omitempty"`
	Timestamp   *conservation.TimestampInfo `json:"timestamp,omitempty"`
}

type MerkleReport struct {
	Check
	Root      string   `json:"root,omitempty"`
	Proof     []string `json:"proof,omitempty"`
	Algorithm string   `json:"algorithm,omitempty"`
	// RootCertificate is the NOM-151 certificate over Root, when the proof
	// names a provider for it.
	RootCertificate *NOM151Report `json:"rootCertificate,omitempty"`
}

type WitnessCoReport struct {
	Check
	Commitment *proof.WitnessCoConservation `json:"commitment,omitempty"`
	ScanURL    string                       `json:"scanURL,omitempty"`
}

// ScopedCheck is a check together with the report section it belongs to.
type ScopedCheck struct {
	Scope string
	Check
}

// Checks flattens every check in the report, in report order.
func (r *Report) Checks() []ScopedCheck {
	var out []ScopedCheck
	add := func(scope string, checks ...Check) {
		for _, c := range checks {
			out = append(out, ScopedCheck{Scope: scope, Check: c})
		}
	}
	if r.Document != nil {
		add("document", r.Document.Checks...)
	}
	if r.Conservation != nil {
		add("conservation", r.Conservation.checks()...)
	}
	for _, s := range r.Signatures {
		scope := signatureScope(s.Index)
		add(scope, s.Checks...)
		add(scope+".conservation", s.Conservation.checks()...)
	}
	return out
}

// Failed reports whether any check failed or could not be decoded.
func (r *Report) Failed() bool {
	for _, c := range r.Checks() {
		if c.Status.Problem() {
			return true
		}
	}
	return false
}

// Summary counts the checks by status.
func (r *Report) Summary() map[Status]int {
	counts := map[Status]int{}
	for _, c := range r.Checks() {
		counts[c.Status]++
	}
	return counts
}

func (c *ConservationReport) checks() []Check {
	out := []Check{c.NOM151.Check, c.Merkle.Check}
	if c.Merkle.RootCertificate != nil {
		out = append(out, c.Merkle.RootCertificate.Check)
	}
	return append(out, c.WitnessCo.Check)
}

// Check returns the first check named name, if any.
func (s *SignatureReport) Check(name CheckName) (Check, bool) {
	return findCheck(s.Checks, name)
}

// Check returns the first check named name, if any.
func (d *DocumentReport) Check(name CheckName) (Check, bool) {
	return findCheck(d.Checks, name)
}

func findCheck(checks []Check, name CheckName) (Check, bool) {
	for _, c := range checks {
		if c.Name == name {
			return c, true
		}
	}
	return Check{}, false
}
