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

// Package verify runs every check a proof supports and collects the
// outcomes in a Report.
//
// Hash, signature, OCSP and Merkle checks are pure. The only I/O is the
// conservation certificate fetch, which goes through a conservation.Registry
// and may be cancelled with the context. A failing or unavailable check never
// stops the others.
package verify

import (
	"context"
	"crypto/x509"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/plumaa-id/proof-verifier/internal/ui"
	"github.com/plumaa-id/proof-verifier/pkg/codec"
	"github.com/plumaa-id/proof-verifier/pkg/conservation"
	"github.com/plumaa-id/proof-verifier/pkg/hashing"
	"github.com/plumaa-id/proof-verifier/pkg/merkle"
	"github.com/plumaa-id/proof-verifier/pkg/proof"
)

// Verifier verifies proofs. It is safe for concurrent use.
type Verifier struct {
	registry    *conservation.Registry
	concurrency int
	ocspIssuer  *x509.Certificate
	offline     bool
	nodeHash    merkle.NodeHashFunc
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithRegistry sets the conservation providers. Without one every NOM-151
// claim reports an unsupported provider.
func WithRegistry(r *conservation.Registry) Option {
	return func(v *Verifier) {
		v.registry = r
	}
}

// WithConcurrency bounds the signer pipelines and provider fetches running at
// once. Values below 1 select the number of CPUs.
func WithConcurrency(n int) Option {
	return func(v *Verifier) {
		v.concurrency = n
	}
}

// WithOCSPIssuer enables verification of OCSP response signatures against
// issuer.
func WithOCSPIssuer(issuer *x509.Certificate) Option {
	return func(v *Verifier) {
		v.ocspIssuer = issuer
	}
}

// WithOffline skips conservation certificate fetches.
func WithOffline(offline bool) Option {
	return func(v *Verifier) {
		v.offline = offline
	}
}

// WithNodeHash replaces the Merkle node hash.
func WithNodeHash(f merkle.NodeHashFunc) Option {
	return func(v *Verifier) {
		v.nodeHash = f
	}
}

// New returns a Verifier configured by opts.
func New(opts ...Option) *Verifier {
	v := &Verifier{}
	for _, o := range opts {
		o(v)
	}
	if v.registry == nil {
		v.registry = conservation.NewRegistry()
	}
	if v.concurrency < 1 {
		v.concurrency = runtime.NumCPU()
	}
	if v.nodeHash == nil {
		v.nodeHash = merkle.NodeHash
	}
	return v
}

// run holds the state of a single Verify call.
type run struct {
	*Verifier
	fetches *semaphore.Weighted
}

// Verify checks p. The returned report is always complete; the error is only
// non-nil when p is nil.
func (v *Verifier) Verify(ctx context.Context, p *proof.Proof) (*Report, error) {
	if p == nil {
		return nil, ErrNilProof
	}
	r := &run{Verifier: v, fetches: semaphore.NewWeighted(int64(v.concurrency))}

	switch p.Kind {
	case proof.KindSignatureRequest:
		return r.request(ctx, p.Request), nil
	case proof.KindSignature:
		report := &Report{Kind: proof.KindSignature, Signatures: make([]SignatureReport, 1)}
		report.Signatures[0] = r.signature(ctx, 0, p.Signature, "")
		return report, nil
	default:
		return nil, fmt.Errorf("unknown proof kind %q", p.Kind)
	}
}

func (r *run) request(ctx context.Context, req *proof.SignatureRequestProof) *Report {
	report := &Report{
		Kind:       proof.KindSignatureRequest,
		Document:   r.document(ctx, req),
		Signatures: make([]SignatureReport, len(req.Signatures)),
	}

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	g.Go(func() error {
		c := r.conservation(ctx, req.Hash, req.Conservation)
		report.Conservation = &c
		return nil
	})
	for i := range req.Signatures {
		g.Go(func() error {
			report.Signatures[i] = r.signature(ctx, i, &req.Signatures[i], req.Hash)
			return nil
		})
	}
	_ = g.Wait()
	return report
}

func (r *run) document(ctx context.Context, req *proof.SignatureRequestProof) *DocumentReport {
	d := &DocumentReport{
		Name:      req.Name,
		MediaType: req.MediaType,
		FileName:  req.FileName(),
		Algorithm: req.Algorithm.String(),
		Hash:      req.Hash,
	}

	if !req.Algorithm.Supported() {
		msg := fmt.Sprintf("unsupported hashing algorithm %s", req.Algorithm)
		d.Checks = append(d.Checks,
			Check{Name: CheckAlgorithm, Status: StatusFailed, Message: msg},
			Check{Name: CheckDocumentHash, Status: StatusError, Message: msg})
		return d
	}
	d.Checks = append(d.Checks, Check{Name: CheckAlgorithm, Status: StatusPassed})

	raw, err := codec.DecodeBase64(req.Raw)
	if err != nil {
		d.Checks = append(d.Checks, errorCheck(CheckDocumentHash, &DecodeError{Field: "raw", err: err}))
		return d
	}
	d.Size = len(raw)
	c := boolCheck(CheckDocumentHash, hashing.VerifyHash(raw, req.Hash),
		fmt.Sprintf("document digest is %s", hashing.SHA256Hex(raw)))
	ui.Debugf(ctx, "document %s hash check: %s", d.FileName, c.Status)
	d.Checks = append(d.Checks, c)
	return d
}

func boolCheck(name CheckName, ok bool, failure string) Check {
	if ok {
		return Check{Name: name, Status: StatusPassed}
	}
	return Check{Name: name, Status: StatusFailed, Message: failure}
}

func errorCheck(name CheckName, err error) Check {
	return Check{Name: name, Status: StatusError, Message: err.Error()}
}
