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

// Package mock provides an in-memory conservation provider that issues RFC
// 3161 timestamps for any digest.
package mock

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"sync"
	"time"

	"github.com/digitorus/timestamp"
	"github.com/pkg/errors"
	"github.com/sigstore/sigstore/pkg/cryptoutils"

	"github.com/plumaa-id/proof-verifier/pkg/codec"
	"github.com/plumaa-id/proof-verifier/pkg/conservation"
)

// Provider is a conservation.Provider backed by a local timestamping key.
type Provider struct {
	name   string
	signer crypto.Signer
	cert   *x509.Certificate
	time   time.Time
	err    error

	mu    sync.Mutex
	calls []string
}

var _ conservation.Provider = (*Provider)(nil)

// Options configures a Provider.
type Options struct {
	// Name defaults to CINCEL.
	Name string
	// Time is an optional timestamp. Default is time.Now().
	Time time.Time
	// Err, when set, is returned by every Fetch.
	Err error
	// Signer is an optional signer created out of band. NewProvider creates
	// an RSA key if not set.
	Signer crypto.Signer
}

// NewProvider returns a provider with a self-signed timestamping
// certificate.
func NewProvider(o Options) (*Provider, error) {
	if o.Name == "" {
		o.Name = "CINCEL"
	}
	sv := o.Signer
	if sv == nil {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return nil, errors.Wrap(err, "generating timestamping key")
		}
		sv = key
	}
	serial, err := cryptoutils.GenerateSerialNumber()
	if err != nil {
		return nil, err
	}
	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:   o.Name + " mock PSC",
			Organization: []string{"proof-verifier"},
		},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().AddDate(1, 0, 0),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageTimeStamping},
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, sv.Public(), sv)
	if err != nil {
		return nil, errors.Wrap(err, "generating timestamping certificate")
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, err
	}
	return &Provider{name: o.Name, signer: sv, cert: cert, time: o.Time, err: o.Err}, nil
}

// Name implements conservation.Provider.
func (p *Provider) Name() string {
	return p.name
}

// Certificate is the timestamping certificate.
func (p *Provider) Certificate() *x509.Certificate {
	return p.cert
}

// Calls returns the digests requested so far, in order.
func (p *Provider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// Fetch implements conservation.Provider.
func (p *Provider) Fetch(ctx context.Context, digestHex string) (*conservation.Certificate, error) {
	lookup := codec.NormalizeHex(digestHex)
	p.mu.Lock()
	p.calls = append(p.calls, lookup)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, conservation.NewError(conservation.Unavailable, p.name, err)
	}
	if p.err != nil {
		return nil, p.err
	}
	hashed, err := codec.DecodeHex(lookup)
	if err != nil {
		return nil, errors.Wrap(err, "decoding digest")
	}

	nonce, err := cryptoutils.GenerateSerialNumber()
	if err != nil {
		return nil, err
	}
	ts := timestamp.Timestamp{
		HashAlgorithm:     crypto.SHA256,
		HashedMessage:     hashed,
		Nonce:             nonce,
		Policy:            asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 57264, 2},
		Accuracy:          time.Second,
		AddTSACertificate: true,
	}
	if p.time.IsZero() {
		ts.Time = time.Now()
	} else {
		ts.Time = p.time
	}
	resp, err := ts.CreateResponse(p.cert, p.signer)
	if err != nil {
		return nil, err
	}
	return &conservation.Certificate{
		Provider:   p.name,
		Hash:       lookup,
		LookupHash: lookup,
		Raw:        resp,
	}, nil
}
