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

package signature

import (
	"crypto/x509"
	"encoding/asn1"
	"fmt"
	"time"

	"github.com/sigstore/sigstore/pkg/cryptoutils"

	"github.com/plumaa-id/proof-verifier/pkg/codec"
)

// OIDUniqueIdentifier is the subject attribute (2.5.4.45) that carries the
// signer's identifier in proof certificates.
var OIDUniqueIdentifier = asn1.ObjectIdentifier{2, 5, 4, 45}

// DecodeError reports an input that could not be decoded, as opposed to a
// signature that was decoded and did not verify.
type DecodeError struct {
	Field string
	err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Field, e.err)
}

func (e *DecodeError) Unwrap() error {
	return e.err
}

// ParseCertificate parses a base64 wrapped PEM certificate, the form proofs
// embed. A base64 wrapped DER certificate is accepted too.
func ParseCertificate(b64PEM string) (*x509.Certificate, error) {
	raw, err := codec.DecodeBase64(b64PEM)
	if err != nil {
		return nil, &DecodeError{Field: "certificate", err: err}
	}
	certs, pemErr := cryptoutils.UnmarshalCertificatesFromPEM(raw)
	if pemErr == nil && len(certs) > 0 {
		return certs[0], nil
	}
	cert, derErr := x509.ParseCertificate(raw)
	if derErr != nil {
		if pemErr == nil {
			pemErr = derErr
		}
		return nil, &DecodeError{Field: "certificate", err: pemErr}
	}
	return cert, nil
}

// Identity is the signer information shown next to a signature.
type Identity struct {
	CommonName       string    `json:"commonName"`
	UniqueIdentifier string    `json:"uniqueIdentifier,omitempty"`
	SerialNumber     string    `json:"serialNumber"`
	Subject          string    `json:"subject"`
	Issuer           string    `json:"issuer"`
	NotBefore        time.Time `json:"notBefore"`
	NotAfter         time.Time `json:"notAfter"`
}

// IdentityFromCertificate extracts the signer identity from cert.
func IdentityFromCertificate(cert *x509.Certificate) Identity {
	id := Identity{
		CommonName: cert.Subject.CommonName,
		Subject:    cert.Subject.String(),
		Issuer:     cert.Issuer.String(),
		NotBefore:  cert.NotBefore.UTC(),
		NotAfter:   cert.NotAfter.UTC(),
	}
	if cert.SerialNumber != nil {
		id.SerialNumber = cert.SerialNumber.Text(16)
	}
	for _, atv := range cert.Subject.Names {
		if atv.Type.Equal(OIDUniqueIdentifier) {
			id.UniqueIdentifier = fmt.Sprint(atv.Value)
			break
		}
	}
	return id
}
