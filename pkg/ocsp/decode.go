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

package ocsp

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	xocsp "golang.org/x/crypto/ocsp"
)

// Details is the fully decoded view of a single-response OCSP reply.
type Details struct {
	Status             Status     `json:"status"`
	SerialNumber       string     `json:"serialNumber"`
	ProducedAt         time.Time  `json:"producedAt"`
	ThisUpdate         time.Time  `json:"thisUpdate"`
	NextUpdate         *time.Time `json:"nextUpdate,omitempty"`
	RevokedAt          *time.Time `json:"revokedAt,omitempty"`
	RevocationReason   string     `json:"revocationReason,omitempty"`
	ResponderKeyHash   string     `json:"responderKeyHash,omitempty"`
	ResponderName      string     `json:"responderName,omitempty"`
	ResponderSubject   string     `json:"responderSubject,omitempty"`
	SignatureAlgorithm string     `json:"signatureAlgorithm"`
}

var statusNames = map[int]Status{
	xocsp.Good:    StatusGood,
	xocsp.Revoked: StatusRevoked,
	xocsp.Unknown: StatusUnknown,
}

// Decode parses der with full ASN.1 validation. When the response embeds a
// responder certificate, its signature over the response is checked. Issuer
// verification is done separately by VerifyIssuer.
func Decode(der []byte) (*Details, error) {
	resp, err := xocsp.ParseResponse(der, nil)
	if err != nil {
		return nil, &DecodeError{err: err}
	}
	return detailsFrom(resp), nil
}

// VerifyIssuer checks that the response was signed by issuer, either
// directly or through an embedded responder certificate issued by it.
func VerifyIssuer(der []byte, issuer *x509.Certificate) error {
	if issuer == nil {
		return errors.New("no issuer certificate")
	}
	if _, err := xocsp.ParseResponse(der, issuer); err != nil {
		return fmt.Errorf("verifying OCSP response against %q: %w", issuer.Subject.CommonName, err)
	}
	return nil
}

func detailsFrom(resp *xocsp.Response) *Details {
	d := &Details{
		Status:             statusNames[resp.Status],
		ProducedAt:         resp.ProducedAt.UTC(),
		ThisUpdate:         resp.ThisUpdate.UTC(),
		SignatureAlgorithm: resp.SignatureAlgorithm.String(),
	}
	if resp.SerialNumber != nil {
		d.SerialNumber = resp.SerialNumber.Text(16)
	}
	if !resp.NextUpdate.IsZero() {
		t := resp.NextUpdate.UTC()
		d.NextUpdate = &t
	}
	if resp.Status == xocsp.Revoked {
		t := resp.RevokedAt.UTC()
		d.RevokedAt = &t
		d.RevocationReason = ReasonString(resp.RevocationReason)
	}
	if len(resp.ResponderKeyHash) > 0 {
		d.ResponderKeyHash = hex.EncodeToString(resp.ResponderKeyHash)
	}
	if len(resp.RawResponderName) > 0 {
		var rdns pkix.RDNSequence
		if _, err := asn1.Unmarshal(resp.RawResponderName, &rdns); err == nil {
			var name pkix.Name
			name.FillFromRDNSequence(&rdns)
			d.ResponderName = name.String()
		}
	}
	if resp.Certificate != nil {
		d.ResponderSubject = resp.Certificate.Subject.String()
	}
	return d
}
