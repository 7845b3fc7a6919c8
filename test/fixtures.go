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

// Package test holds certificate, signature, OCSP and timestamp fixtures
// shared by the package tests.
package test

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/base64"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/digitorus/timestamp"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ocsp"
)

// OIDUniqueIdentifier is the subject attribute holding the signer identifier.
var OIDUniqueIdentifier = asn1.ObjectIdentifier{2, 5, 4, 45}

// KeySize is small to keep the tests fast.
const KeySize = 2048

// CA is an RSA certificate together with its key.
type CA struct {
	Cert *x509.Certificate
	Key  *rsa.PrivateKey
}

// Signer is an end-entity certificate issued by a CA.
type Signer struct {
	CA
	Issuer CA
}

// GenerateRootCA creates a self-signed RSA certificate authority.
func GenerateRootCA(t testing.TB) CA {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, KeySize)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(2019),
		Subject: pkix.Name{
			CommonName:   "AC Proof Test Root",
			Organization: []string{"Plumaa ID Test CA"},
			Country:      []string{"MX"},
		},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().AddDate(10, 0, 0),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return CA{Cert: cert, Key: key}
}

// GenerateSigner issues an RSA signing certificate with the given common name
// and, when not empty, the unique identifier subject attribute.
func GenerateSigner(t testing.TB, issuer CA, commonName, uniqueID string) Signer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, KeySize)
	require.NoError(t, err)

	subject := pkix.Name{
		CommonName:   commonName,
		Organization: []string{"End User"},
		Country:      []string{"MX"},
	}
	if uniqueID != "" {
		subject.ExtraNames = []pkix.AttributeTypeAndValue{{Type: OIDUniqueIdentifier, Value: uniqueID}}
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      subject,
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().AddDate(2, 0, 0),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageContentCommitment,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, issuer.Cert, &key.PublicKey, issuer.Key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return Signer{CA: CA{Cert: cert, Key: key}, Issuer: issuer}
}

// PEM returns the PEM encoding of cert.
func PEM(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
}

// PEMBase64 returns the base64 of the PEM encoding of cert, the form used in
// proof files.
func PEMBase64(cert *x509.Certificate) string {
	return base64.StdEncoding.EncodeToString(PEM(cert))
}

// SignDigest produces an RSA PKCS#1 v1.5 signature over an already computed
// SHA-256 digest.
func SignDigest(t testing.TB, key *rsa.PrivateKey, digest []byte) []byte {
	t.Helper()
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest)
	require.NoError(t, err)
	return sig
}

// OCSPTemplate describes the single response of a fixture OCSP reply.
type OCSPTemplate struct {
	Status           int
	RevokedAt        time.Time
	RevocationReason int
}

// OCSPResponse creates a DER OCSP response for s signed directly by its
// issuer.
func OCSPResponse(t testing.TB, s Signer, tmpl OCSPTemplate) []byte {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	resp := ocsp.Response{
		Status:           tmpl.Status,
		SerialNumber:     s.Cert.SerialNumber,
		ThisUpdate:       now.Add(-time.Hour),
		NextUpdate:       now.Add(24 * time.Hour),
		RevokedAt:        tmpl.RevokedAt,
		RevocationReason: tmpl.RevocationReason,
	}
	der, err := ocsp.CreateResponse(s.Issuer.Cert, s.Issuer.Cert, resp, s.Issuer.Key)
	require.NoError(t, err)
	return der
}

// GenerateTSA creates a self-signed RSA timestamping authority.
func GenerateTSA(t testing.TB) CA {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, KeySize)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(151),
		Subject: pkix.Name{
			CommonName:   "PSC NOM-151 Test TSA",
			Organization: []string{"Plumaa ID Test PSC"},
			Country:      []string{"MX"},
		},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().AddDate(5, 0, 0),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageTimeStamping},
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return CA{Cert: cert, Key: key}
}

// TimestampResponse creates an RFC 3161 TimeStampResp over digest.
func TimestampResponse(t testing.TB, tsa CA, digest []byte, at time.Time) []byte {
	t.Helper()
	ts := timestamp.Timestamp{
		HashAlgorithm:     crypto.SHA256,
		HashedMessage:     digest,
		Time:              at,
		Nonce:             big.NewInt(1),
		Policy:            asn1.ObjectIdentifier{2, 16, 484, 101, 10, 316, 2, 151},
		Accuracy:          time.Second,
		AddTSACertificate: true,
	}
	resp, err := ts.CreateResponse(tsa.Cert, tsa.Key)
	require.NoError(t, err)
	return resp
}

// SHA256 returns the raw SHA-256 digest of b.
func SHA256(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}
