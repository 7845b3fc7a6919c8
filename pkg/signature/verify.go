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
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"

	sigsig "github.com/sigstore/sigstore/pkg/signature"
	"github.com/sigstore/sigstore/pkg/signature/options"

	"github.com/plumaa-id/proof-verifier/pkg/codec"
)

// VerifyDigest checks an RSA PKCS#1 v1.5 signature made over a SHA-256
// digest. digestHex is the digest itself and is not hashed again.
//
// Decoding problems (signature base64, digest hex, a non-RSA key) are
// returned as *DecodeError. A signature that decodes but does not verify,
// including one checked against a digest of the wrong size, is (false, nil).
func VerifyDigest(cert *x509.Certificate, sigB64, digestHex string) (bool, error) {
	if cert == nil {
		return false, &DecodeError{Field: "certificate", err: errors.New("no certificate")}
	}
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return false, &DecodeError{Field: "public key", err: fmt.Errorf("unsupported key type %T", cert.PublicKey)}
	}
	sig, err := codec.DecodeBase64(sigB64)
	if err != nil {
		return false, &DecodeError{Field: "signature", err: err}
	}
	digest, err := codec.DecodeHex(digestHex)
	if err != nil {
		return false, &DecodeError{Field: "digest", err: err}
	}

	verifier, err := sigsig.LoadRSAPKCS1v15Verifier(pub, crypto.SHA256)
	if err != nil {
		return false, &DecodeError{Field: "public key", err: err}
	}
	if err := verifier.VerifySignature(bytes.NewReader(sig), nil, options.WithDigest(digest)); err != nil {
		return false, nil
	}
	return true, nil
}
