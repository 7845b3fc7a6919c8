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

package conservation

import (
	"crypto"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"github.com/digitorus/timestamp"

	"github.com/plumaa-id/proof-verifier/pkg/codec"
)

const explorerURL = "https://lapo.it/asn1js/#"

// Certificate is a conservation certificate as returned by a provider.
type Certificate struct {
	Provider string `json:"provider"`
	// Hash is the digest the certificate was requested for.
	Hash string `json:"hash"`
	// LookupHash is the digest actually sent to the provider. It differs
	// from Hash when a test override is configured.
	LookupHash string `json:"lookupHash"`
	// Raw holds the ASN.1 certificate bytes.
	Raw []byte `json:"-"`
}

// Base64 returns the certificate bytes in standard base64.
func (c *Certificate) Base64() string {
	return base64.StdEncoding.EncodeToString(c.Raw)
}

// ExplorerURL links to an independent ASN.1 decoder showing the
// certificate's fields.
func (c *Certificate) ExplorerURL() string {
	return explorerURL + url.QueryEscape(c.Base64())
}

// FileName is the name the certificate is saved under.
func (c *Certificate) FileName() string {
	return codec.NormalizeHex(c.Hash) + ".asn1"
}

// TimestampInfo is the decoded RFC 3161 content of a certificate.
type TimestampInfo struct {
	Time             time.Time `json:"time"`
	HashAlgorithm    string    `json:"hashAlgorithm"`
	HashedMessage    string    `json:"hashedMessage"`
	SerialNumber     string    `json:"serialNumber,omitempty"`
	Policy           string    `json:"policy,omitempty"`
	Authority        string    `json:"authority,omitempty"`
	Accuracy         string    `json:"accuracy,omitempty"`
	Qualified        bool      `json:"qualified,omitempty"`
	CoversLookupHash bool      `json:"coversLookupHash"`
}

var hashNames = map[crypto.Hash]string{
	crypto.SHA1:   "SHA1",
	crypto.SHA256: "SHA256",
	crypto.SHA384: "SHA384",
	crypto.SHA512: "SHA512",
}

// Inspect decodes the certificate as an RFC 3161 TimeStampResp, or a bare
// TimeStampToken. Providers are not required to use either form, so
// callers treat an error as "not inspectable" rather than as a failure.
func (c *Certificate) Inspect() (*TimestampInfo, error) {
	ts, err := timestamp.ParseResponse(c.Raw)
	if err != nil {
		var tokenErr error
		if ts, tokenErr = timestamp.Parse(c.Raw); tokenErr != nil {
			return nil, fmt.Errorf("parsing timestamp: %w", err)
		}
	}
	info := &TimestampInfo{
		Time:          ts.Time.UTC(),
		HashAlgorithm: hashNames[ts.HashAlgorithm],
		HashedMessage: hex.EncodeToString(ts.HashedMessage),
		Qualified:     ts.Qualified,
	}
	if info.HashAlgorithm == "" {
		info.HashAlgorithm = ts.HashAlgorithm.String()
	}
	if ts.SerialNumber != nil {
		info.SerialNumber = ts.SerialNumber.Text(16)
	}
	if ts.Policy != nil {
		info.Policy = ts.Policy.String()
	}
	if ts.Accuracy > 0 {
		info.Accuracy = ts.Accuracy.String()
	}
	if len(ts.Certificates) > 0 {
		info.Authority = ts.Certificates[0].Subject.String()
	}
	info.CoversLookupHash = codec.EqualHex(info.HashedMessage, c.LookupHash)
	return info, nil
}
