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

// Package proof defines the signed-document proof artifact and its parser.
package proof

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/plumaa-id/proof-verifier/pkg/codec"
)

// Kind discriminates the two proof variants.
type Kind string

const (
	KindSignatureRequest Kind = "signature-request"
	KindSignature        Kind = "signature"
)

// Proof is a parsed artifact. Exactly one of Request and Signature is set,
// according to Kind.
type Proof struct {
	Kind      Kind
	Request   *SignatureRequestProof
	Signature *SignatureProof
}

// SignatureRequestProof is a document together with the signatures
// collected over it. Signatures keeps the signing order.
type SignatureRequestProof struct {
	Name         string           `json:"name"`
	MediaType    string           `json:"mediatype"`
	Raw          string           `json:"raw"`
	Algorithm    HashingAlgorithm `json:"algorithm"`
	Hash         string           `json:"hash"`
	Conservation Conservation     `json:"conservation"`
	Signatures   []SignatureProof `json:"signatures"`
}

// SignatureProof is one signer's proof over a document digest.
type SignatureProof struct {
	Signature     string       `json:"signature"`
	SignatureHash string       `json:"signatureHash"`
	Hash          string       `json:"hash"`
	OCSPResponse  string       `json:"ocspResponse"`
	Certificate   string       `json:"certificate"`
	Conservation  Conservation `json:"conservation"`
}

// Conservation lists the existence-in-time claims attached to a digest. Any
// subset of the members may be present.
type Conservation struct {
	NOM151     *NOM151Conservation     `json:"nom151,omitempty"`
	Merkleized *MerkleizedConservation `json:"merkleized,omitempty"`
	WitnessCo  *WitnessCoConservation  `json:"witnessCo,omitempty"`
}

// Methods counts the conservation members present.
func (c Conservation) Methods() int {
	n := 0
	if c.NOM151 != nil {
		n++
	}
	if c.Merkleized != nil {
		n++
	}
	if c.WitnessCo != nil {
		n++
	}
	return n
}

// NOM151Conservation names the certification provider (PSC) holding a
// NOM-151 timestamp certificate for the digest.
type NOM151Conservation struct {
	Provider string `json:"provider"`
}

// MerkleizedConservation proves the digest is a leaf of a tree whose root was
// certified by the nested NOM-151 provider.
type MerkleizedConservation struct {
	MerkleRoot   string              `json:"merkleRoot"`
	MerkleProof  []string            `json:"merkleProof"`
	Conservation *NOM151Conservation `json:"conservation,omitempty"`
	Algorithm    string              `json:"algorithm,omitempty"`
}

// WitnessCoConservation is a WitnessCo commitment. Its fields are carried as
// provided; nothing is recomputed locally.
type WitnessCoConservation struct {
	Timestamp      Scalar   `json:"timestamp,omitempty"`
	LeafIndex      Scalar   `json:"leafIndex,omitempty"`
	LeftHashes     []string `json:"leftHashes,omitempty"`
	RightHashes    []string `json:"rightHashes,omitempty"`
	TargetRootHash string   `json:"targetRootHash,omitempty"`
}

const witnessScanURL = "https://scan.witness.co/leaf/"

// ScanURL links to the WitnessCo explorer page of the leaf for hash.
func ScanURL(hash string) string {
	return witnessScanURL + codec.With0x(hash)
}

// AnchorHash is the digest the proof's conservation claims refer to: the
// document hash of a request, or the signature hash of a signature.
func (p *Proof) AnchorHash() string {
	switch p.Kind {
	case KindSignatureRequest:
		return p.Request.Hash
	case KindSignature:
		return p.Signature.SignatureHash
	}
	return ""
}

// Conservation returns the top-level conservation record.
func (p *Proof) Conservation() Conservation {
	switch p.Kind {
	case KindSignatureRequest:
		return p.Request.Conservation
	case KindSignature:
		return p.Signature.Conservation
	}
	return Conservation{}
}

// Scalar holds a JSON string or number verbatim.
type Scalar string

func (s *Scalar) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}
	*s = Scalar(b)
	return nil
}

// HashingAlgorithm names the document digest algorithm. The zero value means
// the artifact did not say, which is read as SHA-256.
type HashingAlgorithm string

// SHA256 is the only supported algorithm.
const SHA256 HashingAlgorithm = "SHA256"

// UnmarshalJSON accepts the numeric enumeration used by older exporters
// (0 is SHA-256) as well as algorithm names.
func (a *HashingAlgorithm) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		switch strings.ToUpper(strings.ReplaceAll(name, "-", "")) {
		case "SHA256":
			*a = SHA256
		default:
			*a = HashingAlgorithm(name)
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("algorithm: %w", err)
	}
	if n.String() == "0" {
		*a = SHA256
		return nil
	}
	*a = HashingAlgorithm("enum(" + n.String() + ")")
	return nil
}

// Supported reports whether documents hashed with a can be checked.
func (a HashingAlgorithm) Supported() bool {
	return a == "" || a == SHA256
}

func (a HashingAlgorithm) String() string {
	if a == "" {
		return string(SHA256)
	}
	return string(a)
}

// MediaTypeExtension maps the media types proofs carry to a file extension.
// Unknown types map to "".
func MediaTypeExtension(mediaType string) string {
	switch mediaType {
	case "application/pdf":
		return "pdf"
	case "application/json":
		return "json"
	case "text/plain":
		return "txt"
	default:
		return ""
	}
}

// FileName is the name the embedded document is extracted under.
func (r *SignatureRequestProof) FileName() string {
	name := r.Name
	if name == "" {
		name = "document"
	}
	if ext := MediaTypeExtension(r.MediaType); ext != "" {
		return name + "." + ext
	}
	return name
}
