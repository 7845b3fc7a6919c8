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

// Package merkle verifies inclusion proofs against sorted-pair SHA-256 Merkle
// trees whose leaves are 32-byte words.
//
// The trees in circulation were built by hashing the lower-case hex text of
// each value rather than its bytes, so both LeafHash and NodeHash do the
// same. Changing either breaks every existing proof.
package merkle

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/plumaa-id/proof-verifier/pkg/codec"
)

// NodeSize is the size in bytes of every leaf and node.
const NodeSize = 32

// ErrInvalidNode is returned for leaves, siblings or roots that are not
// 32-byte hex values.
var ErrInvalidNode = errors.New("invalid merkle node")

// NodeHashFunc combines two nodes into their parent.
type NodeHashFunc func(a, b []byte) []byte

func hexDigest(b []byte) []byte {
	sum := sha256.Sum256([]byte(hex.EncodeToString(b)))
	return sum[:]
}

// LeafHash returns the tree leaf for a 32-byte value.
func LeafHash(value []byte) ([]byte, error) {
	if len(value) != NodeSize {
		return nil, fmt.Errorf("%w: leaf value is %d bytes", ErrInvalidNode, len(value))
	}
	return hexDigest(value), nil
}

// NodeHash orders a and b byte-lexicographically, concatenates them and
// hashes the result. The order of the arguments does not matter.
func NodeHash(a, b []byte) []byte {
	if bytes.Compare(a, b) > 0 {
		a, b = b, a
	}
	pair := make([]byte, 0, len(a)+len(b))
	pair = append(pair, a...)
	pair = append(pair, b...)
	return hexDigest(pair)
}

// ProcessProof folds proof into leaf and returns the implied root.
func ProcessProof(leaf []byte, proof [][]byte, nodeHash NodeHashFunc) []byte {
	if nodeHash == nil {
		nodeHash = NodeHash
	}
	acc := leaf
	for _, sibling := range proof {
		acc = nodeHash(acc, sibling)
	}
	return acc
}

// Verify reports whether value, a hex digest, is included under root by
// proof. Malformed hex, or any node that is not 32 bytes, is an error; a
// proof that leads elsewhere is (false, nil). A nil nodeHash selects
// NodeHash.
func Verify(root, value string, proof []string, nodeHash NodeHashFunc) (bool, error) {
	rootBytes, err := decodeNode("root", root)
	if err != nil {
		return false, err
	}
	valueBytes, err := decodeNode("leaf", value)
	if err != nil {
		return false, err
	}
	siblings := make([][]byte, len(proof))
	for i, p := range proof {
		if siblings[i], err = decodeNode(fmt.Sprintf("proof[%d]", i), p); err != nil {
			return false, err
		}
	}
	leaf, err := LeafHash(valueBytes)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ProcessProof(leaf, siblings, nodeHash), rootBytes), nil
}

func decodeNode(name, s string) ([]byte, error) {
	b, err := codec.DecodeHex(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidNode, name, err)
	}
	if len(b) != NodeSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrInvalidNode, name, len(b))
	}
	return b, nil
}
