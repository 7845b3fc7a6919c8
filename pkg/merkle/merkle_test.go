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

package merkle

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree hashes values into a tree, carrying an unpaired node up a level
// unchanged, and returns the root and one proof per value.
func buildTree(t *testing.T, values [][]byte) ([]byte, [][][]byte) {
	t.Helper()
	level := make([][]byte, len(values))
	for i, v := range values {
		l, err := LeafHash(v)
		require.NoError(t, err)
		level[i] = l
	}
	proofs := make([][][]byte, len(values))
	pos := make([]int, len(values))
	for i := range pos {
		pos[i] = i
	}
	for len(level) > 1 {
		next := make([][]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			next = append(next, NodeHash(level[i], level[i+1]))
		}
		for leaf, p := range pos {
			sibling := p ^ 1
			if sibling < len(level) {
				proofs[leaf] = append(proofs[leaf], level[sibling])
			}
			pos[leaf] = p / 2
		}
		level = next
	}
	return level[0], proofs
}

func randomValues(t *testing.T, n int) [][]byte {
	t.Helper()
	values := make([][]byte, n)
	for i := range values {
		values[i] = make([]byte, NodeSize)
		_, err := rand.Read(values[i])
		require.NoError(t, err)
	}
	return values
}

func hexAll(nodes [][]byte) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = hex.EncodeToString(n)
	}
	return out
}

func TestLeafHashHashesHexText(t *testing.T) {
	value := make([]byte, NodeSize)
	value[31] = 0xAB
	want := sha256.Sum256([]byte(strings.Repeat("00", 31) + "ab"))

	got, err := LeafHash(value)
	require.NoError(t, err)
	assert.Equal(t, want[:], got)

	_, err = LeafHash(value[:31])
	assert.ErrorIs(t, err, ErrInvalidNode)
}

func TestNodeHashIsOrderIndependent(t *testing.T) {
	values := randomValues(t, 2)
	a, b := values[0], values[1]
	assert.Equal(t, NodeHash(a, b), NodeHash(b, a))

	lo, hi := a, b
	if hex.EncodeToString(a) > hex.EncodeToString(b) {
		lo, hi = b, a
	}
	want := sha256.Sum256([]byte(hex.EncodeToString(lo) + hex.EncodeToString(hi)))
	assert.Equal(t, want[:], NodeHash(a, b))
}

func TestVerifyRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 7, 16} {
		values := randomValues(t, n)
		root, proofs := buildTree(t, values)
		rootHex := hex.EncodeToString(root)
		for i, v := range values {
			ok, err := Verify(rootHex, hex.EncodeToString(v), hexAll(proofs[i]), nil)
			require.NoError(t, err)
			assert.True(t, ok, "n=%d leaf=%d", n, i)

			// prefixes and case do not matter
			ok, err = Verify("0x"+strings.ToUpper(rootHex), "0x"+hex.EncodeToString(v), hexAll(proofs[i]), NodeHash)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	}
}

func TestVerifyMutation(t *testing.T) {
	values := randomValues(t, 8)
	root, proofs := buildTree(t, values)
	rootHex := hex.EncodeToString(root)

	for i := range values {
		for j := range proofs[i] {
			for _, idx := range []int{0, 17, 31} {
				mutated := make([][]byte, len(proofs[i]))
				for k, p := range proofs[i] {
					mutated[k] = append([]byte(nil), p...)
				}
				mutated[j][idx] ^= 0x01
				ok, err := Verify(rootHex, hex.EncodeToString(values[i]), hexAll(mutated), nil)
				require.NoError(t, err)
				assert.False(t, ok, "leaf=%d node=%d byte=%d", i, j, idx)
			}
		}
	}

	// a value from outside the tree
	other := randomValues(t, 1)[0]
	ok, err := Verify(rootHex, hex.EncodeToString(other), hexAll(proofs[0]), nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyDecodeErrors(t *testing.T) {
	good := strings.Repeat("ab", NodeSize)
	tests := []struct {
		name  string
		root  string
		leaf  string
		proof []string
	}{
		{"bad root hex", "zz", good, nil},
		{"short root", "abcd", good, nil},
		{"short leaf", good, "0x1234", nil},
		{"bad sibling", good, good, []string{"xyz"}},
		{"long sibling", good, good, []string{good + "00"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := Verify(tc.root, tc.leaf, tc.proof, nil)
			assert.False(t, ok)
			assert.True(t, errors.Is(err, ErrInvalidNode), "got %v", err)
		})
	}
}

func TestVerifyCustomNodeHash(t *testing.T) {
	values := randomValues(t, 2)
	leaf, err := LeafHash(values[0])
	require.NoError(t, err)
	calls := 0
	concatFirst := func(a, b []byte) []byte {
		calls++
		sum := sha256.Sum256(append(append([]byte(nil), a...), b...))
		return sum[:]
	}
	root := concatFirst(leaf, values[1])
	ok, err := Verify(hex.EncodeToString(root), hex.EncodeToString(values[0]), []string{hex.EncodeToString(values[1])}, concatFirst)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, calls)
}
