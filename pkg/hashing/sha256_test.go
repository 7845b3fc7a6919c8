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

package hashing

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloDigest = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

func TestSHA256Hex(t *testing.T) {
	assert.Equal(t, helloDigest, SHA256Hex([]byte("hello")))
}

func TestVerifyHash(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		claimed string
		want    bool
	}{
		{"exact", []byte("hello"), helloDigest, true},
		{"prefixed", []byte("hello"), "0x" + helloDigest, true},
		{"upper case", []byte("hello"), strings.ToUpper(helloDigest), true},
		{"upper case prefix", []byte("hello"), "0X" + strings.ToUpper(helloDigest), true},
		{"flipped digit", []byte("hello"), "3" + helloDigest[1:], false},
		{"empty claim", []byte("hello"), "", false},
		{"other payload", []byte("hello!"), helloDigest, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, VerifyHash(tc.payload, tc.claimed))
		})
	}
}

func TestVerifyHashRoundTrip(t *testing.T) {
	for i := 0; i < 16; i++ {
		b := make([]byte, i*37)
		_, err := rand.Read(b)
		require.NoError(t, err)
		assert.True(t, VerifyHash(b, SHA256Hex(b)))
		assert.False(t, VerifyHash(b, SHA256Hex(append(b, 0))))
	}
}
