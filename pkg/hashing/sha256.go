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
	"crypto/sha256"
	"encoding/hex"

	"github.com/plumaa-id/proof-verifier/pkg/codec"
)

// SHA256Hex returns the lower-case hex SHA-256 digest of payload.
func SHA256Hex(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// VerifyHash reports whether claimedHex is the SHA-256 digest of payload.
// Both sides are compared after stripping an optional 0x prefix and
// lower-casing. A mismatch is a normal outcome and is never an error.
func VerifyHash(payload []byte, claimedHex string) bool {
	return codec.EqualHex(SHA256Hex(payload), claimedHex)
}
