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

// Package codec holds the small encoding helpers shared by every verifier:
// 0x-prefixed hex normalization, standard base64 and Latin-1 tolerant text.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const hexPrefix = "0x"

// Without0x strips a single leading "0x" prefix. Empty input is returned as is.
func Without0x(s string) string {
	return strings.TrimPrefix(s, hexPrefix)
}

// With0x returns s with a "0x" prefix, left padding odd-length hex with a zero
// so the result always encodes whole bytes.
func With0x(s string) string {
	h := Without0x(s)
	if len(h)%2 != 0 {
		h = "0" + h
	}
	return hexPrefix + h
}

// NormalizeHex lower-cases s and then strips the prefix, so "0X" is accepted
// as well.
func NormalizeHex(s string) string {
	return Without0x(strings.ToLower(s))
}

// EqualHex reports whether two hex strings denote the same value, ignoring
// case and an optional 0x prefix.
func EqualHex(a, b string) bool {
	return NormalizeHex(a) == NormalizeHex(b)
}

// DecodeHex decodes an optionally 0x-prefixed hex string. Odd-length input is
// left padded with a zero, matching With0x.
func DecodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(Without0x(With0x(strings.TrimSpace(s))))
	if err != nil {
		return nil, fmt.Errorf("decoding hex %q: %w", s, err)
	}
	return b, nil
}

// DecodeBase64 decodes standard (non URL) base64. Line breaks and surrounding
// whitespace, common in PEM-like payloads, are ignored.
func DecodeBase64(s string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t', ' ':
			return -1
		}
		return r
	}, s)
	b, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("decoding base64: %w", err)
	}
	return b, nil
}

// ToUTF8 returns data unchanged when it is valid UTF-8 and otherwise reads it
// as ISO 8859-1, which is how proof files produced by older exporters are
// encoded on disk.
func ToUTF8(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return data, nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding latin-1 text: %w", err)
	}
	return out, nil
}
