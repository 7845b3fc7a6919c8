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

// Package ocsp decodes the OCSP responses embedded in signature proofs.
//
// DecodeCertStatus is a deliberately small, non-validating reader for the
// CertStatus CHOICE of RFC 6960:
//
//	CertStatus ::= CHOICE {
//	    good        [0]     IMPLICIT NULL,
//	    revoked     [1]     IMPLICIT RevokedInfo,
//	    unknown     [2]     IMPLICIT UnknownInfo }
//
//	RevokedInfo ::= SEQUENCE {
//	    revocationTime              GeneralizedTime,
//	    revocationReason    [0]     EXPLICIT CRLReason OPTIONAL }
//
// It walks the bytes once and reacts to a handful of tag values. It does not
// check lengths or DER well-formedness, so a length or content byte equal to
// one of the tags it reacts to will be misread. Decode offers the complete,
// validating view.
package ocsp

import (
	"strconv"
	"time"
)

// Status is the certificate status carried by a CertStatus.
type Status string

const (
	StatusGood    Status = "good"
	StatusRevoked Status = "revoked"
	StatusUnknown Status = "unknown"
)

const (
	tagGood            = 0x80
	tagRevoked         = 0xA1
	tagUnknown         = 0x82
	tagGeneralizedTime = 0x18
	tagReason          = 0xA0
)

// crlReasons maps CRLReason (RFC 5280, section 5.3.1) codes to their names.
// Value 7 is not used.
var crlReasons = map[byte]string{
	0:  "unspecified",
	1:  "keyCompromise",
	2:  "cACompromise",
	3:  "affiliationChanged",
	4:  "superseded",
	5:  "cessationOfOperation",
	6:  "certificateHold",
	8:  "removeFromCRL",
	9:  "privilegeWithdrawn",
	10: "aACompromise",
}

// ReasonString returns the CRLReason name for code, or "" when the code is
// unused or out of range.
func ReasonString(code int) string {
	if code < 0 || code > 0xff {
		return ""
	}
	return crlReasons[byte(code)]
}

// RevokedInfo describes a revocation.
type RevokedInfo struct {
	RevocationTime   *time.Time `json:"revocationTime,omitempty"`
	RevocationReason string     `json:"revocationReason,omitempty"`
}

// CertStatus is the result of DecodeCertStatus. Status is empty when none of
// the status tags was seen.
type CertStatus struct {
	Status      Status       `json:"status,omitempty"`
	RevokedInfo *RevokedInfo `json:"revokedInfo,omitempty"`
}

// DecodeCertStatus scans the raw certStatus element of a SingleResponse.
//
//	0x80  status good
//	0xA1  status revoked
//	0x82  status unknown
//	0x18  revocation time: ASCII digits up to 'Z', read as YYYYMMDDHHMMSS UTC
//	0xA0  revocation reason: the last byte of the input, ends the scan
//
// RevokedInfo is only set when the status is revoked. The function is pure.
func DecodeCertStatus(raw []byte) CertStatus {
	var (
		cs      CertStatus
		revoked RevokedInfo
	)
	for offset := 0; offset < len(raw); offset++ {
		switch raw[offset] {
		case tagGood:
			cs.Status = StatusGood
		case tagRevoked:
			cs.Status = StatusRevoked
		case tagUnknown:
			cs.Status = StatusUnknown
		case tagGeneralizedTime:
			t, end := scanGeneralizedTime(raw, offset)
			revoked.RevocationTime = t
			offset = end
		case tagReason:
			offset = len(raw) - 1
			revoked.RevocationReason = crlReasons[raw[offset]]
		}
	}
	if cs.Status == StatusRevoked {
		cs.RevokedInfo = &revoked
	}
	return cs
}

// scanGeneralizedTime collects ASCII digits from offset until a 'Z' and
// returns the parsed time together with the index of the 'Z' (or len(raw)
// when there is none). Non-digit bytes before the 'Z' are skipped.
func scanGeneralizedTime(raw []byte, offset int) (*time.Time, int) {
	digits := make([]byte, 0, 14)
	for ; offset < len(raw); offset++ {
		c := raw[offset]
		if c >= '0' && c <= '9' {
			digits = append(digits, c)
		} else if c == 'Z' {
			break
		}
	}
	return parseGeneralizedDigits(string(digits)), offset
}

// parseGeneralizedDigits reads YYYYMMDDHHMMSS as a UTC time. Out of range
// fields are normalized by time.Date. Digits past the seconds are ignored.
// It returns nil when fewer than 14 digits are present.
func parseGeneralizedDigits(s string) *time.Time {
	if len(s) < 14 {
		return nil
	}
	var f [6]int
	bounds := [...]int{0, 4, 6, 8, 10, 12, 14}
	for i := range f {
		n, err := strconv.Atoi(s[bounds[i]:bounds[i+1]])
		if err != nil {
			return nil
		}
		f[i] = n
	}
	t := time.Date(f[0], time.Month(f[1]), f[2], f[3], f[4], f[5], 0, time.UTC)
	return &t
}
