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

package ocsp

import (
	"encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"

	"github.com/plumaa-id/proof-verifier/pkg/codec"
)

// DecodeError reports an OCSP response that could not be decoded far enough
// to reach the requested structure.
type DecodeError struct {
	err error
}

func (e *DecodeError) Error() string {
	return "decoding OCSP response: " + e.err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.err
}

func decodeErrorf(format string, args ...any) error {
	return &DecodeError{err: fmt.Errorf(format, args...)}
}

var oidBasicResponse = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 1, 1}

var responseStatusNames = map[int]string{
	0: "successful",
	1: "malformedRequest",
	2: "internalError",
	3: "tryLater",
	5: "sigRequired",
	6: "unauthorized",
}

// ExtractCertStatus walks a DER OCSPResponse down to the certStatus element of
// the first SingleResponse and returns that element's bytes, tag and length
// included. Later SingleResponses are ignored.
//
//	OCSPResponse  ::= SEQUENCE { responseStatus, responseBytes [0] EXPLICIT ResponseBytes OPTIONAL }
//	ResponseBytes ::= SEQUENCE { responseType OID, response OCTET STRING }
//	BasicOCSPResponse ::= SEQUENCE { tbsResponseData ResponseData, ... }
//	ResponseData  ::= SEQUENCE { version [0] EXPLICIT OPTIONAL, responderID, producedAt, responses, ... }
//	SingleResponse ::= SEQUENCE { certID, certStatus, thisUpdate, ... }
func ExtractCertStatus(der []byte) ([]byte, error) {
	input := cryptobyte.String(der)

	var resp cryptobyte.String
	if !input.ReadASN1(&resp, cbasn1.SEQUENCE) {
		return nil, decodeErrorf("malformed OCSPResponse")
	}
	var status int
	if !resp.ReadASN1Enum(&status) {
		return nil, decodeErrorf("malformed responseStatus")
	}
	if status != 0 {
		name, ok := responseStatusNames[status]
		if !ok {
			name = fmt.Sprintf("status %d", status)
		}
		return nil, decodeErrorf("responder returned %s", name)
	}

	var (
		wrapped cryptobyte.String
		present bool
	)
	if !resp.ReadOptionalASN1(&wrapped, &present, cbasn1.Tag(0).Constructed().ContextSpecific()) {
		return nil, decodeErrorf("malformed responseBytes")
	}
	if !present {
		return nil, decodeErrorf("response carries no responseBytes")
	}

	var (
		responseBytes cryptobyte.String
		responseType  asn1.ObjectIdentifier
		basic         cryptobyte.String
	)
	if !wrapped.ReadASN1(&responseBytes, cbasn1.SEQUENCE) ||
		!responseBytes.ReadASN1ObjectIdentifier(&responseType) ||
		!responseBytes.ReadASN1(&basic, cbasn1.OCTET_STRING) {
		return nil, decodeErrorf("malformed ResponseBytes")
	}
	if !responseType.Equal(oidBasicResponse) {
		return nil, decodeErrorf("unsupported response type %s", responseType)
	}

	var basicResp, tbs cryptobyte.String
	if !basic.ReadASN1(&basicResp, cbasn1.SEQUENCE) ||
		!basicResp.ReadASN1(&tbs, cbasn1.SEQUENCE) {
		return nil, decodeErrorf("malformed BasicOCSPResponse")
	}

	var responderID cryptobyte.String
	var responderTag cbasn1.Tag
	if !tbs.SkipOptionalASN1(cbasn1.Tag(0).Constructed().ContextSpecific()) ||
		!tbs.ReadAnyASN1(&responderID, &responderTag) ||
		!tbs.SkipASN1(cbasn1.GeneralizedTime) {
		return nil, decodeErrorf("malformed ResponseData")
	}

	var responses, single cryptobyte.String
	if !tbs.ReadASN1(&responses, cbasn1.SEQUENCE) {
		return nil, decodeErrorf("malformed responses")
	}
	if responses.Empty() {
		return nil, decodeErrorf("response contains no SingleResponse")
	}
	if !responses.ReadASN1(&single, cbasn1.SEQUENCE) ||
		!single.SkipASN1(cbasn1.SEQUENCE) {
		return nil, decodeErrorf("malformed SingleResponse")
	}

	var certStatus cryptobyte.String
	var tag cbasn1.Tag
	if !single.ReadAnyASN1Element(&certStatus, &tag) {
		return nil, decodeErrorf("malformed certStatus")
	}
	return []byte(certStatus), nil
}

// DecodeBase64CertStatus decodes a base64 OCSPResponse and runs
// DecodeCertStatus over its first certStatus element.
func DecodeBase64CertStatus(b64 string) (CertStatus, error) {
	der, err := codec.DecodeBase64(b64)
	if err != nil {
		return CertStatus{}, &DecodeError{err: err}
	}
	raw, err := ExtractCertStatus(der)
	if err != nil {
		return CertStatus{}, err
	}
	return DecodeCertStatus(raw), nil
}
