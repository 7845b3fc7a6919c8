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

package verify

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrNilProof is returned by Verify when there is nothing to verify.
var ErrNilProof = errors.New("no proof to verify")

// DecodeError reports a proof field that could not be decoded. It fails the
// check that needed the field and nothing else.
type DecodeError struct {
	Field string
	err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Field, e.err)
}

func (e *DecodeError) Unwrap() error {
	return e.err
}

func signatureScope(i int) string {
	return "signatures[" + strconv.Itoa(i) + "]"
}
