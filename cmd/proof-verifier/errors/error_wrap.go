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

package errors

import (
	"errors"
	"fmt"

	"github.com/plumaa-id/proof-verifier/pkg/conservation"
	"github.com/plumaa-id/proof-verifier/pkg/proof"
)

const (
	VerificationFailedType = "verification-failed"
	InvalidProofType       = "invalid-proof"
)

// ProofError carries the message and process exit code of a failed command.
type ProofError struct {
	Message string
	Code    int
}

func (e *ProofError) Error() string {
	return e.Message
}

func (e *ProofError) ExitCode() int {
	return e.Code
}

// VerificationError reports a proof whose report contains failed checks.
type VerificationError struct {
	Failed int
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%d check(s) did not pass", e.Failed)
}

func (e *VerificationError) ErrorType() string {
	return VerificationFailedType
}

// InvalidProofError reports proof files that could not be read or parsed.
// Err is the first such error.
type InvalidProofError struct {
	Invalid int
	Failed  int
	Err     error
}

func (e *InvalidProofError) Error() string {
	msg := fmt.Sprintf("%d proof(s) could not be read", e.Invalid)
	if e.Failed > 0 {
		msg += fmt.Sprintf(" and %d check(s) did not pass", e.Failed)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidProofError) Unwrap() error {
	return e.Err
}

func (e *InvalidProofError) ErrorType() string {
	return InvalidProofType
}

// WrapError takes an error type and depending on the type of error
// passed, will access it's error message and errorType (and return
// the associated exitCode) and wrap them in a generic `ProofError`.
// If no custom error has been found, then it will still return a
// `ProofError` with an error message, but the `exitCode` will be `1`.
func WrapError(err error) error {
	var pe *ProofError
	if errors.As(err, &pe) {
		return pe
	}

	var invalidProof *InvalidProofError
	if errors.As(err, &invalidProof) {
		return &ProofError{
			Message: err.Error(),
			Code:    LookupExitCodeForErrorType(invalidProof.ErrorType()),
		}
	}

	var verificationError *VerificationError
	if errors.As(err, &verificationError) {
		return &ProofError{
			Message: err.Error(),
			Code:    LookupExitCodeForErrorType(verificationError.ErrorType()),
		}
	}

	var providerError *conservation.Error
	if errors.As(err, &providerError) {
		return &ProofError{
			Message: err.Error(),
			Code:    LookupExitCodeForErrorType(string(providerError.ErrorType())),
		}
	}

	var parseError *proof.ParseError
	if errors.As(err, &parseError) {
		return &ProofError{
			Message: err.Error(),
			Code:    LookupExitCodeForErrorType(InvalidProofType),
		}
	}

	return &ProofError{
		Message: err.Error(),
		Code:    1,
	}
}
