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

	"github.com/plumaa-id/proof-verifier/pkg/conservation"
)

// exitCodeLookup contains a map of errorTypes and their associated exitCodes.
var exitCodeLookup = map[string]int{
	string(conservation.UnsupportedProvider): UnsupportedProvider,
	string(conservation.Unavailable):         ProviderUnavailable,
	string(conservation.NotFound):            CertificateNotFound,
	VerificationFailedType:                   VerificationFailed,
	InvalidProofType:                         InvalidProof,
}

// LookupExitCodeForErrorType returns 1 for error types without an entry.
func LookupExitCodeForErrorType(errorType string) int {
	exitCode := exitCodeLookup[errorType]
	if exitCode == 0 {
		return 1
	}
	return exitCode
}

// LookupExitCodeForError classifies err the same way WrapError does and
// returns its exit code.
func LookupExitCodeForError(err error) int {
	var pe *ProofError
	if errors.As(WrapError(err), &pe) {
		return pe.ExitCode()
	}
	return 1
}
