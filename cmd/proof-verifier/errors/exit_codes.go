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

// Exit codes for proof-verifier.
// Convention:
//   | // comment that explains the error
//   | const NamedConstant = ERRORCODE

// Error reading or parsing the proof artifact
const InvalidProof = 10

// One or more checks failed or could not decode their input
const VerificationFailed = 11

// No provider is registered for a conservation claim
const UnsupportedProvider = 12

// A conservation provider could not be reached
const ProviderUnavailable = 13

// A conservation provider holds no certificate for the digest
const CertificateNotFound = 14
