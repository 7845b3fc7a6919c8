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

// Package env registers the environment variables proof-verifier reads.
package env

import (
	"fmt"
	"os"
	"strings"
)

// Variable is a registered environment variable name.
type Variable string

// VariableOpts documents a Variable.
type VariableOpts struct {
	Description string
	Expects     string
	Sensitive   bool
}

func (v Variable) String() string {
	return string(v)
}

const prefix = "PROOF_VERIFIER_"

const (
	VariableProfile             Variable = "PROOF_VERIFIER_PROFILE"
	VariableCincelURL           Variable = "PROOF_VERIFIER_CINCEL_URL"
	VariableConservationTimeout Variable = "PROOF_VERIFIER_CONSERVATION_TIMEOUT"
	VariableTestOverrideHash    Variable = "PROOF_VERIFIER_CONSERVATION_TEST_HASH"
	VariableOffline             Variable = "PROOF_VERIFIER_OFFLINE"
	VariableOutput              Variable = "PROOF_VERIFIER_OUTPUT"
)

var environmentVariables = map[Variable]VariableOpts{
	VariableProfile: {
		Description: "selects the deployment profile",
		Expects:     "production (default) or development",
	},
	VariableCincelURL: {
		Description: "overrides the base URL of the CINCEL NOM-151 API",
		Expects:     "URL (https://api.cincel.digital/v3 by default)",
	},
	VariableConservationTimeout: {
		Description: "bounds each conservation certificate request",
		Expects:     "duration such as 10s (10s by default)",
	},
	VariableTestOverrideHash: {
		Description: "replaces the lookup hash of conservation requests outside production",
		Expects:     "hex digest (provider sample digest in development by default)",
	},
	VariableOffline: {
		Description: "skips every network request",
		Expects:     "true to verify offline (false by default)",
	},
	VariableOutput: {
		Description: "selects the report format of the verify command",
		Expects:     "text (default), json or yaml",
	},
}

// EnvironmentVariables returns the registered variables.
func EnvironmentVariables() map[Variable]VariableOpts {
	return environmentVariables
}

func mustRegisterEnv(name Variable) {
	if _, ok := environmentVariables[name]; !ok {
		panic(fmt.Sprintf("environment variable %q is not registered in pkg/env", name.String()))
	}
	if !strings.HasPrefix(name.String(), prefix) {
		panic(fmt.Sprintf("environment variable %q must start with %s prefix", name.String(), prefix))
	}
}

// Getenv returns the value of a registered variable.
func Getenv(name Variable) string {
	mustRegisterEnv(name)

	return os.Getenv(name.String())
}

// LookupEnv returns the value of a registered variable and whether it is set.
func LookupEnv(name Variable) (string, bool) {
	mustRegisterEnv(name)

	return os.LookupEnv(name.String())
}
