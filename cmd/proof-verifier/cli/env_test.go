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

package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plumaa-id/proof-verifier/pkg/env"
)

const (
	VariableTest1 env.Variable = "PROOF_VERIFIER_TEST1"
	VariableTest2 env.Variable = "PROOF_VERIFIER_TEST2"

	expectedWithoutDescription = `PROOF_VERIFIER_TEST1="abcd"
PROOF_VERIFIER_TEST2=""
`
	expectedWithDescription = `# PROOF_VERIFIER_TEST1 is the first test variable
# Expects: test1 value
PROOF_VERIFIER_TEST1="abcd"
# PROOF_VERIFIER_TEST2 is the second test variable
# Expects: test2 value
PROOF_VERIFIER_TEST2=""
`
	expectedWithHiddenSensitive = `# PROOF_VERIFIER_TEST1 is the first test variable
# Expects: test1 value
PROOF_VERIFIER_TEST1="abcd"
# PROOF_VERIFIER_TEST2 is the second test variable
# Expects: test2 value
PROOF_VERIFIER_TEST2="******"
`
	expectedWithSensitive = `# PROOF_VERIFIER_TEST1 is the first test variable
# Expects: test1 value
PROOF_VERIFIER_TEST1="abcd"
# PROOF_VERIFIER_TEST2 is the second test variable
# Expects: test2 value
PROOF_VERIFIER_TEST2="1234"
`
	expectedWithNonRegisteredEnv = `# PROOF_VERIFIER_TEST1 is the first test variable
# Expects: test1 value
PROOF_VERIFIER_TEST1="abcd"
# PROOF_VERIFIER_TEST2 is the second test variable
# Expects: test2 value
PROOF_VERIFIER_TEST2=""
# Environment variables below are not registered with proof-verifier,
# but might still set flag defaults.
PROOF_VERIFIER_TEST3=abcd
PROOF_VERIFIER_TEST4=a=b
`
	expectedWithNonRegisteredEnvNoDesc = `PROOF_VERIFIER_TEST1="abcd"
PROOF_VERIFIER_TEST2=""
PROOF_VERIFIER_TEST3=abcd
PROOF_VERIFIER_TEST4=a=b
`
)

func tGetEnv(vars map[string]string) envGetter {
	return func(key env.Variable) string {
		return vars[key.String()]
	}
}

func tGetEnviron(vars map[string]string) environGetter {
	return func() []string {
		var s []string
		for k, v := range vars {
			s = append(s, fmt.Sprintf("%s=%s", k, v))
		}
		return s
	}
}

func TestPrintEnv(t *testing.T) {
	variables := map[env.Variable]env.VariableOpts{
		VariableTest1: {
			Description: "is the first test variable",
			Expects:     "test1 value",
			Sensitive:   false,
		},
		VariableTest2: {
			Description: "is the second test variable",
			Expects:     "test2 value",
			Sensitive:   true,
		},
	}

	tests := []struct {
		name                string
		environment         map[string]string
		showDescriptions    bool
		showSensitiveValues bool
		expected            string
	}{{
		name:        "no descriptions",
		environment: map[string]string{"PROOF_VERIFIER_TEST1": "abcd"},
		expected:    expectedWithoutDescription,
	}, {
		name:             "descriptions",
		environment:      map[string]string{"PROOF_VERIFIER_TEST1": "abcd"},
		showDescriptions: true,
		expected:         expectedWithDescription,
	}, {
		name:             "hidden sensitive value",
		environment:      map[string]string{"PROOF_VERIFIER_TEST1": "abcd", "PROOF_VERIFIER_TEST2": "1234"},
		showDescriptions: true,
		expected:         expectedWithHiddenSensitive,
	}, {
		name:                "shown sensitive value",
		environment:         map[string]string{"PROOF_VERIFIER_TEST1": "abcd", "PROOF_VERIFIER_TEST2": "1234"},
		showDescriptions:    true,
		showSensitiveValues: true,
		expected:            expectedWithSensitive,
	}, {
		name: "non registered variables",
		environment: map[string]string{
			"PROOF_VERIFIER_TEST1": "abcd",
			"PROOF_VERIFIER_TEST3": "abcd",
			"PROOF_VERIFIER_TEST4": "a=b",
			"HOME":                 "/root",
		},
		showDescriptions: true,
		expected:         expectedWithNonRegisteredEnv,
	}, {
		name: "non registered variables without descriptions",
		environment: map[string]string{
			"PROOF_VERIFIER_TEST1": "abcd",
			"PROOF_VERIFIER_TEST3": "abcd",
			"PROOF_VERIFIER_TEST4": "a=b",
		},
		expected: expectedWithNonRegisteredEnvNoDesc,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			printEnv(&out, variables, tGetEnv(tt.environment), tGetEnviron(tt.environment), tt.showDescriptions, tt.showSensitiveValues)
			assert.Equal(t, tt.expected, out.String())
		})
	}
}

func TestEnvCommand(t *testing.T) {
	t.Setenv(env.VariableProfile.String(), "development")

	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"env", "--show-descriptions=false"})
	assert.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `PROOF_VERIFIER_PROFILE="development"`)
	assert.Contains(t, out.String(), `PROOF_VERIFIER_CINCEL_URL=`)
	assert.NotContains(t, out.String(), "# ")
}
