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
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/release-utils/version"
)

func runVersion(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"version"}, args...))
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestVersionText(t *testing.T) {
	expected := version.GetVersionInfo()
	out := runVersion(t)
	assert.Regexp(t, regexp.MustCompile(`GitVersion:\s+`+regexp.QuoteMeta(expected.GitVersion)), out)
	assert.Regexp(t, regexp.MustCompile(`GoVersion:\s+`+regexp.QuoteMeta(expected.GoVersion)), out)
}

func TestVersionJSON(t *testing.T) {
	out := runVersion(t, "--json")
	assert.True(t, json.Valid([]byte(out)), out)
}
