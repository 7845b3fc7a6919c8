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
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xocsp "golang.org/x/crypto/ocsp"
	"sigs.k8s.io/yaml"

	"github.com/plumaa-id/proof-verifier/pkg/proof"
	"github.com/plumaa-id/proof-verifier/test"
)

// execute runs the root command with args and returns what it wrote to
// stdout.
func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeProof(t *testing.T) string {
	t.Helper()
	document := []byte("command test document")
	root := test.GenerateRootCA(t)
	signer := test.GenerateSigner(t, root, "Bob Example", "")
	digest := test.SHA256(document)
	sig := test.SignDigest(t, signer.Key, digest)

	req := &proof.SignatureRequestProof{
		Name:      "agreement",
		MediaType: "text/plain",
		Raw:       base64.StdEncoding.EncodeToString(document),
		Algorithm: proof.SHA256,
		Hash:      hex.EncodeToString(digest),
		Conservation: proof.Conservation{
			NOM151: &proof.NOM151Conservation{Provider: "CINCEL"},
		},
		Signatures: []proof.SignatureProof{{
			Signature:     base64.StdEncoding.EncodeToString(sig),
			SignatureHash: hex.EncodeToString(test.SHA256(sig)),
			Hash:          hex.EncodeToString(digest),
			OCSPResponse:  base64.StdEncoding.EncodeToString(test.OCSPResponse(t, signer, test.OCSPTemplate{Status: xocsp.Good})),
			Certificate:   test.PEMBase64(signer.Cert),
		}},
	}
	b, err := json.Marshal(req)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "proof.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func nom151Status(t *testing.T, report map[string]any) any {
	t.Helper()
	c, ok := report["conservation"].(map[string]any)
	require.True(t, ok, "conservation missing from %v", report)
	n, ok := c["nom151"].(map[string]any)
	require.True(t, ok, "nom151 missing from %v", c)
	return n["status"]
}

func TestVerifyDefaultsFromEnv(t *testing.T) {
	path := writeProof(t)
	t.Setenv("PROOF_VERIFIER_OUTPUT", "json")
	t.Setenv("PROOF_VERIFIER_OFFLINE", "true")

	out, err := execute(t, nil, "verify", path)
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, false, report["failed"])
	assert.Equal(t, "unavailable", nom151Status(t, report))
}

func TestVerifyFlagOverridesEnv(t *testing.T) {
	path := writeProof(t)
	t.Setenv("PROOF_VERIFIER_OUTPUT", "json")

	out, err := execute(t, nil, "verify", "--offline", "-o", "text", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Result: OK")
	assert.False(t, json.Valid([]byte(out)))
}

func TestVerifyDefaultsFromConfig(t *testing.T) {
	path := writeProof(t)
	config := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte("output: yaml\noffline: true\n"), 0o600))

	out, err := execute(t, nil, "--config", config, "verify", path)
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Equal(t, "signature-request", report["kind"])
	assert.Equal(t, "unavailable", nom151Status(t, report))
}

func TestVerifyInvalidDefaults(t *testing.T) {
	path := writeProof(t)

	t.Run("output", func(t *testing.T) {
		t.Setenv("PROOF_VERIFIER_OUTPUT", "xml")
		_, err := execute(t, nil, "verify", "--offline", path)
		assert.Error(t, err)
	})

	t.Run("concurrency", func(t *testing.T) {
		t.Setenv("PROOF_VERIFIER_CONCURRENCY", "many")
		_, err := execute(t, nil, "verify", "--offline", path)
		assert.ErrorContains(t, err, "invalid flag defaults")
	})

	t.Run("missing config", func(t *testing.T) {
		_, err := execute(t, nil, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "verify", path)
		assert.ErrorContains(t, err, "reading config")
	})
}

func TestVerifyMissingProof(t *testing.T) {
	_, err := execute(t, nil, "verify", "--offline", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "missing.json")
}
