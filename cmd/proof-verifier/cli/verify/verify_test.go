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
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xocsp "golang.org/x/crypto/ocsp"
	"sigs.k8s.io/yaml"

	perrors "github.com/plumaa-id/proof-verifier/cmd/proof-verifier/errors"
	"github.com/plumaa-id/proof-verifier/internal/ui"
	"github.com/plumaa-id/proof-verifier/pkg/conservation"
	"github.com/plumaa-id/proof-verifier/pkg/conservation/mock"
	"github.com/plumaa-id/proof-verifier/pkg/proof"
	"github.com/plumaa-id/proof-verifier/test"
)

var testDocument = []byte("%PDF-1.7 proof verifier test document")

type fixture struct {
	root   test.CA
	signer test.Signer
	req    *proof.SignatureRequestProof
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := test.GenerateRootCA(t)
	signer := test.GenerateSigner(t, root, "Alice Example", "EXAA800101AAA")
	digest := test.SHA256(testDocument)
	sig := test.SignDigest(t, signer.Key, digest)

	req := &proof.SignatureRequestProof{
		Name:      "contract",
		MediaType: "application/pdf",
		Raw:       base64.StdEncoding.EncodeToString(testDocument),
		Algorithm: proof.SHA256,
		Hash:      "0x" + hex.EncodeToString(digest),
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
	return &fixture{root: root, signer: signer, req: req}
}

func (f *fixture) write(t *testing.T) string {
	t.Helper()
	b, err := json.Marshal(f.req)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "proof.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func registry(t *testing.T) *conservation.Registry {
	t.Helper()
	p, err := mock.NewProvider(mock.Options{})
	require.NoError(t, err)
	return conservation.NewRegistry(p)
}

func TestVerifyCommandText(t *testing.T) {
	f := newFixture(t)
	path := f.write(t)

	var out bytes.Buffer
	cmd := &VerifyCommand{Output: "text", Registry: registry(t), Out: &out}
	require.NoError(t, cmd.Exec(context.Background(), []string{path}))

	got := out.String()
	for _, want := range []string{
		"Proof: " + path + " (signature-request)",
		"Document: contract.pdf",
		"Signature 1: Alice Example (EXAA800101AAA)",
		"OCSP status: good",
		"Provider: CINCEL",
		"Explorer: https://lapo.it/asn1js/#",
		"Result: OK",
	} {
		assert.Contains(t, got, want)
	}
}

func TestVerifyCommandStructured(t *testing.T) {
	f := newFixture(t)
	path := f.write(t)

	var out bytes.Buffer
	cmd := &VerifyCommand{Output: "json", Registry: registry(t), Out: &out}
	require.NoError(t, cmd.Exec(context.Background(), []string{path}))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, path, doc["path"])
	assert.Equal(t, "signature-request", doc["kind"])
	assert.Equal(t, false, doc["failed"])
	assert.Contains(t, doc, "signatures")

	out.Reset()
	cmd.Output = "yaml"
	require.NoError(t, cmd.Exec(context.Background(), []string{path, path}))
	docs := strings.Split(out.String(), "---\n")
	require.Len(t, docs, 2)
	for _, d := range docs {
		var m map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(d), &m))
		assert.Equal(t, "signature-request", m["kind"])
	}
}

func TestVerifyCommandFailure(t *testing.T) {
	f := newFixture(t)
	f.req.Raw = base64.StdEncoding.EncodeToString([]byte("tampered"))
	path := f.write(t)

	var out bytes.Buffer
	cmd := &VerifyCommand{Registry: registry(t), Out: &out}
	err := cmd.Exec(context.Background(), []string{path})
	var ve *perrors.VerificationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, 1, ve.Failed)
	assert.Contains(t, out.String(), "documentHash")
	assert.Contains(t, out.String(), "Result: FAILED")
}

func TestVerifyCommandErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"name": 1}`), 0o600))

	cmd := &VerifyCommand{Registry: registry(t), Out: &bytes.Buffer{}}
	err := cmd.Exec(context.Background(), []string{bad})
	var pe *proof.ParseError
	assert.True(t, errors.As(err, &pe))

	cmd.Output = "xml"
	assert.Error(t, cmd.Exec(context.Background(), []string{bad}))

	cmd.Output = "text"
	cmd.OCSPIssuer = filepath.Join(dir, "missing.pem")
	assert.Error(t, cmd.Exec(context.Background(), []string{bad}))
}

func TestVerifyCommandUnreadableProof(t *testing.T) {
	f := newFixture(t)
	good := f.write(t)
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"name": 1}`), 0o600))

	var out bytes.Buffer
	cmd := &VerifyCommand{Output: "text", Registry: registry(t), Out: &out}
	var err error
	logs := ui.RunWithTestCtx(func(ctx context.Context, _ ui.WriteFunc) {
		err = cmd.Exec(ctx, []string{bad, good})
	})

	var ipe *perrors.InvalidProofError
	require.True(t, errors.As(err, &ipe), "got %v", err)
	assert.Equal(t, 1, ipe.Invalid)
	assert.Equal(t, 0, ipe.Failed)
	var pe *proof.ParseError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, perrors.InvalidProof, perrors.LookupExitCodeForError(err))
	assert.Contains(t, logs, bad)

	got := out.String()
	assert.Contains(t, got, "Proof: "+bad+"\n  Error: reading "+bad)
	assert.Contains(t, got, "Proof: "+good+" (signature-request)")
	assert.Contains(t, got, "Result: OK")
	assert.Equal(t, 1, strings.Count(got, "Result: FAILED"))

	out.Reset()
	cmd.Output = "yaml"
	_ = cmd.Exec(context.Background(), []string{good, bad})
	docs := strings.Split(out.String(), "---\n")
	require.Len(t, docs, 2)
	var m map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(docs[1]), &m))
	assert.Equal(t, bad, m["path"])
	assert.Equal(t, true, m["failed"])
	assert.Contains(t, m["error"], "reading "+bad)
}

func TestVerifyCommandOCSPIssuer(t *testing.T) {
	f := newFixture(t)
	path := f.write(t)
	issuer := filepath.Join(t.TempDir(), "issuer.pem")
	require.NoError(t, os.WriteFile(issuer, test.PEM(f.root.Cert), 0o600))

	var out bytes.Buffer
	cmd := &VerifyCommand{OCSPIssuer: issuer, Registry: registry(t), Out: &out}
	require.NoError(t, cmd.Exec(context.Background(), []string{path}))
	assert.Regexp(t, `ocspSignature\s+passed`, out.String())
}

func TestVerifyCommandExtract(t *testing.T) {
	f := newFixture(t)
	path := f.write(t)
	extractDir := filepath.Join(t.TempDir(), "out")
	saveDir := filepath.Join(t.TempDir(), "nom151")

	cmd := &VerifyCommand{
		Registry:         registry(t),
		Out:              &bytes.Buffer{},
		ExtractDocument:  extractDir,
		SaveConservation: saveDir,
	}
	require.NoError(t, cmd.Exec(context.Background(), []string{path}))

	got, err := os.ReadFile(filepath.Join(extractDir, "contract.pdf"))
	require.NoError(t, err)
	assert.Equal(t, testDocument, got)

	cer, err := os.ReadFile(filepath.Join(extractDir, "EXAA800101AAA.cer"))
	require.NoError(t, err)
	assert.Equal(t, test.PEM(f.signer.Cert), cer)

	asn1, err := os.ReadFile(filepath.Join(saveDir, hex.EncodeToString(test.SHA256(testDocument))+".asn1"))
	require.NoError(t, err)
	assert.NotEmpty(t, asn1)

	// A second run finds the files and asks before overwriting.
	var execErr error
	stderr := ui.RunWithTestCtx(func(ctx context.Context, write ui.WriteFunc) {
		write("n\n")
		execErr = cmd.Exec(ctx, []string{path})
	})
	var declined *ui.ErrPromptDeclined
	assert.True(t, errors.As(execErr, &declined))
	assert.Contains(t, stderr, "already exists and will be overwritten")

	cmd.SkipConfirmation = true
	assert.NoError(t, cmd.Exec(context.Background(), []string{path}))
}

func TestCertificateFileName(t *testing.T) {
	root := test.GenerateRootCA(t)
	withID := test.GenerateSigner(t, root, "Alice", "EXAA800101AAA")
	withoutID := test.GenerateSigner(t, root, "Bob", "")

	assert.Equal(t, "EXAA800101AAA.cer", certificateFileName(test.PEMBase64(withID.Cert), 0))
	assert.Equal(t, withoutID.Cert.SerialNumber.Text(16)+".cer", certificateFileName(test.PEMBase64(withoutID.Cert), 1))
	assert.Equal(t, "signer-2.cer", certificateFileName("garbage", 2))
}

func TestLoadCertificate(t *testing.T) {
	root := test.GenerateRootCA(t)
	dir := t.TempDir()
	pemPath := filepath.Join(dir, "ca.pem")
	derPath := filepath.Join(dir, "ca.cer")
	require.NoError(t, os.WriteFile(pemPath, test.PEM(root.Cert), 0o600))
	require.NoError(t, os.WriteFile(derPath, root.Cert.Raw, 0o600))

	for _, p := range []string{pemPath, derPath} {
		cert, err := LoadCertificate(p)
		require.NoError(t, err)
		assert.True(t, cert.Equal(root.Cert))
	}

	junk := filepath.Join(dir, "junk")
	require.NoError(t, os.WriteFile(junk, []byte("junk"), 0o600))
	_, err := LoadCertificate(junk)
	assert.Error(t, err)
}
