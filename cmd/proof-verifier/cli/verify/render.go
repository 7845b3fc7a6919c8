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
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"sigs.k8s.io/yaml"

	proofverify "github.com/plumaa-id/proof-verifier/pkg/verify"
)

// Renderer writes verification reports in one output format.
type Renderer interface {
	Render(w io.Writer, path string, r *proofverify.Report) error
	// RenderError reports a path whose proof could not be read.
	RenderError(w io.Writer, path string, err error) error
	// Separator is written between consecutive reports.
	Separator(w io.Writer) error
}

// RendererFor returns the renderer for format, text when empty.
func RendererFor(format string) (Renderer, error) {
	switch format {
	case "", "text":
		return textRenderer{}, nil
	case "json":
		return jsonRenderer{}, nil
	case "yaml":
		return yamlRenderer{}, nil
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}

// document is the structured form of a report.
type document struct {
	Path string `json:"path"`
	*proofverify.Report
	Failed  bool                       `json:"failed"`
	Summary map[proofverify.Status]int `json:"summary"`
}

func newDocument(path string, r *proofverify.Report) document {
	return document{Path: path, Report: r, Failed: r.Failed(), Summary: r.Summary()}
}

// errorDocument is the structured form of an unreadable proof.
type errorDocument struct {
	Path   string `json:"path"`
	Error  string `json:"error"`
	Failed bool   `json:"failed"`
}

func newErrorDocument(path string, err error) errorDocument {
	return errorDocument{Path: path, Error: err.Error(), Failed: true}
}

type jsonRenderer struct{}

func (jsonRenderer) RenderError(w io.Writer, path string, err error) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newErrorDocument(path, err))
}

func (jsonRenderer) Render(w io.Writer, path string, r *proofverify.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newDocument(path, r))
}

func (jsonRenderer) Separator(io.Writer) error {
	return nil
}

type yamlRenderer struct{}

func (yamlRenderer) RenderError(w io.Writer, path string, err error) error {
	b, mErr := yaml.Marshal(newErrorDocument(path, err))
	if mErr != nil {
		return fmt.Errorf("marshaling report: %w", mErr)
	}
	_, mErr = w.Write(b)
	return mErr
}

func (yamlRenderer) Render(w io.Writer, path string, r *proofverify.Report) error {
	b, err := yaml.Marshal(newDocument(path, r))
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	_, err = w.Write(b)
	return err
}

func (yamlRenderer) Separator(w io.Writer) error {
	_, err := io.WriteString(w, "---\n")
	return err
}

// statusOrder is the order statuses are listed in summaries.
var statusOrder = []proofverify.Status{
	proofverify.StatusPassed,
	proofverify.StatusFailed,
	proofverify.StatusError,
	proofverify.StatusUnavailable,
	proofverify.StatusUnverified,
	proofverify.StatusNotApplicable,
}

type textRenderer struct{}

func (textRenderer) Separator(w io.Writer) error {
	_, err := io.WriteString(w, "\n")
	return err
}

func (textRenderer) Render(w io.Writer, path string, r *proofverify.Report) error {
	t := &textWriter{w: w}
	t.line(0, "Proof: %s (%s)", path, r.Kind)

	if d := r.Document; d != nil {
		t.line(0, "Document: %s", d.FileName)
		if d.MediaType != "" {
			t.line(1, "Media type: %s", d.MediaType)
		}
		t.line(1, "Size: %d bytes", d.Size)
		t.line(1, "Hash: %s (%s)", d.Hash, d.Algorithm)
		t.checks(1, d.Checks)
	}
	if r.Conservation != nil {
		t.conservation(0, r.Conservation)
	}

	for _, s := range r.Signatures {
		signer := "unreadable certificate"
		if s.Signer != nil {
			signer = s.Signer.CommonName
			if s.Signer.UniqueIdentifier != "" {
				signer += " (" + s.Signer.UniqueIdentifier + ")"
			}
		}
		t.line(0, "Signature %d: %s", s.Index+1, signer)
		t.line(1, "Signature hash: %s", s.SignatureHash)
		if s.Signer != nil {
			t.line(1, "Issuer: %s", s.Signer.Issuer)
			t.line(1, "Valid: %s to %s", s.Signer.NotBefore.Format(time.RFC3339), s.Signer.NotAfter.Format(time.RFC3339))
		}
		if cs := s.CertStatus; cs != nil {
			t.line(1, "OCSP status: %s", cs.Status)
			if ri := cs.RevokedInfo; ri != nil {
				if ri.RevocationTime != nil {
					t.line(2, "Revoked at: %s", ri.RevocationTime.Format(time.RFC3339))
				}
				if ri.RevocationReason != "" {
					t.line(2, "Reason: %s", ri.RevocationReason)
				}
			}
		}
		if o := s.OCSP; o != nil {
			t.line(1, "OCSP produced at: %s", o.ProducedAt.Format(time.RFC3339))
			if o.ResponderName != "" {
				t.line(2, "Responder: %s", o.ResponderName)
			}
		}
		t.checks(1, s.Checks)
		t.conservation(1, &s.Conservation)
	}

	counts := r.Summary()
	var parts []string
	for _, st := range statusOrder {
		if n := counts[st]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, st))
		}
	}
	t.line(0, "Summary: %s", strings.Join(parts, ", "))
	if r.Failed() {
		t.line(0, "Result: FAILED")
	} else {
		t.line(0, "Result: OK")
	}
	return t.err
}

func (textRenderer) RenderError(w io.Writer, path string, err error) error {
	t := &textWriter{w: w}
	t.line(0, "Proof: %s", path)
	t.line(1, "Error: %v", err)
	t.line(0, "Result: FAILED")
	return t.err
}

// textWriter keeps the first write error.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) line(indent int, format string, a ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, strings.Repeat("  ", indent)+format+"\n", a...)
}

func (t *textWriter) checks(indent int, checks []proofverify.Check) {
	for _, c := range checks {
		t.check(indent, c)
	}
}

func (t *textWriter) check(indent int, c proofverify.Check) {
	if c.Message == "" {
		t.line(indent, "%-22s %s", c.Name, c.Status)
		return
	}
	t.line(indent, "%-22s %s: %s", c.Name, c.Status, c.Message)
}

func (t *textWriter) conservation(indent int, c *proofverify.ConservationReport) {
	t.line(indent, "Conservation: %d method(s) over %s", c.Methods, c.AnchorHash)
	t.nom151(indent+1, &c.NOM151)

	t.check(indent+1, c.Merkle.Check)
	if c.Merkle.Root != "" {
		t.line(indent+2, "Root: %s", c.Merkle.Root)
	}
	if c.Merkle.RootCertificate != nil {
		t.nom151(indent+1, c.Merkle.RootCertificate)
	}

	t.check(indent+1, c.WitnessCo.Check)
	if w := c.WitnessCo.Commitment; w != nil {
		t.line(indent+2, "Leaf index: %s", w.LeafIndex)
		t.line(indent+2, "Timestamp: %s", w.Timestamp)
		if w.TargetRootHash != "" {
			t.line(indent+2, "Target root: %s", w.TargetRootHash)
		}
		t.line(indent+2, "Scan: %s", c.WitnessCo.ScanURL)
	}
}

func (t *textWriter) nom151(indent int, n *proofverify.NOM151Report) {
	t.check(indent, n.Check)
	if n.Provider != "" && n.Status != proofverify.StatusNotApplicable {
		t.line(indent+1, "Provider: %s", n.Provider)
	}
	if ts := n.Timestamp; ts != nil {
		t.line(indent+1, "Timestamp: %s", ts.Time.Format(time.RFC3339))
		if ts.Authority != "" {
			t.line(indent+1, "Authority: %s", ts.Authority)
		}
	}
	if n.ExplorerURL != "" {
		t.line(indent+1, "Explorer: %s", n.ExplorerURL)
	}
}
