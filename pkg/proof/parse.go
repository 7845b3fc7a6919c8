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

package proof

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/plumaa-id/proof-verifier/pkg/codec"
)

//go:embed schema.json
var schemaDefinitions []byte

// ParseError reports an artifact that is not valid JSON or does not match
// the shape of either proof variant.
type ParseError struct {
	Reasons []string
	err     error
}

func (e *ParseError) Error() string {
	if len(e.Reasons) > 0 {
		return "invalid proof: " + strings.Join(e.Reasons, "; ")
	}
	if e.err == nil {
		return "invalid proof"
	}
	return "invalid proof: " + e.err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.err
}

type schemas struct {
	request   *gojsonschema.Schema
	signature *gojsonschema.Schema
}

var loadSchemas = sync.OnceValues(func() (*schemas, error) {
	var defs map[string]any
	if err := json.Unmarshal(schemaDefinitions, &defs); err != nil {
		return nil, err
	}
	compile := func(ref string) (*gojsonschema.Schema, error) {
		doc, err := json.Marshal(map[string]any{
			"$ref":        "#/definitions/" + ref,
			"definitions": defs["definitions"],
		})
		if err != nil {
			return nil, err
		}
		return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(doc))
	}
	req, err := compile("signatureRequest")
	if err != nil {
		return nil, fmt.Errorf("compiling signature request schema: %w", err)
	}
	sig, err := compile("signature")
	if err != nil {
		return nil, fmt.Errorf("compiling signature schema: %w", err)
	}
	return &schemas{request: req, signature: sig}, nil
})

// Parse decodes a proof artifact. The bytes may be UTF-8 or ISO 8859-1. A
// top-level "signature" key selects SignatureProof; otherwise the artifact
// is a SignatureRequestProof. The artifact is validated against the schema
// of the selected variant before it is decoded.
func Parse(data []byte) (*Proof, error) {
	text, err := codec.ToUTF8(data)
	if err != nil {
		return nil, &ParseError{err: err}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(text, &top); err != nil {
		return nil, &ParseError{err: fmt.Errorf("not a JSON object: %w", err)}
	}
	if top == nil {
		return nil, &ParseError{err: errors.New("not a JSON object")}
	}

	s, err := loadSchemas()
	if err != nil {
		return nil, err
	}

	p := &Proof{Kind: KindSignatureRequest}
	schema := s.request
	if _, ok := top["signature"]; ok {
		p.Kind = KindSignature
		schema = s.signature
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(text))
	if err != nil {
		return nil, &ParseError{err: fmt.Errorf("schema validation: %w", err)}
	}
	if !result.Valid() {
		pe := &ParseError{err: fmt.Errorf("%s does not match its schema", p.Kind)}
		for _, re := range result.Errors() {
			pe.Reasons = append(pe.Reasons, re.String())
		}
		return nil, pe
	}

	switch p.Kind {
	case KindSignature:
		p.Signature = &SignatureProof{}
		err = json.Unmarshal(text, p.Signature)
	default:
		p.Request = &SignatureRequestProof{}
		err = json.Unmarshal(text, p.Request)
	}
	if err != nil {
		return nil, &ParseError{err: err}
	}
	return p, nil
}

// ParseFile reads and parses the artifact at path.
func ParseFile(path string) (*Proof, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading proof: %w", err)
	}
	return Parse(data)
}
