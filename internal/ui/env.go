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

// Package ui writes user-facing diagnostics. Output goes to the Env carried by
// the context, so tests can capture it.
package ui

import (
	"bytes"
	"context"
	"io"
	"os"
)

// Env is the user-facing environment: where diagnostics go and where answers
// to prompts come from.
type Env struct {
	Stderr  io.Writer
	Stdin   io.Reader
	Verbose bool
}

type ctxKey struct{}

func (e *Env) setDefaults() {
	if e.Stderr == nil {
		e.Stderr = os.Stderr
	}
	if e.Stdin == nil {
		e.Stdin = os.Stdin
	}
}

func getEnv(ctx context.Context) *Env {
	e, ok := ctx.Value(ctxKey{}).(*Env)
	if !ok {
		e = &Env{}
	}
	e.setDefaults()
	return e
}

// WithEnv returns a copy of ctx carrying env.
func WithEnv(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, ctxKey{}, env)
}

// WriteFunc feeds input to a prompt under test.
type WriteFunc func(string)

// RunWithTestCtx runs f with a context whose Env is backed by buffers and
// returns everything written to Stderr. Verbose output is enabled.
func RunWithTestCtx(f func(ctx context.Context, write WriteFunc)) string {
	var stdin, stderr bytes.Buffer
	write := func(s string) { stdin.WriteString(s) }
	ctx := WithEnv(context.Background(), &Env{Stderr: &stderr, Stdin: &stdin, Verbose: true})
	f(ctx, write)
	return stderr.String()
}
