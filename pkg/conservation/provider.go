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

// Package conservation retrieves NOM-151 conservation certificates from
// certification providers (PSCs).
package conservation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrorType classifies provider failures.
type ErrorType string

const (
	// UnsupportedProvider means no provider is registered under the name.
	UnsupportedProvider ErrorType = "unsupported-provider"
	// Unavailable covers transport failures, timeouts, cancellation and
	// server errors. Retrying later may succeed.
	Unavailable ErrorType = "unavailable"
	// NotFound means the provider holds no certificate for the digest.
	NotFound ErrorType = "not-found"
)

// Error is returned by providers and the registry.
type Error struct {
	Type     ErrorType
	Provider string
	err      error
}

// NewError wraps err as a provider error of the given type.
func NewError(t ErrorType, provider string, err error) *Error {
	return &Error{Type: t, Provider: provider, err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("conservation provider %s: %s: %v", e.Provider, e.Type, e.err)
}

func (e *Error) Unwrap() error {
	return e.err
}

// ErrorType returns the failure class.
func (e *Error) ErrorType() ErrorType {
	return e.Type
}

// Provider fetches the conservation certificate a PSC issued for a digest.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Name is the identifier proofs use, such as CINCEL.
	Name() string
	// Fetch returns the certificate for digestHex, an optionally 0x
	// prefixed SHA-256 hex digest.
	Fetch(ctx context.Context, digestHex string) (*Certificate, error)
}

// Registry resolves provider names.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry returns a registry holding providers.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: map[string]Provider{}}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds p, replacing any provider with the same name. Names are
// matched case-insensitively.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[strings.ToUpper(p.Name())] = p
}

// Lookup returns the provider registered under name.
func (r *Registry) Lookup(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[strings.ToUpper(name)]
	if !ok {
		return nil, NewError(UnsupportedProvider, name, fmt.Errorf("provider %s not supported", name))
	}
	return p, nil
}

// Names lists the registered providers in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		names = append(names, p.Name())
	}
	sort.Strings(names)
	return names
}

// Fetch retrieves the certificate for digestHex from the named provider.
func (r *Registry) Fetch(ctx context.Context, provider, digestHex string) (*Certificate, error) {
	p, err := r.Lookup(provider)
	if err != nil {
		return nil, err
	}
	return p.Fetch(ctx, digestHex)
}
