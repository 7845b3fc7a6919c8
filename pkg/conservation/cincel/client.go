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

// Package cincel is the client of the CINCEL NOM-151 timestamp API.
package cincel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/plumaa-id/proof-verifier/internal/ui"
	"github.com/plumaa-id/proof-verifier/internal/useragent"
	"github.com/plumaa-id/proof-verifier/pkg/codec"
	"github.com/plumaa-id/proof-verifier/pkg/conservation"
)

// ProviderName is the name proofs use for CINCEL.
const ProviderName = "CINCEL"

// maxCertificateSize bounds the response body.
const maxCertificateSize = 4 << 20

// Client fetches conservation certificates from CINCEL.
type Client struct {
	cfg        conservation.Config
	baseURL    *url.URL
	httpClient *http.Client
}

var _ conservation.Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// New returns a client for cfg.
func New(cfg conservation.Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = conservation.DefaultCincelURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = conservation.DefaultTimeout
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "parsing CINCEL base URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("CINCEL base URL %q must be http or https", cfg.BaseURL)
	}
	c := &Client{
		cfg:     cfg,
		baseURL: u,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Name implements conservation.Provider.
func (c *Client) Name() string {
	return ProviderName
}

// Fetch implements conservation.Provider. It requests
// GET {base}/timestamps/{hex}.asn1 and returns the body verbatim.
func (c *Client) Fetch(ctx context.Context, digestHex string) (*conservation.Certificate, error) {
	lookup := codec.NormalizeHex(c.cfg.LookupHash(digestHex))
	if _, err := codec.DecodeHex(lookup); err != nil || lookup == "" {
		return nil, fmt.Errorf("invalid lookup digest %q", lookup)
	}

	endpoint := c.baseURL.JoinPath("timestamps", lookup+".asn1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "error creating HTTP request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", useragent.Get())

	ui.Debugf(ctx, "requesting conservation certificate %s", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, conservation.NewError(conservation.Unavailable, ProviderName,
			pkgerrors.Wrap(err, "error making request to CINCEL"))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, conservation.NewError(conservation.NotFound, ProviderName,
			fmt.Errorf("no certificate for %s", lookup))
	default:
		return nil, conservation.NewError(conservation.Unavailable, ProviderName,
			fmt.Errorf("request to CINCEL failed with status code %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCertificateSize+1))
	if err != nil {
		return nil, conservation.NewError(conservation.Unavailable, ProviderName,
			pkgerrors.Wrap(err, "error reading certificate"))
	}
	if len(body) > maxCertificateSize {
		return nil, conservation.NewError(conservation.Unavailable, ProviderName,
			errors.New("certificate exceeds size limit"))
	}
	ui.Debugf(ctx, "conservation certificate for %s fetched (%d bytes)", lookup, len(body))

	return &conservation.Certificate{
		Provider:   ProviderName,
		Hash:       codec.NormalizeHex(digestHex),
		LookupHash: lookup,
		Raw:        body,
	}, nil
}
