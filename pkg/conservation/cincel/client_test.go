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

package cincel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumaa-id/proof-verifier/pkg/conservation"
)

const digest = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

func newTestClient(t *testing.T, h http.HandlerFunc, mutate func(*conservation.Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := conservation.DefaultConfig()
	cfg.BaseURL = srv.URL + "/v3"
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := New(cfg, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestFetch(t *testing.T) {
	var gotPath, gotAccept, gotUA string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte{0x30, 0x03, 0x02, 0x01, 0x01})
	}, nil)

	cert, err := c.Fetch(context.Background(), "0x"+strings.ToUpper(digest))
	require.NoError(t, err)
	assert.Equal(t, "/v3/timestamps/"+digest+".asn1", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	assert.True(t, strings.HasPrefix(gotUA, "proof-verifier/"), gotUA)

	assert.Equal(t, ProviderName, cert.Provider)
	assert.Equal(t, digest, cert.Hash)
	assert.Equal(t, digest, cert.LookupHash)
	assert.Equal(t, []byte{0x30, 0x03, 0x02, 0x01, 0x01}, cert.Raw)
}

func TestFetchDevelopmentOverride(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("x"))
	}, func(cfg *conservation.Config) {
		cfg.Profile = conservation.ProfileDevelopment
	})

	cert, err := c.Fetch(context.Background(), digest)
	require.NoError(t, err)
	assert.Equal(t, "/v3/timestamps/"+conservation.DevelopmentSampleHash+".asn1", gotPath)
	assert.Equal(t, digest, cert.Hash)
	assert.Equal(t, conservation.DevelopmentSampleHash, cert.LookupHash)
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   conservation.ErrorType
	}{
		{"not found", http.StatusNotFound, conservation.NotFound},
		{"server error", http.StatusInternalServerError, conservation.Unavailable},
		{"bad gateway", http.StatusBadGateway, conservation.Unavailable},
		{"unauthorized", http.StatusUnauthorized, conservation.Unavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			}, nil)
			_, err := c.Fetch(context.Background(), digest)
			var ce *conservation.Error
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, tc.want, ce.ErrorType())
			assert.Equal(t, ProviderName, ce.Provider)
		})
	}
}

func TestFetchCancelled(t *testing.T) {
	block := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		<-block
	}, nil)
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Fetch(ctx, digest)
	var ce *conservation.Error
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.Equal(t, conservation.Unavailable, ce.Type)
}

func TestFetchInvalidDigest(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		called = true
	}, nil)
	_, err := c.Fetch(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
	assert.False(t, called)
}

func TestNew(t *testing.T) {
	c, err := New(conservation.Config{})
	require.NoError(t, err)
	assert.Equal(t, conservation.DefaultCincelURL, c.baseURL.String())
	assert.Equal(t, conservation.DefaultTimeout, c.httpClient.Timeout)
	assert.Equal(t, ProviderName, c.Name())

	_, err = New(conservation.Config{BaseURL: "ftp://example.com"})
	assert.Error(t, err)
}
