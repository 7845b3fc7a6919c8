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

package conservation

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/plumaa-id/proof-verifier/pkg/codec"
)

const (
	ProfileProduction  = "production"
	ProfileDevelopment = "development"

	// DefaultCincelURL is the root of the CINCEL v3 API.
	DefaultCincelURL = "https://api.cincel.digital/v3"
	// DefaultTimeout bounds a single certificate request.
	DefaultTimeout = 10 * time.Second
	// DevelopmentSampleHash is the digest CINCEL documents a sample
	// certificate for. Development lookups use it so they never depend on
	// real documents.
	DevelopmentSampleHash = "2c5d36be542f8f0e7345d77753a5d7ea61a443ba6a9a86bb060332ad56dba38e"
)

// Config configures the provider clients.
type Config struct {
	// BaseURL is the provider API root.
	BaseURL string `envconfig:"PROOF_VERIFIER_CINCEL_URL" default:"https://api.cincel.digital/v3"`
	// TestOverrideHash replaces every lookup digest outside production.
	TestOverrideHash string `envconfig:"PROOF_VERIFIER_CONSERVATION_TEST_HASH"`
	// Profile is production or development.
	Profile string `envconfig:"PROOF_VERIFIER_PROFILE" default:"production"`
	// Timeout bounds each request.
	Timeout time.Duration `envconfig:"PROOF_VERIFIER_CONSERVATION_TIMEOUT" default:"10s"`
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultCincelURL,
		Profile: ProfileProduction,
		Timeout: DefaultTimeout,
	}
}

// ConfigFromEnv loads Config from the PROOF_VERIFIER_* variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("loading conservation config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the profile.
func (c Config) Validate() error {
	switch c.Profile {
	case "", ProfileProduction, ProfileDevelopment:
		return nil
	default:
		return fmt.Errorf("unknown profile %q", c.Profile)
	}
}

// LookupHash returns the digest to request for digestHex, without prefix.
// Outside production the override, or in development the provider sample
// digest, takes its place.
func (c Config) LookupHash(digestHex string) string {
	if c.Profile == "" || c.Profile == ProfileProduction {
		return codec.Without0x(digestHex)
	}
	if c.TestOverrideHash != "" {
		return codec.Without0x(c.TestOverrideHash)
	}
	if c.Profile == ProfileDevelopment {
		return DevelopmentSampleHash
	}
	return codec.Without0x(digestHex)
}
