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

package options

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/plumaa-id/proof-verifier/pkg/conservation"
)

// ConservationOptions configures the conservation providers.
type ConservationOptions struct {
	Profile  string
	URL      string
	Timeout  time.Duration
	TestHash string
}

var _ Interface = (*ConservationOptions)(nil)

// AddFlags implements Interface
func (o *ConservationOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Profile, "profile", "",
		"deployment profile (production|development), production when unset")

	cmd.Flags().StringVar(&o.URL, "cincel-url", "",
		"base URL of the CINCEL NOM-151 API")

	cmd.Flags().DurationVar(&o.Timeout, "conservation-timeout", 0,
		"timeout of each conservation certificate request")

	cmd.Flags().StringVar(&o.TestHash, "conservation-test-hash", "",
		"digest looked up instead of the real one outside production")
}

// Config starts from the environment and applies the flags that were set.
func (o *ConservationOptions) Config() (conservation.Config, error) {
	cfg, err := conservation.ConfigFromEnv()
	if err != nil {
		return conservation.Config{}, err
	}
	if o.Profile != "" {
		cfg.Profile = o.Profile
	}
	if o.URL != "" {
		cfg.BaseURL = o.URL
	}
	if o.Timeout > 0 {
		cfg.Timeout = o.Timeout
	}
	if o.TestHash != "" {
		cfg.TestOverrideHash = o.TestHash
	}
	return cfg, cfg.Validate()
}
