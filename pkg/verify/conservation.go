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
	"context"
	"errors"
	"fmt"

	"github.com/plumaa-id/proof-verifier/internal/ui"
	"github.com/plumaa-id/proof-verifier/pkg/conservation"
	"github.com/plumaa-id/proof-verifier/pkg/merkle"
	"github.com/plumaa-id/proof-verifier/pkg/proof"
)

// conservation evaluates the claims c makes about anchor, the request hash
// or the signature hash.
func (r *run) conservation(ctx context.Context, anchor string, c proof.Conservation) ConservationReport {
	rep := ConservationReport{AnchorHash: anchor, Methods: c.Methods()}

	if c.NOM151 == nil {
		rep.NOM151.Check = Check{Name: CheckNOM151, Status: StatusNotApplicable}
	} else {
		rep.NOM151 = r.nom151(ctx, CheckNOM151, c.NOM151.Provider, anchor)
	}

	if m := c.Merkleized; m == nil {
		rep.Merkle.Check = Check{Name: CheckMerkle, Status: StatusNotApplicable}
	} else {
		rep.Merkle = r.merkle(ctx, anchor, m)
	}

	if w := c.WitnessCo; w == nil {
		rep.WitnessCo.Check = Check{Name: CheckWitnessCo, Status: StatusNotApplicable}
	} else {
		rep.WitnessCo = WitnessCoReport{
			Check: Check{
				Name:    CheckWitnessCo,
				Status:  StatusUnverified,
				Message: "commitment is shown as provided and not recomputed",
			},
			Commitment: w,
			ScanURL:    proof.ScanURL(anchor),
		}
	}
	return rep
}

func (r *run) merkle(ctx context.Context, anchor string, m *proof.MerkleizedConservation) MerkleReport {
	rep := MerkleReport{Root: m.MerkleRoot, Proof: m.MerkleProof, Algorithm: m.Algorithm}
	ok, err := merkle.Verify(m.MerkleRoot, anchor, m.MerkleProof, r.nodeHash)
	if err != nil {
		rep.Check = errorCheck(CheckMerkle, err)
	} else {
		rep.Check = boolCheck(CheckMerkle, ok, "recomputed root does not match the merkle root")
	}
	ui.Debugf(ctx, "merkle root %s: %s", m.MerkleRoot, rep.Status)

	if m.Conservation != nil {
		root := r.nom151(ctx, CheckMerkleRoot, m.Conservation.Provider, m.MerkleRoot)
		rep.RootCertificate = &root
	}
	return rep
}

// nom151 fetches the provider's certificate for digest and inspects it.
func (r *run) nom151(ctx context.Context, name CheckName, provider, digest string) NOM151Report {
	rep := NOM151Report{Check: Check{Name: name}, Provider: provider}
	if digest == "" {
		rep.Status = StatusError
		rep.Message = "no digest to look up"
		return rep
	}
	if r.offline {
		rep.Status = StatusUnavailable
		rep.Message = "offline"
		return rep
	}

	if err := r.fetches.Acquire(ctx, 1); err != nil {
		rep.Status = StatusUnavailable
		rep.Message = err.Error()
		return rep
	}
	cert, err := r.registry.Fetch(ctx, provider, digest)
	r.fetches.Release(1)
	if err != nil {
		rep.Status, rep.Message = fetchStatus(err), err.Error()
		if rep.Status == StatusUnavailable {
			ui.Warnf(ctx, "%s certificate for %s is unavailable: %v", provider, digest, err)
		}
		return rep
	}

	rep.Certificate = cert
	rep.ASN1 = cert.Base64()
	rep.ExplorerURL = cert.ExplorerURL()
	info, err := cert.Inspect()
	if err != nil {
		ui.Debugf(ctx, "%s certificate for %s is not an RFC 3161 timestamp: %v", provider, digest, err)
		rep.Status = StatusUnverified
		rep.Message = "certificate is not an RFC 3161 timestamp and is shown as provided"
		return rep
	}
	rep.Status = StatusPassed
	rep.Timestamp = info
	if !info.CoversLookupHash {
		rep.Status = StatusFailed
		rep.Message = fmt.Sprintf("timestamp covers %s, not %s", info.HashedMessage, cert.LookupHash)
	}
	return rep
}

func fetchStatus(err error) Status {
	var ce *conservation.Error
	if errors.As(err, &ce) && ce.ErrorType() == conservation.Unavailable {
		return StatusUnavailable
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return StatusUnavailable
	}
	return StatusError
}
