package protocols

import (
	"fmt"

	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/core"
	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/merkle"
)

// Verify checks a DEEP-FRI proof against the public statement (n0, omega0,
// traceHash, params). It returns the boolean verdict together with a
// diagnostic RejectReason: the reason is informational only and must never
// be consulted to decide the verdict itself.
func Verify(proof *Proof, traceHash [32]byte, params Params) (bool, RejectReason, error) {
	schedule, err := NormalizeSchedule(proof.N0, params.Schedule)
	if err != nil {
		return false, ReasonNone, err
	}
	if len(schedule) != len(proof.Schedule) {
		return false, ReasonNone, configError("proof schedule length does not match the normalized public schedule")
	}
	for i := range schedule {
		if schedule[i] != proof.Schedule[i] {
			return false, ReasonNone, configError("proof schedule does not match the normalized public schedule")
		}
	}
	if len(proof.Roots) != len(schedule) {
		return false, ReasonNone, configError("proof root count does not match schedule length")
	}
	if proof.Variant != params.Variant {
		return false, ReasonNone, configError("proof DEEP variant does not match the requested variant")
	}

	sizes := LayerSizes(proof.N0, schedule)
	L := len(schedule)

	tr := newTranscriptFor(params.Backend, []byte("DEEP-FRI-PROVER"))
	bindStatement(tr, proof.N0, schedule, params.SeedZ, params.Variant)

	z, err := sampleChallenge(tr, params.Variant, proof.N0)
	if err != nil {
		return false, ReasonNone, err
	}

	omegas := make([]core.Element, L+1)
	omegas[0] = proof.Omega0
	for l := 0; l < L; l++ {
		if sizes[l+1] == sizes[l] {
			omegas[l+1] = omegas[l]
			continue
		}
		w, err := core.SubgroupGenerator(log2Int(sizes[l+1]))
		if err != nil {
			return false, ReasonNone, fmt.Errorf("protocols: failed to derive layer %d subgroup generator: %w", l+1, err)
		}
		omegas[l+1] = w
	}

	arityCfgs := make([]merkle.Config, L)
	for l := 0; l < L; l++ {
		arities, err := MerkleArityScheduleForLayer(sizes[l], merkleArityBudget)
		if err != nil {
			return false, ReasonNone, fmt.Errorf("protocols: layer %d Merkle arity selection failed: %w", l, err)
		}
		arityCfgs[l] = merkle.Config{LayerArities: arities, TreeLabel: uint64(l)}
		tr.AbsorbBytes(tagRoot)
		tr.AbsorbField(proof.Roots[l])
	}

	if len(proof.Queries) != params.Queries {
		return false, ReasonNone, configError("proof query count does not match the requested query count")
	}

	for qi, query := range proof.Queries {
		seedLabel := append(append([]byte(nil), tagFriSeed...), byte(qi), byte(qi>>8), byte(qi>>16), byte(qi>>24))
		idxChallenge := tr.Challenge(seedLabel)
		expectedIndex := int(idxChallenge.Uint64() % uint64(proof.N0))

		if len(query.Layers) != L {
			return false, ReasonIndexBinding, nil
		}

		cursor := expectedIndex
		for l, layer := range query.Layers {
			if layer.Opening.Index != cursor {
				return false, ReasonIndexBinding, nil
			}

			leaf := []core.Element{layer.FI, layer.SI, layer.Q.A0, layer.Q.A1, layer.Q.A2}
			if len(layer.Opening.Leaf) != len(leaf) {
				return false, ReasonMerkleMismatch, nil
			}
			for i := range leaf {
				if !layer.Opening.Leaf[i].Equal(leaf[i]) {
					return false, ReasonMerkleMismatch, nil
				}
			}
			if !merkle.VerifyOpening(arityCfgs[l], traceHash, proof.Roots[l], layer.Opening) {
				return false, ReasonMerkleMismatch, nil
			}

			xi := omegas[l].Pow(uint64(cursor))
			if !xi.Equal(layer.XI) {
				return false, ReasonIndexBinding, nil
			}

			num := core.Fp3FromBase(layer.FI).Sub(core.Fp3FromBase(layer.F0))
			den := core.Fp3FromBase(xi).Sub(z)
			denInv, err := den.Inv()
			if err != nil {
				return false, ReasonNone, arithmeticError("queried domain point collides with the DEEP challenge", err)
			}
			if !layer.Q.Equal(num.Mul(denInv)) {
				return false, ReasonDeepEquation, nil
			}

			if !layer.SI.Equal(layer.FParentB) {
				return false, ReasonFoldConsistency, nil
			}

			nNext := sizes[l+1]
			parentIdx := cursor % nNext
			if l+1 < L {
				nextLayer := query.Layers[l+1]
				if nextLayer.Opening.Index != parentIdx {
					return false, ReasonIndexBinding, nil
				}
				if !layer.FParentB.Equal(nextLayer.FI) {
					return false, ReasonFoldConsistency, nil
				}
				if !layer.SParentB.Equal(nextLayer.SI) {
					return false, ReasonFoldConsistency, nil
				}
			} else {
				if !layer.FParentB.Equal(query.FinalPair[0]) {
					return false, ReasonFoldConsistency, nil
				}
			}

			cursor = parentIdx
		}

		if !query.FinalPair[0].Equal(query.FinalPair[1]) {
			return false, ReasonFinalConstancy, nil
		}
	}

	return true, ReasonNone, nil
}
