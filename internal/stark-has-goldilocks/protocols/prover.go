package protocols

import (
	"fmt"

	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/core"
	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/merkle"
	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/pool"
	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/transcript"
	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/utils"
)

const maxResampleAttempts = 1000

// merkleArityBudget is the ceiling m passed to PickArity for every FRI layer:
// the candidate table tops out at 128, so any m at or above it picks the
// widest available arity.
const merkleArityBudget = 128

func log2Int(n int) int {
	return utils.Log2(n)
}

// friLayerState holds everything kept around after committing layer l: the
// codeword itself, the DEEP quotients at z, the folded-bucket broadcast, and
// the Merkle tree used to answer query openings.
type friLayerState struct {
	n      int
	omega  core.Element
	f      []core.Element
	q      []core.Fp3
	s      []core.Element
	cfg    merkle.Config
	tree   *merkle.Tree
	root   core.Element
}

func newTranscriptFor(backend TranscriptBackend, initLabel []byte) *transcript.Transcript {
	switch backend {
	case BackendSha3:
		return transcript.WithBackend(transcript.Sha3_256, initLabel)
	case BackendBlake3:
		return transcript.WithBackend(transcript.Blake3, initLabel)
	default:
		return transcript.WithBackend(transcript.Poseidon, initLabel)
	}
}

// bindStatement absorbs the public statement (domain size, schedule, seed,
// and the DEEP-variant discriminator) into a fresh transcript, identically
// on the prover and verifier sides.
func bindStatement(tr *transcript.Transcript, n0 int, schedule []int, seedZ uint64, variant Variant) {
	tr.AbsorbBytes(tagStatement)
	tr.AbsorbUint64(uint64(n0))
	tr.AbsorbUint64(uint64(len(schedule)))
	for _, m := range schedule {
		tr.AbsorbUint64(uint64(m))
	}
	tr.AbsorbUint64(seedZ)
	tr.AbsorbBytes(variant.tag())
}

// sampleChallenge draws the out-of-domain DEEP challenge z, amplified to
// Fp3 via three independent base-field challenges or, in the legacy variant,
// a single base-field challenge lifted into Fp3 with zero A1/A2. A domain
// collision (z landing in H) triggers a bounded, deterministic resample
// using an attempt-indexed label so prover and verifier draw the identical
// sequence.
func sampleChallenge(tr *transcript.Transcript, variant Variant, n int) (core.Fp3, error) {
	for attempt := 0; attempt < maxResampleAttempts; attempt++ {
		label := func(base []byte) []byte {
			if attempt == 0 {
				return base
			}
			return append(append([]byte(nil), base...), byte(attempt), byte(attempt>>8))
		}

		var z core.Fp3
		if variant == VariantLegacy {
			z0 := tr.Challenge(label(tagZA0))
			z = core.Fp3FromBase(z0)
		} else {
			z0 := tr.Challenge(label(tagZA0))
			z1 := tr.Challenge(label(tagZA1))
			z2 := tr.Challenge(label(tagZA2))
			z = core.NewFp3(z0, z1, z2)
		}

		if z.A1.IsZero() && z.A2.IsZero() && isInSubgroup(z.A0, n) {
			continue
		}
		return z, nil
	}
	return core.Fp3{}, configError("exhausted domain-collision resample budget for out-of-domain challenge")
}

// Prove builds a DEEP-FRI proof for the base codeword f0 over the
// multiplicative subgroup of size n0 generated by omega0, folding down per
// params.Schedule and answering params.Queries random queries.
func Prove(f0 []core.Element, n0 int, omega0 core.Element, traceHash [32]byte, params Params) (*Proof, error) {
	if len(f0) != n0 {
		return nil, configError(fmt.Sprintf("base codeword length %d does not match n0=%d", len(f0), n0))
	}
	if params.Queries <= 0 {
		return nil, configError("query count must be positive")
	}

	schedule, err := NormalizeSchedule(n0, params.Schedule)
	if err != nil {
		return nil, err
	}
	sizes := LayerSizes(n0, schedule)
	L := len(schedule)

	tr := newTranscriptFor(params.Backend, []byte("DEEP-FRI-PROVER"))
	bindStatement(tr, n0, schedule, params.SeedZ, params.Variant)

	z, err := sampleChallenge(tr, params.Variant, n0)
	if err != nil {
		return nil, err
	}

	layers := make([]friLayerState, L+1)
	layers[0] = friLayerState{n: n0, omega: omega0, f: f0}

	roots := make([]core.Element, L)

	for l := 0; l < L; l++ {
		cur := layers[l]
		m := schedule[l]
		nNext := sizes[l+1]

		x, err := buildDomainPowers(cur.omega, cur.n)
		if err != nil {
			return nil, err
		}

		q := make([]core.Fp3, cur.n)
		var computeErr error
		pool.Run(cur.n, func(start, end int) {
			for i := start; i < end; i++ {
				xi := core.Fp3FromBase(x[i])
				num := core.Fp3FromBase(cur.f[i]).Sub(core.Fp3FromBase(cur.f[0]))
				den := xi.Sub(z)
				denInv, e := den.Inv()
				if e != nil {
					computeErr = arithmeticError("queried domain point collides with the DEEP challenge", e)
					return
				}
				q[i] = num.Mul(denInv)
			}
		})
		if computeErr != nil {
			return nil, computeErr
		}

		fNext := make([]core.Element, nNext)
		zPows := make([]core.Element, m)
		zPows[0] = core.One()
		for j := 1; j < m; j++ {
			zPows[j] = zPows[j-1].Mul(z.A0)
		}
		pool.Run(nNext, func(start, end int) {
			for b := start; b < end; b++ {
				acc := core.Zero()
				for j := 0; j < m; j++ {
					acc = acc.Add(cur.f[b+j*nNext].Mul(zPows[j]))
				}
				fNext[b] = acc
			}
		})

		s := make([]core.Element, cur.n)
		pool.Run(cur.n, func(start, end int) {
			for i := start; i < end; i++ {
				s[i] = fNext[i%nNext]
			}
		})

		arities, err := MerkleArityScheduleForLayer(cur.n, merkleArityBudget)
		if err != nil {
			return nil, fmt.Errorf("protocols: layer %d Merkle arity selection failed: %w", l, err)
		}
		cfg := merkle.Config{LayerArities: arities, TreeLabel: uint64(l)}
		tree := merkle.New(cfg, traceHash)
		for i := 0; i < cur.n; i++ {
			leaf := []core.Element{cur.f[i], s[i], q[i].A0, q[i].A1, q[i].A2}
			tree.PushLeaf(leaf)
		}
		root, err := tree.Finalize()
		if err != nil {
			return nil, fmt.Errorf("protocols: layer %d Merkle commitment failed: %w", l, err)
		}

		tr.AbsorbBytes(tagRoot)
		tr.AbsorbField(root)

		roots[l] = root
		layers[l].q = q
		layers[l].s = s
		layers[l].cfg = cfg
		layers[l].tree = tree
		layers[l].root = root

		nextOmega := cur.omega
		if nNext > 0 && nNext != cur.n {
			nextOmega, err = core.SubgroupGenerator(log2Int(nNext))
			if err != nil {
				return nil, fmt.Errorf("protocols: failed to derive layer %d subgroup generator: %w", l+1, err)
			}
		}
		layers[l+1] = friLayerState{n: nNext, omega: nextOmega, f: fNext}
	}

	queries := make([]QueryProof, params.Queries)
	for qi := 0; qi < params.Queries; qi++ {
		seedLabel := append(append([]byte(nil), tagFriSeed...), byte(qi), byte(qi>>8), byte(qi>>16), byte(qi>>24))
		idxChallenge := tr.Challenge(seedLabel)
		i := int(idxChallenge.Uint64() % uint64(n0))

		layerPayloads := make([]LayerPayload, L)
		cursor := i
		for l := 0; l < L; l++ {
			cur := layers[l]
			nNext := sizes[l+1]
			parentIdx := cursor % nNext

			opening, err := cur.tree.Open(cursor)
			if err != nil {
				return nil, fmt.Errorf("protocols: query %d layer %d Merkle open failed: %w", qi, l, err)
			}

			layerPayloads[l] = LayerPayload{
				FI:       cur.f[cursor],
				F0:       cur.f[0],
				SI:       cur.s[cursor],
				Q:        cur.q[cursor],
				XI:       cur.omega.Pow(uint64(cursor)),
				FParentB: layers[l+1].f[parentIdx],
				SParentB: safeParentS(layers, l+1, parentIdx),
				Opening:  opening,
			}
			cursor = parentIdx
		}

		final := layers[L]
		queries[qi] = QueryProof{
			Layers:    layerPayloads,
			FinalPair: [2]core.Element{final.f[cursor], final.f[0]},
		}
	}

	return &Proof{
		N0:       n0,
		Omega0:   omega0,
		Schedule: schedule,
		Variant:  params.Variant,
		Roots:    roots,
		Queries:  queries,
	}, nil
}

// safeParentS reads the parent layer's folded-bucket broadcast value when
// the parent is not the final (size-1) layer, which carries no s array.
func safeParentS(layers []friLayerState, l, idx int) core.Element {
	if l >= len(layers) || layers[l].s == nil {
		return core.Zero()
	}
	return layers[l].s[idx]
}

// buildDomainPowers returns [omega^0, omega^1, ..., omega^(n-1)].
func buildDomainPowers(omega core.Element, n int) ([]core.Element, error) {
	if n <= 0 {
		return nil, configError(fmt.Sprintf("layer domain size must be positive, got %d", n))
	}
	pows := make([]core.Element, n)
	pows[0] = core.One()
	for i := 1; i < n; i++ {
		pows[i] = pows[i-1].Mul(omega)
	}
	return pows, nil
}
