package starkhasgoldilocks

import (
	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/core"
	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/protocols"
)

// FieldElement is the public alias for a Goldilocks field element.
type FieldElement = core.Element

// Fp3 is the public alias for the amplified-randomness direct-product
// ring used by the DEEP quotient.
type Fp3 = core.Fp3

// Proof is the public alias for an assembled DEEP-FRI proof.
type Proof = protocols.Proof

// TranscriptBackend selects the Fiat-Shamir hash backend.
type TranscriptBackend int

const (
	// BackendPoseidon uses the native sponge permutation (the default).
	BackendPoseidon TranscriptBackend = iota
	// BackendSha3 uses SHA3-256.
	BackendSha3
	// BackendBlake3 uses BLAKE3.
	BackendBlake3
)

// DeepVariant selects between the legacy single base-field challenge and
// the amplified Fp3 challenge for the DEEP quotient. Both coexist in the
// core; the transcript binds a discriminator tag so prover and verifier
// can never disagree about which one is in play.
type DeepVariant int

const (
	// DeepVariantAmplified draws (z0, z1, z2) forming z in Fp3.
	DeepVariantAmplified DeepVariant = iota
	// DeepVariantLegacy draws a single base-field z.
	DeepVariantLegacy
)

// Config is the full runtime configuration surface of the DEEP-FRI core.
type Config struct {
	// Schedule is the non-empty folding factor list; each factor is a
	// power of two >= 2, and the product must divide N0. When the product
	// is smaller than N0, protocols.NormalizeSchedule (run by Prove and
	// Verify) appends the residual factor.
	Schedule []int

	// Queries is the number of FRI query repetitions, r.
	Queries int

	// SeedZ is a 64-bit value bound into the transcript alongside the
	// statement; it seeds the deterministic resample loop used when a
	// sampled out-of-domain challenge collides with H.
	SeedZ uint64

	// Backend selects the transcript's Fiat-Shamir hash backend.
	Backend TranscriptBackend

	// Variant selects the legacy or amplified DEEP quotient path.
	Variant DeepVariant

	// Blind records whether blinding is requested; it is false by
	// default. Prove and Verify pass it on but do not read it, so it has
	// no effect on a proof. Blinding is applied only by Merge, through a
	// non-zero beta and its r vector.
	Blind bool
}

// DefaultConfig returns sane defaults: the amplified Fp3 variant, the
// Poseidon backend, no blinding, 32 queries.
func DefaultConfig() *Config {
	return &Config{
		Schedule: []int{16, 16, 8},
		Queries:  32,
		SeedZ:    0,
		Backend:  BackendPoseidon,
		Variant:  DeepVariantAmplified,
		Blind:    false,
	}
}

// WithSchedule sets the folding schedule.
func (c *Config) WithSchedule(schedule []int) *Config {
	c.Schedule = append([]int(nil), schedule...)
	return c
}

// WithQueries sets the query repetition count r.
func (c *Config) WithQueries(r int) *Config {
	c.Queries = r
	return c
}

// WithSeedZ sets the 64-bit statement seed.
func (c *Config) WithSeedZ(seed uint64) *Config {
	c.SeedZ = seed
	return c
}

// WithBackend sets the transcript hash backend.
func (c *Config) WithBackend(backend TranscriptBackend) *Config {
	c.Backend = backend
	return c
}

// WithVariant sets the DEEP quotient variant.
func (c *Config) WithVariant(variant DeepVariant) *Config {
	c.Variant = variant
	return c
}

// WithBlinding enables or disables the DEEP quotient blinding hook.
func (c *Config) WithBlinding(blind bool) *Config {
	c.Blind = blind
	return c
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	return &Config{
		Schedule: append([]int(nil), c.Schedule...),
		Queries:  c.Queries,
		SeedZ:    c.SeedZ,
		Backend:  c.Backend,
		Variant:  c.Variant,
		Blind:    c.Blind,
	}
}

// Validate checks the configuration against the §7 ConfigError conditions
// that do not require knowledge of n0 (schedule shape, r, etc). The
// n0-dependent conditions are checked by protocols.NormalizeSchedule,
// which Prove and Verify run.
func (c *Config) Validate() error {
	if len(c.Schedule) == 0 {
		return newEngineError(ErrConfig, "schedule must be non-empty", nil)
	}
	for _, m := range c.Schedule {
		if !core.IsPowerOfTwo(m) || m < 2 {
			return newEngineError(ErrConfig, "schedule factors must be powers of two >= 2", nil)
		}
	}
	if c.Queries <= 0 {
		return newEngineError(ErrConfig, "query count r must be positive", nil)
	}
	return nil
}
