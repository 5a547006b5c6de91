package starkhasgoldilocks

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/protocols"
)

// Log is the package-wide structured logger. Callers may reassign it (e.g.
// to attach request-scoped fields) before calling Prove or Verify.
var Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Str("component", "stark-has-goldilocks").Logger()

func toProtocolVariant(v DeepVariant) protocols.Variant {
	if v == DeepVariantLegacy {
		return protocols.VariantLegacy
	}
	return protocols.VariantAmplified
}

func toProtocolBackend(b TranscriptBackend) protocols.TranscriptBackend {
	switch b {
	case BackendSha3:
		return protocols.BackendSha3
	case BackendBlake3:
		return protocols.BackendBlake3
	default:
		return protocols.BackendPoseidon
	}
}

func (c *Config) toProtocolParams() protocols.Params {
	return protocols.Params{
		Schedule: append([]int(nil), c.Schedule...),
		Queries:  c.Queries,
		SeedZ:    c.SeedZ,
		Backend:  toProtocolBackend(c.Backend),
		Variant:  toProtocolVariant(c.Variant),
		Blind:    c.Blind,
	}
}

// Merge runs the DEEP-ALI merge: it folds the AIR's four evaluation vectors
// (a, s, e, t) over the subgroup of size len(a) generated by omega into the
// low-rate base codeword f0 accepted by Prove, using z as the out-of-domain
// challenge and returning the closed-form evaluation c* = Phi(z)/Z_H(z).
// beta/r implement the optional blinding hook; pass a zero Fp3 and a nil r
// to disable it.
func Merge(a, s, e, t []FieldElement, omega FieldElement, z Fp3, beta Fp3, r []FieldElement) ([]FieldElement, Fp3, error) {
	f0, cStar, err := protocols.DeepALIMerge(a, s, e, t, omega, z, beta, r)
	if err != nil {
		return nil, Fp3{}, wrapProtocolError(err)
	}
	return f0, cStar, nil
}

// Prove builds a DEEP-FRI proof attesting that f0 is within the committed
// rate distance of a low-degree polynomial, over the subgroup of size n0
// generated by omega0. traceHash binds the proof to the surrounding AIR
// execution trace (the statement this commitment is part of); pass a zero
// value when no surrounding trace exists.
func Prove(cfg *Config, f0 []FieldElement, n0 int, omega0 FieldElement, traceHash [32]byte) (*Proof, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	proof, err := protocols.Prove(f0, n0, omega0, traceHash, cfg.toProtocolParams())
	if err != nil {
		Log.Error().Err(err).Int("n0", n0).Msg("deep-fri proof generation failed")
		return nil, wrapProtocolError(err)
	}
	Log.Info().Int("n0", n0).Int("layers", len(proof.Schedule)).Int("queries", cfg.Queries).Msg("deep-fri proof generated")
	return proof, nil
}

// Verify checks a DEEP-FRI proof against the public statement. It always
// returns a boolean verdict; reason is a diagnostic explanation of a false
// verdict and must never be used to override it.
func Verify(cfg *Config, proof *Proof, traceHash [32]byte) (bool, VerificationReason, error) {
	if err := cfg.Validate(); err != nil {
		return false, ReasonNone, err
	}
	ok, reason, err := protocols.Verify(proof, traceHash, cfg.toProtocolParams())
	if err != nil {
		Log.Error().Err(err).Msg("deep-fri verification raised an error")
		return false, ReasonNone, wrapProtocolError(err)
	}
	if !ok {
		Log.Warn().Stringer("reason", VerificationReason(reason)).Msg("deep-fri proof rejected")
	}
	return ok, VerificationReason(reason), nil
}

func wrapProtocolError(err error) error {
	pe, ok := err.(*protocols.ProtocolError)
	if !ok {
		return newEngineError(ErrUnknown, err.Error(), err)
	}
	switch pe.Kind {
	case "ConfigError":
		return newEngineError(ErrConfig, pe.Message, pe.Cause)
	case "DomainCollision":
		return newEngineError(ErrDomainCollision, pe.Message, pe.Cause)
	case "ArithmeticError":
		return newEngineError(ErrArithmetic, pe.Message, pe.Cause)
	case "SerializationError":
		return newEngineError(ErrSerialization, pe.Message, pe.Cause)
	default:
		return newEngineError(ErrUnknown, pe.Message, pe.Cause)
	}
}
