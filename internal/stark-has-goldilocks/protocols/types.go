// Package protocols implements the DEEP-ALI merge and the multi-folding
// DEEP-FRI prover/verifier over the Goldilocks field.
package protocols

import (
	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/core"
	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/merkle"
)

// ProtocolError classifies a failure raised directly by the protocol layer,
// mirroring the taxonomy of §7: ConfigError, DomainCollision,
// ArithmeticError, SerializationError. VerificationFailure is reported
// separately as a structured reason alongside the boolean verdict, not as
// an error.
type ProtocolError struct {
	Kind    string
	Message string
	Cause   error
}

func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return e.Kind + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Kind + ": " + e.Message
}

func (e *ProtocolError) Unwrap() error { return e.Cause }

func configError(msg string) error {
	return &ProtocolError{Kind: "ConfigError", Message: msg}
}

func domainCollisionError(msg string) error {
	return &ProtocolError{Kind: "DomainCollision", Message: msg}
}

func arithmeticError(msg string, cause error) error {
	return &ProtocolError{Kind: "ArithmeticError", Message: msg, Cause: cause}
}

// RejectReason names which DEEP-FRI verification check failed. It is
// diagnostic only and must never influence the boolean verdict itself.
type RejectReason int

const (
	ReasonNone RejectReason = iota
	ReasonMerkleMismatch
	ReasonIndexBinding
	ReasonDeepEquation
	ReasonFoldConsistency
	ReasonFinalConstancy
)

func (r RejectReason) String() string {
	switch r {
	case ReasonMerkleMismatch:
		return "MerkleMismatch"
	case ReasonIndexBinding:
		return "IndexBinding"
	case ReasonDeepEquation:
		return "DeepEquation"
	case ReasonFoldConsistency:
		return "FoldConsistency"
	case ReasonFinalConstancy:
		return "FinalConstancy"
	default:
		return "None"
	}
}

// Variant selects between the legacy single base-field DEEP challenge and
// the amplified Fp3 challenge. The transcript always absorbs a
// discriminator tag naming the choice so prover and verifier can never
// silently disagree.
type Variant int

const (
	VariantAmplified Variant = iota
	VariantLegacy
)

func (v Variant) tag() []byte {
	if v == VariantLegacy {
		return []byte("DEEP-VARIANT-LEGACY")
	}
	return []byte("DEEP-VARIANT-AMPLIFIED")
}

// Params are the prover/verifier configuration inputs: the (normalized)
// folding schedule, query count, statement seed, transcript backend, DEEP
// variant, and optional blinding.
type Params struct {
	Schedule []int
	Queries  int
	SeedZ    uint64
	Backend  TranscriptBackend
	Variant  Variant
	Blind    bool
}

// TranscriptBackend selects the transcript's Fiat-Shamir hash backend.
type TranscriptBackend int

const (
	BackendPoseidon TranscriptBackend = iota
	BackendSha3
	BackendBlake3
)

// LayerPayload is a single query's per-layer disclosure: the queried
// codeword value, the layer's f(omega^0), the folded bucket value, the DEEP
// quotient (as Fp3; the legacy variant leaves A1/A2 zero), the queried
// domain point, and the parent codeword/bucket values used by the fold
// consistency checks, plus the Merkle opening binding all of it to the layer root.
type LayerPayload struct {
	FI       core.Element
	F0       core.Element
	SI       core.Element
	Q        core.Fp3
	XI       core.Element
	FParentB core.Element
	SParentB core.Element
	Opening  merkle.Opening
}

// QueryProof is one full query across all layers, terminated by the final
// layer's constancy pair.
type QueryProof struct {
	Layers    []LayerPayload
	FinalPair [2]core.Element
}

// LayerCommitment records a committed FRI layer's shape and root.
type LayerCommitment struct {
	N    int
	M    int
	Root core.Element
}
