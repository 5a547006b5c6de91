package starkhasgoldilocks

import (
	"errors"
	"testing"
)

func TestEngineErrorMessages(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := newEngineError(ErrConfig, "schedule must be non-empty", nil)
		if err.Error() == "" {
			t.Fatalf("expected non-empty error message")
		}
		if err.Unwrap() != nil {
			t.Fatalf("expected nil cause, got %v", err.Unwrap())
		}
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("underlying failure")
		err := newEngineError(ErrArithmetic, "inversion of zero", cause)
		if !errors.Is(err.Unwrap(), cause) {
			t.Fatalf("expected wrapped cause to be preserved")
		}
	})
}

func TestEngineErrorIs(t *testing.T) {
	a := newEngineError(ErrConfig, "bad schedule", nil)
	b := newEngineError(ErrConfig, "different message, same code", nil)
	c := newEngineError(ErrDomainCollision, "collision", nil)

	if !a.Is(b) {
		t.Fatalf("expected errors with the same code to match via Is")
	}
	if a.Is(c) {
		t.Fatalf("expected errors with different codes not to match via Is")
	}
	if a.Is(errors.New("plain error")) {
		t.Fatalf("expected a plain error never to match via Is")
	}
}

func TestVerificationReasonString(t *testing.T) {
	cases := map[VerificationReason]string{
		ReasonNone:            "None",
		ReasonMerkleMismatch:  "MerkleMismatch",
		ReasonIndexBinding:    "IndexBinding",
		ReasonDeepEquation:    "DeepEquation",
		ReasonFoldConsistency: "FoldConsistency",
		ReasonFinalConstancy:  "FinalConstancy",
	}
	for reason, want := range cases {
		if got := reason.String(); got != want {
			t.Errorf("VerificationReason(%d).String() = %q, want %q", reason, got, want)
		}
	}
}
