package protocols

import (
	"testing"

	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/core"
)

func TestDeepALIMergeRejectsNonPowerOfTwo(t *testing.T) {
	a := make([]core.Element, 33)
	_, _, err := DeepALIMerge(a, a, a, a, core.One(), core.Fp3{}, core.Fp3{}, nil)
	if err == nil {
		t.Fatalf("expected ConfigError for non-power-of-two n")
	}
}

func TestDeepALIMergeRejectsRateViolation(t *testing.T) {
	a := make([]core.Element, 16)
	_, _, err := DeepALIMerge(a, a, a, a, core.One(), core.Fp3{}, core.Fp3{}, nil)
	if err == nil {
		t.Fatalf("expected ConfigError when n does not satisfy 32 | n")
	}
}

func TestDeepALIMergeRejectsMismatchedLengths(t *testing.T) {
	n := 32
	a := make([]core.Element, n)
	short := make([]core.Element, n-1)
	_, _, err := DeepALIMerge(a, short, a, a, core.One(), core.Fp3{}, core.Fp3{}, nil)
	if err == nil {
		t.Fatalf("expected ConfigError for mismatched vector lengths")
	}
}

func TestDeepALIMergeDetectsDomainCollision(t *testing.T) {
	n := 32
	omega, err := core.SubgroupGenerator(5)
	if err != nil {
		t.Fatalf("failed to derive subgroup generator: %v", err)
	}

	a := make([]core.Element, n)
	for i := range a {
		a[i] = core.NewElement(uint64(i + 1))
	}

	z := core.Fp3FromBase(omega) // omega is itself in H
	_, _, err = DeepALIMerge(a, a, a, a, omega, z, core.Fp3{}, nil)
	if err == nil {
		t.Fatalf("expected DomainCollision when z lies in H")
	}
	pe, ok := err.(*ProtocolError)
	if !ok || pe.Kind != "DomainCollision" {
		t.Fatalf("expected a DomainCollision ProtocolError, got %v", err)
	}
}

func TestDeepALIMergeProducesExpectedLength(t *testing.T) {
	n := 64
	omega, err := core.SubgroupGenerator(6)
	if err != nil {
		t.Fatalf("failed to derive subgroup generator: %v", err)
	}

	a := make([]core.Element, n)
	s := make([]core.Element, n)
	e := make([]core.Element, n)
	tr := make([]core.Element, n)
	for i := 0; i < n; i++ {
		a[i] = core.NewElement(uint64(i + 1))
		s[i] = core.NewElement(uint64(2*i + 3))
	}

	z := core.NewFp3(core.NewElement(12345), core.NewElement(777), core.NewElement(9))
	f0, cStar, err := DeepALIMerge(a, s, e, tr, omega, z, core.Fp3{}, nil)
	if err != nil {
		t.Fatalf("DeepALIMerge failed: %v", err)
	}
	if len(f0) != n {
		t.Fatalf("expected base codeword of length %d, got %d", n, len(f0))
	}
	if cStar.IsZero() {
		t.Fatalf("expected non-zero c* for a non-trivial merge")
	}
}

func TestDeepALIMergeWithBlinding(t *testing.T) {
	n := 32
	omega, err := core.SubgroupGenerator(5)
	if err != nil {
		t.Fatalf("failed to derive subgroup generator: %v", err)
	}

	a := make([]core.Element, n)
	s := make([]core.Element, n)
	e := make([]core.Element, n)
	tr := make([]core.Element, n)
	r := make([]core.Element, n)
	for i := 0; i < n; i++ {
		a[i] = core.NewElement(uint64(i + 1))
		r[i] = core.NewElement(uint64(i * i))
	}

	z := core.NewFp3(core.NewElement(55), core.NewElement(66), core.NewElement(77))
	beta := core.NewFp3(core.NewElement(2), core.NewElement(3), core.NewElement(4))

	f0, _, err := DeepALIMerge(a, s, e, tr, omega, z, beta, r)
	if err != nil {
		t.Fatalf("DeepALIMerge with blinding failed: %v", err)
	}
	if len(f0) != n {
		t.Fatalf("expected base codeword of length %d, got %d", n, len(f0))
	}

	f0NoBlind, _, err := DeepALIMerge(a, s, e, tr, omega, z, core.Fp3{}, nil)
	if err != nil {
		t.Fatalf("DeepALIMerge without blinding failed: %v", err)
	}

	equal := true
	for i := range f0 {
		if !f0[i].Equal(f0NoBlind[i]) {
			equal = false
			break
		}
	}
	if equal {
		t.Fatalf("expected blinding to change the resulting codeword")
	}
}
