package core

import "testing"

func TestFieldLaws(t *testing.T) {
	x := NewElement(123456789)
	y := NewElement(987654321)
	z := NewElement(42)

	t.Run("AssociativeAdd", func(t *testing.T) {
		lhs := x.Add(y).Add(z)
		rhs := x.Add(y.Add(z))
		if !lhs.Equal(rhs) {
			t.Fatalf("(x+y)+z != x+(y+z): %s vs %s", lhs, rhs)
		}
	})

	t.Run("Distributive", func(t *testing.T) {
		lhs := x.Mul(y.Add(z))
		rhs := x.Mul(y).Add(x.Mul(z))
		if !lhs.Equal(rhs) {
			t.Fatalf("x*(y+z) != x*y+x*z: %s vs %s", lhs, rhs)
		}
	})

	t.Run("Inverse", func(t *testing.T) {
		inv, err := x.Inv()
		if err != nil {
			t.Fatalf("Inv failed: %v", err)
		}
		if !x.Mul(inv).IsOne() {
			t.Fatalf("x * x^-1 != 1")
		}
	})

	t.Run("InverseOfZero", func(t *testing.T) {
		if _, err := Zero().Inv(); err == nil {
			t.Fatalf("expected error inverting zero")
		}
	})

	t.Run("Sqrt", func(t *testing.T) {
		sq := x.Square()
		root, err := sq.Sqrt()
		if err != nil {
			t.Fatalf("Sqrt failed: %v", err)
		}
		if !root.Equal(x) && !root.Equal(x.Neg()) {
			t.Fatalf("sqrt(x^2) not in {x, -x}")
		}
	})

	t.Run("RoundTripBytes", func(t *testing.T) {
		b := x.Bytes()
		got := ElementFromBytes(b)
		if !got.Equal(x) {
			t.Fatalf("byte round trip mismatch: %s vs %s", got, x)
		}
	})
}

func TestSubgroupGenerator(t *testing.T) {
	for k := 1; k <= 16; k++ {
		g, err := SubgroupGenerator(k)
		if err != nil {
			t.Fatalf("SubgroupGenerator(%d): %v", k, err)
		}
		n := uint64(1) << uint(k)
		if !g.Pow(n).IsOne() {
			t.Fatalf("g^n != 1 for k=%d", k)
		}
		if g.Pow(n / 2).IsOne() {
			t.Fatalf("g has order < n for k=%d", k)
		}
	}
}

func TestNTTRoundTrip(t *testing.T) {
	for _, n := range []int{8, 16, 32, 64, 256} {
		k := log2(n)
		omega, err := SubgroupGenerator(k)
		if err != nil {
			t.Fatalf("SubgroupGenerator: %v", err)
		}

		values := make([]Element, n)
		for i := range values {
			values[i] = NewElement(uint64(i*7 + 3))
		}

		evals, err := NTT(values, omega)
		if err != nil {
			t.Fatalf("NTT(%d): %v", n, err)
		}
		back, err := INTT(evals, omega)
		if err != nil {
			t.Fatalf("INTT(%d): %v", n, err)
		}
		for i := range values {
			if !back[i].Equal(values[i]) {
				t.Fatalf("round trip mismatch at n=%d index %d: got %s want %s", n, i, back[i], values[i])
			}
		}
	}
}

func TestPoseidonDeterministic(t *testing.T) {
	params := DefaultPoseidonParams()

	var s1, s2 [PoseidonWidth]Element
	for i := range s1 {
		s1[i] = NewElement(uint64(i + 1))
		s2[i] = NewElement(uint64(i + 1))
	}

	Permute(&s1, params)
	Permute(&s2, params)

	for i := range s1 {
		if !s1[i].Equal(s2[i]) {
			t.Fatalf("permutation not deterministic at index %d", i)
		}
	}

	// Changing a single input element must change the output.
	var s3 [PoseidonWidth]Element
	copy(s3[:], s2[:])
	s3[0] = s3[0].Add(One())
	Permute(&s3, params)
	if s3[0].Equal(s1[0]) {
		t.Fatalf("permutation output unaffected by input change")
	}
}
