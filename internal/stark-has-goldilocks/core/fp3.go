package core

import "fmt"

// Fp3 is the direct-product ring F x F x F used to amplify the soundness of
// out-of-domain challenges: arithmetic is componentwise, NOT the arithmetic
// of a degree-3 field extension. A 192-bit challenge governs the DEEP
// closeness check while folding and Merkle commitments stay over the base
// field via the A0 projection.
type Fp3 struct {
	A0, A1, A2 Element
}

// NewFp3 builds an Fp3 value from three base-field challenges.
func NewFp3(a0, a1, a2 Element) Fp3 {
	return Fp3{A0: a0, A1: a1, A2: a2}
}

// Fp3FromBase lifts a base-field element into Fp3 with zero second and
// third components.
func Fp3FromBase(a Element) Fp3 {
	return Fp3{A0: a}
}

// Fp3Zero returns the additive identity of Fp3.
func Fp3Zero() Fp3 { return Fp3{} }

// Fp3One returns the multiplicative identity of Fp3.
func Fp3One() Fp3 { return Fp3{A0: One(), A1: One(), A2: One()} }

// Add returns the componentwise sum.
func (x Fp3) Add(y Fp3) Fp3 {
	return Fp3{x.A0.Add(y.A0), x.A1.Add(y.A1), x.A2.Add(y.A2)}
}

// Sub returns the componentwise difference.
func (x Fp3) Sub(y Fp3) Fp3 {
	return Fp3{x.A0.Sub(y.A0), x.A1.Sub(y.A1), x.A2.Sub(y.A2)}
}

// Mul returns the componentwise product.
func (x Fp3) Mul(y Fp3) Fp3 {
	return Fp3{x.A0.Mul(y.A0), x.A1.Mul(y.A1), x.A2.Mul(y.A2)}
}

// MulBase scales every component by a base-field element.
func (x Fp3) MulBase(y Element) Fp3 {
	return Fp3{x.A0.Mul(y), x.A1.Mul(y), x.A2.Mul(y)}
}

// Neg returns the componentwise negation.
func (x Fp3) Neg() Fp3 {
	return Fp3{x.A0.Neg(), x.A1.Neg(), x.A2.Neg()}
}

// Inv returns the componentwise inverse. Fails if any component is zero.
func (x Fp3) Inv() (Fp3, error) {
	a0, err := x.A0.Inv()
	if err != nil {
		return Fp3{}, fmt.Errorf("core: Fp3 inverse failed on component 0: %w", err)
	}
	a1, err := x.A1.Inv()
	if err != nil {
		return Fp3{}, fmt.Errorf("core: Fp3 inverse failed on component 1: %w", err)
	}
	a2, err := x.A2.Inv()
	if err != nil {
		return Fp3{}, fmt.Errorf("core: Fp3 inverse failed on component 2: %w", err)
	}
	return Fp3{a0, a1, a2}, nil
}

// IsZero reports whether every component is zero.
func (x Fp3) IsZero() bool {
	return x.A0.IsZero() && x.A1.IsZero() && x.A2.IsZero()
}

// Equal reports componentwise equality.
func (x Fp3) Equal(y Fp3) bool {
	return x.A0.Equal(y.A0) && x.A1.Equal(y.A1) && x.A2.Equal(y.A2)
}

// Pow returns x raised to exp, applied componentwise.
func (x Fp3) Pow(exp uint64) Fp3 {
	return Fp3{x.A0.Pow(exp), x.A1.Pow(exp), x.A2.Pow(exp)}
}

// Project returns the base-field projection (the first component), used
// whenever an Fp3-valued quantity must be committed to a base-field
// codeword (folding, Merkle leaves).
func (x Fp3) Project() Element { return x.A0 }

// String renders the three components.
func (x Fp3) String() string {
	return fmt.Sprintf("(%s, %s, %s)", x.A0, x.A1, x.A2)
}
