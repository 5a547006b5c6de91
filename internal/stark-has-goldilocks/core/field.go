// Package core provides the Goldilocks prime field and the arithmetic
// primitives (FFT, Poseidon permutation) built on top of it.
package core

import (
	"fmt"
	"math/bits"
)

// Modulus is the Goldilocks prime p = 2^64 - 2^32 + 1.
const Modulus uint64 = 0xFFFFFFFF00000001

// Montgomery constants for this single-limb (64-bit) field. R = 2^64 mod p.
const (
	montR   uint64 = 0xFFFFFFFF            // 2^64 mod p
	montR2  uint64 = 0xFFFFFFFE00000001    // R^2 mod p
	montInv uint64 = 0xFFFFFFFEFFFFFFFF    // p * montInv == -1 (mod 2^64)
	twoAdic        = 32                    // 2-adicity of p - 1
)

// Element is a field element held in 64-bit Montgomery form. The zero value
// is the additive identity. Montgomery invariant: n represents x*R mod p for
// the logical value x, with n canonical in [0, p).
type Element struct {
	n uint64
}

// montMul computes a*b*R^-1 mod p via single-limb CIOS Montgomery reduction.
func montMul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	m := lo * montInv
	mhi, mlo := bits.Mul64(m, Modulus)
	_, carry := bits.Add64(lo, mlo, 0)
	res, carry2 := bits.Add64(hi, mhi, carry)
	if carry2 == 1 || res >= Modulus {
		res -= Modulus
	}
	return res
}

// NewElement builds an Element from a canonical uint64, reducing mod p.
func NewElement(v uint64) Element {
	if v >= Modulus {
		v %= Modulus
	}
	return Element{n: montMul(v, montR2)}
}

// NewElementFromInt64 builds an Element from a signed integer, wrapping
// negative values into [0, p).
func NewElementFromInt64(v int64) Element {
	if v >= 0 {
		return NewElement(uint64(v))
	}
	u := uint64(-v) % Modulus
	return NewElement(Modulus - u)
}

// Zero returns the additive identity.
func Zero() Element { return Element{} }

// One returns the multiplicative identity.
func One() Element { return NewElement(1) }

// Generator returns a fixed generator of F*: 7 generates the full
// multiplicative group of the Goldilocks field.
func Generator() Element { return NewElement(7) }

// TwoAdicRootOfUnity returns a primitive 2^32-th root of unity of F*.
func TwoAdicRootOfUnity() Element {
	return Element{n: 0xda58878b0d514e98}
}

// SubgroupGenerator returns a generator of the unique subgroup of order 2^k,
// computed as omega^(2^(32-k)) where omega is the 2-adic root of unity.
func SubgroupGenerator(k int) (Element, error) {
	if k < 0 || k > twoAdic {
		return Element{}, fmt.Errorf("core: subgroup order 2^%d exceeds two-adicity %d", k, twoAdic)
	}
	shift := uint64(1) << uint(twoAdic-k)
	return TwoAdicRootOfUnity().Pow(shift), nil
}

// Uint64 returns the canonical representative of the element in [0, p).
func (a Element) Uint64() uint64 {
	return montMul(a.n, 1)
}

// Add returns a + b mod p.
func (a Element) Add(b Element) Element {
	s, carry := bits.Add64(a.n, b.n, 0)
	if carry == 1 || s >= Modulus {
		s -= Modulus
	}
	return Element{n: s}
}

// Sub returns a - b mod p.
func (a Element) Sub(b Element) Element {
	d, borrow := bits.Sub64(a.n, b.n, 0)
	if borrow == 1 {
		d += Modulus
	}
	return Element{n: d}
}

// Neg returns -a mod p.
func (a Element) Neg() Element {
	if a.n == 0 {
		return a
	}
	return Element{n: Modulus - a.n}
}

// Mul returns a * b mod p.
func (a Element) Mul(b Element) Element {
	return Element{n: montMul(a.n, b.n)}
}

// Square returns a * a mod p.
func (a Element) Square() Element {
	return Element{n: montMul(a.n, a.n)}
}

// IsZero reports whether a is the additive identity.
func (a Element) IsZero() bool { return a.n == 0 }

// IsOne reports whether a is the multiplicative identity.
func (a Element) IsOne() bool { return a == One() }

// Equal reports whether a and b represent the same field element.
func (a Element) Equal(b Element) bool { return a.n == b.n }

// Inv returns the multiplicative inverse of a. Fails only for a == 0.
func (a Element) Inv() (Element, error) {
	if a.IsZero() {
		return Element{}, fmt.Errorf("core: cannot invert zero element")
	}
	return a.Pow(Modulus - 2), nil
}

// MustInv is Inv but panics on zero; callers use it only where a prior
// domain check has already excluded zero.
func (a Element) MustInv() Element {
	inv, err := a.Inv()
	if err != nil {
		panic(err)
	}
	return inv
}

// Div returns a / b mod p.
func (a Element) Div(b Element) (Element, error) {
	inv, err := b.Inv()
	if err != nil {
		return Element{}, fmt.Errorf("core: division failed: %w", err)
	}
	return a.Mul(inv), nil
}

// Pow returns a^exp mod p via square-and-multiply over the little-endian
// bits of exp.
func (a Element) Pow(exp uint64) Element {
	result := One()
	base := a
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Square()
		exp >>= 1
	}
	return result
}

// Sqrt returns a square root of a via Tonelli-Shanks specialized to the
// field's two-adicity (32). Returns an error if a is not a quadratic
// residue.
func (a Element) Sqrt() (Element, error) {
	if a.IsZero() {
		return Element{}, nil
	}

	legendre := a.Pow((Modulus - 1) / 2)
	if !legendre.IsOne() {
		return Element{}, fmt.Errorf("core: element is not a quadratic residue")
	}

	const S = twoAdic
	T := (Modulus - 1) >> S

	nonResidue := NewElement(7) // a generator of F*, hence a non-residue
	c := nonResidue.Pow(T)
	x := a.Pow((T + 1) / 2)
	t := a.Pow(T)
	m := S

	for !t.IsOne() {
		i := 1
		tt := t.Square()
		for !tt.IsOne() {
			tt = tt.Square()
			i++
			if i >= m {
				return Element{}, fmt.Errorf("core: sqrt failed to converge")
			}
		}

		b := c
		for j := 0; j < m-i-1; j++ {
			b = b.Square()
		}

		x = x.Mul(b)
		c = b.Square()
		t = t.Mul(c)
		m = i
	}

	return x, nil
}

// Bytes returns the 8 little-endian bytes of the canonical representative.
func (a Element) Bytes() [8]byte {
	v := a.Uint64()
	var out [8]byte
	for i := 0; i < 8; i++ {
		out[i] = byte(v >> (8 * i))
	}
	return out
}

// ElementFromBytes reinterprets 8 little-endian bytes as a field element,
// reducing modulo p.
func ElementFromBytes(b [8]byte) Element {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return NewElement(v)
}

// String renders the canonical decimal representative.
func (a Element) String() string {
	return fmt.Sprintf("%d", a.Uint64())
}
