package core

import (
	"fmt"

	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/utils"
)

// NTT performs the forward radix-2 decimation-in-time number-theoretic
// transform: it maps a coefficient vector to its evaluations on the
// multiplicative subgroup generated by omega. len(values) must be a power
// of two and omega must have that exact order.
func NTT(values []Element, omega Element) ([]Element, error) {
	n := len(values)
	if n == 0 {
		return []Element{}, nil
	}
	if n&(n-1) != 0 {
		return nil, fmt.Errorf("core: NTT requires power-of-two length, got %d", n)
	}

	result := make([]Element, n)
	copy(result, values)

	logN := log2(n)
	for i := 0; i < n; i++ {
		j := reverseBits(i, logN)
		if i < j {
			result[i], result[j] = result[j], result[i]
		}
	}

	for s := 1; s <= logN; s++ {
		m := 1 << uint(s)
		halfM := m >> 1
		wm := omega.Pow(uint64(n / m))

		for k := 0; k < n; k += m {
			w := One()
			for j := 0; j < halfM; j++ {
				t := w.Mul(result[k+j+halfM])
				u := result[k+j]
				result[k+j] = u.Add(t)
				result[k+j+halfM] = u.Sub(t)
				w = w.Mul(wm)
			}
		}
	}

	return result, nil
}

// INTT performs the inverse transform: evaluations on the subgroup generated
// by omega back to coefficients.
func INTT(values []Element, omega Element) ([]Element, error) {
	n := len(values)
	if n == 0 {
		return []Element{}, nil
	}
	if n&(n-1) != 0 {
		return nil, fmt.Errorf("core: INTT requires power-of-two length, got %d", n)
	}

	omegaInv, err := omega.Inv()
	if err != nil {
		return nil, fmt.Errorf("core: failed to invert omega: %w", err)
	}

	coeffs, err := NTT(values, omegaInv)
	if err != nil {
		return nil, err
	}

	nInv, err := NewElement(uint64(n)).Inv()
	if err != nil {
		return nil, fmt.Errorf("core: failed to invert domain size: %w", err)
	}

	for i := range coeffs {
		coeffs[i] = coeffs[i].Mul(nInv)
	}

	return coeffs, nil
}

// reverseBits reverses the low bitLength bits of n.
func reverseBits(n, bitLength int) int {
	result := 0
	for i := 0; i < bitLength; i++ {
		if n&(1<<uint(i)) != 0 {
			result |= 1 << uint(bitLength-1-i)
		}
	}
	return result
}

// log2 returns the base-2 logarithm of a power-of-two integer.
func log2(n int) int {
	return utils.Log2(n)
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return utils.IsPowerOfTwo(n)
}
