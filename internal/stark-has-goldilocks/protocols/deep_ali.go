package protocols

import (
	"fmt"

	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/core"
	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/pool"
)

// rateDivisor is the fixed rate enforcement divisor: the committed
// codeword's underlying polynomial has degree < n/rateDivisor.
const rateDivisor = 32

// isInSubgroup reports whether x lies in the order-n multiplicative
// subgroup, i.e. x^n == 1.
func isInSubgroup(x core.Element, n int) bool {
	return x.Pow(uint64(n)).IsOne()
}

// DeepALIMerge produces the low-rate base codeword f0 from the four input
// vectors (a, s, e, t) over H (generator omega, size n) at the
// out-of-domain challenge z. z is always carried as an Fp3 value: the
// legacy variant lifts a single base-field challenge via
// core.Fp3FromBase, so its second and third components are zero and every
// Fp3 operation below degenerates to plain base-field arithmetic. When
// beta is non-zero, beta*r is added to Phi before the quotient is taken.
func DeepALIMerge(a, s, e, t []core.Element, omega core.Element, z core.Fp3, beta core.Fp3, r []core.Element) (f0 []core.Element, cStar core.Fp3, err error) {
	n := len(a)
	if n <= 1 || !core.IsPowerOfTwo(n) {
		return nil, core.Fp3{}, configError(fmt.Sprintf("DEEP-ALI merge requires power-of-two n > 1, got %d", n))
	}
	if n%rateDivisor != 0 {
		return nil, core.Fp3{}, configError(fmt.Sprintf("DEEP-ALI merge requires %d | n, got n=%d", rateDivisor, n))
	}
	if len(s) != n || len(e) != n || len(t) != n {
		return nil, core.Fp3{}, configError("a, s, e, t must all have the same length")
	}
	if beta != (core.Fp3{}) && (len(r) != n) {
		return nil, core.Fp3{}, configError("blinding vector r must have length n when blinding is active")
	}

	if isInSubgroup(z.A0, n) && z.A1.IsZero() && z.A2.IsZero() {
		return nil, core.Fp3{}, domainCollisionError("out-of-domain challenge z lies in H")
	}

	omegaPows := make([]core.Element, n)
	omegaPows[0] = core.One()
	for j := 1; j < n; j++ {
		omegaPows[j] = omegaPows[j-1].Mul(omega)
	}

	phi := make([]core.Fp3, n)
	negInvZMinusOmega := make([]core.Fp3, n)

	var computeErr error
	pool.Run(n, func(start, end int) {
		for j := start; j < end; j++ {
			pj := core.Fp3FromBase(a[j]).Mul(core.Fp3FromBase(s[j])).Add(core.Fp3FromBase(e[j])).Sub(core.Fp3FromBase(t[j]))
			if beta != (core.Fp3{}) {
				pj = pj.Add(beta.MulBase(r[j]))
			}
			phi[j] = pj

			zMinusOmega := z.Sub(core.Fp3FromBase(omegaPows[j]))
			inv, e := zMinusOmega.Inv()
			if e != nil {
				computeErr = arithmeticError("z coincides with a domain point during merge", e)
				return
			}
			negInvZMinusOmega[j] = inv.Neg()
		}
	})
	if computeErr != nil {
		return nil, core.Fp3{}, computeErr
	}

	nInv, err := core.NewElement(uint64(n)).Inv()
	if err != nil {
		return nil, core.Fp3{}, arithmeticError("failed to invert domain size", err)
	}

	phiZ := core.Fp3Zero()
	for j := 0; j < n; j++ {
		invZMinusOmega := negInvZMinusOmega[j].Neg()
		term := phi[j].Mul(core.Fp3FromBase(omegaPows[j])).Mul(invZMinusOmega)
		phiZ = phiZ.Add(term)
	}
	phiZ = phiZ.MulBase(nInv)

	zhz := z.Pow(uint64(n)).Sub(core.Fp3One())
	zhzInv, err := zhz.Inv()
	if err != nil {
		return nil, core.Fp3{}, arithmeticError("Z_H(z) is zero", err)
	}
	cStar = phiZ.Mul(zhzInv)

	f0Raw := make([]core.Element, n)
	pool.Run(n, func(start, end int) {
		for j := start; j < end; j++ {
			f0Raw[j] = phi[j].Mul(negInvZMinusOmega[j]).Project()
		}
	})

	f0, err = enforceRate(f0Raw, omega, n/rateDivisor)
	if err != nil {
		return nil, core.Fp3{}, err
	}

	return f0, cStar, nil
}

// enforceRate projects a length-n codeword down to degree < d via
// INTT -> truncate to the first d coefficients -> re-NTT.
func enforceRate(codeword []core.Element, omega core.Element, d int) ([]core.Element, error) {
	n := len(codeword)
	coeffs, err := core.INTT(codeword, omega)
	if err != nil {
		return nil, fmt.Errorf("protocols: rate enforcement INTT failed: %w", err)
	}

	truncated := make([]core.Element, n)
	copy(truncated, coeffs[:d])

	result, err := core.NTT(truncated, omega)
	if err != nil {
		return nil, fmt.Errorf("protocols: rate enforcement NTT failed: %w", err)
	}
	return result, nil
}
