package protocols

import (
	"fmt"

	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/core"
	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/merkle"
)

// Fiat-Shamir domain-separation labels used by the DEEP-FRI protocol,
// distinct from the transcript package's own absorb/challenge tags.
var (
	tagStatement = []byte("DEEP-FRI-STATEMENT")
	tagZA0       = []byte("z_fp3/a0")
	tagZA1       = []byte("z_fp3/a1")
	tagZA2       = []byte("z_fp3/a2")
	tagRoot      = []byte("DEEP-FRI-ROOT")
	tagFriSeed   = []byte("DEEP-FRI-SEED")
)

// NormalizeSchedule appends the residual factor (which must itself be a
// power of two) whenever the product of schedule does not already divide
// n0 down to exactly 1, so the final layer always has size 1.
func NormalizeSchedule(n0 int, schedule []int) ([]int, error) {
	if n0 <= 0 || !core.IsPowerOfTwo(n0) {
		return nil, configError(fmt.Sprintf("n0 must be a positive power of two, got %d", n0))
	}
	if n0 < 32 {
		return nil, configError(fmt.Sprintf("n0 must be >= 32, got %d", n0))
	}
	if len(schedule) == 0 {
		return nil, configError("schedule must be non-empty")
	}

	product := 1
	for _, m := range schedule {
		if !core.IsPowerOfTwo(m) || m < 2 {
			return nil, configError(fmt.Sprintf("schedule factor %d is not a power of two >= 2", m))
		}
		product *= m
	}
	if n0%product != 0 {
		return nil, configError(fmt.Sprintf("schedule product %d does not divide n0=%d", product, n0))
	}

	residual := n0 / product
	normalized := append([]int(nil), schedule...)
	if residual != 1 {
		if !core.IsPowerOfTwo(residual) {
			return nil, configError(fmt.Sprintf("residual size %d is not a power of two", residual))
		}
		normalized = append(normalized, residual)
	}
	return normalized, nil
}

// LayerSizes returns the domain size n_l for each layer l = 0..len(schedule),
// i.e. n0 followed by n0 divided by the running product of the schedule.
func LayerSizes(n0 int, schedule []int) []int {
	sizes := make([]int, len(schedule)+1)
	sizes[0] = n0
	for i, m := range schedule {
		sizes[i+1] = sizes[i] / m
	}
	return sizes
}

// MerkleArityScheduleForLayer picks the layer's Merkle arity (the largest
// candidate <= m dividing n) and expands it into the full per-level
// arity schedule needed to commit n leaves.
func MerkleArityScheduleForLayer(n, m int) ([]int, error) {
	arity, err := merkle.PickArity(n, m)
	if err != nil {
		return nil, err
	}
	return merkle.ArityScheduleFor(n, arity), nil
}
