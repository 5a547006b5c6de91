package core

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// Poseidon permutation parameters: width t=17, rate=16, capacity=1, matching
// a Merkle arity of 16. RF full rounds split 4 before / 4 after RP partial
// rounds, S-box x -> x^5.
const (
	PoseidonWidth      = 17
	PoseidonRate       = 16
	PoseidonCapacity   = 1
	PoseidonFullRounds = 8
	PoseidonPartRounds = 64
)

// PoseidonParams holds the MDS matrix and round constants for the width-17
// permutation, derived deterministically from a seed.
type PoseidonParams struct {
	MDS       [PoseidonWidth][PoseidonWidth]Element
	RCFull    [PoseidonFullRounds][PoseidonWidth]Element
	RCPartial [PoseidonPartRounds]Element
}

// fieldFromHash hashes tag||data with BLAKE3 and reduces the first 8 bytes of
// the digest, little-endian, modulo p. Reproducible bit-for-bit from
// (tag, data).
func fieldFromHash(tag string, data []byte) Element {
	h := blake3.New()
	h.Write([]byte(tag))
	h.Write(data)
	sum := h.Sum(nil)
	return NewElement(binary.LittleEndian.Uint64(sum[:8]))
}

func le64(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

func deriveMDS(seed []byte) [PoseidonWidth][PoseidonWidth]Element {
	var m [PoseidonWidth][PoseidonWidth]Element
	for i := 0; i < PoseidonWidth; i++ {
		for j := 0; j < PoseidonWidth; j++ {
			data := make([]byte, 0, len(seed)+16)
			data = append(data, le64(uint64(i))...)
			data = append(data, le64(uint64(j))...)
			data = append(data, seed...)
			m[i][j] = fieldFromHash("POSEIDON-MDS", data)
		}
	}
	return m
}

func deriveRCFull(seed []byte) [PoseidonFullRounds][PoseidonWidth]Element {
	var rc [PoseidonFullRounds][PoseidonWidth]Element
	for r := 0; r < PoseidonFullRounds; r++ {
		for i := 0; i < PoseidonWidth; i++ {
			data := make([]byte, 0, len(seed)+16)
			data = append(data, le64(uint64(r))...)
			data = append(data, le64(uint64(i))...)
			data = append(data, seed...)
			rc[r][i] = fieldFromHash("POSEIDON-RC-FULL", data)
		}
	}
	return rc
}

func deriveRCPartial(seed []byte) [PoseidonPartRounds]Element {
	var rc [PoseidonPartRounds]Element
	for r := 0; r < PoseidonPartRounds; r++ {
		data := make([]byte, 0, len(seed)+8)
		data = append(data, le64(uint64(r))...)
		data = append(data, seed...)
		rc[r] = fieldFromHash("POSEIDON-RC-PART", data)
	}
	return rc
}

// GeneratePoseidonParams derives the width-17, x^5 S-box Poseidon parameters
// from a seed label. Equal seeds always yield equal parameters.
func GeneratePoseidonParams(seed []byte) *PoseidonParams {
	return &PoseidonParams{
		MDS:       deriveMDS(seed),
		RCFull:    deriveRCFull(seed),
		RCPartial: deriveRCPartial(seed),
	}
}

// DefaultPoseidonParams returns the parameters derived under a fixed,
// documented seed label. The transcript derives its own set under a
// different label.
func DefaultPoseidonParams() *PoseidonParams {
	return GeneratePoseidonParams([]byte("POSEIDON-GOLDILOCKS-T17-X5-V1"))
}

// sbox5 computes x -> x^5 via one square, one square, one multiply.
func sbox5(x Element) Element {
	x2 := x.Square()
	x4 := x2.Square()
	return x.Mul(x4)
}

func mdsMul(mds [PoseidonWidth][PoseidonWidth]Element, state [PoseidonWidth]Element) [PoseidonWidth]Element {
	var out [PoseidonWidth]Element
	for i := 0; i < PoseidonWidth; i++ {
		acc := Zero()
		for j := 0; j < PoseidonWidth; j++ {
			acc = acc.Add(mds[i][j].Mul(state[j]))
		}
		out[i] = acc
	}
	return out
}

// Permute applies the full Poseidon permutation to state in place.
func Permute(state *[PoseidonWidth]Element, params *PoseidonParams) {
	rfHalf := PoseidonFullRounds / 2

	for r := 0; r < rfHalf; r++ {
		for i := 0; i < PoseidonWidth; i++ {
			state[i] = state[i].Add(params.RCFull[r][i])
			state[i] = sbox5(state[i])
		}
		*state = mdsMul(params.MDS, *state)
	}

	for r := 0; r < PoseidonPartRounds; r++ {
		state[0] = state[0].Add(params.RCPartial[r])
		state[0] = sbox5(state[0])
		*state = mdsMul(params.MDS, *state)
	}

	for r := rfHalf; r < PoseidonFullRounds; r++ {
		for i := 0; i < PoseidonWidth; i++ {
			state[i] = state[i].Add(params.RCFull[r][i])
			state[i] = sbox5(state[i])
		}
		*state = mdsMul(params.MDS, *state)
	}
}
