package protocols

import (
	"encoding/binary"
	"fmt"

	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/core"
)

// Proof is the full DEEP-FRI proof: per-layer Merkle roots, one query
// payload (with Merkle openings) per query, and the domain-0 parameters
// needed to rebuild the verifier's transcript.
type Proof struct {
	N0       int
	Omega0   core.Element
	Schedule []int
	Variant  Variant
	Roots    []core.Element
	Queries  []QueryProof
}

// Size returns the canonical proof size in bytes (8 bytes per field
// element plus an 8-byte index per opening), per the §6 byte layout: L roots, r query
// payloads (each L per-layer payloads of 9 field elements in the Fp3
// variant, plus a final pair of 2), and r*L Merkle openings (an index plus
// arity-1 siblings per level).
func (p *Proof) Size() int {
	const feBytes = 8
	const indexBytes = 8

	l := len(p.Schedule)
	size := l * feBytes // roots

	perLayerFields := 9
	if p.Variant == VariantLegacy {
		perLayerFields = 7
	}

	for _, q := range p.Queries {
		for _, layer := range q.Layers {
			size += perLayerFields * feBytes
			size += indexBytes
			for _, siblings := range layer.Opening.Path {
				size += len(siblings) * feBytes
			}
		}
		size += 2 * feBytes // final pair
	}

	return size
}

// EncodeRoots returns the canonical little-endian byte encoding of the
// layer roots, per §6's field-element serialization rule (8 little-endian
// bytes of the canonical representative).
func EncodeRoots(roots []core.Element) []byte {
	out := make([]byte, 0, len(roots)*8)
	for _, r := range roots {
		b := r.Bytes()
		out = append(out, b[:]...)
	}
	return out
}

// DecodeFieldElements reinterprets a byte slice as a sequence of 8-byte
// little-endian field elements, reducing each modulo p.
func DecodeFieldElements(data []byte) ([]core.Element, error) {
	if len(data)%8 != 0 {
		return nil, &ProtocolError{Kind: "SerializationError", Message: fmt.Sprintf("byte length %d is not a multiple of 8", len(data))}
	}
	out := make([]core.Element, len(data)/8)
	for i := range out {
		var b [8]byte
		copy(b[:], data[i*8:i*8+8])
		out[i] = core.ElementFromBytes(b)
	}
	return out, nil
}

func encodeUint64(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}
