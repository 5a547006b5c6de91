// Package merkle implements a domain-separated, configurable-arity Merkle
// commitment tree over Goldilocks field-element tuples.
package merkle

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/core"
)

// leafLevelDS is the domain-separation sentinel for leaf-level hashing,
// the u32::MAX equivalent used to keep leaf hashes out of the inner-node
// hash space.
const leafLevelDS uint64 = 0xFFFFFFFF

// dsLabel is the 32-byte domain-separated header bound into every node hash:
// four little-endian u64s (arity, level, position, tree_label).
type dsLabel struct {
	arity      uint64
	level      uint64
	position   uint64
	treeLabel  uint64
}

func (d dsLabel) bytes() [32]byte {
	var out [32]byte
	binary.LittleEndian.PutUint64(out[0:8], d.arity)
	binary.LittleEndian.PutUint64(out[8:16], d.level)
	binary.LittleEndian.PutUint64(out[16:24], d.position)
	binary.LittleEndian.PutUint64(out[24:32], d.treeLabel)
	return out
}

// Config holds the per-level arity schedule and the tree label used for
// domain separation.
type Config struct {
	// LayerArities gives the arity of each internal level, level 0 being
	// the one directly above the leaves.
	LayerArities []int
	// TreeLabel distinguishes otherwise-identical trees (e.g. different
	// FRI layers) so their node hashes never collide.
	TreeLabel uint64
}

// Opening is a Merkle authentication path: the leaf's tuple, the index it
// was committed at, and per-level sibling groups (arity-1 values each).
type Opening struct {
	Leaf  []core.Element
	Index int
	Path  [][]core.Element
}

// Tree is a configurable-arity Merkle tree whose every node hash is bound
// to a 32-byte trace hash supplied at construction, in addition to the
// domain-separation header.
type Tree struct {
	cfg       Config
	traceHash [32]byte
	levels    [][]core.Element
	leaves    [][]core.Element
}

// New creates an empty tree ready to accept leaves via PushLeaf.
func New(cfg Config, traceHash [32]byte) *Tree {
	return &Tree{cfg: cfg, traceHash: traceHash}
}

// compress hashes the domain-separation header, the bound trace hash, and
// the children's canonical byte encodings with SHA3-256, truncating to the
// first 8 bytes and reducing modulo p.
func (t *Tree) compress(ds dsLabel, children []core.Element) core.Element {
	h := sha3.New256()
	hdr := ds.bytes()
	h.Write(hdr[:])
	h.Write(t.traceHash[:])
	for _, c := range children {
		b := c.Bytes()
		h.Write(b[:])
	}
	sum := h.Sum(nil)
	var first8 [8]byte
	copy(first8[:], sum[:8])
	return core.ElementFromBytes(first8)
}

// PushLeaf appends a leaf tuple to the tree. The tuple width is fixed for
// the lifetime of a tree (callers keep it consistent).
func (t *Tree) PushLeaf(values []core.Element) {
	if len(t.levels) == 0 {
		t.levels = append(t.levels, nil)
	}
	idx := len(t.levels[0])
	ds := dsLabel{
		arity:     uint64(t.cfg.LayerArities[0]),
		level:     leafLevelDS,
		position:  uint64(idx),
		treeLabel: t.cfg.TreeLabel,
	}
	t.levels[0] = append(t.levels[0], t.compress(ds, values))
	t.leaves = append(t.leaves, append([]core.Element(nil), values...))
}

// Finalize builds all internal levels and returns the root. It must be
// called after all leaves are pushed and before any Open call.
func (t *Tree) Finalize() (core.Element, error) {
	if len(t.levels) == 0 || len(t.levels[0]) == 0 {
		return core.Element{}, fmt.Errorf("merkle: cannot finalize an empty tree")
	}

	level := 0
	for len(t.levels[level]) > 1 {
		if level >= len(t.cfg.LayerArities) {
			return core.Element{}, fmt.Errorf("merkle: arity schedule too short for level %d", level)
		}
		arity := t.cfg.LayerArities[level]
		cur := append([]core.Element(nil), t.levels[level]...)

		if rem := len(cur) % arity; rem != 0 {
			last := cur[len(cur)-1]
			for i := 0; i < arity-rem; i++ {
				cur = append(cur, last)
			}
		}

		parents := make([]core.Element, len(cur)/arity)
		for i := 0; i < len(parents); i++ {
			group := cur[i*arity : (i+1)*arity]
			ds := dsLabel{
				arity:     uint64(arity),
				level:     uint64(level + 1),
				position:  uint64(i),
				treeLabel: t.cfg.TreeLabel,
			}
			parents[i] = t.compress(ds, group)
		}

		t.levels = append(t.levels, parents)
		level++
	}

	return t.levels[len(t.levels)-1][0], nil
}

// Open returns the authentication path for the leaf at index.
func (t *Tree) Open(index int) (Opening, error) {
	if index < 0 || index >= len(t.leaves) {
		return Opening{}, fmt.Errorf("merkle: index %d out of range [0, %d)", index, len(t.leaves))
	}
	if len(t.levels) < 2 {
		return Opening{}, fmt.Errorf("merkle: tree not finalized")
	}

	idx := index
	path := make([][]core.Element, 0, len(t.levels)-1)

	for level := 0; level < len(t.levels)-1; level++ {
		nodes := t.levels[level]
		arity := t.cfg.LayerArities[level]
		groupStart := (idx / arity) * arity

		group := make([]core.Element, arity)
		for i := 0; i < arity; i++ {
			pos := groupStart + i
			if pos < len(nodes) {
				group[i] = nodes[pos]
			} else {
				group[i] = nodes[len(nodes)-1]
			}
		}

		siblings := make([]core.Element, 0, arity-1)
		for i := 0; i < arity; i++ {
			if groupStart+i != idx {
				siblings = append(siblings, group[i])
			}
		}
		path = append(path, siblings)
		idx /= arity
	}

	return Opening{
		Leaf:  append([]core.Element(nil), t.leaves[index]...),
		Index: index,
		Path:  path,
	}, nil
}

// VerifyOpening reconstructs the hash chain from opening.Leaf up to the
// root and compares it to root. Any sibling-count mismatch at any level is
// treated as rejection.
func VerifyOpening(cfg Config, traceHash [32]byte, root core.Element, opening Opening) bool {
	tmp := &Tree{cfg: cfg, traceHash: traceHash}

	ds0 := dsLabel{
		arity:     uint64(cfg.LayerArities[0]),
		level:     leafLevelDS,
		position:  uint64(opening.Index),
		treeLabel: cfg.TreeLabel,
	}
	cur := tmp.compress(ds0, opening.Leaf)
	idx := opening.Index

	for level, siblings := range opening.Path {
		if level >= len(cfg.LayerArities) {
			return false
		}
		arity := cfg.LayerArities[level]
		if len(siblings) != arity-1 {
			return false
		}
		pos := idx % arity

		children := make([]core.Element, arity)
		sibIdx := 0
		for i := 0; i < arity; i++ {
			if i == pos {
				children[i] = cur
			} else {
				children[i] = siblings[sibIdx]
				sibIdx++
			}
		}

		ds := dsLabel{
			arity:     uint64(arity),
			level:     uint64(level + 1),
			position:  uint64(idx / arity),
			treeLabel: cfg.TreeLabel,
		}
		cur = tmp.compress(ds, children)
		idx /= arity
	}

	return cur.Equal(root)
}

// PickArity returns the largest candidate arity <= m that divides n, per
// the fixed candidate table {128,64,32,16,8,4,2}.
func PickArity(n, m int) (int, error) {
	for _, a := range []int{128, 64, 32, 16, 8, 4, 2} {
		if a <= m && n%a == 0 {
			return a, nil
		}
	}
	return 0, fmt.Errorf("merkle: no candidate arity divides n=%d with m<=%d", n, m)
}

// ArityScheduleFor builds the full per-level arity schedule for a tree over
// n leaves using a fixed per-layer arity a: depth is the smallest d with
// a^d >= n.
func ArityScheduleFor(n, a int) []int {
	var schedule []int
	count := n
	for count > 1 {
		schedule = append(schedule, a)
		count = (count + a - 1) / a
	}
	return schedule
}
