package merkle

import (
	"testing"

	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/core"
)

func buildTestTree(t *testing.T, n int, arity int) (*Tree, core.Element, [32]byte) {
	t.Helper()
	var traceHash [32]byte
	for i := range traceHash {
		traceHash[i] = byte(i)
	}
	cfg := Config{LayerArities: ArityScheduleFor(n, arity), TreeLabel: 7}
	tree := New(cfg, traceHash)
	for i := 0; i < n; i++ {
		tree.PushLeaf([]core.Element{core.NewElement(uint64(i)), core.NewElement(uint64(i * i))})
	}
	root, err := tree.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return tree, root, traceHash
}

func TestMerkleOpeningSoundness(t *testing.T) {
	const n = 1000
	const arity = 4
	tree, root, traceHash := buildTestTree(t, n, arity)
	cfg := Config{LayerArities: ArityScheduleFor(n, arity), TreeLabel: 7}

	for _, i := range []int{0, 1, 37, 999} {
		opening, err := tree.Open(i)
		if err != nil {
			t.Fatalf("Open(%d): %v", i, err)
		}
		if !VerifyOpening(cfg, traceHash, root, opening) {
			t.Fatalf("valid opening for index %d rejected", i)
		}

		mutatedLeaf := opening
		mutatedLeaf.Leaf = append([]core.Element(nil), opening.Leaf...)
		mutatedLeaf.Leaf[0] = mutatedLeaf.Leaf[0].Add(core.One())
		if VerifyOpening(cfg, traceHash, root, mutatedLeaf) {
			t.Fatalf("mutated leaf at index %d incorrectly verified", i)
		}

		if len(opening.Path) > 0 && len(opening.Path[0]) > 0 {
			mutatedSib := opening
			mutatedSib.Path = make([][]core.Element, len(opening.Path))
			for l := range opening.Path {
				mutatedSib.Path[l] = append([]core.Element(nil), opening.Path[l]...)
			}
			mutatedSib.Path[0][0] = mutatedSib.Path[0][0].Add(core.One())
			if VerifyOpening(cfg, traceHash, root, mutatedSib) {
				t.Fatalf("mutated sibling at index %d incorrectly verified", i)
			}
		}

		mutatedIdx := opening
		mutatedIdx.Index = opening.Index ^ 1
		if VerifyOpening(cfg, traceHash, root, mutatedIdx) {
			t.Fatalf("mutated index at %d incorrectly verified", i)
		}
	}
}

func TestMerkleTraceHashBinding(t *testing.T) {
	const n = 64
	const arity = 8
	tree, root, traceHash := buildTestTree(t, n, arity)
	cfg := Config{LayerArities: ArityScheduleFor(n, arity), TreeLabel: 7}

	opening, err := tree.Open(3)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !VerifyOpening(cfg, traceHash, root, opening) {
		t.Fatalf("opening should verify against matching trace hash")
	}

	var otherHash [32]byte
	otherHash[0] = traceHash[0] ^ 1
	if VerifyOpening(cfg, otherHash, root, opening) {
		t.Fatalf("opening verified against mismatched trace hash")
	}
}

func TestPickArity(t *testing.T) {
	a, err := PickArity(4096, 16)
	if err != nil || a != 16 {
		t.Fatalf("expected arity 16, got %d, err %v", a, err)
	}

	a, err = PickArity(30, 16)
	if err != nil || a != 2 {
		t.Fatalf("expected fallback arity 2, got %d, err %v", a, err)
	}
}
