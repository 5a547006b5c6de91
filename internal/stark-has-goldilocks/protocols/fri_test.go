package protocols

import (
	"reflect"
	"testing"

	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/core"
)

func TestNormalizeScheduleExactProduct(t *testing.T) {
	got, err := NormalizeSchedule(64, []int{2, 2, 2, 2, 2, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{2, 2, 2, 2, 2, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizeScheduleAppendsResidual(t *testing.T) {
	got, err := NormalizeSchedule(1024, []int{16, 16})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{16, 16, 4}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizeScheduleRejectsNonDividingSchedule(t *testing.T) {
	if _, err := NormalizeSchedule(100, []int{2, 2}); err == nil {
		t.Fatalf("expected error for a non-power-of-two n0")
	}
	if _, err := NormalizeSchedule(64, []int{2, 3}); err == nil {
		t.Fatalf("expected error for a non-power-of-two schedule factor")
	}
	if _, err := NormalizeSchedule(64, []int{16, 8}); err == nil {
		t.Fatalf("expected error when the schedule product does not divide n0")
	}
}

func TestLayerSizes(t *testing.T) {
	sizes := LayerSizes(64, []int{2, 2, 2, 2, 2, 2})
	want := []int{64, 32, 16, 8, 4, 2, 1}
	if !reflect.DeepEqual(sizes, want) {
		t.Fatalf("got %v, want %v", sizes, want)
	}
}

func TestMerkleArityScheduleForLayer(t *testing.T) {
	schedule, err := MerkleArityScheduleForLayer(4096, 128)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schedule) == 0 || schedule[0] != 128 {
		t.Fatalf("expected the widest candidate arity 128, got %v", schedule)
	}
}

func buildProverParams(schedule []int, queries int, backend TranscriptBackend, variant Variant) Params {
	return Params{Schedule: schedule, Queries: queries, SeedZ: 0, Backend: backend, Variant: variant}
}

func TestProveVerifyEndToEnd(t *testing.T) {
	const n0 = 64
	omega, err := core.SubgroupGenerator(6)
	if err != nil {
		t.Fatalf("failed to derive subgroup generator: %v", err)
	}

	coeffs := make([]core.Element, n0)
	for i := 0; i < 8; i++ {
		coeffs[i] = core.NewElement(uint64(5*i + 2))
	}
	codeword, err := core.NTT(coeffs, omega)
	if err != nil {
		t.Fatalf("NTT failed: %v", err)
	}

	params := buildProverParams([]int{2, 2, 2, 2, 2, 2}, 8, BackendPoseidon, VariantAmplified)
	var traceHash [32]byte

	proof, err := Prove(codeword, n0, omega, traceHash, params)
	if err != nil {
		t.Fatalf("Prove failed: %v", err)
	}

	ok, reason, err := Verify(proof, traceHash, params)
	if err != nil {
		t.Fatalf("Verify raised an error: %v", err)
	}
	if !ok {
		t.Fatalf("expected proof to verify, got reject reason %s", reason)
	}
}

func TestProveVerifyRejectsFoldTampering(t *testing.T) {
	const n0 = 64
	omega, err := core.SubgroupGenerator(6)
	if err != nil {
		t.Fatalf("failed to derive subgroup generator: %v", err)
	}

	coeffs := make([]core.Element, n0)
	for i := 0; i < 8; i++ {
		coeffs[i] = core.NewElement(uint64(i + 1))
	}
	codeword, err := core.NTT(coeffs, omega)
	if err != nil {
		t.Fatalf("NTT failed: %v", err)
	}

	params := buildProverParams([]int{2, 2, 2, 2, 2, 2}, 8, BackendPoseidon, VariantAmplified)
	var traceHash [32]byte

	proof, err := Prove(codeword, n0, omega, traceHash, params)
	if err != nil {
		t.Fatalf("Prove failed: %v", err)
	}

	proof.Queries[0].Layers[0].SI = proof.Queries[0].Layers[0].SI.Add(core.One())

	ok, _, err := Verify(proof, traceHash, params)
	if err != nil {
		t.Fatalf("Verify raised an error: %v", err)
	}
	if ok {
		t.Fatalf("expected a tampered fold bucket to be rejected")
	}
}

func TestProveRejectsQueryCountMismatchOnVerify(t *testing.T) {
	const n0 = 32
	omega, err := core.SubgroupGenerator(5)
	if err != nil {
		t.Fatalf("failed to derive subgroup generator: %v", err)
	}
	codeword := make([]core.Element, n0)
	for i := range codeword {
		codeword[i] = core.NewElement(uint64(i))
	}

	proveParams := buildProverParams([]int{2, 2, 2, 2, 2}, 4, BackendPoseidon, VariantAmplified)
	var traceHash [32]byte
	proof, err := Prove(codeword, n0, omega, traceHash, proveParams)
	if err != nil {
		t.Fatalf("Prove failed: %v", err)
	}

	verifyParams := proveParams
	verifyParams.Queries = 5
	if _, _, err := Verify(proof, traceHash, verifyParams); err == nil {
		t.Fatalf("expected a ConfigError for mismatched query counts")
	}
}
