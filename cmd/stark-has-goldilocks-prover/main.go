package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/saholmes/stark-has-goldilocks/internal/stark-has-goldilocks/core"
	starkhasgoldilocks "github.com/saholmes/stark-has-goldilocks/pkg/stark-has-goldilocks"
)

// Request is a single-line JSON statement read from stdin: the codeword's
// domain size and degree bound, and the prover/verifier configuration.
type Request struct {
	N0         int      `json:"n0"`
	Degree     int      `json:"degree"`
	Schedule   []int    `json:"schedule"`
	Queries    int      `json:"queries"`
	SeedZ      uint64   `json:"seed_z"`
	Backend    string   `json:"backend"`
	Variant    string   `json:"variant"`
	TraceHash  string   `json:"trace_hash,omitempty"`
	CoeffSeed  []uint64 `json:"coeff_seed,omitempty"`
}

// Response is written as a single JSON line to stdout.
type Response struct {
	Verified   bool     `json:"verified"`
	Reason     string   `json:"reason,omitempty"`
	ProofBytes int      `json:"proof_bytes"`
	Roots      []string `json:"roots"`
}

func main() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		fatal("failed to read request")
	}
	var req Request
	if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
		fatal(fmt.Sprintf("failed to parse request: %v", err))
	}

	cfg := buildConfig(req)

	logStderr(fmt.Sprintf("building degree-%d codeword over a domain of size %d", req.Degree, req.N0))
	codeword, omega0, err := buildCodeword(req)
	if err != nil {
		fatal(fmt.Sprintf("failed to build codeword: %v", err))
	}

	traceHash, err := parseTraceHash(req.TraceHash)
	if err != nil {
		fatal(fmt.Sprintf("failed to parse trace_hash: %v", err))
	}

	logStderr("generating DEEP-FRI proof...")
	proof, err := starkhasgoldilocks.Prove(cfg, codeword, req.N0, omega0, traceHash)
	if err != nil {
		fatal(fmt.Sprintf("proof generation failed: %v", err))
	}
	logStderr(fmt.Sprintf("proof generated: %d layers, %d queries", len(proof.Schedule), len(proof.Queries)))

	logStderr("verifying...")
	ok, reason, err := starkhasgoldilocks.Verify(cfg, proof, traceHash)
	if err != nil {
		fatal(fmt.Sprintf("verification raised an error: %v", err))
	}

	roots := make([]string, len(proof.Roots))
	for i, r := range proof.Roots {
		b := r.Bytes()
		roots[i] = hex.EncodeToString(b[:])
	}

	resp := Response{
		Verified:   ok,
		Reason:     reason.String(),
		ProofBytes: proof.Size(),
		Roots:      roots,
	}
	out, err := json.Marshal(resp)
	if err != nil {
		fatal(fmt.Sprintf("failed to serialize response: %v", err))
	}

	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))
}

func buildConfig(req Request) *starkhasgoldilocks.Config {
	cfg := starkhasgoldilocks.DefaultConfig()
	if len(req.Schedule) > 0 {
		cfg = cfg.WithSchedule(req.Schedule)
	}
	if req.Queries > 0 {
		cfg = cfg.WithQueries(req.Queries)
	}
	cfg = cfg.WithSeedZ(req.SeedZ)

	switch req.Backend {
	case "sha3":
		cfg = cfg.WithBackend(starkhasgoldilocks.BackendSha3)
	case "blake3":
		cfg = cfg.WithBackend(starkhasgoldilocks.BackendBlake3)
	default:
		cfg = cfg.WithBackend(starkhasgoldilocks.BackendPoseidon)
	}

	switch req.Variant {
	case "legacy":
		cfg = cfg.WithVariant(starkhasgoldilocks.DeepVariantLegacy)
	default:
		cfg = cfg.WithVariant(starkhasgoldilocks.DeepVariantAmplified)
	}

	return cfg
}

// buildCodeword constructs a deterministic low-degree codeword over the
// requested domain size, for demonstration and load-testing purposes; a
// real caller supplies its own (a, s, e, t) vectors to Merge instead.
func buildCodeword(req Request) ([]starkhasgoldilocks.FieldElement, starkhasgoldilocks.FieldElement, error) {
	if !core.IsPowerOfTwo(req.N0) {
		return nil, core.Element{}, fmt.Errorf("n0 must be a power of two, got %d", req.N0)
	}
	logN := 0
	for (1 << uint(logN)) != req.N0 {
		logN++
	}
	omega, err := core.SubgroupGenerator(logN)
	if err != nil {
		return nil, core.Element{}, err
	}

	coeffs := make([]starkhasgoldilocks.FieldElement, req.N0)
	for i := 0; i < req.Degree && i < req.N0; i++ {
		seed := uint64(7*i + 3)
		if i < len(req.CoeffSeed) {
			seed = req.CoeffSeed[i]
		}
		coeffs[i] = core.NewElement(seed)
	}

	codeword, err := core.NTT(coeffs, omega)
	if err != nil {
		return nil, core.Element{}, err
	}
	return codeword, omega, nil
}

func parseTraceHash(s string) ([32]byte, error) {
	var out [32]byte
	if s == "" {
		return out, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	if len(b) != 32 {
		return out, fmt.Errorf("trace_hash must be 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, "stark-has-goldilocks-prover:", msg)
}

func fatal(msg string) {
	logStderr("ERROR: " + msg)
	os.Exit(1)
}
