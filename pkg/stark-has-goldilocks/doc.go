// Package starkhasgoldilocks provides a DEEP-FRI polynomial commitment and
// low-degree test engine over the 64-bit Goldilocks prime field.
//
// stark-has-goldilocks implements the DEEP Algebraic Linking (DEEP-ALI)
// merge step and a multi-folding DEEP-FRI prover/verifier, the commitment
// layer a surrounding AIR/STARK statement builds its proof of low-degreeness
// on top of. Building that surrounding statement (instruction sets, AIRs,
// lookup tables) is out of scope here; this package only proves and
// verifies that a committed codeword is close to a low-degree polynomial.
//
// # Features
//
// - Goldilocks field arithmetic in 64-bit Montgomery form
// - Radix-2 NTT/INTT over two-adic subgroups
// - Poseidon permutation (width 17, rate 16) for in-circuit-friendly hashing
// - Pluggable Fiat-Shamir transcript (Poseidon, SHA3-256, BLAKE3)
// - Domain-separated, configurable-arity Merkle commitment trees
// - DEEP-ALI merge with amplified (Fp3) or legacy (base-field) challenges
// - Multi-folding DEEP-FRI proving and verification with structured
//   rejection diagnostics
//
// # Quick Start
//
// Merging an AIR's evaluation vectors into a low-rate base codeword, then
// proving it is close to a low-degree polynomial:
//
//	cfg := starkhasgoldilocks.DefaultConfig().WithQueries(48)
//
//	f0, cStar, err := starkhasgoldilocks.Merge(a, s, e, t, omega, z, beta, r)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	proof, err := starkhasgoldilocks.Prove(cfg, f0, n0, omega0, traceHash)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Verifying the proof against the same public statement:
//
//	ok, reason, err := starkhasgoldilocks.Verify(cfg, proof, traceHash)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if !ok {
//		log.Printf("proof rejected: %s", reason)
//	}
//
// # Architecture
//
// stark-has-goldilocks uses a hybrid public/private architecture:
//
// - pkg/stark-has-goldilocks/: Public API (this package)
// - internal/stark-has-goldilocks/: Private implementation (not importable)
//
// The public API provides stable interfaces for:
// - The DEEP-ALI merge
// - DEEP-FRI proving and verification
// - Common configuration and error types
//
// Implementation details in internal/ can be refactored without breaking
// the public API. The private packages are themselves separated by
// concern: core/ (field, NTT, Poseidon), merkle/ (commitment trees),
// transcript/ (Fiat-Shamir), pool/ (bounded worker-pool parallelism), and
// protocols/ (DEEP-ALI and DEEP-FRI).
//
// # Concurrency
//
// Layer folding, DEEP quotient computation, and the merge's per-point
// kernels dispatch onto a process-wide worker pool once the element count
// crosses a fixed parallel threshold; below it they run sequentially in
// the calling goroutine. NTTs always run sequentially on the calling
// goroutine. The pool size defaults to GOMAXPROCS and is configurable
// once, before first use.
//
// # References
//
// - STARK Paper: https://eprint.iacr.org/2018/046
// - FRI Paper: https://eccc.weizmann.ac.il/report/2017/134/
// - DEEP-FRI Paper: https://eprint.iacr.org/2019/336
//
// # License
//
// See LICENSE file in the repository root.
package starkhasgoldilocks
