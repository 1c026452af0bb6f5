// Package vybiumzkvm provides a zero-knowledge virtual machine proving
// pipeline: guest execution, segment proving, receipt composition, and
// verification.
//
// A guest program runs inside the Vybium zkVM and produces a session:
// a journal of committed public output plus a list of provable segments.
// A prover turns the session into a receipt, a portable object that
// anyone can verify against the program's image ID without re-executing
// the guest.
//
// # Receipt kinds
//
// Receipts come in three real representations, ordered by strength:
//
//   - Composite: one proof per segment. Cheapest to produce, largest.
//   - Succinct: one recursive proof of the whole session.
//   - Compact: a constant-size wrapped proof, cheapest to verify.
//
// Compress converts a receipt upward through this order; it never
// downgrades. A fourth kind, Fake, is produced only by the dev-mode
// prover and carries no cryptographic material.
//
// # Quick Start
//
// Proving and verifying a program:
//
//	program := vybiumzkvm.NewProgram().
//		Add(vybiumzkvm.Push, 3).
//		Add(vybiumzkvm.Push, 4).
//		Add(vybiumzkvm.Add, 0).
//		Add(vybiumzkvm.Commit, 0).
//		Add(vybiumzkvm.Halt, 0)
//
//	prover, err := vybiumzkvm.NewProverServer(vybiumzkvm.DefaultProverOpts())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	info, err := prover.Prove(ctx, vybiumzkvm.NewExecutorEnv(), program)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	imageID := vybiumzkvm.ImageID(program)
//	if err := info.Receipt.Verify(imageID); err != nil {
//		log.Fatal(err)
//	}
//
// # Dev mode
//
// Setting VYBIUM_DEV_MODE=1 (or passing devMode to GetProverServer)
// selects a prover that skips proof generation and returns fake
// receipts. Dev mode is for development iteration only: fake receipts
// fail verification unless the verifier context opts in, and building
// with the vybium_disable_dev_mode tag removes dev-mode support from
// the binary entirely.
//
// # Architecture
//
// - pkg/vybium-zkvm/: Public API (this package)
// - internal/vybium-zkvm/: Private implementation (not importable)
//
// The public API provides stable interfaces for:
// - Guest programs and execution environments
// - Proving backends and receipt composition
// - Receipt verification and serialization
package vybiumzkvm
