package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	vybiumzkvm "github.com/vybium/vybium-zkvm/pkg/vybium-zkvm"
)

// ProgramInput is the on-disk program format: textual instructions like
// "Push(42)" or "Halt(0)", one per array element.
type ProgramInput struct {
	Instructions []string `json:"instructions"`
	Input        []uint32 `json:"input,omitempty"`
}

func loadProgram(path string) (*vybiumzkvm.Program, []uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var in ProgramInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	program := vybiumzkvm.NewProgram()
	for i, instStr := range in.Instructions {
		ei, err := vybiumzkvm.ParseInstruction(instStr)
		if err != nil {
			return nil, nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		program.AddInstruction(ei)
	}
	return program, in.Input, nil
}

func proveCmd() *cobra.Command {
	var (
		outPath     string
		hashFn      string
		receiptKind string
	)
	cmd := &cobra.Command{
		Use:   "prove <program.json>",
		Short: "Execute a guest program and produce a receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, input, err := loadProgram(args[0])
			if err != nil {
				return err
			}

			opts := vybiumzkvm.DefaultProverOpts().WithHashFn(hashFn)
			switch receiptKind {
			case "composite":
			case "succinct":
				opts = opts.WithReceiptKind(vybiumzkvm.ReceiptKindSuccinct)
			case "compact":
				opts = opts.WithReceiptKind(vybiumzkvm.ReceiptKindCompact)
			default:
				return fmt.Errorf("unknown receipt kind %q", receiptKind)
			}

			devMode := flagDevMode || vybiumzkvm.DevModeFromEnv()
			prover, err := vybiumzkvm.GetProverServer(opts, devMode)
			if err != nil {
				return err
			}

			env := vybiumzkvm.NewExecutorEnv().Write(input...)
			info, err := prover.Prove(cmd.Context(), env, program)
			if err != nil {
				return err
			}

			imageID, err := vybiumzkvm.ImageID(program)
			if err != nil {
				return err
			}
			slog.Info("proved",
				"image_id", imageID,
				"kind", info.Receipt.Kind(),
				"segments", info.Stats.Segments,
				"cycles", info.Stats.TotalCycles,
				"journal_bytes", len(info.Receipt.Journal.Bytes))

			data, err := info.Receipt.MarshalBinary()
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("image_id: %s\nreceipt: %s (%d bytes)\n", imageID, outPath, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "receipt.bin", "receipt output path")
	cmd.Flags().StringVar(&hashFn, "hash-fn", vybiumzkvm.SuiteSha256,
		"seal hash suite (sha-256, sha3, blake2b, poseidon)")
	cmd.Flags().StringVar(&receiptKind, "receipt-kind", "composite",
		"receipt kind to produce (composite, succinct, compact)")
	return cmd
}
