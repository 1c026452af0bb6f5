package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	vybiumzkvm "github.com/vybium/vybium-zkvm/pkg/vybium-zkvm"
)

func verifyCmd() *cobra.Command {
	var imageIDHex string
	cmd := &cobra.Command{
		Use:   "verify <receipt.bin>",
		Short: "Verify a receipt against a program or image ID",
		Long: `Verify checks a serialized receipt. The expected image ID comes either
from --image-id or from re-deriving it with --program.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			r, err := vybiumzkvm.UnmarshalReceipt(data)
			if err != nil {
				return err
			}

			var imageID vybiumzkvm.Digest
			programPath, _ := cmd.Flags().GetString("program")
			switch {
			case imageIDHex != "":
				imageID, err = vybiumzkvm.DigestFromHex(imageIDHex)
				if err != nil {
					return err
				}
			case programPath != "":
				program, _, err := loadProgram(programPath)
				if err != nil {
					return err
				}
				imageID, err = vybiumzkvm.ImageID(program)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("either --image-id or --program is required")
			}

			vctx := vybiumzkvm.DefaultVerifierContext()
			if flagDevMode || vybiumzkvm.DevModeFromEnv() {
				vctx = vctx.WithDevMode(true)
			}
			if err := r.VerifyWithContext(imageID, vctx); err != nil {
				return fmt.Errorf("verification failed: %w", err)
			}

			fmt.Printf("receipt OK: kind=%s journal=%d bytes\n", r.Kind(), len(r.Journal.Bytes))
			return nil
		},
	}
	cmd.Flags().StringVar(&imageIDHex, "image-id", "", "expected image ID, hex")
	cmd.Flags().String("program", "", "program JSON to derive the image ID from")
	return cmd
}
