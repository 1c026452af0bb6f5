// Command vybium-zkvm-prover proves and verifies guest program executions.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagVerbose bool
	flagDevMode bool
)

func main() {
	root := &cobra.Command{
		Use:   "vybium-zkvm-prover",
		Short: "Vybium zkVM proving pipeline",
		Long: `vybium-zkvm-prover executes guest programs inside the Vybium zkVM,
produces receipts attesting to their execution, and verifies receipts
against an image ID.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if flagVerbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&flagDevMode, "dev-mode", false,
		"skip proof generation and emit fake receipts (also VYBIUM_DEV_MODE=1)")

	root.AddCommand(proveCmd())
	root.AddCommand(verifyCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
