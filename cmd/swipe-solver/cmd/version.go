package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/swipe-solver/internal/ocr"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and OCR backend information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "swipe-solver %s\n", Version)
		fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)

		engine := ocr.New(cfg.OCR)
		defer engine.Close()
		info := engine.Info()
		if info.Available {
			fmt.Fprintf(out, "  OCR: %s %s (%s)\n", info.Backend, info.Version, info.Language)
		} else {
			fmt.Fprintf(out, "  OCR: unavailable (%s)\n", info.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
