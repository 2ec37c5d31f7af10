package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/swipe-solver/internal/imaging"
	"github.com/ironsheep/swipe-solver/internal/letters"
)

var detectFormat string

var detectCmd = &cobra.Command{
	Use:   "detect <image>",
	Short: "Print the letters and positions detected in a screenshot",
	Long: `Run letter detection only. Prints each observation (letter, x, y,
confidence) and which strategies ran. No dictionary is loaded.

Example:
  swipe-solver detect puzzle.png --log-level debug`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

// detectOutput is what detect prints.
type detectOutput struct {
	Observations []letters.Observation `json:"observations" yaml:"observations"`
	Trace        letters.Trace         `json:"trace" yaml:"trace"`
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().StringVarP(&detectFormat, "format", "f", "json", "output format: json or yaml")
}

func runDetect(cmd *cobra.Command, args []string) error {
	pipeline, engine := newPipeline()
	defer engine.Close()

	out := detectOutput{Observations: []letters.Observation{}}
	img, err := imaging.LoadFile(args[0])
	if err != nil {
		logger.Warn("failed to load screenshot", "path", args[0], "error", err)
		return writeOutput(cmd.OutOrStdout(), detectFormat, out)
	}

	out.Observations, out.Trace = pipeline.DetectWithTrace(img)
	return writeOutput(cmd.OutOrStdout(), detectFormat, out)
}
