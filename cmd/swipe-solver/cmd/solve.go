package cmd

import (
	"fmt"
	"image"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/swipe-solver/internal/imaging"
	"github.com/ironsheep/swipe-solver/internal/solver"
)

var (
	solveFormat   string
	solveAnnotate string
	solveVerbose  bool
)

var solveCmd = &cobra.Command{
	Use:   "solve <image>",
	Short: "Solve a screenshot and print words with their swipe paths",
	Long: `Detect the letters in a screenshot and print ranked dictionary words with
the swipe path for each, as {"swipes": [...]}. An image that yields nothing
prints {"swipes": []}.

Example:
  swipe-solver solve puzzle.png
  swipe-solver solve puzzle.png --format yaml --annotate solved.png`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringVarP(&solveFormat, "format", "f", "json", "output format: json or yaml")
	solveCmd.Flags().StringVar(&solveAnnotate, "annotate", "", "write the screenshot with letters and paths drawn to this PNG")
	solveCmd.Flags().BoolVarP(&solveVerbose, "verbose", "v", false, "include detected letters and the detection trace")
}

func runSolve(cmd *cobra.Command, args []string) error {
	c := buildComponents(cmd.Context())
	defer c.Close()

	img, err := imaging.LoadFile(args[0])
	if err != nil {
		logger.Warn("failed to load screenshot", "path", args[0], "error", err)
		return writeOutput(cmd.OutOrStdout(), solveFormat, solver.Empty())
	}

	analysis := c.solver.Analyze(img)

	if solveAnnotate != "" {
		if err := writeAnnotated(solveAnnotate, solver.Annotate(img, analysis)); err != nil {
			return err
		}
		logger.Info("annotated screenshot written", "path", solveAnnotate)
	}

	if solveVerbose {
		return writeOutput(cmd.OutOrStdout(), solveFormat, analysis)
	}
	return writeOutput(cmd.OutOrStdout(), solveFormat, analysis.Result())
}

func writeAnnotated(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := imaging.EncodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
