package cmd

import (
	"fmt"
	"image"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/swipe-solver/internal/letters"
	"github.com/ironsheep/swipe-solver/internal/solver"
)

var wordsFormat string

var wordsCmd = &cobra.Command{
	Use:   "words <letters>",
	Short: "List dictionary words formable from the given letters",
	Long: `List dictionary words formable from the given letters, longest first.
Letters are placed on a circle so every word comes with an example path.
Repeat a letter to model duplicate tiles.

Example:
  swipe-solver words PART
  swipe-solver words "t r a p" --format yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWords,
}

func init() {
	rootCmd.AddCommand(wordsCmd)
	wordsCmd.Flags().StringVarP(&wordsFormat, "format", "f", "json", "output format: json or yaml")
}

func runWords(cmd *cobra.Command, args []string) error {
	obs := letters.Ring(strings.Join(args, ""), image.Point{X: 200, Y: 200}, 100)
	if len(obs) == 0 {
		return fmt.Errorf("no letters A-Z in %q", strings.Join(args, " "))
	}

	dict := loadDictionary(cmd.Context())
	s := solver.New(nil, dict, cfg.Swipe, logger)
	return writeOutput(cmd.OutOrStdout(), wordsFormat, s.Words(obs))
}
