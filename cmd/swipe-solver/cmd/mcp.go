package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/swipe-solver/internal/server"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as an MCP tool server over stdin/stdout",
	Long: `Run as an MCP (Model Context Protocol) server. Requests are read from
stdin and responses written to stdout, one JSON-RPC message per line; logs go
to stderr.

Tools: solve_puzzle, detect_letters, find_words, dictionary_info,
annotate_solution.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := buildComponents(ctx)
	defer c.Close()

	logger.Info("mcp server starting", "version", Version, "dictionary_words", c.dict.Len())
	srv := server.New(c.solver, c.dict, c.engine, server.Options{Version: Version}, logger)
	return srv.Run(ctx)
}
