package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/swipe-solver/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API:

  GET  /        status and version
  GET  /health  dictionary, OCR and upload folder status
  POST /solve   multipart upload in field "screenshot"

Example:
  swipe-solver serve --addr :8000
  curl -F screenshot=@puzzle.png http://localhost:8000/solve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := buildComponents(ctx)
	defer c.Close()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(c.solver, c.dict, c.engine, server.Options{
		Version:           Version,
		UploadDir:         cfg.Server.UploadDir,
		MaxUploadBytes:    cfg.Server.MaxUploadBytes,
		AllowedExtensions: cfg.Server.AllowedExtensions,
	}, logger)
	return srv.ListenAndServe(ctx, addr)
}
