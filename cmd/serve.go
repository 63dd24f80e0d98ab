package cmd

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/icco/genstaff/internal/server"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the song store over HTTP",
	Long: `Serve the configured song store over HTTP so editors on other machines can
use it with --server.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "address to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Listen
	if listenAddr != "" {
		addr = listenAddr
	}
	store, err := cfg.Store()
	if err != nil {
		return err
	}
	err = server.New(store, slog.Default()).ListenAndServe(ctx, addr, cfg.AllowOrigins...)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
