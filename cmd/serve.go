// Package cmd — serve command.
// Loads the static archive, wires the catalog client and dispatcher, and
// runs the HTTP service until interrupted.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Ignatius32/programas-crubunco/core/archive"
	"github.com/Ignatius32/programas-crubunco/core/catalog"
	"github.com/Ignatius32/programas-crubunco/core/dispatch"
	"github.com/Ignatius32/programas-crubunco/core/render"
	"github.com/Ignatius32/programas-crubunco/server"
)

var (
	flagAddr    string
	flagDataDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog HTTP service",
	Long: `Serve loads the historical archive from the data directory and exposes
the search and download routes over HTTP. The live catalog is used when
API_URL is configured; without it the archive answers alone.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default $ADDR or :8080)")
	serveCmd.Flags().StringVar(&flagDataDir, "data_dir", "", "Archive data directory (default $DATA_DIR or ./data)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	addr := flagAddr
	if addr == "" {
		addr = envOr("ADDR", ":8080")
	}
	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = envOr("DATA_DIR", "data")
	}

	store, err := archive.Load(dataDir)
	if err != nil {
		return fmt.Errorf("loading archive: %w", err)
	}
	log.Info("archive loaded",
		"programs", len(store.Programs()),
		"careers", len(store.Careers()),
		"data_dir", dataDir)

	cat := newCatalogClient(store)
	if !cat.Configured() {
		log.Warn("API_URL not set, serving archive only")
	}

	renderer := render.NewPDFRenderer(os.Getenv("LOGO_PATH"))
	disp := dispatch.New(store, cat, renderer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(log, store, cat, disp).ListenAndServe(ctx, addr)
}

// newCatalogClient builds the live-catalog client from the environment.
func newCatalogClient(store *archive.Store) *catalog.Client {
	cat := catalog.New(catalog.Config{
		BaseURL:  os.Getenv("API_URL"),
		Username: os.Getenv("API_USER"),
		Password: os.Getenv("API_PASS"),
	})
	cat.CareerName = store.CareerName
	return cat
}
