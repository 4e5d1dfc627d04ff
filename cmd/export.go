// Package cmd — export command.
// One-shot pipeline run: resolve a program record by id, render it to the
// selected format, and write the file under its sanitized name.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ignatius32/programas-crubunco/core"
	"github.com/Ignatius32/programas-crubunco/core/archive"
	"github.com/Ignatius32/programas-crubunco/core/catalog"
	"github.com/Ignatius32/programas-crubunco/core/dispatch"
	"github.com/Ignatius32/programas-crubunco/core/output"
	"github.com/Ignatius32/programas-crubunco/core/render"
)

var (
	flagPDF       bool
	flagMarkdown  bool
	flagJSON      bool
	flagOutputDir string
)

var exportCmd = &cobra.Command{
	Use:   "export <program-id>",
	Short: "Export a program document to a file",
	Long: `Export resolves a program record and writes it to the output directory.
Legacy ids ("old-<n>") come from the historical archive; any other id is
fetched from the live catalog (API_URL must be configured).

Examples:
  programas export 1234
  programas export 1234 --markdown --output_dir ./out
  programas export old-12 --pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	// Output format flags (mutually exclusive; PDF is the default).
	exportCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF (default)")
	exportCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	exportCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")

	exportCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	exportCmd.Flags().StringVar(&flagDataDir, "data_dir", "", "Archive data directory (default $DATA_DIR or ./data)")
}

func runExport(cmd *cobra.Command, args []string) error {
	id := args[0]

	if err := validateFormatFlags(); err != nil {
		return err
	}

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = envOr("DATA_DIR", "data")
	}
	store, err := archive.Load(dataDir)
	if err != nil {
		return fmt.Errorf("loading archive: %w", err)
	}
	cat := newCatalogClient(store)

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	ctx := context.Background()

	// The PDF path goes through the dispatcher so legacy ids keep their
	// archived document instead of a re-render of sparse metadata.
	if !flagMarkdown && !flagJSON {
		renderer := render.NewPDFRenderer(os.Getenv("LOGO_PATH"))
		res, err := dispatch.New(store, cat, renderer).Program(ctx, id)
		if err != nil {
			return err
		}
		return writeResult(writer, res.Filename, res.Data)
	}

	p, err := resolveProgram(ctx, store, cat, id)
	if err != nil {
		return err
	}

	var renderer core.Renderer
	if flagMarkdown {
		renderer = render.NewMarkdownRenderer()
	} else {
		renderer = render.NewJSONRenderer()
	}
	data, err := renderer.Render(p)
	if err != nil {
		return err
	}
	name := output.Compose(p.Subject, p.CareerCode, p.AcademicYear, renderer.Extension())
	return writeResult(writer, name, data)
}

// resolveProgram fetches the record from whichever source owns the id.
func resolveProgram(ctx context.Context, store *archive.Store, cat *catalog.Client, id string) (*core.Program, error) {
	if archive.IsLegacyID(id) {
		return store.Program(id)
	}
	return cat.Get(ctx, id)
}

func writeResult(writer *output.Writer, filename string, data []byte) error {
	path, err := writer.Write(filename, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)
	return nil
}

// validateFormatFlags checks that at most one output format is chosen.
func validateFormatFlags() error {
	count := 0
	for _, f := range []bool{flagPDF, flagMarkdown, flagJSON} {
		if f {
			count++
		}
	}
	if count > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", count)
	}
	return nil
}
