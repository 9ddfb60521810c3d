package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/xyston/caseload/internal/source"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the roster as CSV",
	RunE:  runExport,
}

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	r, err := openRoster(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	ps, err := r.List()
	if err != nil {
		return err
	}

	return writeOutput(exportOutput, func(w io.Writer) error {
		return source.WriteCSV(w, ps)
	}, fmt.Sprintf("Exported %d participants", len(ps)))
}

// writeOutput runs write against path, or stdout when path is empty or "-".
func writeOutput(path string, write func(io.Writer) error, done string) error {
	if path == "" || path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path) //nolint:gosec // user-chosen output path
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  %s to %s\n", done, path)
	}
	return nil
}
