package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/xyston/caseload/internal/cli"
	"github.com/xyston/caseload/internal/pipeline"
	"github.com/xyston/caseload/internal/source"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file-or-dir>...",
	Short: "Import participants from CSV spreadsheets",
	Long: "Import participants from one or more CSV files or directories of CSV files.\n" +
		"Rows are appended to the roster. A malformed file aborts the whole import.",
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

var (
	importReplace bool
	importDryRun  bool
)

func init() {
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Replace the roster instead of appending")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse and report without writing")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	today, err := referenceDate()
	if err != nil {
		return err
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		if current == total {
			fmt.Fprintln(os.Stderr)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := pipeline.ImportFiles(ctx, args, source.ParseOptions{
		Today: today,
		Rate:  rateFor(cfg, today),
	}, progressFn)
	if err != nil {
		return fmt.Errorf("import failed, nothing written: %w", err)
	}
	if len(res.Files) == 0 {
		fmt.Println("\n  No CSV files found.")
		return nil
	}

	fmt.Println()
	rows := make([][]string, 0, len(res.Files))
	for _, f := range res.Files {
		rows = append(rows, []string{f.File.Name, cli.FormatCount(len(f.Participants)), cli.FormatCount(f.Skipped)})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Import",
		Headers: []string{"File", "Participants", "Blank Rows"},
		Rows:    rows,
	}))

	if importDryRun {
		fmt.Printf("  Dry run: %d participants parsed, nothing written.\n\n", len(res.Participants))
		return nil
	}

	r, err := openRoster(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	if importReplace {
		err = r.ReplaceAll(res.Participants)
	} else {
		err = r.InsertMany(res.Participants)
	}
	if err != nil {
		return fmt.Errorf("saving imported participants: %w", err)
	}

	verb := "Added"
	if importReplace {
		verb = "Replaced roster with"
	}
	fmt.Printf("  %s %d participants.\n\n", verb, len(res.Participants))
	return nil
}
