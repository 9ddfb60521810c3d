package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/xyston/caseload/internal/backup"
	"github.com/xyston/caseload/internal/tui/forms"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Save or restore the whole roster",
}

var backupSaveCmd = &cobra.Command{
	Use:   "save [file]",
	Short: "Write the roster to a JSON or YAML backup (by extension)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBackupSave,
}

var backupLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Replace the roster with a backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupLoad,
}

var (
	backupFormat string
	backupYes    bool
)

func init() {
	backupCmd.PersistentFlags().StringVar(&backupFormat, "format", "", "json or yaml (default from file extension)")
	backupLoadCmd.Flags().BoolVarP(&backupYes, "yes", "y", false, "Skip confirmation")
	backupCmd.AddCommand(backupSaveCmd, backupLoadCmd)
	rootCmd.AddCommand(backupCmd)
}

func backupFormatFor(path string) (backup.Format, error) {
	switch backupFormat {
	case "":
		return backup.FormatForPath(path), nil
	case "json":
		return backup.JSON, nil
	case "yaml", "yml":
		return backup.YAML, nil
	}
	return "", fmt.Errorf("unknown backup format %q", backupFormat)
}

func runBackupSave(_ *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	format, err := backupFormatFor(path)
	if err != nil {
		return err
	}

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
	return writeOutput(path, func(w io.Writer) error {
		return backup.Save(w, ps, format)
	}, fmt.Sprintf("Backed up %d participants", len(ps)))
}

func runBackupLoad(_ *cobra.Command, args []string) error {
	path := args[0]
	format, err := backupFormatFor(path)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	today, err := referenceDate()
	if err != nil {
		return err
	}

	f, err := os.Open(path) //nolint:gosec // user-chosen backup file
	if err != nil {
		return err
	}
	defer f.Close()

	ps, err := backup.Load(f, format, rateFor(cfg, today))
	if err != nil {
		return err
	}

	r, err := openRoster(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	if !backupYes {
		n, err := r.Count()
		if err != nil {
			return err
		}
		if n > 0 {
			ok, err := forms.Confirm(fmt.Sprintf("Replace %d participants with %d from %s?", n, len(ps), path), "")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("  Cancelled.")
				return nil
			}
		}
	}

	if err := r.ReplaceAll(ps); err != nil {
		return fmt.Errorf("restoring backup: %w", err)
	}
	fmt.Printf("  Restored %d participants from %s\n", len(ps), path)
	return nil
}
