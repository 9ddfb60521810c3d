package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/xyston/caseload/internal/casenote"
	"github.com/xyston/caseload/internal/config"

	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note <participant>",
	Short: "Draft an AI case note and save it as the participant's strategy notes",
	Args:  cobra.ExactArgs(1),
	RunE:  runNote,
}

var noteDryRun bool

func init() {
	noteCmd.Flags().BoolVar(&noteDryRun, "dry-run", false, "Print the note without saving it")
	rootCmd.AddCommand(noteCmd)
}

func newNoteClient(ctx context.Context, cfg config.Config) (*casenote.Client, error) {
	log := newLogger("dev")
	return casenote.NewClient(ctx, casenote.Config{
		APIKey:  config.GetGeminiAPIKey(cfg),
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
		Timeout: config.AITimeout(cfg),
	}, log)
}

func runNote(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := newNoteClient(ctx, cfg)
	if errors.Is(err, casenote.ErrMissingAPIKey) {
		return errors.New("gemini API key is missing: set GEMINI_API_KEY or run `caseload setup`")
	}
	if err != nil {
		return err
	}

	r, err := openRoster(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	m, _, err := resolveMetrics(r, args[0])
	if err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Drafting note for %s...\n", m.Name)
	}

	var text string
	if noteDryRun {
		text, err = client.Generate(ctx, casenote.BuildPrompt(m))
	} else {
		text, err = casenote.Write(ctx, client, r, m)
	}
	switch {
	case errors.Is(err, casenote.ErrUnauthorized):
		return errors.New("gemini rejected the API key; check it with `caseload config`")
	case errors.Is(err, casenote.ErrRateLimited):
		return errors.New("rate limited by the Gemini API, try again in a minute")
	case err != nil:
		return fmt.Errorf("drafting note: %w", err)
	}

	fmt.Printf("\n%s\n\n", text)
	if !noteDryRun && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Saved to %s's strategy notes.\n", m.Name)
	}
	return nil
}
