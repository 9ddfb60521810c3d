package cmd

import (
	"fmt"

	"github.com/xyston/caseload/internal/report"

	"github.com/spf13/cobra"
)

var emailCmd = &cobra.Command{
	Use:   "email <participant>",
	Short: "Draft a viability update email",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmail,
}

var emailMailto bool

func init() {
	emailCmd.Flags().BoolVar(&emailMailto, "mailto", false, "Print a mailto: link instead of the draft text")
	rootCmd.AddCommand(emailCmd)
}

func runEmail(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	r, err := openRoster(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	m, today, err := resolveMetrics(r, args[0])
	if err != nil {
		return err
	}

	draft := report.EmailDraft(m, today)
	if emailMailto {
		fmt.Println(draft.MailtoURL())
		return nil
	}
	fmt.Printf("Subject: %s\n\n%s\n", draft.Subject, draft.Body)
	return nil
}
