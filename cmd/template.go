package cmd

import (
	"github.com/xyston/caseload/internal/source"

	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write a blank CSV import template",
	RunE: func(_ *cobra.Command, _ []string) error {
		return writeOutput(templateOutput, source.WriteTemplate, "Wrote import template")
	},
}

var templateOutput string

func init() {
	templateCmd.Flags().StringVarP(&templateOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(templateCmd)
}
