package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wardkeep",
	Short: "Wardkeep is an embedded client-side data protection layer",
	Long: `Wardkeep protects sensitive data persisted to a plain key-value store:
encryption at rest, CSRF-bound records, session expiry, rate limiting and a
security event audit trail. The serve command runs the operator dashboard.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
