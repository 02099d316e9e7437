package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "certtrack",
	Short: "Certification tracking and renewal management server",
	Long: `certtrack tracks professional certifications across an organisation:
users register their certificates and request renewals, admins review
requests, broadcast notifications, and monitor compliance.`,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
