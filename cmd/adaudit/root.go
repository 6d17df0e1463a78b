// Package main provides the entry point for the adaudit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for adaudit.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adaudit",
		Short: "Advertising policy compliance auditor for websites",
		Long: `adaudit audits websites for advertising policy compliance before ad
network application. It crawls the site, classifies content pages,
checks each page against policy rules and an LLM moderation backend,
and produces a 0-100 compliance score with remediation suggestions.

Set GEMINI_API_KEY (environment or .env file) to enable LLM content
moderation. Without it, scans still run with rule-based checks only.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
