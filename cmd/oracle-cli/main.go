package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/farum-oracle/internal/observability"
)

var (
	personasFile string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "oracle-cli",
	Short: "Talk to the oracle personas from a terminal",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		observability.SetLevel(logLevel)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&personasFile, "personas", "", "persona catalog YAML (default: embedded catalog)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "log level: debug, info, warn, error")

	rootCmd.AddCommand(personasCmd)
	rootCmd.AddCommand(newChatCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
