// Package main provides the draftctl operator CLI: train, inspect and roll
// back model versions against the same artifacts directory the API serves
// from.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "draftctl",
		Short:   "Operate the draft recommendation model lifecycle",
		Long:    `draftctl builds model artifacts from parsed match data, registers them for serving, and manages rollback.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newTrainCmd(),
		newVersionsCmd(),
		newCurrentCmd(),
		newRollbackCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
