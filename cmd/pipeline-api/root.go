package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "pipeline-api",
	Short: "Hiring pipeline workflow API",
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(runCmd)
}
