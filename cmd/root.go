package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sector-rotation",
	Short: "Sector ETF rotation dashboard",
}

func Execute() error {
	rootCmd.AddCommand(watchCmd)
	return rootCmd.Execute()
}
