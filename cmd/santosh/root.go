package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "santosh",
	Short: "Santosh is a WhatsApp flow relay",
	Long:  `Santosh relays WhatsApp webhook events through a spreadsheet-defined conversational flow, with a generative fallback for everything the flow does not cover.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "config.yaml", "Path to the configuration file")
}
