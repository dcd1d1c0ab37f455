package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	dbPath    string
	configDir string
	verbose   bool

	// RootCmd is the root command for basketminer
	RootCmd = &cobra.Command{
		Use:   "basketminer",
		Short: "Frequent itemset and association rule mining for retail baskets",
		Long: `basketminer finds every frequent itemset in a transaction database by
brute-force enumeration and derives association rules from them.

Each level k checks every k-combination of the distinct items against every
transaction, keeps those meeting the minimum support and stops at the first
level with nothing frequent. Rules are ranked by confidence, then support.

Minimum support below 1 is a fraction of the transactions; 1 or more is an
absolute transaction count.

Quick Start:
  1. basketminer generate --import
  2. basketminer list
  3. basketminer mine Amazon

Examples:
  # Mine a CSV file directly
  basketminer mine --file data/Walmart_transactions.csv

  # Stricter thresholds, export the results
  basketminer mine Amazon --min-support 0.3 --min-confidence 0.8 --export amazon

  # Compare every stored database
  basketminer summary`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initRuntime,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			dbPath, _ := getDBPath()
			fmt.Fprintln(out, "basketminer: frequent itemset and association rule mining")
			fmt.Fprintln(out)
			if _, err := os.Stat(dbPath); os.IsNotExist(err) {
				fmt.Fprintln(out, "Run 'basketminer generate --import' to create sample databases.")
			} else {
				fmt.Fprintln(out, "Tip: Run 'basketminer list' to see stored databases.")
				fmt.Fprintln(out, "     Run 'basketminer mine NAME' to mine one.")
			}
			fmt.Fprintln(out, "Run 'basketminer --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.basketminer/basketminer.db)")
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default: $XDG_CONFIG_HOME/basketminer)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// getDBPath returns the database path, using the flag value or default
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	// Create .basketminer directory if it doesn't exist
	dir := filepath.Join(home, ".basketminer")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create basketminer directory: %w", err)
	}

	return filepath.Join(dir, "basketminer.db"), nil
}
