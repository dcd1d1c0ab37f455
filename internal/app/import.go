package app

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketminer/internal/transactions"
)

var importCmd = &cobra.Command{
	Use:   "import [NAME] FILE.csv",
	Short: "Store a transaction CSV file in the catalogue",
	Long: `Read a transaction CSV file and store it in the catalogue under NAME.

The file needs a header row with an Items column holding the comma-separated
items of each transaction. A TransactionID column is kept when present.

When NAME is omitted it is taken from the file name: Amazon_transactions.csv
is stored as Amazon. Importing an existing name replaces it.`,
	Example: `  # Name taken from the file
  basketminer import data/Amazon_transactions.csv

  # Explicit name
  basketminer import groceries weekly_baskets.csv`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runImport,
}

func init() {
	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	file := args[len(args)-1]
	name := transactions.NameFromPath(file)
	if len(args) == 2 {
		name = args[0]
	}

	loaded, err := transactions.LoadCSVFile(file)
	if err != nil {
		return err
	}
	db := transactions.NewDatabase(name, loaded.Records())

	st, err := openStore(true)
	if err != nil {
		return err
	}
	defer st.Close()

	info, err := st.SaveDatabase(db, file)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", name, err)
	}

	slog.Debug("imported database", "name", info.Name, "id", info.ID, "source", file)
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %d %s, %d unique %s\n",
		info.Name,
		info.TransactionCount, pluralize(info.TransactionCount, "transaction", "transactions"),
		info.ItemCount, pluralize(info.ItemCount, "item", "items"))
	return nil
}
