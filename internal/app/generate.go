package app

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketminer/internal/datagen"
	"github.com/blackwell-systems/basketminer/internal/transactions"
)

var (
	generateOut          string
	generateTransactions int
	generateImport       bool
	generateStores       []string

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Write the sample retailer transaction files",
		Long: `Write deterministic sample transaction files for five retailers:
Amazon, BestBuy, Walmart, Target and Costco.

Each file is <Store>_transactions.csv with a TransactionID and an Items
column. The same transaction count always produces the same files.

With --import the generated databases are also stored in the catalogue so
they can be mined by name.`,
		Example: `  # Write the five CSV files to ./data
  basketminer generate --out data

  # Larger databases, stored in the catalogue
  basketminer generate --transactions 200 --import

  # Only two stores
  basketminer generate --store Amazon --store Costco`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}
)

func init() {
	generateCmd.Flags().StringVar(&generateOut, "out", ".", "output directory")
	generateCmd.Flags().IntVarP(&generateTransactions, "transactions", "n", datagen.DefaultTransactions, "transactions per store")
	generateCmd.Flags().BoolVar(&generateImport, "import", false, "store the generated databases in the catalogue")
	generateCmd.Flags().StringSliceVar(&generateStores, "store", nil, "generate only the named store (repeatable)")

	RootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if generateTransactions <= 0 {
		return fmt.Errorf("invalid transactions: %d (must be positive)", generateTransactions)
	}

	stores, err := selectStores(generateStores)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	paths := make([]string, 0, len(stores))
	for _, s := range stores {
		path, err := s.WriteCSV(generateOut, generateTransactions)
		if err != nil {
			return err
		}
		slog.Debug("generated transactions", "store", s.Name, "path", path, "count", generateTransactions)
		fmt.Fprintf(out, "Generated %s (%d transactions)\n", path, generateTransactions)
		paths = append(paths, path)
	}

	if !generateImport {
		return nil
	}

	st, err := openStore(true)
	if err != nil {
		return err
	}
	defer st.Close()

	for i, s := range stores {
		// Re-read the file so the catalogue holds exactly what was written.
		db, err := transactions.LoadCSVFile(paths[i])
		if err != nil {
			return err
		}
		info, err := st.SaveDatabase(db, paths[i])
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", s.Name, err)
		}
		fmt.Fprintf(out, "Imported %s: %d transactions, %d unique items\n",
			info.Name, info.TransactionCount, info.ItemCount)
	}

	return nil
}

// selectStores resolves --store names; no names selects every store.
func selectStores(names []string) ([]datagen.Store, error) {
	if len(names) == 0 {
		return datagen.Stores(), nil
	}

	stores := make([]datagen.Store, 0, len(names))
	for _, name := range names {
		s, ok := datagen.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown store %q", name)
		}
		stores = append(stores, s)
	}
	return stores, nil
}
