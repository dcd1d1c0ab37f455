package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketminer/internal/store"
)

var dropCmd = &cobra.Command{
	Use:   "drop NAME",
	Short: "Remove a transaction database from the catalogue",
	Long: `Remove a transaction database and all of its transactions from the
catalogue. The source CSV file is not touched.`,
	Args: cobra.ExactArgs(1),
	RunE: runDrop,
}

func init() {
	RootCmd.AddCommand(dropCmd)
}

func runDrop(cmd *cobra.Command, args []string) error {
	st, err := openStore(false)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteDatabase(args[0]); err != nil {
		if errors.Is(err, store.ErrDatabaseNotFound) {
			return fmt.Errorf("no database named %q (run 'basketminer list' to see stored databases)", args[0])
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Dropped %s\n", args[0])
	return nil
}
