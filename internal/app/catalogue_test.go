package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/basketminer/internal/store"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

const exampleCSV = `TransactionID,Items
T1,"A, B"
T2,"A, B, C"
T3,A
T4,"B, C"
`

func TestImportCommand_NameFromFile(t *testing.T) {
	env := newTestEnv(t)
	path := writeCSV(t, env.dir, "Groceries_transactions.csv", exampleCSV)

	out := env.mustRun(t, "import", path)
	if !strings.Contains(out, "Imported Groceries: 4 transactions, 3 unique items") {
		t.Errorf("unexpected import output: %q", out)
	}
}

func TestImportCommand_ExplicitNameReplaces(t *testing.T) {
	env := newTestEnv(t)
	path := writeCSV(t, env.dir, "baskets.csv", exampleCSV)

	env.mustRun(t, "import", "weekly", path)
	smaller := writeCSV(t, env.dir, "smaller.csv", "Items\nX\n")
	out := env.mustRun(t, "import", "weekly", smaller)
	if !strings.Contains(out, "Imported weekly: 1 transaction, 1 unique item") {
		t.Errorf("unexpected import output: %q", out)
	}

	list := env.mustRun(t, "list")
	if strings.Count(list, "weekly") != 1 {
		t.Errorf("expected a single weekly entry:\n%s", list)
	}
}

func TestImportCommand_Errors(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.run(t, "import"); err == nil {
		t.Error("expected error with no arguments")
	}
	if _, err := env.run(t, "import", filepath.Join(env.dir, "missing.csv")); err == nil {
		t.Error("expected error for a missing file")
	}
	bad := writeCSV(t, env.dir, "bad.csv", "TransactionID,Products\nT1,A\n")
	if _, err := env.run(t, "import", bad); err == nil {
		t.Error("expected error for a file without an Items column")
	}
}

func TestListCommand_Uninitialized(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "list")
	if !errors.Is(err, store.ErrNotInitialized) {
		t.Errorf("list error = %v, want ErrNotInitialized", err)
	}
}

func TestListCommand_Empty(t *testing.T) {
	env := newTestEnv(t)
	path := writeCSV(t, env.dir, "only.csv", exampleCSV)
	env.mustRun(t, "import", path)
	env.mustRun(t, "drop", "only")

	out := env.mustRun(t, "list")
	if !strings.Contains(out, "No transaction databases found") {
		t.Errorf("expected empty catalogue message, got:\n%s", out)
	}
}

func TestDropCommand(t *testing.T) {
	env := newTestEnv(t)
	path := writeCSV(t, env.dir, "Groceries_transactions.csv", exampleCSV)
	env.mustRun(t, "import", path)

	out := env.mustRun(t, "drop", "Groceries")
	if !strings.Contains(out, "Dropped Groceries") {
		t.Errorf("unexpected drop output: %q", out)
	}

	_, err := env.run(t, "drop", "Groceries")
	if err == nil || !strings.Contains(err.Error(), "no database named") {
		t.Errorf("second drop error = %v, want not-found message", err)
	}
}
