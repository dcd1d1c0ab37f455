package app

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag of cmd and its subcommands to its default
// so package-level flag variables do not leak between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// testEnv points the catalogue and config directory at a temp dir.
type testEnv struct {
	dir       string
	db        string
	configDir string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	return testEnv{
		dir:       dir,
		db:        filepath.Join(dir, "basketminer.db"),
		configDir: filepath.Join(dir, "config"),
	}
}

// run executes the root command with args plus the env's --db and
// --config-dir, returning stdout.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(RootCmd)
	t.Cleanup(func() { resetFlags(RootCmd) })

	var stdout, stderr bytes.Buffer
	RootCmd.SetOut(&stdout)
	RootCmd.SetErr(&stderr)
	RootCmd.SetArgs(append([]string{"--db", e.db, "--config-dir", e.configDir}, args...))
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})

	err := RootCmd.Execute()
	return stdout.String(), err
}

// mustRun is run that fails the test on error.
func (e testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("basketminer %v failed: %v\noutput:\n%s", args, err, out)
	}
	return out
}
