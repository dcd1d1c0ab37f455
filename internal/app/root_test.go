package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	if RootCmd.Use != "basketminer" {
		t.Errorf("expected Use to be 'basketminer', got '%s'", RootCmd.Use)
	}

	if RootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if RootCmd.Long == "" {
		t.Error("expected Long description to be set")
	}

	if !RootCmd.SilenceUsage || !RootCmd.SilenceErrors {
		t.Error("expected usage and errors to be silenced")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	expectedCommands := []string{"generate", "import", "list", "drop", "mine", "summary", "config"}
	foundCommands := make(map[string]bool)

	for _, cmd := range RootCmd.Commands() {
		foundCommands[cmd.Name()] = true
	}

	for _, expected := range expectedCommands {
		if !foundCommands[expected] {
			t.Errorf("expected command '%s' to be registered", expected)
		}
	}
}

func TestRootCommandHasPersistentFlags(t *testing.T) {
	for _, name := range []string{"db", "config-dir", "verbose"} {
		flag := RootCmd.PersistentFlags().Lookup(name)
		if flag == nil {
			t.Errorf("expected --%s flag to be registered", name)
			continue
		}
		if flag.Usage == "" {
			t.Errorf("expected --%s flag to have usage text", name)
		}
	}
}

func TestGetDBPath(t *testing.T) {
	tests := []struct {
		name       string
		dbPathFlag string
		want       string
	}{
		{
			name:       "default path",
			dbPathFlag: "",
			want:       filepath.Join(".basketminer", "basketminer.db"),
		},
		{
			name:       "custom path",
			dbPathFlag: "/tmp/test.db",
			want:       "/tmp/test.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())

			oldDBPath := dbPath
			dbPath = tt.dbPathFlag
			defer func() { dbPath = oldDBPath }()

			path, err := getDBPath()
			if err != nil {
				t.Fatalf("getDBPath() error = %v", err)
			}
			if !strings.HasSuffix(path, tt.want) {
				t.Errorf("getDBPath() = %q, want suffix %q", path, tt.want)
			}
		})
	}
}

func TestGetDBPath_CreatesDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	oldDBPath := dbPath
	dbPath = ""
	defer func() { dbPath = oldDBPath }()

	if _, err := getDBPath(); err != nil {
		t.Fatalf("getDBPath() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".basketminer")); err != nil {
		t.Errorf("expected ~/.basketminer to be created: %v", err)
	}
}

func TestRootCommand_NoArgs(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t)
	if !strings.Contains(out, "basketminer generate --import") {
		t.Errorf("fresh install should suggest generate, got:\n%s", out)
	}
}

func TestRootCommand_BadConfig(t *testing.T) {
	env := newTestEnv(t)
	if err := os.MkdirAll(env.configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(env.configDir, "config.yaml"), []byte("min_confidence: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := env.run(t, "list"); err == nil {
		t.Error("expected an invalid config file to fail the command")
	}

	// config init --force can still replace the broken file
	out := env.mustRun(t, "config", "init", "--force")
	if !strings.Contains(out, "Wrote") {
		t.Errorf("config init output = %q", out)
	}
	env.mustRun(t, "config", "show")
}
