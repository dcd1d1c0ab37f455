package app

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketminer/internal/config"
)

// settings holds the effective config file settings for the running command.
var settings = config.Defaults()

// newLogger builds the text logger used by every command.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// initRuntime loads the config file and installs the default logger before
// any subcommand runs.
func initRuntime(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		// config init --force must be able to replace a broken file.
		if cmd != configInitCmd {
			return err
		}
		s = config.Defaults()
	}
	settings = s

	level := s.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(newLogger(cmd.ErrOrStderr(), level))

	slog.Debug("configuration loaded",
		"min_support", s.MinSupport,
		"min_confidence", s.MinConfidence,
		"workers", s.Workers,
	)
	return nil
}
