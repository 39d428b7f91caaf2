package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mossline/stashtrack/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "stashtrack",
	Short: "Personal cannabis consumption tracking and forecasting",
	Long:  "Stashtrack logs consumption sessions, tracks stash inventory, and derives dose, tolerance, and depletion analytics. Single Go binary.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(stashCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(strainsCmd)
}

// newLogger builds the console logger used by CLI commands and the server.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}

// openDB is a helper that opens the database for CLI commands.
func openDB() (*store.DB, error) {
	dbPath := os.Getenv("STASHTRACK_DB")
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(dbPath)
}
