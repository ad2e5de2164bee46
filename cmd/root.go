package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"schoolnet/cohort/internal/config"
	"schoolnet/cohort/internal/db"
	"schoolnet/cohort/internal/logger"
)

const dbFileName = ".cohort.db"

var (
	dbPath     string
	configPath string
	logJSON    bool
	logLevel   string
	verbosity  int

	// cfg is loaded before every command runs
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cohort",
	Short: "Community detection and composition analysis for school friendship networks",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		level := logger.ParseLevel(cfg.Log.Level)
		switch {
		case cmd.Flags().Changed("log-level"):
			level = logger.ParseLevel(logLevel)
		case verbosity > 0:
			level = logger.VerbosityToLevel(verbosity)
		}
		if err := logger.Initialize(logJSON || cfg.Log.JSON, level); err != nil {
			return errors.Wrap(err, "initializing logger")
		}
		if cfg.Source != "" {
			logger.Logger.Debugw("config loaded", logger.FieldPath, cfg.Source)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "hint:", hint)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to "+dbFileName+" database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default: nearest "+config.FileName+")")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
}

// DiscoverDB finds the database path using priority: env > flag > walk-up > XDG fallback.
// With create set, a missing database resolves to the --db path or the working directory.
func DiscoverDB(create bool) (string, error) {
	// 1. Environment variable
	if envPath := os.Getenv("COHORT_DB"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil || create {
			return envPath, nil
		}
	}

	// 2. CLI flag
	if dbPath != "" {
		if _, err := os.Stat(dbPath); err == nil || create {
			return dbPath, nil
		}
		return "", errors.Newf("database not found at --db path: %s", dbPath)
	}

	// 3. Walk up from CWD
	cwd, err := os.Getwd()
	if err == nil {
		dir := cwd
		for {
			candidate := filepath.Join(dir, dbFileName)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	// 4. XDG fallback
	home, err := os.UserHomeDir()
	if err == nil {
		xdgPath := filepath.Join(home, ".local", "share", "cohort", "cohort.db")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	if create && cwd != "" {
		return filepath.Join(cwd, dbFileName), nil
	}
	return "", errors.WithHint(errors.New("no "+dbFileName+" found"),
		"set COHORT_DB, use --db, run from a directory containing "+dbFileName+", or pass input files directly")
}

// OpenDatabase discovers and opens the database
func OpenDatabase(create bool) (*db.DB, error) {
	path, err := DiscoverDB(create)
	if err != nil {
		return nil, err
	}
	logger.Logger.Debugw("opening database", logger.FieldPath, path)
	return db.OpenDB(path)
}
