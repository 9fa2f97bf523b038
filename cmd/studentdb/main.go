package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mahima-jayshri/studentdb/internal/config"
	"github.com/mahima-jayshri/studentdb/internal/database"
	"github.com/mahima-jayshri/studentdb/internal/logging"
	"github.com/mahima-jayshri/studentdb/internal/menu"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	configPath string
	driver     string
	host       string
	port       int
	user       string
	password   string
	dbName     string
	logFile    string
	verbosity  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "studentdb",
		Short:        "Studentdb - Interactive student records manager",
		Long:         `Studentdb keeps student records in MySQL, SQLite or PostgreSQL and manages them through an interactive menu.`,
		RunE:         run,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file (or set STUDENTDB_CONFIG env var)")
	rootCmd.Flags().StringVar(&driver, "driver", "", "Storage engine: mysql, sqlite or postgres")
	rootCmd.Flags().StringVar(&host, "host", "", "Database server host")
	rootCmd.Flags().IntVar(&port, "port", 0, "Database server port")
	rootCmd.Flags().StringVarP(&user, "user", "u", "", "Database user")
	rootCmd.Flags().StringVar(&password, "password", "", "Database password")
	rootCmd.Flags().StringVarP(&dbName, "database", "d", "", "Database name (file path for sqlite)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Log file path")
	rootCmd.Flags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("studentdb %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// Check for STUDENTDB_CONFIG env var if flag not set
	if configPath == "" {
		configPath = os.Getenv("STUDENTDB_CONFIG")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)

	logging.Apply(cfg.Log, verbosity)

	log.Info().
		Str("version", version).
		Str("driver", cfg.Driver).
		Str("database", cfg.Database).
		Msg("Starting studentdb")

	// Graceful shutdown on Ctrl-C: cancel the context so a blocked prompt
	// or statement unwinds, then leave through the normal exit path.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	dbCfg := cfg.DatabaseConfig()
	if len(dbCfg.Credentials) > 0 && term.IsTerminal(int(os.Stdin.Fd())) {
		defaults := database.Credentials{Host: "localhost", Port: cfg.EffectivePort(), User: "root"}
		dbCfg.Prompt = func() (database.Credentials, string, error) {
			return menu.CredentialPrompt(os.Stdin, os.Stdout, defaults, cfg.Database)
		}
	}

	db, err := database.Connect(ctx, dbCfg)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("Interrupted before the database connection was established")
			return nil
		}
		printConnectGuidance()
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	fmt.Println("\nDatabase connection established successfully!")

	if err := menu.New(db, os.Stdin, os.Stdout).Run(ctx); err != nil {
		return err
	}

	// The session context may already be cancelled; give cleanup its own.
	optimizeCtx, optimizeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer optimizeCancel()
	if err := db.Optimize(optimizeCtx); err != nil {
		log.Warn().Err(err).Msg("Failed to optimize database")
	}

	log.Info().Msg("Studentdb stopped")
	return nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("driver") {
		cfg.Driver = driver
	}
	if cmd.Flags().Changed("host") {
		cfg.Host = host
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = port
	}
	if cmd.Flags().Changed("user") {
		cfg.User = user
	}
	if cmd.Flags().Changed("password") {
		cfg.Password = password
	}
	if cmd.Flags().Changed("database") {
		cfg.Database = dbName
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = logFile
	}
}

func printConnectGuidance() {
	fmt.Fprintln(os.Stderr, "\nTroubleshooting tips:")
	fmt.Fprintln(os.Stderr, "1. Check if the database server is running")
	fmt.Fprintln(os.Stderr, "2. Verify username and password")
	fmt.Fprintln(os.Stderr, "3. Check if the database exists: run 'CREATE DATABASE student_db;'")
	fmt.Fprintln(os.Stderr, "4. Try using 'root' as username with empty password")
}
