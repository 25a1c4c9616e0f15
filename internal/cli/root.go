// Package cli implements the product-support CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rcliao/product-support/internal/catalog"
	"github.com/rcliao/product-support/internal/config"
	"github.com/rcliao/product-support/internal/logger"
	"github.com/rcliao/product-support/internal/store"
)

var (
	configPath string
	csvPath    string
	rowLimit   int
	dbPath     string
	logLevel   string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "product-support",
	Short: "Product catalog and customer-support agents",
	Long: "Answers product questions over a CSV product dataset whose columns are detected " +
		"automatically, and serves the catalog and support agents over A2A.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (json, yaml or toml)")
	RootCmd.PersistentFlags().StringVar(&csvPath, "csv", "", "Dataset path (default: $DATA_CSV_PATH or data/DatafinitiElectronicsProductsPricingData.csv)")
	RootCmd.PersistentFlags().IntVar(&rowLimit, "limit", 0, "Number of dataset rows to load (default 2000)")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Session database path (default: $PRODUCT_SUPPORT_DB or ~/.product-support/sessions.db)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
}

// loadConfig reads configuration and applies persistent flag overrides.
func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitErr("load config", err)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		exitErr("load config", err)
	}
	return cfg
}

func applyFlags(cfg *config.Config) {
	if csvPath != "" {
		cfg.Data.CSVPath = csvPath
	}
	if rowLimit > 0 {
		cfg.Data.RowLimit = rowLimit
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
}

func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.Store.Path)
}

func openCatalog(cfg *config.Config, log zerolog.Logger) *catalog.Holder {
	h, err := catalog.NewHolder(cfg.Data.CSVPath, cfg.Data.RowLimit, log)
	if err != nil {
		exitErr("load dataset", err)
	}
	return h
}

func printJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
