package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shipmatehq/shipmate/internal/api"
	"github.com/shipmatehq/shipmate/internal/config"
	"github.com/shipmatehq/shipmate/internal/migrate"
	"github.com/shipmatehq/shipmate/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "shipmate",
	Short: "Carrier glue app for the store platform",
	Long:  "shipmate handles the platform's OAuth install flow and serves the shipping connection and rate-quote endpoints called at checkout.",
	Run:   runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Run:   runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations for persistent backends",
	RunE:  runMigrate,
}

var migrateDown bool

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back the most recent migration")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := config.FromEnv()
	ctx := context.Background()

	if isTruthy(os.Getenv("SHIPMATE_AUTO_MIGRATE")) && cfg.DBDriver != "memory" {
		if err := migrate.Up(ctx, cfg.DBDriver, cfg.DBDSN); err != nil {
			log.Printf("auto-migration failed: %v", err)
		}
	}

	st, err := storage.Open(ctx, storage.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	if err != nil {
		log.Fatalf("storage open failed (driver=%s): %v", cfg.DBDriver, err)
	}
	defer st.Close()

	mux := api.NewMux(cfg, st)

	addr := ":" + cfg.Port
	log.Printf("shipmate listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	ctx := cmd.Context()

	if cfg.DBDriver == "memory" {
		log.Printf("migrate: memory backend needs no migrations")
		return nil
	}
	if migrateDown {
		return migrate.Down(ctx, cfg.DBDriver, cfg.DBDSN)
	}
	return migrate.Up(ctx, cfg.DBDriver, cfg.DBDSN)
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
