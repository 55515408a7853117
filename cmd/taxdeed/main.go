package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	_ "github.com/mateuschrist/taxdeed-api/docs"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "taxdeed",
		Short:         "Tax-deed listing ingestion and reconciliation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "config file (default $TD_CONFIG or config/config.yaml)")
	root.AddCommand(newServeCmd(), newMigrateCmd(), newReconcileCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	if p := os.Getenv("TD_CONFIG"); p != "" {
		return p
	}
	return "config/config.yaml"
}

func envOnly() bool {
	raw := os.Getenv("TD_ENV_ONLY")
	return strings.EqualFold(raw, "true") || raw == "1"
}
