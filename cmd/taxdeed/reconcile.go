package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mateuschrist/taxdeed-api/internal/service"
)

func newReconcileCmd() *cobra.Command {
	var (
		county    string
		state     string
		nodesFile string
		dryRun    bool
	)
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Soft-remove listings missing from a complete crawl's node list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			nodes, err := readNodes(nodesFile)
			if err != nil {
				return err
			}
			a, err := bootstrap(cmd, true)
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.reconcile.Reconcile(cmd.Context(), county, state, nodes, service.ReconcileOptions{DryRun: dryRun})
			if err != nil {
				a.logger.Error("reconcile failed", zap.Error(err))
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVar(&county, "county", "", "county (default from config)")
	cmd.Flags().StringVar(&state, "state", "", "state (default from config)")
	cmd.Flags().StringVar(&nodesFile, "nodes-file", "-", "JSON array or one node per line; - reads stdin")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report the removal set without writing")
	return cmd
}

func readNodes(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseNodes(raw)
}

func parseNodes(raw []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var nodes []string
		if err := json.Unmarshal(trimmed, &nodes); err != nil {
			return nil, fmt.Errorf("nodes file: %w", err)
		}
		return nodes, nil
	}
	var nodes []string
	sc := bufio.NewScanner(bytes.NewReader(trimmed))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			nodes = append(nodes, line)
		}
	}
	return nodes, sc.Err()
}
