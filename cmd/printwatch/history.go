package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/bft-labs/printwatch/internal/adapters/sqlite"
	"github.com/bft-labs/printwatch/internal/cliconfig"
	"github.com/bft-labs/printwatch/internal/domain"
	"github.com/bft-labs/printwatch/internal/ports"
)

func newHistoryCmd() *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	limit := 20

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently printed documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, &cfg, cfgPath); err != nil {
				return err
			}
			if cfg.HistoryDB == "" {
				return fmt.Errorf("%w: history-db is not set", domain.ErrConfiguration)
			}
			if !cliconfig.FileExists(cfg.HistoryDB) {
				return fmt.Errorf("%w: history database %s does not exist", domain.ErrConfiguration, cfg.HistoryDB)
			}

			ledger, err := sqlite.Open(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer ledger.Close()

			entries, err := ledger.Recent(context.Background(), limit)
			if err != nil {
				return err
			}
			renderHistory(os.Stdout, entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.printwatch/config.toml)")
	cmd.Flags().StringVar(&cfg.HistoryDB, "history-db", cfg.HistoryDB, "SQLite file written by --history-db")
	cmd.Flags().IntVar(&limit, "limit", limit, "number of rows to show")
	return cmd
}

func renderHistory(w io.Writer, entries []ports.LedgerEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No documents printed yet.")
		return
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.DispatchedAt.Format("2006-01-02 15:04:05"),
			e.Document,
			e.Printer,
			strconv.Itoa(e.ExitCode),
			e.Duration.Round(time.Millisecond).String(),
			e.FinalPath,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PRINTED", "DOCUMENT", "PRINTER", "EXIT", "TOOK", "MOVED TO").
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}
