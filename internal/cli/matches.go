package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"demodash/internal/aggregate"
	"demodash/internal/config"
	"demodash/internal/db"
)

var matchesMapFilter string

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List stored matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMatches(cmd.Context())
	},
}

func init() {
	matchesCmd.Flags().StringVar(&matchesMapFilter, "map", "", "only matches on this map")
}

func newTable() *tablewriter.Table {
	return tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

func runMatches(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pool, err := db.NewPool(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	matches, err := db.NewMatchStore(pool).GetAllMatches(ctx)
	if err != nil {
		return err
	}
	if matchesMapFilter != "" {
		matches = aggregate.FilterByMap(matches, matchesMapFilter)
	}
	if len(matches) == 0 {
		fmt.Println("(no matches)")
		return nil
	}

	t := newTable()
	t.Header("ID", "DATE", "MAP", "TEAM A", "TEAM B", "SCORE", "ROUNDS", "WINNER")
	for _, m := range matches {
		winner := m.WinnerName()
		if winner == "" {
			winner = "(tie)"
		}
		t.Append(
			m.ID.String(),
			m.Date,
			m.MapName,
			m.TeamA.Name,
			m.TeamB.Name,
			fmt.Sprintf("%d-%d", m.TeamA.Score, m.TeamB.Score),
			fmt.Sprintf("%d", len(m.Rounds)),
			winner,
		)
	}
	t.Render()
	return nil
}
