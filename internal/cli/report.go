package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"demodash/internal/config"
	"demodash/internal/db"
	"demodash/internal/report"
)

var (
	reportOut       string
	reportMapFilter string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the aggregated statistics as an HTML chart page",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.Context())
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportOut, "out", "report.html", "output file")
	reportCmd.Flags().StringVar(&reportMapFilter, "map", "", "only matches on this map")
}

func runReport(ctx context.Context) error {
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
	if err := report.Write(matches, reportMapFilter, reportOut); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d matches)\n", reportOut, len(matches))
	return nil
}
