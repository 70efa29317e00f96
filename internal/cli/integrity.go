package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"demodash/internal/config"
	"demodash/internal/db"
)

var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "List matches whose round data is missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd.Context())
	},
}

func runIntegrity(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pool, err := db.NewPool(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	matches, err := db.NewMatchStore(pool).MatchesMissingRounds(ctx)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("all matches have round data")
		return nil
	}

	t := newTable()
	t.Header("ID", "DATE", "MAP", "TEAM A", "TEAM B", "UPLOADED")
	for _, m := range matches {
		t.Append(
			m.ID.String(),
			m.Date,
			m.MapName,
			m.TeamA.Name,
			m.TeamB.Name,
			m.UploadedAt.Format("2006-01-02 15:04"),
		)
	}
	t.Render()
	return nil
}
