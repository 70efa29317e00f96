package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"demodash/internal/config"
	"demodash/internal/db"
	"demodash/internal/ingest"
	"demodash/internal/logging"
	"demodash/internal/parser"
	"demodash/internal/queue"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the import consumer without the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorker()
	},
}

func runWorker() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.SetLevel(cfg.LogLevel)

	if err := cfg.RequireRedis(); err != nil {
		return err
	}
	if err := cfg.RequireParser(); err != nil {
		return err
	}

	if err := db.Migrate(cfg.DBURL); err != nil {
		return err
	}

	pool, err := db.NewPool(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	matchStore := db.NewMatchStore(pool)
	importStore := db.NewImportStore(pool)
	demoParser := parser.New(cfg.ParserBin, cfg.ParserScript)

	q := queue.NewRedisQueue(redisClient, cfg.RedisQueue)
	proc := ingest.NewProcessor(ctx, matchStore, importStore, demoParser)

	logging.Logger().Infof("import worker consuming %s", cfg.RedisQueue)
	err = q.Consume(ctx, proc.Handle)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
