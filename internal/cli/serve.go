package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"demodash/internal/api"
	"demodash/internal/config"
	"demodash/internal/db"
	"demodash/internal/ingest"
	"demodash/internal/logging"
	"demodash/internal/parser"
	"demodash/internal/queue"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the import consumer in one process",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.SetLevel(cfg.LogLevel)
	logger := logging.Logger()

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

	consumerDone := make(chan error, 1)
	go func() {
		consumerDone <- q.Consume(ctx, proc.Handle)
	}()

	uploads := api.NewUploadHandler(cfg.UploadDir, importStore, q)
	server := api.NewServer(cfg, matchStore, importStore, uploads)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.Start()
	}()

	select {
	case err := <-serverDone:
		stop()
		<-consumerDone
		return err
	case <-ctx.Done():
		logger.Infof("shutting down")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Warnf("server shutdown: %v", err)
		}
		<-consumerDone
		return nil
	}
}
