package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"demodash/internal/combine"
	"demodash/internal/config"
	"demodash/internal/db"
	"demodash/internal/ingest"
	"demodash/internal/logging"
	"demodash/internal/queue"
)

var importCmd = &cobra.Command{
	Use:   "import <demo.dem> [more.dem ...]",
	Short: "Queue local demo files for import",
	Long: "Copies the given .dem files into the upload directory and queues " +
		"them for the import worker. Files named <base>-p<n>.dem are grouped " +
		"and combined into one match.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context(), args)
	},
}

func runImport(ctx context.Context, paths []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.SetLevel(cfg.LogLevel)
	if err := cfg.RequireRedis(); err != nil {
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

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("prepare upload directory: %w", err)
	}

	byName := make(map[string]string, len(paths))
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		name := filepath.Base(p)
		byName[name] = p
		names = append(names, name)
	}

	importStore := db.NewImportStore(pool)
	q := queue.NewRedisQueue(redisClient, cfg.RedisQueue)

	for _, group := range combine.GroupParts(names) {
		staged := make([]string, 0, len(group.Files))
		for _, name := range group.Files {
			dst, err := stageFile(byName[name], cfg.UploadDir)
			if err != nil {
				return err
			}
			staged = append(staged, dst)
		}
		queued, err := ingest.EnqueueGroup(ctx, importStore, q, group.Base, staged, group.Files)
		for _, qf := range queued {
			fmt.Printf("queued %s (import %s, %d part(s))\n", qf.Filename, qf.ImportID, qf.Parts)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// stageFile copies src into the upload directory under a unique name so the
// worker can delete it after processing without touching the original.
func stageFile(src, uploadDir string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	dst := filepath.Join(uploadDir, uuid.NewString()+".dem")
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", src, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("stage %s: %w", src, err)
	}
	return dst, nil
}
