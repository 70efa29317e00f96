package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Import statuses, in lifecycle order.
const (
	ImportQueued     = "queued"
	ImportProcessing = "processing"
	ImportCompleted  = "completed"
	ImportError      = "error"
)

// Import is one uploaded demo file's processing record.
type Import struct {
	ID        uuid.UUID  `json:"id"`
	Filename  string     `json:"filename"`
	Status    string     `json:"status"`
	Message   string     `json:"message,omitempty"`
	MatchID   *uuid.UUID `json:"matchId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ImportStore persists import records.
type ImportStore struct {
	pool *pgxpool.Pool
}

// NewImportStore builds an ImportStore over the shared pool.
func NewImportStore(pool *pgxpool.Pool) *ImportStore {
	return &ImportStore{pool: pool}
}

// Create records a freshly queued upload and returns its id.
func (s *ImportStore) Create(ctx context.Context, filename string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO imports (id, filename, status) VALUES ($1, $2, $3)`,
		id, filename, ImportQueued)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create import for %q: %w", filename, err)
	}
	return id, nil
}

// MarkProcessing flips an import to the processing state.
func (s *ImportStore) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, ImportProcessing, "", nil)
}

// MarkCompleted records a successful import and the match it produced.
// matchID may be nil for non-final parts of a multi-part upload.
func (s *ImportStore) MarkCompleted(ctx context.Context, id uuid.UUID, matchID *uuid.UUID, message string) error {
	return s.setStatus(ctx, id, ImportCompleted, message, matchID)
}

// MarkError records a failed import with a human-readable reason.
func (s *ImportStore) MarkError(ctx context.Context, id uuid.UUID, message string) error {
	return s.setStatus(ctx, id, ImportError, message, nil)
}

func (s *ImportStore) setStatus(ctx context.Context, id uuid.UUID, status, message string, matchID *uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE imports SET status = $1, message = $2, match_id = COALESCE($3, match_id), updated_at = now()
		 WHERE id = $4`,
		status, message, matchID, id)
	if err != nil {
		return fmt.Errorf("update import %s to %s: %w", id, status, err)
	}
	return nil
}

// Recent returns the latest import records, newest first.
func (s *ImportStore) Recent(ctx context.Context, limit int) ([]Import, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, filename, status, message, match_id, created_at, updated_at
		 FROM imports ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	var imports []Import
	for rows.Next() {
		var imp Import
		if err := rows.Scan(&imp.ID, &imp.Filename, &imp.Status, &imp.Message, &imp.MatchID, &imp.CreatedAt, &imp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		imports = append(imports, imp)
	}
	return imports, rows.Err()
}
