// Package ingest turns uploaded demo files into stored matches: it queues
// import jobs, runs the parser, combines multi-part recordings, rejects
// duplicates, and writes the result.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

// Job is one queued demo file. Multi-part uploads carry the group base and
// part position so the consumer knows when a group is complete; standalone
// files have TotalParts 1.
type Job struct {
	ImportID   uuid.UUID `json:"import_id"`
	Path       string    `json:"path"`
	Filename   string    `json:"filename"`
	PartBase   string    `json:"part_base"`
	PartNumber int       `json:"part_number"`
	TotalParts int       `json:"total_parts"`
}

// ImportRegistrar records queued uploads.
type ImportRegistrar interface {
	Create(ctx context.Context, filename string) (uuid.UUID, error)
}

// JobQueue enqueues serialized jobs.
type JobQueue interface {
	Enqueue(ctx context.Context, payload []byte) error
}

// QueuedFile reports one enqueued upload back to the caller.
type QueuedFile struct {
	ImportID uuid.UUID `json:"importId"`
	Filename string    `json:"filename"`
	Parts    int       `json:"parts"`
}

// EnqueueGroup registers and enqueues every file of one upload group. paths
// must align with the group's sorted part order. Job order on the queue
// matches part order, which the single consumer relies on.
func EnqueueGroup(ctx context.Context, imports ImportRegistrar, q JobQueue, base string, paths, filenames []string) ([]QueuedFile, error) {
	if len(paths) != len(filenames) {
		return nil, fmt.Errorf("paths and filenames length mismatch: %d vs %d", len(paths), len(filenames))
	}

	var queued []QueuedFile
	for i, p := range paths {
		name := filenames[i]
		if name == "" {
			name = filepath.Base(p)
		}
		importID, err := imports.Create(ctx, name)
		if err != nil {
			return queued, fmt.Errorf("register import for %q: %w", name, err)
		}
		job := Job{
			ImportID:   importID,
			Path:       p,
			Filename:   name,
			PartBase:   base,
			PartNumber: i + 1,
			TotalParts: len(paths),
		}
		payload, err := json.Marshal(job)
		if err != nil {
			return queued, fmt.Errorf("marshal job for %q: %w", name, err)
		}
		if err := q.Enqueue(ctx, payload); err != nil {
			return queued, fmt.Errorf("enqueue %q: %w", name, err)
		}
		queued = append(queued, QueuedFile{ImportID: importID, Filename: name, Parts: len(paths)})
	}
	return queued, nil
}
