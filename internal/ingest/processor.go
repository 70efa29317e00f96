package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"demodash/internal/combine"
	"demodash/internal/logging"
	"demodash/internal/match"
)

// Store is the persistence surface the processor needs.
type Store interface {
	GetAllMatches(ctx context.Context) ([]match.Match, error)
	InsertMatch(ctx context.Context, m match.Match) error
}

// ImportLog tracks per-file import status.
type ImportLog interface {
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID, matchID *uuid.UUID, message string) error
	MarkError(ctx context.Context, id uuid.UUID, message string) error
}

// DemoParser parses one demo file into a match.
type DemoParser interface {
	Parse(ctx context.Context, demoPath string) (match.Match, error)
}

// partSet accumulates the parsed parts of one multi-part group between jobs.
// The queue is consumed by a single goroutine, so no locking is needed.
type partSet struct {
	total     int
	parts     []match.Match
	importIDs []uuid.UUID
	received  int
	failed    bool
}

// Processor consumes import jobs one at a time. Parse failures mark the
// import as errored and are never retried; a failed part poisons its whole
// multi-part group.
type Processor struct {
	ctx     context.Context
	store   Store
	imports ImportLog
	parser  DemoParser
	pending map[string]*partSet
}

// NewProcessor builds a Processor bound to ctx for its database work.
func NewProcessor(ctx context.Context, store Store, imports ImportLog, parser DemoParser) *Processor {
	return &Processor{
		ctx:     ctx,
		store:   store,
		imports: imports,
		parser:  parser,
		pending: make(map[string]*partSet),
	}
}

// Handle processes a single import job from the queue.
func (p *Processor) Handle(payload []byte) error {
	logger := logging.Logger()
	startTime := time.Now()

	var job Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("unmarshal import job: %w", err)
	}

	logger.Infof("processing import %s (%s, part %d/%d)", job.ImportID, job.Filename, job.PartNumber, job.TotalParts)

	if err := p.imports.MarkProcessing(p.ctx, job.ImportID); err != nil {
		logger.Warnf("mark processing failed for %s: %v", job.ImportID, err)
	}

	parsed, parseErr := p.parser.Parse(p.ctx, job.Path)
	if err := os.Remove(job.Path); err != nil && !os.IsNotExist(err) {
		logger.Warnf("remove uploaded file %s: %v", job.Path, err)
	}

	if job.TotalParts <= 1 {
		if parseErr != nil {
			p.fail(job.ImportID, fmt.Sprintf("parse failed: %v", parseErr))
			return nil
		}
		p.finalize([]uuid.UUID{job.ImportID}, []match.Match{parsed})
	} else {
		p.handlePart(job, parsed, parseErr)
	}

	logger.Infof("import %s done in %v", job.ImportID, time.Since(startTime))
	return nil
}

// handlePart folds one part into its group and finalizes on the last part.
func (p *Processor) handlePart(job Job, parsed match.Match, parseErr error) {
	set := p.pending[job.PartBase]
	if set == nil {
		set = &partSet{total: job.TotalParts}
		p.pending[job.PartBase] = set
	}
	set.received++
	set.importIDs = append(set.importIDs, job.ImportID)

	switch {
	case parseErr != nil:
		set.failed = true
		p.fail(job.ImportID, fmt.Sprintf("parse failed: %v", parseErr))
	case set.failed:
		p.fail(job.ImportID, "discarded: another part of this upload failed to parse")
	default:
		set.parts = append(set.parts, parsed)
		if set.received < set.total {
			p.complete(job.ImportID, nil, fmt.Sprintf("part %d/%d processed", job.PartNumber, job.TotalParts))
		}
	}

	if set.received < set.total {
		return
	}
	delete(p.pending, job.PartBase)
	if set.failed {
		return
	}
	p.finalize(set.importIDs, set.parts)
}

// finalize combines the parts, runs duplicate detection against the stored
// matches, and inserts the result.
func (p *Processor) finalize(importIDs []uuid.UUID, parts []match.Match) {
	res, err := combine.Combine(parts)
	if err != nil {
		p.failAll(importIDs, fmt.Sprintf("combine failed: %v", err))
		return
	}
	m := res.Match
	m.UploadedAt = time.Now().UTC()

	existing, err := p.store.GetAllMatches(p.ctx)
	if err != nil {
		p.failAll(importIDs, fmt.Sprintf("load existing matches: %v", err))
		return
	}
	if IsDuplicate(existing, m) {
		p.failAll(importIDs, fmt.Errorf("%w: %s vs %s on %s (%s) already imported",
			ErrDuplicateMatch, m.TeamA.Name, m.TeamB.Name, m.MapName, m.Date).Error())
		return
	}

	if err := p.store.InsertMatch(p.ctx, m); err != nil {
		p.failAll(importIDs, fmt.Sprintf("save match: %v", err))
		return
	}

	msg := fmt.Sprintf("saved with %d rounds", len(m.Rounds))
	for _, id := range importIDs {
		p.complete(id, &m.ID, msg)
	}
}

func (p *Processor) complete(id uuid.UUID, matchID *uuid.UUID, msg string) {
	if err := p.imports.MarkCompleted(p.ctx, id, matchID, msg); err != nil {
		logging.Logger().Warnf("mark completed failed for %s: %v", id, err)
	}
}

func (p *Processor) fail(id uuid.UUID, msg string) {
	logging.Logger().Warnf("import %s failed: %s", id, msg)
	if err := p.imports.MarkError(p.ctx, id, msg); err != nil {
		logging.Logger().Warnf("mark error failed for %s: %v", id, err)
	}
}

func (p *Processor) failAll(ids []uuid.UUID, msg string) {
	for _, id := range ids {
		p.fail(id, msg)
	}
}
