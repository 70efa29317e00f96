package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"demodash/internal/match"
)

type fakeStore struct {
	matches   []match.Match
	insertErr error
}

func (s *fakeStore) GetAllMatches(ctx context.Context) ([]match.Match, error) {
	return s.matches, nil
}

func (s *fakeStore) InsertMatch(ctx context.Context, m match.Match) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.matches = append(s.matches, m)
	return nil
}

type fakeImportLog struct {
	status  map[uuid.UUID]string
	message map[uuid.UUID]string
}

func newFakeImportLog() *fakeImportLog {
	return &fakeImportLog{status: map[uuid.UUID]string{}, message: map[uuid.UUID]string{}}
}

func (l *fakeImportLog) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	l.status[id] = "processing"
	return nil
}

func (l *fakeImportLog) MarkCompleted(ctx context.Context, id uuid.UUID, matchID *uuid.UUID, msg string) error {
	l.status[id] = "completed"
	l.message[id] = msg
	return nil
}

func (l *fakeImportLog) MarkError(ctx context.Context, id uuid.UUID, msg string) error {
	l.status[id] = "error"
	l.message[id] = msg
	return nil
}

// fakeParser returns canned results keyed by demo path.
type fakeParser struct {
	results map[string]match.Match
	errs    map[string]error
}

func (p *fakeParser) Parse(ctx context.Context, demoPath string) (match.Match, error) {
	if err := p.errs[demoPath]; err != nil {
		return match.Match{}, err
	}
	return p.results[demoPath], nil
}

func parsedMatch(teamA, teamB string, rounds int) match.Match {
	m := match.Match{
		ID:      uuid.New(),
		MapName: "Mirage",
		Date:    "2025-03-01",
		TeamA:   match.Team{Name: teamA, StartingSide: match.SideCT},
		TeamB:   match.Team{Name: teamB, StartingSide: match.SideT},
	}
	for n := 1; n <= rounds; n++ {
		m.Rounds = append(m.Rounds, match.Round{
			Number: n, WinnerSide: match.SideCT, EndReason: match.EndTerroristsEliminated,
		})
	}
	m.TeamA.Score, m.TeamB.Score = m.DerivedScores()
	return m
}

func payloadFor(t *testing.T, job Job) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestProcessorSingleFile(t *testing.T) {
	store := &fakeStore{}
	log := newFakeImportLog()
	parser := &fakeParser{results: map[string]match.Match{"/tmp/one.dem": parsedMatch("alpha", "bravo", 5)}}
	p := NewProcessor(context.Background(), store, log, parser)

	id := uuid.New()
	job := Job{ImportID: id, Path: "/tmp/one.dem", Filename: "one.dem", PartBase: "one.dem", PartNumber: 1, TotalParts: 1}
	if err := p.Handle(payloadFor(t, job)); err != nil {
		t.Fatal(err)
	}

	if len(store.matches) != 1 {
		t.Fatalf("stored %d matches, want 1", len(store.matches))
	}
	if log.status[id] != "completed" {
		t.Fatalf("import status = %q (%s), want completed", log.status[id], log.message[id])
	}
	if log.message[id] != "saved with 5 rounds" {
		t.Errorf("message = %q", log.message[id])
	}
}

func TestProcessorParseFailureIsTerminal(t *testing.T) {
	store := &fakeStore{}
	log := newFakeImportLog()
	parser := &fakeParser{errs: map[string]error{"/tmp/bad.dem": errors.New("corrupt header")}}
	p := NewProcessor(context.Background(), store, log, parser)

	id := uuid.New()
	job := Job{ImportID: id, Path: "/tmp/bad.dem", Filename: "bad.dem", PartBase: "bad.dem", PartNumber: 1, TotalParts: 1}
	// A parse failure is recorded on the import, not surfaced as a handler
	// error, so the queue never retries it.
	if err := p.Handle(payloadFor(t, job)); err != nil {
		t.Fatalf("Handle returned %v, want nil for terminal parse failure", err)
	}
	if log.status[id] != "error" {
		t.Fatalf("import status = %q, want error", log.status[id])
	}
	if len(store.matches) != 0 {
		t.Fatal("failed parse produced a stored match")
	}
}

func TestProcessorMalformedPayload(t *testing.T) {
	p := NewProcessor(context.Background(), &fakeStore{}, newFakeImportLog(), &fakeParser{})
	if err := p.Handle([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestProcessorDuplicateRejected(t *testing.T) {
	store := &fakeStore{matches: []match.Match{parsedMatch("alpha", "bravo", 5)}}
	log := newFakeImportLog()
	// Same pairing with teams swapped and recased.
	parser := &fakeParser{results: map[string]match.Match{"/tmp/dup.dem": parsedMatch("BRAVO", "Alpha", 7)}}
	p := NewProcessor(context.Background(), store, log, parser)

	id := uuid.New()
	job := Job{ImportID: id, Path: "/tmp/dup.dem", Filename: "dup.dem", PartBase: "dup.dem", PartNumber: 1, TotalParts: 1}
	if err := p.Handle(payloadFor(t, job)); err != nil {
		t.Fatal(err)
	}
	if log.status[id] != "error" {
		t.Fatalf("import status = %q, want error", log.status[id])
	}
	if len(store.matches) != 1 {
		t.Fatalf("stored %d matches, want the original 1 only", len(store.matches))
	}
}

func TestProcessorMultiPartCombines(t *testing.T) {
	store := &fakeStore{}
	log := newFakeImportLog()
	parser := &fakeParser{results: map[string]match.Match{
		"/tmp/final-p1.dem": parsedMatch("alpha", "bravo", 12),
		"/tmp/final-p2.dem": parsedMatch("alpha", "bravo", 10),
	}}
	p := NewProcessor(context.Background(), store, log, parser)

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	for i, path := range []string{"/tmp/final-p1.dem", "/tmp/final-p2.dem"} {
		job := Job{
			ImportID: ids[i], Path: path, Filename: fmt.Sprintf("final-p%d.dem", i+1),
			PartBase: "final", PartNumber: i + 1, TotalParts: 2,
		}
		if err := p.Handle(payloadFor(t, job)); err != nil {
			t.Fatal(err)
		}
	}

	if len(store.matches) != 1 {
		t.Fatalf("stored %d matches, want 1 combined", len(store.matches))
	}
	combined := store.matches[0]
	if len(combined.Rounds) != 22 {
		t.Fatalf("combined rounds = %d, want 22", len(combined.Rounds))
	}
	for i, r := range combined.Rounds {
		if r.Number != i+1 {
			t.Fatalf("round %d numbered %d, want renumbered from 1", i, r.Number)
		}
	}
	for _, id := range ids {
		if log.status[id] != "completed" {
			t.Errorf("import %s status = %q, want completed", id, log.status[id])
		}
	}
}

func TestProcessorMultiPartFailurePoisonsGroup(t *testing.T) {
	store := &fakeStore{}
	log := newFakeImportLog()
	parser := &fakeParser{
		results: map[string]match.Match{"/tmp/semi-p2.dem": parsedMatch("alpha", "bravo", 10)},
		errs:    map[string]error{"/tmp/semi-p1.dem": errors.New("truncated")},
	}
	p := NewProcessor(context.Background(), store, log, parser)

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	for i, path := range []string{"/tmp/semi-p1.dem", "/tmp/semi-p2.dem"} {
		job := Job{
			ImportID: ids[i], Path: path, Filename: fmt.Sprintf("semi-p%d.dem", i+1),
			PartBase: "semi", PartNumber: i + 1, TotalParts: 2,
		}
		if err := p.Handle(payloadFor(t, job)); err != nil {
			t.Fatal(err)
		}
	}

	if len(store.matches) != 0 {
		t.Fatalf("stored %d matches, want 0 for a poisoned group", len(store.matches))
	}
	for _, id := range ids {
		if log.status[id] != "error" {
			t.Errorf("import %s status = %q, want error", id, log.status[id])
		}
	}
}
