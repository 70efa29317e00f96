package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"demodash/internal/match"
)

// roundInsertChunk bounds the rounds written per batch statement.
const roundInsertChunk = 50

// ErrNotFound is returned when a looked-up match does not exist.
var ErrNotFound = errors.New("db: match not found")

// MatchStore persists matches, teams, and rounds.
type MatchStore struct {
	pool *pgxpool.Pool
}

// NewMatchStore builds a MatchStore over the shared pool.
func NewMatchStore(pool *pgxpool.Pool) *MatchStore {
	return &MatchStore{pool: pool}
}

// InsertMatch writes the match, both teams, and every round in one
// transaction. Rounds go in chunks; after the last chunk the stored count is
// read back and a mismatch aborts the transaction so no partially written
// match survives.
func (s *MatchStore) InsertMatch(ctx context.Context, m match.Match) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin insert match: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO matches (id, map_name, date, tournament, duration, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.MapName, m.Date, m.Tournament, m.Duration, m.UploadedAt)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}

	for slot, t := range []match.Team{m.TeamA, m.TeamB} {
		_, err = tx.Exec(ctx,
			`INSERT INTO teams (id, match_id, slot, name, starting_side, score, logo)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			t.ID, m.ID, slot, t.Name, t.StartingSide, t.Score, t.Logo)
		if err != nil {
			return fmt.Errorf("insert team %q: %w", t.Name, err)
		}
	}

	for start := 0; start < len(m.Rounds); start += roundInsertChunk {
		end := start + roundInsertChunk
		if end > len(m.Rounds) {
			end = len(m.Rounds)
		}
		batch := &pgx.Batch{}
		for _, r := range m.Rounds[start:end] {
			batch.Queue(
				`INSERT INTO rounds (match_id, number, winner_side, end_reason, duration, bomb_planted, total_kills, first_kill_side)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				m.ID, r.Number, r.WinnerSide, r.EndReason, r.Duration, r.BombPlanted, r.TotalKills, r.FirstKillSide)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert rounds %d..%d: %w", start, end, err)
		}
	}

	var stored int
	if err := tx.QueryRow(ctx,
		`SELECT count(*) FROM rounds WHERE match_id = $1`, m.ID).Scan(&stored); err != nil {
		return fmt.Errorf("verify round count: %w", err)
	}
	if stored != len(m.Rounds) {
		return fmt.Errorf("round count mismatch for match %s: stored %d, expected %d", m.ID, stored, len(m.Rounds))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit insert match: %w", err)
	}
	return nil
}

// GetAllMatches loads every match with teams and rounds attached, newest
// upload first.
func (s *MatchStore) GetAllMatches(ctx context.Context) ([]match.Match, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, map_name, date, tournament, duration, uploaded_at
		 FROM matches ORDER BY uploaded_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var matches []match.Match
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var m match.Match
		if err := rows.Scan(&m.ID, &m.MapName, &m.Date, &m.Tournament, &m.Duration, &m.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		index[m.ID] = len(matches)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	if err := s.attachTeams(ctx, matches, index); err != nil {
		return nil, err
	}
	if err := s.attachRounds(ctx, matches, index); err != nil {
		return nil, err
	}
	return matches, nil
}

// GetMatch loads a single match with teams and rounds attached.
func (s *MatchStore) GetMatch(ctx context.Context, id uuid.UUID) (match.Match, error) {
	var m match.Match
	err := s.pool.QueryRow(ctx,
		`SELECT id, map_name, date, tournament, duration, uploaded_at
		 FROM matches WHERE id = $1`, id).
		Scan(&m.ID, &m.MapName, &m.Date, &m.Tournament, &m.Duration, &m.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return match.Match{}, ErrNotFound
	}
	if err != nil {
		return match.Match{}, fmt.Errorf("query match %s: %w", id, err)
	}

	matches := []match.Match{m}
	index := map[uuid.UUID]int{m.ID: 0}
	if err := s.attachTeams(ctx, matches, index); err != nil {
		return match.Match{}, err
	}
	if err := s.attachRounds(ctx, matches, index); err != nil {
		return match.Match{}, err
	}
	return matches[0], nil
}

// DeleteMatch removes a match and its dependent rows.
func (s *MatchStore) DeleteMatch(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete match %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateTeams applies a manual score or side adjustment to a stored match.
func (s *MatchStore) UpdateTeams(ctx context.Context, id uuid.UUID, u match.TeamUpdate) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin team update: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM matches WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check match %s: %w", id, err)
	}
	if !exists {
		return ErrNotFound
	}

	apply := func(slot int, score *int, side *match.Side) error {
		if score != nil {
			if _, err := tx.Exec(ctx,
				`UPDATE teams SET score = $1 WHERE match_id = $2 AND slot = $3`, *score, id, slot); err != nil {
				return fmt.Errorf("update slot %d score: %w", slot, err)
			}
		}
		if side != nil {
			if _, err := tx.Exec(ctx,
				`UPDATE teams SET starting_side = $1 WHERE match_id = $2 AND slot = $3`, *side, id, slot); err != nil {
				return fmt.Errorf("update slot %d side: %w", slot, err)
			}
		}
		return nil
	}
	if err := apply(0, u.TeamAScore, u.TeamASide); err != nil {
		return err
	}
	if err := apply(1, u.TeamBScore, u.TeamBSide); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit team update: %w", err)
	}
	return nil
}

// MatchesMissingRounds lists matches that have no round rows at all, which
// indicates an interrupted import.
func (s *MatchStore) MatchesMissingRounds(ctx context.Context) ([]match.Match, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT m.id, m.map_name, m.date, m.tournament, m.duration, m.uploaded_at
		 FROM matches m
		 WHERE NOT EXISTS (SELECT 1 FROM rounds r WHERE r.match_id = m.id)
		 ORDER BY m.uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query matches missing rounds: %w", err)
	}
	defer rows.Close()

	var matches []match.Match
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var m match.Match
		if err := rows.Scan(&m.ID, &m.MapName, &m.Date, &m.Tournament, &m.Duration, &m.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		index[m.ID] = len(matches)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	if err := s.attachTeams(ctx, matches, index); err != nil {
		return nil, err
	}
	return matches, nil
}

func (s *MatchStore) attachTeams(ctx context.Context, matches []match.Match, index map[uuid.UUID]int) error {
	rows, err := s.pool.Query(ctx,
		`SELECT match_id, slot, id, name, starting_side, score, logo FROM teams`)
	if err != nil {
		return fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			matchID uuid.UUID
			slot    int
			t       match.Team
		)
		if err := rows.Scan(&matchID, &slot, &t.ID, &t.Name, &t.StartingSide, &t.Score, &t.Logo); err != nil {
			return fmt.Errorf("scan team: %w", err)
		}
		i, ok := index[matchID]
		if !ok {
			continue
		}
		if slot == 0 {
			matches[i].TeamA = t
		} else {
			matches[i].TeamB = t
		}
	}
	return rows.Err()
}

func (s *MatchStore) attachRounds(ctx context.Context, matches []match.Match, index map[uuid.UUID]int) error {
	rows, err := s.pool.Query(ctx,
		`SELECT match_id, number, winner_side, end_reason, duration, bomb_planted, total_kills, first_kill_side
		 FROM rounds ORDER BY match_id, number`)
	if err != nil {
		return fmt.Errorf("query rounds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			matchID uuid.UUID
			r       match.Round
		)
		if err := rows.Scan(&matchID, &r.Number, &r.WinnerSide, &r.EndReason, &r.Duration, &r.BombPlanted, &r.TotalKills, &r.FirstKillSide); err != nil {
			return fmt.Errorf("scan round: %w", err)
		}
		i, ok := index[matchID]
		if !ok {
			continue
		}
		matches[i].Rounds = append(matches[i].Rounds, r)
	}
	return rows.Err()
}
