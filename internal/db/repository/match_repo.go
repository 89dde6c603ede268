package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	sqlcgen "github.com/gokatarajesh/kickoff-quiz/internal/db/sqlc"
)

// ErrMatchNotFound is returned when no match row exists.
var ErrMatchNotFound = errors.New("match not found")

type matchStore interface {
	CreateMatch(ctx context.Context, arg sqlcgen.CreateMatchParams) (sqlcgen.Match, error)
	InsertMatchPlayer(ctx context.Context, arg sqlcgen.InsertMatchPlayerParams) error
	UpdatePlayerRating(ctx context.Context, arg sqlcgen.UpdatePlayerRatingParams) error
	GetMatch(ctx context.Context, matchID pgtype.UUID) (sqlcgen.Match, error)
	GetMatchPlayers(ctx context.Context, matchID pgtype.UUID) ([]sqlcgen.MatchPlayer, error)
}

// PlayerResult is one side of a finished match.
type PlayerResult struct {
	PlayerID     string
	Score        int
	Correct      int
	Incorrect    int
	Unanswered   int
	MaxStreak    int
	RatingBefore float64
	RatingAfter  float64
	Delta        float64
	// Rated players get Delta added to their stored rating.
	Rated bool
}

// MatchRecord is a finished match ready for persistence.
type MatchRecord struct {
	MatchID          uuid.UUID
	Outcome          string
	WinnerID         string
	TerminationMode  string
	TerminationValue int64
	QuestionsAsked   int
	StartedAt        time.Time
	EndedAt          time.Time
	Players          [2]PlayerResult
}

// MatchRepository persists match results and rating changes.
type MatchRepository struct {
	store matchStore
	inTx  func(ctx context.Context, fn func(store matchStore) error) error
}

// NewMatchRepository runs every write directly against store.
func NewMatchRepository(store matchStore) *MatchRepository {
	return &MatchRepository{
		store: store,
		inTx: func(ctx context.Context, fn func(store matchStore) error) error {
			return fn(store)
		},
	}
}

// NewPoolMatchRepository wraps each recorded result in one transaction.
func NewPoolMatchRepository(pool *pgxpool.Pool) *MatchRepository {
	queries := sqlcgen.New(pool)
	return &MatchRepository{
		store: queries,
		inTx: func(ctx context.Context, fn func(store matchStore) error) error {
			return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
				return fn(queries.WithTx(tx))
			})
		},
	}
}

// Record writes the match row, both player rows and, for rated players, the
// rating delta. The delta is applied relative to the stored rating so
// concurrent matches of one player all count.
func (r *MatchRepository) Record(ctx context.Context, rec MatchRecord) error {
	matchID := pgtype.UUID{Bytes: rec.MatchID, Valid: true}
	return r.inTx(ctx, func(store matchStore) error {
		if _, err := store.CreateMatch(ctx, sqlcgen.CreateMatchParams{
			MatchID:          matchID,
			Outcome:          rec.Outcome,
			WinnerID:         pgtype.Text{String: rec.WinnerID, Valid: rec.WinnerID != ""},
			TerminationMode:  rec.TerminationMode,
			TerminationValue: rec.TerminationValue,
			QuestionsAsked:   int32(rec.QuestionsAsked),
			StartedAt:        pgtype.Timestamptz{Time: rec.StartedAt, Valid: !rec.StartedAt.IsZero()},
			EndedAt:          pgtype.Timestamptz{Time: rec.EndedAt, Valid: !rec.EndedAt.IsZero()},
		}); err != nil {
			return fmt.Errorf("create match: %w", err)
		}
		for slot, p := range rec.Players {
			if err := store.InsertMatchPlayer(ctx, sqlcgen.InsertMatchPlayerParams{
				MatchID:      matchID,
				PlayerID:     p.PlayerID,
				Slot:         int16(slot + 1),
				Score:        int32(p.Score),
				Correct:      int32(p.Correct),
				Incorrect:    int32(p.Incorrect),
				Unanswered:   int32(p.Unanswered),
				MaxStreak:    int32(p.MaxStreak),
				RatingBefore: p.RatingBefore,
				RatingAfter:  p.RatingAfter,
			}); err != nil {
				return fmt.Errorf("insert match player %s: %w", p.PlayerID, err)
			}
			if !p.Rated {
				continue
			}
			if err := store.UpdatePlayerRating(ctx, sqlcgen.UpdatePlayerRatingParams{
				Delta:    p.Delta,
				PlayerID: p.PlayerID,
			}); err != nil {
				return fmt.Errorf("update rating %s: %w", p.PlayerID, err)
			}
		}
		return nil
	})
}

// Get fetches a recorded match and its players.
func (r *MatchRepository) Get(ctx context.Context, matchID uuid.UUID) (sqlcgen.Match, []sqlcgen.MatchPlayer, error) {
	var pgMatchID pgtype.UUID
	if err := pgMatchID.Scan(matchID.String()); err != nil {
		return sqlcgen.Match{}, nil, err
	}
	m, err := r.store.GetMatch(ctx, pgMatchID)
	if errors.Is(err, pgx.ErrNoRows) {
		return sqlcgen.Match{}, nil, ErrMatchNotFound
	}
	if err != nil {
		return sqlcgen.Match{}, nil, err
	}
	players, err := r.store.GetMatchPlayers(ctx, pgMatchID)
	if err != nil {
		return sqlcgen.Match{}, nil, err
	}
	return m, players, nil
}
