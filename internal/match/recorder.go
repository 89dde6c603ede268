package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gokatarajesh/kickoff-quiz/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/kickoff-quiz/internal/db/sqlc"
)

type matchWriter interface {
	Record(ctx context.Context, rec repository.MatchRecord) error
	Get(ctx context.Context, matchID uuid.UUID) (sqlcgen.Match, []sqlcgen.MatchPlayer, error)
}

// PostgresRecorder writes finished matches and settled ratings, and reads
// them back once a result has left memory and Redis.
// Rival seats and unsettled outcomes never touch stored ratings.
type PostgresRecorder struct {
	matches matchWriter
}

func NewPostgresRecorder(matches matchWriter) *PostgresRecorder {
	return &PostgresRecorder{matches: matches}
}

func (r *PostgresRecorder) Record(ctx context.Context, res Result) error {
	id, err := uuid.Parse(res.MatchID)
	if err != nil {
		return fmt.Errorf("parse match id: %w", err)
	}
	rec := repository.MatchRecord{
		MatchID:          id,
		Outcome:          string(res.Outcome),
		WinnerID:         res.WinnerID,
		TerminationMode:  string(res.Termination.Mode),
		TerminationValue: res.Termination.Value,
		QuestionsAsked:   res.Scored,
		StartedAt:        res.StartedAt,
		EndedAt:          res.EndedAt,
	}
	for i, p := range res.Players {
		rec.Players[i] = repository.PlayerResult{
			PlayerID:     p.PlayerID,
			Score:        p.Score,
			Correct:      p.Correct,
			Incorrect:    p.Incorrect,
			Unanswered:   p.Unanswered,
			MaxStreak:    p.MaxStreak,
			RatingBefore: p.RatingBefore,
			RatingAfter:  p.RatingAfter,
			Delta:        p.Delta,
			Rated:        res.Outcome.Settles() && !p.IsRival,
		}
	}
	if err := r.matches.Record(ctx, rec); err != nil {
		return fmt.Errorf("record match %s: %w", res.MatchID, err)
	}
	return nil
}

// Get loads a recorded result. Rival flags are not stored.
func (r *PostgresRecorder) Get(ctx context.Context, matchID string) (Result, bool, error) {
	id, err := uuid.Parse(matchID)
	if err != nil {
		return Result{}, false, nil
	}
	m, players, err := r.matches.Get(ctx, id)
	if errors.Is(err, repository.ErrMatchNotFound) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, fmt.Errorf("load match %s: %w", matchID, err)
	}

	res := Result{
		MatchID:     matchID,
		Outcome:     Outcome(m.Outcome),
		WinnerID:    m.WinnerID.String,
		Scored:      int(m.QuestionsAsked),
		Termination: Termination{Mode: TerminationMode(m.TerminationMode), Value: m.TerminationValue},
		StartedAt:   m.StartedAt.Time,
		EndedAt:     m.EndedAt.Time,
	}
	for _, p := range players {
		slot := int(p.Slot) - 1
		if slot < 0 || slot >= len(res.Players) {
			continue
		}
		res.Players[slot] = PlayerResult{
			PlayerID:     p.PlayerID,
			Score:        int(p.Score),
			Correct:      int(p.Correct),
			Incorrect:    int(p.Incorrect),
			Unanswered:   int(p.Unanswered),
			MaxStreak:    int(p.MaxStreak),
			RatingBefore: p.RatingBefore,
			RatingAfter:  p.RatingAfter,
			Delta:        p.RatingAfter - p.RatingBefore,
		}
	}
	return res, true, nil
}

// Lookups tries each ResultLookup in order and returns the first hit.
type Lookups []ResultLookup

func (ls Lookups) Get(ctx context.Context, matchID string) (Result, bool, error) {
	var errs []error
	for _, l := range ls {
		if l == nil {
			continue
		}
		res, found, err := l.Get(ctx, matchID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if found {
			return res, true, nil
		}
	}
	return Result{}, false, errors.Join(errs...)
}

// Recorders fans a result out to every recorder and joins their errors.
type Recorders []ResultRecorder

func (rs Recorders) Record(ctx context.Context, res Result) error {
	var errs []error
	for _, r := range rs {
		if r == nil {
			continue
		}
		if err := r.Record(ctx, res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
