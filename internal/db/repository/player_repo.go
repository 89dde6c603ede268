package repository

import (
	"context"

	sqlcgen "github.com/gokatarajesh/kickoff-quiz/internal/db/sqlc"
)

type playerStore interface {
	EnsurePlayer(ctx context.Context, arg sqlcgen.EnsurePlayerParams) (sqlcgen.Player, error)
}

// PlayerRepository exposes player profile and rating lookups.
type PlayerRepository struct {
	store playerStore
}

func NewPlayerRepository(store playerStore) *PlayerRepository {
	return &PlayerRepository{store: store}
}

// Ensure creates the player with the given starting rating if missing and
// returns the stored row. An existing rating is never overwritten.
func (r *PlayerRepository) Ensure(ctx context.Context, params sqlcgen.EnsurePlayerParams) (sqlcgen.Player, error) {
	return r.store.EnsurePlayer(ctx, params)
}
