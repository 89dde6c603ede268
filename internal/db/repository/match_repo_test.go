package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sqlcgen "github.com/gokatarajesh/kickoff-quiz/internal/db/sqlc"
)

type mockMatchStore struct {
	mock.Mock
}

func (m *mockMatchStore) CreateMatch(ctx context.Context, arg sqlcgen.CreateMatchParams) (sqlcgen.Match, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.Match), args.Error(1)
}

func (m *mockMatchStore) InsertMatchPlayer(ctx context.Context, arg sqlcgen.InsertMatchPlayerParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockMatchStore) UpdatePlayerRating(ctx context.Context, arg sqlcgen.UpdatePlayerRatingParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockMatchStore) GetMatch(ctx context.Context, matchID pgtype.UUID) (sqlcgen.Match, error) {
	args := m.Called(ctx, matchID)
	return args.Get(0).(sqlcgen.Match), args.Error(1)
}

func (m *mockMatchStore) GetMatchPlayers(ctx context.Context, matchID pgtype.UUID) ([]sqlcgen.MatchPlayer, error) {
	args := m.Called(ctx, matchID)
	return args.Get(0).([]sqlcgen.MatchPlayer), args.Error(1)
}

func sampleRecord() MatchRecord {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return MatchRecord{
		MatchID:          uuid.MustParse("00000000-0000-0000-0000-000000000007"),
		Outcome:          "completed",
		WinnerID:         "alice",
		TerminationMode:  "question_count",
		TerminationValue: 3,
		QuestionsAsked:   3,
		StartedAt:        start,
		EndedAt:          start.Add(time.Minute),
		Players: [2]PlayerResult{
			{PlayerID: "alice", Score: 2, Correct: 2, Unanswered: 1, MaxStreak: 2, RatingBefore: 1000, RatingAfter: 1016, Delta: 16, Rated: true},
			{PlayerID: "rival:bot", Incorrect: 3, RatingBefore: 1000, RatingAfter: 984, Delta: -16},
		},
	}
}

func TestMatchRepository_Record(t *testing.T) {
	store := new(mockMatchStore)
	repo := NewMatchRepository(store)
	rec := sampleRecord()

	store.On("CreateMatch", mock.Anything, mock.MatchedBy(func(p sqlcgen.CreateMatchParams) bool {
		return p.MatchID == fixedUUID(7) &&
			p.Outcome == "completed" &&
			p.WinnerID == pgtype.Text{String: "alice", Valid: true} &&
			p.QuestionsAsked == 3 &&
			p.StartedAt.Valid && p.EndedAt.Valid
	})).Return(sqlcgen.Match{MatchID: fixedUUID(7)}, nil)
	store.On("InsertMatchPlayer", mock.Anything, mock.MatchedBy(func(p sqlcgen.InsertMatchPlayerParams) bool {
		return p.PlayerID == "alice" && p.Slot == 1 && p.Score == 2 && p.RatingAfter == 1016
	})).Return(nil)
	store.On("InsertMatchPlayer", mock.Anything, mock.MatchedBy(func(p sqlcgen.InsertMatchPlayerParams) bool {
		return p.PlayerID == "rival:bot" && p.Slot == 2 && p.Incorrect == 3
	})).Return(nil)
	store.On("UpdatePlayerRating", mock.Anything, sqlcgen.UpdatePlayerRatingParams{PlayerID: "alice", Delta: 16}).Return(nil)

	require.NoError(t, repo.Record(context.Background(), rec))
	store.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "UpdatePlayerRating", 1)
}

func TestMatchRepository_RecordNoWinner(t *testing.T) {
	store := new(mockMatchStore)
	repo := NewMatchRepository(store)
	rec := sampleRecord()
	rec.WinnerID = ""
	rec.Players[0].Rated = false

	store.On("CreateMatch", mock.Anything, mock.MatchedBy(func(p sqlcgen.CreateMatchParams) bool {
		return !p.WinnerID.Valid
	})).Return(sqlcgen.Match{}, nil)
	store.On("InsertMatchPlayer", mock.Anything, mock.Anything).Return(nil).Twice()

	require.NoError(t, repo.Record(context.Background(), rec))
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "UpdatePlayerRating", mock.Anything, mock.Anything)
}

func TestMatchRepository_RecordStopsOnError(t *testing.T) {
	store := new(mockMatchStore)
	repo := NewMatchRepository(store)

	store.On("CreateMatch", mock.Anything, mock.Anything).Return(sqlcgen.Match{}, errors.New("duplicate key"))

	err := repo.Record(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create match")
	store.AssertNotCalled(t, "InsertMatchPlayer", mock.Anything, mock.Anything)
}

func TestMatchRepository_Get(t *testing.T) {
	store := new(mockMatchStore)
	repo := NewMatchRepository(store)

	id := fixedUUID(9)
	match := sqlcgen.Match{MatchID: id, Outcome: "cancelled"}
	players := []sqlcgen.MatchPlayer{{MatchID: id, PlayerID: "alice", Slot: 1}, {MatchID: id, PlayerID: "bob", Slot: 2}}
	store.On("GetMatch", mock.Anything, id).Return(match, nil)
	store.On("GetMatchPlayers", mock.Anything, id).Return(players, nil)

	gotMatch, gotPlayers, err := repo.Get(context.Background(), uuid.MustParse("00000000-0000-0000-0000-000000000009"))
	require.NoError(t, err)
	assert.Equal(t, match, gotMatch)
	assert.Equal(t, players, gotPlayers)
	store.AssertExpectations(t)
}

func TestMatchRepository_RecordAppliesDeltaPerMatch(t *testing.T) {
	store := new(mockMatchStore)
	repo := NewMatchRepository(store)

	won := sampleRecord()
	lost := sampleRecord()
	lost.MatchID = uuid.MustParse("00000000-0000-0000-0000-000000000008")
	lost.Players[0].RatingAfter = 984
	lost.Players[0].Delta = -16

	store.On("CreateMatch", mock.Anything, mock.Anything).Return(sqlcgen.Match{}, nil)
	store.On("InsertMatchPlayer", mock.Anything, mock.Anything).Return(nil)
	store.On("UpdatePlayerRating", mock.Anything, sqlcgen.UpdatePlayerRatingParams{PlayerID: "alice", Delta: 16}).Return(nil).Once()
	store.On("UpdatePlayerRating", mock.Anything, sqlcgen.UpdatePlayerRatingParams{PlayerID: "alice", Delta: -16}).Return(nil).Once()

	require.NoError(t, repo.Record(context.Background(), won))
	require.NoError(t, repo.Record(context.Background(), lost))
	store.AssertExpectations(t)
}

func TestMatchRepository_GetMissing(t *testing.T) {
	store := new(mockMatchStore)
	repo := NewMatchRepository(store)

	store.On("GetMatch", mock.Anything, fixedUUID(5)).Return(sqlcgen.Match{}, pgx.ErrNoRows)

	_, _, err := repo.Get(context.Background(), uuid.MustParse("00000000-0000-0000-0000-000000000005"))
	assert.ErrorIs(t, err, ErrMatchNotFound)
	store.AssertNotCalled(t, "GetMatchPlayers", mock.Anything, mock.Anything)
}
