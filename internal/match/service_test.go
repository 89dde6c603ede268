package match

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/kickoff-quiz/internal/config"
	sqlcgen "github.com/gokatarajesh/kickoff-quiz/internal/db/sqlc"
	"github.com/gokatarajesh/kickoff-quiz/internal/metrics"
	"github.com/gokatarajesh/kickoff-quiz/internal/question"
	"github.com/gokatarajesh/kickoff-quiz/pkg/http/ws"
)

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) Ensure(ctx context.Context, params sqlcgen.EnsurePlayerParams) (sqlcgen.Player, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(sqlcgen.Player), args.Error(1)
}

type recordingHub struct {
	mu      sync.Mutex
	msgs    []ws.Message
	dropped []string
}

func (h *recordingHub) BroadcastToMatch(_ string, msg ws.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, msg)
	return nil
}

func (h *recordingHub) DropMatch(matchID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropped = append(h.dropped, matchID)
}

func (h *recordingHub) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.msgs))
	for _, m := range h.msgs {
		out = append(out, m.Type)
	}
	return out
}

type keyRecorder struct {
	mu   sync.Mutex
	keys []question.PoolKey
}

func (k *keyRecorder) Enqueue(key question.PoolKey) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys = append(k.keys, key)
	return true
}

type mapLookup map[string]Result

func (m mapLookup) Get(_ context.Context, matchID string) (Result, bool, error) {
	res, ok := m[matchID]
	return res, ok, nil
}

type serviceFixture struct {
	svc      *Service
	sel      *fakeSelector
	dir      *mockDirectory
	hub      *recordingHub
	prefetch *keyRecorder
	lookup   mapLookup
	rec      *fakeRecorder
	reg      *prometheus.Registry
}

func newServiceFixture(t *testing.T, retention time.Duration) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		sel:      newFakeSelector(40),
		dir:      &mockDirectory{},
		hub:      &recordingHub{},
		prefetch: &keyRecorder{},
		lookup:   mapLookup{},
		rec:      &fakeRecorder{},
		reg:      prometheus.NewRegistry(),
	}
	f.svc = NewService(f.sel, nil, f.dir, f.rec, f.lookup, f.hub, f.prefetch, metrics.New(f.reg), ServiceOptions{
		Defaults: config.Match{
			QuestionTimeout:  5 * time.Second,
			KFactor:          32,
			TerminationMode:  "question_count",
			TerminationValue: 2,
			BatchSize:        10,
			GoalPolicy:       "first_correct",
			SettleTimeout:    time.Second,
		},
		Retention: retention,
	}, zerolog.Nop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = f.svc.Shutdown(ctx)
	})
	return f
}

func (f *serviceFixture) expectPlayer(id string, rating float64) {
	f.dir.On("Ensure", mock.Anything, mock.MatchedBy(func(p sqlcgen.EnsurePlayerParams) bool {
		return p.PlayerID == id
	})).Return(sqlcgen.Player{PlayerID: id, Grade: 3, Rating: rating}, nil)
}

func twoPlayers() CreateRequest {
	return CreateRequest{
		Players: [2]PlayerSpec{
			{ID: "a", DisplayName: "Ada", Grade: 3},
			{ID: "b", DisplayName: "Bo", Grade: 3},
		},
		Subject: "math",
	}
}

func (f *serviceFixture) play(t *testing.T, matchID string, correct map[string]bool) {
	t.Helper()
	snap, err := f.svc.Snapshot(matchID)
	require.NoError(t, err)
	require.NotNil(t, snap.Active)
	q := f.sel.question(t, snap.Active.Question.ID)
	for _, id := range []string{"a", "b"} {
		ans := q.WrongAnswer(2)
		if correct[id] {
			ans = q.CorrectAnswer()
		}
		ack, err := f.svc.Submit(context.Background(), matchID, id, Submission{Seq: snap.Seq, Answer: ans})
		require.NoError(t, err)
		require.True(t, ack.Accepted)
	}
}

func TestServiceCreateUsesStoredRatingsAndDefaults(t *testing.T) {
	f := newServiceFixture(t, time.Minute)
	f.expectPlayer("a", 1300)
	f.expectPlayer("b", 900)

	snap, err := f.svc.Create(context.Background(), twoPlayers())
	require.NoError(t, err)

	assert.Equal(t, PhaseAwaitingAnswer, snap.Phase)
	assert.Equal(t, Termination{Mode: TerminateQuestionCount, Value: 2}, snap.Termination)
	assert.Equal(t, 1300.0, snap.Players[0].Rating)
	assert.Equal(t, 900.0, snap.Players[1].Rating)
	f.dir.AssertExpectations(t)

	f.prefetch.mu.Lock()
	defer f.prefetch.mu.Unlock()
	require.Len(t, f.prefetch.keys, 2)
	assert.Equal(t, question.Band{Min: 3, Max: 4}, f.prefetch.keys[0].Band)
	assert.Equal(t, question.Band{Min: 2, Max: 3}, f.prefetch.keys[1].Band)
	assert.Equal(t, "en", f.prefetch.keys[0].Language)
}

func TestServicePlaysMatchToResult(t *testing.T) {
	f := newServiceFixture(t, time.Minute)
	f.expectPlayer("a", 1200)
	f.expectPlayer("b", 1200)

	snap, err := f.svc.Create(context.Background(), twoPlayers())
	require.NoError(t, err)
	id := snap.MatchID

	_, err = f.svc.Result(context.Background(), id)
	assert.ErrorIs(t, err, ErrMatchInProgress)

	f.play(t, id, map[string]bool{"a": true})
	f.play(t, id, map[string]bool{"a": true, "b": true})

	res, err := f.svc.Result(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, res.Outcome)
	assert.Equal(t, "a", res.WinnerID)
	require.Len(t, f.rec.recorded(), 1)

	expected := `
# HELP quiz_match_finished_total Matches finished, by outcome.
# TYPE quiz_match_finished_total counter
quiz_match_finished_total{outcome="completed"} 1
`
	require.Eventually(t, func() bool {
		return testutil.GatherAndCompare(f.reg, strings.NewReader(expected), "quiz_match_finished_total") == nil
	}, 2*time.Second, 10*time.Millisecond)

	types := f.hub.types()
	assert.Equal(t, ws.TypeMatchEnd, types[len(types)-1])
	assert.Contains(t, types, ws.TypeGoal)
	assert.Equal(t, ws.TypeMatchState, types[0])
}

func TestServiceRivalTakesOpponentRating(t *testing.T) {
	f := newServiceFixture(t, time.Minute)
	f.expectPlayer("a", 1420)

	req := twoPlayers()
	req.Players[1] = PlayerSpec{ID: "bot", DisplayName: "Robo", Grade: 3, Rival: true}
	snap, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1420.0, snap.Players[1].Rating)
	assert.True(t, snap.Players[1].IsRival)
	f.dir.AssertNotCalled(t, "Ensure", mock.Anything, mock.MatchedBy(func(p sqlcgen.EnsurePlayerParams) bool {
		return p.PlayerID == "bot"
	}))
}

func TestServiceRejectsInvalidConfig(t *testing.T) {
	f := newServiceFixture(t, time.Minute)
	rating := 1000.0
	req := twoPlayers()
	req.Players[0].Grade = 0
	req.Players[0].Rating = &rating
	req.Players[1].Rating = &rating

	_, err := f.svc.Create(context.Background(), req)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "players[0].grade", cfgErr.Field)
	assert.Empty(t, f.svc.List())
	f.dir.AssertNotCalled(t, "Ensure", mock.Anything, mock.Anything)
}

func TestServiceUnknownMatch(t *testing.T) {
	f := newServiceFixture(t, time.Minute)

	_, err := f.svc.Snapshot("nope")
	assert.ErrorIs(t, err, ErrMatchNotFound)
	_, err = f.svc.Submit(context.Background(), "nope", "a", Submission{})
	assert.ErrorIs(t, err, ErrMatchNotFound)
	assert.ErrorIs(t, f.svc.Abort("nope", ""), ErrMatchNotFound)
	_, err = f.svc.Result(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestServiceEvictsFinishedMatches(t *testing.T) {
	f := newServiceFixture(t, 20*time.Millisecond)
	f.expectPlayer("a", 1200)
	f.expectPlayer("b", 1200)

	snap, err := f.svc.Create(context.Background(), twoPlayers())
	require.NoError(t, err)
	require.NoError(t, f.svc.Abort(snap.MatchID, "test"))

	require.Eventually(t, func() bool {
		_, err := f.svc.Snapshot(snap.MatchID)
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)

	f.lookup[snap.MatchID] = Result{MatchID: snap.MatchID, Outcome: OutcomeCancelled}
	res, err := f.svc.Result(context.Background(), snap.MatchID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, res.Outcome)

	f.hub.mu.Lock()
	assert.Contains(t, f.hub.dropped, snap.MatchID)
	f.hub.mu.Unlock()
}

func TestServiceShutdownCancelsRunningMatches(t *testing.T) {
	f := newServiceFixture(t, time.Minute)
	f.expectPlayer("a", 1200)
	f.expectPlayer("b", 1200)

	snap, err := f.svc.Create(context.Background(), twoPlayers())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, f.svc.Shutdown(ctx))

	res, err := f.svc.Result(context.Background(), snap.MatchID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, res.Outcome)
	assert.Equal(t, "server shutting down", res.Reason)
}
