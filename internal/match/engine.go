package match

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/kickoff-quiz/internal/match/scoring"
	"github.com/gokatarajesh/kickoff-quiz/internal/question"
	"github.com/gokatarajesh/kickoff-quiz/internal/rating"
)

const (
	defaultBatchSize     = 10
	defaultFetchTimeout  = 4 * time.Second
	defaultSettleTimeout = 5 * time.Second
	inboxSize            = 64
)

// Per-grade answer windows, grade 1 first.
var gradeTimeouts = [...]time.Duration{
	15 * time.Second,
	12 * time.Second,
	10 * time.Second,
	8 * time.Second,
	6 * time.Second,
	5 * time.Second,
}

// GradeTimeout returns the default answer window for a grade.
func GradeTimeout(grade int) time.Duration {
	switch {
	case grade < question.MinGrade:
		return gradeTimeouts[0]
	case grade > question.MaxGrade:
		return gradeTimeouts[len(gradeTimeouts)-1]
	default:
		return gradeTimeouts[grade-1]
	}
}

// Selector supplies questions for one player at a time.
type Selector interface {
	Select(ctx context.Context, req question.Request) (question.Selection, error)
}

// ResultRecorder receives every finished match.
type ResultRecorder interface {
	Record(ctx context.Context, res Result) error
}

// EngineOptions tunes an Engine. Zero values fall back to defaults.
type EngineOptions struct {
	ID            string
	Recorder      ResultRecorder
	FetchTimeout  time.Duration
	SettleTimeout time.Duration
	Seed          uint64
}

type triggerKind int

const (
	trigStart triggerKind = iota
	trigAnswer
	trigTimeout
	trigDeadline
	trigAbort
)

type trigger struct {
	kind     triggerKind
	seq      uint64
	playerID string
	answer   question.Answer
	reason   string
	reply    chan Ack
}

type activeState struct {
	q         question.Question
	owner     int
	order     int
	seq       uint64
	startedAt time.Time
	deadline  time.Time
	timeout   time.Duration
	answers   map[string]question.Answer
	arrival   []string
}

// Engine runs one match. Every state change happens on a single goroutine
// that consumes answers, timer expiries and aborts from one inbox.
type Engine struct {
	id       string
	selector Selector
	model    rating.Model
	recorder ResultRecorder
	opts     EngineOptions
	logger   zerolog.Logger
	bus      *Bus

	life    sync.Mutex
	started bool

	mu     sync.RWMutex
	snap   Snapshot
	result *Result

	inbox    chan trigger
	done     chan struct{}
	runCtx   context.Context
	cancel   context.CancelFunc
	aborting atomic.Bool

	// Owned by the loop goroutine once started.
	cfg           Config
	phase         Phase
	seq           uint64
	outcome       Outcome
	tracker       scoring.Tracker
	queues        [2][]question.Question
	consumed      map[string]struct{}
	active        *activeState
	order         int
	scored        int
	startedAt     time.Time
	deadlineHit   bool
	questionTimer *time.Timer
	deadlineTimer *time.Timer
	rivalTimers   []*time.Timer
	rng           *rand.Rand
}

// NewEngine builds an idle engine. A nil model uses Elo with default constants.
func NewEngine(selector Selector, model rating.Model, opts EngineOptions, logger zerolog.Logger) *Engine {
	if opts.ID == "" {
		opts.ID = uuid.New().String()
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if opts.SettleTimeout <= 0 {
		opts.SettleTimeout = defaultSettleTimeout
	}
	if model == nil {
		model = rating.NewElo(rating.DefaultConfig())
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	e := &Engine{
		id:       opts.ID,
		selector: selector,
		model:    model,
		recorder: opts.Recorder,
		opts:     opts,
		logger:   logger.With().Str("component", "match_engine").Str("match_id", opts.ID).Logger(),
		bus:      NewBus(),
		inbox:    make(chan trigger, inboxSize),
		done:     make(chan struct{}),
		phase:    PhaseIdle,
		consumed: make(map[string]struct{}),
		rng:      rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
	e.refresh()
	return e
}

// ID returns the match id.
func (e *Engine) ID() string {
	return e.id
}

// Subscribe opens an ordered event stream; no kinds means all kinds.
func (e *Engine) Subscribe(kinds ...EventKind) *Subscription {
	return e.bus.Subscribe(kinds...)
}

// Done is closed once the match has finished and its result was recorded.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Result returns the final result once the match has finished.
func (e *Engine) Result() (Result, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.result == nil {
		return Result{}, false
	}
	return *e.result, true
}

// State returns a snapshot of the match at call time.
func (e *Engine) State() Snapshot {
	e.mu.RLock()
	s := e.snap
	e.mu.RUnlock()

	now := time.Now()
	if !s.StartedAt.IsZero() && s.Phase != PhaseFinished {
		s.Elapsed = now.Sub(s.StartedAt)
	}
	if s.Active != nil {
		active := *s.Active
		active.Answered = append([]string(nil), active.Answered...)
		active.Question.Answers = append([]string(nil), active.Question.Answers...)
		if s.Phase == PhaseAwaitingAnswer {
			active.Remaining = max(active.Deadline.Sub(now), 0)
		}
		s.Active = &active
	}
	return s
}

// Initialize validates cfg, seats the players and enters Initializing.
func (e *Engine) Initialize(cfg Config) error {
	e.life.Lock()
	defer e.life.Unlock()
	if e.started {
		if e.isDone() {
			return ErrAlreadyFinished
		}
		return ErrAlreadyInitialized
	}
	switch e.phase {
	case PhaseIdle:
	case PhaseFinished:
		return ErrAlreadyFinished
	default:
		return ErrAlreadyInitialized
	}

	cfg, err := normalizeConfig(cfg)
	if err != nil {
		return err
	}
	e.cfg = cfg
	if cfg.KFactor > 0 {
		if tunable, ok := e.model.(rating.KFactorModel); ok {
			e.model = tunable.WithKFactor(cfg.KFactor)
		} else {
			e.logger.Debug().Float64("k_factor", cfg.KFactor).Msg("rating model ignores k-factor override")
		}
	}
	e.tracker = scoring.NewTracker(cfg.Players[0].ID, cfg.Players[1].ID)
	e.transition(PhaseInitializing)
	e.logger.Info().
		Str("player1", cfg.Players[0].ID).
		Str("player2", cfg.Players[1].ID).
		Str("termination", string(cfg.Termination.Mode)).
		Int64("termination_value", cfg.Termination.Value).
		Msg("match initialized")
	return nil
}

// Start fetches the opening questions and activates the first one. It
// returns once the engine is awaiting an answer or has finished. Selection
// failures end the match with OutcomeFailed rather than returning an error.
func (e *Engine) Start(ctx context.Context) error {
	e.life.Lock()
	if e.started {
		e.life.Unlock()
		if e.isDone() {
			return ErrAlreadyFinished
		}
		return ErrAlreadyStarted
	}
	switch e.phase {
	case PhaseInitializing:
	case PhaseFinished:
		e.life.Unlock()
		return ErrAlreadyFinished
	default:
		e.life.Unlock()
		return ErrNotInitialized
	}
	e.started = true
	e.runCtx, e.cancel = context.WithCancel(context.WithoutCancel(ctx))
	go e.run()
	e.life.Unlock()

	reply := make(chan Ack, 1)
	if !e.enqueue(ctx, trigger{kind: trigStart, reply: reply}) {
		return ctx.Err()
	}
	select {
	case <-reply:
	case <-e.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// SubmitAnswer offers an answer for playerID. Late, duplicate and
// out-of-phase submissions are not errors; the Ack says what happened.
func (e *Engine) SubmitAnswer(ctx context.Context, playerID string, sub Submission) Ack {
	e.life.Lock()
	started := e.started
	e.life.Unlock()
	if !started {
		if e.State().Phase == PhaseFinished {
			return Ack{Reason: AckFinished}
		}
		return Ack{Reason: AckNotAccepting}
	}

	reply := make(chan Ack, 1)
	t := trigger{kind: trigAnswer, playerID: playerID, seq: sub.Seq, answer: sub.Answer, reply: reply}
	if !e.enqueue(ctx, t) {
		if e.isDone() {
			return Ack{Reason: AckFinished}
		}
		return Ack{Reason: AckNotAccepting}
	}
	select {
	case ack := <-reply:
		return ack
	case <-e.done:
		select {
		case ack := <-reply:
			return ack
		default:
			return Ack{Reason: AckFinished}
		}
	}
}

// Abort ends the match with OutcomeCancelled and no rating change.
func (e *Engine) Abort(reason string) error {
	if reason == "" {
		reason = "aborted"
	}
	e.life.Lock()
	if !e.started {
		defer e.life.Unlock()
		switch e.phase {
		case PhaseFinished:
			return ErrAlreadyFinished
		case PhaseIdle:
			return ErrNotInitialized
		}
		e.finish(OutcomeCancelled, reason, nil)
		close(e.done)
		return nil
	}
	e.life.Unlock()

	if e.isDone() {
		return ErrAlreadyFinished
	}
	e.aborting.Store(true)
	e.cancel()

	reply := make(chan Ack, 1)
	e.enqueue(context.Background(), trigger{kind: trigAbort, reason: reason, reply: reply})
	select {
	case <-reply:
		return nil
	case <-e.done:
		select {
		case <-reply:
			return nil
		default:
		}
		if res, ok := e.Result(); ok && res.Outcome == OutcomeCancelled {
			return nil
		}
		return ErrAlreadyFinished
	}
}

func (e *Engine) isDone() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

func (e *Engine) enqueue(ctx context.Context, t trigger) bool {
	select {
	case e.inbox <- t:
		return true
	case <-e.done:
		return false
	case <-ctx.Done():
		return false
	}
}

func (e *Engine) run() {
	defer close(e.done)
	defer e.cancel()
	for t := range e.inbox {
		e.handle(t)
		if e.phase == PhaseFinished {
			return
		}
	}
}

func (e *Engine) handle(t trigger) {
	switch t.kind {
	case trigStart:
		e.begin()
		reply(t, Ack{Accepted: true, Reason: AckAccepted, Seq: e.seq})
	case trigAnswer:
		reply(t, e.accept(t))
	case trigTimeout:
		if e.phase == PhaseAwaitingAnswer && e.active != nil && e.active.seq == t.seq {
			e.logger.Debug().Uint64("seq", t.seq).Msg("question timed out")
			e.score()
		}
	case trigDeadline:
		e.deadlineHit = true
		if e.phase == PhaseAwaitingAnswer {
			e.score()
		}
	case trigAbort:
		e.finish(OutcomeCancelled, t.reason, nil)
		reply(t, Ack{Accepted: true, Reason: AckAccepted, Seq: e.seq})
	}
}

func reply(t trigger, ack Ack) {
	if t.reply != nil {
		t.reply <- ack
	}
}

func (e *Engine) begin() {
	e.startedAt = time.Now()
	total := 0
	for seat := range e.cfg.Players {
		sel, err := e.fetch(seat, e.initialCount())
		if err != nil {
			e.failFetch(err)
			return
		}
		e.queues[seat] = sel.Questions
		total += len(sel.Questions)
	}
	if total == 0 {
		e.finish(OutcomeFailed, "no eligible questions", &question.RepositoryError{Op: "initialize", Err: question.ErrEmptyPool})
		return
	}
	if e.cfg.Termination.Mode == TerminateDuration {
		e.deadlineTimer = time.AfterFunc(e.cfg.Termination.Duration(), func() {
			e.enqueue(context.Background(), trigger{kind: trigDeadline})
		})
	}
	e.advance()
}

func (e *Engine) accept(t trigger) Ack {
	if e.phase != PhaseAwaitingAnswer || e.active == nil {
		return Ack{Reason: AckNotAccepting, Seq: e.seq}
	}
	if e.seat(t.playerID) < 0 {
		return Ack{Reason: AckUnknownPlayer, Seq: e.seq}
	}
	a := e.active
	if t.seq != 0 && t.seq != a.seq {
		return Ack{Reason: AckStale, Seq: a.seq}
	}
	if _, dup := a.answers[t.playerID]; dup {
		return Ack{Reason: AckDuplicate, Seq: a.seq}
	}
	a.answers[t.playerID] = t.answer
	a.arrival = append(a.arrival, t.playerID)
	ack := Ack{Accepted: true, Reason: AckAccepted, Seq: a.seq}
	if len(a.answers) == len(e.cfg.Players) {
		e.score()
	} else {
		e.refresh()
	}
	return ack
}

func (e *Engine) score() {
	e.stopQuestionTimers()
	a := e.active
	e.transition(PhaseScoring)

	goalTaken := false
	for _, pid := range a.arrival {
		if !a.q.IsCorrect(a.answers[pid]) {
			e.tracker.Record(pid, scoring.MarkIncorrect, false)
			continue
		}
		goal := e.cfg.GoalPolicy == GoalEveryCorrect || !goalTaken
		line, _ := e.tracker.Record(pid, scoring.MarkCorrect, goal)
		if goal {
			goalTaken = true
			e.refresh()
			e.emit(Event{Kind: EventGoalScored, Goal: &Goal{PlayerID: pid, NewScore: line.Score, QuestionID: a.q.ID}})
		}
	}
	for _, p := range e.cfg.Players {
		if _, answered := a.answers[p.ID]; !answered {
			e.tracker.Record(p.ID, scoring.MarkUnanswered, false)
		}
	}
	e.scored++
	e.active = nil
	e.refresh()

	if outcome, reason, done := e.terminal(); done {
		e.finish(outcome, reason, nil)
		return
	}
	e.advance()
}

func (e *Engine) terminal() (Outcome, string, bool) {
	term := e.cfg.Termination
	switch term.Mode {
	case TerminateQuestionCount:
		if int64(e.scored) >= term.Value {
			return OutcomeCompleted, "question count reached", true
		}
	case TerminateScoreTarget:
		if int64(e.tracker.MaxScore()) >= term.Value {
			return OutcomeCompleted, "score target reached", true
		}
	case TerminateDuration:
		if e.deadlineHit || time.Since(e.startedAt) >= term.Duration() {
			return OutcomeCompleted, "time up", true
		}
	}
	return "", "", false
}

func (e *Engine) advance() {
	q, owner, err := e.next()
	if err != nil {
		e.failFetch(err)
		return
	}
	if q == nil {
		e.finish(OutcomePoolExhausted, "question pool exhausted", nil)
		return
	}
	timeout := e.questionTimeout()
	now := time.Now()
	e.order++
	e.active = &activeState{
		q:         *q,
		owner:     owner,
		order:     e.order,
		startedAt: now,
		deadline:  now.Add(timeout),
		timeout:   timeout,
		answers:   make(map[string]question.Answer, len(e.cfg.Players)),
	}
	e.transition(PhaseAwaitingAnswer)

	seq := e.active.seq
	e.questionTimer = time.AfterFunc(timeout, func() {
		e.enqueue(context.Background(), trigger{kind: trigTimeout, seq: seq})
	})
	e.planRivals()
}

// next pops the due player's queue, falling back to the other queue and then
// to refills. A nil question with a nil error means both pools are dry.
func (e *Engine) next() (*question.Question, int, error) {
	due := e.order % len(e.queues)
	seats := [2]int{due, 1 - due}
	for _, seat := range seats {
		if len(e.queues[seat]) > 0 {
			q := e.queues[seat][0]
			e.queues[seat] = e.queues[seat][1:]
			return &q, seat, nil
		}
	}
	count := e.refillCount()
	if count <= 0 {
		return nil, 0, nil
	}
	for _, seat := range seats {
		sel, err := e.fetch(seat, count)
		if err != nil {
			return nil, 0, err
		}
		if len(sel.Questions) == 0 {
			continue
		}
		q := sel.Questions[0]
		e.queues[seat] = sel.Questions[1:]
		return &q, seat, nil
	}
	return nil, 0, nil
}

func (e *Engine) fetch(seat, count int) (question.Selection, error) {
	p := e.cfg.Players[seat]
	ctx, cancel := context.WithTimeout(e.runCtx, e.opts.FetchTimeout)
	defer cancel()

	sel, err := e.selector.Select(ctx, question.Request{
		Grade:    p.Grade,
		Rating:   p.Rating,
		Subject:  e.cfg.Subject,
		Language: e.cfg.Language,
		Count:    count,
		Exclude:  e.consumed,
	})
	if err != nil {
		var repoErr *question.RepositoryError
		if !errors.As(err, &repoErr) {
			err = &question.RepositoryError{Op: "select", Err: err}
		}
		return question.Selection{}, err
	}
	for _, q := range sel.Questions {
		e.consumed[q.ID] = struct{}{}
	}
	e.logger.Debug().
		Str("player_id", p.ID).
		Int("requested", count).
		Int("returned", len(sel.Questions)).
		Str("band", sel.Band.String()).
		Msg("questions selected")
	if sel.LowPool != nil {
		e.emit(Event{Kind: EventPoolLow, PoolLow: &PoolLow{PlayerID: p.ID, LowPoolWarning: *sel.LowPool}})
	}
	return sel, nil
}

func (e *Engine) failFetch(err error) {
	if e.aborting.Load() {
		e.finish(OutcomeCancelled, "aborted", nil)
		return
	}
	e.logger.Error().Err(err).Msg("question selection failed")
	e.finish(OutcomeFailed, "question repository failure", err)
}

func (e *Engine) initialCount() int {
	count := e.cfg.BatchSize
	if e.cfg.Termination.Mode == TerminateQuestionCount {
		perPlayer := int((e.cfg.Termination.Value + 1) / 2)
		if perPlayer < count {
			count = perPlayer
		}
	}
	return count
}

func (e *Engine) refillCount() int {
	count := e.cfg.BatchSize
	if e.cfg.Termination.Mode == TerminateQuestionCount {
		remaining := int(e.cfg.Termination.Value) - e.scored
		if remaining < count {
			count = remaining
		}
	}
	return count
}

func (e *Engine) questionTimeout() time.Duration {
	if e.cfg.QuestionTimeout > 0 {
		return e.cfg.QuestionTimeout
	}
	grade := e.cfg.Players[0].Grade
	if g := e.cfg.Players[1].Grade; g < grade {
		grade = g
	}
	return GradeTimeout(grade)
}

func (e *Engine) finish(outcome Outcome, reason string, cause error) {
	e.stopQuestionTimers()
	if e.deadlineTimer != nil {
		e.deadlineTimer.Stop()
	}
	e.active = nil
	e.outcome = outcome

	res := e.settle(outcome, reason, cause)
	for i := range e.cfg.Players {
		e.cfg.Players[i].Rating = res.Players[i].RatingAfter
	}
	e.mu.Lock()
	e.result = &res
	e.mu.Unlock()

	e.transition(PhaseFinished)
	e.emit(Event{Kind: EventGameEnded, Result: &res})
	e.bus.Close()

	logEvent := e.logger.Info()
	if cause != nil {
		logEvent = e.logger.Warn().Err(cause)
	}
	logEvent.
		Str("outcome", string(outcome)).
		Str("winner", res.WinnerID).
		Int("scored", res.Scored).
		Msg("match finished")

	if e.recorder == nil {
		return
	}
	base := context.Background()
	if e.runCtx != nil {
		base = context.WithoutCancel(e.runCtx)
	}
	ctx, cancel := context.WithTimeout(base, e.opts.SettleTimeout)
	defer cancel()
	if err := e.recorder.Record(ctx, res); err != nil {
		e.logger.Error().Err(err).Msg("record match result")
	}
}

func (e *Engine) settle(outcome Outcome, reason string, cause error) Result {
	lines := e.tracker.Lines()
	res := Result{
		MatchID:     e.id,
		Outcome:     outcome,
		Scored:      e.scored,
		Termination: e.cfg.Termination,
		StartedAt:   e.startedAt,
		EndedAt:     time.Now(),
		Reason:      reason,
		Err:         cause,
	}
	for i, p := range e.cfg.Players {
		res.Players[i] = PlayerResult{
			PlayerID:     p.ID,
			IsRival:      p.IsRival,
			Score:        lines[i].Score,
			Correct:      lines[i].Correct,
			Incorrect:    lines[i].Incorrect,
			Unanswered:   lines[i].Unanswered,
			MaxStreak:    lines[i].MaxStreak,
			RatingBefore: p.Rating,
			RatingAfter:  p.Rating,
		}
	}
	if !outcome.Settles() {
		return res
	}

	res.WinnerID = e.tracker.Leader()
	first := rating.OutcomeDraw
	switch res.WinnerID {
	case e.cfg.Players[0].ID:
		first = rating.OutcomeWin
	case e.cfg.Players[1].ID:
		first = rating.OutcomeLoss
	}
	r1, r2 := e.cfg.Players[0].Rating, e.cfg.Players[1].Rating
	deltas := [2]float64{
		e.model.Delta(r1, r2, first),
		e.model.Delta(r2, r1, rating.Opposite(first)),
	}
	for i := range res.Players {
		res.Players[i].Delta = deltas[i]
		res.Players[i].RatingAfter = res.Players[i].RatingBefore + deltas[i]
	}
	return res
}

func (e *Engine) stopQuestionTimers() {
	if e.questionTimer != nil {
		e.questionTimer.Stop()
		e.questionTimer = nil
	}
	for _, t := range e.rivalTimers {
		t.Stop()
	}
	e.rivalTimers = e.rivalTimers[:0]
}

// transition moves to phase, bumps the sequence number and emits phase-changed.
func (e *Engine) transition(phase Phase) {
	e.phase = phase
	e.seq++
	if phase == PhaseAwaitingAnswer && e.active != nil {
		e.active.seq = e.seq
	}
	e.refresh()
	e.emit(Event{Kind: EventPhaseChanged})
}

func (e *Engine) emit(ev Event) {
	ev.MatchID = e.id
	e.mu.RLock()
	ev.Snapshot = e.snap
	e.mu.RUnlock()
	e.bus.Publish(ev)
}

func (e *Engine) refresh() {
	s := Snapshot{
		MatchID:     e.id,
		Phase:       e.phase,
		Seq:         e.seq,
		Theme:       e.cfg.Theme,
		Subject:     e.cfg.Subject,
		Language:    e.cfg.Language,
		Termination: e.cfg.Termination,
		Scored:      e.scored,
		StartedAt:   e.startedAt,
		Outcome:     e.outcome,
	}
	if !e.startedAt.IsZero() {
		s.Elapsed = time.Since(e.startedAt)
	}
	lines := e.tracker.Lines()
	for i := range s.Players {
		s.Players[i] = PlayerState{Player: e.cfg.Players[i], Line: lines[i], Queued: len(e.queues[i])}
	}
	if a := e.active; a != nil {
		s.Active = &ActiveQuestion{
			Question:  a.q.Public(),
			Order:     a.order,
			Owner:     e.cfg.Players[a.owner].ID,
			StartedAt: a.startedAt,
			Deadline:  a.deadline,
			Remaining: max(time.Until(a.deadline), 0),
			Answered:  append([]string(nil), a.arrival...),
		}
	}
	e.mu.Lock()
	e.snap = s
	e.mu.Unlock()
}

func (e *Engine) seat(playerID string) int {
	for i, p := range e.cfg.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func normalizeConfig(cfg Config) (Config, error) {
	for i, p := range cfg.Players {
		field := fmt.Sprintf("players[%d]", i)
		cfg.Players[i].ID = strings.TrimSpace(p.ID)
		if cfg.Players[i].ID == "" {
			return cfg, &ConfigError{Field: field + ".id", Reason: "is required"}
		}
		if p.Grade < question.MinGrade || p.Grade > question.MaxGrade {
			return cfg, &ConfigError{Field: field + ".grade", Reason: fmt.Sprintf("must be between %d and %d", question.MinGrade, question.MaxGrade)}
		}
		if math.IsNaN(p.Rating) || math.IsInf(p.Rating, 0) {
			return cfg, &ConfigError{Field: field + ".rating", Reason: "must be a finite number"}
		}
	}
	if cfg.Players[0].ID == cfg.Players[1].ID {
		return cfg, &ConfigError{Field: "players", Reason: "must be two distinct players"}
	}

	switch cfg.Termination.Mode {
	case TerminateQuestionCount, TerminateScoreTarget, TerminateDuration:
	default:
		return cfg, &ConfigError{Field: "termination.mode", Reason: fmt.Sprintf("unknown mode %q", cfg.Termination.Mode)}
	}
	if cfg.Termination.Value <= 0 {
		return cfg, &ConfigError{Field: "termination.value", Reason: "must be positive"}
	}
	if cfg.QuestionTimeout < 0 {
		return cfg, &ConfigError{Field: "question_timeout", Reason: "must be positive"}
	}
	if cfg.KFactor < 0 || math.IsNaN(cfg.KFactor) {
		return cfg, &ConfigError{Field: "k_factor", Reason: "must be positive"}
	}
	if cfg.BatchSize < 0 {
		return cfg, &ConfigError{Field: "batch_size", Reason: "must be positive"}
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = defaultBatchSize
	}
	switch cfg.GoalPolicy {
	case "":
		cfg.GoalPolicy = GoalFirstCorrect
	case GoalFirstCorrect, GoalEveryCorrect:
	default:
		return cfg, &ConfigError{Field: "goal_policy", Reason: fmt.Sprintf("unknown policy %q", cfg.GoalPolicy)}
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	return cfg, nil
}
