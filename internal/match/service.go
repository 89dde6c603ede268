package match

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/kickoff-quiz/internal/config"
	sqlcgen "github.com/gokatarajesh/kickoff-quiz/internal/db/sqlc"
	"github.com/gokatarajesh/kickoff-quiz/internal/metrics"
	"github.com/gokatarajesh/kickoff-quiz/internal/question"
	"github.com/gokatarajesh/kickoff-quiz/internal/rating"
	"github.com/gokatarajesh/kickoff-quiz/pkg/http/ws"
)

const (
	defaultRating    = 1000
	defaultRetention = 10 * time.Minute
)

// PlayerDirectory resolves stored ratings for human players.
type PlayerDirectory interface {
	Ensure(ctx context.Context, params sqlcgen.EnsurePlayerParams) (sqlcgen.Player, error)
}

// ResultLookup serves results of matches that are no longer in memory.
type ResultLookup interface {
	Get(ctx context.Context, matchID string) (Result, bool, error)
}

// Broadcaster pushes messages to clients watching a match.
type Broadcaster interface {
	BroadcastToMatch(matchID string, msg ws.Message) error
	DropMatch(matchID string)
}

// Prefetcher warms question pools in the background.
type Prefetcher interface {
	Enqueue(key question.PoolKey) bool
}

// PlayerSpec is one seat in a create request. A nil rating is looked up.
type PlayerSpec struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Grade       int      `json:"grade"`
	Rating      *float64 `json:"rating,omitempty"`
	Rival       bool     `json:"rival,omitempty"`
}

// CreateRequest describes a new match. Zero fields take configured defaults.
type CreateRequest struct {
	Players           [2]PlayerSpec   `json:"players"`
	Subject           string          `json:"subject"`
	Language          string          `json:"language,omitempty"`
	Theme             string          `json:"theme,omitempty"`
	TerminationMode   TerminationMode `json:"termination_mode,omitempty"`
	TerminationValue  int64           `json:"termination_value,omitempty"`
	QuestionTimeoutMs int64           `json:"question_timeout_ms,omitempty"`
	KFactor           float64         `json:"k_factor,omitempty"`
	BatchSize         int             `json:"batch_size,omitempty"`
	GoalPolicy        GoalPolicy      `json:"goal_policy,omitempty"`
}

// ServiceOptions configures the match service.
type ServiceOptions struct {
	Defaults     config.Match
	FetchTimeout time.Duration
	Retention    time.Duration
	Bands        question.BandTable
}

// Service owns running matches and connects them to storage, metrics and
// WebSocket watchers.
type Service struct {
	selector    Selector
	model       rating.Model
	players     PlayerDirectory
	recorder    ResultRecorder
	results     ResultLookup
	broadcaster Broadcaster
	prefetch    Prefetcher
	metrics     *metrics.Metrics
	opts        ServiceOptions
	logger      zerolog.Logger

	mu      sync.RWMutex
	matches map[string]*Engine
	wg      sync.WaitGroup
}

// NewService creates a match service. Every collaborator except the
// selector may be nil.
func NewService(
	selector Selector,
	model rating.Model,
	players PlayerDirectory,
	recorder ResultRecorder,
	results ResultLookup,
	broadcaster Broadcaster,
	prefetch Prefetcher,
	m *metrics.Metrics,
	opts ServiceOptions,
	logger zerolog.Logger,
) *Service {
	if opts.Retention <= 0 {
		opts.Retention = defaultRetention
	}
	if model == nil {
		model = rating.NewElo(rating.DefaultConfig())
	}
	return &Service{
		selector:    timedSelector{next: selector, metrics: m},
		model:       model,
		players:     players,
		recorder:    countingRecorder{next: recorder, metrics: m},
		results:     results,
		broadcaster: broadcaster,
		prefetch:    prefetch,
		metrics:     m,
		opts:        opts,
		logger:      logger.With().Str("component", "match_service").Logger(),
		matches:     make(map[string]*Engine),
	}
}

// Create builds, initializes and starts a match. Configuration problems come
// back as *ConfigError; selection failures finish the match instead.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Snapshot, error) {
	cfg, err := s.buildConfig(ctx, req)
	if err != nil {
		return Snapshot{}, err
	}

	e := NewEngine(s.selector, s.model, EngineOptions{
		Recorder:      s.recorder,
		FetchTimeout:  s.opts.FetchTimeout,
		SettleTimeout: s.opts.Defaults.SettleTimeout,
	}, s.logger)
	sub := e.Subscribe()
	if err := e.Initialize(cfg); err != nil {
		sub.Unsubscribe()
		return Snapshot{}, err
	}

	s.mu.Lock()
	s.matches[e.ID()] = e
	s.mu.Unlock()
	s.metrics.MatchStarted()
	s.wg.Add(1)
	go s.watch(e, sub)

	s.warm(cfg)
	if err := e.Start(ctx); err != nil {
		_ = e.Abort("start failed")
		return Snapshot{}, fmt.Errorf("start match: %w", err)
	}

	s.logger.Info().
		Str("match_id", e.ID()).
		Str("subject", cfg.Subject).
		Str("termination", string(cfg.Termination.Mode)).
		Msg("match created")
	return e.State(), nil
}

func (s *Service) buildConfig(ctx context.Context, req CreateRequest) (Config, error) {
	d := s.opts.Defaults
	cfg := Config{
		Subject:         req.Subject,
		Language:        req.Language,
		Theme:           req.Theme,
		QuestionTimeout: time.Duration(req.QuestionTimeoutMs) * time.Millisecond,
		KFactor:         req.KFactor,
		BatchSize:       req.BatchSize,
		GoalPolicy:      req.GoalPolicy,
		Termination: Termination{
			Mode:  req.TerminationMode,
			Value: req.TerminationValue,
		},
	}
	if cfg.QuestionTimeout == 0 {
		cfg.QuestionTimeout = d.QuestionTimeout
	}
	if cfg.KFactor == 0 {
		cfg.KFactor = d.KFactor
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = d.BatchSize
	}
	if cfg.GoalPolicy == "" {
		cfg.GoalPolicy = GoalPolicy(d.GoalPolicy)
	}
	if cfg.Termination.Mode == "" {
		cfg.Termination.Mode = TerminationMode(d.TerminationMode)
		if cfg.Termination.Value == 0 {
			cfg.Termination.Value = d.TerminationValue
		}
	}

	for i, spec := range req.Players {
		p := Player{
			ID:          spec.ID,
			DisplayName: spec.DisplayName,
			Grade:       spec.Grade,
			IsRival:     spec.Rival,
		}
		switch {
		case spec.Rating != nil:
			p.Rating = *spec.Rating
		case spec.Rival:
			// Resolved against the opponent below.
		default:
			r, err := s.lookupRating(ctx, spec)
			if err != nil {
				return Config{}, err
			}
			p.Rating = r
		}
		cfg.Players[i] = p
	}
	for i, spec := range req.Players {
		if spec.Rival && spec.Rating == nil {
			cfg.Players[i].Rating = cfg.Players[1-i].Rating
			if req.Players[1-i].Rival && req.Players[1-i].Rating == nil {
				cfg.Players[i].Rating = defaultRating
			}
		}
	}
	return cfg, nil
}

func (s *Service) lookupRating(ctx context.Context, spec PlayerSpec) (float64, error) {
	if s.players == nil || spec.ID == "" {
		return defaultRating, nil
	}
	if spec.Grade < question.MinGrade || spec.Grade > question.MaxGrade {
		// Validation reports the grade; do not persist a bad row.
		return defaultRating, nil
	}
	p, err := s.players.Ensure(ctx, sqlcgen.EnsurePlayerParams{
		PlayerID:    spec.ID,
		DisplayName: spec.DisplayName,
		Grade:       int16(spec.Grade),
		Rating:      defaultRating,
	})
	if err != nil {
		return 0, fmt.Errorf("load player %s: %w", spec.ID, err)
	}
	return p.Rating, nil
}

func (s *Service) warm(cfg Config) {
	if s.prefetch == nil {
		return
	}
	lang := cfg.Language
	if lang == "" {
		lang = "en"
	}
	for _, p := range cfg.Players {
		key := question.PoolKey{
			Grade:    p.Grade,
			Subject:  cfg.Subject,
			Language: lang,
			Band:     s.opts.Bands.BandFor(p.Rating, p.Grade),
		}
		if !s.prefetch.Enqueue(key) {
			s.logger.Debug().Str("pool", key.String()).Msg("prefetch queue full")
		}
	}
}

// watch relays engine events to metrics and watchers until the match ends.
func (s *Service) watch(e *Engine, sub *Subscription) {
	defer s.wg.Done()
	for ev := range sub.C() {
		switch ev.Kind {
		case EventGoalScored:
			s.metrics.Goal()
		case EventPoolLow:
			s.metrics.PoolLow()
		case EventGameEnded:
			s.metrics.MatchFinished(string(ev.Result.Outcome))
		}
		s.broadcast(ev)
	}
	<-e.Done()

	id := e.ID()
	time.AfterFunc(s.opts.Retention, func() {
		s.evict(id)
	})
}

func (s *Service) broadcast(ev Event) {
	if s.broadcaster == nil {
		return
	}
	msg, err := EventMessage(ev)
	if err != nil {
		s.logger.Warn().Err(err).Str("match_id", ev.MatchID).Msg("encode match event")
		return
	}
	if err := s.broadcaster.BroadcastToMatch(ev.MatchID, msg); err != nil {
		s.logger.Debug().Err(err).Str("match_id", ev.MatchID).Msg("broadcast match event")
	}
}

func (s *Service) evict(matchID string) {
	s.mu.Lock()
	delete(s.matches, matchID)
	s.mu.Unlock()
	if s.broadcaster != nil {
		s.broadcaster.DropMatch(matchID)
	}
	s.logger.Debug().Str("match_id", matchID).Msg("match evicted")
}

func (s *Service) engine(matchID string) (*Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return e, nil
}

// Submit forwards an answer to the match.
func (s *Service) Submit(ctx context.Context, matchID, playerID string, sub Submission) (Ack, error) {
	e, err := s.engine(matchID)
	if err != nil {
		return Ack{}, err
	}
	ack := e.SubmitAnswer(ctx, playerID, sub)
	s.metrics.Answer(string(ack.Reason))
	return ack, nil
}

// Abort cancels a running match.
func (s *Service) Abort(matchID, reason string) error {
	e, err := s.engine(matchID)
	if err != nil {
		return err
	}
	return e.Abort(reason)
}

// Snapshot returns the live state of a match.
func (s *Service) Snapshot(matchID string) (Snapshot, error) {
	e, err := s.engine(matchID)
	if err != nil {
		return Snapshot{}, err
	}
	return e.State(), nil
}

// Subscribe opens an event stream on a live match.
func (s *Service) Subscribe(matchID string, kinds ...EventKind) (*Subscription, error) {
	e, err := s.engine(matchID)
	if err != nil {
		return nil, err
	}
	return e.Subscribe(kinds...), nil
}

// Result returns a finished match's result from memory or the result store.
func (s *Service) Result(ctx context.Context, matchID string) (Result, error) {
	if e, err := s.engine(matchID); err == nil {
		if res, ok := e.Result(); ok {
			return res, nil
		}
		return Result{}, ErrMatchInProgress
	}
	if s.results == nil {
		return Result{}, ErrMatchNotFound
	}
	res, found, err := s.results.Get(ctx, matchID)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return Result{}, ErrMatchNotFound
	}
	return res, nil
}

// List returns snapshots of every match held in memory, oldest id first.
func (s *Service) List() []Snapshot {
	s.mu.RLock()
	engines := make([]*Engine, 0, len(s.matches))
	for _, e := range s.matches {
		engines = append(engines, e)
	}
	s.mu.RUnlock()

	out := make([]Snapshot, 0, len(engines))
	for _, e := range engines {
		out = append(out, e.State())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out
}

// Shutdown cancels every running match and waits for their results to be
// recorded or for ctx to expire.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	engines := make([]*Engine, 0, len(s.matches))
	for _, e := range s.matches {
		engines = append(engines, e)
	}
	s.mu.RUnlock()

	for _, e := range engines {
		if err := e.Abort("server shutting down"); err != nil && !errors.Is(err, ErrAlreadyFinished) {
			s.logger.Warn().Err(err).Str("match_id", e.ID()).Msg("abort on shutdown")
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type timedSelector struct {
	next    Selector
	metrics *metrics.Metrics
}

func (t timedSelector) Select(ctx context.Context, req question.Request) (question.Selection, error) {
	start := time.Now()
	sel, err := t.next.Select(ctx, req)
	t.metrics.ObserveSelect(time.Since(start).Seconds())
	return sel, err
}

type countingRecorder struct {
	next    ResultRecorder
	metrics *metrics.Metrics
}

func (c countingRecorder) Record(ctx context.Context, res Result) error {
	if c.next == nil {
		return nil
	}
	err := c.next.Record(ctx, res)
	if err != nil {
		c.metrics.RecordFailed()
	}
	return err
}
