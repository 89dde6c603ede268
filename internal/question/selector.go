package question

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultMaxWidening = 2
	defaultPoolFactor  = 4
	minPoolLimit       = 20
)

// Repository is the upstream question source. Implementations must not return
// duplicate ids within one call and may return fewer than Limit.
type Repository interface {
	GetAdaptiveQuestions(ctx context.Context, q Query) ([]Question, error)
}

// Request asks for Count questions for one player.
type Request struct {
	Grade    int
	Rating   float64
	Subject  string
	Language string
	Count    int
	// Exclude holds ids already consumed by the match.
	Exclude map[string]struct{}
}

// Selection is the selector's result. LowPool is set when fewer than the
// requested count were found.
type Selection struct {
	Questions []Question
	Band      Band
	Widened   int
	LowPool   *LowPoolWarning
}

// SelectorOptions tunes a Selector. Zero values fall back to defaults.
type SelectorOptions struct {
	Bands       BandTable
	MaxWidening int
	PoolFactor  int
	Seed        uint64
}

// Selector picks rating-appropriate questions from a Repository.
type Selector struct {
	repo        Repository
	bands       BandTable
	maxWidening int
	poolFactor  int
	logger      zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSelector(repo Repository, opts SelectorOptions, logger zerolog.Logger) *Selector {
	if opts.MaxWidening <= 0 {
		opts.MaxWidening = defaultMaxWidening
	}
	if opts.PoolFactor <= 0 {
		opts.PoolFactor = defaultPoolFactor
	}
	if len(opts.Bands.rules) == 0 {
		opts.Bands = DefaultBandTable()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Selector{
		repo:        repo,
		bands:       opts.Bands,
		maxWidening: opts.MaxWidening,
		poolFactor:  opts.PoolFactor,
		logger:      logger.With().Str("component", "question_selector").Logger(),
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Select returns up to req.Count unique questions not in req.Exclude.
// The band widens by one tier per step, at most MaxWidening times, while the
// pool is short. A short final pool is returned with a LowPool warning.
// Repository failures come back as *RepositoryError.
func (s *Selector) Select(ctx context.Context, req Request) (Selection, error) {
	if req.Count <= 0 {
		return Selection{Band: s.bands.BandFor(req.Rating, req.Grade)}, nil
	}
	ceiling := GradeCeiling(req.Grade)
	band := s.bands.BandFor(req.Rating, req.Grade)
	exclude := make([]string, 0, len(req.Exclude))
	for id := range req.Exclude {
		exclude = append(exclude, id)
	}

	var (
		pool    []Question
		widened int
	)
	for {
		found, err := s.query(ctx, req, band, exclude)
		if err != nil {
			return Selection{}, err
		}
		pool = found
		if len(pool) >= req.Count || widened >= s.maxWidening {
			break
		}
		next := band.Widen(ceiling)
		if next == band {
			break
		}
		band = next
		widened++
		s.logger.Debug().
			Int("grade", req.Grade).
			Float64("rating", req.Rating).
			Str("band", band.String()).
			Int("pool", len(pool)).
			Msg("widening difficulty band")
	}

	s.shuffle(pool)
	sel := Selection{Band: band, Widened: widened}
	if len(pool) > req.Count {
		pool = pool[:req.Count]
	}
	sel.Questions = pool
	if len(pool) < req.Count {
		sel.LowPool = &LowPoolWarning{
			Requested: req.Count,
			Returned:  len(pool),
			Widened:   widened,
			Band:      band,
		}
		s.logger.Warn().
			Int("requested", req.Count).
			Int("returned", len(pool)).
			Str("band", band.String()).
			Msg("question pool low")
	}
	return sel, nil
}

func (s *Selector) query(ctx context.Context, req Request, band Band, exclude []string) ([]Question, error) {
	limit := req.Count * s.poolFactor
	if limit < minPoolLimit {
		limit = minPoolLimit
	}
	found, err := s.repo.GetAdaptiveQuestions(ctx, Query{
		Grade:      req.Grade,
		Rating:     req.Rating,
		Subject:    req.Subject,
		Language:   req.Language,
		Tiers:      band,
		Limit:      limit,
		ExcludeIDs: exclude,
	})
	if err != nil {
		var repoErr *RepositoryError
		if errors.As(err, &repoErr) {
			return nil, err
		}
		return nil, &RepositoryError{Op: "get adaptive questions", Err: err}
	}

	seen := make(map[string]struct{}, len(found))
	out := make([]Question, 0, len(found))
	for _, q := range found {
		if _, consumed := req.Exclude[q.ID]; consumed {
			continue
		}
		if _, dup := seen[q.ID]; dup {
			continue
		}
		if !band.Contains(q.Difficulty) {
			continue
		}
		seen[q.ID] = struct{}{}
		out = append(out, q)
	}
	return out, nil
}

func (s *Selector) shuffle(qs []Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
}
