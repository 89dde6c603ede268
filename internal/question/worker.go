package question

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Warmer fills a pool cache ahead of demand.
type Warmer interface {
	Warm(ctx context.Context, key PoolKey) ([]Question, error)
}

// PrefetchWorker warms question pools for upcoming matches so the first
// selection of a match rarely waits on the database.
type PrefetchWorker struct {
	warmer    Warmer
	queue     chan PoolKey
	logger    zerolog.Logger
	timeout   time.Duration
	shutdownC chan struct{}
}

func NewPrefetchWorker(warmer Warmer, buffer int, logger zerolog.Logger, timeout time.Duration) *PrefetchWorker {
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	if buffer <= 0 {
		buffer = 64
	}
	return &PrefetchWorker{
		warmer:    warmer,
		queue:     make(chan PoolKey, buffer),
		logger:    logger.With().Str("component", "question_prefetch").Logger(),
		timeout:   timeout,
		shutdownC: make(chan struct{}),
	}
}

// Enqueue schedules key for warming. It drops the request when the queue is full.
func (w *PrefetchWorker) Enqueue(key PoolKey) bool {
	select {
	case w.queue <- key:
		return true
	default:
		w.logger.Debug().Str("key", key.String()).Msg("prefetch queue full")
		return false
	}
}

func (w *PrefetchWorker) Run() {
	for {
		select {
		case <-w.shutdownC:
			w.logger.Info().Msg("question prefetch stopping")
			return
		case key := <-w.queue:
			w.handle(key)
		}
	}
}

func (w *PrefetchWorker) handle(key PoolKey) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	pool, err := w.warmer.Warm(ctx, key)
	if err != nil {
		w.logger.Warn().Err(err).Str("key", key.String()).Msg("prefetch failed")
		return
	}
	w.logger.Debug().Str("key", key.String()).Int("questions", len(pool)).Msg("pool warmed")
}

func (w *PrefetchWorker) Stop() {
	close(w.shutdownC)
}
