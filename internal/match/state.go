package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultResultTTL = 2 * time.Hour

// ResultStore keeps finished match results in Redis so they stay readable
// after the engine has been evicted from memory.
type ResultStore struct {
	redis  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewResultStore creates a result store backed by Redis.
func NewResultStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *ResultStore {
	if ttl <= 0 {
		ttl = defaultResultTTL
	}
	return &ResultStore{
		redis:  client,
		ttl:    ttl,
		logger: logger,
	}
}

func resultKey(matchID string) string {
	return fmt.Sprintf("match:result:%s", matchID)
}

// Record implements ResultRecorder.
func (s *ResultStore) Record(ctx context.Context, res Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := s.redis.Set(ctx, resultKey(res.MatchID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store result: %w", err)
	}
	return nil
}

// Get returns the stored result, or false when none is cached.
func (s *ResultStore) Get(ctx context.Context, matchID string) (Result, bool, error) {
	data, err := s.redis.Get(ctx, resultKey(matchID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, fmt.Errorf("get result: %w", err)
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		s.logger.Warn().Err(err).Str("match_id", matchID).Msg("skip corrupted match result")
		return Result{}, false, nil
	}
	return res, true, nil
}
