package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultCacheTTL   = 5 * time.Minute
	defaultCachedPool = 60
)

// PoolKey identifies a cacheable pool of questions.
type PoolKey struct {
	Grade    int
	Subject  string
	Language string
	Band     Band
}

func (k PoolKey) String() string {
	return strings.Join([]string{
		"questionpool",
		fmt.Sprint(k.Grade),
		strings.ToLower(k.Subject),
		strings.ToLower(k.Language),
		k.Band.String(),
	}, ":")
}

// PoolCache stores question pools keyed by PoolKey.
type PoolCache interface {
	Get(ctx context.Context, key PoolKey) ([]Question, bool, error)
	Set(ctx context.Context, key PoolKey, qs []Question) error
}

// Cache is a Redis-backed PoolCache.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ PoolCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, key PoolKey) ([]Question, bool, error) {
	data, err := c.client.Get(ctx, key.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var qs []Question
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, false, err
	}
	return qs, true, nil
}

func (c *Cache) Set(ctx context.Context, key PoolKey, qs []Question) error {
	data, err := json.Marshal(qs)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key.String(), data, c.ttl).Err()
}

// CachedRepository is a read-through Repository decorator. Pools are cached
// without per-match exclusions; exclusions are applied on read. Reads return
// the whole filtered pool, not the first Limit rows, so callers that shuffle
// see every cached question. A cached pool too small for the request falls
// through to the wrapped repository.
type CachedRepository struct {
	next     Repository
	cache    PoolCache
	poolSize int
	logger   zerolog.Logger
}

var _ Repository = (*CachedRepository)(nil)

func NewCachedRepository(next Repository, cache PoolCache, poolSize int, logger zerolog.Logger) *CachedRepository {
	if poolSize <= 0 {
		poolSize = defaultCachedPool
	}
	return &CachedRepository{
		next:     next,
		cache:    cache,
		poolSize: poolSize,
		logger:   logger.With().Str("component", "question_cache").Logger(),
	}
}

func (r *CachedRepository) GetAdaptiveQuestions(ctx context.Context, q Query) ([]Question, error) {
	key := PoolKey{Grade: q.Grade, Subject: q.Subject, Language: q.Language, Band: q.Tiers}
	pool, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key.String()).Msg("question cache read failed")
	}
	if !ok {
		pool, err = r.Warm(ctx, key)
		if err != nil {
			return nil, err
		}
	}

	out := filterExcluded(pool, q.ExcludeIDs)
	if len(out) >= q.Limit {
		return out, nil
	}
	return r.next.GetAdaptiveQuestions(ctx, q)
}

// Warm loads the pool for key from the wrapped repository and stores it.
func (r *CachedRepository) Warm(ctx context.Context, key PoolKey) ([]Question, error) {
	pool, err := r.next.GetAdaptiveQuestions(ctx, Query{
		Grade:    key.Grade,
		Subject:  key.Subject,
		Language: key.Language,
		Tiers:    key.Band,
		Limit:    r.poolSize,
	})
	if err != nil {
		return nil, err
	}
	if len(pool) > 0 {
		if err := r.cache.Set(ctx, key, pool); err != nil {
			r.logger.Warn().Err(err).Str("key", key.String()).Msg("question cache write failed")
		}
	}
	return pool, nil
}

func filterExcluded(pool []Question, exclude []string) []Question {
	if len(exclude) == 0 {
		return append([]Question(nil), pool...)
	}
	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	out := make([]Question, 0, len(pool))
	for _, q := range pool {
		if _, ok := skip[q.ID]; ok {
			continue
		}
		out = append(out, q)
	}
	return out
}
