package question

import (
	"context"
	"fmt"
	"sync"
)

type stubRepo struct {
	mu      sync.Mutex
	pool    []Question
	err     error
	queries []Query
}

func (r *stubRepo) GetAdaptiveQuestions(_ context.Context, q Query) ([]Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
	if r.err != nil {
		return nil, r.err
	}
	skip := make(map[string]struct{}, len(q.ExcludeIDs))
	for _, id := range q.ExcludeIDs {
		skip[id] = struct{}{}
	}
	var out []Question
	for _, item := range r.pool {
		if item.Grade != q.Grade || !q.Tiers.Contains(item.Difficulty) {
			continue
		}
		if q.Subject != "" && item.Subject != q.Subject {
			continue
		}
		if _, ok := skip[item.ID]; ok {
			continue
		}
		out = append(out, item)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (r *stubRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries)
}

func makePool(grade int, perTier map[int]int) []Question {
	var out []Question
	for tier := MinTier; tier <= MaxTier; tier++ {
		for i := 0; i < perTier[tier]; i++ {
			out = append(out, Question{
				ID:           fmt.Sprintf("g%d-t%d-%d", grade, tier, i),
				Text:         fmt.Sprintf("question %d at tier %d", i, tier),
				Type:         TypeMultipleChoice,
				Answers:      []string{"a", "b", "c", "d"},
				CorrectIndex: i % 4,
				Difficulty:   tier,
				Grade:        grade,
				Subject:      "math",
				Language:     "en",
			})
		}
	}
	return out
}
