package repository

import (
	"context"

	sqlcgen "github.com/gokatarajesh/kickoff-quiz/internal/db/sqlc"
)

type questionStore interface {
	GetAdaptiveQuestions(ctx context.Context, arg sqlcgen.GetAdaptiveQuestionsParams) ([]sqlcgen.Question, error)
}

// QuestionRepository wraps sqlc queries for curated question access.
type QuestionRepository struct {
	store questionStore
}

func NewQuestionRepository(store questionStore) *QuestionRepository {
	return &QuestionRepository{store: store}
}

// FetchAdaptive returns verified questions for a grade, language, optional
// subject and difficulty range, in random order.
func (r *QuestionRepository) FetchAdaptive(ctx context.Context, params sqlcgen.GetAdaptiveQuestionsParams) ([]sqlcgen.Question, error) {
	if params.Excluded == nil {
		params.Excluded = []string{}
	}
	return r.store.GetAdaptiveQuestions(ctx, params)
}
