package question

import (
	"context"
	"strings"

	sqlcgen "github.com/gokatarajesh/kickoff-quiz/internal/db/sqlc"
)

// SubjectAll selects questions from every subject.
const SubjectAll = "all"

type adaptiveFetcher interface {
	FetchAdaptive(ctx context.Context, params sqlcgen.GetAdaptiveQuestionsParams) ([]sqlcgen.Question, error)
}

// Store adapts the Postgres question repository to Repository.
type Store struct {
	fetcher adaptiveFetcher
}

var _ Repository = (*Store)(nil)

func NewStore(fetcher adaptiveFetcher) *Store {
	return &Store{fetcher: fetcher}
}

func (s *Store) GetAdaptiveQuestions(ctx context.Context, q Query) ([]Question, error) {
	lang := q.Language
	if lang == "" {
		lang = "en"
	}
	subject := q.Subject
	if strings.EqualFold(strings.TrimSpace(subject), SubjectAll) {
		subject = ""
	}
	rows, err := s.fetcher.FetchAdaptive(ctx, sqlcgen.GetAdaptiveQuestionsParams{
		Grade:         int16(q.Grade),
		Language:      lang,
		Subject:       subject,
		MinDifficulty: int16(q.Tiers.Min),
		MaxDifficulty: int16(q.Tiers.Max),
		Excluded:      q.ExcludeIDs,
		RowLimit:      int32(q.Limit),
	})
	if err != nil {
		return nil, &RepositoryError{Op: "fetch adaptive", Err: err}
	}
	out := make([]Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

func fromRow(row sqlcgen.Question) Question {
	return Question{
		ID:           row.QuestionID,
		Text:         row.Text,
		Type:         Type(row.Type),
		Answers:      row.Answers,
		CorrectIndex: int(row.CorrectIndex),
		CorrectBool:  row.CorrectBool,
		Difficulty:   int(row.Difficulty),
		Grade:        int(row.Grade),
		Subject:      row.Subject,
		Language:     row.Language,
	}
}
