package question

import (
	"strconv"
	"strings"
)

// Type tags a question's answer format.
type Type string

const (
	TypeMultipleChoice Type = "multiple-choice"
	TypeTrueFalse      Type = "true-false"
)

// Tier bounds.
const (
	MinTier = 1
	MaxTier = 5
)

// Grade bounds.
const (
	MinGrade = 1
	MaxGrade = 6
)

// Question is an immutable, fetched question. Answer data stays server-side.
type Question struct {
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	Type         Type     `json:"type"`
	Answers      []string `json:"answers,omitempty"`
	CorrectIndex int      `json:"correct_index"`
	CorrectBool  bool     `json:"correct_bool"`
	Difficulty   int      `json:"difficulty"`
	Grade        int      `json:"grade"`
	Subject      string   `json:"subject"`
	Language     string   `json:"language"`
}

// Public is the client-facing view of a question without its answer.
type Public struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Type       Type     `json:"type"`
	Answers    []string `json:"answers,omitempty"`
	Difficulty int      `json:"difficulty"`
	Subject    string   `json:"subject"`
}

// Public strips the answer.
func (q Question) Public() Public {
	answers := q.Answers
	if q.Type == TypeTrueFalse {
		answers = nil
	}
	return Public{
		ID:         q.ID,
		Text:       q.Text,
		Type:       q.Type,
		Answers:    append([]string(nil), answers...),
		Difficulty: q.Difficulty,
		Subject:    q.Subject,
	}
}

// Answer is a player's response. Literal wins over Index when set.
// For true-false questions index 0 means true and 1 means false.
type Answer struct {
	Index   int    `json:"index"`
	Literal string `json:"literal,omitempty"`
}

// IsCorrect checks an answer against the question's key.
func (q Question) IsCorrect(a Answer) bool {
	switch q.Type {
	case TypeTrueFalse:
		if a.Literal != "" {
			v, err := strconv.ParseBool(strings.TrimSpace(a.Literal))
			if err != nil {
				return false
			}
			return v == q.CorrectBool
		}
		if a.Index != 0 && a.Index != 1 {
			return false
		}
		return (a.Index == 0) == q.CorrectBool
	default:
		if a.Literal != "" {
			if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Answers) {
				return false
			}
			return strings.EqualFold(strings.TrimSpace(a.Literal), strings.TrimSpace(q.Answers[q.CorrectIndex]))
		}
		return a.Index == q.CorrectIndex && a.Index >= 0 && a.Index < len(q.Answers)
	}
}

// CorrectAnswer returns an Answer that IsCorrect accepts.
func (q Question) CorrectAnswer() Answer {
	if q.Type == TypeTrueFalse {
		if q.CorrectBool {
			return Answer{Index: 0}
		}
		return Answer{Index: 1}
	}
	return Answer{Index: q.CorrectIndex}
}

// WrongAnswer returns an Answer that IsCorrect rejects.
func (q Question) WrongAnswer(pick int) Answer {
	if q.Type == TypeTrueFalse {
		if q.CorrectBool {
			return Answer{Index: 1}
		}
		return Answer{Index: 0}
	}
	if len(q.Answers) < 2 {
		return Answer{Index: -1}
	}
	if pick < 0 {
		pick = -pick
	}
	idx := pick % (len(q.Answers) - 1)
	if idx >= q.CorrectIndex {
		idx++
	}
	return Answer{Index: idx}
}

// Query is what the selector asks a Repository for.
type Query struct {
	Grade      int
	Rating     float64
	Subject    string
	Language   string
	Tiers      Band
	Limit      int
	ExcludeIDs []string
}
