package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestion_IsCorrectMultipleChoice(t *testing.T) {
	q := Question{Type: TypeMultipleChoice, Answers: []string{"Paris", "Rome", "Bern"}, CorrectIndex: 2}

	assert.True(t, q.IsCorrect(Answer{Index: 2}))
	assert.False(t, q.IsCorrect(Answer{Index: 0}))
	assert.False(t, q.IsCorrect(Answer{Index: 7}))
	assert.True(t, q.IsCorrect(Answer{Literal: " bern "}))
	assert.False(t, q.IsCorrect(Answer{Index: 2, Literal: "Rome"}))
	assert.True(t, q.IsCorrect(q.CorrectAnswer()))
	for i := 0; i < 5; i++ {
		assert.False(t, q.IsCorrect(q.WrongAnswer(i)))
	}
}

func TestQuestion_IsCorrectTrueFalse(t *testing.T) {
	q := Question{Type: TypeTrueFalse, CorrectBool: false}

	assert.True(t, q.IsCorrect(Answer{Index: 1}))
	assert.False(t, q.IsCorrect(Answer{Index: 0}))
	assert.True(t, q.IsCorrect(Answer{Literal: "false"}))
	assert.False(t, q.IsCorrect(Answer{Literal: "maybe"}))
	assert.True(t, q.IsCorrect(q.CorrectAnswer()))
	assert.False(t, q.IsCorrect(q.WrongAnswer(0)))
}

func TestQuestion_PublicHidesAnswer(t *testing.T) {
	q := Question{ID: "q1", Type: TypeMultipleChoice, Answers: []string{"a", "b"}, CorrectIndex: 1, Difficulty: 3}
	p := q.Public()
	assert.Equal(t, "q1", p.ID)
	assert.Equal(t, []string{"a", "b"}, p.Answers)
	assert.Equal(t, 3, p.Difficulty)
}
