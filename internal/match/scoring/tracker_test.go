package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerRecordsGoalsAndStreaks(t *testing.T) {
	tr := NewTracker("a", "b")

	tr.Record("a", MarkCorrect, true)
	tr.Record("a", MarkCorrect, true)
	line, ok := tr.Record("a", MarkIncorrect, false)
	require.True(t, ok)

	assert.Equal(t, 2, line.Score)
	assert.Equal(t, 0, line.Streak)
	assert.Equal(t, 2, line.MaxStreak)
	assert.Equal(t, 3, line.Answered())
	assert.InDelta(t, 2.0/3.0, line.Accuracy(), 1e-9)
}

func TestTrackerCorrectWithoutGoalKeepsStreak(t *testing.T) {
	tr := NewTracker("a", "b")

	line, _ := tr.Record("b", MarkCorrect, false)

	assert.Equal(t, 0, line.Score)
	assert.Equal(t, 1, line.Correct)
	assert.Equal(t, 1, line.Streak)
}

func TestTrackerUnansweredBreaksStreak(t *testing.T) {
	tr := NewTracker("a", "b")
	tr.Record("b", MarkCorrect, true)

	line, _ := tr.Record("b", MarkUnanswered, false)

	assert.Equal(t, 1, line.Unanswered)
	assert.Equal(t, 0, line.Streak)
}

func TestTrackerUnknownPlayer(t *testing.T) {
	tr := NewTracker("a", "b")

	_, ok := tr.Record("ghost", MarkCorrect, true)
	assert.False(t, ok)
	_, ok = tr.Line("ghost")
	assert.False(t, ok)
}

func TestTrackerLeader(t *testing.T) {
	tr := NewTracker("a", "b")
	assert.Equal(t, "", tr.Leader())

	tr.Record("b", MarkCorrect, true)
	assert.Equal(t, "b", tr.Leader())
	assert.Equal(t, 1, tr.MaxScore())

	tr.Record("a", MarkCorrect, true)
	assert.Equal(t, "", tr.Leader())
}

func TestAccuracyEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Line{}.Accuracy())
}
