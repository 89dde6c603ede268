package scoring

// Line is one player's running tally within a match.
type Line struct {
	PlayerID   string `json:"player_id"`
	Score      int    `json:"score"`
	Correct    int    `json:"correct"`
	Incorrect  int    `json:"incorrect"`
	Unanswered int    `json:"unanswered"`
	Streak     int    `json:"streak"`
	MaxStreak  int    `json:"max_streak"`
}

// Answered returns how many questions the player was scored on.
func (l Line) Answered() int {
	return l.Correct + l.Incorrect + l.Unanswered
}

// Accuracy is correct / answered, 0 when nothing has been scored.
func (l Line) Accuracy() float64 {
	total := l.Answered()
	if total == 0 {
		return 0
	}
	return float64(l.Correct) / float64(total)
}

// Mark is the result of one player's answer to one question.
type Mark int

const (
	MarkUnanswered Mark = iota
	MarkCorrect
	MarkIncorrect
)

// Tracker keeps score and streaks for the two players of a match.
// It is a value owned by the engine state and is not safe for concurrent use.
type Tracker struct {
	lines [2]Line
}

// NewTracker creates a tracker for two players.
func NewTracker(player1ID, player2ID string) Tracker {
	return Tracker{lines: [2]Line{{PlayerID: player1ID}, {PlayerID: player2ID}}}
}

// Record applies a mark; goal says whether it counts as a point.
// A correct answer that does not score still extends the streak.
func (t *Tracker) Record(playerID string, mark Mark, goal bool) (Line, bool) {
	idx := t.index(playerID)
	if idx < 0 {
		return Line{}, false
	}
	line := &t.lines[idx]

	switch mark {
	case MarkCorrect:
		line.Correct++
		line.Streak++
		if line.Streak > line.MaxStreak {
			line.MaxStreak = line.Streak
		}
		if goal {
			line.Score++
		}
	case MarkIncorrect:
		line.Incorrect++
		line.Streak = 0
	default:
		line.Unanswered++
		line.Streak = 0
	}
	return *line, true
}

// Line returns the tally for a player.
func (t Tracker) Line(playerID string) (Line, bool) {
	idx := t.index(playerID)
	if idx < 0 {
		return Line{}, false
	}
	return t.lines[idx], true
}

// Lines returns both tallies in seat order.
func (t Tracker) Lines() [2]Line {
	return t.lines
}

// Leader returns the id of the player with the higher score, or "" on a tie.
func (t Tracker) Leader() string {
	switch {
	case t.lines[0].Score > t.lines[1].Score:
		return t.lines[0].PlayerID
	case t.lines[1].Score > t.lines[0].Score:
		return t.lines[1].PlayerID
	default:
		return ""
	}
}

// MaxScore returns the highest score of the two players.
func (t Tracker) MaxScore() int {
	if t.lines[0].Score > t.lines[1].Score {
		return t.lines[0].Score
	}
	return t.lines[1].Score
}

func (t Tracker) index(playerID string) int {
	for i := range t.lines {
		if t.lines[i].PlayerID == playerID {
			return i
		}
	}
	return -1
}
