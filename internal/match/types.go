package match

import (
	"time"

	"github.com/gokatarajesh/kickoff-quiz/internal/match/scoring"
	"github.com/gokatarajesh/kickoff-quiz/internal/question"
)

// Phase of the match state machine.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseInitializing   Phase = "initializing"
	PhaseAwaitingAnswer Phase = "awaiting-answer"
	PhaseScoring        Phase = "scoring"
	PhaseFinished       Phase = "finished"
)

// Outcome is how a finished match ended.
type Outcome string

const (
	OutcomeCompleted     Outcome = "completed"
	OutcomePoolExhausted Outcome = "pool_exhausted"
	OutcomeCancelled     Outcome = "cancelled"
	OutcomeFailed        Outcome = "failed"
)

// Settles reports whether ratings move for this outcome.
func (o Outcome) Settles() bool {
	return o == OutcomeCompleted || o == OutcomePoolExhausted
}

// TerminationMode selects the rule that ends a match.
type TerminationMode string

const (
	TerminateQuestionCount TerminationMode = "question_count"
	TerminateScoreTarget   TerminationMode = "score_target"
	TerminateDuration      TerminationMode = "duration"
)

// Termination is the configured end condition. For duration the value is in milliseconds.
type Termination struct {
	Mode  TerminationMode `json:"mode"`
	Value int64           `json:"value"`
}

// Duration returns the wall-clock limit for duration mode.
func (t Termination) Duration() time.Duration {
	return time.Duration(t.Value) * time.Millisecond
}

// GoalPolicy decides who scores when both players answer correctly.
type GoalPolicy string

const (
	// GoalFirstCorrect awards the goal to the first correct answer received.
	GoalFirstCorrect GoalPolicy = "first_correct"
	// GoalEveryCorrect awards a goal to each correct answer.
	GoalEveryCorrect GoalPolicy = "every_correct"
)

// Player describes one competitor at match setup.
type Player struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Rating      float64 `json:"rating"`
	Grade       int     `json:"grade"`
	IsRival     bool    `json:"is_rival"`
}

// Config is everything Initialize needs.
type Config struct {
	Players  [2]Player
	Subject  string
	Language string
	// Theme is cosmetic and passed through to snapshots.
	Theme       string
	Termination Termination
	// QuestionTimeout of zero uses the per-grade table.
	QuestionTimeout time.Duration
	// KFactor of zero keeps the rating model's own value.
	KFactor    float64
	BatchSize  int
	GoalPolicy GoalPolicy
}

// Submission is one answer attempt. Seq zero targets the active question.
type Submission struct {
	Seq uint64 `json:"seq"`
	question.Answer
}

// AckReason explains why a submission was or was not taken.
type AckReason string

const (
	AckAccepted      AckReason = "accepted"
	AckStale         AckReason = "stale"
	AckDuplicate     AckReason = "duplicate"
	AckNotAccepting  AckReason = "not_accepting"
	AckUnknownPlayer AckReason = "unknown_player"
	AckFinished      AckReason = "finished"
)

// Ack is the engine's answer to a submission. Only AckAccepted changes state.
type Ack struct {
	Accepted bool      `json:"accepted"`
	Reason   AckReason `json:"reason"`
	Seq      uint64    `json:"seq"`
}

// ActiveQuestion is the question currently on the pitch.
type ActiveQuestion struct {
	Question  question.Public `json:"question"`
	Order     int             `json:"order"`
	Owner     string          `json:"owner"`
	StartedAt time.Time       `json:"started_at"`
	Deadline  time.Time       `json:"deadline"`
	Remaining time.Duration   `json:"remaining"`
	Answered  []string        `json:"answered"`
}

// PlayerState is one player's view inside a snapshot.
type PlayerState struct {
	Player
	scoring.Line
	Queued int `json:"queued"`
}

// Snapshot is an immutable copy of the match state.
type Snapshot struct {
	MatchID     string          `json:"match_id"`
	Phase       Phase           `json:"phase"`
	Seq         uint64          `json:"seq"`
	Theme       string          `json:"theme,omitempty"`
	Subject     string          `json:"subject"`
	Language    string          `json:"language"`
	Termination Termination     `json:"termination"`
	Active      *ActiveQuestion `json:"active,omitempty"`
	Players     [2]PlayerState  `json:"players"`
	Scored      int             `json:"scored"`
	StartedAt   time.Time       `json:"started_at"`
	Elapsed     time.Duration   `json:"elapsed"`
	Outcome     Outcome         `json:"outcome,omitempty"`
}

// Player returns the state for id.
func (s Snapshot) Player(id string) (PlayerState, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerState{}, false
}

// PlayerResult is one side of a finished match.
type PlayerResult struct {
	PlayerID     string  `json:"player_id"`
	IsRival      bool    `json:"is_rival"`
	Score        int     `json:"score"`
	Correct      int     `json:"correct"`
	Incorrect    int     `json:"incorrect"`
	Unanswered   int     `json:"unanswered"`
	MaxStreak    int     `json:"max_streak"`
	RatingBefore float64 `json:"rating_before"`
	RatingAfter  float64 `json:"rating_after"`
	Delta        float64 `json:"delta"`
}

// Result is handed to consumers and persistence when the match finishes.
type Result struct {
	MatchID     string          `json:"match_id"`
	Outcome     Outcome         `json:"outcome"`
	WinnerID    string          `json:"winner_id,omitempty"`
	Players     [2]PlayerResult `json:"players"`
	Scored      int             `json:"scored"`
	Termination Termination     `json:"termination"`
	StartedAt   time.Time       `json:"started_at"`
	EndedAt     time.Time       `json:"ended_at"`
	Reason      string          `json:"reason,omitempty"`
	Err         error           `json:"-"`
}

// Player returns the result for id.
func (r Result) Player(id string) (PlayerResult, bool) {
	for _, p := range r.Players {
		if p.PlayerID == id {
			return p, true
		}
	}
	return PlayerResult{}, false
}
