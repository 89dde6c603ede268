package match

import (
	"context"
	"time"
)

// RivalAccuracy is the probability that a simulated rival answers correctly.
// Stronger rivals answer more accurately, harder tiers cost accuracy and a
// running streak of three or more adds a little confidence.
func RivalAccuracy(rating float64, tier, streak int) float64 {
	acc := clamp((rating-800)/1000, 0.3, 0.95)
	if tier > 2 {
		acc -= 0.05 * float64(tier-2)
	}
	if streak >= 3 {
		acc += 0.1
	}
	return clamp(acc, 0.1, 0.98)
}

// RivalDelay is how long a rival "thinks" before answering. jitter is
// expected in [0.85, 1.15]. The delay always lands inside the answer window.
func RivalDelay(timeout time.Duration, tier int, jitter float64) time.Duration {
	base := 0.4 * float64(timeout) * (0.8 + 0.1*float64(tier)) * jitter
	lo := min(time.Second, timeout/2)
	hi := timeout - 500*time.Millisecond
	if hi < lo {
		hi = lo
	}
	return time.Duration(clamp(base, float64(lo), float64(hi)))
}

// planRivals schedules an answer for every rival seat on the active question.
func (e *Engine) planRivals() {
	a := e.active
	for _, p := range e.cfg.Players {
		if !p.IsRival {
			continue
		}
		line, _ := e.tracker.Line(p.ID)
		ans := a.q.WrongAnswer(e.rng.IntN(16))
		if e.rng.Float64() < RivalAccuracy(p.Rating, a.q.Difficulty, line.Streak) {
			ans = a.q.CorrectAnswer()
		}
		delay := RivalDelay(a.timeout, a.q.Difficulty, 0.85+0.3*e.rng.Float64())
		playerID, seq := p.ID, a.seq
		e.rivalTimers = append(e.rivalTimers, time.AfterFunc(delay, func() {
			ack := e.SubmitAnswer(context.Background(), playerID, Submission{Seq: seq, Answer: ans})
			if !ack.Accepted {
				e.logger.Debug().Str("player_id", playerID).Str("reason", string(ack.Reason)).Msg("rival answer dropped")
			}
		}))
	}
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
