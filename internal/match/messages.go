package match

import (
	"fmt"

	"github.com/gokatarajesh/kickoff-quiz/pkg/http/ws"
)

// EventMessage encodes an engine event for WebSocket watchers.
func EventMessage(ev Event) (ws.Message, error) {
	switch ev.Kind {
	case EventPhaseChanged:
		return ws.NewMessage(ws.TypeMatchState, ev.Snapshot)
	case EventGoalScored:
		return ws.NewMessage(ws.TypeGoal, ws.GoalPayload{
			MatchID:    ev.MatchID,
			PlayerID:   ev.Goal.PlayerID,
			NewScore:   ev.Goal.NewScore,
			QuestionID: ev.Goal.QuestionID,
		})
	case EventPoolLow:
		return ws.NewMessage(ws.TypePoolLow, ws.PoolLowPayload{
			MatchID:   ev.MatchID,
			PlayerID:  ev.PoolLow.PlayerID,
			Requested: ev.PoolLow.Requested,
			Returned:  ev.PoolLow.Returned,
			Band:      ev.PoolLow.Band.String(),
		})
	case EventGameEnded:
		return ws.NewMessage(ws.TypeMatchEnd, ev.Result)
	default:
		return ws.Message{}, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}
