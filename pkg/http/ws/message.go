package ws

import "encoding/json"

// MessageType constants for WebSocket protocol.
const (
	// Client -> Server
	TypeSubscribeMatch   = "subscribe_match"
	TypeUnsubscribeMatch = "unsubscribe_match"
	TypeSubmitAnswer     = "submit_answer"
	TypeLeaveMatch       = "leave_match"
	TypeRequestState     = "request_state"
	TypePing             = "ping"

	// Server -> Client
	TypeMatchState = "match_state"
	TypeGoal       = "goal"
	TypePoolLow    = "pool_low"
	TypeMatchEnd   = "match_end"
	TypeAnswerAck  = "answer_ack"
	TypeError      = "error"
	TypePong       = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage encodes payload into a typed message.
func NewMessage(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: data}, nil
}

// Client Messages (incoming)

type SubscribeMatchPayload struct {
	MatchID string `json:"match_id"`
}

type SubmitAnswerPayload struct {
	MatchID string `json:"match_id"`
	Seq     uint64 `json:"seq"`
	Index   int    `json:"index"`
	Literal string `json:"literal,omitempty"`
}

type LeaveMatchPayload struct {
	MatchID string `json:"match_id"`
	Reason  string `json:"reason"`
}

// Server Messages (outgoing)

type GoalPayload struct {
	MatchID    string `json:"match_id"`
	PlayerID   string `json:"player_id"`
	NewScore   int    `json:"new_score"`
	QuestionID string `json:"question_id"`
}

type PoolLowPayload struct {
	MatchID   string `json:"match_id"`
	PlayerID  string `json:"player_id"`
	Requested int    `json:"requested"`
	Returned  int    `json:"returned"`
	Band      string `json:"band"`
}

type AnswerAckPayload struct {
	MatchID          string `json:"match_id"`
	Seq              uint64 `json:"seq"`
	Accepted         bool   `json:"accepted"`
	Reason           string `json:"reason"`
	ServerReceivedAt string `json:"server_received_at"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
