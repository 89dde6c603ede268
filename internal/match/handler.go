package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/kickoff-quiz/internal/question"
	httperrors "github.com/gokatarajesh/kickoff-quiz/pkg/http/errors"
	"github.com/gokatarajesh/kickoff-quiz/pkg/http/ws"
)

// Handler manages WebSocket connections and routes match-related messages.
type Handler struct {
	service *Service
	hub     *ws.Hub
	logger  zerolog.Logger
}

// NewHandler creates a match WebSocket handler.
func NewHandler(service *Service, hub *ws.Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		logger:  logger,
	}
}

// HandleConnection serves one client until it disconnects. clientID doubles
// as the player id for answers sent over this connection.
func (h *Handler) HandleConnection(conn *websocket.Conn, clientID string) {
	wsConn := ws.NewConnection(conn, h.logger)
	h.hub.RegisterConnection(clientID, wsConn)

	// Start write pump
	go wsConn.WritePump()

	// Handle incoming messages
	wsConn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(context.Background(), clientID, msg)
	})

	// Cleanup on disconnect
	h.hub.UnregisterConnection(clientID)
}

// handleMessage routes incoming WebSocket messages.
func (h *Handler) handleMessage(ctx context.Context, clientID string, msg ws.Message) error {
	switch msg.Type {
	case ws.TypeSubscribeMatch:
		return h.handleSubscribe(clientID, msg)
	case ws.TypeUnsubscribeMatch:
		return h.handleUnsubscribe(clientID, msg)
	case ws.TypeSubmitAnswer:
		return h.handleSubmitAnswer(ctx, clientID, msg)
	case ws.TypeLeaveMatch:
		return h.handleLeaveMatch(clientID, msg)
	case ws.TypeRequestState:
		return h.handleRequestState(clientID, msg)
	case ws.TypePing:
		return h.reply(clientID, msg, ws.TypePong, struct{}{})
	default:
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeUnknownMessageType, fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

func (h *Handler) handleSubscribe(clientID string, msg ws.Message) error {
	var req ws.SubscribeMatchPayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil || req.MatchID == "" {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "Invalid subscribe_match payload")
	}
	snap, err := h.service.Snapshot(req.MatchID)
	if err != nil {
		return h.sendServiceError(clientID, msg.RequestID, err)
	}
	h.hub.JoinMatch(req.MatchID, clientID)
	return h.reply(clientID, msg, ws.TypeMatchState, snap)
}

func (h *Handler) handleUnsubscribe(clientID string, msg ws.Message) error {
	var req ws.SubscribeMatchPayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil || req.MatchID == "" {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "Invalid unsubscribe_match payload")
	}
	h.hub.LeaveMatch(req.MatchID, clientID)
	return nil
}

func (h *Handler) handleSubmitAnswer(ctx context.Context, clientID string, msg ws.Message) error {
	var req ws.SubmitAnswerPayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil || req.MatchID == "" {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "Invalid submit_answer payload")
	}
	if req.Seq == 0 {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeMissingField, "seq is required")
	}
	received := time.Now()
	ack, err := h.service.Submit(ctx, req.MatchID, clientID, Submission{
		Seq:    req.Seq,
		Answer: question.Answer{Index: req.Index, Literal: req.Literal},
	})
	if err != nil {
		return h.sendServiceError(clientID, msg.RequestID, err)
	}
	return h.reply(clientID, msg, ws.TypeAnswerAck, ws.AnswerAckPayload{
		MatchID:          req.MatchID,
		Seq:              ack.Seq,
		Accepted:         ack.Accepted,
		Reason:           string(ack.Reason),
		ServerReceivedAt: received.UTC().Format(time.RFC3339Nano),
	})
}

func (h *Handler) handleLeaveMatch(clientID string, msg ws.Message) error {
	var req ws.LeaveMatchPayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil || req.MatchID == "" {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "Invalid leave_match payload")
	}
	h.hub.LeaveMatch(req.MatchID, clientID)

	snap, err := h.service.Snapshot(req.MatchID)
	if err != nil {
		return h.sendServiceError(clientID, msg.RequestID, err)
	}
	if _, seated := snap.Player(clientID); !seated {
		return nil
	}
	reason := req.Reason
	if reason == "" {
		reason = fmt.Sprintf("player %s left", clientID)
	}
	if err := h.service.Abort(req.MatchID, reason); err != nil && !errors.Is(err, ErrAlreadyFinished) {
		return h.sendServiceError(clientID, msg.RequestID, err)
	}
	return nil
}

func (h *Handler) handleRequestState(clientID string, msg ws.Message) error {
	var req ws.SubscribeMatchPayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil || req.MatchID == "" {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "Invalid request_state payload")
	}
	snap, err := h.service.Snapshot(req.MatchID)
	if err != nil {
		return h.sendServiceError(clientID, msg.RequestID, err)
	}
	return h.reply(clientID, msg, ws.TypeMatchState, snap)
}

func (h *Handler) reply(clientID string, req ws.Message, msgType string, payload any) error {
	out, err := ws.NewMessage(msgType, payload)
	if err != nil {
		return err
	}
	out.RequestID = req.RequestID
	return h.hub.SendToClient(clientID, out)
}

func (h *Handler) sendServiceError(clientID, requestID string, err error) error {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		return h.sendError(clientID, requestID, httperrors.ErrCodeMatchNotFound, err.Error())
	case errors.Is(err, ErrAlreadyFinished):
		return h.sendError(clientID, requestID, httperrors.ErrCodeMatchFinished, err.Error())
	default:
		h.logger.Warn().Err(err).Str("client_id", clientID).Msg("match request failed")
		return h.sendError(clientID, requestID, httperrors.ErrCodeInternalError, "Request failed")
	}
}

func (h *Handler) sendError(clientID, requestID, code, message string) error {
	msg, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{Code: code, Message: message})
	if err != nil {
		return err
	}
	msg.RequestID = requestID
	return h.hub.SendToClient(clientID, msg)
}
