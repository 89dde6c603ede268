package match

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/gokatarajesh/kickoff-quiz/internal/server"
	httperrors "github.com/gokatarajesh/kickoff-quiz/pkg/http/errors"
)

// HandleWebSocket upgrades the HTTP connection. The player_id query parameter
// identifies a seated player; spectators may omit it.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientID := strings.TrimSpace(r.URL.Query().Get("player_id"))
	if len(clientID) > 128 {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "player_id is too long")
		return
	}
	if clientID == "" {
		clientID = "watcher-" + uuid.NewString()
	}

	// Upgrade to WebSocket
	conn, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.HandleConnection(conn, clientID)
}
