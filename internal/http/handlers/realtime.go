package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/intelliplan-admin/internal/http/response"
	"github.com/yungbote/intelliplan-admin/internal/observability"
	"github.com/yungbote/intelliplan-admin/internal/platform/ctxutil"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"github.com/yungbote/intelliplan-admin/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub

	mu      sync.Mutex
	clients map[uuid.UUID]*realtime.SSEClient // key: operator session
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{
		log:     log.With("handler", "RealtimeHandler"),
		hub:     hub,
		clients: make(map[uuid.UUID]*realtime.SSEClient),
	}
}

// Stream holds one event stream per operator session. Opening a second
// stream for the same session closes the first.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	op := ctxutil.GetOperator(c.Request.Context())
	if op == nil || op.SessionID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errNoOperator)
		return
	}

	h.mu.Lock()
	if existing, ok := h.clients[op.SessionID]; ok {
		h.hub.CloseClient(existing)
		delete(h.clients, op.SessionID)
		observability.Current().SSEClients(-1)
	}
	client := h.hub.NewSSEClient(op.SessionID)
	h.clients[op.SessionID] = client
	h.mu.Unlock()
	observability.Current().SSEClients(1)

	h.log.Debug("event stream open", "session_id", op.SessionID, "client_id", client.ID)
	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.mu.Lock()
	if h.clients[op.SessionID] == client {
		delete(h.clients, op.SessionID)
		h.hub.CloseClient(client)
		observability.Current().SSEClients(-1)
	}
	h.mu.Unlock()
}

// Connected reports the number of open streams.
func (h *RealtimeHandler) Connected() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
