package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/intelliplan-admin/internal/reconcile"
)

type snapshotStatus interface {
	Current() *reconcile.Snapshot
	LastError() error
}

type HealthHandler struct {
	snapshots snapshotStatus
}

func NewHealthHandler(snapshots snapshotStatus) *HealthHandler {
	return &HealthHandler{snapshots: snapshots}
}

// HealthCheck answers 200 once the first user snapshot is published and 503
// before that, with the list error when the last attempt failed.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	snap := h.snapshots.Current()
	if snap == nil {
		body := gin.H{"status": "starting"}
		if err := h.snapshots.LastError(); err != nil {
			body["status"] = "failing"
			body["error"] = err.Error()
		}
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"generation": snap.Generation,
		"users":      snap.Len(),
		"built_at":   snap.BuiltAt,
	})
}
