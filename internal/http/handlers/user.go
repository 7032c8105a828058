package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/intelliplan-admin/internal/http/response"
	"github.com/yungbote/intelliplan-admin/internal/services"
)

type UserHandler struct {
	profiles  services.ProfileService
	overrides services.OverrideService
}

func NewUserHandler(profiles services.ProfileService, overrides services.OverrideService) *UserHandler {
	return &UserHandler{profiles: profiles, overrides: overrides}
}

// GET /api/users/:id
func (uh *UserHandler) Profile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	profile, err := uh.profiles.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err, "profile_failed")
		return
	}
	response.RespondOK(c, profile)
}

// POST /api/users/:id/xp
// body: { "delta": -50 }
func (uh *UserHandler) AdjustXP(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Delta *int64 `json:"delta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Delta == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errMissingField("delta"))
		return
	}
	res, err := uh.overrides.AdjustXP(c.Request.Context(), id, *req.Delta)
	if err != nil {
		response.RespondErr(c, err, "xp_override_failed")
		return
	}
	response.RespondOK(c, res)
}

// PUT /api/users/:id/streak
// body: { "value": 12 }
func (uh *UserHandler) SetStreak(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Value *int `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Value == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errMissingField("value"))
		return
	}
	res, err := uh.overrides.SetStreak(c.Request.Context(), id, *req.Value)
	if err != nil {
		response.RespondErr(c, err, "streak_override_failed")
		return
	}
	response.RespondOK(c, res)
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}
