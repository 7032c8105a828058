package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/intelliplan-admin/internal/http/response"
	"github.com/yungbote/intelliplan-admin/internal/platform/ctxutil"
	"github.com/yungbote/intelliplan-admin/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondErr(c, err, "login_failed")
		return
	}
	response.RespondOK(c, res)
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context()); err != nil {
		response.RespondErr(c, err, "logout_failed")
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ah *AuthHandler) Me(c *gin.Context) {
	op := ctxutil.GetOperator(c.Request.Context())
	if op == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errNoOperator)
		return
	}
	response.RespondOK(c, gin.H{
		"user_id":    op.UserID,
		"email":      op.Email,
		"session_id": op.SessionID,
		"expires_in": int(ah.authService.GetAccessTTL().Seconds()),
	})
}
