package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/intelliplan-admin/internal/http/response"
	"github.com/yungbote/intelliplan-admin/internal/services"
)

type FeedbackHandler struct {
	feedback services.FeedbackService
}

func NewFeedbackHandler(feedback services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

func (h *FeedbackHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	fb, err := h.feedback.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err, "feedback_failed")
		return
	}
	response.RespondOK(c, fb)
}

// Resolve marks the item resolved by the calling operator.
func (h *FeedbackHandler) Resolve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	fb, err := h.feedback.Resolve(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err, "feedback_resolve_failed")
		return
	}
	response.RespondOK(c, fb)
}
