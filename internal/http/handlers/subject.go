package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/intelliplan-admin/internal/http/response"
	"github.com/yungbote/intelliplan-admin/internal/services"
)

type SubjectHandler struct {
	subjects services.SubjectService
}

func NewSubjectHandler(subjects services.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjects: subjects}
}

func (h *SubjectHandler) Create(c *gin.Context) {
	var in services.SubjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	s, err := h.subjects.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondErr(c, err, "subject_create_failed")
		return
	}
	response.RespondCreated(c, s)
}

func (h *SubjectHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in services.SubjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	s, err := h.subjects.Update(c.Request.Context(), id, in)
	if err != nil {
		response.RespondErr(c, err, "subject_update_failed")
		return
	}
	response.RespondOK(c, s)
}

func (h *SubjectHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.subjects.Delete(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err, "subject_delete_failed")
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
