package handlers

import (
	"github.com/gin-gonic/gin"

	"dormdesk/internal/domain/registration"
	"dormdesk/internal/infrastructure/http/v1/dto"
)

// StudentHandler creates a student (person, guest and optional guardian)
// outside of the registration wizard.
type StudentHandler struct {
	*BaseHandler
	service *registration.Service
}

func NewStudentHandler(base *BaseHandler, service *registration.Service) *StudentHandler {
	return &StudentHandler{BaseHandler: base, service: service}
}

// Create handles POST /students.
func (h *StudentHandler) Create(c *gin.Context) {
	var req registration.StudentInput
	if !h.BindJSON(c, &req) {
		return
	}
	outcome, report, err := h.service.CreateStudent(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.StudentResponse{Outcome: outcome, Report: report})
}
