package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/alifhakimiazwan/RateMyCitra/internal/dto"
	"github.com/alifhakimiazwan/RateMyCitra/internal/service"
	appErrors "github.com/alifhakimiazwan/RateMyCitra/pkg/errors"
	"github.com/alifhakimiazwan/RateMyCitra/pkg/response"
)

type reportService interface {
	Submit(ctx context.Context, userID string, req dto.ReportRequest) error
}

// ReportHandler records abuse reports against reviews.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Submit godoc
// @Summary Report a review
// @Tags Report
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ReportRequest true "Report"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /report [post]
func (h *ReportHandler) Submit(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload"))
		return
	}
	if err := h.service.Submit(c.Request.Context(), userID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.MessageResponse{Message: service.ReportSubmittedMessage})
}
