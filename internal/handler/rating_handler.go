package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alifhakimiazwan/RateMyCitra/internal/contentfilter"
	"github.com/alifhakimiazwan/RateMyCitra/internal/dto"
	"github.com/alifhakimiazwan/RateMyCitra/internal/service"
	appErrors "github.com/alifhakimiazwan/RateMyCitra/pkg/errors"
	"github.com/alifhakimiazwan/RateMyCitra/pkg/response"
)

type ratingService interface {
	Submit(ctx context.Context, userID string, req dto.SubmitRatingRequest) error
	CheckContent(text string) contentfilter.Result
}

// RatingHandler accepts ratings and previews the content filter.
type RatingHandler struct {
	service ratingService
}

// NewRatingHandler constructs the handler.
func NewRatingHandler(service ratingService) *RatingHandler {
	return &RatingHandler{service: service}
}

// Submit godoc
// @Summary Rate a citra
// @Tags Rating
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SubmitRatingRequest true "Rating"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /rating/add [post]
func (h *RatingHandler) Submit(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rating payload"))
		return
	}
	if err := h.service.Submit(c.Request.Context(), userID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.MessageResponse{Message: service.RatingSubmittedMessage})
}

// CheckContent godoc
// @Summary Check review text against the content filter
// @Tags Rating
// @Accept json
// @Produce json
// @Param payload body dto.ContentCheckRequest true "Text"
// @Success 200 {object} response.Envelope
// @Router /content/check [post]
func (h *RatingHandler) CheckContent(c *gin.Context) {
	var req dto.ContentCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "text is required"))
		return
	}
	response.JSON(c, http.StatusOK, h.service.CheckContent(req.Text))
}
