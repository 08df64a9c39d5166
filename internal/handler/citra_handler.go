package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alifhakimiazwan/RateMyCitra/internal/dto"
	"github.com/alifhakimiazwan/RateMyCitra/internal/middleware"
	"github.com/alifhakimiazwan/RateMyCitra/internal/models"
	"github.com/alifhakimiazwan/RateMyCitra/internal/service"
	appErrors "github.com/alifhakimiazwan/RateMyCitra/pkg/errors"
	"github.com/alifhakimiazwan/RateMyCitra/pkg/response"
)

type citraService interface {
	List(ctx context.Context, filter models.CitraFilter) ([]models.CitraSummary, bool, error)
	ListPerSubject(ctx context.Context, filter models.CitraFilter) ([]models.CitraSummary, error)
	Get(ctx context.Context, ref string) (*models.CitraSummary, error)
	Search(ctx context.Context, query string, sort models.CitraSort) ([]models.CitraSummary, bool, error)
	Reviews(ctx context.Context, ref string, limit int) ([]models.Rating, error)
	BulkCreate(ctx context.Context, reqs []dto.CreateCitraRequest) (int, error)
}

type exportService interface {
	Export(ctx context.Context, format service.ExportFormat, filter models.CitraFilter) (*service.ExportFile, error)
}

// CitraHandler serves subject listings, lookups and admin inserts.
type CitraHandler struct {
	service citraService
	exports exportService
}

// NewCitraHandler constructs the handler.
func NewCitraHandler(service citraService, exports exportService) *CitraHandler {
	return &CitraHandler{service: service, exports: exports}
}

// List godoc
// @Summary List citras with rating statistics
// @Tags Citra
// @Produce json
// @Param sort query string false "none, name or ratings"
// @Param faculty query string false "Faculty"
// @Param type query string false "Citra type"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /citra [get]
func (h *CitraHandler) List(c *gin.Context) {
	items, cacheHit, err := h.service.List(c.Request.Context(), citraFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, items, middleware.ExtractMeta(c))
}

// ListPerSubject godoc
// @Summary List citras, loading ratings per subject
// @Tags Citra
// @Produce json
// @Param sort query string false "none, name or ratings"
// @Success 200 {object} response.Envelope
// @Router /citra/get [get]
func (h *CitraHandler) ListPerSubject(c *gin.Context) {
	items, err := h.service.ListPerSubject(c.Request.Context(), citraFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get a citra by id or course code
// @Tags Citra
// @Produce json
// @Param id path string true "Citra ID or course code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /citra/{id} [get]
func (h *CitraHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Reviews godoc
// @Summary Latest reviews of a citra
// @Tags Citra
// @Produce json
// @Param id path string true "Citra ID or course code"
// @Param limit query int false "Maximum reviews (default 10, max 50)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /citra/{id}/reviews [get]
func (h *CitraHandler) Reviews(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	reviews, err := h.service.Reviews(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if userID := currentUserID(c); userID != "" {
		for i := range reviews {
			reviews[i].Mine = reviews[i].UserID == userID
		}
	}
	response.JSON(c, http.StatusOK, reviews)
}

// Search godoc
// @Summary Search citras by name or course code
// @Tags Citra
// @Produce json
// @Param query query string true "Substring to match"
// @Param sort query string false "none, name or ratings"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /search [get]
func (h *CitraHandler) Search(c *gin.Context) {
	items, cacheHit, err := h.service.Search(c.Request.Context(), c.Query("query"), sortFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, items, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Download the citra statistics table
// @Tags Citra
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Param sort query string false "none, name or ratings"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /citra/export [get]
func (h *CitraHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	file, err := h.exports.Export(c.Request.Context(), service.ExportFormat(c.Query("format")), citraFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Add godoc
// @Summary Bulk insert citras
// @Tags Citra
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.AddCitraListRequest true "Citras to insert"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /citra/add [post]
func (h *CitraHandler) Add(c *gin.Context) {
	var req dto.AddCitraListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "citraList must be an array of citras"))
		return
	}
	inserted, err := h.service.BulkCreate(c.Request.Context(), req.CitraList)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.AddCitraListResponse{Message: "Citras inserted successfully", InsertedCount: inserted})
}

func citraFilterFromQuery(c *gin.Context) models.CitraFilter {
	return models.CitraFilter{
		Faculty:   c.Query("faculty"),
		CitraType: c.Query("type"),
		Sort:      sortFromQuery(c),
	}
}

func sortFromQuery(c *gin.Context) models.CitraSort {
	raw := strings.ToLower(strings.TrimSpace(c.Query("sort")))
	if raw == "" {
		return models.CitraSortNone
	}
	return models.CitraSort(raw)
}
