package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/romangod6/sitemap-xml-plugin/internal/bundler"
	"github.com/romangod6/sitemap-xml-plugin/internal/models"
	"github.com/romangod6/sitemap-xml-plugin/internal/storage"
)

// BuildRunner performs builds on request.
type BuildRunner interface {
	Run(ctx context.Context, mode bundler.Mode) (*models.BuildRecord, error)
	Preview(ctx context.Context) (string, error)
}

type Handler struct {
	store  storage.Store
	runner BuildRunner
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type PaginationResponse struct {
	Data  interface{} `json:"data"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

type StartBuildRequest struct {
	Mode string `json:"mode"`
}

func NewHandler(store storage.Store, runner BuildRunner) *Handler {
	return &Handler{store: store, runner: runner}
}

func (h *Handler) ListBuilds(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Build ledger is not configured"})
		return
	}

	page, limit := getPaginationParams(c)
	offset := (page - 1) * limit

	records, err := h.store.ListBuildRecords(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch builds"})
		return
	}

	if records == nil {
		records = []*models.BuildRecord{}
	}

	c.JSON(http.StatusOK, PaginationResponse{
		Data:  records,
		Page:  page,
		Limit: limit,
	})
}

func (h *Handler) GetBuild(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Build ledger is not configured"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid build ID"})
		return
	}

	record, err := h.store.GetBuildRecord(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch build"})
		return
	}

	if record == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Build not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// StartBuild runs one build synchronously. The body is optional; mode
// defaults to production.
func (h *Handler) StartBuild(c *gin.Context) {
	var req StartBuildRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
			return
		}
	}

	mode, err := bundler.ParseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	record, err := h.runner.Run(c.Request.Context(), mode)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, record)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *Handler) PreviewSitemap(c *gin.Context) {
	doc, err := h.runner.Preview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}

	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(doc))
}

// Utility functions
func getPaginationParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	return page, limit
}
