package indexer

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IrshadAnsari05010/phishing-detector/common/models"
)

// HTTPHandler exposes stored analyses over HTTP.
type HTTPHandler struct {
	store  Store
	logger *slog.Logger
}

// NewHTTPHandler creates the read and delete endpoints for store.
func NewHTTPHandler(store Store, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{store: store, logger: logger}
}

// RegisterRoutes mounts the analysis endpoints on r.
func (h *HTTPHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/analyses", h.Search)
	r.GET("/analyses/:id", h.Get)
	r.DELETE("/analyses/:id", h.Delete)
}

// Get returns one stored analysis.
//
// @Summary      Get analysis
// @Description  Fetch one stored analysis event
// @Tags         analyses
// @Produce      json
// @Param        id  path     string true "Analysis id"
// @Success      200 {object} events.AnalysisEvent
// @Failure      404 {object} models.ErrorResponse
// @Failure      502 {object} models.UpstreamError
// @Router       /analyses/{id} [get]
func (h *HTTPHandler) Get(c *gin.Context) {
	evt, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Analysis not found"})
		return
	}
	if err != nil {
		h.internalError(c, "get analysis failed", err)
		return
	}
	c.JSON(http.StatusOK, evt)
}

// Delete removes one stored analysis.
//
// @Summary      Delete analysis
// @Description  Remove one stored analysis event
// @Tags         analyses
// @Produce      json
// @Param        id  path     string true "Analysis id"
// @Success      200 {object} models.DeleteResponse
// @Failure      404 {object} models.ErrorResponse
// @Failure      502 {object} models.UpstreamError
// @Router       /analyses/{id} [delete]
func (h *HTTPHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	err := h.store.Delete(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Analysis not found"})
		return
	}
	if err != nil {
		h.internalError(c, "delete analysis failed", err)
		return
	}
	c.JSON(http.StatusOK, models.DeleteResponse{ID: id, Deleted: true})
}

// Search lists stored analyses matching the query string filters.
//
// @Summary      Search analyses
// @Description  Search stored analysis events, newest first
// @Tags         analyses
// @Produce      json
// @Param        prediction      query    string false "phishing or safe"
// @Param        confidence      query    string false "high, medium or low"
// @Param        min_probability query    number false "Minimum phishing probability"
// @Param        batch_id        query    string false "Batch id"
// @Param        page            query    int    false "Page number (default: 1)"
// @Param        per_page        query    int    false "Results per page (default: 10, max: 100)"
// @Success      200             {object} models.AnalysisSearchResponse[events.AnalysisEvent]
// @Failure      400             {object} models.ErrorResponse
// @Failure      502             {object} models.UpstreamError
// @Router       /analyses [get]
func (h *HTTPHandler) Search(c *gin.Context) {
	q := models.NewAnalysisSearchQuery()
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid search parameters"})
		return
	}

	resp, err := h.store.Search(c.Request.Context(), q)
	if err != nil {
		h.internalError(c, "search analyses failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HTTPHandler) internalError(c *gin.Context, msg string, err error) {
	h.logger.ErrorContext(c.Request.Context(), msg, slog.Any("error", err))
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
}
