package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ajaybenii/test-system-backend/internal/dto"
	"github.com/ajaybenii/test-system-backend/internal/metrics"
	"github.com/ajaybenii/test-system-backend/internal/repository"
	"github.com/ajaybenii/test-system-backend/internal/service"
)

type Handler struct {
	attemptService service.AttemptServicer
	router         *gin.Engine
	log            *zap.Logger
}

func NewHandler(attemptService service.AttemptServicer, log *zap.Logger) *Handler {
	h := &Handler{
		attemptService: attemptService,
		router:         gin.Default(),
		log:            log,
	}

	h.router.Use(h.requestID(), h.measure())
	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/metrics", gin.WrapH(metrics.Handler()))
	h.router.POST("/attempts/:attempt_id/events", h.submitEvent)
	h.router.POST("/attempts/:attempt_id/events/bulk", h.submitEventsBulk)
	h.router.GET("/attempts/:attempt_id", h.getAttempt)
	h.router.GET("/analytics/attempts/:attempt_id", h.getAnalytics)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// submitEvent handles POST /attempts/:attempt_id/events
func (h *Handler) submitEvent(c *gin.Context) {
	attemptID := c.Param("attempt_id")

	var req dto.SubmitEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid event request",
			zap.Error(err),
			zap.String("attempt_id", attemptID))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	result, err := h.attemptService.IngestEvent(c.Request.Context(), attemptID, &req)
	if err != nil {
		h.log.Error("Failed to ingest event",
			zap.Error(err),
			zap.String("attempt_id", attemptID),
			zap.String("question_id", req.QuestionID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	response := dto.IngestEventResponse{
		Status: result.Status,
		Reason: result.Reason,
	}
	if result.Status == service.StatusProcessed {
		latest := result.Latest
		response.Latest = &latest
	}

	c.JSON(http.StatusOK, response)
}

// submitEventsBulk handles POST /attempts/:attempt_id/events/bulk
func (h *Handler) submitEventsBulk(c *gin.Context) {
	attemptID := c.Param("attempt_id")

	var bulkRequest dto.SubmitEventsBulkRequest
	if err := c.ShouldBindJSON(&bulkRequest); err != nil {
		h.log.Warn("Invalid bulk event request",
			zap.Error(err),
			zap.String("attempt_id", attemptID))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	eventIDs, errs, err := h.attemptService.EnqueueEvents(c.Request.Context(), attemptID, bulkRequest.Events)
	if err != nil {
		h.log.Error("Failed to enqueue bulk events",
			zap.Error(err),
			zap.String("attempt_id", attemptID),
			zap.Int("event_count", len(bulkRequest.Events)))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	h.log.Info("Bulk events enqueued",
		zap.String("attempt_id", attemptID),
		zap.Int("accepted", len(eventIDs)),
		zap.Int("rejected", len(errs)))

	c.JSON(http.StatusAccepted, dto.EnqueueEventsResponse{
		Accepted: len(eventIDs),
		Rejected: len(errs),
		EventIDs: eventIDs,
		Errors:   errs,
	})
}

// getAttempt handles GET /attempts/:attempt_id
func (h *Handler) getAttempt(c *gin.Context) {
	attemptID := c.Param("attempt_id")

	attempt, err := h.attemptService.GetAttempt(c.Request.Context(), attemptID)
	if err != nil {
		if errors.Is(err, repository.ErrAttemptNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error:   "attempt_not_found",
				Message: "no attempt found with id " + attemptID,
			})
			return
		}
		h.log.Error("Failed to get attempt",
			zap.Error(err),
			zap.String("attempt_id", attemptID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, attempt)
}

// getAnalytics handles GET /analytics/attempts/:attempt_id
func (h *Handler) getAnalytics(c *gin.Context) {
	attemptID := c.Param("attempt_id")

	analytics, err := h.attemptService.GetAnalytics(c.Request.Context(), attemptID)
	if err != nil {
		h.log.Error("Failed to get analytics",
			zap.Error(err),
			zap.String("attempt_id", attemptID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, analytics)
}
