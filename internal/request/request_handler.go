package request

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fzn99-cell/RHConnect/internal/shared/apperror"
	"github.com/fzn99-cell/RHConnect/internal/shared/response"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("request.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.handler")
	}
	return &Handler{service: service, logger: l}
}

// NewHandlerWithRedis additionally completes the idempotency loop:
// successful submissions are cached for replay and the in-flight lock
// is released.
func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("request operation failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Submit accepts multipart/form-data: requestType, description, an
// optional subRequestData JSON string and an optional file attachment.
func (h *Handler) Submit(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	var form SubmitRequestForm
	if err := c.ShouldBind(&form); err != nil {
		h.logger.Warn("http submit request validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid input", err.Error())
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	resp, err := h.service.Submit(c.Request.Context(), c.GetString("user_id"), form, file)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	body := gin.H{
		"message": "Demande soumise avec succès.",
		"request": resp,
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(body); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, string(payload), 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, body, nil)
}

func (h *Handler) Review(c *gin.Context) {
	var form ReviewRequestForm
	if err := c.ShouldBind(&form); err != nil {
		h.logger.Warn("http review request validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid input", err.Error())
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	if err := h.service.Review(c.Request.Context(), c.GetString("user_id"), c.Param("requestId"), form, file); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Demande traitée avec succès."}, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	var filter ListRequestsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid query parameters", err.Error())
		return
	}

	resp, meta, err := h.service.GetAll(c.Request.Context(), c.GetString("role"), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, meta)
}

// PendingCounts accepts an optional userId query parameter narrowing
// the counts to one submitter.
func (h *Handler) PendingCounts(c *gin.Context) {
	counts, err := h.service.PendingCounts(
		c.Request.Context(),
		c.GetString("role"),
		c.GetString("department"),
		c.Query("userId"),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, counts, nil)
}

func (h *Handler) ByUser(c *gin.Context) {
	resp, err := h.service.ByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ByID(c *gin.Context) {
	resp, err := h.service.ByID(c.Request.Context(), c.Param("requestId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListMine(c *gin.Context) {
	var filter ListRequestsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid query parameters", err.Error())
		return
	}

	resp, meta, err := h.service.ListMine(c.Request.Context(), c.GetString("user_id"), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, meta)
}

func (h *Handler) GetMine(c *gin.Context) {
	resp, err := h.service.GetMine(c.Request.Context(), c.GetString("user_id"), c.Param("requestId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) PatchMine(c *gin.Context) {
	var req PatchMyRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http patch own request validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid input", err.Error())
		return
	}

	resp, err := h.service.PatchMine(c.Request.Context(), c.GetString("user_id"), c.Param("requestId"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Demande mise à jour avec succès.",
		"request": resp,
	}, nil)
}

func (h *Handler) DeleteMine(c *gin.Context) {
	if err := h.service.DeleteMine(c.Request.Context(), c.GetString("user_id"), c.Param("requestId")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Demande supprimée avec succès."}, nil)
}
