package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fzn99-cell/RHConnect/internal/shared/apperror"
	"github.com/fzn99-cell/RHConnect/internal/shared/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is enforced by the CORS middleware in front of us.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	service Service
	hub     *Hub
	logger  *zap.Logger
}

func NewHandler(service Service, hub *Hub, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("notification.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.handler")
	}
	return &Handler{service: service, hub: hub, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("notification request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// ListMine handles GET /api/self/notifications.
func (h *Handler) ListMine(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Authentication required", nil)
		return
	}

	var filter ListNotificationsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.Warn("http list notifications validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid query parameters", err.Error())
		return
	}

	resp, meta, err := h.service.ListMine(c.Request.Context(), userID, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, meta)
}

// Stream handles GET /api/self/notifications/stream and upgrades the
// connection to a websocket that receives the caller's notifications live.
func (h *Handler) Stream(c *gin.Context) {
	userID := c.GetString("user_id")
	if _, err := uuid.Parse(userID); err != nil {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Authentication required", nil)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err), zap.String("user_id", userID))
		return
	}

	h.hub.Attach(userID, conn)
}
