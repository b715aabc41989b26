package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"siva-proposals-backend/internal/config"
	"siva-proposals-backend/internal/models"
	"siva-proposals-backend/internal/services"
)

type WebhookHandler struct {
	config *config.Config
	svc    *services.OrderService
	resp   responder
}

func NewWebhookHandler(cfg *config.Config, svc *services.OrderService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		config: cfg,
		svc:    svc,
		resp:   responder{log: log, production: cfg.IsProduction()},
	}
}

// HandleRelayImages receives generated or edited images from the relay and
// writes them onto the order.
func (h *WebhookHandler) HandleRelayImages(c *gin.Context) {
	if h.config.RelayCallbackToken == "" {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "relay callbacks are disabled"})
		return
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "missing authorization token"})
		return
	}

	// "Bearer <token>" or the bare token
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.config.RelayCallbackToken)) != 1 {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid authorization token"})
		return
	}

	var cb models.RelayImagesCallback
	if err := c.ShouldBindJSON(&cb); err != nil {
		h.resp.badRequest(c, "failed to parse event", err)
		return
	}

	order, err := h.svc.ApplyRelayImages(c.Request.Context(), cb)
	if err != nil {
		h.resp.fail(c, cb.OrderID, err, "Failed to update order")
		return
	}

	c.JSON(http.StatusOK, models.OrderEnvelope{
		Success: true,
		Order:   models.NewOrderResponse(order),
	})
}
