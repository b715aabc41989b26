package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"siva-proposals-backend/internal/config"
	"siva-proposals-backend/internal/models"
	"siva-proposals-backend/internal/services"
)

const (
	defaultWaitTimeout = 25 * time.Second
	maxWaitTimeout     = 60 * time.Second
)

type OrdersHandler struct {
	svc     *services.OrderService
	watcher *services.OrderWatcher
	cfg     *config.Config
	resp    responder
}

func NewOrdersHandler(cfg *config.Config, svc *services.OrderService, watcher *services.OrderWatcher, log *zap.Logger) *OrdersHandler {
	return &OrdersHandler{
		svc:     svc,
		watcher: watcher,
		cfg:     cfg,
		resp:    responder{log: log, production: cfg.IsProduction()},
	}
}

// CreateOrder validates the intake form, stores the order and asks the relay
// to generate candidate images.
func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.badRequest(c, "Invalid request", err)
		return
	}
	if err := req.Validate(h.cfg.IsProduction()); err != nil {
		h.resp.badRequest(c, "Invalid request", err)
		return
	}

	res, err := h.svc.Create(c.Request.Context(), req.ToNewOrder(), req.InspirationImageURLs)
	if err != nil {
		h.resp.fail(c, "", err, "Failed to create order")
		return
	}

	c.JSON(http.StatusOK, models.CreateOrderResponse{
		Success:          true,
		OrderID:          res.Order.ID,
		WebhookTriggered: res.WebhookTriggered,
		MockMode:         h.cfg.MockMode,
	})
}

// GetOrderByQuery serves GET /orders?id=... and ends the chain. Without an
// id it passes on to the guarded list handler.
func (h *OrdersHandler) GetOrderByQuery(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.Next()
		return
	}
	h.writeOrder(c, id)
	c.Abort()
}

func (h *OrdersHandler) ListOrders(c *gin.Context) {
	orders, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.resp.fail(c, "", err, "Failed to fetch orders")
		return
	}

	out := make([]models.OrderResponse, len(orders))
	for i := range orders {
		out[i] = models.NewOrderResponse(&orders[i])
	}
	c.JSON(http.StatusOK, models.OrderListEnvelope{
		Success:  true,
		Orders:   out,
		MockMode: h.cfg.MockMode,
	})
}

func (h *OrdersHandler) GetOrder(c *gin.Context) {
	h.writeOrder(c, c.Param("id"))
}

func (h *OrdersHandler) writeOrder(c *gin.Context, id string) {
	order, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.resp.fail(c, id, err, "Failed to fetch order")
		return
	}
	c.JSON(http.StatusOK, models.OrderEnvelope{
		Success:  true,
		Order:    models.NewOrderResponse(order),
		MockMode: h.cfg.MockMode,
	})
}

// WaitOrder long-polls until the order moves past ?since= (default
// generating) or ?timeout= elapses.
func (h *OrdersHandler) WaitOrder(c *gin.Context) {
	id := c.Param("id")

	since := models.StatusGenerating
	if raw := c.Query("since"); raw != "" {
		st, ok := models.ParseStatus(raw)
		if !ok {
			h.resp.badRequest(c, "Invalid status", fmt.Errorf("unknown status %q", raw))
			return
		}
		since = st
	}

	timeout, err := parseWaitTimeout(c.Query("timeout"))
	if err != nil {
		h.resp.badRequest(c, "Invalid timeout", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	order, changed, err := h.watcher.Wait(ctx, id, since)
	if err != nil {
		h.resp.fail(c, id, err, "Failed to fetch order")
		return
	}
	c.JSON(http.StatusOK, models.WaitEnvelope{
		Success: true,
		Changed: changed,
		Order:   models.NewOrderResponse(order),
	})
}

// parseWaitTimeout accepts a Go duration or a number of seconds.
func parseWaitTimeout(raw string) (time.Duration, error) {
	if raw == "" {
		return defaultWaitTimeout, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		secs, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, fmt.Errorf("invalid timeout %q", raw)
		}
		d = time.Duration(secs) * time.Second
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive")
	}
	if d > maxWaitTimeout {
		d = maxWaitTimeout
	}
	return d, nil
}

func (h *OrdersHandler) DeleteOrder(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.resp.fail(c, id, err, "Failed to delete order")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{
		Success:  true,
		Message:  "Order deleted successfully",
		MockMode: h.cfg.MockMode,
	})
}
