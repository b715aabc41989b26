package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"siva-proposals-backend/internal/config"
	"siva-proposals-backend/internal/models"
	"siva-proposals-backend/internal/services"
)

type ImagesHandler struct {
	svc  *services.OrderService
	cfg  *config.Config
	resp responder
}

func NewImagesHandler(cfg *config.Config, svc *services.OrderService, log *zap.Logger) *ImagesHandler {
	return &ImagesHandler{
		svc:  svc,
		cfg:  cfg,
		resp: responder{log: log, production: cfg.IsProduction()},
	}
}

// EditImage forwards an edit instruction for one candidate image.
func (h *ImagesHandler) EditImage(c *gin.Context) {
	var req models.EditImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.badRequest(c, "Missing required fields", err)
		return
	}

	if err := h.svc.EditImage(c.Request.Context(), req.OrderID, *req.ImageIndex, req.Instruction); err != nil {
		h.resp.fail(c, req.OrderID, err, "Failed to edit image")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Success:  true,
		Message:  "Image edit request sent successfully",
		MockMode: h.cfg.MockMode,
	})
}
