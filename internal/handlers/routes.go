package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"siva-proposals-backend/internal/config"
	"siva-proposals-backend/internal/middleware"
	"siva-proposals-backend/internal/services"
)

// NewRouter wires every route onto a gin engine.
func NewRouter(cfg *config.Config, svc *services.OrderService, watcher *services.OrderWatcher, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(log))
	router.Use(gin.Recovery())

	ordersHandler := NewOrdersHandler(cfg, svc, watcher, log)
	proposalsHandler := NewProposalsHandler(cfg, svc, log)
	imagesHandler := NewImagesHandler(cfg, svc, log)
	webhookHandler := NewWebhookHandler(cfg, svc, log)
	adminAuth := middleware.AdminAuth(cfg)

	router.GET("/health", HealthHandler)

	api := router.Group("/api")

	// Orders
	api.POST("/orders", ordersHandler.CreateOrder)
	api.GET("/orders", ordersHandler.GetOrderByQuery, adminAuth, ordersHandler.ListOrders)
	api.GET("/orders/:id", ordersHandler.GetOrder)
	api.GET("/orders/:id/wait", ordersHandler.WaitOrder)
	api.DELETE("/orders/:id", adminAuth, ordersHandler.DeleteOrder)

	// Proposals
	api.POST("/pdf/download", proposalsHandler.DownloadPDF)
	api.POST("/webhooks/generate-pdf", proposalsHandler.GeneratePDF)
	api.POST("/webhooks/send-proposal", adminAuth, proposalsHandler.SendProposal)

	// Images
	api.POST("/webhooks/edit-image", imagesHandler.EditImage)

	// Relay callback (bearer token, no admin auth)
	api.POST("/webhooks/relay/images", webhookHandler.HandleRelayImages)

	return router
}
