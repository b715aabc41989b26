package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"siva-proposals-backend/internal/models"
	"siva-proposals-backend/internal/services"
	"siva-proposals-backend/internal/store"
)

// responder turns errors into the JSON failure envelope. Raw error text is
// only exposed outside production.
type responder struct {
	log        *zap.Logger
	production bool
}

func (r responder) badRequest(c *gin.Context, msg string, err error) {
	resp := models.ErrorResponse{Error: msg}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Problems
	} else if err != nil && !r.production {
		resp.Details = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

// fail maps err onto 400, 404 or 500. fallback is the generic message used
// for upstream failures.
func (r responder) fail(c *gin.Context, orderID string, err error, fallback string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		r.badRequest(c, "Invalid request", err)
	case errors.Is(err, models.ErrSlotOutOfRange):
		r.badRequest(c, "Invalid image index", err)
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Order not found"})
	case errors.Is(err, models.ErrSlotEmpty):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Image not found"})
	case errors.Is(err, services.ErrNoPDF):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "PDF not found for this order"})
	default:
		r.log.Error(fallback, zap.String("order_id", orderID), zap.Error(err))
		resp := models.ErrorResponse{Error: fallback}
		if !r.production {
			resp.Details = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
	}
}
