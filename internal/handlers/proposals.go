package handlers

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"siva-proposals-backend/internal/config"
	"siva-proposals-backend/internal/models"
	"siva-proposals-backend/internal/services"
)

type ProposalsHandler struct {
	svc  *services.OrderService
	cfg  *config.Config
	resp responder
}

func NewProposalsHandler(cfg *config.Config, svc *services.OrderService, log *zap.Logger) *ProposalsHandler {
	return &ProposalsHandler{
		svc:  svc,
		cfg:  cfg,
		resp: responder{log: log, production: cfg.IsProduction()},
	}
}

// DownloadPDF renders the proposal and streams it back as an attachment.
func (h *ProposalsHandler) DownloadPDF(c *gin.Context) {
	var req models.SelectImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.badRequest(c, "Missing required fields", err)
		return
	}

	doc, err := h.svc.Render(c.Request.Context(), req.OrderID, *req.SelectedImageIndex)
	if err != nil {
		h.resp.fail(c, req.OrderID, err, "Failed to generate PDF")
		return
	}

	c.Header("Content-Disposition", attachment(doc.Filename))
	c.Header("Content-Length", strconv.Itoa(len(doc.PDF)))
	c.Data(http.StatusOK, "application/pdf", doc.PDF)
}

// GeneratePDF renders and stores the proposal, records the selection and
// notifies the relay.
func (h *ProposalsHandler) GeneratePDF(c *gin.Context) {
	var req models.SelectImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.badRequest(c, "Missing required fields", err)
		return
	}

	pub, err := h.svc.PublishProposal(c.Request.Context(), req.OrderID, *req.SelectedImageIndex)
	if err != nil {
		h.resp.fail(c, req.OrderID, err, "Failed to generate PDF")
		return
	}

	c.JSON(http.StatusOK, models.GeneratePDFResponse{
		Success:       true,
		Message:       "PDF generated successfully",
		Filename:      pub.Filename,
		PDFGenerated:  true,
		PDFURL:        pub.PDFURL,
		RelayNotified: pub.RelayNotified,
	})
}

func (h *ProposalsHandler) SendProposal(c *gin.Context) {
	var req models.SendProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.badRequest(c, "Missing required fields", err)
		return
	}

	if _, err := h.svc.SendProposal(c.Request.Context(), req.OrderID, req.RecipientEmail); err != nil {
		h.resp.fail(c, req.OrderID, err, "Failed to send proposal")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Success:  true,
		Message:  "Proposal sent successfully",
		MockMode: h.cfg.MockMode,
	})
}

// attachment formats a Content-Disposition value. Names with quotes or
// non-ASCII letters use the RFC 2231 filename* form.
func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}
