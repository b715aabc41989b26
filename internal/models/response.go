package models

import "time"

// ErrorResponse is the failure envelope shared by every JSON endpoint.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Details string   `json:"details,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

type OrderResponse struct {
	ID              string     `json:"id"`
	Client          string     `json:"client"`
	Email           string     `json:"email,omitempty"`
	Demande         string     `json:"demande"`
	Phone           string     `json:"phone,omitempty"`
	Boutique        string     `json:"boutique,omitempty"`
	Images          ImageSlots `json:"images"`
	ImageCollection string     `json:"imageCollection,omitempty"`
	PDF             string     `json:"pdf,omitempty"`
	Status          Status     `json:"status"`
	SelectedImage   *int       `json:"selectedImage,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func NewOrderResponse(o *Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		Client:          o.Client,
		Email:           o.Email,
		Demande:         o.Demande,
		Phone:           o.Phone,
		Boutique:        o.Boutique,
		Images:          o.Images,
		ImageCollection: o.ImageCollection,
		PDF:             o.PDF,
		Status:          o.EffectiveStatus(),
		SelectedImage:   o.SelectedImage,
		CreatedAt:       o.CreatedAt,
	}
}

type CreateOrderResponse struct {
	Success          bool   `json:"success"`
	OrderID          string `json:"orderId"`
	WebhookTriggered bool   `json:"webhookTriggered"`
	MockMode         bool   `json:"mockMode,omitempty"`
}

type OrderEnvelope struct {
	Success  bool          `json:"success"`
	Order    OrderResponse `json:"order"`
	MockMode bool          `json:"mockMode,omitempty"`
}

type OrderListEnvelope struct {
	Success  bool            `json:"success"`
	Orders   []OrderResponse `json:"orders"`
	MockMode bool            `json:"mockMode,omitempty"`
}

type WaitEnvelope struct {
	Success bool          `json:"success"`
	Changed bool          `json:"changed"`
	Order   OrderResponse `json:"order"`
}

type MessageResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	MockMode bool   `json:"mockMode,omitempty"`
}

type GeneratePDFResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	Filename      string `json:"filename"`
	PDFGenerated  bool   `json:"pdfGenerated"`
	PDFURL        string `json:"pdfUrl,omitempty"`
	RelayNotified bool   `json:"relayNotified"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
