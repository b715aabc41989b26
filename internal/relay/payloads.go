package relay

type ImageGenerationPayload struct {
	OrderID           string   `json:"orderId"`
	Client            string   `json:"client"`
	Email             string   `json:"email"`
	Demande           string   `json:"demande"`
	InspirationImages []string `json:"inspirationImages,omitempty"`
}

type ImageEditPayload struct {
	OrderID         string `json:"orderId"`
	ImageIndex      int    `json:"imageIndex"`
	EditInstruction string `json:"editInstruction"`
	CurrentImageURL string `json:"currentImageUrl"`
}

type ClientData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PDFGenerationPayload struct {
	OrderID            string     `json:"orderId"`
	SelectedImageIndex int        `json:"selectedImageIndex"`
	ClientData         ClientData `json:"clientData"`
	PDFURL             string     `json:"pdfUrl,omitempty"`
}

type SendProposalPayload struct {
	OrderID        string `json:"orderId"`
	RecipientEmail string `json:"recipientEmail"`
	ClientName     string `json:"clientName"`
	PDFURL         string `json:"pdfUrl"`
}
