package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

var JewelryTypes = []string{
	"Bague",
	"Collier",
	"Bracelet",
	"Boucles d'oreilles",
	"Pendentif",
	"Autre",
}

// CreateOrderRequest is the intake form. Clients that already composed the
// order may send Client and Demande directly instead of the form fields.
type CreateOrderRequest struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone,omitempty"`
	BoutiqueName     string `json:"boutiqueName,omitempty"`
	JewelryType      string `json:"jewelryType"`
	StyleDescription string `json:"styleDescription"`
	Materials        string `json:"materials"`
	OtherNotes       string `json:"otherNotes,omitempty"`

	InspirationImageURLs []string `json:"inspirationImageUrls,omitempty" binding:"omitempty,max=3,dive,url"`

	Client  string `json:"client,omitempty"`
	Demande string `json:"demande,omitempty"`
}

// Composed reports whether the request carries a pre-composed order.
func (r *CreateOrderRequest) Composed() bool {
	return r.Client != "" || r.Demande != ""
}

// Validate checks the form fields. strict applies the production minimum
// lengths for the style description and materials.
func (r *CreateOrderRequest) Validate(strict bool) error {
	var problems []string

	if r.Composed() {
		if strings.TrimSpace(r.Client) == "" {
			problems = append(problems, "client is required")
		}
		if strings.TrimSpace(r.Demande) == "" {
			problems = append(problems, "demande is required")
		}
		return validationError(problems)
	}

	if utf8.RuneCountInString(strings.TrimSpace(r.FirstName)) < 2 {
		problems = append(problems, "firstName must contain at least 2 characters")
	}
	if utf8.RuneCountInString(strings.TrimSpace(r.LastName)) < 2 {
		problems = append(problems, "lastName must contain at least 2 characters")
	}
	if !isJewelryType(r.JewelryType) {
		problems = append(problems, "jewelryType must be one of "+strings.Join(JewelryTypes, ", "))
	}

	styleMin, materialsMin := 1, 1
	if strict {
		styleMin, materialsMin = 10, 3
	}
	if utf8.RuneCountInString(strings.TrimSpace(r.StyleDescription)) < styleMin {
		problems = append(problems, fmt.Sprintf("styleDescription must contain at least %d characters", styleMin))
	}
	if utf8.RuneCountInString(strings.TrimSpace(r.Materials)) < materialsMin {
		problems = append(problems, fmt.Sprintf("materials must contain at least %d characters", materialsMin))
	}

	return validationError(problems)
}

// ToNewOrder builds the stored fields. The request text concatenates type,
// style, materials and notes.
func (r *CreateOrderRequest) ToNewOrder() NewOrder {
	if r.Composed() {
		return NewOrder{
			Client:   strings.TrimSpace(r.Client),
			Email:    r.Email,
			Demande:  strings.TrimSpace(r.Demande),
			Phone:    r.Phone,
			Boutique: r.BoutiqueName,
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Type: %s\nStyle: %s\nMatériaux: %s", r.JewelryType, r.StyleDescription, r.Materials)
	if r.OtherNotes != "" {
		fmt.Fprintf(&b, "\nNotes: %s", r.OtherNotes)
	}

	return NewOrder{
		Client:   strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName),
		Email:    r.Email,
		Demande:  b.String(),
		Phone:    r.Phone,
		Boutique: r.BoutiqueName,
	}
}

type SelectImageRequest struct {
	OrderID            string `json:"orderId" binding:"required"`
	SelectedImageIndex *int   `json:"selectedImageIndex" binding:"required"`
}

type EditImageRequest struct {
	OrderID     string `json:"orderId" binding:"required"`
	ImageIndex  *int   `json:"imageIndex" binding:"required"`
	Instruction string `json:"instruction" binding:"required,min=5"`
}

type SendProposalRequest struct {
	OrderID        string `json:"orderId" binding:"required"`
	RecipientEmail string `json:"recipientEmail" binding:"required,email"`
}

// RelayImagesCallback is posted by the relay once images exist. It carries
// either the full candidate list or a single edited slot.
type RelayImagesCallback struct {
	OrderID         string   `json:"orderId" binding:"required"`
	Images          []string `json:"images,omitempty" binding:"omitempty,max=4"`
	ImageCollection string   `json:"imageCollection,omitempty"`
	ImageIndex      *int     `json:"imageIndex,omitempty"`
	URL             string   `json:"url,omitempty"`
}

// Patch converts the callback into a store update.
func (r *RelayImagesCallback) Patch() (OrderPatch, error) {
	patch := OrderPatch{Images: map[int]string{}}

	if r.ImageIndex != nil {
		if err := CheckSlot(*r.ImageIndex); err != nil {
			return OrderPatch{}, err
		}
		if r.URL == "" {
			return OrderPatch{}, fmt.Errorf("url is required with imageIndex")
		}
		patch.Images[*r.ImageIndex] = r.URL
	}
	for i, url := range r.Images {
		if url != "" {
			patch.Images[i] = url
		}
	}
	if r.ImageCollection != "" {
		patch.ImageCollection = StringPtr(r.ImageCollection)
	}
	if len(patch.Images) == 0 && patch.ImageCollection == nil {
		return OrderPatch{}, fmt.Errorf("callback carries no images")
	}
	if len(patch.Images) > 0 {
		patch.Status = StatusPtr(StatusImagesReady)
	}
	return patch, nil
}

// ValidationError lists every problem found in a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

func validationError(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

func isJewelryType(t string) bool {
	for _, jt := range JewelryTypes {
		if jt == t {
			return true
		}
	}
	return false
}
