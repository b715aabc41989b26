package store

import (
	"time"

	"siva-proposals-backend/internal/models"
)

// Fixtures returns the sample orders served in mock mode.
func Fixtures() []models.Order {
	base := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)
	selected := 0

	return []models.Order{
		{
			ID:        "mock_order_1",
			Client:    "Jeanne Dupont",
			Email:     "jeanne.dupont@example.com",
			Demande:   "Type: Bague\nStyle: Solitaire épuré, monture fine\nMatériaux: Or blanc, diamant",
			Status:    models.StatusGenerating,
			CreatedAt: base,
		},
		{
			ID:      "mock_order_2",
			Client:  "Camille Martin",
			Email:   "camille.martin@example.com",
			Demande: "Type: Collier\nStyle: Pendentif goutte, chaîne forçat\nMatériaux: Or rose, saphir",
			Images: models.ImageSlots{
				"https://picsum.photos/seed/siva-2-1/400/400",
				"https://picsum.photos/seed/siva-2-2/400/400",
				"https://picsum.photos/seed/siva-2-3/400/400",
				"https://picsum.photos/seed/siva-2-4/400/400",
			},
			Status:    models.StatusImagesReady,
			CreatedAt: base.Add(24 * time.Hour),
		},
		{
			ID:       "mock_order_3",
			Client:   "Louise Bernard",
			Email:    "louise.bernard@example.com",
			Boutique: "Atelier Bernard",
			Demande:  "Type: Bracelet\nStyle: Jonc martelé\nMatériaux: Argent 925\nNotes: Gravure intérieure",
			Images: models.ImageSlots{
				"https://picsum.photos/seed/siva-3-1/400/400",
				"https://picsum.photos/seed/siva-3-2/400/400",
				"https://picsum.photos/seed/siva-3-3/400/400",
			},
			PDF:           "https://example.com/proposals/mock_order_3.pdf",
			Status:        models.StatusPDFReady,
			SelectedImage: &selected,
			CreatedAt:     base.Add(48 * time.Hour),
		},
	}
}
