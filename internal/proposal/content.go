package proposal

import (
	"fmt"
	"time"
)

const (
	brandName     = "SIVA CRÉATIONS"
	brandTagline  = "J O A I L L E R I E   D ' E X C E P T I O N"
	coverHeadline = "PROPOSITION PERSONNALISÉE"

	contactEmail   = "contact@siva-creations.fr"
	contactPhone   = "+33 1 23 45 67 89"
	contactAddress = "123 Rue de la Paix, 75001 Paris"
)

var coverQuote = []string{
	"\"Un bijou n'est pas seulement un accessoire,",
	"c'est l'expression de votre unicité\"",
}

const introText = `Nous avons l'honneur de vous présenter une création unique, spécialement conçue selon vos désirs.

Chez Siva Créations, chaque bijou raconte une histoire - la vôtre. Notre équipe d'artisans joailliers a minutieusement étudié votre demande pour concevoir des propositions qui incarnent parfaitement votre vision.

Cette proposition représente l'union parfaite entre tradition joaillière française et innovation contemporaine, pour un résultat à la hauteur de vos attentes les plus exigeantes.`

var engagements = []string{
	"Matériaux nobles sélectionnés avec soin",
	"Artisanat français d'excellence",
	"Création unique selon vos spécifications",
	"Garantie à vie sur nos créations",
	"Service après-vente personnalisé",
}

const selectionText = `Cette création incarne parfaitement l'essence de votre demande. Chaque détail a été pensé pour refléter votre personnalité unique et vos aspirations.

Les lignes élégantes et l'harmonie des proportions créent une pièce d'exception qui saura vous accompagner dans tous vos moments précieux.

Cette réalisation représente l'union parfaite entre tradition joaillière et innovation contemporaine, créant une œuvre d'art portable qui transcende les tendances.`

var alternateTexts = []string{
	"Une interprétation audacieuse de votre vision, mêlant modernité et raffinement pour une approche contemporaine de l'élégance classique.",
	"Cette variation explore une esthétique plus traditionnelle, privilégiant la pureté des lignes et l'intemporalité du design joaillier français.",
	"Une proposition originale qui revisite les codes traditionnels avec une touche d'innovation créative et un esprit résolument moderne.",
}

var processSteps = []string{
	"Validation de votre choix et ajustements éventuels",
	"Sélection des matériaux nobles et finitions",
	"Réalisation par nos maîtres artisans (délai : 3-4 semaines)",
	"Contrôle qualité et finitions d'exception",
	"Livraison dans un écrin de luxe personnalisé",
}

const closingMessage = "Merci de nous avoir fait confiance pour donner vie à votre vision.\nNous avons hâte de créer pour vous cette pièce d'exception unique."

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// FrenchDate formats t as a long French date, e.g. "4 mars 2025".
func FrenchDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
}

// alternateText cycles through the canned paragraphs by ordinal (1-based).
func alternateText(ordinal int) string {
	if ordinal < 1 {
		ordinal = 1
	}
	return alternateTexts[(ordinal-1)%len(alternateTexts)]
}
