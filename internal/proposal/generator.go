package proposal

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"siva-proposals-backend/internal/models"
)

const (
	maxAlternates = 3

	// DefaultFetchBudget bounds the time spent fetching all images of one
	// document. Images still missing when it runs out become placeholders.
	DefaultFetchBudget = 20 * time.Second
)

// Data is everything a proposal document is rendered from.
type Data struct {
	OrderID       string
	Client        string
	Email         string
	Demande       string
	SelectedImage SelectedImage
	OtherImages   []string
}

type SelectedImage struct {
	URL   string
	Index int
}

// NewData builds the document input for an order and a resolved selection.
func NewData(o *models.Order, sel models.Selection) Data {
	return Data{
		OrderID: o.ID,
		Client:  o.Client,
		Email:   o.Email,
		Demande: o.Demande,
		SelectedImage: SelectedImage{
			URL:   sel.URL,
			Index: sel.Index,
		},
		OtherImages: sel.Alternates,
	}
}

// Filename names a proposal after the client and the generation time.
func Filename(client string, now time.Time) string {
	name := strings.Join(strings.Fields(client), "_")
	return fmt.Sprintf("proposition_%s_%d.pdf", name, now.UnixMilli())
}

type Generator struct {
	images      ImageSource
	now         func() time.Time
	compress    bool
	fetchBudget time.Duration
}

type Option func(*Generator)

// WithClock fixes the clock used for the cover date and document metadata.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithFetchBudget sets the shared deadline for every image fetch in one
// document.
func WithFetchBudget(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.fetchBudget = d
		}
	}
}

// WithoutCompression leaves page content streams uncompressed.
func WithoutCompression() Option {
	return func(g *Generator) { g.compress = false }
}

// NewGenerator returns a generator that embeds images from src. A nil src
// renders placeholders for every image.
func NewGenerator(src ImageSource, opts ...Option) *Generator {
	g := &Generator{
		images:      src,
		now:         time.Now,
		compress:    true,
		fetchBudget: DefaultFetchBudget,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders the proposal. Image failures fall back to placeholders
// and never fail the document.
func (g *Generator) Generate(ctx context.Context, data Data) ([]byte, error) {
	now := g.now()

	d := newDocument(now, g.compress)
	d.setInfo(data.Client)

	d.coverPage(data.Client, FrenchDate(now))
	d.projectPage(data.Client, data.Demande)

	fetchCtx, cancel := context.WithTimeout(ctx, g.fetchBudget)
	defer cancel()

	d.mainImagePage(data.SelectedImage.Index, g.fetch(fetchCtx, data.SelectedImage.URL))

	alternates := data.OtherImages
	if len(alternates) > maxAlternates {
		alternates = alternates[:maxAlternates]
	}
	for i, url := range alternates {
		d.alternatePage(i+1, g.fetch(fetchCtx, url))
	}

	d.contactPage(data.OrderID)

	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render proposal: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) fetch(ctx context.Context, url string) []byte {
	if g.images == nil || url == "" || ctx.Err() != nil {
		return nil
	}
	data, err := g.images.Fetch(ctx, url)
	if err != nil {
		return nil
	}
	return data
}

type rgb struct{ r, g, b int }

var (
	colorPrimary   = rgb{0x1a, 0x1a, 0x1a}
	colorGold      = rgb{0xD4, 0xAF, 0x37}
	colorLightGold = rgb{0xF4, 0xE8, 0xB8}
	colorDarkGold  = rgb{0xB8, 0x86, 0x0B}
	colorWhite     = rgb{0xFF, 0xFF, 0xFF}
	colorGray      = rgb{0x66, 0x66, 0x66}
	colorLightGray = rgb{0xF5, 0xF5, 0xF5}
	colorBlack     = rgb{0x00, 0x00, 0x00}
)

const (
	margin      = 50.0
	fontFamily  = "Helvetica"
	maxQuoteRow = 12
)

// document wraps the fpdf instance with the page builders.
type document struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	width  float64
	height float64
	images int
}

func newDocument(now time.Time, compress bool) *document {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetCompression(compress)
	pdf.SetCreationDate(now)

	w, h := pdf.GetPageSize()
	return &document{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		width:  w,
		height: h,
	}
}

func (d *document) setInfo(client string) {
	d.pdf.SetTitle("Proposition Siva Créations - "+client, true)
	d.pdf.SetAuthor("Siva Créations", true)
	d.pdf.SetSubject("Proposition joaillerie personnalisée", true)
	d.pdf.SetKeywords("joaillerie, bijoux, sur-mesure, luxe", true)
	d.pdf.SetCreator("siva-proposals-backend", true)
}

func (d *document) fill(c rgb) { d.pdf.SetFillColor(c.r, c.g, c.b) }

func (d *document) draw(c rgb) { d.pdf.SetDrawColor(c.r, c.g, c.b) }

func (d *document) text(c rgb) { d.pdf.SetTextColor(c.r, c.g, c.b) }

func (d *document) alpha(a float64) { d.pdf.SetAlpha(a, "Normal") }

// verticalGradient paints a rectangle from top color to bottom color.
func (d *document) verticalGradient(x, y, w, h float64, top, bottom rgb) {
	d.pdf.LinearGradient(x, y, w, h, top.r, top.g, top.b, bottom.r, bottom.g, bottom.b, 0, 1, 0, 0)
}

func (d *document) horizontalGradient(x, y, w, h float64, left, right rgb) {
	d.pdf.LinearGradient(x, y, w, h, left.r, left.g, left.b, right.r, right.g, right.b, 0, 0, 1, 0)
}

// centered writes a single line centered across the page.
func (d *document) centered(y, h float64, s string) {
	d.pdf.SetXY(0, y)
	d.pdf.CellFormat(d.width, h, d.tr(s), "", 0, "C", false, 0, "")
}

func (d *document) textAt(x, y, h float64, s string) {
	d.pdf.SetXY(x, y)
	d.pdf.CellFormat(0, h, d.tr(s), "", 0, "L", false, 0, "")
}

func (d *document) paragraph(x, y, w, lineHeight float64, s, align string) float64 {
	d.pdf.SetXY(x, y)
	d.pdf.MultiCell(w, lineHeight, d.tr(s), "", align, false)
	return d.pdf.GetY()
}

func (d *document) diamond(cx, cy, halfW, halfH float64, fillColor, strokeColor rgb) {
	d.fill(fillColor)
	d.draw(strokeColor)
	d.pdf.Polygon([]fpdf.PointType{
		{X: cx - halfW, Y: cy},
		{X: cx, Y: cy - halfH},
		{X: cx + halfW, Y: cy},
		{X: cx, Y: cy + halfH},
	}, "FD")
}

func (d *document) title(y float64, size float64, s string) {
	d.text(colorPrimary)
	d.pdf.SetFont(fontFamily, "B", size)
	d.textAt(margin, y, size+4, s)
}

func (d *document) sectionHeading(y float64, s string) {
	d.text(colorGold)
	d.pdf.SetFont(fontFamily, "B", 16)
	d.textAt(margin, y, 20, s)
}

func (d *document) rule(y, width float64) {
	d.draw(colorGold)
	d.pdf.SetLineWidth(width)
	d.pdf.Line(margin, y, d.width-margin, y)
}

func (d *document) coverPage(client, date string) {
	d.pdf.AddPage()
	w, h := d.width, d.height
	cx := w / 2

	d.verticalGradient(0, 0, w, 100, colorLightGold, colorGold)
	d.verticalGradient(0, 100, w, 100, colorGold, colorDarkGold)

	d.alpha(0.1)
	d.draw(colorWhite)
	d.pdf.SetLineWidth(1)
	for i := 0; i < 10; i++ {
		x := float64(i) * w / 10
		d.pdf.Line(x, 0, x+100, 200)
	}
	d.alpha(1)

	d.pdf.SetFont(fontFamily, "B", 36)
	d.text(colorBlack)
	d.pdf.SetXY(2, 92)
	d.pdf.CellFormat(w, 40, d.tr(brandName), "", 0, "C", false, 0, "")
	d.text(colorWhite)
	d.centered(90, 40, brandName)

	d.pdf.SetFont(fontFamily, "", 16)
	d.centered(135, 20, brandTagline)

	lineY := 180.0
	d.draw(colorWhite)
	d.pdf.SetLineWidth(2)
	d.pdf.Line(cx-150, lineY, cx-50, lineY)
	d.pdf.Line(cx+50, lineY, cx+150, lineY)
	d.pdf.SetLineWidth(1)
	d.diamond(cx, lineY, 15, 10, colorWhite, colorDarkGold)

	d.text(colorPrimary)
	d.pdf.SetFont(fontFamily, "B", 28)
	d.centered(280, 32, coverHeadline)

	clientY := 340.0
	d.pdf.SetFont(fontFamily, "B", 22)
	nameWidth := d.pdf.GetStringWidth(d.tr(client))
	d.draw(colorGold)
	d.pdf.SetLineWidth(2)
	d.pdf.RoundedRect(cx-nameWidth/2-30, clientY-15, nameWidth+60, 44, 8, "1234", "D")
	d.text(colorGold)
	d.centered(clientY-15, 44, client)

	d.text(colorGray)
	d.pdf.SetFont(fontFamily, "I", 14)
	for i, line := range coverQuote {
		d.centered(450+float64(i)*18, 18, line)
	}

	d.pdf.SetFont(fontFamily, "", 12)
	d.centered(520, 16, date)

	d.verticalGradient(0, h-100, w, 100, colorLightGold, colorGold)
	d.alpha(0.3)
	d.pdf.SetLineWidth(1)
	for i := 0; i < 6; i++ {
		x := float64(i)*w/6 + w/12
		d.fill(colorWhite)
		d.draw(colorDarkGold)
		d.pdf.Circle(x, h-50, 15, "FD")
	}
	d.alpha(1)
}

func (d *document) projectPage(client, demande string) {
	d.pdf.AddPage()
	contentWidth := d.width - 2*margin
	y := 80.0

	d.title(y, 24, "VOTRE VISION, NOTRE SAVOIR-FAIRE")
	y += 40

	half := contentWidth / 2
	d.horizontalGradient(margin, y-1.5, half, 3, colorGold, colorDarkGold)
	d.horizontalGradient(margin+half, y-1.5, half, 3, colorDarkGold, colorGold)
	y += 40

	d.text(colorGold)
	d.pdf.SetFont(fontFamily, "B", 18)
	d.textAt(margin, y, 22, fmt.Sprintf("Cher(e) %s,", client))
	y += 30

	d.text(colorPrimary)
	d.pdf.SetFont(fontFamily, "", 12)
	y = d.paragraph(margin, y, contentWidth, 16, introText, "L") + 20

	d.sectionHeading(y, "VOTRE DEMANDE :")
	y += 25

	d.pdf.SetFont(fontFamily, "I", 12)
	quote := d.quoteLines(`"`+demande+`"`, contentWidth-20)
	boxHeight := float64(len(quote))*15 + 30
	if boxHeight < 80 {
		boxHeight = 80
	}

	d.alpha(0.2)
	d.fill(colorGray)
	d.pdf.RoundedRect(margin+5, y+5, contentWidth-10, boxHeight, 8, "1234", "F")
	d.alpha(1)

	d.fill(colorLightGray)
	d.draw(colorGold)
	d.pdf.SetLineWidth(1)
	d.pdf.RoundedRect(margin, y, contentWidth, boxHeight, 8, "1234", "FD")

	d.text(colorPrimary)
	for i, line := range quote {
		d.pdf.SetXY(margin+10, y+15+float64(i)*15)
		d.pdf.CellFormat(contentWidth-20, 15, line, "", 0, "L", false, 0, "")
	}
	y += boxHeight + 40

	d.sectionHeading(y, "NOTRE ENGAGEMENT :")
	y += 25

	d.pdf.SetFont(fontFamily, "", 12)
	for _, engagement := range engagements {
		d.fill(colorGold)
		d.pdf.Circle(60, y+6, 3, "F")
		d.text(colorPrimary)
		d.textAt(75, y, 12, engagement)
		y += 18
	}
}

// quoteLines wraps the request text for the quote box, keeping explicit line
// breaks and truncating past maxQuoteRow lines.
func (d *document) quoteLines(s string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(d.tr(s), "\n") {
		if strings.TrimSpace(para) == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, d.wrap(para, width)...)
	}
	if len(lines) > maxQuoteRow {
		lines = lines[:maxQuoteRow]
		lines[maxQuoteRow-1] = strings.TrimRight(lines[maxQuoteRow-1], " ") + d.tr("…")
	}
	return lines
}

// wrap splits already translated text into lines no wider than width.
func (d *document) wrap(s string, width float64) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(s) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if line != "" && d.pdf.GetStringWidth(candidate) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// framedImage draws a bordered image slot and embeds jpeg when present,
// otherwise writes the placeholder lines.
func (d *document) framedImage(x, y, size, radius float64, jpeg []byte, placeholder ...string) {
	d.fill(colorWhite)
	d.draw(colorDarkGold)
	d.pdf.SetLineWidth(1)
	d.pdf.RoundedRect(x, y, size, size, radius, "1234", "FD")

	if d.embed(jpeg, x+6, y+6, size-12) {
		return
	}

	d.text(colorGray)
	d.pdf.SetFont(fontFamily, "I", 14)
	start := y + size/2 - float64(len(placeholder))*10
	for i, line := range placeholder {
		d.pdf.SetXY(x, start+float64(i)*20)
		d.pdf.CellFormat(size, 20, d.tr(line), "", 0, "C", false, 0, "")
	}
}

func (d *document) embed(jpeg []byte, x, y, box float64) bool {
	if len(jpeg) == 0 {
		return false
	}

	d.images++
	name := "image-" + strconv.Itoa(d.images)
	opts := fpdf.ImageOptions{ImageType: "JPG"}
	info := d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(jpeg))
	if d.pdf.Err() || info == nil || info.Width() == 0 || info.Height() == 0 {
		d.pdf.ClearError()
		return false
	}

	w, h := box, box
	if ratio := info.Width() / info.Height(); ratio > 1 {
		h = box / ratio
	} else {
		w = box * ratio
	}
	d.pdf.ImageOptions(name, x+(box-w)/2, y+(box-h)/2, w, h, false, opts, 0, "")
	return true
}

func (d *document) mainImagePage(index int, jpeg []byte) {
	d.pdf.AddPage()
	cx := d.width / 2
	y := 80.0

	d.title(y, 24, "VOTRE CRÉATION SÉLECTIONNÉE")
	y += 40

	d.draw(colorGold)
	d.pdf.SetLineWidth(2)
	d.pdf.Line(margin, y, cx-20, y)
	d.pdf.Line(cx+20, y, d.width-margin, y)
	d.pdf.SetLineWidth(1)
	d.diamond(cx, y, 10, 6, colorGold, colorDarkGold)
	y += 40

	const imageSize = 200.0
	imageX := cx - imageSize/2

	d.alpha(0.3)
	d.fill(colorGray)
	d.pdf.RoundedRect(imageX+5, y+5, imageSize, imageSize, 15, "1234", "F")
	d.alpha(1)

	d.pdf.ClipRoundedRect(imageX-10, y-10, imageSize+20, imageSize+20, 15, false)
	d.pdf.RadialGradient(imageX-10, y-10, imageSize+20, imageSize+20,
		colorLightGold.r, colorLightGold.g, colorLightGold.b,
		colorGold.r, colorGold.g, colorGold.b,
		0.5, 0.5, 0.5, 0.5, 1)
	d.pdf.ClipEnd()

	d.framedImage(imageX, y, imageSize, 10, jpeg,
		"Image sélectionnée", fmt.Sprintf("Proposition %d", index+1))
	y += imageSize + 50

	d.text(colorGold)
	d.pdf.SetFont(fontFamily, "B", 18)
	d.textAt(margin, y, 22, "UNE CRÉATION QUI VOUS RESSEMBLE")
	y += 30

	d.text(colorPrimary)
	d.pdf.SetFont(fontFamily, "", 12)
	d.paragraph(margin, y, d.width-2*margin, 16, selectionText, "L")
}

func (d *document) alternatePage(ordinal int, jpeg []byte) {
	d.pdf.AddPage()
	cx := d.width / 2
	y := 80.0

	d.title(y, 22, fmt.Sprintf("PROPOSITION ALTERNATIVE %d", ordinal))
	y += 40

	d.rule(y, 2)
	y += 40

	const imageSize = 150.0
	imageX := cx - imageSize/2

	d.fill(colorLightGold)
	d.draw(colorGold)
	d.pdf.SetLineWidth(1)
	d.pdf.RoundedRect(imageX-5, y-5, imageSize+10, imageSize+10, 10, "1234", "FD")
	d.framedImage(imageX, y, imageSize, 8, jpeg, fmt.Sprintf("Alternative %d", ordinal))
	y += imageSize + 40

	d.text(colorPrimary)
	d.pdf.SetFont(fontFamily, "", 12)
	d.paragraph(margin, y, d.width-2*margin, 16, alternateText(ordinal), "L")
}

func (d *document) contactPage(orderID string) {
	d.pdf.AddPage()
	contentWidth := d.width - 2*margin
	y := 80.0

	d.title(y, 24, "PROCHAINES ÉTAPES")
	y += 50

	d.rule(y, 3)
	d.pdf.SetLineWidth(1)
	y += 40

	d.sectionHeading(y, "PROCESSUS DE CRÉATION :")
	y += 30

	for i, step := range processSteps {
		d.fill(colorGold)
		d.draw(colorDarkGold)
		d.pdf.Circle(60, y+8, 12, "FD")

		d.text(colorWhite)
		d.pdf.SetFont(fontFamily, "B", 10)
		d.pdf.SetXY(48, y-4)
		d.pdf.CellFormat(24, 24, strconv.Itoa(i+1), "", 0, "CM", false, 0, "")

		d.text(colorPrimary)
		d.pdf.SetFont(fontFamily, "", 12)
		d.textAt(85, y, 16, step)
		y += 25
	}
	y += 30

	d.sectionHeading(y, "NOUS CONTACTER :")
	y += 25

	d.text(colorPrimary)
	d.pdf.SetFont(fontFamily, "", 12)
	for _, line := range []string{
		"Email : " + contactEmail,
		"Téléphone : " + contactPhone,
		"Adresse : " + contactAddress,
	} {
		d.textAt(60, y, 14, line)
		y += 20
	}
	y += 40

	d.fill(colorLightGold)
	d.draw(colorGold)
	d.pdf.RoundedRect(40, y-10, d.width-80, 60, 8, "1234", "FD")
	d.text(colorPrimary)
	d.pdf.SetFont(fontFamily, "I", 12)
	d.paragraph(margin, y, contentWidth, 16, closingMessage, "C")

	d.text(colorGray)
	d.pdf.SetFont(fontFamily, "", 10)
	d.textAt(margin, d.height-70, 12, "Référence commande : "+orderID)
}
