package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.ExportRenderer = (*Renderer)(nil)

// Format is the output format name.
const Format = "pdf"

// Relative sizes against the body font.
const (
	titleScale   = 1.8
	headingScale = 1.15
	metaScale    = 0.9
	bulletIndent = 12.0
)

// metaGrey is used for secondary lines such as dates and locations.
var metaGrey = domain.RGB{R: 107, G: 114, B: 128}

// Renderer writes layouts as PDF documents.
type Renderer struct {
	creator string
}

// NewRenderer creates a PDF renderer. creator is recorded in the document
// metadata.
func NewRenderer(creator string) *Renderer {
	return &Renderer{creator: creator}
}

// Format returns "pdf".
func (r *Renderer) Format() string {
	return Format
}

// Render draws the layout and returns the encoded document.
func (r *Renderer) Render(ctx context.Context, layout domain.ExportLayout) ([]byte, error) {
	if layout.Paper.Width <= 0 || layout.Paper.Height <= 0 {
		layout.Paper = domain.PaperA4
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: layout.Paper.Width, Ht: layout.Paper.Height},
	})
	st := layout.Style
	if st.FontFamily == "" {
		st.FontFamily = "Helvetica"
	}
	if st.FontSizePt <= 0 {
		st.FontSizePt = 11
	}
	pdf.SetMargins(st.MarginPt, st.MarginPt, st.MarginPt)
	pdf.SetAutoPageBreak(true, st.MarginPt)
	pdf.SetTitle(layout.Title, true)
	if r.creator != "" {
		pdf.SetCreator(r.creator, true)
	}

	p := &page{
		pdf:   pdf,
		style: st,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
	}
	pdf.SetHeaderFunc(p.background)
	pdf.AddPage()

	for i, section := range layout.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 {
			pdf.Ln(st.SectionSpacingPt)
		}
		for _, block := range section.Blocks {
			p.block(block)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("draw pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("encode pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// page carries drawing state for one document.
type page struct {
	pdf   *gofpdf.Fpdf
	style domain.ExportStyle
	tr    func(string) string
}

func (p *page) lineHeight(size float64) float64 {
	lh := p.style.LineHeight
	if lh <= 0 {
		lh = domain.MinLineHeight
	}
	return size * lh
}

func (p *page) contentWidth() float64 {
	w, _ := p.pdf.GetPageSize()
	left, _, right, _ := p.pdf.GetMargins()
	return w - left - right
}

func (p *page) font(style string, size float64, color domain.RGB) {
	p.pdf.SetFont(p.style.FontFamily, style, size)
	p.pdf.SetTextColor(color.R, color.G, color.B)
}

func (p *page) block(b domain.Block) {
	body := p.style.FontSizePt
	switch b.Kind {
	case domain.BlockTitle:
		p.font("B", body*titleScale, p.accent(b))
		p.pdf.MultiCell(0, p.lineHeight(body*titleScale), p.tr(b.Text), "", "L", false)
	case domain.BlockHeading:
		p.font("B", body*headingScale, p.accent(b))
		p.pdf.MultiCell(0, p.lineHeight(body*headingScale), p.tr(b.Text), "", "L", false)
	case domain.BlockRule:
		left, _, _, _ := p.pdf.GetMargins()
		y := p.pdf.GetY() + 1
		c := p.style.Primary
		p.pdf.SetDrawColor(c.R, c.G, c.B)
		p.pdf.SetLineWidth(0.75)
		p.pdf.Line(left, y, left+p.contentWidth(), y)
		p.pdf.Ln(4)
	case domain.BlockMeta:
		p.font("I", body*metaScale, metaGrey)
		p.row(b, body*metaScale)
	case domain.BlockBullet:
		p.font("", body, domain.RGB{})
		left, _, _, _ := p.pdf.GetMargins()
		h := p.lineHeight(body)
		p.pdf.SetX(left)
		p.pdf.CellFormat(bulletIndent, h, p.tr("•"), "", 0, "C", false, 0, "")
		p.pdf.MultiCell(p.contentWidth()-bulletIndent, h, p.tr(b.Text), "", "L", false)
	default:
		p.font(boldIf(b.Accent), body, p.accent(b))
		p.row(b, body)
	}
}

// row writes Text on the left and Right flush right on the same line.
func (p *page) row(b domain.Block, size float64) {
	h := p.lineHeight(size)
	if b.Right == "" {
		p.pdf.MultiCell(0, h, p.tr(b.Text), "", "L", false)
		return
	}
	right := p.tr(b.Right)
	rw := p.pdf.GetStringWidth(right) + 2
	p.pdf.CellFormat(p.contentWidth()-rw, h, p.tr(b.Text), "", 0, "L", false, 0, "")
	p.pdf.CellFormat(rw, h, right, "", 1, "R", false, 0, "")
}

func (p *page) accent(b domain.Block) domain.RGB {
	if b.Accent {
		return p.style.Primary
	}
	return domain.RGB{}
}

// background paints the page decoration. It runs as the header callback so
// every page gets it before any text.
func (p *page) background() {
	w, h := p.pdf.GetPageSize()
	c := p.style.Primary
	switch p.style.Background {
	case domain.BackgroundSubtle:
		t := tint(c, 0.95)
		p.pdf.SetFillColor(t.R, t.G, t.B)
		p.pdf.Rect(0, 0, w, h, "F")
	case domain.BackgroundBand:
		if p.pdf.PageNo() == 1 {
			p.pdf.SetFillColor(c.R, c.G, c.B)
			p.pdf.Rect(0, 0, w, p.style.MarginPt/2, "F")
		}
	}
	left, top, _, _ := p.pdf.GetMargins()
	p.pdf.SetXY(left, top)
}

// tint mixes c towards white by amount in [0,1].
func tint(c domain.RGB, amount float64) domain.RGB {
	mix := func(v int) int { return v + int(float64(255-v)*amount) }
	return domain.RGB{R: mix(c.R), G: mix(c.G), B: mix(c.B)}
}

func boldIf(b bool) string {
	if b {
		return "B"
	}
	return ""
}
