package domain

// BlockKind identifies how a rendered block is laid out.
type BlockKind string

// Block kinds produced by section renderers.
const (
	BlockHeading BlockKind = "heading"
	BlockTitle   BlockKind = "title"
	BlockText    BlockKind = "text"
	BlockMeta    BlockKind = "meta"
	BlockBullet  BlockKind = "bullet"
	BlockRule    BlockKind = "rule"
)

// Block is one renderer output unit, independent of the output format.
type Block struct {
	Kind BlockKind `json:"kind"`
	Text string    `json:"text,omitempty"`

	// Right holds right-aligned text on the same line (dates, locations).
	Right string `json:"right,omitempty"`

	// Accent renders the block in the theme colour.
	Accent bool `json:"accent,omitempty"`
}

// PaperSize is a page size in points (1in = 72pt).
type PaperSize struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Paper sizes supported by the exporter.
var (
	PaperA4     = PaperSize{Name: "A4", Width: 595.28, Height: 841.89}
	PaperLetter = PaperSize{Name: "Letter", Width: 612, Height: 792}
)

// RGB is an 8-bit colour.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// ExportStyle is the style resolved into absolute print units.
type ExportStyle struct {
	MarginPt         float64    `json:"marginPt"`
	SectionSpacingPt float64    `json:"sectionSpacingPt"`
	FontSizePt       float64    `json:"fontSizePt"`
	LineHeight       float64    `json:"lineHeight"`
	FontFamily       string     `json:"fontFamily"`
	Primary          RGB        `json:"primary"`
	Background       Background `json:"background"`
}

// ExportSection is one rendered section in document order.
type ExportSection struct {
	ID       string      `json:"id"`
	Type     SectionType `json:"type"`
	Renderer string      `json:"renderer"`
	Blocks   []Block     `json:"blocks"`
}

// ExportLayout is the read-only input of an export renderer.
type ExportLayout struct {
	Title    string          `json:"title"`
	Template string          `json:"template"`
	Paper    PaperSize       `json:"paper"`
	Style    ExportStyle     `json:"style"`
	Sections []ExportSection `json:"sections"`
}
