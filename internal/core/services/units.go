package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

// Unit conversion factors.
const (
	// PointsPerMillimetre converts mm to PDF points (72 / 25.4).
	PointsPerMillimetre = 2.83465

	// PointsPerPixel converts CSS pixels (96 dpi) to points.
	PointsPerPixel = 0.75

	// DefaultFontPoints is used for unknown font size presets.
	DefaultFontPoints = 11.0

	// DefaultPrintFont is used for fonts without a print substitute.
	DefaultPrintFont = "Helvetica"
)

// Section spacing at or below this value is a legacy category.
const legacySpacingThreshold = 5.0

// Legacy category tables in canvas pixels, indexed by category 1..4.
var (
	legacyMarginPixels  = [...]float64{24, 36, 48, 64}
	legacySpacingPixels = [...]float64{8, 16, 24, 32}
)

// Preset font sizes in points.
var fontPresetPoints = map[string]float64{
	domain.FontPresetSmall:  10.5,
	domain.FontPresetMedium: 11,
	domain.FontPresetLarge:  12.5,
}

// printFonts maps lower-cased canvas font families to core PDF fonts.
var printFonts = map[string]string{
	"inter":            "Helvetica",
	"roboto":           "Helvetica",
	"open sans":        "Helvetica",
	"lato":             "Helvetica",
	"arial":            "Helvetica",
	"helvetica":        "Helvetica",
	"montserrat":       "Helvetica",
	"georgia":          "Times",
	"merriweather":     "Times",
	"playfair display": "Times",
	"times new roman":  "Times",
	"times":            "Times",
	"garamond":         "Times",
	"courier new":      "Courier",
	"courier":          "Courier",
	"source code pro":  "Courier",
	"jetbrains mono":   "Courier",
}

// MarginPoints converts a stored page margin to points. Values of 10 and
// above are millimetres; smaller values are legacy categories.
func MarginPoints(v float64) float64 {
	if v >= domain.MinPageMargins {
		return v * PointsPerMillimetre
	}
	return legacyMarginPixels[legacyIndex(v)] * PointsPerPixel
}

// SectionSpacingPoints converts stored section spacing to points. Values
// above 5 are pixels; 5 and below are legacy categories.
func SectionSpacingPoints(v float64) float64 {
	if v > legacySpacingThreshold {
		return v * PointsPerPixel
	}
	return legacySpacingPixels[legacyIndex(v)] * PointsPerPixel
}

// FontSizePoints resolves a numeric or preset font size.
func FontSizePoints(f domain.FontSize) float64 {
	if !f.IsPreset() {
		return f.Points
	}
	if pt, ok := fontPresetPoints[f.Preset]; ok {
		return pt
	}
	return DefaultFontPoints
}

// PrintFont returns the print-safe substitute for a canvas font family.
func PrintFont(family string) string {
	if f, ok := printFonts[strings.ToLower(strings.TrimSpace(family))]; ok {
		return f
	}
	return DefaultPrintFont
}

// ParseHexColor parses "#rrggbb" or "#rgb".
func ParseHexColor(s string) (domain.RGB, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return domain.RGB{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return domain.RGB{}, false
	}
	return domain.RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, true
}

// ResolveExportStyle converts a stored style into print units. The
// template theme colour is used when the style colour does not parse.
func ResolveExportStyle(style domain.Style, themeColor string) domain.ExportStyle {
	style = domain.ClampStyle(style)

	primary, ok := ParseHexColor(style.PrimaryColor)
	if !ok {
		primary, _ = ParseHexColor(themeColor)
	}
	return domain.ExportStyle{
		MarginPt:         MarginPoints(style.PageMargins),
		SectionSpacingPt: SectionSpacingPoints(style.SectionSpacing),
		FontSizePt:       FontSizePoints(style.FontSize),
		LineHeight:       style.LineHeight,
		FontFamily:       PrintFont(style.FontFamily),
		Primary:          primary,
		Background:       style.Background,
	}
}

// legacyIndex rounds a legacy category and clamps it to the table.
func legacyIndex(v float64) int {
	c := int(math.Round(v))
	if c < 1 {
		c = 1
	}
	if c > len(legacyMarginPixels) {
		c = len(legacyMarginPixels)
	}
	return c - 1
}
