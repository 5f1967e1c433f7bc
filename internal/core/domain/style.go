package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Style bounds. Values outside these ranges are clamped, never rejected.
const (
	MinPageMargins = 10.0 // mm
	MaxPageMargins = 50.0 // mm

	MinSectionSpacing = 0.0
	MaxSectionSpacing = 50.0

	MinFontSize = 8.0  // pt
	MaxFontSize = 24.0 // pt

	MinLineHeight = 1.0
	MaxLineHeight = 2.5

	// Legacy category encodings used by documents saved before the
	// continuous sliders existed.
	MinLegacyCategory = 1
	MaxLegacyCategory = 4
)

// Legacy font size presets.
const (
	FontPresetSmall  = "small"
	FontPresetMedium = "medium"
	FontPresetLarge  = "large"
)

// IsFontPreset reports whether name is one of the legacy presets.
func IsFontPreset(name string) bool {
	switch name {
	case FontPresetSmall, FontPresetMedium, FontPresetLarge:
		return true
	}
	return false
}

// FontSize is either an absolute size in points or a legacy preset name.
// It encodes to JSON as a number or a string respectively.
type FontSize struct {
	Points float64
	Preset string
}

// FontPoints returns an absolute font size.
func FontPoints(pt float64) FontSize {
	return FontSize{Points: pt}
}

// FontPreset returns a legacy preset font size.
func FontPreset(name string) FontSize {
	return FontSize{Preset: name}
}

// IsPreset returns true if the size uses the legacy enum encoding.
func (f FontSize) IsPreset() bool {
	return f.Preset != ""
}

// String returns the string representation.
func (f FontSize) String() string {
	if f.IsPreset() {
		return f.Preset
	}
	return strconv.FormatFloat(f.Points, 'f', -1, 64)
}

// MarshalJSON implements json.Marshaler.
func (f FontSize) MarshalJSON() ([]byte, error) {
	if f.IsPreset() {
		return json.Marshal(f.Preset)
	}
	return json.Marshal(f.Points)
}

// UnmarshalJSON accepts a number or a string. Numeric strings are read
// as points.
func (f *FontSize) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FontPoints(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("font size must be a number or preset: %w", err)
	}
	if pt, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FontPoints(pt)
		return nil
	}
	*f = FontPreset(strings.ToLower(strings.TrimSpace(s)))
	return nil
}

// Background is the page background decoration.
type Background string

// Available backgrounds.
const (
	BackgroundPlain  Background = "plain"
	BackgroundSubtle Background = "subtle"
	BackgroundBand   Background = "band"
)

// IsValid returns true if the background is recognised.
func (b Background) IsValid() bool {
	switch b {
	case BackgroundPlain, BackgroundSubtle, BackgroundBand:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b Background) String() string {
	return string(b)
}

// Style holds the visual settings of a document.
type Style struct {
	// PageMargins is millimetres when >= 10, otherwise a legacy category 1-4.
	PageMargins float64 `json:"pageMargins"`

	// SectionSpacing is pixels when > 5, otherwise a legacy category 1-4.
	SectionSpacing float64 `json:"sectionSpacing"`

	FontSize     FontSize   `json:"fontSize"`
	LineHeight   float64    `json:"lineHeight"`
	PrimaryColor string     `json:"primaryColor"`
	FontFamily   string     `json:"fontFamily"`
	Background   Background `json:"background"`
}

// DefaultStyle returns the style of a new document.
func DefaultStyle() Style {
	return Style{
		PageMargins:    20,
		SectionSpacing: 16,
		FontSize:       FontPoints(11),
		LineHeight:     1.4,
		PrimaryColor:   "#2563eb",
		FontFamily:     "Inter",
		Background:     BackgroundPlain,
	}
}

// StylePatch is a partial style update. Nil fields are left unchanged.
type StylePatch struct {
	PageMargins    *float64    `json:"pageMargins,omitempty"`
	SectionSpacing *float64    `json:"sectionSpacing,omitempty"`
	FontSize       *FontSize   `json:"fontSize,omitempty"`
	LineHeight     *float64    `json:"lineHeight,omitempty"`
	PrimaryColor   *string     `json:"primaryColor,omitempty"`
	FontFamily     *string     `json:"fontFamily,omitempty"`
	Background     *Background `json:"background,omitempty"`
}

// IsEmpty returns true if the patch changes nothing.
func (p StylePatch) IsEmpty() bool {
	return p.PageMargins == nil && p.SectionSpacing == nil && p.FontSize == nil &&
		p.LineHeight == nil && p.PrimaryColor == nil && p.FontFamily == nil &&
		p.Background == nil
}

// Apply clamps every patched value and merges it into s.
func (p StylePatch) Apply(s Style) Style {
	if p.PageMargins != nil {
		s.PageMargins = ClampPageMargins(*p.PageMargins)
	}
	if p.SectionSpacing != nil {
		s.SectionSpacing = ClampSectionSpacing(*p.SectionSpacing)
	}
	if p.FontSize != nil {
		s.FontSize = ClampFontSize(*p.FontSize)
	}
	if p.LineHeight != nil {
		s.LineHeight = ClampLineHeight(*p.LineHeight)
	}
	if p.PrimaryColor != nil {
		s.PrimaryColor = strings.TrimSpace(*p.PrimaryColor)
	}
	if p.FontFamily != nil {
		s.FontFamily = strings.TrimSpace(*p.FontFamily)
	}
	if p.Background != nil {
		s.Background = clampBackground(*p.Background)
	}
	return s
}

// ClampStyle returns s with every field forced into its documented bounds.
func ClampStyle(s Style) Style {
	s.PageMargins = ClampPageMargins(s.PageMargins)
	s.SectionSpacing = ClampSectionSpacing(s.SectionSpacing)
	s.FontSize = ClampFontSize(s.FontSize)
	s.LineHeight = ClampLineHeight(s.LineHeight)
	s.Background = clampBackground(s.Background)
	return s
}

// ClampPageMargins keeps legacy categories in 1-4 and millimetre values
// in 10-50.
func ClampPageMargins(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultStyle().PageMargins
	}
	if v < MinPageMargins {
		return clampCategory(v)
	}
	return math.Min(v, MaxPageMargins)
}

// ClampSectionSpacing keeps spacing within 0-50.
func ClampSectionSpacing(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultStyle().SectionSpacing
	}
	return clamp(v, MinSectionSpacing, MaxSectionSpacing)
}

// ClampFontSize keeps numeric sizes within 8-24pt. Known presets pass
// through; unknown presets become the default size.
func ClampFontSize(f FontSize) FontSize {
	if f.IsPreset() {
		if IsFontPreset(f.Preset) {
			return f
		}
		return DefaultStyle().FontSize
	}
	if math.IsNaN(f.Points) {
		return DefaultStyle().FontSize
	}
	return FontPoints(clamp(f.Points, MinFontSize, MaxFontSize))
}

// ClampLineHeight keeps line height within 1.0-2.5.
func ClampLineHeight(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultStyle().LineHeight
	}
	return clamp(v, MinLineHeight, MaxLineHeight)
}

func clampBackground(b Background) Background {
	if b.IsValid() {
		return b
	}
	return BackgroundPlain
}

func clampCategory(v float64) float64 {
	return clamp(math.Round(v), MinLegacyCategory, MaxLegacyCategory)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
