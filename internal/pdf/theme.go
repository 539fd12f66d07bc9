package pdf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RGB is a 0-255 color triple.
type RGB struct {
	R int `yaml:"r"`
	G int `yaml:"g"`
	B int `yaml:"b"`
}

// Palette holds every color the report uses. Visual variants of the
// report differ only in palette and spacing, so both live in Theme
// instead of being baked into the drawing code.
type Palette struct {
	Primary     RGB `yaml:"primary"`
	Secondary   RGB `yaml:"secondary"`
	Accent      RGB `yaml:"accent"`
	Warning     RGB `yaml:"warning"`
	Danger      RGB `yaml:"danger"`
	TextDark    RGB `yaml:"textDark"`
	TextMuted   RGB `yaml:"textMuted"`
	Background  RGB `yaml:"background"`
	TableHeader RGB `yaml:"tableHeader"`
	TableAlt    RGB `yaml:"tableAlt"`
	GridLine    RGB `yaml:"gridLine"`
}

// Theme is the style configuration for one report variant. All
// dimensions are in millimeters on an A4 portrait page.
type Theme struct {
	Palette Palette `yaml:"palette"`

	FontFamily string  `yaml:"fontFamily"`
	Margin     float64 `yaml:"margin"`
	// HeaderBand and FooterBand are the vertical zones reserved at the
	// top and bottom of every content page.
	HeaderBand float64 `yaml:"headerBand"`
	FooterBand float64 `yaml:"footerBand"`
	// SafetyPad is subtracted from the bottom boundary before any
	// space check, so blocks never touch the footer rule.
	SafetyPad float64 `yaml:"safetyPad"`

	CardHeight float64 `yaml:"cardHeight"`
	CardGap    float64 `yaml:"cardGap"`
	CardRadius float64 `yaml:"cardRadius"`

	RowHeight    float64 `yaml:"rowHeight"`
	HeaderHeight float64 `yaml:"headerHeight"`

	// ChartSeries is the rotation of slice/bar colors.
	ChartSeries []RGB `yaml:"chartSeries"`

	Confidential string `yaml:"confidential"`
}

// DefaultTheme returns the standard portal look.
func DefaultTheme() *Theme {
	return &Theme{
		Palette: Palette{
			Primary:     RGB{30, 58, 95},
			Secondary:   RGB{52, 152, 219},
			Accent:      RGB{46, 204, 113},
			Warning:     RGB{241, 196, 15},
			Danger:      RGB{231, 76, 60},
			TextDark:    RGB{44, 62, 80},
			TextMuted:   RGB{127, 140, 141},
			Background:  RGB{248, 249, 250},
			TableHeader: RGB{30, 58, 95},
			TableAlt:    RGB{241, 245, 249},
			GridLine:    RGB{220, 220, 220},
		},
		FontFamily:   "Arial",
		Margin:       15,
		HeaderBand:   18,
		FooterBand:   15,
		SafetyPad:    3,
		CardHeight:   24,
		CardGap:      5,
		CardRadius:   2,
		RowHeight:    6,
		HeaderHeight: 7,
		ChartSeries: []RGB{
			{52, 152, 219},
			{46, 204, 113},
			{241, 196, 15},
			{231, 76, 60},
			{155, 89, 182},
			{26, 188, 156},
			{230, 126, 34},
			{127, 140, 141},
		},
		Confidential: "CONFIDENTIAL - For internal use only",
	}
}

// LoadTheme reads a YAML theme file over the defaults, so a variant
// file only needs to state what it changes.
func LoadTheme(path string) (*Theme, error) {
	t := DefaultTheme()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse theme file %s: %w", path, err)
	}
	if len(t.ChartSeries) == 0 {
		t.ChartSeries = DefaultTheme().ChartSeries
	}
	return t, nil
}

// SeriesColor returns the chart color for index i, cycling the rotation.
func (t *Theme) SeriesColor(i int) RGB {
	return t.ChartSeries[i%len(t.ChartSeries)]
}
