// Package config holds the deployment profile for a screen resolution and
// scoreboard layout: where the scoreboard sits in the screenshot, which
// columns to mask, and how to recognize the result.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"

	"github.com/ironsheep/scoreboard-ocr/internal/imaging"
	"github.com/ironsheep/scoreboard-ocr/internal/ocr"
	"github.com/ironsheep/scoreboard-ocr/internal/scoreboard"
)

// EnvPrefix prefixes environment overrides, e.g. SCOREBOARD_OCR_DEBUG_IMAGE.
const EnvPrefix = "SCOREBOARD_OCR"

// Column names recognized in Profile.Columns.
const (
	ColumnName    = "name"
	ColumnKDA     = "kda"
	ColumnCredits = "credits"
)

// Section is one scoreboard block (usually one team) in the screenshot.
type Section struct {
	Name string                 `json:"name" mapstructure:"name"`
	Crop imaging.FractionalRect `json:"crop" mapstructure:"crop"`
}

// ColumnRect is a named column in preprocessed (upscaled) image pixels.
type ColumnRect struct {
	Name         string `json:"name" mapstructure:"name"`
	imaging.Rect `mapstructure:",squash"`
}

// OCRSettings configures the recognizer.
type OCRSettings struct {
	ocr.Mode       `mapstructure:",squash"`
	TessdataPrefix string `json:"tessdata_prefix,omitempty" mapstructure:"tessdata_prefix"`
}

// Profile is the complete per-deployment configuration.
type Profile struct {
	Name         string               `json:"name" mapstructure:"name"`
	Sections     []Section            `json:"sections" mapstructure:"sections"`
	MaskBands    []imaging.ColumnBand `json:"mask_bands" mapstructure:"mask_bands"`
	MaskFill     string               `json:"mask_fill" mapstructure:"mask_fill"`
	Columns      []ColumnRect         `json:"columns,omitempty" mapstructure:"columns"`
	SkipPrefixes []string             `json:"skip_prefixes" mapstructure:"skip_prefixes"`
	Strict       bool                 `json:"strict" mapstructure:"strict"`
	OCR          OCRSettings          `json:"ocr" mapstructure:"ocr"`

	// DebugImage is where normalized sections are written for inspection.
	// "{section}" and "{file}" are replaced with the section name and the
	// screenshot base name. Empty disables it.
	DebugImage string `json:"debug_image,omitempty" mapstructure:"debug_image"`
}

// Default returns the profile for the 1080p scoreboard layout: the green team
// in the upper half of the board, the red team in the lower half, and the
// rank and agent columns masked.
func Default() *Profile {
	return &Profile{
		Name: "default",
		Sections: []Section{
			{Name: "green", Crop: imaging.FractionalRect{X1: 0.20, Y1: 0.10, X2: 0.80, Y2: 0.50}},
			{Name: "red", Crop: imaging.FractionalRect{X1: 0.20, Y1: 0.50, X2: 0.80, Y2: 0.90}},
		},
		MaskBands: []imaging.ColumnBand{
			{X1: 188, X2: 254},
			{X1: 427, X2: 549},
			{X1: 670, X2: 820},
			{X1: 910, X2: 963},
		},
		MaskFill:     "#000000",
		SkipPrefixes: append([]string(nil), scoreboard.DefaultSkipPrefixes...),
		OCR: OCRSettings{
			Mode: ocr.DefaultMode,
		},
	}
}

// Load reads a profile file (YAML, TOML or JSON, chosen by extension) and
// applies SCOREBOARD_OCR_* environment overrides. An empty path yields the
// default profile with environment overrides only. Keys missing from the
// file keep their default values.
func Load(path string) (*Profile, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
		}
	}

	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func setDefaults(v *viper.Viper, d *Profile) {
	v.SetDefault("name", d.Name)
	v.SetDefault("sections", sectionMaps(d.Sections))
	v.SetDefault("mask_bands", bandMaps(d.MaskBands))
	v.SetDefault("mask_fill", d.MaskFill)
	v.SetDefault("columns", []map[string]interface{}{})
	v.SetDefault("skip_prefixes", d.SkipPrefixes)
	v.SetDefault("strict", d.Strict)
	v.SetDefault("ocr.language", d.OCR.Language)
	v.SetDefault("ocr.page_seg_mode", d.OCR.PageSegMode)
	v.SetDefault("ocr.whitelist", d.OCR.Whitelist)
	v.SetDefault("ocr.tessdata_prefix", d.OCR.TessdataPrefix)
	v.SetDefault("debug_image", d.DebugImage)
}

func sectionMaps(sections []Section) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(sections))
	for _, s := range sections {
		out = append(out, map[string]interface{}{
			"name": s.Name,
			"crop": map[string]interface{}{
				"x1": s.Crop.X1, "y1": s.Crop.Y1, "x2": s.Crop.X2, "y2": s.Crop.Y2,
			},
		})
	}
	return out
}

func bandMaps(bands []imaging.ColumnBand) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(bands))
	for _, b := range bands {
		out = append(out, map[string]interface{}{"x1": b.X1, "x2": b.X2})
	}
	return out
}

// Validate checks the profile for values the pipeline cannot work with.
func (p *Profile) Validate() error {
	if len(p.Sections) == 0 {
		return errors.New("profile must define at least one section")
	}

	seen := make(map[string]bool, len(p.Sections))
	for _, s := range p.Sections {
		if s.Name == "" {
			return errors.New("profile section without a name")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate profile section %q", s.Name)
		}
		seen[s.Name] = true
		if err := s.Crop.Validate(); err != nil {
			return fmt.Errorf("section %q: %w", s.Name, err)
		}
	}

	if _, err := p.Fill(); err != nil {
		return err
	}

	if len(p.Columns) > 0 {
		known := map[string]bool{}
		for _, c := range p.Columns {
			switch c.Name {
			case ColumnName, ColumnKDA, ColumnCredits:
			default:
				return fmt.Errorf("unknown column %q (want %s, %s or %s)", c.Name, ColumnName, ColumnKDA, ColumnCredits)
			}
			if c.Rect.Empty() {
				return fmt.Errorf("column %q has an empty rectangle %s", c.Name, c.Rect)
			}
			known[c.Name] = true
		}
		for _, name := range []string{ColumnName, ColumnKDA, ColumnCredits} {
			if !known[name] {
				return fmt.Errorf("columns must include %q", name)
			}
		}
	}

	return nil
}

// Fill returns the mask fill color. An empty MaskFill means opaque black.
func (p *Profile) Fill() (color.Color, error) {
	if p.MaskFill == "" {
		return imaging.DefaultMaskFill, nil
	}
	c, err := colorful.Hex(p.MaskFill)
	if err != nil {
		return nil, fmt.Errorf("invalid mask_fill %q: %w", p.MaskFill, err)
	}
	return c, nil
}

// Column returns the rectangle for a named column.
func (p *Profile) Column(name string) (imaging.Rect, bool) {
	for _, c := range p.Columns {
		if c.Name == name {
			return c.Rect, true
		}
	}
	return imaging.Rect{}, false
}

// Section returns the section with the given name.
func (p *Profile) Section(name string) (Section, bool) {
	for _, s := range p.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// DebugImagePath returns the diagnostic path for a section, or "" when
// diagnostics are disabled. source names the screenshot when several are
// processed together and is "" for a single run.
//
// "{section}" and "{file}" in DebugImage are replaced by the section and
// source names. When a placeholder is missing but its value is needed to keep
// paths distinct, "_<file>" or "_<section>" is inserted before the extension.
func (p *Profile) DebugImagePath(source, section string) string {
	if p.DebugImage == "" {
		return ""
	}
	path := p.DebugImage

	var suffix string
	if source != "" && !strings.Contains(path, "{file}") {
		suffix += "_" + source
	}
	if len(p.Sections) > 1 && !strings.Contains(path, "{section}") {
		suffix += "_" + section
	}

	path = strings.ReplaceAll(path, "{file}", source)
	path = strings.ReplaceAll(path, "{section}", section)
	if suffix != "" {
		ext := filepath.Ext(path)
		path = strings.TrimSuffix(path, ext) + suffix + ext
	}
	return path
}

// Parser builds the line parser configured by the profile.
func (p *Profile) Parser() *scoreboard.Parser {
	return scoreboard.NewParser(scoreboard.Options{
		SkipPrefixes: p.SkipPrefixes,
		Strict:       p.Strict,
	})
}
