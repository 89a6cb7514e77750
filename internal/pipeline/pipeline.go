// Package pipeline wires the scoreboard stages together: crop each configured
// section out of the screenshot, mask distracting columns, normalize for OCR,
// recognize, and parse.
//
// A run is strictly sequential within one screenshot. Image decode failures,
// invalid regions and recognizer failures abort the run with no partial
// output; per-line parse problems never surface.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/scoreboard-ocr/internal/config"
	"github.com/ironsheep/scoreboard-ocr/internal/imaging"
	"github.com/ironsheep/scoreboard-ocr/internal/ocr"
	"github.com/ironsheep/scoreboard-ocr/internal/scoreboard"
)

// Pipeline runs a profile against screenshots. It holds no per-run state and
// is safe for concurrent use when its Recognizer is.
type Pipeline struct {
	profile    *config.Profile
	recognizer ocr.Recognizer
	parser     *scoreboard.Parser
	fill       color.Color
	logf       func(format string, args ...interface{})
	workers    int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger routes debug messages to logf (log.Printf, for example).
func WithLogger(logf func(format string, args ...interface{})) Option {
	return func(p *Pipeline) {
		if logf != nil {
			p.logf = logf
		}
	}
}

// WithWorkers bounds the number of screenshots processed at once by
// ExtractBatch. Values below 1 mean one per file.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		p.workers = n
	}
}

// New creates a pipeline for profile using recognizer for OCR.
func New(profile *config.Profile, recognizer ocr.Recognizer, opts ...Option) (*Pipeline, error) {
	if profile == nil {
		profile = config.Default()
	}
	if recognizer == nil {
		return nil, fmt.Errorf("pipeline requires a recognizer")
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	fill, err := profile.Fill()
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		profile:    profile,
		recognizer: recognizer,
		parser:     profile.Parser(),
		fill:       fill,
		logf:       func(string, ...interface{}) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Profile returns the profile the pipeline runs.
func (p *Pipeline) Profile() *config.Profile {
	return p.profile
}

// Report holds the parsed result for each scoreboard section, in profile
// order.
type Report struct {
	Sections []SectionResult `json:"sections"`
}

// SectionResult is the outcome of one section.
type SectionResult struct {
	Name    string            `json:"name"`
	Players scoreboard.Result `json:"players"`
}

// Merged flattens all sections into one result. Later sections win when the
// same name appears twice.
func (r *Report) Merged() scoreboard.Result {
	out := make(scoreboard.Result)
	for _, s := range r.Sections {
		out.Merge(s.Players)
	}
	return out
}

// BySection returns section name -> players.
func (r *Report) BySection() map[string]scoreboard.Result {
	out := make(map[string]scoreboard.Result, len(r.Sections))
	for _, s := range r.Sections {
		out[s.Name] = s.Players
	}
	return out
}

// ExtractFile decodes the screenshot at path and extracts every section.
func (p *Pipeline) ExtractFile(path string) (*Report, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	return p.Extract(img)
}

// Extract runs every configured section over img.
func (p *Pipeline) Extract(img image.Image) (*Report, error) {
	return p.extract(img, "")
}

// extract runs every section; source distinguishes diagnostic images of
// screenshots processed in the same batch.
func (p *Pipeline) extract(img image.Image, source string) (*Report, error) {
	report := &Report{Sections: make([]SectionResult, 0, len(p.profile.Sections))}
	for _, section := range p.profile.Sections {
		players, err := p.extractSection(img, section, source)
		if err != nil {
			return nil, err
		}
		report.Sections = append(report.Sections, SectionResult{Name: section.Name, Players: players})
	}
	return report, nil
}

// Normalize crops and masks a section and prepares it for recognition. When
// the profile sets a debug image path the normalized image is also written
// there; a failed write is logged and otherwise ignored.
func (p *Pipeline) Normalize(img image.Image, section config.Section) (*image.Gray, error) {
	return p.normalize(img, section, "")
}

func (p *Pipeline) normalize(img image.Image, section config.Section, source string) (*image.Gray, error) {
	cropped, err := imaging.ExtractFraction(img, section.Crop)
	if err != nil {
		return nil, fmt.Errorf("section %q: %w", section.Name, err)
	}
	p.logf("section %s: cropped to %dx%d", section.Name, cropped.Bounds().Dx(), cropped.Bounds().Dy())

	masked := imaging.MaskColumns(cropped, p.profile.MaskBands, p.fill)
	normalized := imaging.Preprocess(masked)

	if path := p.profile.DebugImagePath(source, section.Name); path != "" {
		if err := imaging.SaveDiagnostic(normalized, path); err != nil {
			p.logf("section %s: %v", section.Name, err)
		} else {
			p.logf("section %s: wrote diagnostic image %s", section.Name, path)
		}
	}
	return normalized, nil
}

// ExtractSection runs one section over img.
func (p *Pipeline) ExtractSection(img image.Image, section config.Section) (scoreboard.Result, error) {
	return p.extractSection(img, section, "")
}

func (p *Pipeline) extractSection(img image.Image, section config.Section, source string) (scoreboard.Result, error) {
	normalized, err := p.normalize(img, section, source)
	if err != nil {
		return nil, err
	}

	if len(p.profile.Columns) > 0 {
		return p.recognizeColumns(normalized, section)
	}

	text, err := p.recognize(normalized, section.Name)
	if err != nil {
		return nil, err
	}
	result := p.parser.Parse(text)
	p.logf("section %s: parsed %d players", section.Name, len(result))
	return result, nil
}

func (p *Pipeline) recognizeColumns(normalized image.Image, section config.Section) (scoreboard.Result, error) {
	texts := make(map[string]string, 3)
	for _, name := range []string{config.ColumnName, config.ColumnKDA, config.ColumnCredits} {
		rect, _ := p.profile.Column(name)
		region, err := imaging.Extract(normalized, rect)
		if err != nil {
			return nil, fmt.Errorf("section %q column %q: %w", section.Name, name, err)
		}
		text, err := p.recognize(region, section.Name+"/"+name)
		if err != nil {
			return nil, err
		}
		texts[name] = text
	}

	result := p.parser.ParseColumns(texts[config.ColumnName], texts[config.ColumnKDA], texts[config.ColumnCredits])
	p.logf("section %s: parsed %d players from columns", section.Name, len(result))
	return result, nil
}

func (p *Pipeline) recognize(img image.Image, label string) (string, error) {
	text, err := p.recognizer.Recognize(img, p.profile.OCR.Mode)
	if err != nil {
		return "", fmt.Errorf("recognize %s: %w", label, err)
	}
	p.logf("recognize %s: %q", label, text)
	return text, nil
}

// FileReport pairs an input path with its report.
type FileReport struct {
	Path   string  `json:"path"`
	Report *Report `json:"report"`
}

// ExtractBatch processes several screenshots concurrently. Each file is an
// independent run; results keep the order of paths. The first fatal error
// cancels the remaining files and is returned.
//
// With more than one path, diagnostic images are named per file (see
// config.Profile.DebugImagePath) so concurrent runs never share an output.
func (p *Pipeline) ExtractBatch(ctx context.Context, paths []string) ([]FileReport, error) {
	out := make([]FileReport, len(paths))
	sources := batchSources(paths)

	g, ctx := errgroup.WithContext(ctx)
	if p.workers > 0 {
		g.SetLimit(p.workers)
	}

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := imaging.Open(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			report, err := p.extract(img, sources[i])
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			out[i] = FileReport{Path: path, Report: report}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// batchSources names each path by its base name without extension. Names
// shared by several paths get the path index appended. A single path needs
// no name.
func batchSources(paths []string) []string {
	sources := make([]string, len(paths))
	if len(paths) < 2 {
		return sources
	}

	count := make(map[string]int, len(paths))
	for i, path := range paths {
		base := filepath.Base(path)
		sources[i] = strings.TrimSuffix(base, filepath.Ext(base))
		count[sources[i]]++
	}
	for i, name := range sources {
		if count[name] > 1 {
			sources[i] = fmt.Sprintf("%s_%d", name, i)
		}
	}
	return sources
}
