package scoreboard

import (
	"strconv"
	"strings"
)

// kdaFields is the number of numeric tokens in a kill/death/assist triplet.
const kdaFields = 3

// DefaultSkipPrefixes are line prefixes that mark header and separator rows.
// Matching is case-insensitive.
var DefaultSkipPrefixes = []string{"NAME", "KDA", "K/D/A", "---", "==="}

// Options tunes the line parser.
type Options struct {
	// SkipPrefixes replaces DefaultSkipPrefixes when non-nil.
	SkipPrefixes []string

	// Strict drops lines with fewer than three KDA tokens and lines whose
	// credits token was also consumed as part of the KDA triplet. The default
	// keeps both and reports whatever was found.
	Strict bool
}

// Parser converts OCR text into a Result. The zero value is ready to use and
// behaves like Parse.
type Parser struct {
	skip   []string
	strict bool
}

// NewParser creates a parser with the given options.
func NewParser(opts Options) *Parser {
	skip := opts.SkipPrefixes
	if skip == nil {
		skip = DefaultSkipPrefixes
	}
	upper := make([]string, 0, len(skip))
	for _, s := range skip {
		if s = strings.TrimSpace(s); s != "" {
			upper = append(upper, strings.ToUpper(s))
		}
	}
	return &Parser{skip: upper, strict: opts.Strict}
}

// Parse parses text with the default options.
func Parse(text string) Result {
	return NewParser(Options{}).Parse(text)
}

// Parse processes text line by line. Later lines overwrite earlier lines with
// the same name.
func (p *Parser) Parse(text string) Result {
	result := make(Result)
	for _, line := range strings.Split(text, "\n") {
		if name, rec, ok := p.ParseLine(line); ok {
			result[name] = rec
		}
	}
	return result
}

// ParseLine parses a single OCR line. ok is false when the line is skipped:
// blank, a header or separator, without any numeric token, or rejected by
// strict mode.
func (p *Parser) ParseLine(line string) (name string, rec PlayerRecord, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || p.isNoise(line) {
		return "", PlayerRecord{}, false
	}

	tokens := strings.Fields(line)
	anchor := -1
	for i, tok := range tokens {
		if IsNumeric(tok) {
			anchor = i
			break
		}
	}
	if anchor < 0 {
		return "", PlayerRecord{}, false
	}

	last := len(tokens) - 1
	kda := make([]string, 0, kdaFields)
	creditsConsumed := false
	for i := anchor; i < len(tokens) && len(kda) < kdaFields; i++ {
		if !IsNumeric(tokens[i]) {
			continue
		}
		kda = append(kda, tokens[i])
		if i == last {
			creditsConsumed = true
		}
	}

	if p.strict && (len(kda) < kdaFields || creditsConsumed) {
		return "", PlayerRecord{}, false
	}

	return strings.Join(tokens[:anchor], " "), PlayerRecord{
		KDA:     strings.Join(kda, " "),
		Credits: tokens[last],
	}, true
}

func (p *Parser) isNoise(line string) bool {
	skip := p.skip
	if skip == nil {
		skip = DefaultSkipPrefixes
	}
	upper := strings.ToUpper(line)
	for _, prefix := range skip {
		if strings.HasPrefix(upper, strings.ToUpper(prefix)) {
			return true
		}
	}
	return false
}

// IsNumeric reports whether tok is a decimal number once thousands separators
// are removed, e.g. "2,650" or "0.5". Empty strings and hexadecimal forms
// such as "0x1p3" are not numeric.
func IsNumeric(tok string) bool {
	tok = strings.ReplaceAll(tok, ",", "")
	if tok == "" {
		return false
	}
	digits := strings.TrimLeft(tok, "+-")
	if len(digits) >= 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return false
	}
	_, err := strconv.ParseFloat(tok, 64)
	return err == nil
}

// ParseColumns parses the output of recognizing the name, KDA and credits
// columns separately. Each column is split into non-blank lines, rows are
// paired by index, and every row is parsed as "name kda credits". A column
// that runs short contributes nothing to the remaining rows.
func (p *Parser) ParseColumns(names, kdas, credits string) Result {
	cols := [][]string{nonBlankLines(names), nonBlankLines(kdas), nonBlankLines(credits)}

	rows := 0
	for _, col := range cols {
		if len(col) > rows {
			rows = len(col)
		}
	}

	var b strings.Builder
	for i := 0; i < rows; i++ {
		parts := make([]string, 0, len(cols))
		for _, col := range cols {
			if i < len(col) {
				parts = append(parts, col[i])
			}
		}
		b.WriteString(strings.Join(parts, " "))
		b.WriteByte('\n')
	}
	return p.Parse(b.String())
}

// ParseColumns parses separately recognized columns with the default options.
func ParseColumns(names, kdas, credits string) Result {
	return NewParser(Options{}).ParseColumns(names, kdas, credits)
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
