package lyrics

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// typographicSpaces lists the space variants collapsed to an ASCII space,
// zero-width space included.
var typographicSpaces = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00a0, Hi: 0x00a0, Stride: 1},
		{Lo: 0x1680, Hi: 0x1680, Stride: 1},
		{Lo: 0x180e, Hi: 0x180e, Stride: 1},
		{Lo: 0x2000, Hi: 0x200b, Stride: 1},
		{Lo: 0x202f, Hi: 0x202f, Stride: 1},
		{Lo: 0x205f, Hi: 0x205f, Stride: 1},
		{Lo: 0x3000, Hi: 0x3000, Stride: 1},
	},
	LatinOffset: 1,
}

// longDash matches an en or em dash together with the spaces around it, so
// "a \u2013 b" and "a\u2014b" both become "a - b".
var longDash = regexp.MustCompile(` *[\x{2013}\x{2014}] *`)

// embedArtifacts matches the share widgets Genius appends to lyric bodies,
// with their optional numeric prefix ("42EmbedShare URLCopyEmbedCopy").
var embedArtifacts = regexp.MustCompile(`\d*(?:URLCopyEmbedCopy|EmbedShare|Embed)\b`)

// DefaultBoilerplate holds the promotional phrases stripped from every lyric body.
var DefaultBoilerplate = []string{
	`You might also like`,
	`See [^\n]*? Live\s*Get tickets as low as \$\d+`,
}

// NormalizerOptions configures a Normalizer.
type NormalizerOptions struct {
	// StripLeadingLine removes everything up to and including the first
	// newline, for provider formats that put a title or byline there.
	StripLeadingLine bool
	// Boilerplate holds extra regular expressions removed in addition to
	// DefaultBoilerplate.
	Boilerplate []string
}

// Normalizer cleans raw lyric text. The zero value is not usable; construct
// one with NewNormalizer.
type Normalizer struct {
	stripLeadingLine bool
	boilerplate      []*regexp.Regexp
}

// NewNormalizer compiles the boilerplate patterns and returns a Normalizer.
func NewNormalizer(opts NormalizerOptions) (*Normalizer, error) {
	patterns := make([]string, 0, len(DefaultBoilerplate)+len(opts.Boilerplate))
	patterns = append(patterns, DefaultBoilerplate...)
	patterns = append(patterns, opts.Boilerplate...)

	compiled := make([]*regexp.Regexp, 0, len(patterns)+1)
	compiled = append(compiled, embedArtifacts)
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile boilerplate %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return &Normalizer{
		stripLeadingLine: opts.StripLeadingLine,
		boilerplate:      compiled,
	}, nil
}

var defaultNormalizer, _ = NewNormalizer(NormalizerOptions{})

// Normalize cleans raw using the default options.
func Normalize(raw string) string {
	return defaultNormalizer.Normalize(raw)
}

// StripsLeadingLine reports whether Normalize drops the first line.
func (n *Normalizer) StripsLeadingLine() bool {
	return n.stripLeadingLine
}

// Normalize returns the cleaned form of raw. Malformed input passes through.
func (n *Normalizer) Normalize(raw string) string {
	text := raw
	if n.stripLeadingLine {
		text = StripLeadingLine(text)
	}
	text = mapRunes(text)
	text = longDash.ReplaceAllLiteralString(text, " - ")
	for _, re := range n.boilerplate {
		text = re.ReplaceAllLiteralString(text, "\n")
	}
	return text
}

// StripLeadingLine drops the first line of text. Text without a newline is
// returned unchanged.
func StripLeadingLine(text string) string {
	idx := strings.IndexByte(text, '\n')
	if idx < 0 {
		return text
	}
	return text[idx+1:]
}

func mapRunes(text string) string {
	t := transform.Chain(
		runes.If(runes.In(typographicSpaces), runes.Map(func(rune) rune { return ' ' }), nil),
		runes.Map(asciiQuote),
	)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

func asciiQuote(r rune) rune {
	switch r {
	case '\u2018', '\u2019':
		return '\''
	case '\u201c', '\u201d':
		return '"'
	default:
		return r
	}
}
