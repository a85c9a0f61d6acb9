package templates

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aymerick/raymond"
	"github.com/spf13/cast"
)

const (
	defaultWrapWidth  = 30
	defaultLineHeight = 30.0
)

// WrapText greedily word-wraps text at width characters. Whitespace runs
// collapse to single spaces, words are never split, and a word longer than
// width gets a line of its own.
func WrapText(text string, width int) []string {
	if width <= 0 {
		width = defaultWrapWidth
	}

	var (
		lines   []string
		current strings.Builder
		length  int
	)
	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)
		if length > 0 && length+1+wordLen > width {
			lines = append(lines, current.String())
			current.Reset()
			length = 0
		}
		if length > 0 {
			current.WriteByte(' ')
			length++
		}
		current.WriteString(word)
		length += wordLen
	}
	if length > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// wrapHelper is the {{#wrap text width_chars=30 height_pixels=30}} block
// helper. The block renders once per wrapped line with x, y and text set.
func wrapHelper(text interface{}, options *raymond.Options) raymond.SafeString {
	width := hashInt(options, "width_chars", defaultWrapWidth)
	lineHeight := hashFloat(options, "height_pixels", defaultLineHeight)

	source := ""
	if text != nil {
		source = raymond.Str(text)
	}

	var (
		out    strings.Builder
		offset float64
	)
	for _, line := range WrapText(source, width) {
		out.WriteString(options.FnWith(map[string]interface{}{
			"x":    "0",
			"y":    strconv.FormatFloat(offset, 'f', -1, 64),
			"text": line,
		}))
		offset += lineHeight
	}
	return raymond.SafeString(out.String())
}

func hashInt(options *raymond.Options, name string, def int) int {
	raw := options.HashProp(name)
	if raw == nil {
		return def
	}
	value, err := cast.ToIntE(raw)
	if err != nil || value <= 0 {
		return def
	}
	return value
}

func hashFloat(options *raymond.Options, name string, def float64) float64 {
	raw := options.HashProp(name)
	if raw == nil {
		return def
	}
	value, err := cast.ToFloat64E(raw)
	if err != nil {
		return def
	}
	return value
}
