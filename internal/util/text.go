// Package util holds small text helpers shared by the console and TUI output.
package util

import (
	"strings"
	"unicode/utf8"
)

// TruncateRunes cuts text to at most maxRunes runes and appends an ellipsis
// when anything was dropped. A non-positive limit returns an empty string.
func TruncateRunes(text string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "…"
}

// OneLine collapses all runs of whitespace, newlines included, to single spaces.
func OneLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Preview returns a single-line, rune-truncated version of text for progress output.
func Preview(text string, maxRunes int) string {
	return TruncateRunes(OneLine(text), maxRunes)
}

// WrapToWidth wraps each line of text at word boundaries so no line exceeds
// width runes. Words longer than width are split. Blank lines are kept.
func WrapToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines []string
		cur   strings.Builder
		n     int
	)
	flush := func() {
		if n > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			n = 0
		}
	}

	for _, w := range words {
		wLen := utf8.RuneCountInString(w)
		if n > 0 && n+1+wLen <= width {
			cur.WriteByte(' ')
			cur.WriteString(w)
			n += 1 + wLen
			continue
		}
		flush()
		if wLen <= width {
			cur.WriteString(w)
			n = wLen
			continue
		}
		r := []rune(w)
		for len(r) > width {
			lines = append(lines, string(r[:width]))
			r = r[width:]
		}
		cur.WriteString(string(r))
		n = len(r)
	}
	flush()
	return lines
}
