// Package extract pulls the final answer out of a three-step self-critique
// completion.
package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// markup holds the characters trimmed from both ends of an extracted answer
// in addition to whitespace.
const markup = "*[](){}_-"

type pattern struct {
	heading *regexp.Regexp
	stop    *regexp.Regexp
}

var (
	stopBoldStep  = regexp.MustCompile(`(?i)\n\n|\n\*\*\s*(?:bước|step)`)
	stopPlainStep = regexp.MustCompile(`(?i)\n\n|\n(?:bước|step)`)
	stopBlankLine = regexp.MustCompile(`\n\n`)
)

// patterns are tried in order; the first one that yields a non-empty
// answer wins. Each payload runs from the end of the heading to the first
// stop match or the end of the text.
var patterns = []pattern{
	{
		heading: regexp.MustCompile(`(?is)\*\*(?:bước|step) 3[:\s]+.*?\*\*[:\s]*`),
		stop:    stopBoldStep,
	},
	{
		heading: regexp.MustCompile(`(?is)(?:câu trả lời cuối cùng|final answer)[:\s]*\*\*[:\s]*`),
		stop:    stopBoldStep,
	},
	{
		heading: regexp.MustCompile(`(?is)(?:bước|step) 3[:\s]+`),
		stop:    stopPlainStep,
	},
	{
		heading: regexp.MustCompile(`(?is)(?:đáp án cuối(?: cùng)?|final answer)\s*:[ \t]*`),
		stop:    stopBlankLine,
	},
}

// Final returns the verified answer from a critique completion, falling
// back to the last non-blank line and then to the whole trimmed text.
func Final(text string) string {
	for _, p := range patterns {
		if answer, ok := p.find(text); ok {
			return answer
		}
	}

	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		if answer := clean(lines[i]); answer != "" {
			return answer
		}
		break
	}
	return strings.TrimSpace(text)
}

func (p pattern) find(text string) (string, bool) {
	loc := p.heading.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	payload := text[loc[1]:]
	if stop := p.stop.FindStringIndex(payload); stop != nil {
		payload = payload[:stop[0]]
	}
	answer := clean(payload)
	return answer, answer != ""
}

func clean(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(markup, r)
	})
}
