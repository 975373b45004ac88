// Package poem turns raw, unconstrained model completions into well-formed
// short poems. Generation backends are not reliable about shape, so rather
// than re-prompting, a deterministic single-pass heuristic normalizes whatever
// came back into a block of 3-8 non-empty lines.
package poem

import (
	"regexp"
	"strings"
)

// Heuristic bounds. The mean-line-length window is a loose proxy for "looks
// like verse, not a run-on paragraph or a stray token"; the exact values carry
// no deeper semantics and are kept configurable on Extractor.
const (
	DefaultMinLines       = 3
	DefaultMaxLines       = 8
	DefaultMinMeanLineLen = 10
	DefaultMaxMeanLineLen = 120
	DefaultMaxStartOffset = 6
	DefaultTailChars      = 1000
)

// FallbackPoem is the canned reply substituted when the model output is too
// degenerate to repair. It must never change shape: exactly three lines.
const FallbackPoem = `The model offered only noise tonight,
no verse survived my skeptical review;
ask once more, and bring me better data.`

// roleEcho matches residual prompt echoes such as "User: ..." or "Kelly:",
// which generation models commonly repeat back.
var roleEcho = regexp.MustCompile(`(?i)^(user|system|assistant|kelly)\s*[:：]`)

// Extractor derives a 3-8 line poem from raw generated text.
type Extractor struct {
	MinLines       int
	MaxLines       int
	MinMeanLineLen float64
	MaxMeanLineLen float64
	MaxStartOffset int
	TailChars      int
	Fallback       string
}

// NewExtractor returns an extractor with the default bounds.
func NewExtractor() *Extractor {
	return &Extractor{
		MinLines:       DefaultMinLines,
		MaxLines:       DefaultMaxLines,
		MinMeanLineLen: DefaultMinMeanLineLen,
		MaxMeanLineLen: DefaultMaxMeanLineLen,
		MaxStartOffset: DefaultMaxStartOffset,
		TailChars:      DefaultTailChars,
		Fallback:       FallbackPoem,
	}
}

// Normalize runs Extract then Repair. The result always has between MinLines
// and MaxLines non-empty lines.
func (e *Extractor) Normalize(raw, marker string) string {
	return e.Repair(e.Extract(raw, marker))
}

// Extract derives a candidate poem block from raw. Steps, each a fallback for
// the previous:
//
//  1. Split on the marker (case-insensitive) and keep only the text after the
//     last occurrence, discarding the echoed prompt.
//  2. Split into trimmed non-empty lines.
//  3. Drop lines that are themselves role-label echoes.
//  4. Windowed search for the first block of MinLines..MaxLines lines whose
//     mean line length falls inside the configured window.
//  5. No block: first up to MaxLines lines verbatim.
//  6. No lines at all: the first TailChars characters of the candidate text.
//
// Extract alone does not guarantee shape; callers follow up with Repair.
func (e *Extractor) Extract(raw, marker string) string {
	candidate := afterLastMarker(raw, marker)

	lines := e.poemLines(candidate)
	if len(lines) == 0 {
		text := strings.TrimSpace(candidate)
		if runes := []rune(text); len(runes) > e.TailChars {
			text = string(runes[:e.TailChars])
		}
		return strings.TrimSpace(text)
	}

	// Whole-text fast path: an already well-formed poem passes through
	// unchanged instead of being shaved down to its first acceptable window.
	if len(lines) >= e.MinLines && len(lines) <= e.MaxLines {
		if mean := meanLineLen(lines); mean >= e.MinMeanLineLen && mean <= e.MaxMeanLineLen {
			return strings.Join(lines, "\n")
		}
	}

	if block := e.findBlock(lines); block != nil {
		return strings.Join(block, "\n")
	}

	if len(lines) > e.MaxLines {
		lines = lines[:e.MaxLines]
	}
	return strings.Join(lines, "\n")
}

// Repair enforces the 3-8 line shape on an extracted candidate. Results that
// are already in shape pass through unchanged.
func (e *Extractor) Repair(text string) string {
	lines := nonEmptyLines(text)

	if len(lines) > e.MaxLines {
		return strings.Join(lines[:e.MaxLines], "\n")
	}
	if len(lines) >= e.MinLines {
		return text
	}

	// Too few lines: resynthesize three lines from the words, or give up and
	// return the canned poem when there is not enough material.
	words := strings.Fields(strings.Join(lines, " "))
	if len(words) < 6 {
		return e.Fallback
	}
	return strings.Join(splitWordGroups(words, e.MinLines), "\n")
}

// Sanitize applies the lightweight cleanup used for trusted backend output:
// newline normalization and outer whitespace trimming only.
func Sanitize(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
}

// afterLastMarker returns the text after the last case-insensitive occurrence
// of marker, or the whole text when the marker never appears. Matching is done
// on raw itself rather than a lowercased copy: case folding can change byte
// lengths, so indexes into strings.ToLower(raw) do not translate back to raw.
func afterLastMarker(raw, marker string) string {
	if marker == "" {
		return raw
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(marker))
	matches := re.FindAllStringIndex(raw, -1)
	if len(matches) == 0 {
		return raw
	}
	return raw[matches[len(matches)-1][1]:]
}

// poemLines splits candidate text into trimmed, non-empty, non-echo lines.
func (e *Extractor) poemLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if roleEcho.MatchString(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// findBlock scans start offsets then block lengths, in that order, and returns
// the first block whose mean line length is inside the window. The scan order
// biases toward poem content that appears early and compactly.
func (e *Extractor) findBlock(lines []string) []string {
	maxStart := e.MaxStartOffset
	if maxStart > len(lines) {
		maxStart = len(lines)
	}

	for start := 0; start <= maxStart; start++ {
		for n := e.MinLines; n <= e.MaxLines; n++ {
			end := start + n
			if end > len(lines) {
				break
			}
			block := lines[start:end]
			mean := meanLineLen(block)
			if mean >= e.MinMeanLineLen && mean <= e.MaxMeanLineLen {
				return block
			}
		}
	}
	return nil
}

func meanLineLen(lines []string) float64 {
	total := 0
	for _, line := range lines {
		total += len([]rune(line))
	}
	return float64(total) / float64(len(lines))
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitWordGroups joins words into n roughly equal contiguous groups.
func splitWordGroups(words []string, n int) []string {
	groups := make([]string, 0, n)
	per := (len(words) + n - 1) / n
	for start := 0; start < len(words); start += per {
		end := start + per
		if end > len(words) {
			end = len(words)
		}
		groups = append(groups, strings.Join(words[start:end], " "))
	}
	return groups
}
