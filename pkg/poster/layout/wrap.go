package layout

import (
	"slices"
	"strings"
)

// SplitBalanced breaks text into lines no wider than maxWidth.
//
// Whitespace runs are collapsed to single spaces first. While some line is
// too wide, the widest such line that still has an interior space is split
// at [BalancedSplitIndex]. A line without interior whitespace is never split:
// an unbreakable word overflows rather than being cut. Empty input yields no
// lines.
//
// Re-wrapping strings.Join(lines, " ") at the same width returns the same
// lines.
func SplitBalanced(text string, width WidthFunc, maxWidth float64) []string {
	text = normalizeSpaces(text)
	if text == "" {
		return nil
	}
	lines := []string{text}
	for {
		i := widestSplittable(lines, width, maxWidth)
		if i < 0 {
			return lines
		}
		head, tail := halve(lines[i])
		lines = slices.Replace(slices.Clone(lines), i, i+1, head, tail)
	}
}

// BalancedSplitIndex returns the rune index at which text should be split.
//
// Let middle be len(runes)/2, before the last space strictly before middle
// and after the first space at or after middle. The closer of the two wins,
// after on a tie. With only one present that one is used; with neither the
// raw middle is returned.
func BalancedSplitIndex(text string) int {
	runes := []rune(text)
	middle := len(runes) / 2

	before := -1
	for i := middle - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			before = i
			break
		}
	}
	after := -1
	for i := middle; i < len(runes); i++ {
		if runes[i] == ' ' {
			after = i
			break
		}
	}

	switch {
	case before < 0 && after < 0:
		return middle
	case before < 0:
		return after
	case after < 0:
		return before
	case middle-before < after-middle:
		return before
	default:
		return after
	}
}

// SplitWithReservedFirstLine wraps text with a narrower first line.
//
// Words are added to the first line while it stays within firstMax. The
// remaining words are wrapped by [SplitBalanced] at restMax. If not even the
// first word fits, the first line is empty so that whatever sits beside it
// stays clear.
func SplitWithReservedFirstLine(text string, width WidthFunc, firstMax, restMax float64) []string {
	text = normalizeSpaces(text)
	if text == "" {
		return nil
	}
	if width(text) <= firstMax {
		return []string{text}
	}

	words := strings.Split(text, " ")
	first, n := "", 0
	for _, w := range words {
		candidate := w
		if first != "" {
			candidate = first + " " + w
		}
		if width(candidate) > firstMax {
			break
		}
		first = candidate
		n++
	}

	lines := []string{first}
	if n < len(words) {
		lines = append(lines, SplitBalanced(strings.Join(words[n:], " "), width, restMax)...)
	}
	return lines
}

// SplitWithConstrainedLastLine wraps text at maxWidth but keeps the final
// line within lastMax, leaving room for a trailing element such as a year.
//
// When the balanced last line is too wide it is taken off. Its first word
// moves up onto the previous line if that line still fits maxWidth, and the
// rest is re-wrapped at lastMax.
func SplitWithConstrainedLastLine(text string, width WidthFunc, maxWidth, lastMax float64) []string {
	lines := SplitBalanced(text, width, maxWidth)
	if len(lines) == 0 || width(lines[len(lines)-1]) <= lastMax {
		return lines
	}

	last := lines[len(lines)-1]
	head := slices.Clone(lines[:len(lines)-1])
	if len(head) > 0 {
		if word, rest, ok := strings.Cut(last, " "); ok {
			if joined := head[len(head)-1] + " " + word; width(joined) <= maxWidth {
				head[len(head)-1] = joined
				last = rest
			}
		}
	}
	return append(head, SplitBalanced(last, width, lastMax)...)
}

func normalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// widestSplittable returns the index of the widest over-long line that has
// an interior space, or -1.
func widestSplittable(lines []string, width WidthFunc, maxWidth float64) int {
	best, bestW := -1, 0.0
	for i, line := range lines {
		w := width(line)
		if w <= maxWidth || !strings.Contains(line, " ") {
			continue
		}
		if best < 0 || w > bestW {
			best, bestW = i, w
		}
	}
	return best
}

func halve(line string) (string, string) {
	runes := []rune(line)
	i := BalancedSplitIndex(line)
	return strings.TrimSpace(string(runes[:i])), strings.TrimSpace(string(runes[i:]))
}
