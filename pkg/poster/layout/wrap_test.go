package layout

import (
	"slices"
	"strings"
	"testing"
)

func TestBalancedSplitIndex(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"no spaces splits mid word", "abcdef", 3},
		{"only a space before", "ab cdef", 2},
		{"only a space after", "abcd ef", 4},
		{"space at midpoint", "ab cd", 2},
		{"closer space after", "ab cd ef", 5},
		{"closer space before", "abcde fghi jk", 5},
		{"tie prefers after", "a b c", 3},
		{"single rune", "a", 0},
		{"multibyte runes", "éé éééé", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BalancedSplitIndex(tt.text); got != tt.want {
				t.Errorf("BalancedSplitIndex(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplitBalanced(t *testing.T) {
	width := perRune(10)

	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     []string
	}{
		{"fits on one line", "Abbey Road", 200, []string{"Abbey Road"}},
		{"splits near the middle", "The Dark Side of the Moon", 150, []string{"The Dark Side", "of the Moon"}},
		{"recurses on the widest line", "The Dark Side of the Moon", 60, []string{"The", "Dark", "Side", "of the", "Moon"}},
		{"unbreakable word overflows", "Supercalifragilistic", 100, []string{"Supercalifragilistic"}},
		{"collapses whitespace", "  Abbey \t Road  ", 200, []string{"Abbey Road"}},
		{"empty input", "", 100, nil},
		{"blank input", "   ", 100, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitBalanced(tt.text, width, tt.maxWidth)
			if !slices.Equal(got, tt.want) {
				t.Errorf("SplitBalanced(%q, %v) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestSplitBalancedProperties(t *testing.T) {
	width := perRune(7)
	texts := []string{
		"Sgt. Pepper's Lonely Hearts Club Band",
		"The Rise and Fall of Ziggy Stardust and the Spiders from Mars",
		"When the Pawn Hits the Conflicts He Thinks Like a King What He Knows Throws the Blows",
		"Antidisestablishmentarianism and friends",
		"x",
	}
	widths := []float64{10, 50, 100, 180, 400, 1000}

	for _, text := range texts {
		for _, w := range widths {
			lines := SplitBalanced(text, width, w)
			for _, line := range lines {
				if width(line) > w && strings.Contains(line, " ") {
					t.Errorf("SplitBalanced(%q, %v): line %q is too wide and still splittable", text, w, line)
				}
			}
			if again := SplitBalanced(strings.Join(lines, " "), width, w); !slices.Equal(again, lines) {
				t.Errorf("SplitBalanced(%q, %v) not idempotent: %q then %q", text, w, lines, again)
			}
			if got := strings.Join(lines, " "); got != text {
				t.Errorf("SplitBalanced(%q, %v) lost text: %q", text, w, got)
			}
		}
	}
}

func TestSplitWithReservedFirstLine(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    WidthFunc
		firstMax float64
		restMax  float64
		want     []string
	}{
		{
			name:     "whole title fits the short line",
			text:     "Abbey Road",
			width:    perRune(18), // "Abbey Road" measures 180
			firstMax: 200,
			restMax:  500,
			want:     []string{"Abbey Road"},
		},
		{
			name:     "greedy first line then balanced rest",
			text:     "The Rise and Fall of Ziggy Stardust",
			width:    perRune(10),
			firstMax: 100,
			restMax:  300,
			want:     []string{"The Rise", "and Fall of Ziggy Stardust"},
		},
		{
			name:     "rest is balanced at the wider limit",
			text:     "The Rise and Fall of Ziggy Stardust and the Spiders",
			width:    perRune(10),
			firstMax: 100,
			restMax:  250,
			want:     []string{"The Rise", "and Fall of Ziggy", "Stardust and the Spiders"},
		},
		{
			name:     "first word too wide leaves first line empty",
			text:     "Supercalifragilistic is long",
			width:    perRune(10),
			firstMax: 50,
			restMax:  500,
			want:     []string{"", "Supercalifragilistic is long"},
		},
		{
			name:     "empty",
			text:     "",
			width:    perRune(10),
			firstMax: 50,
			restMax:  500,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitWithReservedFirstLine(tt.text, tt.width, tt.firstMax, tt.restMax)
			if !slices.Equal(got, tt.want) {
				t.Errorf("SplitWithReservedFirstLine() = %q, want %q", got, tt.want)
			}
			if len(got) > 0 && tt.width(got[0]) > tt.firstMax {
				t.Errorf("first line %q exceeds %v", got[0], tt.firstMax)
			}
		})
	}
}

func TestSplitWithConstrainedLastLine(t *testing.T) {
	width := perRune(10)

	tests := []struct {
		name     string
		text     string
		maxWidth float64
		lastMax  float64
		want     []string
	}{
		{
			name:     "last line already fits",
			text:     "The Beatles",
			maxWidth: 300,
			lastMax:  200,
			want:     []string{"The Beatles"},
		},
		{
			name:     "single line too long for the reserved slot",
			text:     "Nick Cave and the Bad Seeds",
			maxWidth: 300,
			lastMax:  200,
			want:     []string{"Nick Cave and", "the Bad Seeds"},
		},
		{
			name:     "first word pulled up onto the previous line",
			text:     "one two three four five six",
			maxWidth: 200,
			lastMax:  80,
			want:     []string{"one two three four", "five six"},
		},
		{
			name:     "previous line too full to take a word",
			text:     "one two three four five six",
			maxWidth: 160,
			lastMax:  80,
			want:     []string{"one two three", "four", "five six"},
		},
		{
			name:     "empty",
			text:     "",
			maxWidth: 100,
			lastMax:  50,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitWithConstrainedLastLine(tt.text, width, tt.maxWidth, tt.lastMax)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("SplitWithConstrainedLastLine() = %q, want %q", got, tt.want)
			}
			if n := len(got); n > 0 && width(got[n-1]) > tt.lastMax {
				t.Errorf("last line %q exceeds %v", got[n-1], tt.lastMax)
			}
			for _, line := range got {
				if width(line) > tt.maxWidth {
					t.Errorf("line %q exceeds %v", line, tt.maxWidth)
				}
			}
		})
	}
}
