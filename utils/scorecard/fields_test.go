package scorecard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFromTokens(t *testing.T) {
	toks := strings.Fields("Name Sam Wood Hcap 18 4 5 3 4 4 5 3 4 6")

	f := extractFromTokens(toks, 9)

	assert.Equal(t, []string{"Sam", "Wood"}, f.nameParts)
	assert.Equal(t, 18, f.handicap)
	assert.Equal(t, []int{4, 5, 3, 4, 4, 5, 3, 4, 6}, f.scores)
}

func TestExtractFromTokensHandicapBeforeLabel(t *testing.T) {
	toks := strings.Fields("Ann Lee 4 5 4 9 Hcap")

	f := extractFromTokens(toks, 4)

	assert.Equal(t, 9, f.handicap)
	assert.Equal(t, []int{4, 5, 4, 0}, f.scores)
}

func TestExtractFromTokensNumberBeforeName(t *testing.T) {
	toks := strings.Fields("22 Name Bo 4 5")

	f := extractFromTokens(toks, 2)

	assert.Equal(t, []string{"Bo"}, f.nameParts)
	assert.Equal(t, 22, f.handicap)
	assert.Equal(t, []int{4, 5}, f.scores)
}

func TestExtractFromTokensFallbackHandicap(t *testing.T) {
	// one more number than holes: the first is taken as the handicap
	f := extractFromTokens(strings.Fields("Kim 11 4 5 4"), 3)
	assert.Equal(t, 11, f.handicap)
	assert.Equal(t, []int{4, 5, 4}, f.scores)

	// exactly as many numbers as holes: all are scores
	f = extractFromTokens(strings.Fields("Kim 11 4 5"), 3)
	assert.Equal(t, 0, f.handicap)
	assert.Equal(t, []int{11, 4, 5}, f.scores)
}

func TestExtractFromTokensOutOfRange(t *testing.T) {
	// 40 is no handicap; 1 is the first in-range value that cannot be a stroke
	f := extractFromTokens(strings.Fields("Lou Hcap 40 1 4 13 36 5"), 3)

	assert.Equal(t, 1, f.handicap)
	assert.Equal(t, []int{4, 5, 0}, f.scores)

	f = extractFromTokens(strings.Fields("Lou Hcap 40 4 5"), 3)

	assert.Equal(t, 0, f.handicap)
	assert.Equal(t, []int{4, 5, 0}, f.scores)
}

func TestExtractFromTokensUnlabelledHandicap(t *testing.T) {
	tests := []struct {
		name     string
		row      string
		handicap int
		scores   []int
	}{
		{"scratch", "Name John Smith 0 4 5 4 3 5 4 4 4 5", 0, []int{4, 5, 4, 3, 5, 4, 4, 4, 5}},
		{"above stroke range", "Name John Smith 14 4 5 4 3 5 4 4 4 5", 14, []int{4, 5, 4, 3, 5, 4, 4, 4, 5}},
		{"high", "Name John Smith 28 4 5 4 3 5 4 4 4 5", 28, []int{4, 5, 4, 3, 5, 4, 4, 4, 5}},
		{"maximum", "John Smith 36 5 5 4 4 6 5 5 4 6", 36, []int{5, 5, 4, 4, 6, 5, 5, 4, 6}},
		{"missing strokes", "Name John Smith 14 4 5 4", 14, []int{4, 5, 4, 0, 0, 0, 0, 0, 0}},
		{"above token range", "Name John Smith 37 4 5 4 3 5 4 4 4 5", 0, []int{4, 5, 4, 3, 5, 4, 4, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := extractFromTokens(strings.Fields(tt.row), 9)

			assert.Equal(t, []string{"John", "Smith"}, f.nameParts)
			assert.Equal(t, tt.handicap, f.handicap)
			assert.Equal(t, tt.scores, f.scores)
		})
	}
}

func TestExtractFromLinesLabelledBlock(t *testing.T) {
	lines := []string{
		"NAME",
		"Tom",
		"Hcap",
		"9",
		"4",
		"5",
		"Total 9",
		"3",
	}

	f := extractFromLines(lines, 0, len(lines), 9, true)

	assert.Equal(t, []string{"Tom"}, f.nameParts)
	assert.Equal(t, 9, f.handicap)
	assert.Equal(t, []int{4, 5, 3, 0, 0, 0, 0, 0, 0}, f.scores)
}

func TestExtractFromLinesInlineHandicap(t *testing.T) {
	lines := []string{
		"Name: Mary Jones",
		"Hcap: 20",
		"5 5 4 5 4 6 4 5 6 7",
	}

	f := extractFromLines(lines, 0, len(lines), 9, true)

	assert.Equal(t, []string{"Mary", "Jones"}, f.nameParts)
	assert.Equal(t, 20, f.handicap)
	assert.Equal(t, []int{5, 5, 4, 5, 4, 6, 4, 5, 6}, f.scores)
}

func TestExtractFromLinesHandicapAboveLabel(t *testing.T) {
	lines := []string{
		"Name Joe",
		"4 4 5",
		"30",
		"Heap",
	}

	f := extractFromLines(lines, 0, len(lines), 3, true)

	assert.Equal(t, 30, f.handicap)
	assert.Equal(t, []int{4, 4, 5}, f.scores)
}

func TestExtractFromLinesNumberBeforeName(t *testing.T) {
	lines := []string{"14 Name: Bob Ray", "4 5 4"}

	f := extractFromLines(lines, 0, len(lines), 3, true)

	assert.Equal(t, []string{"Bob", "Ray"}, f.nameParts)
	assert.Equal(t, 14, f.handicap)
	assert.Equal(t, []int{4, 5, 4}, f.scores)
}

func TestExtractFromLinesFallbackGuard(t *testing.T) {
	lines := []string{"Name: Al Beck", "10", "4 4 4"}
	f := extractFromLines(lines, 0, len(lines), 3, true)
	assert.Equal(t, 10, f.handicap)
	assert.Equal(t, []int{4, 4, 4}, f.scores)

	lines = []string{"Name: Al Beck", "10", "4 4"}
	f = extractFromLines(lines, 0, len(lines), 3, true)
	assert.Equal(t, 0, f.handicap)
	assert.Equal(t, []int{10, 4, 4}, f.scores)
}

func TestExtractFromLinesUnlabelledHandicap(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		handicap int
	}{
		{"scratch", "0", 0},
		{"above stroke range", "14", 14},
		{"high", "28", 28},
		{"maximum", "36", 36},
		{"line range", "54", 54},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := []string{"Name: John Smith", tt.value, "4 5 4 3 5 4 4 4 5"}

			f := extractFromLines(lines, 0, len(lines), 9, true)

			assert.Equal(t, []string{"John", "Smith"}, f.nameParts)
			assert.Equal(t, tt.handicap, f.handicap)
			assert.Equal(t, []int{4, 5, 4, 3, 5, 4, 4, 4, 5}, f.scores)
		})
	}

	// without the stroke surplus a stroke-sized line stays a score
	lines := []string{"Name: John Smith", "12", "4 5 4 3 5 4 4 4"}
	f := extractFromLines(lines, 0, len(lines), 9, true)
	assert.Equal(t, 0, f.handicap)
	assert.Equal(t, []int{12, 4, 5, 4, 3, 5, 4, 4, 4}, f.scores)
}

func TestExtractFromLinesStopsAtBoundary(t *testing.T) {
	lines := []string{"Name Amy", "4 5", "Name Ben", "6 6 6"}

	f := extractFromLines(lines, 0, 2, 4, true)

	assert.Equal(t, []int{4, 5, 0, 0}, f.scores)
}

func TestExtractFromLinesNameCapped(t *testing.T) {
	lines := []string{"Name", "Anna", "Maria", "de", "Souza", "4"}

	f := extractFromLines(lines, 0, len(lines), 1, true)

	assert.Equal(t, []string{"Anna", "Maria", "de"}, f.nameParts)
	assert.Equal(t, []int{4}, f.scores)
}

func TestPadScores(t *testing.T) {
	assert.Equal(t, []int{4, 5, 0}, padScores([]int{4, 5}, 3))
	assert.Equal(t, []int{4, 5}, padScores([]int{4, 5, 6}, 2))
	assert.Equal(t, []int{}, padScores(nil, 0))
}
