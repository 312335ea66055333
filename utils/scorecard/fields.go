package scorecard

import (
	"regexp"
	"strconv"
	"strings"
)

var inlineHandicapRe = regexp.MustCompile(`(?i)\b(?:hcap|h'cap|heap|cap|handicap|hcp)\s*[:=.]?\s*(\d{1,2})\b`)

// fields is what the extractor recovers for one player.
type fields struct {
	nameParts []string
	handicap  int
	scores    []int
}

// extractFromTokens reads one spatial row, tokens ordered left to right.
func extractFromTokens(toks []string, holeCount int) fields {
	var f fields
	used := make(map[int]bool)

	labelIdx := -1
	for i, t := range toks {
		if nameLabelRe.MatchString(t) && labelTokenRe.MatchString(t) {
			labelIdx = i
			break
		}
	}

	// Name: first run of name tokens after the label, or from the start.
	start := 0
	if labelIdx >= 0 {
		start = labelIdx + 1
	}
	for i := start; i < len(toks) && len(f.nameParts) < maxNameParts; i++ {
		if isNameToken(toks[i]) {
			f.nameParts = append(f.nameParts, toks[i])
			used[i] = true
			continue
		}
		if len(f.nameParts) > 0 {
			break
		}
	}

	f.handicap = tokenHandicap(toks, labelIdx, used, holeCount)

	for i, t := range toks {
		if len(f.scores) == holeCount {
			break
		}
		if used[i] || labelTokenRe.MatchString(t) {
			continue
		}
		if n, ok := parseNumber(t); ok && strokeRange.contains(n) {
			f.scores = append(f.scores, n)
		}
	}
	f.scores = padScores(f.scores, holeCount)
	return f
}

// tokenHandicap applies the handicap policy to a spatial row and marks the
// consumed token in used.
func tokenHandicap(toks []string, nameIdx int, used map[int]bool, holeCount int) int {
	take := func(i int) (int, bool) {
		if i < 0 || i >= len(toks) || used[i] {
			return 0, false
		}
		n, ok := parseNumber(toks[i])
		if !ok || !tokenHandicapRange.contains(n) {
			return 0, false
		}
		used[i] = true
		return n, true
	}

	// 1. explicit label, checked after then before
	for i, t := range toks {
		if !handicapLabelRe.MatchString(t) {
			continue
		}
		if m := inlineHandicapRe.FindStringSubmatch(t); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && tokenHandicapRange.contains(n) {
				used[i] = true
				return n
			}
		}
		if n, ok := take(i + 1); ok {
			return n
		}
		if n, ok := take(i - 1); ok {
			return n
		}
	}

	// 2. "<number> Name"
	if nameIdx > 0 {
		if n, ok := take(nameIdx - 1); ok {
			return n
		}
	}

	// 3. first standalone number. A value that could also be a stroke is
	// only taken when the row carries more strokes than there are holes.
	surplus := countStrokeNumbers(toks, used) > holeCount
	for i, t := range toks {
		if n, ok := parseNumber(t); ok && strokeRange.contains(n) && !surplus {
			continue
		}
		if n, ok := take(i); ok {
			return n
		}
	}
	return 0
}

// extractFromLines reads the block of lines belonging to the name anchor at
// index anchor, ending before index end. first reports whether this is the
// first anchor in the text, in which case the line above it is not owned by
// another player.
func extractFromLines(lines []string, anchor, end, holeCount int, first bool) fields {
	var f fields
	consumed := map[int]bool{anchor: true}

	// Name: tokens after the label on the anchor line, then whole lines.
	anchorToks := splitFields(lines[anchor])
	labelPos := -1
	for i, t := range anchorToks {
		if nameLabelWordRe.MatchString(t) {
			labelPos = i
			break
		}
	}
	onlyNames := true
	for _, t := range anchorToks[labelPos+1:] {
		if len(f.nameParts) == maxNameParts {
			break
		}
		if !isNameToken(t) {
			onlyNames = false
			break
		}
		f.nameParts = append(f.nameParts, t)
	}
	if onlyNames {
		for i := anchor + 1; i < end && len(f.nameParts) < maxNameParts; i++ {
			if !isNameLine(lines[i]) || isLabelLine(lines[i]) {
				break
			}
			f.nameParts = append(f.nameParts, lines[i])
			consumed[i] = true
		}
	}

	f.handicap = lineHandicap(lines, anchor, end, anchorToks, labelPos, consumed, holeCount, first)

	for i := anchor + 1; i < end && len(f.scores) < holeCount; i++ {
		if consumed[i] || isLabelLine(lines[i]) {
			continue
		}
		for _, t := range splitFields(lines[i]) {
			if n, ok := parseNumber(t); ok && strokeRange.contains(n) {
				f.scores = append(f.scores, n)
				if len(f.scores) == holeCount {
					break
				}
			}
		}
	}
	f.scores = padScores(f.scores, holeCount)
	return f
}

func lineHandicap(lines []string, anchor, end int, anchorToks []string, labelPos int, consumed map[int]bool, holeCount int, first bool) int {
	standalone := func(i int) (int, bool) {
		if i < 0 || i >= len(lines) || consumed[i] {
			return 0, false
		}
		n, ok := parseNumber(lines[i])
		if !ok || !lineHandicapRange.contains(n) {
			return 0, false
		}
		return n, true
	}

	windowEnd := min(anchor+handicapWindow+1, end)

	// 1. explicit label within the window after the anchor
	for i := anchor; i < windowEnd; i++ {
		if !handicapLabelRe.MatchString(lines[i]) {
			continue
		}
		if m := inlineHandicapRe.FindStringSubmatch(lines[i]); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && lineHandicapRange.contains(n) {
				consumed[i] = true
				return n
			}
		}
		toks := splitFields(lines[i])
		for j, t := range toks {
			if !handicapLabelRe.MatchString(t) || j == 0 {
				continue
			}
			if n, ok := parseNumber(toks[j-1]); ok && lineHandicapRange.contains(n) {
				consumed[i] = true
				return n
			}
		}
		if n, ok := standalone(i + 1); ok && i+1 < end {
			consumed[i+1] = true
			return n
		}
		if n, ok := standalone(i - 1); ok && i-1 > anchor {
			consumed[i-1] = true
			return n
		}
	}

	// 2. "<number> Name"
	if labelPos > 0 {
		if n, ok := parseNumber(anchorToks[labelPos-1]); ok && lineHandicapRange.contains(n) {
			return n
		}
	}
	if labelPos == 0 && first {
		if n, ok := standalone(anchor - 1); ok {
			return n
		}
	}

	// 3. first standalone number line, guarded the same way as rows
	surplus := blockStrokeNumbers(lines, anchor+1, end, consumed) > holeCount
	for i := anchor + 1; i < windowEnd; i++ {
		n, ok := standalone(i)
		if !ok || (strokeRange.contains(n) && !surplus) {
			continue
		}
		consumed[i] = true
		return n
	}
	return 0
}

func isLabelLine(line string) bool {
	return nonScoreLabelRe.MatchString(line) || handicapLabelRe.MatchString(line)
}

func countStrokeNumbers(toks []string, used map[int]bool) int {
	count := 0
	for i, t := range toks {
		if used[i] {
			continue
		}
		if n, ok := parseNumber(t); ok && strokeRange.contains(n) {
			count++
		}
	}
	return count
}

func blockStrokeNumbers(lines []string, from, to int, consumed map[int]bool) int {
	count := 0
	for i := from; i < to; i++ {
		if consumed[i] || isLabelLine(lines[i]) {
			continue
		}
		count += countStrokeNumbers(splitFields(lines[i]), nil)
	}
	return count
}

// padScores forces the score sequence to exactly holeCount entries, padding
// with zero (unrecovered) or truncating.
func padScores(scores []int, holeCount int) []int {
	out := make([]int, holeCount)
	copy(out, scores)
	return out
}

func joinName(parts []string) string {
	return strings.Join(parts, " ")
}
