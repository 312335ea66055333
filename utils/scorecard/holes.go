package scorecard

// DetectHoleCount infers the number of holes from rows of text tokens.
//
// A row qualifies when it holds at least six numbers in 1..18, the way a
// printed hole header does. The largest such number decides. A canonical
// count (9, 13, 16, 18) beats any non-canonical guess in 9..18 and the
// largest canonical count seen wins; 18 ends the scan at once. With nothing
// found the result is DefaultHoleCount.
func DetectHoleCount(rows [][]string) int {
	n, _ := detectHoleCount(rows)
	return n
}

// detectHoleCount reports false when no row qualified.
func detectHoleCount(rows [][]string) (int, bool) {
	canonical, fallback := 0, 0
	for _, row := range rows {
		count, highest := 0, 0
		for _, tok := range row {
			n, ok := parseNumber(tok)
			if !ok || !holeLabelRange.contains(n) {
				continue
			}
			count++
			if n > highest {
				highest = n
			}
		}
		if count < minHeaderNumbers {
			continue
		}
		if canonicalHoleCounts[highest] {
			if highest == DefaultHoleCount {
				return highest, true
			}
			canonical = max(canonical, highest)
			continue
		}
		if fallbackHoleRange.contains(highest) && highest > fallback {
			fallback = highest
		}
	}
	if canonical > 0 {
		return canonical, true
	}
	if fallback > 0 {
		return fallback, true
	}
	return DefaultHoleCount, false
}

func linesToRows(lines []string) [][]string {
	rows := make([][]string, len(lines))
	for i, l := range lines {
		rows[i] = splitFields(l)
	}
	return rows
}

func tokenRowsToRows(rows []Row) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.words()
	}
	return out
}
