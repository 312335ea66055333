package scoring

import "math"

// Par is assumed for every hole.
const Par = 4

// strokeIndexTable ranks the 18 holes by difficulty, 1 being the hardest.
var strokeIndexTable = [18]int{10, 4, 14, 2, 16, 8, 12, 6, 18, 11, 1, 15, 7, 17, 5, 13, 3, 9}

// TeamHandicap is a tenth of the summed player handicaps, rounded half away
// from zero.
func TeamHandicap(handicaps []int) int {
	sum := 0
	for _, h := range handicaps {
		sum += h
	}
	return int(math.Round(float64(sum) / 10))
}

// StrokeIndex returns the stroke index of hole (1-based) on a course of
// holeCount holes. Shorter courses are scaled proportionally onto the
// 18-hole table.
func StrokeIndex(hole, holeCount int) int {
	if holeCount <= 0 || hole < 1 {
		return 0
	}
	idx := hole - 1
	if holeCount != len(strokeIndexTable) {
		idx = (hole - 1) * len(strokeIndexTable) / holeCount
	}
	if idx >= len(strokeIndexTable) {
		idx = len(strokeIndexTable) - 1
	}
	return strokeIndexTable[idx]
}

// HandicapStrokes is the number of strokes a player receives on a hole.
func HandicapStrokes(handicap, strokeIndex int) int {
	switch {
	case handicap >= strokeIndex+18:
		return 2
	case handicap >= strokeIndex:
		return 1
	default:
		return 0
	}
}
