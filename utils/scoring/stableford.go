package scoring

const maxPoints = 6

// StablefordPoints converts a net score on a par-4 hole into points:
// double bogey or worse 0, bogey 1, par 2, birdie 3, eagle 4, albatross 5,
// condor 6. An unrecovered hole (gross 0) scores nothing.
func StablefordPoints(gross, strokes int) int {
	if gross <= 0 {
		return 0
	}
	net := gross - strokes
	points := 2 + Par - net
	if points < 0 {
		return 0
	}
	return min(points, maxPoints)
}
