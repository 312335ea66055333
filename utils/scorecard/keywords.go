package scorecard

import "regexp"

// Anchor and filter tables.

const (
	// PlaceholderName replaces a name that could not be recovered.
	PlaceholderName = "PLAYER"

	// DefaultHoleCount is used when no hole header can be found.
	DefaultHoleCount = 18

	// DefaultRowTolerance is the vertical distance within which tokens are
	// considered to share a row.
	DefaultRowTolerance = 20

	// handicapWindow bounds how many lines after a name anchor are searched
	// for a handicap label.
	handicapWindow = 8

	maxNameParts = 3

	minHeaderNumbers = 6
)

// Numeric ranges, inclusive.
var (
	holeLabelRange     = intRange{1, 18}
	fallbackHoleRange  = intRange{9, 18}
	strokeRange        = intRange{2, 12}
	lineHandicapRange  = intRange{0, 54}
	tokenHandicapRange = intRange{0, 36}
)

// canonicalHoleCounts are the event formats supported.
var canonicalHoleCounts = map[int]bool{9: true, 13: true, 16: true, 18: true}

var (
	nameLabelRe     = regexp.MustCompile(`(?i)^name\b[:.]?`)
	nameLabelWordRe = regexp.MustCompile(`(?i)\bname\b`)
	handicapLabelRe = regexp.MustCompile(`(?i)\b(hcap|h'cap|heap|cap|handicap|hcp)\b`)

	// anchorWordsRe are stripped from candidate names.
	anchorWordsRe = regexp.MustCompile(`(?i)\b(name|hcap|heap|cap|handicap|hcp)\b`)

	// nonScoreLabelRe marks lines and tokens that never carry hole scores.
	nonScoreLabelRe = regexp.MustCompile(`(?i)\b(name|par|index|total|points|pts|hcap|heap|handicap|hcp)\b`)

	// labelTokenRe matches a single token that is a label rather than data.
	labelTokenRe = regexp.MustCompile(`(?i)^(name|par|index|total|points|pts|hcap|h'cap|heap|cap|handicap|hcp|hole|holes|yard|yards|yds|s\.i\.?)[:.]?$`)

	// headerRowRe marks spatial rows that hold course data rather than players.
	headerRowRe = regexp.MustCompile(`(?i)\b(hole|holes|par|index|yard|yards|yds)\b|\bs\.i\.`)

	nameLineRe  = regexp.MustCompile(`^[A-Za-z'. ]+$`)
	nameTokenRe = regexp.MustCompile(`^[A-Za-z'.]+$`)
	alphaRunRe  = regexp.MustCompile(`[A-Za-z]{2,}`)
	numberRe    = regexp.MustCompile(`^\d{1,2}$`)
	digitsRe    = regexp.MustCompile(`\d+`)
	nonNameRe   = regexp.MustCompile(`[^A-Z'. ]+`)
	spacesRe    = regexp.MustCompile(`\s+`)
	splitRe     = regexp.MustCompile(`[\s,;|:/]+`)
)

type intRange struct{ min, max int }

func (r intRange) contains(n int) bool {
	return n >= r.min && n <= r.max
}

// regionalNames is the fixed ordered list team labels are drawn from.
var regionalNames = [32]string{
	"Fife", "Lothian", "Ayrshire", "Angus", "Moray", "Argyll", "Galloway", "Borders",
	"Highland", "Perth", "Lanark", "Dundee", "Cornwall", "Devon", "Dorset", "Kent",
	"Sussex", "Surrey", "Norfolk", "Suffolk", "Essex", "Yorkshire", "Lancashire", "Cumbria",
	"Munster", "Leinster", "Ulster", "Connacht", "Kerry", "Clare", "Antrim", "Down",
}

// RegionalNames returns a copy of the team label list.
func RegionalNames() []string {
	out := make([]string, len(regionalNames))
	copy(out, regionalNames[:])
	return out
}
