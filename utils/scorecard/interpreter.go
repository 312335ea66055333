package scorecard

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/Aashish23092/scorecard-ocr/dto"
)

// Interpretation modes reported in dto.InterpretationResult.Mode.
const (
	ModeSpatial = "spatial"
	ModeLines   = "lines"
)

const (
	emptyConfidence = 0.2
	scoreBonus      = 0.2
)

var playerNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("scorecard-ocr/player"))

// Interpreter turns an OCR payload into a structured roster. It holds no
// per-call state and may be shared between goroutines as long as its
// Labeler is.
type Interpreter struct {
	labeler      Labeler
	rowTolerance int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLabeler replaces the default content-derived team labeler.
func WithLabeler(l Labeler) Option {
	return func(in *Interpreter) {
		if l != nil {
			in.labeler = l
		}
	}
}

// WithRowTolerance sets the vertical tolerance used to group tokens into rows.
func WithRowTolerance(tol int) Option {
	return func(in *Interpreter) {
		if tol > 0 {
			in.rowTolerance = tol
		}
	}
}

// NewInterpreter returns an Interpreter with the content labeler and
// DefaultRowTolerance unless overridden by opts.
func NewInterpreter(opts ...Option) *Interpreter {
	in := &Interpreter{
		labeler:      ContentLabeler{},
		rowTolerance: DefaultRowTolerance,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Interpret extracts players, hole count, team label and confidence from a
// payload. Token geometry is used when present; otherwise the plain text is
// read line by line. fallbackHoles is used when no hole header is found and
// defaults to DefaultHoleCount when not a supported count.
//
// A payload with no recoverable players yields an empty result with hole
// count 0 and a fixed low confidence. It never fails.
func (in *Interpreter) Interpret(payload dto.OCRPayload, fallbackHoles int) dto.InterpretationResult {
	if !canonicalHoleCounts[fallbackHoles] {
		fallbackHoles = DefaultHoleCount
	}

	var (
		candidates []fields
		holeCount  int
		mode       string
	)
	if payload.HasGeometry() {
		mode = ModeSpatial
		candidates, holeCount = in.interpretRows(payload.Tokens, fallbackHoles)
	} else {
		mode = ModeLines
		candidates, holeCount = interpretLines(payload.Text, fallbackHoles)
	}

	players := make([]dto.ParsedPlayer, 0, len(candidates))
	seen := make(map[string]bool)
	for _, c := range candidates {
		name := CleanName(joinName(c.nameParts))
		if name != PlaceholderName {
			if seen[name] {
				continue
			}
			seen[name] = true
		}
		players = append(players, NewPlayer(len(players), name, c.handicap, c.scores, holeCount))
	}

	if len(players) == 0 {
		return dto.InterpretationResult{
			Players:    []dto.ParsedPlayer{},
			Confidence: emptyConfidence,
			Mode:       mode,
		}
	}

	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return dto.InterpretationResult{
		Players:    players,
		HoleCount:  holeCount,
		TeamName:   in.labeler.Label(names),
		Confidence: Confidence(players),
		Mode:       mode,
	}
}

func (in *Interpreter) interpretRows(tokens []dto.Token, fallbackHoles int) ([]fields, int) {
	rows := GroupRows(tokens, in.rowTolerance)

	// Player rows carry handicaps and scores that can pass for hole labels,
	// so only the remaining rows, hole headers included, are searched.
	var playerRows, otherRows []Row
	for _, row := range rows {
		if isPlayerRow(row.String(), row.words()) {
			playerRows = append(playerRows, row)
		} else {
			otherRows = append(otherRows, row)
		}
	}
	holeCount, ok := detectHoleCount(tokenRowsToRows(otherRows))
	if !ok {
		holeCount = fallbackHoles
	}

	out := make([]fields, 0, len(playerRows))
	for _, row := range playerRows {
		out = append(out, extractFromTokens(row.words(), holeCount))
	}
	return out, holeCount
}

func interpretLines(text string, fallbackHoles int) ([]fields, int) {
	lines := normalizeLines(text)
	if len(lines) == 0 {
		return nil, 0
	}
	var headerLines []string
	for _, l := range lines {
		if !isPlayerRow(l, splitFields(l)) {
			headerLines = append(headerLines, l)
		}
	}
	holeCount, ok := detectHoleCount(linesToRows(headerLines))
	if !ok {
		holeCount = fallbackHoles
	}

	var anchors []int
	for i, l := range lines {
		if nameLabelWordRe.MatchString(l) && !isHoleHeader(splitFields(l)) {
			anchors = append(anchors, i)
		}
	}

	var out []fields
	if len(anchors) == 0 {
		// Without labels each line may still be a complete player row, as
		// text layers of printed cards often are.
		for _, l := range lines {
			toks := splitFields(l)
			if !isPlayerRow(l, toks) {
				continue
			}
			f := extractFromTokens(toks, holeCount)
			if len(f.nameParts) > 0 && slices.ContainsFunc(f.scores, func(s int) bool { return s > 0 }) {
				out = append(out, f)
			}
		}
		return out, holeCount
	}

	for i, anchor := range anchors {
		end := len(lines)
		if i+1 < len(anchors) {
			end = anchors[i+1]
		}
		out = append(out, extractFromLines(lines, anchor, end, holeCount, i == 0))
	}
	return out, holeCount
}

// isPlayerRow keeps rows with a name marker or an alphabetic run and drops
// hole headers, course header rows and rows made only of labels. A name
// marker outweighs course words such as "S.I." in a player's name.
func isPlayerRow(line string, toks []string) bool {
	if isHoleHeader(toks) {
		return false
	}
	if slices.ContainsFunc(toks, nameLabelRe.MatchString) {
		return true
	}
	if headerRowRe.MatchString(line) {
		return false
	}
	return slices.ContainsFunc(toks, func(t string) bool {
		return alphaRunRe.MatchString(t) && !labelTokenRe.MatchString(t)
	})
}

// isHoleHeader reports whether the tokens, labels aside, are an ascending
// run of hole numbers, as in "Name Hcap 1 2 3 4 5 6 7 8 9".
func isHoleHeader(toks []string) bool {
	prev, count := 0, 0
	for _, t := range toks {
		if labelTokenRe.MatchString(t) {
			continue
		}
		n, ok := parseNumber(t)
		if !ok || !holeLabelRange.contains(n) || n <= prev {
			return false
		}
		prev = n
		count++
	}
	return count >= minHeaderNumbers
}

// Confidence rates an extraction by player count, with a bonus when any
// hole score was recovered.
func Confidence(players []dto.ParsedPlayer) float64 {
	var c float64
	switch n := len(players); {
	case n == 0:
		return emptyConfidence
	case n >= 3:
		c = 0.7
	case n == 2:
		c = 0.5
	default:
		c = 0.3
	}
	for _, p := range players {
		if slices.ContainsFunc(p.HoleScores, func(s int) bool { return s > 0 }) {
			c += scoreBonus
			break
		}
	}
	return min(c, 1.0)
}

// NewPlayer builds a parsed player at discovery position idx. The name is
// cleaned, the scores are fitted to holeCount and the ID is derived from
// position and name, so the same card always yields the same IDs.
func NewPlayer(idx int, rawName string, handicap int, scores []int, holeCount int) dto.ParsedPlayer {
	name := CleanName(rawName)
	return dto.ParsedPlayer{
		ID:         uuid.NewSHA1(playerNamespace, []byte(fmt.Sprintf("%d:%s", idx, name))).String(),
		Name:       name,
		Handicap:   handicap,
		HoleScores: padScores(scores, holeCount),
	}
}
