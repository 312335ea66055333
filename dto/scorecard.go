package dto

import (
	"fmt"
	"strings"
)

// Vertex is one corner of a token's bounding region, in image coordinates
// (origin top-left, y grows downward).
type Vertex struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Token is a recognized text fragment with its four-corner bounding region.
// Corners are ordered top-left, top-right, bottom-right, bottom-left.
type Token struct {
	Text       string    `json:"text"`
	Bounds     [4]Vertex `json:"bounds"`
	Confidence float64   `json:"confidence,omitempty"`
}

// Top returns the smallest vertical coordinate of the token's corners.
func (t Token) Top() int {
	top := t.Bounds[0].Y
	for _, v := range t.Bounds[1:] {
		if v.Y < top {
			top = v.Y
		}
	}
	return top
}

// Left returns the smallest horizontal coordinate of the token's corners.
func (t Token) Left() int {
	left := t.Bounds[0].X
	for _, v := range t.Bounds[1:] {
		if v.X < left {
			left = v.X
		}
	}
	return left
}

// RectToken builds a token from an axis-aligned rectangle.
func RectToken(text string, x1, y1, x2, y2 int) Token {
	return Token{
		Text: text,
		Bounds: [4]Vertex{
			{X: x1, Y: y1},
			{X: x2, Y: y1},
			{X: x2, Y: y2},
			{X: x1, Y: y2},
		},
	}
}

// OCRPayload is what an OCR provider hands to the interpreter. Tokens is
// empty when the provider only returns plain text.
type OCRPayload struct {
	Text     string  `json:"text"`
	Tokens   []Token `json:"tokens,omitempty"`
	Provider string  `json:"provider,omitempty"`
}

// HasGeometry reports whether positional token data is available.
func (p OCRPayload) HasGeometry() bool {
	return len(p.Tokens) > 0
}

// ParsedPlayer is one player recovered from a scorecard. A zero entry in
// HoleScores means the hole was not recovered.
type ParsedPlayer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Handicap   int    `json:"handicap"`
	HoleScores []int  `json:"hole_scores"`
}

// InterpretationResult is the structured roster recovered from one scorecard.
type InterpretationResult struct {
	Players    []ParsedPlayer `json:"players"`
	HoleCount  int            `json:"hole_count"`
	TeamName   string         `json:"team_name"`
	Confidence float64        `json:"confidence"`
	Mode       string         `json:"mode,omitempty"`
}

// Empty reports whether no players were recovered, which callers treat as
// a signal to escalate to manual entry.
func (r InterpretationResult) Empty() bool {
	return len(r.Players) == 0
}

// Format is the competition format of an event.
type Format string

const (
	FormatStraight  Format = "straight_scramble"
	FormatChampagne Format = "champagne_scramble"
)

// ParseFormat accepts the two format literals plus the short forms
// "straight" and "champagne".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(FormatStraight), "straight":
		return FormatStraight, nil
	case string(FormatChampagne), "champagne":
		return FormatChampagne, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
}

// PlayerScore is a player's contribution to a team score.
type PlayerScore struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Handicap int    `json:"handicap"`
	Gross    int    `json:"gross"`
}

// HoleBreakdown is the best-ball Stableford detail for one hole.
type HoleBreakdown struct {
	Hole         int            `json:"hole"`
	StrokeIndex  int            `json:"stroke_index"`
	PlayerPoints map[string]int `json:"player_points"`
	TeamPoints   int            `json:"team_points"`
}

// TeamScore is the computed result for one team. Exactly one of NetScore
// and PointsTotal is set, depending on Format.
type TeamScore struct {
	TeamID       string          `json:"team_id"`
	TeamName     string          `json:"team_name"`
	EventID      string          `json:"event_id,omitempty"`
	Format       Format          `json:"format"`
	HoleCount    int             `json:"hole_count"`
	GrossTotal   int             `json:"gross_total"`
	TeamHandicap int             `json:"team_handicap"`
	NetScore     *int            `json:"net_score,omitempty"`
	PointsTotal  *int            `json:"points_total,omitempty"`
	Players      []PlayerScore   `json:"players"`
	Holes        []HoleBreakdown `json:"holes,omitempty"`
	Breakdown    string          `json:"breakdown,omitempty"`
}

// RankingEntry is a team's position within its format group.
type RankingEntry struct {
	TeamID string `json:"team_id"`
	Format Format `json:"format"`
	Rank   int    `json:"rank"`
}

// LeaderboardEntry joins a ranking entry with the team's headline numbers.
type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	TeamID       string `json:"team_id"`
	TeamName     string `json:"team_name"`
	Format       Format `json:"format"`
	GrossTotal   int    `json:"gross_total"`
	TeamHandicap int    `json:"team_handicap"`
	NetScore     *int   `json:"net_score,omitempty"`
	PointsTotal  *int   `json:"points_total,omitempty"`
}
