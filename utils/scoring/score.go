package scoring

import (
	"fmt"

	"github.com/Aashish23092/scorecard-ocr/dto"
)

// Score computes the team result for a roster under the given format. The
// first player's card is the team's gross card.
func Score(format dto.Format, players []dto.ParsedPlayer, holeCount int) (dto.TeamScore, error) {
	if len(players) == 0 {
		return dto.TeamScore{}, dto.ErrEmptyRoster
	}
	if holeCount <= 0 {
		return dto.TeamScore{}, fmt.Errorf("%w: %d", dto.ErrInvalidHoleCount, holeCount)
	}

	switch format {
	case dto.FormatStraight:
		return ScoreStraight(players, holeCount), nil
	case dto.FormatChampagne:
		return ScoreChampagne(players, holeCount), nil
	}
	return dto.TeamScore{}, fmt.Errorf("%w: %q", dto.ErrInvalidFormat, format)
}

// ScoreStraight nets the gross total by the team handicap.
func ScoreStraight(players []dto.ParsedPlayer, holeCount int) dto.TeamScore {
	ts := baseScore(dto.FormatStraight, players, holeCount)
	net := ts.GrossTotal - ts.TeamHandicap
	ts.NetScore = &net
	ts.Breakdown = fmt.Sprintf("gross %d - team handicap %d = net %d", ts.GrossTotal, ts.TeamHandicap, net)
	return ts
}

// ScoreChampagne totals best-ball Stableford points hole by hole.
func ScoreChampagne(players []dto.ParsedPlayer, holeCount int) dto.TeamScore {
	ts := baseScore(dto.FormatChampagne, players, holeCount)

	total := 0
	ts.Holes = make([]dto.HoleBreakdown, 0, holeCount)
	for hole := 1; hole <= holeCount; hole++ {
		si := StrokeIndex(hole, holeCount)
		hb := dto.HoleBreakdown{
			Hole:         hole,
			StrokeIndex:  si,
			PlayerPoints: make(map[string]int, len(players)),
		}
		for _, p := range players {
			pts := StablefordPoints(holeScore(p, hole), HandicapStrokes(p.Handicap, si))
			hb.PlayerPoints[p.ID] = pts
			hb.TeamPoints = max(hb.TeamPoints, pts)
		}
		total += hb.TeamPoints
		ts.Holes = append(ts.Holes, hb)
	}

	ts.PointsTotal = &total
	ts.Breakdown = fmt.Sprintf("best-ball stableford %d points over %d holes", total, holeCount)
	return ts
}

func baseScore(format dto.Format, players []dto.ParsedPlayer, holeCount int) dto.TeamScore {
	handicaps := make([]int, len(players))
	scores := make([]dto.PlayerScore, len(players))
	for i, p := range players {
		handicaps[i] = p.Handicap
		scores[i] = dto.PlayerScore{
			ID:       p.ID,
			Name:     p.Name,
			Handicap: p.Handicap,
			Gross:    grossTotal(p, holeCount),
		}
	}

	ts := dto.TeamScore{
		Format:       format,
		HoleCount:    holeCount,
		TeamHandicap: TeamHandicap(handicaps),
		Players:      scores,
	}
	if len(scores) > 0 {
		ts.GrossTotal = scores[0].Gross
	}
	return ts
}

func grossTotal(p dto.ParsedPlayer, holeCount int) int {
	total := 0
	for hole := 1; hole <= holeCount; hole++ {
		total += holeScore(p, hole)
	}
	return total
}

func holeScore(p dto.ParsedPlayer, hole int) int {
	if hole < 1 || hole > len(p.HoleScores) {
		return 0
	}
	return p.HoleScores[hole-1]
}
