package scoring

import (
	"cmp"
	"slices"

	"github.com/Aashish23092/scorecard-ocr/dto"
)

// BreakTie orders two teams that tie on their format's primary metric:
// lower gross total first, then lower team handicap. Zero means the teams
// share the position.
func BreakTie(a, b dto.TeamScore) int {
	if c := cmp.Compare(a.GrossTotal, b.GrossTotal); c != 0 {
		return c
	}
	return cmp.Compare(a.TeamHandicap, b.TeamHandicap)
}

// Rank assigns positions within each format group independently. Straight
// teams rank by ascending net score, champagne teams by descending points.
// Teams that tie after BreakTie share a rank and the next distinct result
// takes the following rank. Entries are returned straight group first.
func Rank(teams []dto.TeamScore) []dto.RankingEntry {
	var straight, champagne []dto.TeamScore
	for _, t := range teams {
		switch t.Format {
		case dto.FormatStraight:
			straight = append(straight, t)
		case dto.FormatChampagne:
			champagne = append(champagne, t)
		}
	}

	entries := make([]dto.RankingEntry, 0, len(straight)+len(champagne))
	entries = append(entries, rankGroup(straight, func(a, b dto.TeamScore) int {
		return cmp.Compare(Net(a), Net(b))
	})...)
	entries = append(entries, rankGroup(champagne, func(a, b dto.TeamScore) int {
		return cmp.Compare(pointsTotal(b), pointsTotal(a))
	})...)
	return entries
}

func rankGroup(group []dto.TeamScore, primary func(a, b dto.TeamScore) int) []dto.RankingEntry {
	if len(group) == 0 {
		return nil
	}

	order := func(a, b dto.TeamScore) int {
		if c := primary(a, b); c != 0 {
			return c
		}
		return BreakTie(a, b)
	}

	sorted := slices.Clone(group)
	slices.SortFunc(sorted, func(a, b dto.TeamScore) int {
		if c := order(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.TeamID, b.TeamID)
	})

	entries := make([]dto.RankingEntry, len(sorted))
	rank := 1
	for i, t := range sorted {
		if i > 0 && order(sorted[i-1], t) != 0 {
			rank++
		}
		entries[i] = dto.RankingEntry{TeamID: t.TeamID, Format: t.Format, Rank: rank}
	}
	return entries
}

// Net returns a straight team's net score, derived from gross and team
// handicap when the stored score lacks it.
func Net(t dto.TeamScore) int {
	if t.NetScore != nil {
		return *t.NetScore
	}
	return t.GrossTotal - t.TeamHandicap
}

func pointsTotal(t dto.TeamScore) int {
	if t.PointsTotal != nil {
		return *t.PointsTotal
	}
	return 0
}
