package service

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/scorecard-ocr/dto"
)

const (
	straightSheet  = "Straight Scramble"
	champagneSheet = "Champagne Scramble"
)

// WriteLeaderboardXLSX renders leaderboard entries as a workbook with one
// sheet per format.
func WriteLeaderboardXLSX(entries []dto.LeaderboardEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), straightSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(champagneSheet); err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	header := map[string][]interface{}{
		straightSheet:  {"Rank", "Team", "Gross", "Team Handicap", "Net"},
		champagneSheet: {"Rank", "Team", "Gross", "Team Handicap", "Points"},
	}
	next := map[string]int{straightSheet: 2, champagneSheet: 2}

	for sheet, cells := range header {
		if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for _, e := range entries {
		sheet := straightSheet
		metric := e.NetScore
		if e.Format == dto.FormatChampagne {
			sheet = champagneSheet
			metric = e.PointsTotal
		}
		row := []interface{}{e.Rank, e.TeamName, e.GrossTotal, e.TeamHandicap, nil}
		if metric != nil {
			row[4] = *metric
		}

		axis, err := excelize.CoordinatesToCellName(1, next[sheet])
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
		next[sheet]++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
