package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/Aashish23092/scorecard-ocr/dto"
	"github.com/Aashish23092/scorecard-ocr/utils/scorecard"
	"github.com/Aashish23092/scorecard-ocr/utils/scoring"
)

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "input file, - for stdin",
		Required: true,
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "scorecardctl",
		Usage: "interpret, score and rank golf scorecards offline",
		Commands: []*cli.Command{
			{
				Name:  "interpret",
				Usage: "read OCR text or a JSON OCR payload into players and scores",
				Flags: []cli.Flag{
					fileFlag(),
					&cli.IntFlag{Name: "holes", Value: scorecard.DefaultHoleCount, Usage: "hole count when the card has no hole header"},
					&cli.StringFlag{Name: "team", Usage: "team name, overrides the generated label"},
				},
				Action: interpretAction,
			},
			{
				Name:  "score",
				Usage: "score an interpretation result",
				Flags: []cli.Flag{
					fileFlag(),
					&cli.StringFlag{Name: "format", Required: true, Usage: "straight_scramble or champagne_scramble"},
				},
				Action: scoreAction,
			},
			{
				Name:   "rank",
				Usage:  "rank a JSON array of team scores",
				Flags:  []cli.Flag{fileFlag()},
				Action: rankAction,
			},
		},
	}
}

func interpretAction(c *cli.Context) error {
	data, err := readInput(c)
	if err != nil {
		return err
	}

	payload := dto.OCRPayload{Text: string(data)}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		payload = dto.OCRPayload{}
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return fmt.Errorf("invalid OCR payload: %w", err)
		}
	}

	result := scorecard.NewInterpreter().Interpret(payload, c.Int("holes"))
	if team := c.String("team"); team != "" && !result.Empty() {
		result.TeamName = team
	}
	return writeJSON(c.App.Writer, result)
}

func scoreAction(c *cli.Context) error {
	format, err := dto.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}

	data, err := readInput(c)
	if err != nil {
		return err
	}
	var result dto.InterpretationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("invalid interpretation result: %w", err)
	}

	team, err := scoring.Score(format, result.Players, result.HoleCount)
	if err != nil {
		return err
	}
	team.TeamID = uuid.New().String()
	team.TeamName = result.TeamName
	return writeJSON(c.App.Writer, team)
}

func rankAction(c *cli.Context) error {
	data, err := readInput(c)
	if err != nil {
		return err
	}
	var teams []dto.TeamScore
	if err := json.Unmarshal(data, &teams); err != nil {
		return fmt.Errorf("invalid team scores: %w", err)
	}
	return writeJSON(c.App.Writer, scoring.Rank(teams))
}

func readInput(c *cli.Context) ([]byte, error) {
	path := c.String("file")
	if path == "-" {
		return io.ReadAll(c.App.Reader)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
