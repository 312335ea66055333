package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Aashish23092/scorecard-ocr/dto"
	"github.com/Aashish23092/scorecard-ocr/utils/scorecard"
	"github.com/Aashish23092/scorecard-ocr/utils/scoring"
)

// Upload is one uploaded scorecard file.
type Upload struct {
	Filename string
	Data     []byte
}

// ScorecardService reads scorecards, scores teams and ranks events.
type ScorecardService struct {
	reader       *DocumentReader
	interpreter  *scorecard.Interpreter
	labeler      scorecard.Labeler
	store        TeamStore
	metrics      *Metrics
	defaultHoles int
	log          *logrus.Logger
}

func NewScorecardService(
	reader *DocumentReader,
	interpreter *scorecard.Interpreter,
	labeler scorecard.Labeler,
	store TeamStore,
	metrics *Metrics,
	defaultHoles int,
	log *logrus.Logger,
) *ScorecardService {
	return &ScorecardService{
		reader:       reader,
		interpreter:  interpreter,
		labeler:      labeler,
		store:        store,
		metrics:      metrics,
		defaultHoles: defaultHoles,
		log:          log,
	}
}

// Interpret reads a single scorecard without scoring it. holeCount is used
// only when the card has no readable hole header; 0 selects the default.
func (s *ScorecardService) Interpret(ctx context.Context, upload Upload, holeCount int) (*dto.InterpretationResult, error) {
	result, _, err := s.interpret(ctx, upload, holeCount)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ScorecardService) interpret(ctx context.Context, upload Upload, holeCount int) (dto.InterpretationResult, *Document, error) {
	doc, err := s.reader.Read(ctx, upload.Filename, upload.Data)
	if err != nil {
		return dto.InterpretationResult{}, nil, err
	}

	if holeCount == 0 {
		holeCount = s.defaultHoles
	}
	result := s.interpreter.Interpret(*doc.Payload, holeCount)
	s.metrics.observeInterpretation(result.Mode, len(result.Players), result.Confidence)

	s.log.WithFields(logrus.Fields{
		"filename":   upload.Filename,
		"source":     doc.Source,
		"provider":   doc.Payload.Provider,
		"mode":       result.Mode,
		"players":    len(result.Players),
		"hole_count": result.HoleCount,
		"confidence": result.Confidence,
	}).Info("Scorecard interpreted")

	return result, doc, nil
}

// SubmitScorecard interprets a card and, when players were found, scores
// the team and stores it under the event. The team is named from teamName
// when given, then from a QR sticker on the card, then by the labeler.
func (s *ScorecardService) SubmitScorecard(ctx context.Context, eventID string, format dto.Format, teamName string, upload Upload) (*dto.SubmissionResponse, error) {
	result, doc, err := s.interpret(ctx, upload, 0)
	if err != nil {
		return nil, err
	}

	resp := &dto.SubmissionResponse{
		Interpretation: result,
		ProcessedAt:    time.Now().Format(time.RFC3339),
	}
	if result.Empty() {
		resp.NeedsManualEntry = true
		s.log.WithFields(logrus.Fields{
			"event_id": eventID,
			"filename": upload.Filename,
		}).Warn("No players recovered, manual entry required")
		return resp, nil
	}

	name := strings.TrimSpace(teamName)
	if name == "" {
		name = doc.QRLabel
	}
	if name == "" {
		name = result.TeamName
	}

	team, err := s.saveTeam(ctx, eventID, format, name, result.Players, result.HoleCount)
	if err != nil {
		return nil, err
	}
	resp.TeamScore = team
	return resp, nil
}

// ScoreRoster scores a manually entered roster and stores it under the event.
func (s *ScorecardService) ScoreRoster(ctx context.Context, eventID string, req dto.RosterRequest) (*dto.TeamScore, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	format, err := dto.ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}

	holeCount := req.HoleCount
	if holeCount == 0 {
		holeCount = s.defaultHoles
	}

	players := make([]dto.ParsedPlayer, len(req.Players))
	names := make([]string, len(req.Players))
	for i, p := range req.Players {
		players[i] = scorecard.NewPlayer(i, p.Name, p.Handicap, p.HoleScores, holeCount)
		names[i] = players[i].Name
	}

	name := strings.TrimSpace(req.TeamName)
	if name == "" {
		name = s.labeler.Label(names)
	}
	return s.saveTeam(ctx, eventID, format, name, players, holeCount)
}

func (s *ScorecardService) saveTeam(ctx context.Context, eventID string, format dto.Format, name string, players []dto.ParsedPlayer, holeCount int) (*dto.TeamScore, error) {
	team, err := scoring.Score(format, players, holeCount)
	if err != nil {
		return nil, err
	}
	team.TeamID = uuid.New().String()
	team.TeamName = name
	team.EventID = eventID

	if err := s.store.Save(ctx, eventID, team); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"event_id":  eventID,
		"team_id":   team.TeamID,
		"team_name": team.TeamName,
		"format":    team.Format,
	}).Info("Team scored")
	return &team, nil
}

// ProcessBatch submits every upload concurrently. Items come back in upload
// order; a failed file does not stop the others.
func (s *ScorecardService) ProcessBatch(ctx context.Context, eventID string, format dto.Format, uploads []Upload) *dto.BatchResponse {
	items := make([]dto.BatchItem, len(uploads))
	var wg sync.WaitGroup

	for i, upload := range uploads {
		wg.Add(1)
		go func(i int, upload Upload) {
			defer wg.Done()

			item := dto.BatchItem{Filename: upload.Filename}
			result, err := s.SubmitScorecard(ctx, eventID, format, "", upload)
			if err != nil {
				s.log.WithField("filename", upload.Filename).WithError(err).Error("Batch item failed")
				item.Error = err.Error()
			} else {
				item.Result = result
			}
			items[i] = item
		}(i, upload)
	}

	wg.Wait()

	resp := &dto.BatchResponse{Items: items}
	for _, item := range items {
		if item.Error != "" {
			resp.Failed++
		} else {
			resp.Succeeded++
		}
	}
	return resp
}

// Leaderboard ranks every team stored for the event, straight group first.
func (s *ScorecardService) Leaderboard(ctx context.Context, eventID string) (*dto.LeaderboardResponse, error) {
	teams, err := s.store.List(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, fmt.Errorf("%w: %s", dto.ErrEventNotFound, eventID)
	}

	byID := make(map[string]dto.TeamScore, len(teams))
	for _, t := range teams {
		byID[t.TeamID] = t
	}

	ranking := scoring.Rank(teams)
	entries := make([]dto.LeaderboardEntry, 0, len(ranking))
	for _, r := range ranking {
		t := byID[r.TeamID]
		net := t.NetScore
		if r.Format == dto.FormatStraight && net == nil {
			n := scoring.Net(t)
			net = &n
		}
		entries = append(entries, dto.LeaderboardEntry{
			Rank:         r.Rank,
			TeamID:       t.TeamID,
			TeamName:     t.TeamName,
			Format:       r.Format,
			GrossTotal:   t.GrossTotal,
			TeamHandicap: t.TeamHandicap,
			NetScore:     net,
			PointsTotal:  t.PointsTotal,
		})
	}

	return &dto.LeaderboardResponse{EventID: eventID, Entries: entries}, nil
}

func (s *ScorecardService) DeleteTeam(ctx context.Context, eventID, teamID string) error {
	if err := s.store.Delete(ctx, eventID, teamID); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"event_id": eventID,
		"team_id":  teamID,
	}).Info("Team deleted")
	return nil
}

// ExportLeaderboardXLSX renders the event leaderboard as a workbook.
func (s *ScorecardService) ExportLeaderboardXLSX(ctx context.Context, eventID string) ([]byte, error) {
	board, err := s.Leaderboard(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return WriteLeaderboardXLSX(board.Entries)
}
