package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/scorecard-ocr/client"
	"github.com/Aashish23092/scorecard-ocr/dto"
	"github.com/Aashish23092/scorecard-ocr/logger"
	"github.com/Aashish23092/scorecard-ocr/utils/scorecard"
)

const cardText = `
Hole 1 2 3 4 5 6 7 8 9
Par 4 4 3 5 4 4 3 4 5
Name: John Smith
Hcap 12
4 5 3 4 4 5 3 4 6
Name: Mary Jones
Hcap: 20
5 5 4 5 4 6 4 5 6
`

type stubOCR struct {
	name  string
	text  string
	err   error
	calls atomic.Int32
}

func (s *stubOCR) Name() string { return s.name }

func (s *stubOCR) Recognize(_ context.Context, _ []byte) (*dto.OCRPayload, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &dto.OCRPayload{Text: s.text, Provider: s.name}, nil
}

type stubPDF struct {
	payload *dto.OCRPayload
	err     error
	images  []image.Image
}

func (s *stubPDF) ExtractTokens(_ []byte) (*dto.OCRPayload, error) {
	return s.payload, s.err
}

func (s *stubPDF) ExtractImages(_ []byte) ([]image.Image, error) {
	return s.images, nil
}

func whiteImage() image.Image {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func qrImage(t *testing.T, text string) image.Image {
	t.Helper()
	bm, err := qrcode.NewQRCodeWriter().Encode(text, gozxing.BarcodeFormat_QR_CODE, 240, 240, nil)
	require.NoError(t, err)
	return bm
}

func newTestService(ocr OCRProvider, pdf PDFProcessor) (*ScorecardService, *MemoryTeamStore, *Metrics) {
	log := logger.Discard()
	store := NewMemoryTeamStore()
	metrics := NewMetrics()
	if pdf == nil {
		pdf = &stubPDF{}
	}
	reader := NewDocumentReader(ocr, pdf, client.PreprocessOptions{}, metrics, log)
	svc := NewScorecardService(reader, scorecard.NewInterpreter(), scorecard.ContentLabeler{}, store, metrics, 18, log)
	return svc, store, metrics
}

func TestFallbackOCR(t *testing.T) {
	failing := &stubOCR{name: "paddle", err: errors.New("connection refused")}
	short := &stubOCR{name: "short", text: "ab"}
	good := &stubOCR{name: "tesseract", text: "Name: Ann Lee"}

	payload, err := NewFallbackOCR(logger.Discard(), failing, short, good).Recognize(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, "tesseract", payload.Provider)
	assert.EqualValues(t, 1, failing.calls.Load())
	assert.EqualValues(t, 1, short.calls.Load())
}

func TestFallbackOCRKeepsBestShortResult(t *testing.T) {
	failing := &stubOCR{name: "paddle", err: errors.New("timeout")}
	short := &stubOCR{name: "tesseract", text: "4 5"}

	payload, err := NewFallbackOCR(logger.Discard(), failing, short).Recognize(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, "4 5", payload.Text)
}

func TestFallbackOCRAllFail(t *testing.T) {
	_, err := NewFallbackOCR(logger.Discard(),
		&stubOCR{name: "paddle", err: errors.New("timeout")},
		&stubOCR{name: "tesseract", err: errors.New("no tessdata")},
	).Recognize(context.Background(), nil)

	assert.ErrorIs(t, err, dto.ErrOCRUnavailable)
	assert.Contains(t, err.Error(), "paddle,tesseract")

	_, err = NewFallbackOCR(logger.Discard()).Recognize(context.Background(), nil)
	assert.ErrorIs(t, err, dto.ErrOCRUnavailable)
}

func TestReadPDFTextLayer(t *testing.T) {
	ocr := &stubOCR{name: "stub", text: cardText}
	pdf := &stubPDF{payload: &dto.OCRPayload{Text: cardText, Provider: "pdf"}}
	reader := NewDocumentReader(ocr, pdf, client.PreprocessOptions{}, nil, logger.Discard())

	doc, err := reader.Read(context.Background(), "card.PDF", []byte("%PDF"))

	require.NoError(t, err)
	assert.Equal(t, "pdf_text", doc.Source)
	assert.Equal(t, "pdf", doc.Payload.Provider)
	assert.Zero(t, ocr.calls.Load())
}

func TestReadScannedPDF(t *testing.T) {
	ocr := &stubOCR{name: "stub", text: cardText}
	pdf := &stubPDF{
		err:    errors.New("malformed xref"),
		images: []image.Image{whiteImage()},
	}
	reader := NewDocumentReader(ocr, pdf, client.PreprocessOptions{}, nil, logger.Discard())

	doc, err := reader.Read(context.Background(), "scan.pdf", []byte("%PDF"))

	require.NoError(t, err)
	assert.Equal(t, "ocr", doc.Source)
	assert.EqualValues(t, 1, ocr.calls.Load())
}

func TestReadPDFWithoutContent(t *testing.T) {
	pdf := &stubPDF{payload: &dto.OCRPayload{Text: "  \n"}}
	reader := NewDocumentReader(&stubOCR{name: "stub"}, pdf, client.PreprocessOptions{}, nil, logger.Discard())

	_, err := reader.Read(context.Background(), "blank.pdf", []byte("%PDF"))

	assert.ErrorIs(t, err, dto.ErrNoTextExtracted)
}

func TestReadUndecodableImage(t *testing.T) {
	reader := NewDocumentReader(&stubOCR{name: "stub"}, &stubPDF{}, client.PreprocessOptions{}, nil, logger.Discard())

	_, err := reader.Read(context.Background(), "card.png", []byte("not an image"))

	assert.Error(t, err)
}

func TestSubmitScorecardUsesQRLabel(t *testing.T) {
	svc, store, _ := newTestService(&stubOCR{name: "stub", text: cardText}, nil)
	upload := Upload{Filename: "card.png", Data: encodePNG(t, qrImage(t, "TEAM:Eagles"))}

	resp, err := svc.SubmitScorecard(context.Background(), "spring-open", dto.FormatStraight, "", upload)

	require.NoError(t, err)
	assert.False(t, resp.NeedsManualEntry)
	require.NotNil(t, resp.TeamScore)
	assert.Equal(t, "Eagles", resp.TeamScore.TeamName)
	assert.Equal(t, "spring-open", resp.TeamScore.EventID)
	assert.Equal(t, 38, resp.TeamScore.GrossTotal)
	assert.Equal(t, 3, resp.TeamScore.TeamHandicap)
	require.NotNil(t, resp.TeamScore.NetScore)
	assert.Equal(t, 35, *resp.TeamScore.NetScore)
	assert.Len(t, resp.Interpretation.Players, 2)

	teams, err := store.List(context.Background(), "spring-open")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, resp.TeamScore.TeamID, teams[0].TeamID)
}

func TestSubmitScorecardTeamNameOverride(t *testing.T) {
	svc, _, _ := newTestService(&stubOCR{name: "stub", text: cardText}, nil)
	upload := Upload{Filename: "card.png", Data: encodePNG(t, qrImage(t, "TEAM:Eagles"))}

	resp, err := svc.SubmitScorecard(context.Background(), "e1", dto.FormatChampagne, " Birdies ", upload)

	require.NoError(t, err)
	require.NotNil(t, resp.TeamScore)
	assert.Equal(t, "Birdies", resp.TeamScore.TeamName)
	assert.NotNil(t, resp.TeamScore.PointsTotal)
	assert.Len(t, resp.TeamScore.Holes, 9)
}

func TestSubmitScorecardFallsBackToLabeler(t *testing.T) {
	svc, _, _ := newTestService(&stubOCR{name: "stub", text: cardText}, nil)
	upload := Upload{Filename: "card.png", Data: encodePNG(t, whiteImage())}

	resp, err := svc.SubmitScorecard(context.Background(), "e1", dto.FormatStraight, "", upload)

	require.NoError(t, err)
	require.NotNil(t, resp.TeamScore)
	assert.Equal(t, resp.Interpretation.TeamName, resp.TeamScore.TeamName)
	assert.Contains(t, scorecard.RegionalNames(), resp.TeamScore.TeamName)
}

func TestSubmitScorecardNeedsManualEntry(t *testing.T) {
	svc, _, metrics := newTestService(&stubOCR{name: "stub", text: "12 34 56"}, nil)
	upload := Upload{Filename: "card.jpg", Data: encodePNG(t, whiteImage())}

	resp, err := svc.SubmitScorecard(context.Background(), "e1", dto.FormatStraight, "", upload)

	require.NoError(t, err)
	assert.True(t, resp.NeedsManualEntry)
	assert.Nil(t, resp.TeamScore)
	assert.InDelta(t, 0.2, resp.Interpretation.Confidence, 1e-9)

	_, err = svc.Leaderboard(context.Background(), "e1")
	assert.ErrorIs(t, err, dto.ErrEventNotFound)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "scorecard_manual_entry_total 1")
	assert.Contains(t, rec.Body.String(), `scorecard_interpretations_total{mode="lines"} 1`)
}

func TestScoreRoster(t *testing.T) {
	svc, _, _ := newTestService(&stubOCR{name: "stub"}, nil)

	team, err := svc.ScoreRoster(context.Background(), "e1", dto.RosterRequest{
		Format:    "champagne",
		HoleCount: 9,
		Players: []dto.RosterPlayer{
			{Name: "ann lee", Handicap: 0, HoleScores: []int{4, 4, 4, 4, 4, 4, 4, 4, 4}},
			{Name: "bob ray", Handicap: 0, HoleScores: []int{5, 5}},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, dto.FormatChampagne, team.Format)
	require.NotNil(t, team.PointsTotal)
	assert.Equal(t, 18, *team.PointsTotal)
	assert.Equal(t, "ANN LEE", team.Players[0].Name)
	assert.Contains(t, scorecard.RegionalNames(), team.TeamName)
	assert.NotEmpty(t, team.TeamID)
}

func TestScoreRosterRejectsInvalid(t *testing.T) {
	svc, _, _ := newTestService(&stubOCR{name: "stub"}, nil)

	_, err := svc.ScoreRoster(context.Background(), "e1", dto.RosterRequest{Format: "matchplay", Players: []dto.RosterPlayer{{Name: "A"}}})
	assert.ErrorIs(t, err, dto.ErrInvalidFormat)

	_, err = svc.ScoreRoster(context.Background(), "e1", dto.RosterRequest{Format: "straight", HoleCount: 12, Players: []dto.RosterPlayer{{Name: "A"}}})
	assert.ErrorIs(t, err, dto.ErrInvalidHoleCount)

	_, err = svc.ScoreRoster(context.Background(), "e1", dto.RosterRequest{Format: "straight"})
	assert.ErrorIs(t, err, dto.ErrEmptyRoster)
}

func TestProcessBatch(t *testing.T) {
	ocr := &stubOCR{name: "stub", text: cardText}
	svc, store, _ := newTestService(ocr, nil)
	good := encodePNG(t, whiteImage())

	resp := svc.ProcessBatch(context.Background(), "e1", dto.FormatStraight, []Upload{
		{Filename: "a.png", Data: good},
		{Filename: "broken.png", Data: []byte("nope")},
		{Filename: "c.png", Data: good},
	})

	require.Len(t, resp.Items, 3)
	assert.Equal(t, "a.png", resp.Items[0].Filename)
	assert.NotNil(t, resp.Items[0].Result)
	assert.Equal(t, "broken.png", resp.Items[1].Filename)
	assert.NotEmpty(t, resp.Items[1].Error)
	assert.Nil(t, resp.Items[1].Result)
	assert.Equal(t, "c.png", resp.Items[2].Filename)
	assert.Equal(t, 2, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	assert.EqualValues(t, 2, ocr.calls.Load())

	teams, err := store.List(context.Background(), "e1")
	require.NoError(t, err)
	assert.Len(t, teams, 2)
}

func flatCard(score int) []int {
	out := make([]int, 9)
	for i := range out {
		out[i] = score
	}
	return out
}

func seedLeaderboard(t *testing.T, svc *ScorecardService) {
	t.Helper()
	rosters := []dto.RosterRequest{
		{Format: "straight", TeamName: "Aces", HoleCount: 9, Players: []dto.RosterPlayer{
			{Name: "A One", HoleScores: flatCard(4)},
		}},
		{Format: "straight", TeamName: "Birdies", HoleCount: 9, Players: []dto.RosterPlayer{
			{Name: "B One", Handicap: 10, HoleScores: flatCard(4)},
			{Name: "B Two", Handicap: 10, HoleScores: flatCard(5)},
		}},
		{Format: "champagne", TeamName: "Condors", HoleCount: 9, Players: []dto.RosterPlayer{
			{Name: "C One", HoleScores: flatCard(4)},
		}},
	}
	for _, r := range rosters {
		_, err := svc.ScoreRoster(context.Background(), "cup", r)
		require.NoError(t, err)
	}
}

func TestLeaderboard(t *testing.T) {
	svc, _, _ := newTestService(&stubOCR{name: "stub"}, nil)
	seedLeaderboard(t, svc)

	board, err := svc.Leaderboard(context.Background(), "cup")

	require.NoError(t, err)
	require.Len(t, board.Entries, 3)

	assert.Equal(t, "Birdies", board.Entries[0].TeamName)
	assert.Equal(t, 1, board.Entries[0].Rank)
	assert.Equal(t, 34, *board.Entries[0].NetScore)

	assert.Equal(t, "Aces", board.Entries[1].TeamName)
	assert.Equal(t, 2, board.Entries[1].Rank)

	assert.Equal(t, "Condors", board.Entries[2].TeamName)
	assert.Equal(t, dto.FormatChampagne, board.Entries[2].Format)
	assert.Equal(t, 1, board.Entries[2].Rank)
	assert.Equal(t, 18, *board.Entries[2].PointsTotal)
}

func TestLeaderboardDerivesMissingNet(t *testing.T) {
	svc, store, _ := newTestService(&stubOCR{name: "stub"}, nil)
	require.NoError(t, store.Save(context.Background(), "legacy", dto.TeamScore{
		TeamID:       "t1",
		TeamName:     "Imported",
		Format:       dto.FormatStraight,
		HoleCount:    9,
		GrossTotal:   40,
		TeamHandicap: 3,
	}))

	board, err := svc.Leaderboard(context.Background(), "legacy")

	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	require.NotNil(t, board.Entries[0].NetScore)
	assert.Equal(t, 37, *board.Entries[0].NetScore)
	assert.Nil(t, board.Entries[0].PointsTotal)
}

func TestDeleteTeam(t *testing.T) {
	svc, _, _ := newTestService(&stubOCR{name: "stub"}, nil)
	seedLeaderboard(t, svc)

	board, err := svc.Leaderboard(context.Background(), "cup")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTeam(context.Background(), "cup", board.Entries[0].TeamID))
	assert.ErrorIs(t, svc.DeleteTeam(context.Background(), "cup", board.Entries[0].TeamID), dto.ErrTeamNotFound)

	board, err = svc.Leaderboard(context.Background(), "cup")
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, "Aces", board.Entries[0].TeamName)
	assert.Equal(t, 1, board.Entries[0].Rank)
}

func TestExportLeaderboardXLSX(t *testing.T) {
	svc, _, _ := newTestService(&stubOCR{name: "stub"}, nil)
	seedLeaderboard(t, svc)

	data, err := svc.ExportLeaderboardXLSX(context.Background(), "cup")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{straightSheet, champagneSheet}, f.GetSheetList())

	rows, err := f.GetRows(straightSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Rank", "Team", "Gross", "Team Handicap", "Net"},
		{"1", "Birdies", "36", "2", "34"},
		{"2", "Aces", "36", "0", "36"},
	}, rows)

	rows, err = f.GetRows(champagneSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Rank", "Team", "Gross", "Team Handicap", "Points"},
		{"1", "Condors", "36", "0", "18"},
	}, rows)

	_, err = svc.ExportLeaderboardXLSX(context.Background(), "missing")
	assert.ErrorIs(t, err, dto.ErrEventNotFound)
}

func TestDecodeTeamQR(t *testing.T) {
	label, err := DecodeTeamQR(qrImage(t, "team: Fairway Five"))
	require.NoError(t, err)
	assert.Equal(t, "Fairway Five", label)

	_, err = DecodeTeamQR(whiteImage())
	assert.Error(t, err)
}

func TestTeamLabelFromQR(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "TEAM:Eagles", want: "Eagles"},
		{in: "  Eagles  ", want: "Eagles"},
		{in: "TEAM:", wantErr: true},
		{in: "https://example.com/a/very/long/url/that/is/not/a/team/label", wantErr: true},
	}
	for _, tt := range tests {
		got, err := teamLabelFromQR(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestMemoryTeamStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTeamStore()

	require.NoError(t, store.Save(ctx, "e1", dto.TeamScore{TeamID: "b", TeamName: "first"}))
	require.NoError(t, store.Save(ctx, "e1", dto.TeamScore{TeamID: "a"}))
	require.NoError(t, store.Save(ctx, "e1", dto.TeamScore{TeamID: "b", TeamName: "second"}))
	require.NoError(t, store.Save(ctx, "e2", dto.TeamScore{TeamID: "c"}))

	teams, err := store.List(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "a", teams[0].TeamID)
	assert.Equal(t, "second", teams[1].TeamName)

	empty, err := store.List(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)

	assert.ErrorIs(t, store.Delete(ctx, "e2", "a"), dto.ErrTeamNotFound)
	assert.NoError(t, store.Delete(ctx, "e2", "c"))
}
