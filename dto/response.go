package dto

import "errors"

// Custom errors
var (
	ErrFileRequired        = errors.New("file is required")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrInvalidFormat       = errors.New("invalid format, expected straight_scramble or champagne_scramble")
	ErrInvalidHoleCount    = errors.New("hole count must be 9, 13, 16 or 18")
	ErrEmptyRoster         = errors.New("at least one player is required")
	ErrEventNotFound       = errors.New("event not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrNoTextExtracted     = errors.New("no text could be extracted from the scorecard")
	ErrOCRUnavailable      = errors.New("OCR provider unavailable")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// SubmissionResponse is returned after a scorecard is submitted to an event.
// TeamScore is nil when nothing could be read and the card needs manual entry.
type SubmissionResponse struct {
	Interpretation   InterpretationResult `json:"interpretation"`
	TeamScore        *TeamScore           `json:"team_score,omitempty"`
	NeedsManualEntry bool                 `json:"needs_manual_entry"`
	ProcessedAt      string               `json:"processed_at"`
}

// BatchItem is the outcome for one file of a batch upload.
type BatchItem struct {
	Filename string              `json:"filename"`
	Result   *SubmissionResponse `json:"result,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// BatchResponse is the outcome of a batch upload, in upload order.
type BatchResponse struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// LeaderboardResponse lists ranked teams, straight group first.
type LeaderboardResponse struct {
	EventID string             `json:"event_id"`
	Entries []LeaderboardEntry `json:"entries"`
}
