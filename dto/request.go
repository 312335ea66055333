package dto

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

var supportedExtensions = []string{".pdf", ".png", ".jpg", ".jpeg"}

// ScorecardUploadRequest represents a scorecard photo or PDF upload
type ScorecardUploadRequest struct {
	File      *multipart.FileHeader
	Format    string
	TeamName  string
	HoleCount int
}

// Validate performs basic validation on the request
func (r *ScorecardUploadRequest) Validate(maxFileSize int64, requireFormat bool) error {
	if r.File == nil {
		return ErrFileRequired
	}
	if err := ValidateUpload(r.File.Filename, r.File.Size, maxFileSize); err != nil {
		return err
	}
	if requireFormat {
		if _, err := ParseFormat(r.Format); err != nil {
			return err
		}
	}
	if r.HoleCount != 0 && !IsSupportedHoleCount(r.HoleCount) {
		return fmt.Errorf("%w: %d", ErrInvalidHoleCount, r.HoleCount)
	}
	if len(r.TeamName) > 64 {
		return fmt.Errorf("team_name must be at most 64 characters")
	}
	return nil
}

// ValidateUpload checks the file extension and size of an uploaded file.
func ValidateUpload(filename string, size, maxFileSize int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	valid := false
	for _, e := range supportedExtensions {
		if ext == e {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: %q (supported: PDF, PNG, JPG)", ErrUnsupportedFileType, ext)
	}
	if maxFileSize > 0 && size > maxFileSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, size, maxFileSize)
	}
	return nil
}

// IsPDF reports whether the filename has a PDF extension.
func IsPDF(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

// IsSupportedHoleCount reports whether n is one of the event formats we score.
func IsSupportedHoleCount(n int) bool {
	switch n {
	case 9, 13, 16, 18:
		return true
	}
	return false
}

// RosterPlayer is one manually entered player.
type RosterPlayer struct {
	Name       string `json:"name" binding:"required"`
	Handicap   int    `json:"handicap"`
	HoleScores []int  `json:"hole_scores"`
}

// RosterRequest is the manual-entry path used when a scorecard could not be read.
type RosterRequest struct {
	Format    string         `json:"format" binding:"required"`
	TeamName  string         `json:"team_name"`
	HoleCount int            `json:"hole_count"`
	Players   []RosterPlayer `json:"players" binding:"required"`
}

// Validate checks ranges on a manually entered roster
func (r *RosterRequest) Validate() error {
	if _, err := ParseFormat(r.Format); err != nil {
		return err
	}
	if r.HoleCount != 0 && !IsSupportedHoleCount(r.HoleCount) {
		return fmt.Errorf("%w: %d", ErrInvalidHoleCount, r.HoleCount)
	}
	if len(r.Players) == 0 {
		return ErrEmptyRoster
	}
	for i, p := range r.Players {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("player %d: name is required", i+1)
		}
		if p.Handicap < 0 || p.Handicap > 54 {
			return fmt.Errorf("player %d: handicap %d out of range 0-54", i+1, p.Handicap)
		}
		for h, s := range p.HoleScores {
			if s < 0 || s > 20 {
				return fmt.Errorf("player %d hole %d: score %d out of range 0-20", i+1, h+1, s)
			}
		}
	}
	return nil
}
