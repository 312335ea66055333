package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Aashish23092/scorecard-ocr/dto"
	"github.com/Aashish23092/scorecard-ocr/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ScorecardHandler struct {
	scorecardService *service.ScorecardService
	maxFileSize      int64
	log              *logrus.Logger
}

func NewScorecardHandler(scorecardService *service.ScorecardService, maxFileSize int64, log *logrus.Logger) *ScorecardHandler {
	return &ScorecardHandler{
		scorecardService: scorecardService,
		maxFileSize:      maxFileSize,
		log:              log,
	}
}

// RegisterRoutes mounts the scorecard and event routes. Upload routes run
// behind uploadLimit.
func (h *ScorecardHandler) RegisterRoutes(api *gin.RouterGroup, uploadLimit gin.HandlerFunc) {
	api.POST("/scorecards/interpret", uploadLimit, h.Interpret)

	events := api.Group("/events/:eventID")
	{
		events.POST("/scorecards", uploadLimit, h.SubmitScorecard)
		events.POST("/scorecards/batch", uploadLimit, h.SubmitBatch)
		events.POST("/teams", h.ScoreRoster)
		events.DELETE("/teams/:teamID", h.DeleteTeam)
		events.GET("/leaderboard", h.Leaderboard)
		events.GET("/leaderboard.xlsx", h.ExportLeaderboard)
	}
}

// Interpret handles POST /scorecards/interpret
func (h *ScorecardHandler) Interpret(c *gin.Context) {
	req, err := h.bindUpload(c, false)
	if err != nil {
		h.sendError(c, err)
		return
	}

	upload, err := readUpload(req.File)
	if err != nil {
		h.sendError(c, err)
		return
	}

	result, err := h.scorecardService.Interpret(c.Request.Context(), upload, req.HoleCount)
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SubmitScorecard handles POST /events/:eventID/scorecards
func (h *ScorecardHandler) SubmitScorecard(c *gin.Context) {
	req, err := h.bindUpload(c, true)
	if err != nil {
		h.sendError(c, err)
		return
	}
	format, _ := dto.ParseFormat(req.Format)

	upload, err := readUpload(req.File)
	if err != nil {
		h.sendError(c, err)
		return
	}

	resp, err := h.scorecardService.SubmitScorecard(c.Request.Context(), c.Param("eventID"), format, req.TeamName, upload)
	if err != nil {
		h.sendError(c, err)
		return
	}

	status := http.StatusCreated
	if resp.NeedsManualEntry {
		status = http.StatusOK
	}
	c.JSON(status, resp)
}

// SubmitBatch handles POST /events/:eventID/scorecards/batch
func (h *ScorecardHandler) SubmitBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.sendError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	files := form.File["files[]"]
	if len(files) == 0 {
		h.sendError(c, dto.ErrFileRequired)
		return
	}
	format, err := dto.ParseFormat(c.PostForm("format"))
	if err != nil {
		h.sendError(c, err)
		return
	}

	uploads := make([]service.Upload, 0, len(files))
	for _, file := range files {
		if err := dto.ValidateUpload(file.Filename, file.Size, h.maxFileSize); err != nil {
			h.sendError(c, fmt.Errorf("%s: %w", file.Filename, err))
			return
		}
		upload, err := readUpload(file)
		if err != nil {
			h.sendError(c, err)
			return
		}
		uploads = append(uploads, upload)
	}

	h.log.WithFields(logrus.Fields{
		"event_id": c.Param("eventID"),
		"files":    len(uploads),
	}).Info("Processing scorecard batch")

	c.JSON(http.StatusOK, h.scorecardService.ProcessBatch(c.Request.Context(), c.Param("eventID"), format, uploads))
}

// ScoreRoster handles POST /events/:eventID/teams
func (h *ScorecardHandler) ScoreRoster(c *gin.Context) {
	var req dto.RosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.sendError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	team, err := h.scorecardService.ScoreRoster(c.Request.Context(), c.Param("eventID"), req)
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

// DeleteTeam handles DELETE /events/:eventID/teams/:teamID
func (h *ScorecardHandler) DeleteTeam(c *gin.Context) {
	if err := h.scorecardService.DeleteTeam(c.Request.Context(), c.Param("eventID"), c.Param("teamID")); err != nil {
		h.sendError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Leaderboard handles GET /events/:eventID/leaderboard
func (h *ScorecardHandler) Leaderboard(c *gin.Context) {
	board, err := h.scorecardService.Leaderboard(c.Request.Context(), c.Param("eventID"))
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// ExportLeaderboard handles GET /events/:eventID/leaderboard.xlsx
func (h *ScorecardHandler) ExportLeaderboard(c *gin.Context) {
	eventID := c.Param("eventID")
	data, err := h.scorecardService.ExportLeaderboardXLSX(c.Request.Context(), eventID)
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-leaderboard.xlsx"`, eventID))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *ScorecardHandler) bindUpload(c *gin.Context, requireFormat bool) (*dto.ScorecardUploadRequest, error) {
	file, err := c.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	req := &dto.ScorecardUploadRequest{
		File:     file,
		Format:   c.PostForm("format"),
		TeamName: c.PostForm("team_name"),
	}
	if raw := c.PostForm("hole_count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: hole_count %q", dto.ErrInvalidHoleCount, raw)
		}
		req.HoleCount = n
	}

	if err := req.Validate(h.maxFileSize, requireFormat); err != nil {
		return nil, err
	}
	return req, nil
}

func readUpload(file *multipart.FileHeader) (service.Upload, error) {
	f, err := file.Open()
	if err != nil {
		return service.Upload{}, fmt.Errorf("failed to open file %s: %w", file.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return service.Upload{}, fmt.Errorf("failed to read file %s: %w", file.Filename, err)
	}
	return service.Upload{Filename: file.Filename, Data: data}, nil
}
