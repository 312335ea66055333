package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/scorecard-ocr/dto"
)

var errBadRequest = errors.New("invalid request")

// statusFor maps service errors onto HTTP status codes and error codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, dto.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"
	case errors.Is(err, errBadRequest),
		errors.Is(err, dto.ErrFileRequired),
		errors.Is(err, dto.ErrUnsupportedFileType),
		errors.Is(err, dto.ErrInvalidFormat),
		errors.Is(err, dto.ErrInvalidHoleCount),
		errors.Is(err, dto.ErrEmptyRoster):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, dto.ErrEventNotFound), errors.Is(err, dto.ErrTeamNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, dto.ErrNoTextExtracted):
		return http.StatusUnprocessableEntity, "NO_TEXT_EXTRACTED"
	case errors.Is(err, dto.ErrOCRUnavailable):
		return http.StatusServiceUnavailable, "OCR_UNAVAILABLE"
	}
	return http.StatusInternalServerError, "PROCESSING_FAILED"
}

// sendError sends a structured error response
func (h *ScorecardHandler) sendError(c *gin.Context, err error) {
	status, code := statusFor(err)

	entry := h.log.WithError(err).WithField("path", c.FullPath())
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	c.JSON(status, dto.ErrorResponse{
		Error:   code,
		Message: err.Error(),
		Code:    status,
	})
}
