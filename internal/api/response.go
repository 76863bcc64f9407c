package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrovision/academy/internal/calibration"
	"github.com/agrovision/academy/internal/missions"
	"github.com/agrovision/academy/internal/scans"
	"github.com/agrovision/academy/internal/session"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{Message: msg, Code: code},
	})
}

var errorTable = []struct {
	err    error
	status int
	code   string
}{
	{session.ErrUnknownNode, http.StatusNotFound, "unknown_node"},
	{missions.ErrUnknownMission, http.StatusNotFound, "unknown_mission"},
	{session.ErrLocked, http.StatusForbidden, "locked"},
	{session.ErrNoSession, http.StatusConflict, "no_session"},
	{session.ErrNotPresenting, http.StatusConflict, "not_presenting"},
	{session.ErrAlreadyAnswered, http.StatusConflict, "already_answered"},
	{session.ErrNotTextLesson, http.StatusConflict, "not_text_lesson"},
	{missions.ErrAlreadyClaimed, http.StatusConflict, "already_claimed"},
	{session.ErrUnknownOption, http.StatusBadRequest, "unknown_option"},
	{scans.ErrUnknownStep, http.StatusBadRequest, "unknown_step"},
	{calibration.ErrIncomplete, http.StatusBadRequest, "calibration_incomplete"},
	{calibration.ErrInvalidAnswer, http.StatusBadRequest, "invalid_answer"},
}

// respondEngineError maps engine errors to HTTP statuses.
func respondEngineError(c *gin.Context, err error) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			respondError(c, e.status, e.code, err)
			return
		}
	}
	respondError(c, http.StatusInternalServerError, "internal", err)
}
