package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agrovision/academy/internal/calibration"
	"github.com/agrovision/academy/internal/catalog"
	"github.com/agrovision/academy/internal/progress"
	"github.com/agrovision/academy/internal/rewards"
	"github.com/agrovision/academy/internal/scans"
	"github.com/agrovision/academy/internal/session"
	"github.com/agrovision/academy/internal/store"
)

func healthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

type nodeView struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Kind      catalog.NodeKind `json:"kind"`
	Position  int              `json:"position"`
	Completed bool             `json:"completed"`
	Locked    bool             `json:"locked"`
}

type unitView struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Nodes       []nodeView `json:"nodes"`
}

// GET /api/units
func (s *Server) listUnits(c *gin.Context) {
	cat := s.engine.Catalog()
	units := cat.Units()
	views := make([]unitView, len(units))
	index := make(map[string]int, len(units))
	for i, u := range units {
		views[i] = unitView{ID: u.ID, Title: u.Title, Description: u.Description, Nodes: []nodeView{}}
		index[u.ID] = i
	}
	for _, ns := range s.engine.Path() {
		i := index[ns.UnitID]
		views[i].Nodes = append(views[i].Nodes, nodeView{
			ID:        ns.Node.ID,
			Title:     ns.Node.Title,
			Kind:      ns.Node.Kind,
			Position:  ns.Position,
			Completed: ns.Completed,
			Locked:    ns.Locked,
		})
	}

	resp := gin.H{"units": views}
	if next, ok := s.engine.Next(); ok {
		resp["next"] = next.ID
	}
	c.JSON(http.StatusOK, resp)
}

type progressView struct {
	progress.State
	NextLevelAt int `json:"next_level_at"`
}

func (s *Server) progressView() progressView {
	st := s.engine.State()
	return progressView{State: st, NextLevelAt: st.Level * rewards.PointsPerLevel}
}

// GET /api/progress
func (s *Server) getProgress(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"progress": s.progressView()})
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

// POST /api/progress/reset
func (s *Server) resetProgress(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if !req.Confirm {
		respondError(c, http.StatusBadRequest, "confirmation_required", errors.New("reset must be confirmed"))
		return
	}
	s.engine.Reset(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"progress": s.progressView(), "events": s.drain()})
}

type startRequest struct {
	NodeID string `json:"node_id" binding:"required"`
}

// POST /api/session
func (s *Server) startSession(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	snap, err := s.engine.Start(req.NodeID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": snap})
}

// GET /api/session
func (s *Server) getSession(c *gin.Context) {
	snap, ok := s.engine.Session()
	if !ok {
		respondEngineError(c, session.ErrNoSession)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": snap, "events": s.drain()})
}

// DELETE /api/session
func (s *Server) exitSession(c *gin.Context) {
	if !s.engine.ExitSession() {
		respondEngineError(c, session.ErrNoSession)
		return
	}
	c.Status(http.StatusNoContent)
}

type answerRequest struct {
	OptionID string `json:"option_id"`
	Correct  *bool  `json:"correct"`
}

// POST /api/session/answer
func (s *Server) answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	var (
		snap session.Snapshot
		err  error
	)
	ctx := c.Request.Context()
	switch {
	case req.OptionID != "":
		snap, err = s.engine.AnswerOption(ctx, req.OptionID)
	case req.Correct != nil:
		snap, err = s.engine.Answer(ctx, *req.Correct)
	default:
		respondError(c, http.StatusBadRequest, "bad_request", errors.New("option_id or correct is required"))
		return
	}
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session":          snap,
		"events":           s.drain(),
		"advance_after_ms": s.engine.AdvanceDelay().Milliseconds(),
	})
}

// POST /api/session/acknowledge
func (s *Server) acknowledge(c *gin.Context) {
	snap, err := s.engine.AcknowledgeLesson(c.Request.Context())
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": snap, "events": s.drain()})
}

// GET /api/calibration
func (s *Server) getCalibration(c *gin.Context) {
	resp := gin.H{"questions": s.engine.CalibrationQuestions()}
	if p, ok := s.engine.Calibration(); ok {
		resp["profile"] = p
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/calibration
func (s *Server) calibrate(c *gin.Context) {
	var req calibration.Answers
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	res, err := s.engine.Calibrate(c.Request.Context(), req)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "progress": s.progressView(), "events": s.drain()})
}

// POST /api/scans/:step
func (s *Server) applyScan(c *gin.Context) {
	step, err := scans.ParseStep(c.Param("step"))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	res, err := s.engine.ApplyScan(c.Request.Context(), step)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "progress": s.progressView(), "events": s.drain()})
}

// GET /api/missions
func (s *Server) listMissions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"missions": s.engine.Missions()})
}

// POST /api/missions/:id/claim
func (s *Server) claimMission(c *gin.Context) {
	m, err := s.engine.ClaimMission(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mission": m, "events": s.drain()})
}

// GET /api/leaderboard
func (s *Server) leaderboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"leaderboard": s.engine.Leaderboard()})
}

type eventView struct {
	Sequence  int64  `json:"sequence"`
	Timestamp string `json:"timestamp"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Delta     int    `json:"delta,omitempty"`
	Points    int    `json:"points"`
	Level     int    `json:"level"`
	BadgeID   string `json:"badge_id,omitempty"`
	TierID    string `json:"tier_id,omitempty"`
	Discount  int    `json:"discount,omitempty"`
}

// GET /api/events?limit=&kind=&before=
func (s *Server) listEvents(c *gin.Context) {
	opts := store.QueryOpts{Limit: 50, Kind: c.Query("kind")}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(c, http.StatusBadRequest, "bad_request", errors.New("limit must be a non-negative integer"))
			return
		}
		opts.Limit = n
	}
	if v := c.Query("before"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "bad_request", errors.New("before must be an integer"))
			return
		}
		opts.Before = n
	}

	recs, err := s.engine.History(c.Request.Context(), opts)
	if err != nil {
		s.log.Error("query events failed", "error", err)
		respondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	views := make([]eventView, len(recs))
	for i, r := range recs {
		views[i] = eventView{
			Sequence:  r.Sequence,
			Timestamp: r.Timestamp.UTC().Format(time.RFC3339),
			Kind:      r.Kind,
			Message:   r.Message,
			Delta:     r.Delta,
			Points:    r.Points,
			Level:     r.Level,
			BadgeID:   r.BadgeID,
			TierID:    r.TierID,
			Discount:  r.Discount,
		}
	}
	c.JSON(http.StatusOK, gin.H{"events": views})
}

func (s *Server) drain() []rewards.Event {
	evs := s.engine.Drain()
	if evs == nil {
		return []rewards.Event{}
	}
	return evs
}
