// Package session runs one lesson or quiz attempt at a time: presenting
// questions, scoring answers, advancing after a short delay and completing
// the node at the end.
package session

import (
	"context"
	"errors"

	"github.com/agrovision/academy/internal/catalog"
)

var (
	ErrUnknownNode     = errors.New("unknown node")
	ErrLocked          = errors.New("node is locked")
	ErrNoSession       = errors.New("no active session")
	ErrNotPresenting   = errors.New("no question is being presented")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrUnknownOption   = errors.New("unknown option")
	ErrNotTextLesson   = errors.New("session is not a text lesson")
)

// Phase is the state of a session.
type Phase int

const (
	PhaseNotStarted  Phase = iota
	PhasePresenting        // waiting for an answer to the current question
	PhaseAnswered          // answer recorded, advance pending
	PhaseShowingText       // text-only lesson waiting for acknowledgement
	PhaseCompleted         // node completed, showing the result
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhasePresenting:
		return "presenting"
	case PhaseAnswered:
		return "answered"
	case PhaseShowingText:
		return "showing_text"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// AnswerStatus is the outcome of the current question.
type AnswerStatus int

const (
	StatusNone AnswerStatus = iota
	StatusCorrect
	StatusIncorrect
)

func (s AnswerStatus) String() string {
	switch s {
	case StatusCorrect:
		return "correct"
	case StatusIncorrect:
		return "incorrect"
	default:
		return "none"
	}
}

// MarshalText encodes the status by name.
func (s AnswerStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Gate decides whether a node may be started.
type Gate interface {
	IsUnlocked(nodeID string) bool
}

// GateFunc adapts a function to Gate.
type GateFunc func(nodeID string) bool

func (f GateFunc) IsUnlocked(nodeID string) bool { return f(nodeID) }

// Awarder receives the point and completion side effects of a session.
type Awarder interface {
	AwardPoints(ctx context.Context, delta int, message string) int
	CompleteNode(ctx context.Context, nodeID string) bool
}

// Snapshot is a read-only copy of the active session.
type Snapshot struct {
	ID         string            `json:"id"`
	NodeID     string            `json:"node_id"`
	NodeTitle  string            `json:"node_title"`
	Kind       catalog.NodeKind  `json:"kind"`
	Phase      Phase             `json:"phase"`
	Index      int               `json:"index"`
	Total      int               `json:"total"`
	Score      int               `json:"score"`
	Status     AnswerStatus      `json:"status"`
	Texts      []string          `json:"texts,omitempty"`
	Question   *catalog.Question `json:"question,omitempty"`
	ShowResult bool              `json:"show_result"`
}

// Finished reports whether the session reached the result view.
func (s Snapshot) Finished() bool {
	return s.Phase == PhaseCompleted
}
