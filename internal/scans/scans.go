// Package scans awards points for the steps of the crop-scan form. The
// diagnosis itself happens elsewhere; only the fact that a step was reached
// matters here.
package scans

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrovision/academy/internal/rewards"
)

// Step is a stage of the scan form.
type Step string

const (
	StepBegin    Step = "begin"
	StepPhotos   Step = "photos"
	StepLocation Step = "location"
	StepProfile  Step = "profile"
	StepSubmit   Step = "submit"
)

var ErrUnknownStep = errors.New("unknown scan step")

type stepAward struct {
	points  int
	message string
}

var awards = map[Step]stepAward{
	StepBegin:    {5, "Started new scan!"},
	StepPhotos:   {20, "📸 Photos uploaded!"},
	StepLocation: {10, "📍 Location added!"},
	StepProfile:  {15, "👤 Profile completed!"},
	StepSubmit:   {30, "🎯 Analysis started!"},
}

// Steps lists the steps in form order.
func Steps() []Step {
	return []Step{StepBegin, StepPhotos, StepLocation, StepProfile, StepSubmit}
}

// ParseStep validates a step name.
func ParseStep(s string) (Step, error) {
	step := Step(s)
	if _, ok := awards[step]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStep, s)
	}
	return step, nil
}

// Accountant is the subset of the rewards accountant the flow needs.
type Accountant interface {
	AwardPoints(ctx context.Context, delta int, message string) int
	CheckAndAwardBadge(ctx context.Context, id, name string, cond bool) bool
	RecordScan(ctx context.Context) int
}

// Result reports the effect of a step.
type Result struct {
	Step       Step `json:"step"`
	Points     int  `json:"points"`
	TotalScans int  `json:"total_scans,omitempty"`
}

// Flow applies scan step awards.
type Flow struct {
	acct Accountant
}

func NewFlow(acct Accountant) *Flow {
	return &Flow{acct: acct}
}

// Apply awards the points for step. Photos also earn the photographer badge;
// submitting counts a completed scan.
func (f *Flow) Apply(ctx context.Context, step Step) (Result, error) {
	a, ok := awards[step]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownStep, step)
	}
	res := Result{Step: step}
	res.Points = f.acct.AwardPoints(ctx, a.points, a.message)

	switch step {
	case StepPhotos:
		f.acct.CheckAndAwardBadge(ctx, rewards.BadgePhotographer.ID, rewards.BadgePhotographer.Name, true)
	case StepSubmit:
		res.TotalScans = f.acct.RecordScan(ctx)
	}
	return res, nil
}
