// Package calibration records the farm profile a learner gives before
// starting the academy and turns it into focus units for the course.
package calibration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/agrovision/academy/internal/catalog"
	"github.com/agrovision/academy/internal/logger"
	"github.com/agrovision/academy/internal/store"
)

const (
	// StorageKey holds the JSON profile.
	StorageKey = "calibration"

	MsgComplete = "Calibration Complete!"
	Bonus       = 50
)

var (
	ErrIncomplete    = errors.New("calibration incomplete")
	ErrInvalidAnswer = errors.New("invalid calibration answer")
)

// Field names one calibration question.
type Field string

const (
	FieldSoil       Field = "soil_fertility"
	FieldPests      Field = "pest_attacks"
	FieldIrrigation Field = "irrigation_cost"
)

// Answer values.
const (
	SoilLow             = "low"
	SoilGood            = "good"
	PestsFrequent       = "frequent"
	PestsRare           = "rare"
	IrrigationExpensive = "expensive"
	IrrigationOkay      = "okay"
)

// Choice is one selectable answer.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Question is one calibration prompt with its two choices.
type Question struct {
	Field   Field    `json:"field"`
	Prompt  string   `json:"prompt"`
	Choices []Choice `json:"choices"`
}

// Questions returns the calibration prompts in display order.
func Questions(t catalog.Translations) []Question {
	return []Question{
		{
			Field:  FieldSoil,
			Prompt: t.Lookup("calibrationSoil", "How is your soil fertility?"),
			Choices: []Choice{
				{Value: SoilLow, Label: t.Lookup("calibrationSoilLow", "Low / Poor")},
				{Value: SoilGood, Label: t.Lookup("calibrationSoilGood", "Good / Rich")},
			},
		},
		{
			Field:  FieldPests,
			Prompt: t.Lookup("calibrationPests", "Do you face pest attacks often?"),
			Choices: []Choice{
				{Value: PestsFrequent, Label: t.Lookup("calibrationPestsFrequent", "Yes, frequently")},
				{Value: PestsRare, Label: t.Lookup("calibrationPestsRare", "Rarely")},
			},
		},
		{
			Field:  FieldIrrigation,
			Prompt: t.Lookup("calibrationIrrigation", "Is irrigation water expensive?"),
			Choices: []Choice{
				{Value: IrrigationExpensive, Label: t.Lookup("calibrationIrrigationExpensive", "Yes, very")},
				{Value: IrrigationOkay, Label: t.Lookup("calibrationIrrigationOkay", "No, usually okay")},
			},
		},
	}
}

// Answers holds one value per field. Empty means unanswered.
type Answers struct {
	SoilFertility  string `json:"soil_fertility"`
	PestAttacks    string `json:"pest_attacks"`
	IrrigationCost string `json:"irrigation_cost"`
}

var allowed = map[Field][]string{
	FieldSoil:       {SoilLow, SoilGood},
	FieldPests:      {PestsFrequent, PestsRare},
	FieldIrrigation: {IrrigationExpensive, IrrigationOkay},
}

// Set records value for field.
func (a *Answers) Set(field Field, value string) error {
	opts, ok := allowed[field]
	if !ok {
		return fmt.Errorf("%w: unknown field %q", ErrInvalidAnswer, field)
	}
	valid := false
	for _, v := range opts {
		if v == value {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("%w: %s=%q", ErrInvalidAnswer, field, value)
	}
	switch field {
	case FieldSoil:
		a.SoilFertility = value
	case FieldPests:
		a.PestAttacks = value
	case FieldIrrigation:
		a.IrrigationCost = value
	}
	return nil
}

// Get returns the value recorded for field.
func (a Answers) Get(field Field) string {
	switch field {
	case FieldSoil:
		return a.SoilFertility
	case FieldPests:
		return a.PestAttacks
	case FieldIrrigation:
		return a.IrrigationCost
	}
	return ""
}

// Validate requires every field to hold one of its choices.
func (a Answers) Validate() error {
	var errs []error
	for _, f := range []Field{FieldSoil, FieldPests, FieldIrrigation} {
		v := a.Get(f)
		if v == "" {
			errs = append(errs, fmt.Errorf("%w: %s unanswered", ErrIncomplete, f))
			continue
		}
		var check Answers
		if err := check.Set(f, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FocusUnits maps the answers to the units that address them, in course
// order.
func FocusUnits(a Answers) []string {
	var units []string
	if a.SoilFertility == SoilLow {
		units = append(units, "unit_1", "unit_2")
	}
	if a.PestAttacks == PestsFrequent {
		units = append(units, "unit_3")
	}
	if a.IrrigationCost == IrrigationExpensive {
		units = append(units, "unit_4")
	}
	return units
}

// Profile is a saved calibration.
type Profile struct {
	Answers
	FocusUnits   []string  `json:"focus_units"`
	CalibratedAt time.Time `json:"calibrated_at"`
}

// Result is returned by Submit. Awarded is false on recalibration.
type Result struct {
	Profile Profile `json:"profile"`
	Awarded bool    `json:"awarded"`
}

// Awarder credits the calibration bonus.
type Awarder interface {
	AwardPoints(ctx context.Context, delta int, message string) int
}

// Service stores the learner's profile.
type Service struct {
	mu      sync.Mutex
	kv      store.KV
	awarder Awarder
	log     *logger.Logger
	now     func() time.Time
	profile *Profile
}

// Load reads the saved profile. Missing or malformed data means the learner
// has not calibrated yet.
func Load(ctx context.Context, kv store.KV, awarder Awarder, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{kv: kv, awarder: awarder, log: log, now: time.Now}

	raw, ok, err := kv.Get(ctx, StorageKey)
	switch {
	case err != nil:
		log.Warn("read calibration failed", "error", err)
	case ok:
		var p Profile
		if err := json.Unmarshal([]byte(raw), &p); err != nil || p.Validate() != nil {
			log.Warn("malformed calibration ignored", "error", err)
		} else {
			s.profile = &p
		}
	}
	return s
}

// Profile returns the saved profile, if any.
func (s *Service) Profile() (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return Profile{}, false
	}
	p := *s.profile
	p.FocusUnits = append([]string(nil), p.FocusUnits...)
	return p, true
}

// Submit saves the answers. The first calibration awards the bonus; later
// ones only update the profile.
func (s *Service) Submit(ctx context.Context, a Answers) (Result, error) {
	if err := a.Validate(); err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	first := s.profile == nil
	p := Profile{Answers: a, FocusUnits: FocusUnits(a), CalibratedAt: s.now().UTC()}
	s.profile = &p

	data, err := json.Marshal(p)
	if err == nil {
		err = s.kv.Set(ctx, StorageKey, string(data))
	}
	if err != nil {
		s.log.Warn("persist calibration failed", "error", err)
	}

	if first {
		s.awarder.AwardPoints(ctx, Bonus, MsgComplete)
	}
	out := p
	out.FocusUnits = append([]string(nil), p.FocusUnits...)
	return Result{Profile: out, Awarded: first}, nil
}
