// Package rewards keeps the learner's point, level, badge and reward-tier
// bookkeeping. All mutations go through the Accountant.
package rewards

import "slices"

// Point awards.
const (
	PointsCorrect      = 5
	PointsWrong        = -3
	PointsNodeComplete = 20
	PointsBadge        = 50
	PointsPerLevel     = 100

	// ScholarEvery awards the scholar badge on every Nth completed node.
	ScholarEvery = 3
)

// Award messages.
const (
	MsgCorrect      = "Correct Answer!"
	MsgWrong        = "Wrong Answer!"
	MsgNodeComplete = "Lesson Completed!"
)

// LevelFor derives the level from a point total. Negative totals count as 0.
func LevelFor(points int) int {
	if points < 0 {
		points = 0
	}
	return points/PointsPerLevel + 1
}

// Badge is a one-time achievement.
type Badge struct {
	ID   string
	Name string
}

// Known badges.
var (
	BadgeScholar      = Badge{ID: "scholar", Name: "Scholar"}
	BadgePhotographer = Badge{ID: "photographer", Name: "Photographer"}
	BadgeFirstScan    = Badge{ID: "first_scan", Name: "First Scan"}
	BadgeExperienced  = Badge{ID: "experienced", Name: "Experienced Farmer"}
	BadgeExpert       = Badge{ID: "expert", Name: "Expert Diagnostician"}
)

// Badges lists every known badge in display order.
var Badges = []Badge{
	BadgeScholar,
	BadgePhotographer,
	BadgeFirstScan,
	BadgeExperienced,
	BadgeExpert,
}

// BadgeName returns the display name of a badge id, or the id itself.
func BadgeName(id string) string {
	for _, b := range Badges {
		if b.ID == id {
			return b.Name
		}
	}
	return id
}

// Tier is a set of nodes whose full completion unlocks a discount.
type Tier struct {
	ID       string
	Name     string
	Nodes    []string
	Discount int
}

// Reached reports whether every tier node is in completed.
func (t Tier) Reached(completed []string) bool {
	for _, id := range t.Nodes {
		if !slices.Contains(completed, id) {
			return false
		}
	}
	return true
}

// DefaultTiers are the unit-completion discounts.
func DefaultTiers() []Tier {
	return []Tier{
		{ID: "unit_4", Name: "Avoiding Harmful Practices", Nodes: []string{"u4_n1", "u4_n2", "u4_n3", "u4_n4"}, Discount: 50},
		{ID: "unit_5", Name: "Grand Review", Nodes: []string{"u5_n1"}, Discount: 100},
	}
}
