// Package leaderboard ranks the learner against their village.
package leaderboard

import "sort"

// YouName marks the learner's own row.
const YouName = "You"

// Entry is one leaderboard row.
type Entry struct {
	Rank    int    `json:"rank"`
	Name    string `json:"name"`
	Village string `json:"village"`
	XP      int    `json:"xp"`
	Badge   string `json:"badge"`
	You     bool   `json:"you"`
}

var medals = [...]string{"🏆", "🥈", "🥉"}

// Seed returns the other farmers of the village panchayat.
func Seed() []Entry {
	return []Entry{
		{Name: "Ramesh Kumar", Village: "Rampur", XP: 1250},
		{Name: "Suresh Patel", Village: "Rampur", XP: 980},
		{Name: "Anita Devi", Village: "Rampur", XP: 850},
		{Name: "Vikram Singh", Village: "Rampur", XP: 0},
	}
}

// Build ranks others plus the learner's row by XP, highest first. The
// learner's row is seeded fourth and ties keep seed order.
func Build(others []Entry, points int) []Entry {
	you := Entry{Name: YouName, Village: "Rampur", XP: points, You: true}
	if len(others) > 0 {
		you.Village = others[0].Village
	}

	rows := make([]Entry, 0, len(others)+1)
	for i, e := range others {
		if i == len(medals) {
			rows = append(rows, you)
		}
		e.You = false
		rows = append(rows, e)
	}
	if len(others) <= len(medals) {
		rows = append(rows, you)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].XP > rows[j].XP
	})
	for i := range rows {
		rows[i].Rank = i + 1
		switch {
		case i < len(medals):
			rows[i].Badge = medals[i]
		case rows[i].You:
			rows[i].Badge = "⭐"
		default:
			rows[i].Badge = ""
		}
	}
	return rows
}

// Position returns the learner's rank in rows, or 0.
func Position(rows []Entry) int {
	for _, r := range rows {
		if r.You {
			return r.Rank
		}
	}
	return 0
}
