package home

import (
	"charm.land/lipgloss/v2"

	"github.com/agrovision/academy/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotSeed    MascotVariant = iota // Nothing completed yet
	MascotGrowing                      // Course in progress
	MascotHarvest                      // Every node completed
)

const mascotSeed = `
   .
  (_)
 ~~~~~`

const mascotGrowing = `
  \|/
  \|/
 ~~|~~`

const mascotHarvest = `
 \\|//
 \\|//
 \\|//
 ~~|~~`

// variantFor picks the mascot for a completed-node count.
func variantFor(completed, total int) MascotVariant {
	switch {
	case completed == 0:
		return MascotSeed
	case completed >= total:
		return MascotHarvest
	default:
		return MascotGrowing
	}
}

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(v MascotVariant) string {
	art := mascotGrowing
	fg := theme.Primary

	switch v {
	case MascotSeed:
		art = mascotSeed
		fg = theme.Accent
	case MascotHarvest:
		art = mascotHarvest
		fg = theme.Secondary
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
