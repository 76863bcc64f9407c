package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/agrovision/academy/internal/ui/theme"
)

const bannerArt = `
 ╔═╗╔═╗╦═╗╔═╗╦  ╦╦╔═╗╦╔═╗╔╗╔
 ╠═╣║ ╦╠╦╝║ ║╚╗╔╝║╚═╗║║ ║║║║
 ╩ ╩╚═╝╩╚═╚═╝ ╚╝ ╩╚═╝╩╚═╝╝╚╝
        A C A D E M Y`

const bannerCompact = "A G R O V I S I O N"

// RenderBanner returns the AgroVision banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 40 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 40 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
