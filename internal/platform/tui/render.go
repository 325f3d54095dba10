package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/isoworld/internal/core"
)

var (
	plainStyle = lipgloss.NewStyle()
	hudStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	styles     = make(map[core.Color]lipgloss.Style)
)

// styleFor returns the cached lipgloss style for an engine color.
func styleFor(c core.Color) lipgloss.Style {
	if st, ok := styles[c]; ok {
		return st
	}
	st := plainStyle
	if code := c.ANSI(); code != "" {
		st = lipgloss.NewStyle().Foreground(lipgloss.Color(code))
	}
	styles[c] = st
	return st
}

// RenderScreen converts a Screen buffer to a styled string for display.
// The first row is the HUD. Runs of same-colored cells share one style
// to keep escape sequences short.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}
		if y == 0 {
			sb.WriteString(hudStyle.Render(s.Row(0)))
			continue
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color

			var run strings.Builder
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}

			sb.WriteString(styleFor(color).Render(run.String()))
		}
	}
	return sb.String()
}
