package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay renders a popup centered on top of a greyed out main content
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	styledPopup := popupStyle.Render(popupContent)

	modalW := lipgloss.Width(styledPopup)
	modalH := lipgloss.Height(styledPopup)
	x := (width - modalW) / 2
	y := (height - modalH) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	baseLines := strings.Split(stripANSI(mainContent), "\n")
	for len(baseLines) < height {
		baseLines = append(baseLines, "")
	}
	popupLines := strings.Split(styledPopup, "\n")

	grey := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	out := make([]string, len(baseLines))
	for i, line := range baseLines {
		row := i - y
		if row < 0 || row >= len(popupLines) {
			out[i] = grey.Render(line)
			continue
		}
		// Splice the popup line into the plain base line
		runes := []rune(line)
		for len(runes) < x+modalW {
			runes = append(runes, ' ')
		}
		left := string(runes[:x])
		right := string(runes[x+modalW:])
		out[i] = grey.Render(left) + popupLines[row] + grey.Render(right)
	}
	return strings.Join(out, "\n")
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}
