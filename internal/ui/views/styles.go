package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title            lipgloss.Style
	Subtitle         lipgloss.Style
	Confirm          lipgloss.Style
	Dim              lipgloss.Style
	Status           lipgloss.Style
	Filter           lipgloss.Style
	Price            lipgloss.Style
	Label            lipgloss.Style
	Section          lipgloss.Style
	Focused          lipgloss.Style
	Avatar           lipgloss.Style
	PopupBox         lipgloss.Style
	Help             lipgloss.Style
	Main             lipgloss.Style
	Scroll           lipgloss.Style
	Highlight        lipgloss.Style
	StatusError      lipgloss.Style
	StatusLoading    lipgloss.Style
	StatusSuccess    lipgloss.Style
	StatusRefreshing lipgloss.Style
	SelectionBg      lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Confirm:  lipgloss.NewStyle().Bold(true),
		Dim:      lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Filter:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Price:   lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Width(14),
		Section: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1),
		Focused: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Avatar: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("99")).
			Padding(0, 1),
		PopupBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1, 2).
			BorderForeground(lipgloss.Color("241")),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Scroll:           lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:        lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		StatusError:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		StatusRefreshing: lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // cyan
		SelectionBg:      lipgloss.NewStyle().Background(lipgloss.Color("238")),
	}
}
