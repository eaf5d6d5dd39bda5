package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/PIN-11-07/Turboo/internal/domain"
	"github.com/PIN-11-07/Turboo/internal/feed"
	"github.com/PIN-11-07/Turboo/internal/listings"
)

// Empty feed states
const (
	MsgNoMatches  = "No listings match your search."
	MsgNoListings = "No listings available right now."
)

// Screen identifies what the main area shows
type Screen int

const (
	ScreenFeed Screen = iota
	ScreenDetail
	ScreenLogin
	ScreenPublish
	ScreenProfile
)

// StatusKind selects the status line style
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
)

// Field is one labelled input of a form
type Field struct {
	Label   string
	Input   string
	Focused bool
	Picker  bool
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int
	Screen Screen

	StatusMessage string
	StatusKind    StatusKind
	SignedInAs    string
	HelpView      string
	Confirm       string
	Spinner       string

	// Feed
	Items         []domain.ListingSummary
	SelectedIndex int
	ViewportStart int
	ViewportEnd   int
	Phase         feed.Phase
	HasMore       bool
	ErrorMessage  string
	SearchQuery   string
	Searching     bool
	SearchInput   string

	// Detail
	Detail        *domain.Listing
	DetailLoading bool
	DetailError   string

	// Login and publish
	FormTitle   string
	Fields      []Field
	FormError   string
	FormMessage string
	FormHint    string
	Submitting  bool

	// Profile
	Profile        *domain.Profile
	ProfileLoading bool
	ProfileError   string
}

// Renderer handles all view rendering
type Renderer struct {
	styles        *Styles
	listingRender *ListingRenderer
	popupRender   *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(showImageURLs bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:        styles,
		listingRender: NewListingRenderer(styles, showImageURLs),
		popupRender:   NewPopupRenderer(styles),
	}
}

// Listings exposes the listing renderer for the pager
func (r *Renderer) Listings() *ListingRenderer { return r.listingRender }

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitleLine(state))
	content.WriteString("\n")

	switch state.Screen {
	case ScreenDetail:
		content.WriteString(r.renderDetail(state))
	case ScreenLogin, ScreenPublish:
		content.WriteString(r.renderForm(state))
	case ScreenProfile:
		content.WriteString(r.renderProfile(state))
	default:
		content.WriteString(r.renderFeed(state))
	}

	if state.StatusMessage != "" {
		content.WriteString("\n")
		content.WriteString(r.renderStatus(state))
	}

	// Push the help to the bottom
	if state.HelpView != "" {
		currentLines := strings.Count(content.String(), "\n") + 1
		availableLines := state.Height - 2
		if availableLines <= 0 {
			availableLines = 22
		}
		helpLines := lipgloss.Height(state.HelpView)
		if padding := availableLines - currentLines - helpLines; padding > 0 {
			content.WriteString(strings.Repeat("\n", padding))
		}
		content.WriteString("\n")
		content.WriteString(r.styles.Help.Render(state.HelpView))
	}

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	finalContent := mainStyle.Render(content.String())

	if state.Confirm != "" {
		popup := r.styles.Confirm.Render(state.Confirm) + "\n\n" + r.styles.Dim.Render("y confirm • n cancel")
		return r.popupRender.RenderPopupOverlay(finalContent, popup, state.Height, state.Width, r.styles.PopupBox)
	}
	return finalContent
}

func (r *Renderer) renderTitleLine(state ViewState) string {
	logo := r.styles.Title.Render("turboo")

	var indicators []string
	if state.Spinner != "" {
		switch {
		case state.Phase == feed.PhaseRefresh:
			indicators = append(indicators, r.styles.StatusRefreshing.Render(state.Spinner+" Refreshing"))
		case state.Phase == feed.PhaseLoadMore:
			indicators = append(indicators, r.styles.StatusLoading.Render(state.Spinner+" Loading more"))
		case state.Phase == feed.PhaseInitial:
			indicators = append(indicators, r.styles.StatusLoading.Render(state.Spinner+" Loading"))
		case state.Submitting || state.DetailLoading || state.ProfileLoading:
			indicators = append(indicators, r.styles.StatusLoading.Render(state.Spinner))
		}
	}
	if state.SearchQuery != "" && !state.Searching {
		indicators = append(indicators, r.styles.Filter.Render(fmt.Sprintf("[Search: %s]", state.SearchQuery)))
	}
	if state.SignedInAs != "" {
		indicators = append(indicators, r.styles.Dim.Render(state.SignedInAs))
	}
	if len(indicators) == 0 {
		return logo
	}

	rightContent := strings.Join(indicators, "  ")
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	paddingWidth := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if paddingWidth > 0 {
		return logo + strings.Repeat(" ", paddingWidth) + rightContent
	}
	return logo + "  " + rightContent
}

func (r *Renderer) renderStatus(state ViewState) string {
	switch state.StatusKind {
	case StatusError:
		return r.styles.StatusError.Render(state.StatusMessage)
	case StatusSuccess:
		return r.styles.StatusSuccess.Render(state.StatusMessage)
	}
	return r.styles.StatusLoading.Render(state.StatusMessage)
}

func (r *Renderer) renderFeed(state ViewState) string {
	var lines []string

	if state.Searching {
		lines = append(lines, state.SearchInput, "")
	}

	switch {
	case len(state.Items) > 0:
		lines = append(lines, r.renderListingList(state))
		if !state.HasMore && feed.NormalizeQuery(state.SearchQuery) == "" {
			lines = append(lines, r.styles.Dim.Render("End of listings"))
		}
	case state.Phase == feed.PhaseInitial:
		lines = append(lines, r.styles.Dim.Render("Loading listings..."))
	case feed.NormalizeQuery(state.SearchQuery) != "":
		lines = append(lines, r.styles.Dim.Render(MsgNoMatches))
	case state.ErrorMessage == "":
		lines = append(lines, r.styles.Dim.Render(MsgNoListings))
	}

	if state.ErrorMessage != "" {
		lines = append(lines, "", r.styles.StatusError.Render(state.ErrorMessage))
	}
	return strings.Join(lines, "\n")
}

// renderListingList renders the visible window of the feed
func (r *Renderer) renderListingList(state ViewState) string {
	var lines []string

	if state.ViewportStart > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", state.ViewportStart)))
	}

	end := state.ViewportEnd
	if end > len(state.Items) || end <= state.ViewportStart {
		end = len(state.Items)
	}
	for i := state.ViewportStart; i < end; i++ {
		lines = append(lines, r.listingRender.RenderRow(state.Items[i], i == state.SelectedIndex, state.SearchQuery, state.Width))
	}

	if below := len(state.Items) - end; below > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", below)))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderDetail(state ViewState) string {
	if state.Detail == nil {
		if state.DetailLoading {
			return r.styles.Dim.Render("Loading listing...")
		}
		if state.DetailError != "" {
			return r.styles.StatusError.Render(state.DetailError)
		}
		return r.styles.Dim.Render("Listing not found.")
	}

	out := r.listingRender.RenderDetail(state.Detail)
	if state.DetailError != "" {
		out += "\n\n" + r.styles.StatusError.Render(state.DetailError)
	}
	return out
}

func (r *Renderer) renderForm(state ViewState) string {
	var b strings.Builder
	b.WriteString(r.styles.Section.Render(state.FormTitle))
	b.WriteString("\n\n")

	for _, f := range state.Fields {
		label := r.styles.Label.Render(f.Label)
		if f.Focused {
			label = r.styles.Label.Foreground(lipgloss.Color("212")).Render(f.Label)
		}
		input := f.Input
		if f.Picker {
			input = fmt.Sprintf("‹ %s ›", input)
			if f.Focused {
				input = r.styles.Focused.Render(input)
			}
		}
		b.WriteString(fmt.Sprintf("%s %s\n", label, input))
	}

	if state.FormError != "" {
		b.WriteString("\n")
		b.WriteString(r.styles.StatusError.Render(state.FormError))
		b.WriteString("\n")
	}
	if state.FormMessage != "" {
		b.WriteString("\n")
		b.WriteString(r.styles.StatusSuccess.Render(state.FormMessage))
		b.WriteString("\n")
	}
	if state.FormHint != "" {
		b.WriteString("\n")
		b.WriteString(r.styles.Dim.Render(state.FormHint))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) renderProfile(state ViewState) string {
	if state.Profile == nil {
		if state.ProfileLoading {
			return r.styles.Dim.Render("Loading profile...")
		}
		return r.styles.StatusError.Render(state.ProfileError)
	}

	p := state.Profile
	var b strings.Builder

	name := p.Name
	if name == "" {
		name = listings.NotAvailable
	}
	b.WriteString(r.styles.Avatar.Render(p.AvatarInitial()))
	b.WriteString("  ")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s%s\n", r.styles.Label.Render("Email"), listings.FormatText(p.Email)))
	if p.ProfileImageURL != "" {
		b.WriteString(fmt.Sprintf("  %s%s\n", r.styles.Label.Render("Picture"), r.styles.Dim.Render(p.ProfileImageURL)))
	}

	b.WriteString(r.styles.Section.Render(fmt.Sprintf("My listings (%d)", len(p.Listings))))
	b.WriteString("\n")
	if len(p.Listings) == 0 {
		b.WriteString("  " + r.styles.Dim.Render("You have not published any listings yet."))
	}
	for _, l := range p.Listings {
		b.WriteString(r.listingRender.RenderRow(l, false, "", state.Width))
		b.WriteString("\n")
	}

	if state.ProfileError != "" {
		b.WriteString("\n")
		b.WriteString(r.styles.StatusError.Render(state.ProfileError))
	}
	return strings.TrimRight(b.String(), "\n")
}
