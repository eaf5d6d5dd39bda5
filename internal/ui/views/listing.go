package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/PIN-11-07/Turboo/internal/domain"
	"github.com/PIN-11-07/Turboo/internal/feed"
	"github.com/PIN-11-07/Turboo/internal/listings"
)

// ListingRenderer handles listing rendering
type ListingRenderer struct {
	styles     *Styles
	showImages bool
}

// NewListingRenderer creates a new listing renderer
func NewListingRenderer(styles *Styles, showImages bool) *ListingRenderer {
	return &ListingRenderer{
		styles:     styles,
		showImages: showImages,
	}
}

// RenderRow renders one feed row
func (r *ListingRenderer) RenderRow(l domain.ListingSummary, isSelected bool, searchQuery string, width int) string {
	var parts []string

	if isSelected {
		parts = append(parts, r.styles.Focused.Render("▶ "))
	} else {
		parts = append(parts, "  ")
	}

	titleStyle := lipgloss.NewStyle()
	if isSelected {
		titleStyle = r.styles.Focused.Bold(true)
	}
	title := strings.TrimSpace(l.Title)
	if title == "" {
		title = listings.NotAvailable
	}
	if q := feed.NormalizeQuery(searchQuery); q != "" {
		parts = append(parts, r.highlightMatch(title, q, r.styles.Highlight, titleStyle))
	} else {
		parts = append(parts, titleStyle.Render(title))
	}

	parts = append(parts, "  ", r.styles.Price.Render(listings.FormatPrice(l.Price)))

	if sub := listings.Subtitle(l); sub != "" {
		parts = append(parts, "  ", r.styles.Subtitle.Render(sub))
	}
	if loc := strings.TrimSpace(l.Location); loc != "" {
		parts = append(parts, "  ", r.styles.Dim.Render(loc))
	}

	line := strings.Join(parts, "")
	if width > 4 && lipgloss.Width(line) > width-4 {
		line = lipgloss.NewStyle().MaxWidth(width - 4).Render(line)
	}
	return line
}

// RenderDetail renders the full listing. The same text is shown in the pager.
func (r *ListingRenderer) RenderDetail(l *domain.Listing) string {
	var b strings.Builder

	title := strings.TrimSpace(l.Title)
	if title == "" {
		title = listings.NotAvailable
	}
	b.WriteString(r.styles.Title.Render(title))
	b.WriteString("\n")
	if sub := listings.Subtitle(l.ListingSummary); sub != "" {
		b.WriteString(r.styles.Subtitle.Render(sub))
		b.WriteString("\n")
	}
	b.WriteString(r.styles.Price.Render(listings.FormatPrice(l.Price)))
	b.WriteString("\n")

	b.WriteString(r.styles.Section.Render("Details"))
	b.WriteString("\n")
	for _, attr := range listings.Attributes(l.ListingSummary) {
		b.WriteString(fmt.Sprintf("  %s%s\n", r.styles.Label.Render(attr.Label), attr.Value))
	}
	b.WriteString(fmt.Sprintf("  %s%s\n", r.styles.Label.Render("Location"), listings.FormatText(l.Location)))
	b.WriteString(fmt.Sprintf("  %s%s\n", r.styles.Label.Render("Published"), listings.FormatDate(l.CreatedAt)))

	b.WriteString(r.styles.Section.Render("Description"))
	b.WriteString("\n")
	if desc := strings.TrimSpace(l.Description); desc != "" {
		for _, line := range strings.Split(desc, "\n") {
			b.WriteString("  " + line + "\n")
		}
	} else {
		b.WriteString("  " + r.styles.Dim.Render("No description.") + "\n")
	}

	if r.showImages && len(l.Images) > 0 {
		b.WriteString(r.styles.Section.Render(fmt.Sprintf("Images (%d)", len(l.Images))))
		b.WriteString("\n")
		for _, uri := range l.Images {
			b.WriteString("  " + r.styles.Dim.Render(uri) + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// highlightMatch highlights matching text within a string
func (r *ListingRenderer) highlightMatch(text, query string, highlightStyle, normalStyle lipgloss.Style) string {
	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)

	index := strings.Index(lowerText, lowerQuery)
	// Lowercasing can change byte lengths outside ASCII
	if index == -1 || len(lowerText) != len(text) {
		return normalStyle.Render(text)
	}

	// Split the text into parts
	before := text[:index]
	match := text[index : index+len(lowerQuery)]
	after := text[index+len(lowerQuery):]

	var result []string
	if before != "" {
		result = append(result, normalStyle.Render(before))
	}
	result = append(result, highlightStyle.Render(match))
	if after != "" {
		result = append(result, normalStyle.Render(after))
	}
	return strings.Join(result, "")
}
