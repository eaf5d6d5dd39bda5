package ui

import (
	"log"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PIN-11-07/Turboo/internal/domain"
	"github.com/PIN-11-07/Turboo/internal/ui/views"
)

// DetailFailedMessage is shown when the full listing cannot be fetched
const DetailFailedMessage = "Unable to load the listing. Please try again later."

// openDetail shows the selected listing and fetches its full record
func (m *Model) openDetail() tea.Cmd {
	items := m.svc.Feed.Visible()
	idx := m.navigator.GetSelectedIndex()
	if idx < 0 || idx >= len(items) {
		return nil
	}
	row := items[idx]

	m.screen = views.ScreenDetail
	m.detail = &domain.Listing{ListingSummary: row}
	m.detailID = row.ID
	m.detailErr = ""
	if m.svc.Details == nil {
		return nil
	}

	m.detailLoading = true
	details, ctx := m.svc.Details, m.ctx
	return func() tea.Msg {
		l, err := details.Detail(ctx, row.ID)
		return detailMsg{id: row.ID, listing: l, err: err}
	}
}

func (m *Model) handleDetail(msg detailMsg) {
	// The user may have moved on to another listing
	if msg.id != m.detailID {
		return
	}
	m.detailLoading = false

	switch {
	case msg.err != nil:
		log.Printf("UI: detail %s failed: %v", msg.id, msg.err)
		m.detailErr = DetailFailedMessage
	case msg.listing == nil:
		m.detail = nil
	default:
		m.detail = msg.listing
	}
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Back), msg.String() == "backspace":
		m.screen = views.ScreenFeed
		m.detailID = ""
		m.detailLoading = false

	case key.Matches(msg, m.keys.Pager):
		if m.detail == nil {
			return nil
		}
		content := m.renderer.Listings().RenderDetail(m.detail)
		pager := m.pager
		return func() tea.Msg {
			return detailPagerMsg{err: pager.Show(content)}
		}
	}
	return nil
}

func (m *Model) buildDetailView(state *views.ViewState) {
	state.Detail = m.detail
	state.DetailLoading = m.detailLoading
	state.DetailError = m.detailErr
}
