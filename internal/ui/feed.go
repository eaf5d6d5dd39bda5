package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PIN-11-07/Turboo/internal/feed"
	"github.com/PIN-11-07/Turboo/internal/ui/views"
)

// startFeed begins a feed phase and returns the command fetching it.
// It returns nil when the phase guard drops the request.
func (m *Model) startFeed(phase feed.Phase) tea.Cmd {
	if m.svc.Feed == nil {
		return nil
	}
	req, ok := m.svc.Feed.Begin(phase)
	if !ok {
		return nil
	}

	f, ctx := m.svc.Feed, m.ctx
	return func() tea.Msg {
		rows, err := f.Fetch(ctx, req)
		return feedPageMsg{req: req, rows: rows, err: err}
	}
}

// handleFeedPage applies a finished fetch on the update goroutine
func (m *Model) handleFeedPage(msg feedPageMsg) tea.Cmd {
	m.svc.Feed.Complete(msg.req, msg.rows, msg.err)
	if msg.err == nil && msg.req.Phase != feed.PhaseLoadMore {
		m.navigator.Reset()
	}
	m.syncFeed()
	return nil
}

// syncFeed updates the navigator with the visible listing count
func (m *Model) syncFeed() {
	m.navigator.SetTotal(len(m.svc.Feed.Visible()))
}

// maybeLoadMore starts a load-more once the selection nears the end
func (m *Model) maybeLoadMore() tea.Cmd {
	if !m.navigator.NearEnd(m.config.UISettings.LoadMoreThreshold) {
		return nil
	}
	return m.startFeed(feed.PhaseLoadMore)
}

func (m *Model) applySearch() {
	m.svc.Feed.SetQuery(m.search.Value())
	m.navigator.Reset()
	m.syncFeed()
}

func (m *Model) handleFeedKey(msg tea.KeyMsg) tea.Cmd {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.navigator.Move(-1)

	case key.Matches(msg, m.keys.Down):
		m.navigator.Move(1)
		return m.maybeLoadMore()

	case key.Matches(msg, m.keys.Top):
		m.navigator.SetSelectedIndex(0)

	case key.Matches(msg, m.keys.Bottom):
		m.navigator.SetSelectedIndex(m.navigator.Total() - 1)
		return m.maybeLoadMore()

	case msg.String() == "pgdown":
		m.navigator.Move(m.navigator.GetViewportHeight())
		return m.maybeLoadMore()

	case msg.String() == "pgup":
		m.navigator.Move(-m.navigator.GetViewportHeight())

	case key.Matches(msg, m.keys.Open):
		return m.openDetail()

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.updateViewportHeight()
		return m.search.Focus()

	case key.Matches(msg, m.keys.Back):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.applySearch()
		}

	case key.Matches(msg, m.keys.Refresh):
		return m.startFeed(feed.PhaseRefresh)

	case key.Matches(msg, m.keys.LoadMore):
		return m.startFeed(feed.PhaseLoadMore)

	case key.Matches(msg, m.keys.Publish):
		return m.openPublish()

	case key.Matches(msg, m.keys.Profile):
		return m.openProfile()

	case key.Matches(msg, m.keys.Login):
		if s := m.session(); s != nil {
			m.setStatus("Signed in as "+signedInLabel(s)+".", views.StatusInfo)
			return nil
		}
		return m.openLogin(views.ScreenFeed)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

// handleSearchKey edits the live search query
func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.search.SetValue("")
		m.applySearch()
		fallthrough
	case "enter":
		m.searching = false
		m.search.Blur()
		m.updateViewportHeight()
		return nil
	case "up":
		m.navigator.Move(-1)
		return nil
	case "down":
		m.navigator.Move(1)
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applySearch()
	return cmd
}

func (m *Model) buildFeedView(state *views.ViewState) {
	if m.svc.Feed == nil {
		return
	}
	state.Items = m.svc.Feed.Visible()
	state.SelectedIndex = m.navigator.GetSelectedIndex()
	state.ViewportStart, state.ViewportEnd = m.navigator.VisibleRange()
	state.HasMore = m.svc.Feed.HasMore()
	state.ErrorMessage = m.svc.Feed.ErrorMessage()
	state.SearchQuery = m.svc.Feed.Query()
	state.Searching = m.searching
	if m.searching {
		state.SearchInput = m.search.View()
	}
}
