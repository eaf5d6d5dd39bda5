package ui

import (
	"log"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PIN-11-07/Turboo/internal/profile"
	"github.com/PIN-11-07/Turboo/internal/ui/views"
)

// openProfile shows the profile screen, or the login form when signed out
func (m *Model) openProfile() tea.Cmd {
	if m.session() == nil {
		m.setStatus("Sign in to see your profile.", views.StatusInfo)
		return m.openLogin(views.ScreenProfile)
	}
	m.screen = views.ScreenProfile
	return m.loadProfile()
}

func (m *Model) loadProfile() tea.Cmd {
	if m.profileLoading || m.svc.Profiles == nil {
		return nil
	}
	m.profileLoading = true
	m.profileErr = ""

	loader, session, ctx := m.svc.Profiles, m.session(), m.ctx
	return func() tea.Msg {
		p, err := loader.Load(ctx, session)
		return profileMsg{profile: p, err: err}
	}
}

func (m *Model) handleProfile(msg profileMsg) {
	m.profileLoading = false
	if msg.err != nil {
		log.Printf("UI: profile failed: %v", msg.err)
		m.profileErr = profile.LoadFailedMessage
		return
	}
	m.profile = msg.profile
}

func (m *Model) handleProfileKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.screen = views.ScreenFeed
	case key.Matches(msg, m.keys.Refresh):
		return m.loadProfile()
	case key.Matches(msg, m.keys.SignOut):
		m.confirm = "Sign out?"
	}
	return nil
}

// signOut clears the session. The local session is gone even when the
// server call fails.
func (m *Model) signOut() tea.Cmd {
	if m.svc.Sessions == nil {
		return nil
	}
	sessions, ctx := m.svc.Sessions, m.ctx
	return func() tea.Msg {
		return signOutMsg{err: sessions.SignOut(ctx)}
	}
}

func (m *Model) handleSignOut(msg signOutMsg) {
	if msg.err != nil {
		log.Printf("UI: sign out: %v", msg.err)
	}
	m.profile = nil
	m.screen = views.ScreenFeed
	m.setStatus("Signed out.", views.StatusInfo)
}

func (m *Model) buildProfileView(state *views.ViewState) {
	state.Profile = m.profile
	state.ProfileLoading = m.profileLoading
	state.ProfileError = m.profileErr
}
