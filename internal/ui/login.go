package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PIN-11-07/Turboo/internal/ui/views"
)

// Login input positions
const (
	loginEmail = iota
	loginPassword
	loginName
)

func newLoginInputs() []textinput.Model {
	email := newInput()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254

	password := newInput()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	name := newInput()
	name.Placeholder = "Your full name"
	name.CharLimit = 120

	return []textinput.Model{email, password, name}
}

// openLogin shows the login form and returns to next after signing in
func (m *Model) openLogin(next views.Screen) tea.Cmd {
	m.screen = views.ScreenLogin
	m.afterLogin = next
	m.login.Error = ""
	m.login.Message = ""
	m.loginFocus = loginEmail
	return focusInput(m.loginInputs, m.loginFocus)
}

// loginFieldCount is the number of inputs of the current mode
func (m *Model) loginFieldCount() int {
	if m.login.ShowName() {
		return 3
	}
	return 2
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) tea.Cmd {
	count := m.loginFieldCount()

	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = views.ScreenFeed
		return nil

	case key.Matches(msg, m.keys.Toggle):
		m.login.Toggle()
		m.loginInputs[loginName].SetValue("")
		if m.loginFocus >= m.loginFieldCount() {
			m.loginFocus = loginEmail
		}
		return focusInput(m.loginInputs, m.loginFocus)

	case key.Matches(msg, m.keys.Submit):
		return m.submitLogin()

	case msg.String() == "enter":
		if m.loginFocus < count-1 {
			m.loginFocus++
			return focusInput(m.loginInputs, m.loginFocus)
		}
		return m.submitLogin()

	case key.Matches(msg, m.keys.Next):
		m.loginFocus = (m.loginFocus + 1) % count
		return focusInput(m.loginInputs, m.loginFocus)

	case key.Matches(msg, m.keys.Prev):
		m.loginFocus = (m.loginFocus - 1 + count) % count
		return focusInput(m.loginInputs, m.loginFocus)
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return cmd
}

// submitLogin submits a copy of the form. The copy comes back in a
// loginResultMsg so the form is only changed on the update goroutine.
func (m *Model) submitLogin() tea.Cmd {
	if m.submitting || m.svc.Sessions == nil {
		return nil
	}
	m.submitting = true

	form := m.login
	form.Email = m.loginInputs[loginEmail].Value()
	form.Password = m.loginInputs[loginPassword].Value()
	form.Name = m.loginInputs[loginName].Value()

	sessions, ctx := m.svc.Sessions, m.ctx
	return func() tea.Msg {
		signedIn := form.Submit(ctx, sessions)
		return loginResultMsg{form: form, signedIn: signedIn}
	}
}

func (m *Model) handleLoginResult(msg loginResultMsg) tea.Cmd {
	m.submitting = false
	m.login = msg.form
	m.loginInputs[loginPassword].SetValue(m.login.Password)
	m.loginInputs[loginName].SetValue(m.login.Name)
	if m.loginFocus >= m.loginFieldCount() {
		m.loginFocus = loginEmail
	}

	if !msg.signedIn {
		return focusInput(m.loginInputs, m.loginFocus)
	}

	m.loginInputs[loginPassword].SetValue("")
	m.login.Password = ""
	if s := m.session(); s != nil {
		m.setStatus("Signed in as "+signedInLabel(s)+".", views.StatusSuccess)
	}

	m.screen = views.ScreenFeed
	switch m.afterLogin {
	case views.ScreenPublish:
		return m.openPublish()
	case views.ScreenProfile:
		return m.openProfile()
	}
	return nil
}

func (m *Model) buildLoginView(state *views.ViewState) {
	state.FormTitle = m.login.Title()
	state.Fields = []views.Field{
		{Label: "Email", Input: m.loginInputs[loginEmail].View(), Focused: m.loginFocus == loginEmail},
		{Label: "Password", Input: m.loginInputs[loginPassword].View(), Focused: m.loginFocus == loginPassword},
	}
	if m.login.ShowName() {
		state.Fields = append(state.Fields, views.Field{
			Label: "Name", Input: m.loginInputs[loginName].View(), Focused: m.loginFocus == loginName,
		})
	}
	state.FormError = m.login.Error
	state.FormMessage = m.login.Message
	state.FormHint = "enter: " + m.login.SubmitLabel() + "  •  ctrl+t: " + m.login.ToggleLabel()
	state.Submitting = m.submitting
}
