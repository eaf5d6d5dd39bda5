package ui

import (
	"context"
	"log"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PIN-11-07/Turboo/internal/auth"
	"github.com/PIN-11-07/Turboo/internal/config"
	"github.com/PIN-11-07/Turboo/internal/domain"
	"github.com/PIN-11-07/Turboo/internal/eventbus"
	"github.com/PIN-11-07/Turboo/internal/feed"
	"github.com/PIN-11-07/Turboo/internal/listings"
	"github.com/PIN-11-07/Turboo/internal/ui/logic"
	"github.com/PIN-11-07/Turboo/internal/ui/views"
)

// DetailSource loads a single listing. It returns nil when the listing is gone.
type DetailSource interface {
	Detail(ctx context.Context, id domain.ListingID) (*domain.Listing, error)
}

// Sessions is the signed-in state the UI reads and changes
type Sessions interface {
	auth.Authenticator
	Session() *domain.Session
	SignOut(ctx context.Context) error
}

// ListingPublisher publishes the publish form
type ListingPublisher interface {
	Publish(ctx context.Context, session *domain.Session, form *listings.PublishForm) error
}

// ProfileLoader loads the profile screen
type ProfileLoader interface {
	Load(ctx context.Context, session *domain.Session) (*domain.Profile, error)
}

// Services are the backends the screens talk to
type Services struct {
	Feed      *feed.Feed
	Details   DetailSource
	Sessions  Sessions
	Publisher ListingPublisher
	Profiles  ProfileLoader
}

// Model represents the UI state
type Model struct {
	ctx    context.Context
	bus    eventbus.EventBus
	config *config.Config
	svc    Services

	width   int
	height  int
	help    help.Model
	keys    KeyMap
	spinner spinner.Model

	screen   views.Screen
	renderer *views.Renderer
	pager    *Pager

	status     string
	statusKind views.StatusKind
	confirm    string

	// Feed
	navigator *logic.Navigator
	search    textinput.Model
	searching bool

	// Detail
	detail        *domain.Listing
	detailID      domain.ListingID
	detailLoading bool
	detailErr     string

	// Login
	login       auth.Form
	loginInputs []textinput.Model
	loginFocus  int
	afterLogin  views.Screen

	// Publish
	publishInputs []textinput.Model
	publishFocus  int
	publishErr    string

	submitting bool

	// Profile
	profile        *domain.Profile
	profileLoading bool
	profileErr     string

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(ctx context.Context, bus eventbus.EventBus, cfg *config.Config, svc Services) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	search := newInput()
	search.Prompt = "/ "
	search.Placeholder = "Search by title, make, model or location"

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:           ctx,
		bus:           bus,
		config:        cfg,
		svc:           svc,
		help:          help.New(),
		keys:          DefaultKeyMap(),
		spinner:       sp,
		screen:        views.ScreenFeed,
		renderer:      views.NewRenderer(cfg.UISettings.ShowImageURLs),
		pager:         NewPager(nil),
		navigator:     logic.NewNavigator(),
		search:        search,
		loginInputs:   newLoginInputs(),
		publishInputs: newPublishInputs(),
	}
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPager(p)
}

// Screen returns the active screen
func (m *Model) Screen() views.Screen { return m.screen }

// Init starts the spinner and the initial feed load
func (m *Model) Init() tea.Cmd {
	m.navigator.SetViewportHeight(20) // Will be updated on first WindowSizeMsg
	return tea.Batch(m.spinner.Tick, m.startFeed(feed.PhaseInitial))
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateViewportHeight()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case feedPageMsg:
		return m, m.handleFeedPage(msg)

	case detailMsg:
		m.handleDetail(msg)
		return m, nil

	case detailPagerMsg:
		if msg.err != nil {
			log.Printf("UI: pager failed: %v", msg.err)
			m.setStatus("Unable to open the pager.", views.StatusError)
		}
		return m, nil

	case loginResultMsg:
		return m, m.handleLoginResult(msg)

	case publishResultMsg:
		return m, m.handlePublishResult(msg)

	case profileMsg:
		m.handleProfile(msg)
		return m, nil

	case signOutMsg:
		m.handleSignOut(msg)
		return m, nil

	case EventMsg:
		return m, m.handleEvent(msg.Event)
	}

	// Cursor blink and other input messages
	return m, m.updateFocusedInput(msg)
}

// handleKey routes a key press to the confirm popup or the active screen
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	if m.confirm != "" {
		switch msg.String() {
		case "y", "Y":
			m.confirm = ""
			return m.signOut()
		case "n", "N", "esc":
			m.confirm = ""
		}
		return nil
	}

	switch m.screen {
	case views.ScreenDetail:
		return m.handleDetailKey(msg)
	case views.ScreenLogin:
		return m.handleLoginKey(msg)
	case views.ScreenPublish:
		return m.handlePublishKey(msg)
	case views.ScreenProfile:
		return m.handleProfileKey(msg)
	}
	return m.handleFeedKey(msg)
}

// handleEvent processes domain events forwarded from the bus
func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.SessionChangedEvent:
		if e.Session == nil {
			m.profile = nil
			if m.screen == views.ScreenProfile || m.screen == views.ScreenPublish {
				m.screen = views.ScreenFeed
			}
		}

	case eventbus.ListingPublishedEvent:
		// Own listings changed too
		m.profile = nil
		return m.startFeed(feed.PhaseRefresh)

	case eventbus.ErrorEvent:
		m.setStatus(e.Message, views.StatusError)
	}
	return nil
}

func (m *Model) setStatus(msg string, kind views.StatusKind) {
	m.status = msg
	m.statusKind = kind
}

func (m *Model) session() *domain.Session {
	if m.svc.Sessions == nil {
		return nil
	}
	return m.svc.Sessions.Session()
}

// updateViewportHeight gives the list what is left after the chrome
func (m *Model) updateViewportHeight() {
	// padding, title, search box, status, help
	reserved := 2 + 2 + 2 + 2 + 2
	if m.searching {
		reserved += 2
	}
	m.navigator.SetViewportHeight(m.height - reserved)
}

// updateFocusedInput forwards non-key messages to the focused text input
func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.screen {
	case views.ScreenFeed:
		if m.searching {
			m.search, cmd = m.search.Update(msg)
		}
	case views.ScreenLogin:
		m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	case views.ScreenPublish:
		m.publishInputs[m.publishFocus], cmd = m.publishInputs[m.publishFocus].Update(msg)
	}
	return cmd
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	state := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Screen:        m.screen,
		StatusMessage: m.status,
		StatusKind:    m.statusKind,
		Confirm:       m.confirm,
	}

	if s := m.session(); s != nil {
		state.SignedInAs = signedInLabel(s)
	}

	loading := m.submitting || m.detailLoading || m.profileLoading
	if m.svc.Feed != nil {
		state.Phase = m.svc.Feed.Phase()
		loading = loading || state.Phase != feed.PhaseIdle
	}
	if loading {
		state.Spinner = m.spinner.View()
	}

	switch m.screen {
	case views.ScreenDetail:
		m.buildDetailView(&state)
		state.HelpView = m.help.View(m.keys.forScreen(keysDetail))
	case views.ScreenLogin:
		m.buildLoginView(&state)
		state.HelpView = m.help.View(m.keys.forScreen(keysLogin))
	case views.ScreenPublish:
		m.buildPublishView(&state)
		state.HelpView = m.help.View(m.keys.forScreen(keysForm))
	case views.ScreenProfile:
		m.buildProfileView(&state)
		state.HelpView = m.help.View(m.keys.forScreen(keysProfile))
	default:
		m.buildFeedView(&state)
		state.HelpView = m.help.View(m.keys.forScreen(keysFeed))
	}

	return m.renderer.Render(state)
}

func signedInLabel(s *domain.Session) string {
	if name := s.User.DisplayName(); name != "" {
		return name
	}
	return s.User.Email
}

// newInput returns a text input with a steady cursor
func newInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// focusInput focuses inputs[idx] and blurs the others
func focusInput(inputs []textinput.Model, idx int) tea.Cmd {
	var cmd tea.Cmd
	for i := range inputs {
		if i == idx {
			cmd = inputs[i].Focus()
		} else {
			inputs[i].Blur()
		}
	}
	return cmd
}
