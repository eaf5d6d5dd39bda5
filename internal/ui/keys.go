package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings shown in the help line
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Open     key.Binding
	Back     key.Binding
	Search   key.Binding
	Refresh  key.Binding
	LoadMore key.Binding
	Pager    key.Binding
	Publish  key.Binding
	Profile  key.Binding
	Login    key.Binding
	SignOut  key.Binding
	Next     key.Binding
	Prev     key.Binding
	Submit   key.Binding
	Toggle   key.Binding
	Help     key.Binding
	Quit     key.Binding

	screen screenKind
}

// screenKind picks which bindings the help shows
type screenKind int

const (
	keysFeed screenKind = iota
	keysDetail
	keysForm
	keysLogin
	keysProfile
)

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		LoadMore: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
		Pager:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view in pager")),
		Publish:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "publish")),
		Profile:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "profile")),
		Login:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "sign in")),
		SignOut:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sign out")),
		Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		Submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Toggle:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "sign in / sign up")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// forScreen returns a copy of the map that reports the bindings of one screen
func (k KeyMap) forScreen(s screenKind) KeyMap {
	k.screen = s
	return k
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	switch k.screen {
	case keysDetail:
		return []key.Binding{k.Pager, k.Back, k.Quit}
	case keysForm:
		return []key.Binding{k.Next, k.Submit, k.Back}
	case keysLogin:
		return []key.Binding{k.Next, k.Submit, k.Toggle, k.Back}
	case keysProfile:
		return []key.Binding{k.Refresh, k.SignOut, k.Back}
	}
	return []key.Binding{k.Up, k.Down, k.Open, k.Search, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	if k.screen != keysFeed {
		return [][]key.Binding{k.ShortHelp()}
	}
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Open, k.Search, k.Refresh, k.LoadMore},
		{k.Publish, k.Profile, k.Login},
		{k.Help, k.Quit},
	}
}
