package ui

import (
	"errors"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PIN-11-07/Turboo/internal/listings"
	"github.com/PIN-11-07/Turboo/internal/ui/views"
)

var publishPlaceholders = map[listings.Field]string{
	listings.FieldTitle:       "e.g. Golf GTI in great condition",
	listings.FieldDescription: "Service history, extras, condition...",
	listings.FieldPrice:       "e.g. 12500",
	listings.FieldModel:       "e.g. Golf",
	listings.FieldYear:        "e.g. 2018",
	listings.FieldMileage:     "km",
	listings.FieldDoors:       "e.g. 5",
	listings.FieldColor:       "e.g. White",
	listings.FieldLocation:    "e.g. Madrid",
}

// newPublishInputs returns one input per publish field, in field order
func newPublishInputs() []textinput.Model {
	inputs := make([]textinput.Model, len(listings.Fields))
	for i, f := range listings.Fields {
		ti := newInput()
		ti.Placeholder = publishPlaceholders[f]
		ti.CharLimit = 200
		if f == listings.FieldDescription {
			ti.CharLimit = 2000
		}
		inputs[i] = ti
	}
	return inputs
}

// openPublish shows the publish form, or the login form when signed out
func (m *Model) openPublish() tea.Cmd {
	if m.session() == nil {
		m.setStatus(listings.MsgSignInRequired, views.StatusError)
		return m.openLogin(views.ScreenPublish)
	}
	m.screen = views.ScreenPublish
	m.publishErr = ""
	return focusInput(m.publishInputs, m.publishFocus)
}

func (m *Model) handlePublishKey(msg tea.KeyMsg) tea.Cmd {
	field := listings.Fields[m.publishFocus]
	count := len(listings.Fields)

	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = views.ScreenFeed
		return nil

	case key.Matches(msg, m.keys.Submit):
		return m.submitPublish()

	case msg.String() == "enter":
		if m.publishFocus < count-1 {
			m.publishFocus++
			return focusInput(m.publishInputs, m.publishFocus)
		}
		return m.submitPublish()

	case key.Matches(msg, m.keys.Next):
		m.publishFocus = (m.publishFocus + 1) % count
		return focusInput(m.publishInputs, m.publishFocus)

	case key.Matches(msg, m.keys.Prev):
		m.publishFocus = (m.publishFocus - 1 + count) % count
		return focusInput(m.publishInputs, m.publishFocus)
	}

	// Picker fields only take values from their option list
	if field.Options() != nil {
		switch msg.String() {
		case "right", "l", " ":
			m.cycleOption(1)
		case "left", "h":
			m.cycleOption(-1)
		}
		return nil
	}

	var cmd tea.Cmd
	m.publishInputs[m.publishFocus], cmd = m.publishInputs[m.publishFocus].Update(msg)
	return cmd
}

// cycleOption moves the focused picker field to the next or previous option
func (m *Model) cycleOption(delta int) {
	opts := listings.Fields[m.publishFocus].Options()
	if len(opts) == 0 {
		return
	}
	input := &m.publishInputs[m.publishFocus]

	idx := slices.Index(opts, input.Value())
	switch {
	case idx == -1 && delta < 0:
		idx = len(opts) - 1
	case idx == -1:
		idx = 0
	default:
		idx = (idx + delta + len(opts)) % len(opts)
	}
	input.SetValue(opts[idx])
}

// submitPublish publishes a snapshot of the inputs
func (m *Model) submitPublish() tea.Cmd {
	if m.submitting || m.svc.Publisher == nil {
		return nil
	}
	m.submitting = true
	m.publishErr = ""

	form := listings.NewPublishForm()
	for i, f := range listings.Fields {
		form.Set(f, m.publishInputs[i].Value())
	}

	publisher, session, ctx := m.svc.Publisher, m.session(), m.ctx
	return func() tea.Msg {
		return publishResultMsg{err: publisher.Publish(ctx, session, form)}
	}
}

func (m *Model) handlePublishResult(msg publishResultMsg) tea.Cmd {
	m.submitting = false

	if msg.err != nil {
		m.publishErr = listings.UserMessage(msg.err)
		if errors.Is(msg.err, listings.ErrSignInRequired) {
			return m.openLogin(views.ScreenPublish)
		}
		var verr *listings.ValidationError
		if errors.As(msg.err, &verr) && verr.Field != listings.FieldNone {
			if idx := slices.Index(listings.Fields, verr.Field); idx >= 0 {
				m.publishFocus = idx
			}
		}
		return focusInput(m.publishInputs, m.publishFocus)
	}

	for i := range m.publishInputs {
		m.publishInputs[i].SetValue("")
	}
	m.publishFocus = 0
	m.screen = views.ScreenFeed
	m.setStatus(listings.MsgPublishSucceeded, views.StatusSuccess)
	return nil
}

func (m *Model) buildPublishView(state *views.ViewState) {
	state.FormTitle = "Publish a listing"
	state.Fields = make([]views.Field, 0, len(listings.Fields))
	for i, f := range listings.Fields {
		field := views.Field{
			Label:   f.Label(),
			Focused: i == m.publishFocus,
			Picker:  f.Options() != nil,
		}
		if field.Picker {
			field.Input = m.publishInputs[i].Value()
			if field.Input == "" {
				field.Input = "choose"
			}
		} else {
			field.Input = m.publishInputs[i].View()
		}
		state.Fields = append(state.Fields, field)
	}
	state.FormError = m.publishErr
	state.FormHint = "tab: next field  •  ←/→: change option  •  ctrl+s: publish"
	state.Submitting = m.submitting
}
