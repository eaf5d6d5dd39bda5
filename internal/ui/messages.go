package ui

import (
	"github.com/PIN-11-07/Turboo/internal/auth"
	"github.com/PIN-11-07/Turboo/internal/domain"
	"github.com/PIN-11-07/Turboo/internal/eventbus"
	"github.com/PIN-11-07/Turboo/internal/feed"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// feedPageMsg carries the outcome of an accepted feed request
type feedPageMsg struct {
	req  feed.Request
	rows []domain.ListingSummary
	err  error
}

// detailMsg contains the result of a listing detail fetch
type detailMsg struct {
	id      domain.ListingID
	listing *domain.Listing
	err     error
}

// loginResultMsg returns the submitted form with its feedback applied
type loginResultMsg struct {
	form     auth.Form
	signedIn bool
}

// publishResultMsg contains the result of a publish
type publishResultMsg struct {
	err error
}

// profileMsg contains the result of a profile load
type profileMsg struct {
	profile *domain.Profile
	err     error
}

// signOutMsg is sent once the session was cleared
type signOutMsg struct {
	err error
}

// detailPagerMsg contains the result of a detail pager command
type detailPagerMsg struct {
	err error
}
