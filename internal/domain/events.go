package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventFeedLoaded       EventType = "FeedLoaded"
	EventFeedFailed       EventType = "FeedFailed"
	EventSessionChanged   EventType = "SessionChanged"
	EventListingPublished EventType = "ListingPublished"
	EventConfigLoaded     EventType = "ConfigLoaded"
	EventConfigSaved      EventType = "ConfigSaved"
	EventError            EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// FeedLoadedEvent is emitted when a feed page has been applied
type FeedLoadedEvent struct {
	Phase     string
	RequestID string
	Rows      int
	HasMore   bool
}

func (e FeedLoadedEvent) Type() EventType { return EventFeedLoaded }

// FeedFailedEvent is emitted when a feed fetch fails
type FeedFailedEvent struct {
	Phase     string
	RequestID string
	Err       error
}

func (e FeedFailedEvent) Type() EventType { return EventFeedFailed }

// SessionChangedEvent is emitted on sign in, sign out and session restore.
// Session is nil when signed out.
type SessionChangedEvent struct {
	Session *Session
}

func (e SessionChangedEvent) Type() EventType { return EventSessionChanged }

// ListingPublishedEvent is emitted after a listing was inserted
type ListingPublishedEvent struct {
	Title string
}

func (e ListingPublishedEvent) Type() EventType { return EventListingPublished }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
