package domain

import "context"

// Monitor defines the interface for watching the player for changes
type Monitor interface {
	// Start begins polling in the background and returns immediately
	Start(ctx context.Context) error

	// Stop stops polling and closes the events channel
	Stop(ctx context.Context) error

	// Events returns a read-only channel of player change events
	Events() <-chan Event
}

// TagReader extracts embedded pictures from a track's tag container
type TagReader interface {
	// ReadPictures returns the embedded pictures in container order.
	// Zero pictures is not an error; an unparseable container is.
	ReadPictures(path string) ([]Picture, error)
}

// Notifier displays a desktop notification
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
	Close() error
}

// CoverSettings controls how cover art is located
type CoverSettings struct {
	MaxDepth          uint
	ForceUseExternal  bool
	NoUseExternal     bool
	PathTemplate      string
	RemoteURLTemplate string
	IconSize          int
	TempDir           string
}

// NotificationSettings controls what a notification looks like
type NotificationSettings struct {
	AppName        string
	Summary        string
	Body           string
	TimeoutMS      int32
	Urgency        string
	NotifyOnStatus bool
}

// PlayerSettings controls how cmus is queried
type PlayerSettings struct {
	RemoteBin      string
	Socket         string
	PollIntervalMS int
	DebounceMS     int
}

// Config defines the interface for application configuration
type Config interface {
	Cover() CoverSettings
	Notification() NotificationSettings
	Player() PlayerSettings
}
