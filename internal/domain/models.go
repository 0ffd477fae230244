package domain

// PlayerStatus represents the current state of the media player
type PlayerStatus string

const (
	// StatusPlaying indicates the media is currently playing
	StatusPlaying PlayerStatus = "playing"
	// StatusPaused indicates the media is paused
	StatusPaused PlayerStatus = "paused"
	// StatusStopped indicates the media is stopped
	StatusStopped PlayerStatus = "stopped"
)

// Shuffle is the cmus shuffle setting
type Shuffle string

const (
	ShuffleOff    Shuffle = "off"
	ShuffleTracks Shuffle = "tracks"
	ShuffleAlbums Shuffle = "albums"
)

// AAAMode is the cmus "artist, album or all" auto-advance mode
type AAAMode string

const (
	AAAModeAll    AAAMode = "all"
	AAAModeArtist AAAMode = "artist"
	AAAModeAlbum  AAAMode = "album"
)

// Track is one audio item as reported by the player
type Track struct {
	// Name is the display name of the track
	Name string
	// Path is the file (or stream URL) being played
	Path string
	// Metadata maps tag keys (artist, album, tracknumber, ...) to their values.
	// A missing key means the tag is unset.
	Metadata map[string]string
	// Duration in seconds
	Duration uint32
	// Position in seconds
	Position uint32
}

// PlayerState is a full snapshot of the player at one point in time
type PlayerState struct {
	Status   PlayerStatus
	Track    Track
	VolLeft  uint8
	VolRight uint8
	Shuffle  Shuffle
	Repeat   bool
	AAAMode  AAAMode
}

// Picture is an image embedded in a track's tag container
type Picture struct {
	MIMEType string
	Data     []byte
}

// Notification is what gets shown on the desktop
type Notification struct {
	Summary string
	Body    string
	// Icon is an absolute path to an image file, or empty
	Icon string
}
