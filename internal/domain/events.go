package domain

// Event is a discrete change between two successive player states.
// The concrete types below are the only implementations.
type Event interface {
	isEvent()
}

// StatusChanged is emitted when playback status changes
type StatusChanged struct {
	Status PlayerStatus
	Track  Track
}

// TrackChanged is emitted when a different file starts playing
type TrackChanged struct {
	Track Track
}

// VolumeChanged carries both channels, 0-100
type VolumeChanged struct {
	Left  uint8
	Right uint8
}

// PositionChanged carries the elapsed seconds
type PositionChanged struct {
	Position uint32
}

type ShuffleChanged struct {
	Shuffle Shuffle
}

type RepeatChanged struct {
	Repeat bool
}

type AAAModeChanged struct {
	Mode AAAMode
}

func (StatusChanged) isEvent()   {}
func (TrackChanged) isEvent()    {}
func (VolumeChanged) isEvent()   {}
func (PositionChanged) isEvent() {}
func (ShuffleChanged) isEvent()  {}
func (RepeatChanged) isEvent()   {}
func (AAAModeChanged) isEvent()  {}
