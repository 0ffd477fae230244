package monitor

import "github.com/genricoloni/cmusnotify/internal/domain"

// Diff returns the events that lead from prev to next.
// With no previous snapshot only the track and status are reported.
func Diff(prev *domain.PlayerState, next domain.PlayerState) []domain.Event {
	if prev == nil {
		return []domain.Event{
			domain.TrackChanged{Track: next.Track},
			domain.StatusChanged{Status: next.Status, Track: next.Track},
		}
	}

	var events []domain.Event

	trackChanged := prev.Track.Path != next.Track.Path
	if trackChanged {
		events = append(events, domain.TrackChanged{Track: next.Track})
	}
	if prev.Status != next.Status {
		events = append(events, domain.StatusChanged{Status: next.Status, Track: next.Track})
	}
	if prev.VolLeft != next.VolLeft || prev.VolRight != next.VolRight {
		events = append(events, domain.VolumeChanged{Left: next.VolLeft, Right: next.VolRight})
	}
	if !trackChanged && prev.Track.Position != next.Track.Position {
		events = append(events, domain.PositionChanged{Position: next.Track.Position})
	}
	if prev.Shuffle != next.Shuffle {
		events = append(events, domain.ShuffleChanged{Shuffle: next.Shuffle})
	}
	if prev.Repeat != next.Repeat {
		events = append(events, domain.RepeatChanged{Repeat: next.Repeat})
	}
	if prev.AAAMode != next.AAAMode {
		events = append(events, domain.AAAModeChanged{Mode: next.AAAMode})
	}

	return events
}
