package monitor

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/genricoloni/cmusnotify/internal/domain"
)

// ParseStatus converts the output of `cmus-remote -Q` into a player snapshot.
//
// Lines look like "status playing", "file /path", "tag artist Owl City" or
// "set shuffle tracks". Unknown lines are ignored.
func ParseStatus(output string) (domain.PlayerState, error) {
	state := domain.PlayerState{
		Shuffle: domain.ShuffleOff,
		AAAMode: domain.AAAModeAll,
		Track:   domain.Track{Metadata: make(map[string]string)},
	}
	var stream string
	hasStatus := false

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		field, rest, _ := strings.Cut(line, " ")

		switch field {
		case "status":
			status, err := parsePlayerStatus(rest)
			if err != nil {
				return domain.PlayerState{}, err
			}
			state.Status = status
			hasStatus = true
		case "file":
			state.Track.Path = rest
		case "stream":
			stream = rest
		case "duration":
			state.Track.Duration = parseSeconds(rest)
		case "position":
			state.Track.Position = parseSeconds(rest)
		case "tag":
			key, value, ok := strings.Cut(rest, " ")
			if ok && key != "" {
				state.Track.Metadata[key] = value
			}
		case "set":
			key, value, _ := strings.Cut(rest, " ")
			applySetting(&state, key, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return domain.PlayerState{}, fmt.Errorf("failed to read status: %w", err)
	}

	if !hasStatus {
		return domain.PlayerState{}, fmt.Errorf("missing status line in cmus output")
	}

	state.Track.Name = trackName(state.Track, stream)
	return state, nil
}

func parsePlayerStatus(s string) (domain.PlayerStatus, error) {
	switch domain.PlayerStatus(s) {
	case domain.StatusPlaying, domain.StatusPaused, domain.StatusStopped:
		return domain.PlayerStatus(s), nil
	default:
		return "", fmt.Errorf("unknown player status %q", s)
	}
}

func parseSeconds(s string) uint32 {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

func parseVolume(s string) uint8 {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil || n > 100 {
		return 0
	}
	return uint8(n)
}

func applySetting(state *domain.PlayerState, key, value string) {
	switch key {
	case "aaa_mode":
		switch domain.AAAMode(value) {
		case domain.AAAModeArtist, domain.AAAModeAlbum:
			state.AAAMode = domain.AAAMode(value)
		default:
			state.AAAMode = domain.AAAModeAll
		}
	case "repeat":
		state.Repeat = value == "true"
	case "shuffle":
		// Older cmus versions report true/false
		switch value {
		case "true", "tracks":
			state.Shuffle = domain.ShuffleTracks
		case "albums":
			state.Shuffle = domain.ShuffleAlbums
		default:
			state.Shuffle = domain.ShuffleOff
		}
	case "vol_left":
		state.VolLeft = parseVolume(value)
	case "vol_right":
		state.VolRight = parseVolume(value)
	}
}

// trackName prefers the title tag, then the stream name, then the file name
func trackName(track domain.Track, stream string) string {
	if title, ok := track.Metadata["title"]; ok && title != "" {
		return title
	}
	if stream != "" {
		return stream
	}
	if track.Path == "" {
		return ""
	}
	return filepath.Base(track.Path)
}
