// Package template expands {key} placeholders against a track's tags.
package template

import (
	"strings"

	"github.com/genricoloni/cmusnotify/internal/domain"
)

// Render replaces every {key} placeholder in tpl with the matching value from track.
//
// {title} is the track's display name, any other key is looked up in track.Metadata and
// resolves to "" when unset. Substitution happens in a single left-to-right scan, each
// closing brace rewriting the whole output buffer. A value that itself contains a
// placeholder processed later in the scan is therefore rewritten too.
// An unterminated "{" is left as is. A "}" outside a placeholder reuses the last key.
func Render(tpl string, track domain.Track) string {
	out := tpl

	var key strings.Builder
	collecting := false

	// Keys are matched byte for byte, valid UTF-8 or not
	for i := 0; i < len(tpl); i++ {
		c := tpl[i]
		switch {
		case c == '{':
			key.Reset()
			collecting = true
		case c == '}':
			collecting = false
			out = strings.ReplaceAll(out, "{"+key.String()+"}", lookup(key.String(), track))
		case collecting:
			key.WriteByte(c)
		}
	}

	return out
}

func lookup(key string, track domain.Track) string {
	if key == "title" {
		return track.Name
	}
	return track.Metadata[key]
}
