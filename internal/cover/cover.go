// Package cover decides which artwork represents a track: the picture embedded in its
// tags, an image file found next to it on disk, or nothing.
package cover

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/genricoloni/cmusnotify/internal/domain"
	"github.com/genricoloni/cmusnotify/internal/tempfile"
	"go.uber.org/zap"
)

// ImagePattern matches the file names accepted as an external cover
var ImagePattern = regexp.MustCompile(`.*\.(jpg|jpeg|png|gif)$`)

// TrackCover is the outcome of cover resolution: Embedded, External or None.
type TrackCover interface {
	isTrackCover()
}

// Embedded is a picture extracted from the track's tags into a temporary file.
// Whoever receives it owns File and must release it.
type Embedded struct {
	File *tempfile.File
}

// External is an image file found on disk
type External struct {
	Path string
}

// None means no cover was found
type None struct{}

func (Embedded) isTrackCover() {}
func (External) isTrackCover() {}
func (None) isTrackCover()     {}

// Release frees the temporary file behind an Embedded cover. Other covers own nothing.
func Release(c TrackCover) error {
	if e, ok := c.(Embedded); ok {
		return e.File.Release()
	}
	return nil
}

// Path returns the image location of a cover, or "" for None
func Path(c TrackCover) string {
	switch c := c.(type) {
	case Embedded:
		return c.File.Path()
	case External:
		return c.Path
	case None:
		return ""
	default:
		panic(fmt.Sprintf("unexpected cover type %T", c))
	}
}

// Resolver locates cover art for tracks
type Resolver struct {
	logger  *zap.Logger
	reader  domain.TagReader
	tempDir string
}

// NewResolver creates a resolver that writes embedded pictures into tempDir
// (the OS temp dir when empty)
func NewResolver(logger *zap.Logger, reader domain.TagReader, tempDir string) *Resolver {
	return &Resolver{
		logger:  logger,
		reader:  reader,
		tempDir: tempDir,
	}
}

// ResolveCover returns the cover of the track at trackPath. It never fails: any error
// along the way counts as "not found" and resolution falls through.
//
// Embedded art is tried first unless forceExternal is set. The directory of the track
// and up to maxHops of its ancestors are searched next unless suppressExternal is set.
func (r *Resolver) ResolveCover(trackPath string, maxHops uint, forceExternal, suppressExternal bool) TrackCover {
	if !forceExternal {
		file, err := r.ExtractEmbeddedArt(trackPath)
		if err != nil {
			r.logger.Debug("Could not read embedded cover", zap.String("track", trackPath), zap.Error(err))
		} else if file != nil {
			r.logger.Debug("Using embedded cover", zap.String("track", trackPath), zap.String("file", file.Path()))
			return Embedded{File: file}
		}
	}

	if !suppressExternal {
		path, ok, err := SearchUpward(filepath.Dir(trackPath), maxHops, ImagePattern)
		if err != nil {
			r.logger.Debug("External cover search failed", zap.String("track", trackPath), zap.Error(err))
		} else if ok {
			r.logger.Debug("Using external cover", zap.String("track", trackPath), zap.String("path", path))
			return External{Path: path}
		}
	}

	r.logger.Debug("No cover found", zap.String("track", trackPath))
	return None{}
}

// ExtractEmbeddedArt copies the first picture embedded in the track into a temporary
// file. It returns nil without error when the track has no pictures.
func (r *Resolver) ExtractEmbeddedArt(trackPath string) (*tempfile.File, error) {
	pictures, err := r.reader.ReadPictures(trackPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}
	if len(pictures) == 0 {
		return nil, nil
	}

	file, err := tempfile.New(r.tempDir, pictures[0].Data)
	if err != nil {
		return nil, fmt.Errorf("failed to store embedded cover: %w", err)
	}
	return file, nil
}
