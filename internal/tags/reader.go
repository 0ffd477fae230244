// Package tags reads pictures embedded in audio files.
package tags

import (
	"errors"
	"fmt"
	"os"

	"github.com/bogem/id3v2"
	"github.com/dhowden/tag"
	"github.com/genricoloni/cmusnotify/internal/domain"
	"go.uber.org/zap"
)

// ErrNoTag is returned when a reader finds no tag container it understands
var ErrNoTag = errors.New("no tag found")

// ID3Reader reads APIC frames from ID3v2 tags
type ID3Reader struct{}

// ReadPictures returns every attached picture frame in tag order
func (ID3Reader) ReadPictures(path string) ([]domain.Picture, error) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("failed to parse id3 tag: %w", err)
	}
	defer t.Close()

	// id3v2 reports a file without header as an empty tag
	if !t.HasFrames() {
		return nil, fmt.Errorf("%w: no id3v2 frames in %s", ErrNoTag, path)
	}

	var pictures []domain.Picture
	for _, frame := range t.GetFrames(t.CommonID("Attached picture")) {
		pf, ok := frame.(id3v2.PictureFrame)
		if !ok || len(pf.Picture) == 0 {
			continue
		}
		pictures = append(pictures, domain.Picture{MIMEType: pf.MimeType, Data: pf.Picture})
	}
	return pictures, nil
}

// ContainerReader reads the picture of FLAC, MP4 and OGG containers.
// These formats expose at most one picture through dhowden/tag.
type ContainerReader struct{}

// ReadPictures returns zero or one picture
func (ContainerReader) ReadPictures(path string) ([]domain.Picture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return nil, fmt.Errorf("%w: %w", ErrNoTag, err)
		}
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}

	pic := m.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return nil, nil
	}
	return []domain.Picture{{MIMEType: pic.MIMEType, Data: pic.Data}}, nil
}

// MultiReader tries each reader in order and returns the first non-empty result.
// It fails only when every reader failed, that is no reader recognised the file.
type MultiReader struct {
	logger  *zap.Logger
	readers []domain.TagReader
}

// NewMultiReader creates a reader chain
func NewMultiReader(logger *zap.Logger, readers ...domain.TagReader) *MultiReader {
	return &MultiReader{logger: logger, readers: readers}
}

// NewReader returns the default chain: ID3 first, then the other containers
func NewReader(logger *zap.Logger) *MultiReader {
	return NewMultiReader(logger, ID3Reader{}, ContainerReader{})
}

// ReadPictures implements domain.TagReader
func (r *MultiReader) ReadPictures(path string) ([]domain.Picture, error) {
	var errs []error
	for _, reader := range r.readers {
		pictures, err := reader.ReadPictures(path)
		if err != nil {
			r.logger.Debug("Tag reader failed",
				zap.String("path", path),
				zap.String("reader", fmt.Sprintf("%T", reader)),
				zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if len(pictures) > 0 {
			return pictures, nil
		}
	}

	if len(errs) > 0 && len(errs) == len(r.readers) {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}
