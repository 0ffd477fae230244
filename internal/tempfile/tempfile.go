// Package tempfile provides scoped temporary files for image bytes that have to exist on
// disk while a notification is displayed.
package tempfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

const filePrefix = "cmus-notify-"

// File is a temporary file owned by whoever holds it.
// The owner must call Release once the file is no longer needed.
type File struct {
	path string
	once sync.Once
	err  error
}

// New writes data into a fresh temporary file in dir (the OS temp dir when empty).
// The extension is sniffed from the content so image viewers pick the right decoder.
func New(dir string, data []byte) (*File, error) {
	ext := mimetype.Detect(data).Extension()

	f, err := os.CreateTemp(dir, filePrefix+"*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	return &File{path: f.Name()}, nil
}

// Path returns the absolute location of the file
func (f *File) Path() string {
	return f.path
}

// Release deletes the backing file. Calling it more than once is safe.
func (f *File) Release() error {
	if f == nil {
		return nil
	}
	f.once.Do(func() {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			f.err = fmt.Errorf("failed to remove temp file: %w", err)
		}
	})
	return f.err
}
