package cover

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"syscall"
	"testing"
)

// createLibrary lays out:
//
//	<root>/Owl City/band.png
//	<root>/Owl City/Cinematic/08 - Always.lrc
//	<root>/Owl City/Cinematic/back.png
//	<root>/Owl City/Cinematic/art.jpg/          (directory)
//	<root>/Owl City/Cinematic/cover/cover.jpg
func createLibrary(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	album := filepath.Join(root, "Owl City", "Cinematic")
	mustMkdir(t, filepath.Join(album, "cover"))
	mustMkdir(t, filepath.Join(album, "art.jpg"))

	mustWrite(t, filepath.Join(root, "Owl City", "band.png"))
	mustWrite(t, filepath.Join(album, "08 - Always.lrc"))
	mustWrite(t, filepath.Join(album, "back.png"))
	mustWrite(t, filepath.Join(album, "cover", "cover.jpg"))

	return root
}

func TestSearchUpward(t *testing.T) {
	root := createLibrary(t)
	album := filepath.Join(root, "Owl City", "Cinematic")
	coverDir := filepath.Join(album, "cover")

	tests := []struct {
		name          string
		start         string
		maxHops       uint
		pattern       string
		expectedFound bool
		expectedPath  string
	}{
		{
			name:          "Cover in start directory",
			start:         coverDir,
			maxHops:       1,
			pattern:       `.\.jpg|.\.png`,
			expectedFound: true,
			expectedPath:  filepath.Join(coverDir, "cover.jpg"),
		},
		{
			name:          "Lyrics one level up",
			start:         coverDir,
			maxHops:       1,
			pattern:       `.\.lrc`,
			expectedFound: true,
			expectedPath:  filepath.Join(album, "08 - Always.lrc"),
		},
		{
			name:          "Absent within range",
			start:         coverDir,
			maxHops:       3,
			pattern:       `.\.mp3`,
			expectedFound: false,
		},
		{
			name:          "Zero hops never inspects the parent",
			start:         coverDir,
			maxHops:       0,
			pattern:       `.\.lrc`,
			expectedFound: false,
		},
		{
			name:          "Shallowest matching level wins",
			start:         coverDir,
			maxHops:       2,
			pattern:       `\.png$`,
			expectedFound: true,
			expectedPath:  filepath.Join(album, "back.png"),
		},
		{
			name:          "Two hops reach the artist directory",
			start:         coverDir,
			maxHops:       2,
			pattern:       `^band\.`,
			expectedFound: true,
			expectedPath:  filepath.Join(root, "Owl City", "band.png"),
		},
		{
			name:          "One hop does not reach the artist directory",
			start:         coverDir,
			maxHops:       1,
			pattern:       `^band\.`,
			expectedFound: false,
		},
		{
			name:          "Directories are not matched",
			start:         album,
			maxHops:       0,
			pattern:       `\.jpg$`,
			expectedFound: false,
		},
		{
			name:          "Image pattern",
			start:         coverDir,
			maxHops:       0,
			pattern:       ImagePattern.String(),
			expectedFound: true,
			expectedPath:  filepath.Join(coverDir, "cover.jpg"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, found, err := SearchUpward(tt.start, tt.maxHops, regexp.MustCompile(tt.pattern))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if found != tt.expectedFound {
				t.Fatalf("expected found=%v, got %v (path %q)", tt.expectedFound, found, path)
			}
			if path != tt.expectedPath {
				t.Errorf("expected path %q, got %q", tt.expectedPath, path)
			}
		})
	}
}

func TestSearchUpward_ListsPastFirstBatch(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 3*_readDirBatch; i++ {
		mustWrite(t, filepath.Join(dir, fmt.Sprintf("%03d - track.flac", i)))
	}
	mustWrite(t, filepath.Join(dir, "folder.jpg"))

	path, ok, err := SearchUpward(dir, 0, ImagePattern)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || path != filepath.Join(dir, "folder.jpg") {
		t.Errorf("expected folder.jpg, got %q (found=%v)", path, ok)
	}
}

func TestIsEntryError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "Entry Cannot Be Inspected", err: &fs.PathError{Op: "lstat", Path: "/music/a.jpg", Err: syscall.EACCES}, expected: true},
		{name: "Wrapped Entry Error", err: fmt.Errorf("batch: %w", &fs.PathError{Op: "lstat", Path: "/music/a.jpg", Err: syscall.EIO}), expected: true},
		{name: "Listing Failed", err: &fs.PathError{Op: "readdirent", Path: "/music", Err: syscall.EIO}},
		{name: "End Of Listing", err: io.EOF},
		{name: "Other Error", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEntryError(tt.err); got != tt.expected {
				t.Errorf("isEntryError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestSearchUpward_SkipsSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "real.jpg")
	mustWrite(t, target)
	if err := os.Symlink(target, filepath.Join(dir, "link.jpg")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	_, found, err := SearchUpward(dir, 0, ImagePattern)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("symlink should not be treated as a regular file")
	}
}

func TestSearchUpward_StopsAtRoot(t *testing.T) {
	never := regexp.MustCompile(`^\x00$`)

	_, found, err := SearchUpward(t.TempDir(), 1000, never)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected no match")
	}
}

func TestSearchUpward_RelativeStartReturnsAbsolutePath(t *testing.T) {
	root := createLibrary(t)
	t.Chdir(filepath.Join(root, "Owl City"))

	path, found, err := SearchUpward(filepath.Join("Cinematic", "cover"), 0, ImagePattern)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected a match")
	}
	if !filepath.IsAbs(path) {
		t.Errorf("expected absolute path, got %q", path)
	}
	if filepath.Base(path) != "cover.jpg" {
		t.Errorf("expected cover.jpg, got %q", path)
	}
}

func TestSearchUpward_Errors(t *testing.T) {
	t.Run("Missing start directory", func(t *testing.T) {
		_, _, err := SearchUpward(filepath.Join(t.TempDir(), "missing"), 2, ImagePattern)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("Start is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "track.mp3")
		mustWrite(t, file)

		_, _, err := SearchUpward(file, 2, ImagePattern)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("Unreadable ancestor", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("permission checks do not apply to root")
		}
		parent := t.TempDir()
		child := filepath.Join(parent, "child")
		mustMkdir(t, child)
		if err := os.Chmod(parent, 0o311); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = os.Chmod(parent, 0o755) })

		_, _, err := SearchUpward(child, 1, ImagePattern)
		if err == nil {
			t.Fatal("expected permission error, got nil")
		}
	})
}

func mustMkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
}

func mustWrite(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
