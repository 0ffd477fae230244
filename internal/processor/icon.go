package processor

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/disintegration/imaging"
	"github.com/genricoloni/cmusnotify/internal/domain"
	"github.com/genricoloni/cmusnotify/internal/tempfile"
	"go.uber.org/zap"
)

// IconProcessor shrinks cover art to notification icon size.
// Some notification servers render full-size covers at full size.
type IconProcessor struct {
	logger  *zap.Logger
	size    int
	tempDir string
}

// NewIconProcessor creates a processor. A non-positive icon size disables it.
func NewIconProcessor(logger *zap.Logger, cfg domain.Config) *IconProcessor {
	return &IconProcessor{
		logger:  logger,
		size:    cfg.Cover().IconSize,
		tempDir: cfg.Cover().TempDir,
	}
}

// Enabled reports whether thumbnails should be generated
func (p *IconProcessor) Enabled() bool {
	return p.size > 0
}

// Process fits the image into a size x size square and encodes it as PNG
func (p *IconProcessor) Process(ctx context.Context, imageData []byte) ([]byte, error) {
	// 1. Decode image from bytes, honoring EXIF orientation
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dy() == 0 || bounds.Dx() == 0 {
		return nil, fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	// 2. Scale down keeping the aspect ratio, smaller images are left alone
	p.logger.Debug("Resizing cover", zap.Int("w", bounds.Dx()), zap.Int("h", bounds.Dy()), zap.Int("size", p.size))
	icon := imaging.Fit(img, p.size, p.size, imaging.Lanczos)

	// 3. Encode result (in-memory buffer)
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, icon, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	p.logger.Debug("Icon processed successfully", zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// Thumbnail writes a resized copy of the image at path into a new temporary file.
// The caller owns the returned file.
func (p *IconProcessor) Thumbnail(ctx context.Context, path string) (*tempfile.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cover: %w", err)
	}

	icon, err := p.Process(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to process image: %w", err)
	}

	file, err := tempfile.New(p.tempDir, icon)
	if err != nil {
		return nil, fmt.Errorf("failed to write icon: %w", err)
	}
	return file, nil
}
