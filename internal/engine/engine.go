package engine

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/genricoloni/cmusnotify/internal/cover"
	"github.com/genricoloni/cmusnotify/internal/domain"
	"github.com/genricoloni/cmusnotify/internal/tempfile"
	"github.com/genricoloni/cmusnotify/internal/template"
	"go.uber.org/zap"
)

const _notifyTimeout = 15 * time.Second

// CoverResolver finds the artwork of a track
type CoverResolver interface {
	ResolveCover(trackPath string, maxHops uint, forceExternal, suppressExternal bool) cover.TrackCover
}

// IconProcessor turns a cover into a notification sized icon
type IconProcessor interface {
	Enabled() bool
	Thumbnail(ctx context.Context, path string) (*tempfile.File, error)
}

// CoverFetcher downloads a remote cover into a temporary file
type CoverFetcher interface {
	FetchToFile(ctx context.Context, rawURL, dir string) (*tempfile.File, error)
}

// Engine orchestrates the notification pipeline.
// It listens to player events, resolves cover art and shows a notification per track.
type Engine struct {
	logger   *zap.Logger
	cfg      domain.Config
	monitor  domain.Monitor
	resolver CoverResolver
	notifier domain.Notifier
	icons    IconProcessor
	fetcher  CoverFetcher

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
	held   []*tempfile.File // Files backing the notification on screen
}

// NewEngine creates a new orchestration engine
func NewEngine(
	logger *zap.Logger,
	cfg domain.Config,
	mon domain.Monitor,
	resolver CoverResolver,
	notifier domain.Notifier,
	icons IconProcessor,
	fetcher CoverFetcher,
) *Engine {
	return &Engine{
		logger:   logger,
		cfg:      cfg,
		monitor:  mon,
		resolver: resolver,
		notifier: notifier,
		icons:    icons,
		fetcher:  fetcher,
	}
}

// Start launches the engine's event processing loop in a goroutine.
// It returns immediately (non-blocking).
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		return nil
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	e.cancel = cancel

	e.wg.Add(1)
	go e.runLoop(loopCtx)

	e.logger.Info("Engine started")
	return nil
}

// runLoop is the main event processing loop with debouncing.
// Only the last track of a burst of changes gets a notification.
func (e *Engine) runLoop(ctx context.Context) {
	defer e.wg.Done()

	events := e.monitor.Events()
	debounce := time.Duration(e.cfg.Player().DebounceMS) * time.Millisecond

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	var pending *domain.Track

	for {
		select {
		case <-ctx.Done():
			e.logger.Debug("Engine loop stopped")
			return

		case event, ok := <-events:
			if !ok {
				e.logger.Info("Monitor events channel closed")
				return
			}

			track, notify := e.trigger(event)
			if !notify {
				continue
			}
			pending = &track
			if debounce <= 0 {
				e.process(ctx, *pending)
				pending = nil
				continue
			}
			timer.Reset(debounce)

		case <-timer.C:
			if pending != nil {
				e.process(ctx, *pending)
				pending = nil
			}
		}
	}
}

// trigger reports whether event should produce a notification, and for which track
func (e *Engine) trigger(event domain.Event) (domain.Track, bool) {
	switch ev := event.(type) {
	case domain.TrackChanged:
		e.logger.Debug("Track changed", zap.String("path", ev.Track.Path), zap.String("name", ev.Track.Name))
		return ev.Track, ev.Track.Path != ""
	case domain.StatusChanged:
		e.logger.Debug("Status changed", zap.String("status", string(ev.Status)))
		if !e.cfg.Notification().NotifyOnStatus {
			return domain.Track{}, false
		}
		return ev.Track, ev.Track.Path != ""
	default:
		e.logger.Debug("Ignoring event", zap.Any("event", event))
		return domain.Track{}, false
	}
}

// process resolves the icon and shows the notification for a single track
func (e *Engine) process(ctx context.Context, track domain.Track) {
	ctx, cancel := context.WithTimeout(ctx, _notifyTimeout)
	defer cancel()

	icon, owned := e.selectIcon(ctx, track)

	settings := e.cfg.Notification()
	n := domain.Notification{
		Summary: template.Render(settings.Summary, track),
		Body:    template.Render(settings.Body, track),
		Icon:    icon,
	}

	if err := e.notifier.Notify(ctx, n); err != nil {
		e.logger.Error("Failed to show notification", zap.String("track", track.Path), zap.Error(err))
		releaseAll(e.logger, owned)
		return
	}

	e.logger.Info("Notification shown",
		zap.String("summary", n.Summary),
		zap.String("body", n.Body),
		zap.String("icon", n.Icon))

	// The previous icon is no longer on screen
	releaseAll(e.logger, e.held)
	e.held = owned
}

// selectIcon picks the icon path for track. Temporary files created on the way are
// returned so the caller can release them once the notification is replaced.
func (e *Engine) selectIcon(ctx context.Context, track domain.Track) (string, []*tempfile.File) {
	settings := e.cfg.Cover()
	var owned []*tempfile.File
	icon := ""

	// 1. A user supplied location wins when it exists
	if settings.PathTemplate != "" {
		path := template.Render(settings.PathTemplate, track)
		if _, err := os.Stat(path); err == nil {
			icon = path
		} else {
			e.logger.Debug("Templated cover not found", zap.String("path", path))
		}
	}

	// 2. Embedded art or an image next to the track
	if icon == "" {
		c := e.resolver.ResolveCover(track.Path, settings.MaxDepth, settings.ForceUseExternal, settings.NoUseExternal)
		if embedded, ok := c.(cover.Embedded); ok {
			owned = append(owned, embedded.File)
		}
		icon = cover.Path(c)
	}

	// 3. Remote cover server
	if icon == "" && settings.RemoteURLTemplate != "" {
		url := template.Render(settings.RemoteURLTemplate, track)
		file, err := e.fetcher.FetchToFile(ctx, url, settings.TempDir)
		if err != nil {
			e.logger.Warn("Failed to fetch remote cover", zap.String("url", url), zap.Error(err))
		} else {
			owned = append(owned, file)
			icon = file.Path()
		}
	}

	// 4. Shrink to icon size, keeping the original on failure
	if icon != "" && e.icons.Enabled() {
		thumb, err := e.icons.Thumbnail(ctx, icon)
		if err != nil {
			e.logger.Warn("Failed to create icon", zap.String("cover", icon), zap.Error(err))
		} else {
			owned = append(owned, thumb)
			icon = thumb.Path()
		}
	}

	return icon, owned
}

// Stop stops the event loop and removes every temporary file still held
func (e *Engine) Stop(ctx context.Context) error {
	e.logger.Info("Engine stopping...")

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.mu.Unlock()

	e.wg.Wait()

	releaseAll(e.logger, e.held)
	e.held = nil
	return nil
}

func releaseAll(logger *zap.Logger, files []*tempfile.File) {
	for _, f := range files {
		if err := f.Release(); err != nil {
			logger.Warn("Failed to remove temporary file", zap.String("path", f.Path()), zap.Error(err))
		}
	}
}
