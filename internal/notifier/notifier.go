// Package notifier shows desktop notifications through org.freedesktop.Notifications.
package notifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/genricoloni/cmusnotify/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const notifyMethod = notificationsDest + ".Notify"

var urgencies = map[string]byte{
	"low":      0,
	"normal":   1,
	"critical": 2,
}

// DBusNotifier sends notifications over the session bus. Each notification replaces
// the previous one so only the current track stays on screen.
type DBusNotifier struct {
	logger   *zap.Logger
	settings domain.NotificationSettings
	dial     func() (DBusClient, error)

	mu     sync.Mutex
	client DBusClient // Connected lazily on first Notify
	lastID uint32
}

// NewDBusNotifier creates a notifier connected to the session bus on first use
func NewDBusNotifier(logger *zap.Logger, cfg domain.Config) *DBusNotifier {
	return newDBusNotifier(logger, cfg.Notification(), func() (DBusClient, error) {
		return NewStdDBusClient()
	})
}

func newDBusNotifier(logger *zap.Logger, settings domain.NotificationSettings, dial func() (DBusClient, error)) *DBusNotifier {
	return &DBusNotifier{
		logger:   logger,
		settings: settings,
		dial:     dial,
	}
}

// Notify displays n, replacing the notification shown last
func (d *DBusNotifier) Notify(ctx context.Context, n domain.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		client, err := d.dial()
		if err != nil {
			return fmt.Errorf("session bus connection failed: %w", err)
		}
		d.client = client
	}

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgencies[d.settings.Urgency]),
	}
	if n.Icon != "" {
		hints["image-path"] = dbus.MakeVariant(n.Icon)
	}

	body, err := d.client.Call(ctx, notifyMethod,
		d.settings.AppName,
		d.lastID,
		n.Icon,
		n.Summary,
		n.Body,
		[]string{},
		hints,
		d.settings.TimeoutMS,
	)
	if err != nil {
		// Reconnect on the next notification, the server may have restarted
		d.closeClient()
		return fmt.Errorf("failed to send notification: %w", err)
	}

	if len(body) > 0 {
		if id, ok := body[0].(uint32); ok {
			d.lastID = id
		}
	}

	d.logger.Debug("Notification sent",
		zap.Uint32("id", d.lastID),
		zap.String("summary", n.Summary),
		zap.String("icon", n.Icon))
	return nil
}

// Close closes the D-Bus connection if one was opened
func (d *DBusNotifier) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeClient()
}

func (d *DBusNotifier) closeClient() error {
	if d.client == nil {
		return nil
	}
	err := d.client.Close()
	d.client = nil
	if err != nil {
		d.logger.Warn("Failed to close D-Bus connection", zap.Error(err))
	}
	return err
}
