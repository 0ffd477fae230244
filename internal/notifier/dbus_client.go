package notifier

import (
	"context"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsDest = "org.freedesktop.Notifications"
	notificationsPath = "/org/freedesktop/Notifications"
)

// DBusClient defines the interface for calls on the notification server.
// This abstraction allows us to mock D-Bus interactions in tests.
//
//go:generate mockgen -destination=mocks/dbus_client_mock.go -package=mocks github.com/genricoloni/cmusnotify/internal/notifier DBusClient
type DBusClient interface {
	// Close closes the D-Bus connection
	Close() error

	// Call invokes a method on org.freedesktop.Notifications and returns the reply body
	Call(ctx context.Context, method string, args ...any) ([]any, error)
}

// StdDBusClient is the real implementation using godbus
type StdDBusClient struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewStdDBusClient creates a real D-Bus client connected to the session bus
func NewStdDBusClient() (*StdDBusClient, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return &StdDBusClient{
		conn: conn,
		obj:  conn.Object(notificationsDest, dbus.ObjectPath(notificationsPath)),
	}, nil
}

// Close closes the D-Bus connection
func (c *StdDBusClient) Close() error {
	return c.conn.Close()
}

// Call invokes a method on the notification server
func (c *StdDBusClient) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	call := c.obj.CallWithContext(ctx, method, 0, args...)
	return call.Body, call.Err
}
