package monitor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotRunning is returned when cmus-remote cannot reach a cmus instance
var ErrNotRunning = errors.New("cmus is not running")

// Querier returns the raw player status.
// This abstraction allows us to mock cmus in tests.
//
//go:generate mockgen -destination=mocks/querier_mock.go -package=mocks github.com/genricoloni/cmusnotify/internal/monitor Querier
type Querier interface {
	Query(ctx context.Context) (string, error)
}

// RemoteQuerier is the real implementation using the cmus-remote binary
type RemoteQuerier struct {
	binary string
	socket string
}

// NewRemoteQuerier creates a querier. An empty socket lets cmus-remote pick its default.
func NewRemoteQuerier(binary, socket string) *RemoteQuerier {
	if binary == "" {
		binary = "cmus-remote"
	}
	return &RemoteQuerier{binary: binary, socket: socket}
}

// Args returns the command line arguments passed to cmus-remote
func (q *RemoteQuerier) Args() []string {
	args := make([]string, 0, 3)
	if q.socket != "" {
		args = append(args, "--server", q.socket)
	}
	return append(args, "-Q")
}

// Query runs `cmus-remote -Q`
func (q *RemoteQuerier) Query(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, q.binary, q.Args()...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if strings.Contains(string(output), "not running") {
			return "", ErrNotRunning
		}
		return "", fmt.Errorf("failed to query %s: %w (output: %s)",
			q.binary, err, strings.TrimSpace(string(output)))
	}
	return string(output), nil
}
