// Package connection keeps one shared database handle per process.
package connection

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"devevent/internal/domain"
)

// State is the lifecycle state of a Manager.
type State int

const (
	StateUninitialized State = iota
	StateConnecting
	StateConnected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// DefaultConnectTimeout bounds a single connection attempt when none is configured.
const DefaultConnectTimeout = 10 * time.Second

// Dialer establishes a new handle to target.
type Dialer[T any] func(ctx context.Context, target string) (T, error)

// Closer releases a handle previously returned by a Dialer.
type Closer[T any] func(ctx context.Context, handle T) error

// Options configures a Manager.
type Options[T any] struct {
	// Name identifies the store in logs and errors, e.g. "mongodb".
	Name string
	// Target is the connection string. An empty target makes Acquire fail
	// with domain.ErrConfiguration.
	Target  string
	Dial    Dialer[T]
	Close   Closer[T]
	Timeout time.Duration
	Logger  *slog.Logger
}

// Manager caches a single live handle and shares one in-flight connection
// attempt between all concurrent callers. A failed attempt is never cached.
type Manager[T any] struct {
	name    string
	target  string
	dial    Dialer[T]
	close   Closer[T]
	timeout time.Duration
	logger  *slog.Logger

	group    singleflight.Group
	attempts atomic.Int64

	mu     sync.RWMutex
	state  State
	handle T
}

// NewManager returns a Manager in the uninitialized state. No I/O happens
// until the first Acquire.
func NewManager[T any](opts Options[T]) *Manager[T] {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultConnectTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Name == "" {
		opts.Name = "database"
	}
	return &Manager[T]{
		name:    opts.Name,
		target:  opts.Target,
		dial:    opts.Dial,
		close:   opts.Close,
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
}

// Acquire returns the shared handle, connecting first if needed.
//
// Errors wrap domain.ErrConfiguration when no target is configured and
// domain.ErrConnection when the attempt fails. The attempt runs detached from
// ctx cancellation so one aborted request does not fail the callers sharing it.
func (m *Manager[T]) Acquire(ctx context.Context) (T, error) {
	if h, ok := m.connected(); ok {
		return h, nil
	}

	var zero T
	if m.target == "" {
		return zero, fmt.Errorf("%w: %s connection string is not set", domain.ErrConfiguration, m.name)
	}
	if m.dial == nil {
		return zero, fmt.Errorf("%w: %s dialer is not set", domain.ErrConfiguration, m.name)
	}

	v, err, _ := m.group.Do(m.name, func() (any, error) {
		if h, ok := m.connected(); ok {
			return h, nil
		}
		m.setState(StateConnecting)
		attempt := m.attempts.Add(1)
		m.logger.Debug("connecting", "store", m.name, "attempt", attempt)

		dialCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
		defer cancel()

		h, err := m.dial(dialCtx, m.target)

		m.mu.Lock()
		defer m.mu.Unlock()
		if err != nil {
			m.state = StateFailed
			m.logger.Error("connection failed", "store", m.name, "attempt", attempt, "err", err)
			return nil, err
		}
		m.handle = h
		m.state = StateConnected
		m.logger.Info("connected", "store", m.name, "attempt", attempt)
		return h, nil
	})
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %w", domain.ErrConnection, m.name, err)
	}
	return v.(T), nil
}

// State reports the current lifecycle state.
func (m *Manager[T]) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Attempts reports how many connection attempts have been started.
func (m *Manager[T]) Attempts() int64 {
	return m.attempts.Load()
}

// Close releases the cached handle, if any, and resets the manager to the
// uninitialized state.
func (m *Manager[T]) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateConnected {
		return nil
	}
	h := m.handle
	var zero T
	m.handle = zero
	m.state = StateUninitialized
	if m.close == nil {
		return nil
	}
	if err := m.close(ctx, h); err != nil {
		return fmt.Errorf("close %s: %w", m.name, err)
	}
	return nil
}

func (m *Manager[T]) connected() (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == StateConnected {
		return m.handle, true
	}
	var zero T
	return zero, false
}

func (m *Manager[T]) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}
