package connection

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devevent/internal/domain"
)

type fakeHandle struct {
	id int64
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestManager_Acquire_ConcurrentCallersShareOneAttempt(t *testing.T) {
	var dials atomic.Int64
	release := make(chan struct{})
	m := NewManager(Options[*fakeHandle]{
		Name:   "test",
		Target: "mem://test",
		Logger: testLogger(),
		Dial: func(ctx context.Context, target string) (*fakeHandle, error) {
			n := dials.Add(1)
			<-release
			return &fakeHandle{id: n}, nil
		},
	})

	const callers = 32
	var wg sync.WaitGroup
	handles := make([]*fakeHandle, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = m.Acquire(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool { return m.State() == StateConnecting }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int64(1), dials.Load())
	require.Equal(t, int64(1), m.Attempts())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Same(t, handles[0], handles[i])
	}
	assert.Equal(t, StateConnected, m.State())
}

func TestManager_Acquire_CachedHandleSkipsDial(t *testing.T) {
	var dials atomic.Int64
	m := NewManager(Options[*fakeHandle]{
		Target: "mem://test",
		Logger: testLogger(),
		Dial: func(ctx context.Context, target string) (*fakeHandle, error) {
			return &fakeHandle{id: dials.Add(1)}, nil
		},
	})

	first, err := m.Acquire(context.Background())
	require.NoError(t, err)
	second, err := m.Acquire(context.Background())
	require.NoError(t, err)

	require.Same(t, first, second)
	require.Equal(t, int64(1), dials.Load())
}

func TestManager_Acquire_MissingTarget(t *testing.T) {
	m := NewManager(Options[*fakeHandle]{
		Name:   "mongodb",
		Logger: testLogger(),
		Dial: func(ctx context.Context, target string) (*fakeHandle, error) {
			t.Fatal("dial must not be called without a target")
			return nil, nil
		},
	})

	_, err := m.Acquire(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrConfiguration)
	require.NotErrorIs(t, err, domain.ErrConnection)
	assert.Equal(t, StateUninitialized, m.State())
	assert.Equal(t, int64(0), m.Attempts())
}

func TestManager_Acquire_FailureIsNotCached(t *testing.T) {
	dialErr := errors.New("server selection timeout")
	var dials atomic.Int64
	m := NewManager(Options[*fakeHandle]{
		Target: "mem://test",
		Logger: testLogger(),
		Dial: func(ctx context.Context, target string) (*fakeHandle, error) {
			n := dials.Add(1)
			if n == 1 {
				return nil, dialErr
			}
			return &fakeHandle{id: n}, nil
		},
	})

	_, err := m.Acquire(context.Background())
	require.ErrorIs(t, err, domain.ErrConnection)
	require.ErrorIs(t, err, dialErr)
	require.Equal(t, StateFailed, m.State())

	h, err := m.Acquire(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), h.id)
	require.Equal(t, StateConnected, m.State())
	require.Equal(t, int64(2), m.Attempts())
}

func TestManager_Acquire_DialIgnoresCallerCancellation(t *testing.T) {
	m := NewManager(Options[*fakeHandle]{
		Target:  "mem://test",
		Timeout: time.Second,
		Logger:  testLogger(),
		Dial: func(ctx context.Context, target string) (*fakeHandle, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			_, hasDeadline := ctx.Deadline()
			if !hasDeadline {
				return nil, errors.New("expected connect deadline")
			}
			return &fakeHandle{id: 1}, nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h, err := m.Acquire(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), h.id)
}

func TestManager_Acquire_PassesTarget(t *testing.T) {
	var got string
	m := NewManager(Options[*fakeHandle]{
		Target: "mongodb://localhost:27017",
		Logger: testLogger(),
		Dial: func(ctx context.Context, target string) (*fakeHandle, error) {
			got = target
			return &fakeHandle{}, nil
		},
	})

	_, err := m.Acquire(context.Background())
	require.NoError(t, err)
	require.Equal(t, "mongodb://localhost:27017", got)
}

func TestManager_Close(t *testing.T) {
	var closed []*fakeHandle
	m := NewManager(Options[*fakeHandle]{
		Target: "mem://test",
		Logger: testLogger(),
		Dial: func(ctx context.Context, target string) (*fakeHandle, error) {
			return &fakeHandle{id: 7}, nil
		},
		Close: func(ctx context.Context, h *fakeHandle) error {
			closed = append(closed, h)
			return nil
		},
	})

	require.NoError(t, m.Close(context.Background()), "closing an unused manager is a no-op")
	require.Empty(t, closed)

	h, err := m.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, m.Close(context.Background()))
	require.Len(t, closed, 1)
	require.Same(t, h, closed[0])
	require.Equal(t, StateUninitialized, m.State())
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUninitialized, "uninitialized"},
		{StateConnecting, "connecting"},
		{StateConnected, "connected"},
		{StateFailed, "failed"},
		{State(42), "State(42)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, tt.state.String())
		})
	}
}
