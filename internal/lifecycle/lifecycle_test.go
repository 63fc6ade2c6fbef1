package lifecycle

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type mockService struct {
	started atomic.Bool
	stopped atomic.Bool
	stop    chan struct{}
	once    sync.Once
	startFn func(ctx context.Context) error
}

func newMockService() *mockService {
	return &mockService{stop: make(chan struct{})}
}

func (m *mockService) Start(ctx context.Context) error {
	m.started.Store(true)
	if m.startFn != nil {
		return m.startFn(ctx)
	}
	select {
	case <-m.stop:
	case <-ctx.Done():
	}
	return nil
}

func (m *mockService) Stop() {
	m.stopped.Store(true)
	m.once.Do(func() { close(m.stop) })
}

func runAsync(ctx context.Context, lc *Lifecycle) <-chan error {
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()
	return done
}

func awaitRun(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
		return nil
	}
}

func TestLifecycleStartsAndStopsServices(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	svc1 := newMockService()
	svc2 := newMockService()
	lc.Add("svc1", svc1)
	lc.Add("svc2", svc2)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, lc)

	require.Eventually(t, func() bool {
		return svc1.started.Load() && svc2.started.Load()
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, awaitRun(t, done))
	assert.True(t, svc1.stopped.Load())
	assert.True(t, svc2.stopped.Load())
}

func TestLifecycleStopsWhenOneServiceFinishes(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	background := newMockService()
	game := newMockService()
	game.startFn = func(context.Context) error { return nil }
	lc.Add("background", background)
	lc.Add("game", game)

	assert.NoError(t, awaitRun(t, runAsync(context.Background(), lc)))
	assert.True(t, background.stopped.Load())
}

func TestLifecycleReturnsServiceError(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	lc := NewLifecycle(zap.New(core))
	boom := errors.New("boom")
	failing := newMockService()
	failing.startFn = func(context.Context) error { return boom }
	lc.Add("failing", failing)

	err := awaitRun(t, runAsync(context.Background(), lc))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "service failing")
	assert.Equal(t, 1, logs.FilterMessage("service failed").Len())
}

func TestLifecycleStopsInReverseOrder(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	var mu sync.Mutex
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		lc.Add(name, &FuncService{
			StartFn: func(ctx context.Context) error {
				<-ctx.Done()
				return nil
			},
			StopFn: func() {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, name)
			},
		})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, awaitRun(t, runAsync(ctx, lc)))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"c", "b", "a"}, order)
}

func TestLifecycleStopTimeout(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	lc := NewLifecycle(zap.New(core))
	lc.SetStopTimeout(20 * time.Millisecond)
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	lc.Add("stubborn", &FuncService{StartFn: func(context.Context) error {
		<-release
		return nil
	}})
	lc.Add("quick", &FuncService{StartFn: func(context.Context) error { return nil }})

	assert.NoError(t, awaitRun(t, runAsync(context.Background(), lc)))
	assert.Equal(t, 1, logs.FilterMessage("services did not return before the stop timeout").Len())
}

func TestLifecycleWithoutServices(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	assert.Error(t, lc.Run(context.Background()))
}

func TestFuncService(t *testing.T) {
	started := false
	stopped := false
	svc := &FuncService{
		StartFn: func(context.Context) error {
			started = true
			return nil
		},
		StopFn: func() { stopped = true },
	}

	require.NoError(t, svc.Start(context.Background()))
	assert.True(t, started)
	svc.Stop()
	assert.True(t, stopped)

	(&FuncService{StartFn: func(context.Context) error { return nil }}).Stop()
}
