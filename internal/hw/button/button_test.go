package button

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tricksterpi/trickster/internal/hw/gpio"
	"github.com/tricksterpi/trickster/internal/logger"
)

func waitForCount(t *testing.T, counter *atomic.Int32, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if counter.Load() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("presses = %d, want %d", counter.Load(), want)
}

func TestWatcher_PressFiresCallback(t *testing.T) {
	drv := gpio.NewMockDriver()
	drv.QueueEdges(17, true)

	var presses atomic.Int32
	w, err := NewWatcher(drv, Config{
		Pin:          17,
		Debounce:     time.Millisecond,
		PollInterval: time.Millisecond,
	}, func() { presses.Add(1) }, logger.Nop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitForCount(t, &presses, 1)

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func TestWatcher_DebounceSuppressesBounces(t *testing.T) {
	drv := gpio.NewMockDriver()
	// Three edges in rapid succession: one press plus two bounces.
	drv.QueueEdges(17, true, true, true)

	var presses atomic.Int32
	w, err := NewWatcher(drv, Config{
		Pin:          17,
		Debounce:     time.Hour, // everything after the first edge is a bounce
		PollInterval: time.Millisecond,
	}, func() { presses.Add(1) }, logger.Nop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	waitForCount(t, &presses, 1)

	// Give the remaining scripted edges time to be polled; they must not
	// produce additional callbacks.
	time.Sleep(20 * time.Millisecond)
	if got := presses.Load(); got != 1 {
		t.Errorf("presses after bounces = %d, want 1", got)
	}
}

func TestWatcher_SetsUpPullUpAndEdge(t *testing.T) {
	drv := gpio.NewMockDriver()
	_, err := NewWatcher(drv, Config{Pin: 17}, func() {}, logger.Nop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if drv.Mode(17) != gpio.InputPullUp {
		t.Errorf("pin mode = %d, want InputPullUp", drv.Mode(17))
	}
}
