package button

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tricksterpi/trickster/internal/hw/gpio"
)

// Config holds the wiring and timing of a momentary push button.
type Config struct {
	Pin          int           // BCM pin, wired to ground, internal pull-up
	Debounce     time.Duration // edges inside this window count as one press. 0 = 300ms.
	PollInterval time.Duration // edge-flag polling period. 0 = 20ms.
}

// Watcher turns falling edges on a GPIO pin into press callbacks.
// Each press runs the callback on its own goroutine so a slow handler
// never stalls the poll loop.
type Watcher struct {
	gpio    gpio.Driver
	cfg     Config
	onPress func()
	log     *zap.SugaredLogger
}

// NewWatcher configures the pin (input, pull-up, falling-edge detection)
// and returns a watcher that invokes onPress for each debounced press.
func NewWatcher(g gpio.Driver, cfg Config, onPress func(), log *zap.SugaredLogger) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 300 * time.Millisecond
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 20 * time.Millisecond
	}

	if err := g.SetupPin(cfg.Pin, gpio.InputPullUp); err != nil {
		return nil, fmt.Errorf("button: setup pin %d: %w", cfg.Pin, err)
	}
	if err := g.DetectEdge(cfg.Pin, gpio.FallEdge); err != nil {
		return nil, fmt.Errorf("button: arm edge detection on pin %d: %w", cfg.Pin, err)
	}

	return &Watcher{gpio: g, cfg: cfg, onPress: onPress, log: log}, nil
}

// Run polls the edge-detect flag until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Infof("button: watching pin %d", w.cfg.Pin)

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	var lastPress time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			pressed, err := w.gpio.EdgeDetected(w.cfg.Pin)
			if err != nil {
				w.log.Errorf("button: edge read failed: %v", err)
				continue
			}
			if !pressed {
				continue
			}
			if time.Since(lastPress) < w.cfg.Debounce {
				w.log.Debugf("button: bounce on pin %d ignored", w.cfg.Pin)
				continue
			}
			lastPress = time.Now()
			w.log.Info("button pressed")
			go w.onPress()
		}
	}
}
