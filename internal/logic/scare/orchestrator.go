// Package scare coordinates the full scare cycle: audio sequence,
// randomized suspense delay, then servo strike. It owns the single busy
// flag that serializes triggers from the button and the HTTP API.
package scare

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrAlreadyRunning signals a dropped trigger while a cycle is in
// progress. It is a debounce outcome, not a fault.
var ErrAlreadyRunning = errors.New("scare cycle already running")

// AudioPolicy decides how the audio sequence relates to the suspense delay.
type AudioPolicy string

const (
	// AudioConcurrent starts the audio and immediately begins the delay,
	// so the servo fires mid-audio.
	AudioConcurrent AudioPolicy = "concurrent"
	// AudioSequential plays the whole audio sequence before the delay
	// starts.
	AudioSequential AudioPolicy = "sequential"
)

// Sequencer plays the extended audio sequence, blocking until done.
type Sequencer interface {
	PlaySequence(ctx context.Context, target time.Duration) error
}

// Servo performs the physical strike.
type Servo interface {
	Sweep(fromDeg, toDeg float64) error
	SetAngle(deg float64) error
}

// LED is the status light lit while a cycle runs.
type LED interface {
	Set(on bool) error
}

// Notifier receives cycle lifecycle events. May be nil.
type Notifier interface {
	Broadcast(level, msg string)
}

// Config holds the cycle timing and motion parameters.
type Config struct {
	AudioDuration time.Duration // minimum audio sequence length
	MinDelay      time.Duration // suspense delay bounds, inclusive
	MaxDelay      time.Duration
	ServoAngle    float64 // strike angle in degrees
	RestAngle     float64 // angle the servo returns to
	Policy        AudioPolicy
}

// Orchestrator runs scare cycles. At most one cycle is active at a time;
// triggers arriving while one runs are dropped, not queued.
type Orchestrator struct {
	cfg    Config
	audio  Sequencer
	servo  Servo
	led    LED
	notify Notifier
	log    *zap.SugaredLogger

	mu   sync.Mutex
	busy bool
}

// New creates an orchestrator. notify may be nil.
func New(cfg Config, audio Sequencer, servo Servo, led LED, notify Notifier, log *zap.SugaredLogger) *Orchestrator {
	if cfg.Policy == "" {
		cfg.Policy = AudioConcurrent
	}
	return &Orchestrator{
		cfg:    cfg,
		audio:  audio,
		servo:  servo,
		led:    led,
		notify: notify,
		log:    log,
	}
}

// IsBusy reports whether a cycle is currently running.
func (o *Orchestrator) IsBusy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// TryTrigger atomically claims the busy flag and, on success, runs a full
// cycle on its own goroutine and returns true. It returns false when a
// cycle is already running; in that case nothing happens. The check and
// the claim are one critical section so two near-simultaneous triggers
// can never both start.
func (o *Orchestrator) TryTrigger(ctx context.Context) bool {
	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		o.log.Infof("trigger ignored: %v", ErrAlreadyRunning)
		return false
	}
	o.busy = true
	o.mu.Unlock()

	go o.run(ctx)
	return true
}

// run executes one cycle and always clears busy, whatever happens inside.
func (o *Orchestrator) run(ctx context.Context) {
	defer func() {
		o.mu.Lock()
		o.busy = false
		o.mu.Unlock()
	}()

	o.log.Info("scare cycle started")
	o.broadcast("info", "scare cycle started")

	if err := o.cycle(ctx); err != nil {
		o.log.Errorf("scare cycle failed: %v", err)
		o.broadcast("error", "scare cycle failed: "+err.Error())
		return
	}

	o.log.Info("scare cycle completed")
	o.broadcast("info", "scare cycle completed")
}

func (o *Orchestrator) cycle(ctx context.Context) error {
	if err := o.led.Set(true); err != nil {
		// A dead status LED is not worth aborting the scare for.
		o.log.Warnf("led on failed: %v", err)
	}
	defer func() {
		if err := o.led.Set(false); err != nil {
			o.log.Warnf("led off failed: %v", err)
		}
	}()

	var audioDone chan error
	switch o.cfg.Policy {
	case AudioConcurrent:
		audioDone = make(chan error, 1)
		go func() {
			audioDone <- o.audio.PlaySequence(ctx, o.cfg.AudioDuration)
		}()
	default: // AudioSequential
		if err := o.audio.PlaySequence(ctx, o.cfg.AudioDuration); err != nil {
			return fmt.Errorf("audio: %w", err)
		}
	}

	delay := o.pickDelay()
	o.log.Infof("waiting %v before servo strike", delay.Round(time.Millisecond))
	if err := sleepCtx(ctx, delay); err != nil {
		return err
	}

	o.log.Info("servo strike")
	if err := o.servo.Sweep(o.cfg.RestAngle, o.cfg.ServoAngle); err != nil {
		return fmt.Errorf("servo: %w", err)
	}
	if err := o.servo.SetAngle(o.cfg.RestAngle); err != nil {
		return fmt.Errorf("servo: %w", err)
	}

	if audioDone != nil {
		if err := <-audioDone; err != nil {
			return fmt.Errorf("audio: %w", err)
		}
	}
	return nil
}

// pickDelay draws a uniform delay from [MinDelay, MaxDelay], inclusive.
func (o *Orchestrator) pickDelay() time.Duration {
	if o.cfg.MaxDelay <= o.cfg.MinDelay {
		return o.cfg.MinDelay
	}
	spread := int64(o.cfg.MaxDelay - o.cfg.MinDelay)
	return o.cfg.MinDelay + time.Duration(rand.Int64N(spread+1))
}

func (o *Orchestrator) broadcast(level, msg string) {
	if o.notify != nil {
		o.notify.Broadcast(level, msg)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
