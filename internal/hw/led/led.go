// Package led drives the status LED lit while a scare cycle is running.
package led

import (
	"fmt"

	"github.com/tricksterpi/trickster/internal/hw/gpio"
)

// LED is a single output pin. A zero pin means no LED is fitted and all
// operations are no-ops.
type LED struct {
	gpio gpio.Driver
	pin  int
}

// New configures the pin as an output, off.
func New(g gpio.Driver, pin int) (*LED, error) {
	l := &LED{gpio: g, pin: pin}
	if pin <= 0 {
		return l, nil
	}
	if err := g.SetupPin(pin, gpio.Output); err != nil {
		return nil, fmt.Errorf("led: setup pin %d: %w", pin, err)
	}
	if err := g.WritePin(pin, gpio.Low); err != nil {
		return nil, fmt.Errorf("led: clear pin %d: %w", pin, err)
	}
	return l, nil
}

// Set turns the LED on or off.
func (l *LED) Set(on bool) error {
	if l.pin <= 0 {
		return nil
	}
	level := gpio.Low
	if on {
		level = gpio.High
	}
	if err := l.gpio.WritePin(l.pin, level); err != nil {
		return fmt.Errorf("led: write pin %d: %w", l.pin, err)
	}
	return nil
}
