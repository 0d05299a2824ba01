package gpio

import (
	"go.uber.org/zap"
)

// Level represents the logical state of a GPIO pin.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// PinMode indicates how a GPIO pin is configured.
type PinMode int

const (
	Input PinMode = iota
	InputPullUp
	Output
	PWM
)

// Edge selects which transition arms the edge-detect flag of an input pin.
type Edge int

const (
	NoEdge Edge = iota
	FallEdge
	RiseEdge
)

// Driver defines the abstract interface for controlling GPIOs.
// This allows plugging in a real Raspberry Pi implementation
// or a mock for development on PC.
type Driver interface {
	SetupPin(pin int, mode PinMode) error
	WritePin(pin int, level Level) error
	ReadPin(pin int) (Level, error)

	// SetupPWM configures pin as a PWM output running at freqHz with
	// cycleLen duty steps per cycle.
	SetupPWM(pin int, freqHz int, cycleLen uint32) error
	// SetPWMDuty sets the duty cycle of a PWM pin to dutyLen out of
	// cycleLen steps. dutyLen 0 stops the pulse.
	SetPWMDuty(pin int, dutyLen, cycleLen uint32) error

	// DetectEdge arms edge detection on an input pin.
	DetectEdge(pin int, edge Edge) error
	// EdgeDetected reports whether the armed edge occurred since the last
	// call, clearing the flag.
	EdgeDetected(pin int) (bool, error)

	Close() error
}

// NewDriver creates a GPIO driver based on the chosen mode.
// If mock is true, returns a MockDriver (for dev/test).
// If mock is false, returns a real RPiDriver (for Raspberry Pi).
func NewDriver(mock bool, log *zap.SugaredLogger) (Driver, error) {
	if mock {
		log.Info("using mock GPIO driver (development mode)")
		return NewMockDriver(), nil
	}
	return NewRPiDriver(log)
}
