package gpio

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
	"go.uber.org/zap"
)

// RPiDriver is the real implementation for Raspberry Pi using go-rpio.
type RPiDriver struct {
	pins map[int]rpio.Pin
	log  *zap.SugaredLogger
}

// NewRPiDriver creates a real GPIO driver for Raspberry Pi.
// Requires running on a Raspberry Pi with access to /dev/gpiomem or as root.
func NewRPiDriver(log *zap.SugaredLogger) (*RPiDriver, error) {
	log.Info("initializing real GPIO driver (go-rpio)")

	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open GPIO: %w (are you running on a Raspberry Pi?)", err)
	}

	return &RPiDriver{
		pins: make(map[int]rpio.Pin),
		log:  log,
	}, nil
}

func (r *RPiDriver) pin(pin int) rpio.Pin {
	p, ok := r.pins[pin]
	if !ok {
		p = rpio.Pin(pin)
		r.pins[pin] = p
	}
	return p
}

func (r *RPiDriver) SetupPin(pin int, mode PinMode) error {
	r.log.Debugf("gpio: setup pin=%d mode=%d", pin, mode)

	p := r.pin(pin)
	switch mode {
	case Input:
		p.Input()
	case InputPullUp:
		p.Input()
		p.PullUp()
	case Output:
		p.Output()
	case PWM:
		p.Pwm()
	default:
		return fmt.Errorf("unknown pin mode: %d", mode)
	}
	return nil
}

func (r *RPiDriver) WritePin(pin int, level Level) error {
	r.log.Debugf("gpio: write pin=%d level=%v", pin, level)

	p := r.pin(pin)
	if level == High {
		p.High()
	} else {
		p.Low()
	}
	return nil
}

func (r *RPiDriver) ReadPin(pin int) (Level, error) {
	if r.pin(pin).Read() == rpio.High {
		return High, nil
	}
	return Low, nil
}

func (r *RPiDriver) SetupPWM(pin int, freqHz int, cycleLen uint32) error {
	r.log.Debugf("gpio: setup PWM pin=%d freq=%dHz cycle=%d", pin, freqHz, cycleLen)

	p := r.pin(pin)
	p.Pwm()
	// go-rpio takes the PWM clock frequency; the pin frequency is
	// clock/cycleLen.
	p.Freq(freqHz * int(cycleLen))
	p.DutyCycle(0, cycleLen)
	return nil
}

func (r *RPiDriver) SetPWMDuty(pin int, dutyLen, cycleLen uint32) error {
	r.log.Debugf("gpio: PWM duty pin=%d duty=%d/%d", pin, dutyLen, cycleLen)

	r.pin(pin).DutyCycle(dutyLen, cycleLen)
	return nil
}

func (r *RPiDriver) DetectEdge(pin int, edge Edge) error {
	p := r.pin(pin)
	switch edge {
	case NoEdge:
		p.Detect(rpio.NoEdge)
	case FallEdge:
		p.Detect(rpio.FallEdge)
	case RiseEdge:
		p.Detect(rpio.RiseEdge)
	default:
		return fmt.Errorf("unknown edge: %d", edge)
	}
	return nil
}

func (r *RPiDriver) EdgeDetected(pin int) (bool, error) {
	return r.pin(pin).EdgeDetected(), nil
}

func (r *RPiDriver) Close() error {
	// Reset all pins to input (safe state) and disarm edge detection.
	for pin, p := range r.pins {
		r.log.Debugf("gpio: resetting pin %d to input", pin)
		p.Detect(rpio.NoEdge)
		p.Input()
	}
	return rpio.Close()
}
