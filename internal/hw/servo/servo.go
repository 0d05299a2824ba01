package servo

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/tricksterpi/trickster/internal/hw/gpio"
)

// cycleLen is the number of duty steps per PWM cycle. At 50Hz one step is
// 20us, fine enough for 1-degree servo resolution.
const cycleLen uint32 = 1000

// Config holds the hardware configuration for a hobby servo.
type Config struct {
	Pin         int           // BCM pin, must support hardware PWM
	PWMHz       int           // PWM frequency. 0 = 50Hz.
	StepDelay   time.Duration // delay per 1-degree sweep step. 0 = 10ms.
	SettleDelay time.Duration // pulse hold time for SetAngle. 0 = 500ms.
}

// Servo drives a standard hobby servo over hardware PWM.
type Servo struct {
	gpio gpio.Driver
	cfg  Config
	log  *zap.SugaredLogger
}

// New configures the PWM pin and returns a servo controller.
func New(g gpio.Driver, cfg Config, log *zap.SugaredLogger) (*Servo, error) {
	if cfg.PWMHz <= 0 {
		cfg.PWMHz = 50
	}
	if cfg.StepDelay <= 0 {
		cfg.StepDelay = 10 * time.Millisecond
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 500 * time.Millisecond
	}

	if err := g.SetupPWM(cfg.Pin, cfg.PWMHz, cycleLen); err != nil {
		return nil, fmt.Errorf("servo: setup PWM on pin %d: %w", cfg.Pin, err)
	}

	return &Servo{gpio: g, cfg: cfg, log: log}, nil
}

// dutyFor converts an angle in degrees to a duty length. The pulse width
// is 2% + angle/18 percent of the cycle, the usual 50Hz hobby-servo mapping.
func dutyFor(angleDeg float64) uint32 {
	percent := 2 + angleDeg/18
	return uint32(math.Round(percent / 100 * float64(cycleLen)))
}

func validAngle(deg float64) error {
	if deg < 0 || deg > 180 || math.IsNaN(deg) {
		return fmt.Errorf("servo: angle must be between 0 and 180, got %g", deg)
	}
	return nil
}

// SetAngle moves the servo to the given angle, holds the pulse long enough
// for the horn to arrive, then releases the signal so the servo stops
// drawing holding current.
func (s *Servo) SetAngle(deg float64) error {
	if err := validAngle(deg); err != nil {
		return err
	}

	s.log.Debugf("servo: set angle %.0f (pin %d)", deg, s.cfg.Pin)

	if err := s.gpio.SetPWMDuty(s.cfg.Pin, dutyFor(deg), cycleLen); err != nil {
		return fmt.Errorf("servo: set duty: %w", err)
	}
	time.Sleep(s.cfg.SettleDelay)
	return s.release()
}

// Sweep moves the servo smoothly from one angle to the other in 1-degree
// increments, then releases the signal.
func (s *Servo) Sweep(fromDeg, toDeg float64) error {
	if err := validAngle(fromDeg); err != nil {
		return err
	}
	if err := validAngle(toDeg); err != nil {
		return err
	}

	from := int(math.Round(fromDeg))
	to := int(math.Round(toDeg))
	step := 1
	if to < from {
		step = -1
	}

	s.log.Debugf("servo: sweeping %d -> %d (pin %d)", from, to, s.cfg.Pin)

	for a := from; ; a += step {
		if err := s.gpio.SetPWMDuty(s.cfg.Pin, dutyFor(float64(a)), cycleLen); err != nil {
			return fmt.Errorf("servo: set duty: %w", err)
		}
		if a == to {
			break
		}
		time.Sleep(s.cfg.StepDelay)
	}
	return s.release()
}

func (s *Servo) release() error {
	if err := s.gpio.SetPWMDuty(s.cfg.Pin, 0, cycleLen); err != nil {
		return fmt.Errorf("servo: release: %w", err)
	}
	return nil
}
