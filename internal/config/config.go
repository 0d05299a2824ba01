package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// HardwareConfig holds GPIO pin assignments (BCM numbering).
type HardwareConfig struct {
	ButtonPin  int  `yaml:"button_pin"`   // momentary push button, pull-up, active LOW
	ServoPin   int  `yaml:"servo_pin"`    // must be a hardware PWM pin (12, 13, 18 or 19)
	LedPin     int  `yaml:"led_pin"`      // status LED. 0 = not fitted.
	ServoPWMHz int  `yaml:"servo_pwm_hz"` // servo PWM frequency (Hz)
	MockGPIO   bool `yaml:"mock_gpio"`    // use mock GPIO (true=dev/test, false=real Raspberry Pi)
}

// AudioConfig describes the clip library and playback behavior.
type AudioConfig struct {
	Folder            string            `yaml:"folder"`              // directory scanned for .wav/.mp3 clips
	SequenceDurationS float64           `yaml:"sequence_duration_s"` // minimum total length of a scare audio sequence
	MinPauseS         float64           `yaml:"min_pause_s"`         // minimum pause between clips in a sequence
	MaxPauseS         float64           `yaml:"max_pause_s"`         // maximum pause between clips in a sequence
	Players           map[string]string `yaml:"players"`             // file extension -> player command, e.g. wav: aplay
}

// ScareConfig controls the scare cycle timing and servo motion.
type ScareConfig struct {
	MinDelayS     float64 `yaml:"min_delay_s"`     // minimum suspense delay before the servo fires
	MaxDelayS     float64 `yaml:"max_delay_s"`     // maximum suspense delay before the servo fires
	ServoAngleDeg float64 `yaml:"servo_angle_deg"` // target angle of the scare strike
	RestAngleDeg  float64 `yaml:"rest_angle_deg"`  // angle the servo returns to after the strike
	AudioPolicy   string  `yaml:"audio_policy"`    // "concurrent" (audio overlaps the delay) or "sequential"
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"` // e.g. ":5000"
}

// Config aggregates all application configuration.
type Config struct {
	Hardware HardwareConfig `yaml:"hardware"`
	Audio    AudioConfig    `yaml:"audio"`
	Scare    ScareConfig    `yaml:"scare"`
	Server   ServerConfig   `yaml:"server"`
	LogLevel string         `yaml:"log_level"`
}

// Load reads a YAML file and returns the validated configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	// Basic validation
	if cfg.Hardware.ButtonPin <= 0 {
		return nil, fmt.Errorf("hardware.button_pin is required")
	}
	if cfg.Hardware.ServoPin <= 0 {
		return nil, fmt.Errorf("hardware.servo_pin is required")
	}
	if cfg.Hardware.LedPin < 0 {
		return nil, fmt.Errorf("hardware.led_pin must be >= 0, got %d", cfg.Hardware.LedPin)
	}
	if cfg.Audio.Folder == "" {
		return nil, fmt.Errorf("audio.folder is required")
	}
	if cfg.Audio.MinPauseS < 0 || cfg.Audio.MaxPauseS < 0 {
		return nil, fmt.Errorf("audio pauses must be >= 0")
	}
	if cfg.Scare.MinDelayS < 0 || cfg.Scare.MaxDelayS < 0 {
		return nil, fmt.Errorf("scare delays must be >= 0")
	}
	if cfg.Scare.ServoAngleDeg < 0 || cfg.Scare.ServoAngleDeg > 180 {
		return nil, fmt.Errorf("scare.servo_angle_deg must be between 0 and 180, got %.1f", cfg.Scare.ServoAngleDeg)
	}
	if cfg.Scare.RestAngleDeg < 0 || cfg.Scare.RestAngleDeg > 180 {
		return nil, fmt.Errorf("scare.rest_angle_deg must be between 0 and 180, got %.1f", cfg.Scare.RestAngleDeg)
	}

	// Defaults
	if cfg.Hardware.ServoPWMHz <= 0 {
		cfg.Hardware.ServoPWMHz = 50 // standard hobby servo frequency
	}
	if cfg.Audio.SequenceDurationS <= 0 {
		cfg.Audio.SequenceDurationS = 60
	}
	if cfg.Audio.MinPauseS == 0 && cfg.Audio.MaxPauseS == 0 {
		cfg.Audio.MinPauseS = 0.5
		cfg.Audio.MaxPauseS = 2.0
	}
	if cfg.Audio.Players == nil {
		cfg.Audio.Players = map[string]string{
			"wav": "aplay",
			"mp3": "mpg123",
		}
	}
	if cfg.Scare.MinDelayS == 0 && cfg.Scare.MaxDelayS == 0 {
		cfg.Scare.MinDelayS = 10
		cfg.Scare.MaxDelayS = 20
	}
	if cfg.Scare.ServoAngleDeg == 0 {
		cfg.Scare.ServoAngleDeg = 160
	}
	if cfg.Scare.AudioPolicy == "" {
		cfg.Scare.AudioPolicy = "concurrent"
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":5000"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	// Cross-field validation after defaulting
	if cfg.Audio.MaxPauseS < cfg.Audio.MinPauseS {
		return nil, fmt.Errorf("audio.max_pause_s (%.2f) must be >= audio.min_pause_s (%.2f)",
			cfg.Audio.MaxPauseS, cfg.Audio.MinPauseS)
	}
	if cfg.Scare.MaxDelayS < cfg.Scare.MinDelayS {
		return nil, fmt.Errorf("scare.max_delay_s (%.2f) must be >= scare.min_delay_s (%.2f)",
			cfg.Scare.MaxDelayS, cfg.Scare.MinDelayS)
	}
	if cfg.Scare.AudioPolicy != "concurrent" && cfg.Scare.AudioPolicy != "sequential" {
		return nil, fmt.Errorf("scare.audio_policy must be %q or %q, got %q", "concurrent", "sequential", cfg.Scare.AudioPolicy)
	}

	return &cfg, nil
}

// SequenceDuration returns the minimum total duration of a scare audio sequence.
func (c *Config) SequenceDuration() time.Duration {
	return secondsToDuration(c.Audio.SequenceDurationS)
}

// MinPause returns the minimum pause between clips in an audio sequence.
func (c *Config) MinPause() time.Duration {
	return secondsToDuration(c.Audio.MinPauseS)
}

// MaxPause returns the maximum pause between clips in an audio sequence.
func (c *Config) MaxPause() time.Duration {
	return secondsToDuration(c.Audio.MaxPauseS)
}

// MinDelay returns the minimum suspense delay before servo activation.
func (c *Config) MinDelay() time.Duration {
	return secondsToDuration(c.Scare.MinDelayS)
}

// MaxDelay returns the maximum suspense delay before servo activation.
func (c *Config) MaxDelay() time.Duration {
	return secondsToDuration(c.Scare.MaxDelayS)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
