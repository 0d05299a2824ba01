package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tricksterpi/trickster/internal/audio"
	"github.com/tricksterpi/trickster/internal/config"
	"github.com/tricksterpi/trickster/internal/hw/button"
	"github.com/tricksterpi/trickster/internal/hw/gpio"
	"github.com/tricksterpi/trickster/internal/hw/led"
	"github.com/tricksterpi/trickster/internal/hw/servo"
	"github.com/tricksterpi/trickster/internal/logger"
	"github.com/tricksterpi/trickster/internal/logic/scare"
	"github.com/tricksterpi/trickster/internal/web"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "trickster",
	Short: "Raspberry Pi Halloween prop controller",
	Long: `Trickster runs a Halloween prop on a Raspberry Pi: a button press (or an
HTTP request) starts a randomized audio sequence, waits a random suspense
delay, then fires a servo. A small HTTP API exposes playback, trigger,
status, inventory and reload operations.`,
	SilenceUsage: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c",
		filepath.Join("configs", "default.yaml"), "path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log := logger.New(level)
	defer log.Sync()

	// Hardware and audio devices must come up or startup aborts.
	drv, err := gpio.NewDriver(cfg.Hardware.MockGPIO, log)
	if err != nil {
		return fmt.Errorf("init GPIO: %w", err)
	}
	defer func() {
		if err := drv.Close(); err != nil {
			log.Errorf("closing GPIO driver: %v", err)
		}
	}()

	prop, err := servo.New(drv, servo.Config{
		Pin:   cfg.Hardware.ServoPin,
		PWMHz: cfg.Hardware.ServoPWMHz,
	}, log)
	if err != nil {
		return err
	}

	statusLED, err := led.New(drv, cfg.Hardware.LedPin)
	if err != nil {
		return err
	}

	lib := audio.NewLibrary(cfg.Audio.Folder, log)
	if _, err := lib.Reload(); err != nil {
		return fmt.Errorf("load audio library: %w", err)
	}
	player := audio.NewExecPlayer(cfg.Audio.Players, log)
	manager := audio.NewManager(lib, player, cfg.MinPause(), cfg.MaxPause(), log)

	broadcaster := web.NewEventBroadcaster()

	orch := scare.New(scare.Config{
		AudioDuration: cfg.SequenceDuration(),
		MinDelay:      cfg.MinDelay(),
		MaxDelay:      cfg.MaxDelay(),
		ServoAngle:    cfg.Scare.ServoAngleDeg,
		RestAngle:     cfg.Scare.RestAngleDeg,
		Policy:        scare.AudioPolicy(cfg.Scare.AudioPolicy),
	}, manager, prop, statusLED, broadcaster, log)

	// The physical button and the HTTP API are two producers feeding the
	// same serialized trigger.
	watcher, err := button.NewWatcher(drv, button.Config{Pin: cfg.Hardware.ButtonPin}, func() {
		orch.TryTrigger(ctx)
	}, log)
	if err != nil {
		return err
	}
	go func() {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorf("button watcher stopped: %v", err)
		}
	}()

	handlers := web.NewHandlers(ctx, orch, manager, broadcaster, log)
	server := web.NewServer(cfg.Server.ListenAddr, handlers, log)

	log.Infof("trickster ready: %d clips loaded, button on pin %d, servo on pin %d",
		lib.Count(), cfg.Hardware.ButtonPin, cfg.Hardware.ServoPin)

	return server.Run(ctx)
}
