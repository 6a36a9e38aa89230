// ardronectl flies a short demonstration sequence: take off, climb, turn, land.
// Ctrl-C lands the drone straight away.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SMerrony/ardrone"
)

// time allowed for the land command to go out before closing
const landGrace = 500 * time.Millisecond

func main() {
	if err := run(); err != nil {
		slog.Error("ardronectl failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "", "YAML configuration file")
	stub := flag.Bool("stub", false, "run without sending anything to the drone")
	hover := flag.Duration("hover", 3*time.Second, "time to hover after takeoff")
	flag.Parse()

	cfg, err := ardrone.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if *stub {
		cfg.Drone.StubMode = true
	}

	logger, closer := ardrone.NewLogger(cfg.Log)
	defer closer.Close()
	slog.SetDefault(logger)

	state := ardrone.NewFlightState()
	drone := ardrone.New(state, append(cfg.Options(), ardrone.WithLogger(logger))...)
	if err := drone.Connect(cfg.Drone.Host, cfg.Drone.Port); err != nil {
		return err
	}
	defer drone.Close()

	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	done := make(chan struct{})
	go func() {
		defer close(done)
		fly(state, *hover)
	}()

	select {
	case <-done:
	case s := <-sigs:
		logger.Warn("interrupted, landing", "signal", s.String())
		state.Stop()
	}

	state.Land()
	time.Sleep(landGrace)
	logger.Info("landed")
	return nil
}

func fly(state *ardrone.FlightState, hover time.Duration) {
	state.TakeOff()
	time.Sleep(hover)
	<-state.GoUpFor(ardrone.DefaultSpeed, time.Second)
	<-state.RotateRightFor(ardrone.DefaultRotateSpeed, 2*time.Second)
	time.Sleep(hover)
}
