// cmd/heatpumpd/main.go

// heatpumpd polls an LG R290 heat pump over a shared Modbus gateway,
// keeps a status cache and Prometheus metrics, runs the adaptive
// heating-curve loop, and serves the control API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/stephan-aichholzer/lg-r290-control/internal/api"
	"github.com/stephan-aichholzer/lg-r290-control/internal/config"
	"github.com/stephan-aichholzer/lg-r290-control/internal/controller"
	"github.com/stephan-aichholzer/lg-r290-control/internal/curve"
	"github.com/stephan-aichholzer/lg-r290-control/internal/logging"
	"github.com/stephan-aichholzer/lg-r290-control/internal/metrics"
	"github.com/stephan-aichholzer/lg-r290-control/internal/mqtt"
	"github.com/stephan-aichholzer/lg-r290-control/internal/poller"
	"github.com/stephan-aichholzer/lg-r290-control/internal/schedule"
	"github.com/stephan-aichholzer/lg-r290-control/internal/status"
	"github.com/stephan-aichholzer/lg-r290-control/internal/thermostat"
	"github.com/stephan-aichholzer/lg-r290-control/internal/transport"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *cfgPath); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "heatpumpd: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string) error {

	// --------------------
	// Config + logging
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	log := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	log.Info("heatpumpd starting", "config", cfgPath)

	// --------------------
	// Transport + cache
	// --------------------

	gateway := fmt.Sprintf("%s:%d", cfg.Connection.Host, cfg.Connection.Port)
	client, err := transport.New(transport.Config{
		Address:    gateway,
		UnitID:     byte(cfg.Connection.UnitID),
		Timeout:    cfg.Connection.Timeout(),
		Attempts:   cfg.Connection.Attempts,
		RetryDelay: cfg.Connection.RetryDelay(),
		RequestGap: cfg.Connection.RequestGap(),
	}, log)
	if err != nil {
		return err
	}

	cache, err := status.NewFileCache(cfg.Polling.StatusFile)
	if err != nil {
		return err
	}
	log.Info("status cache", "path", cache.Path())

	// --------------------
	// Metrics + MQTT
	// --------------------

	m := metrics.New()

	var pub *mqtt.Publisher
	if cfg.MQTT.BrokerURL != "" {
		pub, err = mqtt.Connect(mqtt.Config{
			BrokerURL: cfg.MQTT.BrokerURL,
			ClientID:  cfg.MQTT.ClientID,
			Username:  cfg.MQTT.Username,
			Password:  cfg.MQTT.Password,
			Prefix:    cfg.MQTT.TopicPrefix,
		}, log)
		if err != nil {
			// The heating must not depend on the broker being up.
			log.Warn("mqtt unavailable, continuing without", "err", err)
			pub = nil
		} else {
			defer pub.Close()
		}
	}

	// --------------------
	// Poller
	// --------------------

	hooks := poller.Hooks{
		OnSnapshot: func(s status.Snapshot) {
			m.ObserveSnapshot(s)
			if pub != nil {
				if err := pub.PublishSnapshot(s); err != nil {
					log.Warn("mqtt publish failed", "err", err)
				}
			}
		},
		OnFailure:   func(error) { m.PollFailure() },
		OnReconnect: func() { m.Reconnect() },
	}

	p, err := poller.New(poller.Config{
		Interval:       cfg.Polling.Interval(),
		FailureLimit:   cfg.Polling.FailureLimit,
		ReconnectPause: cfg.Polling.ReconnectPause(),
	}, client, cache, log, hooks)
	if err != nil {
		return err
	}

	// --------------------
	// Curve policy + controller
	// --------------------

	curves := curve.NewStore(cfg.Controller.CurvesFile, log)

	var room *thermostat.Client
	if cfg.Controller.ThermostatURL != "" {
		room = thermostat.New(cfg.Controller.ThermostatURL, 0)
		log.Info("thermostat", "url", cfg.Controller.ThermostatURL)
	} else {
		log.Info("no thermostat configured, using device outdoor sensor")
	}

	ctl, err := buildController(cfg, client, cache, curves, room, log)
	if err != nil {
		return err
	}
	if !cfg.Controller.IsEnabled() {
		ctl.SetEnabled(false)
	}

	// --------------------
	// Scheduler (needs the thermostat)
	// --------------------

	var schedules *schedule.Store
	var schedRunner *schedule.Runner
	if cfg.Controller.ScheduleFile != "" {
		schedules = schedule.NewStore(cfg.Controller.ScheduleFile, log)
		if room != nil {
			schedRunner = schedule.NewRunner(schedules, room, ctl, log)
		} else {
			log.Warn("schedule_file set without thermostat_url, scheduling disabled")
		}
	}

	// --------------------
	// API
	// --------------------

	srv, err := api.New(api.Deps{
		Listen:     cfg.API.Listen,
		StaleAfter: cfg.API.StaleAfter(),
		Log:        log,
		Cache:      cache,
		Commands:   ctl,
		Schedules:  schedules,
		Raw:        client,
		Metrics:    m.Handler(),
	})
	if err != nil {
		return err
	}

	// --------------------
	// Run everything under one context
	// --------------------

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	var wg sync.WaitGroup
	start := func(name string, run func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("component stopped", "component", name, "err", err)
				stop()
			}
		}()
	}

	start("poller", p.Run)
	start("controller", ctl.Run)
	if schedRunner != nil {
		start("scheduler", schedRunner.Run)
	}
	start("api", srv.Run)

	<-runCtx.Done()
	log.Info("shutting down")
	wg.Wait()

	if err := client.Close(); err != nil {
		log.Warn("transport close", "err", err)
	}
	log.Info("heatpumpd stopped")
	return ctx.Err()
}

// buildController exists to keep the nil-thermostat case a true nil
// interface inside the controller.
func buildController(cfg *config.Config, client *transport.Client, cache status.Cache, curves *curve.Store, room *thermostat.Client, log *slog.Logger) (*controller.Controller, error) {
	ctlCfg := controller.Config{
		Interval:          cfg.Controller.Interval(),
		DefaultRoomTarget: cfg.Controller.DefaultRoomTarget,
		Threshold:         cfg.Controller.AdjustThreshold,
		PowerOnSettle:     cfg.Controller.PowerOnSettle(),
	}
	if room == nil {
		return controller.New(ctlCfg, client, cache, curves, nil, log)
	}
	return controller.New(ctlCfg, client, cache, curves, room, log)
}
