// cmd/heatpump-mock/main.go

// heatpump-mock serves a fake LG R290 on Modbus TCP so the daemon and
// CLI can be exercised without hardware.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stephan-aichholzer/lg-r290-control/internal/logging"
	"github.com/stephan-aichholzer/lg-r290-control/internal/mockdev"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:1502", "listen address")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := logging.New(logging.Config{Level: *level})

	dev := mockdev.New(*addr, log)
	if err := dev.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "heatpump-mock: %v\n", err)
		os.Exit(1)
	}
}
