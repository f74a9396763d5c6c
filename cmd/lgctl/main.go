// cmd/lgctl/main.go

// lgctl talks to the heat pump directly over Modbus, bypassing the
// daemon. Meant for commissioning and for manual control when
// heatpumpd is down.
//
//	lgctl -addr 192.168.2.50:502 status
//	lgctl -addr 192.168.2.50:502 on
//	lgctl -addr 192.168.2.50:502 temp 42.5
//	lgctl -addr 192.168.2.50:502 offset -2
//	lgctl -addr 192.168.2.50:502 mode heat
//	lgctl -addr 192.168.2.50:502 raw
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/stephan-aichholzer/lg-r290-control/internal/logging"
	"github.com/stephan-aichholzer/lg-r290-control/internal/poller"
	"github.com/stephan-aichholzer/lg-r290-control/internal/registers"
	"github.com/stephan-aichholzer/lg-r290-control/internal/status"
	"github.com/stephan-aichholzer/lg-r290-control/internal/transport"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:502", "gateway address host:port")
	unit := flag.Int("unit", 1, "Modbus unit id")
	timeout := flag.Duration("timeout", 5*time.Second, "per-request timeout")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	if err := run(*addr, byte(*unit), *timeout, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "lgctl: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: lgctl [-addr host:port] [-unit id] status|on|off|temp <°C>|offset <K>|mode cool|auto|heat|raw")
}

func run(addr string, unit byte, timeout time.Duration, args []string) error {
	log := logging.New(logging.Config{Level: "warn"})

	client, err := transport.New(transport.Config{
		Address:  addr,
		UnitID:   unit,
		Timeout:  timeout,
		Attempts: transport.DefaultAttempts,
	}, log)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		return err
	}

	switch cmd := args[0]; cmd {
	case "status":
		return printStatus(ctx, client)

	case "on":
		if err := client.WriteCoil(ctx, registers.CoilPower, true); err != nil {
			return err
		}
		fmt.Println("power on")
		return nil

	case "off":
		if err := client.WriteCoil(ctx, registers.CoilPower, false); err != nil {
			return err
		}
		fmt.Println("power off")
		return nil

	case "temp":
		if len(args) < 2 {
			return fmt.Errorf("temp: temperature argument required")
		}
		deg, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("temp: %q is not a number", args[1])
		}
		if deg < registers.TargetTempMin || deg > registers.TargetTempMax {
			return fmt.Errorf("temp: %.1f outside [%.0f, %.0f]",
				deg, registers.TargetTempMin, registers.TargetTempMax)
		}
		if err := client.WriteRegister(ctx, registers.HoldingTargetTemp, registers.EncodeTemp(deg)); err != nil {
			return err
		}
		fmt.Printf("target temperature %.1f°C\n", deg)
		return nil

	case "offset":
		if len(args) < 2 {
			return fmt.Errorf("offset: value argument required")
		}
		k, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("offset: %q is not an integer", args[1])
		}
		if k < registers.OffsetMin || k > registers.OffsetMax {
			return fmt.Errorf("offset: %d outside [%d, %d]", k, registers.OffsetMin, registers.OffsetMax)
		}
		if err := client.WriteRegister(ctx, registers.HoldingAutoOffset, registers.EncodeOffset(k)); err != nil {
			return err
		}
		fmt.Printf("auto mode offset %+dK\n", k)
		return nil

	case "mode":
		if len(args) < 2 {
			return fmt.Errorf("mode: name argument required (cool|auto|heat)")
		}
		m, err := registers.ParseModeSetting(args[1])
		if err != nil {
			return err
		}
		if err := client.WriteRegister(ctx, registers.HoldingModeSetting, uint16(m)); err != nil {
			return err
		}
		fmt.Printf("mode %s\n", m)
		return nil

	case "raw":
		return printRaw(ctx, client)

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// printStatus runs one poll cycle and renders it for humans.
func printStatus(ctx context.Context, client *transport.Client) error {
	p, err := poller.New(poller.Config{}, client, status.NewMemoryCache(), nil, poller.Hooks{})
	if err != nil {
		return err
	}
	snap, err := p.PollOnce(ctx)
	if err != nil {
		return err
	}

	power := "off"
	if snap.PowerOn {
		power = "on"
	}
	fmt.Printf("power:          %s\n", power)
	fmt.Printf("operating mode: %s\n", snap.OperatingMode)
	fmt.Printf("mode setting:   %s\n", snap.ModeSetting)
	fmt.Printf("flow:           %5.1f °C\n", snap.FlowTemp)
	fmt.Printf("return:         %5.1f °C\n", snap.ReturnTemp)
	fmt.Printf("delta T:        %5.1f K\n", snap.Delta())
	fmt.Printf("target:         %5.1f °C\n", snap.TargetTemp)
	fmt.Printf("outdoor:        %5.1f °C\n", snap.OutdoorTemp)
	fmt.Printf("flow rate:      %5.1f l/min\n", snap.FlowRate)
	fmt.Printf("pressure:       %5.1f bar\n", snap.WaterPressure)
	fmt.Printf("offset:         %+d K\n", snap.AutoModeOffset)
	fmt.Printf("compressor:     %v\n", snap.CompressorOn)
	fmt.Printf("water pump:     %v\n", snap.WaterPumpOn)
	if snap.HasError {
		fmt.Printf("ERROR CODE:     %d\n", snap.ErrorCode)
	}
	return nil
}

// printRaw dumps all four banks undecoded.
func printRaw(ctx context.Context, client *transport.Client) error {
	coils, err := client.ReadCoils(ctx, registers.CoilBank, registers.CoilBankSize)
	if err != nil {
		return err
	}
	discrete, err := client.ReadDiscreteInputs(ctx, registers.DiscreteInputBank, registers.DiscreteInputBankSize)
	if err != nil {
		return err
	}
	input, err := client.ReadInputRegisters(ctx, registers.InputRegisterBank, registers.InputRegisterBankSize)
	if err != nil {
		return err
	}
	holding, err := client.ReadHoldingRegisters(ctx, registers.HoldingBank, registers.HoldingBankSize)
	if err != nil {
		return err
	}

	fmt.Printf("coils:             %v\n", coils)
	fmt.Printf("discrete inputs:   %v\n", discrete)
	fmt.Printf("input registers:   %v\n", input)
	fmt.Printf("holding registers: %v\n", holding)
	return nil
}
