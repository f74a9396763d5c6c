// internal/registers/registers.go

// Package registers describes the addressable points of the LG Therma V
// R290 monobloc and the codecs for their raw values. No IO lives here.
package registers

import "fmt"

// Kind is one of the four addressable register classes.
type Kind uint8

const (
	Coil Kind = iota + 1
	DiscreteInput
	InputRegister
	HoldingRegister
)

func (k Kind) String() string {
	switch k {
	case Coil:
		return "coil"
	case DiscreteInput:
		return "discrete input"
	case InputRegister:
		return "input register"
	case HoldingRegister:
		return "holding register"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Point is one documented register.
// Number is the one-based number printed in the installer manual
// (00001/10001/30001/40001 series, series prefix stripped).
type Point struct {
	Kind   Kind
	Number uint16
}

// Wire returns the zero-based address sent on the bus.
// This is the ONLY place the documentation offset is applied.
func (p Point) Wire() uint16 {
	return p.Number - 1
}

func (p Point) String() string {
	return fmt.Sprintf("%s %d", p.Kind, p.Number)
}

// ---- COILS ----

var (
	// CoilPower enables or disables the unit (00001).
	CoilPower = Point{Coil, 1}
)

// ---- DISCRETE INPUTS ----

var (
	DiscreteWaterPump  = Point{DiscreteInput, 2}  // 10002: water pump running
	DiscreteCompressor = Point{DiscreteInput, 4}  // 10004: compressor running
	DiscreteError      = Point{DiscreteInput, 14} // 10014: error present
)

// ---- INPUT REGISTERS ----

var (
	InputErrorCode   = Point{InputRegister, 1}  // 30001: error code
	InputOduCycle    = Point{InputRegister, 2}  // 30002: ODU operation cycle
	InputReturnTemp  = Point{InputRegister, 3}  // 30003: water inlet (return)
	InputFlowTemp    = Point{InputRegister, 4}  // 30004: water outlet (flow)
	InputFlowRate    = Point{InputRegister, 9}  // 30009: current flow rate
	InputOutdoorTemp = Point{InputRegister, 13} // 30013: outdoor air
	InputPressure    = Point{InputRegister, 14} // 30014: water pressure
)

// ---- HOLDING REGISTERS ----

var (
	HoldingModeSetting   = Point{HoldingRegister, 1}  // 40001: operating mode setting
	HoldingControlMethod = Point{HoldingRegister, 2}  // 40002: control method
	HoldingTargetTemp    = Point{HoldingRegister, 3}  // 40003: target temp circuit 1
	HoldingAutoOffset    = Point{HoldingRegister, 5}  // 40005: auto mode offset
	HoldingEnergyState   = Point{HoldingRegister, 10} // 40010: energy state input
)

// ---- BANK GEOMETRY ----

// One poll cycle reads each class as a single block starting at its
// first documented register.
var (
	CoilBank          = Point{Coil, 1}
	DiscreteInputBank = Point{DiscreteInput, 1}
	InputRegisterBank = Point{InputRegister, 1}
	HoldingBank       = Point{HoldingRegister, 1}
)

const (
	CoilBankSize          = 1
	DiscreteInputBankSize = 14
	InputRegisterBankSize = 14
	HoldingBankSize       = 10
)

// ---- LIMITS ----

const (
	TargetTempMin = 20.0 // °C
	TargetTempMax = 60.0 // °C
	OffsetMin     = -5   // K
	OffsetMax     = 5    // K
)

// ControlMethodWaterOutlet steers on water outlet temperature.
// The unit also knows water-inlet (1) and room-air (2) control;
// this controller always uses outlet control.
const ControlMethodWaterOutlet uint16 = 0

// EnergyStateNotUsed is the idle value of the energy state input.
// Polling cadence alone keeps the unit in external control, so the
// register is left at this value.
const EnergyStateNotUsed uint16 = 0
