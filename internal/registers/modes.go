// internal/registers/modes.go
package registers

import "fmt"

// OperatingMode is the ODU operation cycle reported in input register 2.
type OperatingMode uint16

const (
	ModeStandby OperatingMode = 0
	ModeCooling OperatingMode = 1
	ModeHeating OperatingMode = 2
	ModeAuto    OperatingMode = 3
)

func (m OperatingMode) String() string {
	switch m {
	case ModeStandby:
		return "standby"
	case ModeCooling:
		return "cooling"
	case ModeHeating:
		return "heating"
	case ModeAuto:
		return "auto"
	default:
		return fmt.Sprintf("mode(%d)", uint16(m))
	}
}

// Active reports whether the cycle implies the compressor and water
// pump are running.
func (m OperatingMode) Active() bool {
	return m == ModeCooling || m == ModeHeating
}

// ModeSetting is the requested operating mode in holding register 1.
// The enumeration is sparse; 1 and 2 are not assigned on this unit.
type ModeSetting uint16

const (
	SettingCool ModeSetting = 0
	SettingAuto ModeSetting = 3
	SettingHeat ModeSetting = 4
)

func (m ModeSetting) String() string {
	switch m {
	case SettingCool:
		return "cool"
	case SettingAuto:
		return "auto"
	case SettingHeat:
		return "heat"
	default:
		return fmt.Sprintf("setting(%d)", uint16(m))
	}
}

// Valid reports whether the value is one of the assigned settings.
func (m ModeSetting) Valid() bool {
	return m == SettingCool || m == SettingAuto || m == SettingHeat
}

// ParseModeSetting maps a user-facing mode name onto its register value.
func ParseModeSetting(s string) (ModeSetting, error) {
	switch s {
	case "cool":
		return SettingCool, nil
	case "auto":
		return SettingAuto, nil
	case "heat":
		return SettingHeat, nil
	default:
		return 0, fmt.Errorf("registers: unknown mode %q", s)
	}
}
