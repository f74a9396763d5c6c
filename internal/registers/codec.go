// internal/registers/codec.go
package registers

import "math"

// DecodeTemp converts a raw register into °C.
// The unit stores temperatures as two's-complement 16-bit values with
// 0.1°C resolution: 350 is 35.0°C, 65486 is -5.0°C.
func DecodeTemp(raw uint16) float64 {
	return float64(int16(raw)) / 10.0
}

// EncodeTemp converts °C into the raw fixed-point representation.
// Exact for every one-decimal value in -3276.8..3276.7.
func EncodeTemp(c float64) uint16 {
	return uint16(int16(math.Round(c * 10.0)))
}

// DecodeScaled converts a raw unsigned ×10 reading (flow rate, pressure).
func DecodeScaled(raw uint16) float64 {
	return float64(raw) / 10.0
}

// DecodeOffset converts the raw auto-mode offset into Kelvin.
func DecodeOffset(raw uint16) int {
	return int(int16(raw))
}

// EncodeOffset converts a Kelvin offset into its raw representation.
func EncodeOffset(k int) uint16 {
	return uint16(int16(k))
}
