package slidedom

import "math"

// EMU (English Metric Units) conversion helpers.
// 1 inch = 914400 EMU, 1 point = 12700 EMU, 1 cm = 360000 EMU.
// The public API speaks points; shapes store EMU.

const (
	emuPerInch       = 914400
	emuPerPoint      = 12700
	emuPerCentimeter = 360000
	// maxEMU is the maximum safe EMU value to prevent overflow.
	maxEMU = math.MaxInt64 / 2

	// rotation is persisted in 60000ths of a degree
	rotationUnit = 60000
)

// Inch converts inches to points.
func Inch(n float64) float64 { return n * 72 }

// Centimeter converts centimeters to points.
func Centimeter(n float64) float64 { return n * emuPerCentimeter / emuPerPoint }

// pointsToEMU converts points to EMU, clamping to the safe range.
func pointsToEMU(pt float64) int64 {
	return clampEMU(math.Round(pt * emuPerPoint))
}

// emuToPoints converts EMU to points.
func emuToPoints(emu int64) float64 {
	return float64(emu) / emuPerPoint
}

// clampEMU converts a float64 to int64, clamping to prevent overflow.
func clampEMU(v float64) int64 {
	if v > float64(maxEMU) {
		return maxEMU
	}
	if v < -float64(maxEMU) {
		return -maxEMU
	}
	return int64(v)
}
