package common

import "math"

// DecimalToFixed rounds num half away from zero to the given number of decimal places.
func DecimalToFixed(num float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	return math.Round(num*scale) / scale
}

// Ratio returns part/whole, or 0 when whole is 0.
func Ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
