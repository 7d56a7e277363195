package service

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoundingPrecision is the number of decimal places percentages are reported with.
const RoundingPrecision = 2

// round rounds a decimal to RoundingPrecision places (half away from zero) and returns it as float64.
// Arithmetic stays in decimal until this point so repeated derivations give identical results.
//
// Example:
//
//	round(decimal.RequireFromString("8.333333"))  // returns 8.33
//	round(decimal.RequireFromString("0.005"))     // returns 0.01
func round(value decimal.Decimal) float64 {
	f, _ := value.Round(RoundingPrecision).Float64()
	return f
}

// timestamp returns the current UTC time at the precision timestamps are stored with.
func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
