package envmodel

import "math"

// Temperature models diurnal ambient temperature as a cosine wave with one
// minimum and one maximum per day, phase-aligned so the maximum falls at
// PeakHour.
type Temperature struct {
	MinC     float64
	MaxC     float64
	PeakHour float64
}

// At returns the ambient temperature in °C at the given hour of day.
func (t Temperature) At(hour float64) float64 {
	hour = math.Mod(hour, 24)
	if hour < 0 {
		hour += 24
	}

	mean := (t.MinC + t.MaxC) / 2
	amplitude := (t.MaxC - t.MinC) / 2
	phase := (hour - t.PeakHour) * (2 * math.Pi / 24)

	return mean + amplitude*math.Cos(phase)
}
