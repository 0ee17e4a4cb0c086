// Package envmodel provides the built-in environmental models: pure,
// deterministic functions of hour-of-day (periodic with period 24) for solar
// generation, ambient temperature and cooling power demand.
package envmodel

import "math"

// Solar models rooftop photovoltaic generation: zero outside the daylight
// window, a half-sine inside it peaking at the window midpoint, scaled by
// installed capacity and conversion efficiency.
type Solar struct {
	CapacityKW  float64
	Efficiency  float64
	SunriseHour float64
	SunsetHour  float64
}

// PowerAt returns the available solar power in kW at the given hour of day.
// Fractional hours are permitted and the curve wraps every 24 hours.
func (s Solar) PowerAt(hour float64) float64 {
	hour = math.Mod(hour, 24)
	if hour < 0 {
		hour += 24
	}

	if hour < s.SunriseHour || hour > s.SunsetHour {
		return 0
	}

	// Map the daylight window onto [0, pi] so generation vanishes at both
	// edges and peaks at solar noon.
	daylight := s.SunsetHour - s.SunriseHour
	angle := math.Pi * (hour - s.SunriseHour) / daylight

	return s.CapacityKW * s.Efficiency * math.Sin(angle)
}

// PeakKW returns the generation at solar noon.
func (s Solar) PeakKW() float64 {
	return s.CapacityKW * s.Efficiency
}

// DailyEnergyKWh returns the analytic integral of the generation curve over
// one day: (2 * peak * daylight_hours) / pi.
func (s Solar) DailyEnergyKWh() float64 {
	daylight := s.SunsetHour - s.SunriseHour
	return 2 * s.PeakKW() * daylight / math.Pi
}
