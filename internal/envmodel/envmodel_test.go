package envmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSolar() Solar {
	return Solar{CapacityKW: 8, Efficiency: 0.85, SunriseHour: 6, SunsetHour: 18}
}

func TestSolarVanishesOutsideDaylightWindow(t *testing.T) {
	s := testSolar()

	assert.Equal(t, 0.0, s.PowerAt(0))
	assert.Equal(t, 0.0, s.PowerAt(5.9))
	assert.Equal(t, 0.0, s.PowerAt(18.1))
	assert.Equal(t, 0.0, s.PowerAt(22))

	// The curve vanishes exactly at both window edges.
	assert.InDelta(t, 0.0, s.PowerAt(6), 1e-9)
	assert.InDelta(t, 0.0, s.PowerAt(18), 1e-9)
}

func TestSolarPeaksAtWindowMidpoint(t *testing.T) {
	s := testSolar()

	peak := s.PowerAt(12)
	assert.InDelta(t, s.PeakKW(), peak, 1e-9)
	assert.InDelta(t, 8*0.85, peak, 1e-9)

	assert.Less(t, s.PowerAt(9), peak)
	assert.Less(t, s.PowerAt(15), peak)

	// Symmetric around solar noon.
	assert.InDelta(t, s.PowerAt(9), s.PowerAt(15), 1e-9)
}

func TestSolarIsPeriodic(t *testing.T) {
	s := testSolar()
	assert.InDelta(t, s.PowerAt(12), s.PowerAt(36), 1e-9)
	assert.InDelta(t, s.PowerAt(10), s.PowerAt(-14), 1e-9)
}

func TestTemperatureRangeAndPeak(t *testing.T) {
	m := Temperature{MinC: 26, MaxC: 42, PeakHour: 14}

	assert.InDelta(t, 42, m.At(14), 1e-9)
	// Minimum is half a day away from the peak.
	assert.InDelta(t, 26, m.At(2), 1e-9)

	for hour := 0.0; hour < 24; hour += 0.25 {
		temp := m.At(hour)
		assert.GreaterOrEqual(t, temp, 26.0-1e-9)
		assert.LessOrEqual(t, temp, 42.0+1e-9)
	}

	// Periodic over 24 hours.
	assert.InDelta(t, m.At(3), m.At(27), 1e-9)
}

func TestCoolingBelowThresholdIsFree(t *testing.T) {
	c := Cooling{FactorKWPerC: 0.5, LoadFactor: 0.05, ThresholdC: 25, COP: 3}

	p, err := c.PowerKW(25, 8)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p)

	p, err = c.PowerKW(20, 8)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p)
}

func TestCoolingScalesWithExcessAndLoad(t *testing.T) {
	c := Cooling{FactorKWPerC: 0.5, LoadFactor: 0.05, ThresholdC: 25, COP: 3}

	// 5°C excess with an 8 kW load: (0.5*5 + 0.05*8) / 3.
	p, err := c.PowerKW(30, 8)
	require.NoError(t, err)
	assert.InDelta(t, (0.5*5+0.05*8)/3, p, 1e-9)

	hotter, err := c.PowerKW(35, 8)
	require.NoError(t, err)
	assert.Greater(t, hotter, p)

	loaded, err := c.PowerKW(30, 16)
	require.NoError(t, err)
	assert.Greater(t, loaded, p)
}

func TestCoolingHigherCOPNeedsLessPower(t *testing.T) {
	lowCOP := Cooling{FactorKWPerC: 0.5, LoadFactor: 0.05, ThresholdC: 25, COP: 2}
	highCOP := Cooling{FactorKWPerC: 0.5, LoadFactor: 0.05, ThresholdC: 25, COP: 4}

	pLow, err := lowCOP.PowerKW(32, 6)
	require.NoError(t, err)
	pHigh, err := highCOP.PowerKW(32, 6)
	require.NoError(t, err)

	assert.Greater(t, pLow, pHigh)
}

func TestCoolingRejectsNegativeInputs(t *testing.T) {
	c := Cooling{FactorKWPerC: 0.5, LoadFactor: 0.05, ThresholdC: 25, COP: 3}

	_, err := c.PowerKW(-1, 5)
	require.Error(t, err)

	_, err = c.PowerKW(30, -5)
	require.Error(t, err)
}
