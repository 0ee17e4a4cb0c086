package envmodel

import "fmt"

// Cooling models the electrical power drawn by the cooling system. Below
// ThresholdC no cooling runs; above it, demand grows with the temperature
// excess and with the compute load generating heat, divided by the system's
// coefficient of performance.
type Cooling struct {
	FactorKWPerC float64 // demand per °C above threshold
	LoadFactor   float64 // demand per kW of compute load
	ThresholdC   float64
	COP          float64 // kW of heat removed per kW of electricity
}

// PowerKW returns the electrical power the cooling system draws for the
// given hub temperature and compute load. Negative inputs are caller errors.
func (c Cooling) PowerKW(hubTempC, loadKW float64) (float64, error) {
	if hubTempC < 0 {
		return 0, fmt.Errorf("invalid hub temperature: %g°C", hubTempC)
	}
	if loadKW < 0 {
		return 0, fmt.Errorf("invalid compute load: %g kW", loadKW)
	}

	if hubTempC <= c.ThresholdC {
		return 0, nil
	}

	excess := hubTempC - c.ThresholdC
	demand := c.FactorKWPerC*excess + c.LoadFactor*loadKW

	return demand / c.COP, nil
}

// CapacityKW converts electrical input into heat-removal capacity.
func (c Cooling) CapacityKW(electricalKW float64) float64 {
	return electricalKW * c.COP
}
