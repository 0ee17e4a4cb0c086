// Package metrics converts per-step power samples into energy, carbon and
// cost totals. One Metrics instance belongs to exactly one simulation run.
package metrics

// Rates holds the conversion factors applied while accumulating. They are
// fixed at construction so two runs priced differently never share state.
type Rates struct {
	CarbonIntensityKgPerKWh float64
	DeadlinePenaltyKWh      float64
	GridPricePerKWh         float64
	CoolingPricePerKWh      float64
	CarbonPricePerKg        float64
}

// Metrics is a running ledger of energy, carbon and SLA totals. All totals
// are monotonically non-decreasing; derived figures are computed on demand.
type Metrics struct {
	rates Rates

	gridEnergyKWh    float64 // grid energy for compute
	solarEnergyKWh   float64 // solar energy for compute
	coolingEnergyKWh float64 // cooling energy, always grid-sourced
	carbonKg         float64

	deadlineViolations int
	penaltyKWh         float64
}

// New creates an empty ledger with the given rates.
func New(rates Rates) *Metrics {
	return &Metrics{rates: rates}
}

// RecordCompute accounts one step of compute load. The load is split
// between solar (up to what is available) and grid; only the grid share
// emits carbon.
func (m *Metrics) RecordCompute(loadKW, solarKW, dtHours float64) {
	usedSolar := min(loadKW, solarKW)
	gridKW := loadKW - usedSolar

	m.solarEnergyKWh += usedSolar * dtHours
	m.gridEnergyKWh += gridKW * dtHours
	m.carbonKg += gridKW * dtHours * m.rates.CarbonIntensityKgPerKWh
}

// RecordCooling accounts one step of cooling power. Cooling always draws
// from the grid and emits carbon like any other grid energy.
func (m *Metrics) RecordCooling(coolingKW, dtHours float64) {
	energy := coolingKW * dtHours
	m.coolingEnergyKWh += energy
	m.carbonKg += energy * m.rates.CarbonIntensityKgPerKWh
}

// RecordViolation registers one missed deadline: the violation count goes up
// by one and a fixed energy-equivalent penalty is added.
func (m *Metrics) RecordViolation() {
	m.deadlineViolations++
	m.penaltyKWh += m.rates.DeadlinePenaltyKWh
}

func (m *Metrics) GridEnergyKWh() float64    { return m.gridEnergyKWh }
func (m *Metrics) SolarEnergyKWh() float64   { return m.solarEnergyKWh }
func (m *Metrics) CoolingEnergyKWh() float64 { return m.coolingEnergyKWh }
func (m *Metrics) CarbonKg() float64         { return m.carbonKg }
func (m *Metrics) DeadlineViolations() int   { return m.deadlineViolations }
func (m *Metrics) PenaltyKWh() float64       { return m.penaltyKWh }

// TotalGridEnergyKWh is all grid consumption: compute plus cooling.
func (m *Metrics) TotalGridEnergyKWh() float64 {
	return m.gridEnergyKWh + m.coolingEnergyKWh
}

// EffectiveGridEnergyKWh folds SLA penalties into grid energy so runs with
// different violation counts stay comparable on a single figure.
func (m *Metrics) EffectiveGridEnergyKWh() float64 {
	return m.TotalGridEnergyKWh() + m.penaltyKWh
}

// TotalEnergyKWh is consumption from all sources.
func (m *Metrics) TotalEnergyKWh() float64 {
	return m.solarEnergyKWh + m.gridEnergyKWh + m.coolingEnergyKWh
}

// SolarPercentage is the share of compute energy met by solar, 0 when no
// compute energy was consumed.
func (m *Metrics) SolarPercentage() float64 {
	compute := m.solarEnergyKWh + m.gridEnergyKWh
	if compute == 0 {
		return 0
	}
	return m.solarEnergyKWh / compute * 100
}

func (m *Metrics) GridCost() float64    { return m.gridEnergyKWh * m.rates.GridPricePerKWh }
func (m *Metrics) CoolingCost() float64 { return m.coolingEnergyKWh * m.rates.CoolingPricePerKWh }
func (m *Metrics) CarbonCost() float64  { return m.carbonKg * m.rates.CarbonPricePerKg }
func (m *Metrics) PenaltyCost() float64 { return m.penaltyKWh * m.rates.GridPricePerKWh }

// TotalCost is the single comparable cost figure: grid and cooling energy at
// their prices, carbon at its price, and penalties priced as grid energy.
func (m *Metrics) TotalCost() float64 {
	return m.GridCost() + m.CoolingCost() + m.CarbonCost() + m.PenaltyCost()
}

// Summary is a JSON-friendly snapshot of the ledger.
type Summary struct {
	SolarKWh           float64 `json:"solar_kwh"`
	GridKWh            float64 `json:"grid_kwh"`
	CoolingKWh         float64 `json:"cooling_kwh"`
	TotalGridKWh       float64 `json:"total_grid_kwh"`
	TotalKWh           float64 `json:"total_kwh"`
	SolarPercentage    float64 `json:"solar_percentage"`
	CarbonKg           float64 `json:"carbon_kg"`
	DeadlineViolations int     `json:"deadline_violations"`
	PenaltyKWh         float64 `json:"penalty_kwh"`
	GridCost           float64 `json:"grid_cost"`
	CoolingCost        float64 `json:"cooling_cost"`
	CarbonCost         float64 `json:"carbon_cost"`
	PenaltyCost        float64 `json:"penalty_cost"`
	TotalCost          float64 `json:"total_cost"`
}

// Summarize returns the current totals and derived figures.
func (m *Metrics) Summarize() Summary {
	return Summary{
		SolarKWh:           m.solarEnergyKWh,
		GridKWh:            m.gridEnergyKWh,
		CoolingKWh:         m.coolingEnergyKWh,
		TotalGridKWh:       m.TotalGridEnergyKWh(),
		TotalKWh:           m.TotalEnergyKWh(),
		SolarPercentage:    m.SolarPercentage(),
		CarbonKg:           m.carbonKg,
		DeadlineViolations: m.deadlineViolations,
		PenaltyKWh:         m.penaltyKWh,
		GridCost:           m.GridCost(),
		CoolingCost:        m.CoolingCost(),
		CarbonCost:         m.CarbonCost(),
		PenaltyCost:        m.PenaltyCost(),
		TotalCost:          m.TotalCost(),
	}
}
