// Package thermal holds the physics behind the heating recommendations: a
// lumped-capacitance cooldown model and a fixed-power savings estimate. All
// functions are pure so the generator can call them per room per pass.
package thermal

import (
	"fmt"
	"math"
)

const (
	ceilingHeight   = 3.0    // m
	airDensity      = 1.225  // kg/m³
	airSpecificHeat = 1005.0 // J/(kg·°C)

	// Walls store heat too; approximated as a per-m² capacity.
	wallCapacityPerSqm = 100.0 // J/(m²·°C)

	// Model uncertainty buffer applied to every finite cooldown.
	safetyMargin = 1.2

	heatingPowerPerSqmKW = 0.1 // 100 W/m²
	co2PerKWh            = 0.4 // kg, gas heating
)

// CooldownMinutes predicts how long a room stays at or above its comfort
// temperature after heating stops.
//
// The air and wall mass is lumped into a single heat capacity C; the loss
// rate scales with the room's heat-loss factor, its area and the gradient to
// the outside. When the outside is at least as warm as the room the gradient
// never drains it below comfort, so the cooldown is +Inf.
func CooldownMinutes(area, heatLossFactor, currentTemp, comfortTemp, outsideTemp float64) (float64, error) {
	if area <= 0 {
		return 0, fmt.Errorf("area must be positive, got %v", area)
	}
	if heatLossFactor <= 0 {
		return 0, fmt.Errorf("heat loss factor must be positive, got %v", heatLossFactor)
	}
	if math.IsNaN(currentTemp) || math.IsNaN(comfortTemp) || math.IsNaN(outsideTemp) {
		return 0, fmt.Errorf("temperature input is NaN")
	}

	deltaTOut := currentTemp - outsideTemp
	if deltaTOut <= 0 {
		return math.Inf(1), nil
	}

	airMass := area * ceilingHeight * airDensity
	capacity := airMass*airSpecificHeat + area*wallCapacityPerSqm

	deltaT := currentTemp - comfortTemp
	seconds := (capacity * deltaT) / (heatLossFactor * area * deltaTOut)
	minutes := seconds / 60 * safetyMargin

	return math.Max(0, minutes), nil
}

// Savings quantifies what turning heating off early is worth.
type Savings struct {
	EnergyKWh float64 `json:"energy_kwh"`
	CO2Kg     float64 `json:"co2_kg"`
	Money     float64 `json:"money"`
}

// EnergySavings assumes a fixed specific heating power of 100 W/m². unitPrice
// is the configured currency cost per kWh.
func EnergySavings(area, hoursSaved, unitPrice float64) (Savings, error) {
	if area <= 0 {
		return Savings{}, fmt.Errorf("area must be positive, got %v", area)
	}
	if hoursSaved < 0 {
		return Savings{}, fmt.Errorf("hours saved must be non-negative, got %v", hoursSaved)
	}

	energy := heatingPowerPerSqmKW * area * hoursSaved
	return Savings{
		EnergyKWh: energy,
		CO2Kg:     energy * co2PerKWh,
		Money:     energy * unitPrice,
	}, nil
}
