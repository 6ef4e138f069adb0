package thermal

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Predictor produces a cooldown estimate in minutes. PhysicsPredictor is the
// default and the one the generator relies on; RegressionPredictor is an
// optional variant behind the same shape.
type Predictor interface {
	CooldownMinutes(area, heatLossFactor, currentTemp, comfortTemp, outsideTemp float64) (float64, error)
}

// PhysicsPredictor wraps the lumped-capacitance model.
type PhysicsPredictor struct{}

func (PhysicsPredictor) CooldownMinutes(area, heatLossFactor, currentTemp, comfortTemp, outsideTemp float64) (float64, error) {
	return CooldownMinutes(area, heatLossFactor, currentTemp, comfortTemp, outsideTemp)
}

// RegressionPredictor estimates cooldown with a fixed linear model over
// (area, outside temperature, heat-loss factor). The coefficients are a demo
// stub, not trained weights; the physics model stays authoritative.
type RegressionPredictor struct {
	weights   *mat.VecDense
	intercept float64
}

func NewRegressionPredictor() *RegressionPredictor {
	return &RegressionPredictor{
		weights:   mat.NewVecDense(3, []float64{0.5, -2.3, 15.7}),
		intercept: 30.2,
	}
}

func (p *RegressionPredictor) CooldownMinutes(area, heatLossFactor, currentTemp, comfortTemp, outsideTemp float64) (float64, error) {
	if area <= 0 {
		return 0, fmt.Errorf("area must be positive, got %v", area)
	}
	features := mat.NewVecDense(3, []float64{area, outsideTemp, heatLossFactor})
	estimate := mat.Dot(p.weights, features) + p.intercept
	return math.Max(0, estimate), nil
}

// Confidence scores how closely the regression estimate tracks the physics
// result. Bands follow the gap in minutes; an infinite physics cooldown
// cannot be compared and scores lowest.
func Confidence(physicsMinutes, regressionMinutes float64) float64 {
	if math.IsInf(physicsMinutes, 1) {
		return 0.50
	}
	diff := math.Abs(physicsMinutes - regressionMinutes)
	switch {
	case diff < 10:
		return 0.95
	case diff < 30:
		return 0.85
	case diff < 60:
		return 0.70
	default:
		return 0.50
	}
}
