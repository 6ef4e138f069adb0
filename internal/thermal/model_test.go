package thermal

import (
	"math"
	"testing"
)

func TestCooldownMinutesInfiniteWhenOutsideWarmer(t *testing.T) {
	tests := []struct {
		name        string
		currentTemp float64
		outsideTemp float64
	}{
		{"outside equals inside", 22.0, 22.0},
		{"outside warmer", 22.0, 25.0},
		{"summer heat", 18.0, 35.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CooldownMinutes(150, 1.2, tt.currentTemp, 18.0, tt.outsideTemp)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !math.IsInf(got, 1) {
				t.Errorf("cooldown = %v, want +Inf", got)
			}
		})
	}
}

func TestCooldownMinutesConcreteRoomScenario(t *testing.T) {
	// 150 m² concrete room (factor 1.2), heated to 22 with an 18 floor,
	// -3.5 outside. Expanded by hand from the model constants.
	got, err := CooldownMinutes(150, 1.2, 22.0, 18.0, -3.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 9.9171
	if math.Abs(got-want) > 0.001 {
		t.Errorf("cooldown = %v, want %v", got, want)
	}
	if got >= 60 {
		t.Errorf("cooldown = %v, expected under an hour for this room", got)
	}
}

func TestCooldownMinutesMonotonicity(t *testing.T) {
	base, _ := CooldownMinutes(150, 1.2, 22.0, 18.0, -3.5)

	// The lumped capacity and the loss rate both scale with area, so a
	// bigger room never cools faster.
	bigger, _ := CooldownMinutes(300, 1.2, 22.0, 18.0, -3.5)
	if bigger < base {
		t.Errorf("cooldown decreased with area: %v -> %v", base, bigger)
	}

	leakier, _ := CooldownMinutes(150, 2.4, 22.0, 18.0, -3.5)
	if leakier >= base {
		t.Errorf("cooldown did not decrease with heat-loss factor: %v -> %v", base, leakier)
	}
}

func TestCooldownMinutesNonNegative(t *testing.T) {
	// Current temperature already below comfort: margin is negative but the
	// result clamps at zero.
	got, err := CooldownMinutes(150, 1.2, 17.0, 18.0, -3.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("cooldown = %v, want 0", got)
	}
}

func TestCooldownMinutesRejectsInvalidInput(t *testing.T) {
	if _, err := CooldownMinutes(0, 1.2, 22, 18, -3.5); err == nil {
		t.Error("expected error for zero area")
	}
	if _, err := CooldownMinutes(-10, 1.2, 22, 18, -3.5); err == nil {
		t.Error("expected error for negative area")
	}
	if _, err := CooldownMinutes(150, 0, 22, 18, -3.5); err == nil {
		t.Error("expected error for zero heat-loss factor")
	}
	if _, err := CooldownMinutes(150, 1.2, math.NaN(), 18, -3.5); err == nil {
		t.Error("expected error for NaN temperature")
	}
}

func TestEnergySavingsRatios(t *testing.T) {
	s, err := EnergySavings(150, 2.0, 5.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(s.EnergyKWh-30.0) > 1e-9 {
		t.Errorf("energy = %v, want 30", s.EnergyKWh)
	}
	if math.Abs(s.CO2Kg-0.4*s.EnergyKWh) > 1e-9 {
		t.Errorf("co2 = %v, want 0.4 x energy", s.CO2Kg)
	}
	if math.Abs(s.Money-5.0*s.EnergyKWh) > 1e-9 {
		t.Errorf("money = %v, want 5.0 x energy", s.Money)
	}
}

func TestEnergySavingsMonotoneInHours(t *testing.T) {
	prev := Savings{}
	for _, hours := range []float64{0, 0.5, 1, 2, 8} {
		s, err := EnergySavings(100, hours, 5.0)
		if err != nil {
			t.Fatalf("hours=%v: %v", hours, err)
		}
		if s.EnergyKWh < prev.EnergyKWh || s.CO2Kg < prev.CO2Kg || s.Money < prev.Money {
			t.Errorf("savings decreased at hours=%v: %+v -> %+v", hours, prev, s)
		}
		prev = s
	}
}

func TestEnergySavingsRejectsInvalidInput(t *testing.T) {
	if _, err := EnergySavings(0, 1, 5.0); err == nil {
		t.Error("expected error for zero area")
	}
	if _, err := EnergySavings(100, -0.5, 5.0); err == nil {
		t.Error("expected error for negative hours")
	}
}
