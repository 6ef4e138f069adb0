package ledger

import (
	"testing"
	"time"

	"github.com/thermasense/thermasense/internal/thermal"
)

func fixedClock() func() time.Time {
	t := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestNewLedgerHasVerifiedGenesis(t *testing.T) {
	l := New(fixedClock())
	if err := l.Verify(); err != nil {
		t.Fatalf("fresh ledger failed verification: %v", err)
	}
	entries := l.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected genesis only, got %d entries", len(entries))
	}
	if entries[0].PrevHash != "0" {
		t.Errorf("genesis prev hash = %q", entries[0].PrevHash)
	}
}

func TestAppendLinksChain(t *testing.T) {
	l := New(fixedClock())
	first := l.Append(1, thermal.Savings{EnergyKWh: 20, CO2Kg: 8, Money: 100})
	second := l.Append(2, thermal.Savings{EnergyKWh: 5, CO2Kg: 2, Money: 25})

	if second.PrevHash != first.Hash {
		t.Errorf("chain link broken: prev=%q, want %q", second.PrevHash, first.Hash)
	}
	if err := l.Verify(); err != nil {
		t.Errorf("verification failed: %v", err)
	}
	if first.ID == second.ID {
		t.Error("entries share an ID")
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	l := New(fixedClock())
	l.Append(1, thermal.Savings{EnergyKWh: 20, CO2Kg: 8, Money: 100})

	l.entries[1].EnergyKWh = 9999

	if err := l.Verify(); err == nil {
		t.Error("tampered entry passed verification")
	}
}

func TestTotalSavingsPerRoom(t *testing.T) {
	l := New(fixedClock())
	l.Append(1, thermal.Savings{EnergyKWh: 20, CO2Kg: 8, Money: 100})
	l.Append(1, thermal.Savings{EnergyKWh: 10, CO2Kg: 4, Money: 50})
	l.Append(2, thermal.Savings{EnergyKWh: 7, CO2Kg: 2.8, Money: 35})

	total := l.TotalSavings(1)
	if total.EnergyKWh != 30 || total.CO2Kg != 12 || total.Money != 150 {
		t.Errorf("room 1 totals = %+v", total)
	}
	if other := l.TotalSavings(2); other.EnergyKWh != 7 {
		t.Errorf("room 2 totals = %+v", other)
	}
}
