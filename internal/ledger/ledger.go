// Package ledger keeps a hash-chained record of applied savings. This is
// illustrative integrity hashing, not a distributed ledger: each entry embeds
// the SHA-256 of the previous one so tampering is detectable on Verify.
package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thermasense/thermasense/internal/thermal"
)

type Entry struct {
	ID         string    `json:"id"`
	RoomID     int64     `json:"room_id"`
	EnergyKWh  float64   `json:"energy_kwh"`
	CO2Kg      float64   `json:"co2_kg"`
	Money      float64   `json:"money"`
	RecordedAt time.Time `json:"recorded_at"`
	PrevHash   string    `json:"prev_hash"`
	Hash       string    `json:"hash"`
}

type Ledger struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

func New(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	l := &Ledger{now: now}
	genesis := Entry{
		ID:         uuid.NewString(),
		RecordedAt: l.now(),
		PrevHash:   "0",
	}
	genesis.Hash = hashEntry(genesis)
	l.entries = []Entry{genesis}
	return l
}

// Append records one applied recommendation's savings and links it to the
// chain head.
func (l *Ledger) Append(roomID int64, s thermal.Savings) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{
		ID:         uuid.NewString(),
		RoomID:     roomID,
		EnergyKWh:  s.EnergyKWh,
		CO2Kg:      s.CO2Kg,
		Money:      s.Money,
		RecordedAt: l.now(),
		PrevHash:   l.entries[len(l.entries)-1].Hash,
	}
	entry.Hash = hashEntry(entry)
	l.entries = append(l.entries, entry)
	return entry
}

// Entries returns a copy of the chain, genesis first.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// TotalSavings sums the verified chain for one room.
func (l *Ledger) TotalSavings(roomID int64) thermal.Savings {
	l.mu.Lock()
	defer l.mu.Unlock()
	var total thermal.Savings
	for _, e := range l.entries {
		if e.RoomID != roomID {
			continue
		}
		total.EnergyKWh += e.EnergyKWh
		total.CO2Kg += e.CO2Kg
		total.Money += e.Money
	}
	return total
}

// Verify walks the chain and reports the first broken link.
func (l *Ledger) Verify() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if hashEntry(e) != e.Hash {
			return fmt.Errorf("ledger entry %d: hash mismatch", i)
		}
		if i > 0 && e.PrevHash != l.entries[i-1].Hash {
			return fmt.Errorf("ledger entry %d: broken chain link", i)
		}
	}
	return nil
}

func hashEntry(e Entry) string {
	e.Hash = ""
	payload, _ := json.Marshal(e)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
