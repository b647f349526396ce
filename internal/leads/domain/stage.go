// Package domain provides core business rules for the leads bounded context.
// Everything here is pure: no I/O, no clocks, no globals. The orchestrator
// and the vertical services apply these rules before any remote call.
package domain

import (
	"sort"
	"strings"
	"time"
)

// SystemKey is the stable, project-independent tag on a configured stage.
// Stage names are free-form per project; lock checks key off this value only.
type SystemKey string

const (
	SystemKeyBooked    SystemKey = "BOOKED"
	SystemKeyLost      SystemKey = "LOST"
	SystemKeySiteVisit SystemKey = "SITE_VISIT"
)

// terminalKeys are stages whose system key closes the lead. Once a lead's
// resolved stage carries one of these, every mutation is rejected.
var terminalKeys = map[SystemKey]bool{
	SystemKeyBooked: true,
	SystemKeyLost:   true,
}

// IsTerminalKey returns true if the system key locks the lead.
func IsTerminalKey(key SystemKey) bool {
	return terminalKeys[key]
}

// Stage is one ordered pipeline step from the project configuration.
// Immutable; owned by project setup.
type Stage struct {
	ID        int64
	Name      string
	Order     int
	SystemKey SystemKey
}

// StageHistoryEntry is an immutable record that the lead was placed in a
// stage at a point in time. The log is append-only; entries are never
// mutated or deleted.
type StageHistoryEntry struct {
	ID        int64
	StageID   int64
	StageName string
	EventDate *time.Time
	CreatedAt time.Time
	Notes     string
	Author    string
}

// EffectiveAt returns the tie-break date: the explicit event date when
// present, the creation timestamp otherwise.
func (e StageHistoryEntry) EffectiveAt() time.Time {
	if e.EventDate != nil {
		return *e.EventDate
	}
	return e.CreatedAt
}

// SortID returns the secondary tie-break key.
func (e StageHistoryEntry) SortID() int64 { return e.ID }

// LogEntry is an append-only log record ordered by (effective date, id).
type LogEntry interface {
	EffectiveAt() time.Time
	SortID() int64
}

// SortLogDesc returns a copy of entries sorted descending by
// (EffectiveAt, SortID). The first element is the latest entry. Two callers
// using different tie-breaks can legitimately disagree about "current", so
// every projection in this package goes through this one sort.
func SortLogDesc[T LogEntry](entries []T) []T {
	sorted := make([]T, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i].EffectiveAt(), sorted[j].EffectiveAt()
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return sorted[i].SortID() > sorted[j].SortID()
	})
	return sorted
}

// ResolveCurrentStage derives the lead's current stage from the append-only
// history log. The lead never stores a denormalized current-stage field;
// this projection is the only source of truth.
//
// Empty stages or empty history yield no resolution (callers fall back to
// the lowest-order stage). Otherwise the latest history entry's stage
// reference is matched against the configured stages by id, then by a
// case-insensitive name match against the entry's carried stage name.
// If both fail the lead has no resolved stage; the function never guesses.
func ResolveCurrentStage(stages []Stage, history []StageHistoryEntry) (Stage, bool) {
	if len(stages) == 0 || len(history) == 0 {
		return Stage{}, false
	}

	latest := SortLogDesc(history)[0]

	for _, s := range stages {
		if s.ID == latest.StageID {
			return s, true
		}
	}

	if name := strings.TrimSpace(latest.StageName); name != "" {
		for _, s := range stages {
			if strings.EqualFold(s.Name, name) {
				return s, true
			}
		}
	}

	return Stage{}, false
}

// LowestStage returns the configured stage with the smallest order.
// Used as the fallback when no stage resolves.
func LowestStage(stages []Stage) (Stage, bool) {
	if len(stages) == 0 {
		return Stage{}, false
	}
	lowest := stages[0]
	for _, s := range stages[1:] {
		if s.Order < lowest.Order {
			lowest = s
		}
	}
	return lowest, true
}

// DenyTransition validates a requested stage move. It returns a non-empty,
// user-facing reason when the move is not allowed:
//   - the terminal lock rejects everything, independent of ordering;
//   - stage progression is one-way, so a target at or below the current
//     order is rejected.
func DenyTransition(currentOrder int, target Stage, currentKey SystemKey) string {
	if IsTerminalKey(currentKey) {
		return "lead is closed (" + string(currentKey) + "); no further stage changes are allowed"
	}
	if target.Order <= currentOrder {
		return "cannot move to stage \"" + target.Name + "\": stage progression is one-way"
	}
	return ""
}
