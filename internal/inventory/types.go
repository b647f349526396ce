// Package inventory provides read-only access to the tower→floor→unit
// catalog and per-unit availability, owned by the external inventory
// service. Availability strings are validated into a closed enum here, at
// the boundary; nothing downstream compares raw catalog strings.
package inventory

import "strings"

// Availability is the live state of an inventory unit.
type Availability string

const (
	AvailabilityAvailable  Availability = "AVAILABLE"
	AvailabilityBlocked    Availability = "BLOCKED"
	AvailabilityBooked     Availability = "BOOKED"
	AvailabilityHold       Availability = "HOLD"
	AvailabilitySold       Availability = "SOLD"
	AvailabilityNotForSale Availability = "NOT_FOR_SALE"
	// AvailabilityUnknown covers statuses this engine does not recognize.
	// Unknown units are never selectable.
	AvailabilityUnknown Availability = "UNKNOWN"
)

// ParseAvailability normalizes a raw catalog status.
func ParseAvailability(raw string) Availability {
	switch Availability(strings.ToUpper(strings.TrimSpace(raw))) {
	case AvailabilityAvailable:
		return AvailabilityAvailable
	case AvailabilityBlocked:
		return AvailabilityBlocked
	case AvailabilityBooked:
		return AvailabilityBooked
	case AvailabilityHold:
		return AvailabilityHold
	case AvailabilitySold:
		return AvailabilitySold
	case AvailabilityNotForSale:
		return AvailabilityNotForSale
	}
	return AvailabilityUnknown
}

// Unit is one sellable unit in the catalog.
type Unit struct {
	ID                 int64  `json:"id"`
	Label              string `json:"label"`
	AvailabilityStatus string `json:"availability_status"`
	FloorID            int64  `json:"floor_id"`
	TowerID            int64  `json:"tower_id"`
}

// Availability returns the validated status.
func (u Unit) Availability() Availability {
	return ParseAvailability(u.AvailabilityStatus)
}

// Selectable reports whether the unit may be picked. Only live-AVAILABLE
// units are selectable; everything else stays visible but disabled.
func (u Unit) Selectable() bool {
	return u.Availability() == AvailabilityAvailable
}

// DisplayStatus names the unit's actual status for user-facing errors.
func (u Unit) DisplayStatus() string {
	if u.Availability() == AvailabilityUnknown {
		return strings.ToUpper(strings.TrimSpace(u.AvailabilityStatus))
	}
	return string(u.Availability())
}

// Floor groups units within a tower.
type Floor struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Units []Unit `json:"units"`
}

// Tower is the top of the catalog hierarchy.
type Tower struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Floors []Floor `json:"floors"`
}

// Tree is the full tower→floor→unit catalog for one project.
type Tree struct {
	ProjectID int64   `json:"project_id"`
	Towers    []Tower `json:"towers"`
}

// FindUnit locates a unit anywhere in the tree.
func (t Tree) FindUnit(unitID int64) (Unit, bool) {
	for _, tower := range t.Towers {
		for _, floor := range tower.Floors {
			for _, unit := range floor.Units {
				if unit.ID == unitID {
					return unit, true
				}
			}
		}
	}
	return Unit{}, false
}

// FindTower locates a tower by id.
func (t Tree) FindTower(towerID int64) (Tower, bool) {
	for _, tower := range t.Towers {
		if tower.ID == towerID {
			return tower, true
		}
	}
	return Tower{}, false
}

// FindFloor locates a floor within a tower.
func (tw Tower) FindFloor(floorID int64) (Floor, bool) {
	for _, floor := range tw.Floors {
		if floor.ID == floorID {
			return floor, true
		}
	}
	return Floor{}, false
}

// AvailableUnits returns the floor's currently selectable units.
func (f Floor) AvailableUnits() []Unit {
	available := make([]Unit, 0, len(f.Units))
	for _, u := range f.Units {
		if u.Selectable() {
			available = append(available, u)
		}
	}
	return available
}
