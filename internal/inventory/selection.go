package inventory

import (
	"estateportal_backend/platform/apperr"
)

// Selection is the cascading tower→floor→unit picker state. Changing an
// ancestor clears all of its descendants. When a level offers exactly one
// option it is auto-selected; at the unit level only among currently
// AVAILABLE units; a non-available unit is never auto-selected even when
// it is the sole option.
type Selection struct {
	tree    Tree
	TowerID int64
	FloorID int64
	UnitID  int64
}

// NewSelection builds a picker over the tree and applies auto-selection
// from the top.
func NewSelection(tree Tree) *Selection {
	s := &Selection{tree: tree}
	if len(tree.Towers) == 1 {
		// Sole tower: cascade continues through the same rules.
		_ = s.SelectTower(tree.Towers[0].ID)
	}
	return s
}

// SelectTower picks a tower and resets floor and unit.
func (s *Selection) SelectTower(towerID int64) error {
	tower, ok := s.tree.FindTower(towerID)
	if !ok {
		return apperr.Validation("unknown tower selected")
	}

	s.TowerID = tower.ID
	s.FloorID = 0
	s.UnitID = 0

	if len(tower.Floors) == 1 {
		return s.SelectFloor(tower.Floors[0].ID)
	}
	return nil
}

// SelectFloor picks a floor under the selected tower and resets the unit.
func (s *Selection) SelectFloor(floorID int64) error {
	if s.TowerID == 0 {
		return apperr.Validation("select a tower first")
	}
	tower, _ := s.tree.FindTower(s.TowerID)
	floor, ok := tower.FindFloor(floorID)
	if !ok {
		return apperr.Validation("floor does not belong to the selected tower")
	}

	s.FloorID = floor.ID
	s.UnitID = 0

	if available := floor.AvailableUnits(); len(available) == 1 {
		return s.SelectUnit(available[0].ID)
	}
	return nil
}

// SelectUnit picks a unit under the selected floor. Only a live-AVAILABLE
// unit may be selected; a forced selection of anything else is rejected
// with the unit's actual status in the error.
func (s *Selection) SelectUnit(unitID int64) error {
	if s.TowerID == 0 || s.FloorID == 0 {
		return apperr.Validation("select a tower and floor first")
	}
	tower, _ := s.tree.FindTower(s.TowerID)
	floor, _ := tower.FindFloor(s.FloorID)

	var unit Unit
	found := false
	for _, u := range floor.Units {
		if u.ID == unitID {
			unit, found = u, true
			break
		}
	}
	if !found {
		return apperr.Validation("unit does not belong to the selected floor")
	}
	if !unit.Selectable() {
		return apperr.Validationf("unit %s is not available for selection (status: %s)", unit.Label, unit.DisplayStatus())
	}

	s.UnitID = unit.ID
	return nil
}

// Unit returns the fully selected unit, if the cascade is complete.
func (s *Selection) Unit() (Unit, bool) {
	if s.UnitID == 0 {
		return Unit{}, false
	}
	return s.tree.FindUnit(s.UnitID)
}

// Complete reports whether all three levels are selected.
func (s *Selection) Complete() bool {
	return s.TowerID != 0 && s.FloorID != 0 && s.UnitID != 0
}
