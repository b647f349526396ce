package domain

import (
	"math/rand"
	"testing"
	"time"
)

var stageFixtures = []Stage{
	{ID: 1, Name: "Enquiry", Order: 1},
	{ID: 2, Name: "Site Visit", Order: 2, SystemKey: SystemKeySiteVisit},
	{ID: 3, Name: "Negotiation", Order: 3},
	{ID: 4, Name: "Booked", Order: 4, SystemKey: SystemKeyBooked},
	{ID: 5, Name: "Lost", Order: 5, SystemKey: SystemKeyLost},
}

func datePtr(t time.Time) *time.Time { return &t }

func TestResolveCurrentStageEmptyInputs(t *testing.T) {
	history := []StageHistoryEntry{{ID: 1, StageID: 1, CreatedAt: time.Now()}}

	if _, ok := ResolveCurrentStage(nil, history); ok {
		t.Error("expected no resolution with empty stages")
	}
	if _, ok := ResolveCurrentStage(stageFixtures, nil); ok {
		t.Error("expected no resolution with empty history")
	}
	if _, ok := ResolveCurrentStage(nil, nil); ok {
		t.Error("expected no resolution with both inputs empty")
	}
}

func TestResolveCurrentStagePicksLatestByEventDate(t *testing.T) {
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	history := []StageHistoryEntry{
		{ID: 10, StageID: 1, EventDate: datePtr(base), CreatedAt: base},
		{ID: 11, StageID: 3, EventDate: datePtr(base.AddDate(0, 0, 5)), CreatedAt: base.AddDate(0, 0, 1)},
		{ID: 12, StageID: 2, EventDate: datePtr(base.AddDate(0, 0, 2)), CreatedAt: base.AddDate(0, 0, 6)},
	}

	got, ok := ResolveCurrentStage(stageFixtures, history)
	if !ok {
		t.Fatal("expected a resolved stage")
	}
	// Entry 11 has the latest event date even though entry 12 was created later.
	if got.ID != 3 {
		t.Errorf("resolved stage = %d, want 3", got.ID)
	}
}

func TestResolveCurrentStageFallsBackToCreatedAt(t *testing.T) {
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	history := []StageHistoryEntry{
		{ID: 10, StageID: 1, CreatedAt: base},
		{ID: 11, StageID: 2, CreatedAt: base.AddDate(0, 0, 3)},
	}

	got, ok := ResolveCurrentStage(stageFixtures, history)
	if !ok || got.ID != 2 {
		t.Errorf("resolved stage = %+v ok=%v, want stage 2", got, ok)
	}
}

func TestResolveCurrentStageTieBreaksOnID(t *testing.T) {
	sameTime := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	history := []StageHistoryEntry{
		{ID: 20, StageID: 1, EventDate: datePtr(sameTime), CreatedAt: sameTime},
		{ID: 21, StageID: 3, EventDate: datePtr(sameTime), CreatedAt: sameTime},
	}

	got, ok := ResolveCurrentStage(stageFixtures, history)
	if !ok || got.ID != 3 {
		t.Errorf("resolved stage = %+v ok=%v, want stage 3 (higher entry id wins the tie)", got, ok)
	}
}

// The projection must be invariant to the input's pre-sort order.
func TestResolveCurrentStageInvariantToInputOrder(t *testing.T) {
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	history := []StageHistoryEntry{
		{ID: 1, StageID: 1, EventDate: datePtr(base), CreatedAt: base},
		{ID: 2, StageID: 2, EventDate: datePtr(base.AddDate(0, 0, 1)), CreatedAt: base},
		{ID: 3, StageID: 3, CreatedAt: base.AddDate(0, 0, 2)},
		{ID: 4, StageID: 1, EventDate: datePtr(base.AddDate(0, 0, 2)), CreatedAt: base},
	}

	want, ok := ResolveCurrentStage(stageFixtures, history)
	if !ok {
		t.Fatal("expected a resolved stage")
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]StageHistoryEntry, len(history))
		copy(shuffled, history)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got, ok := ResolveCurrentStage(stageFixtures, shuffled)
		if !ok || got.ID != want.ID {
			t.Fatalf("permutation %d resolved %+v ok=%v, want stage %d", i, got, ok, want.ID)
		}
	}
}

func TestResolveCurrentStageNameFallback(t *testing.T) {
	// Stage id 99 is not configured; the carried name matches case-insensitively.
	history := []StageHistoryEntry{
		{ID: 1, StageID: 99, StageName: "site VISIT", CreatedAt: time.Now()},
	}

	got, ok := ResolveCurrentStage(stageFixtures, history)
	if !ok || got.ID != 2 {
		t.Errorf("resolved stage = %+v ok=%v, want stage 2 via name fallback", got, ok)
	}
}

func TestResolveCurrentStageNeverGuesses(t *testing.T) {
	history := []StageHistoryEntry{
		{ID: 1, StageID: 99, StageName: "Archived Stage", CreatedAt: time.Now()},
	}

	if got, ok := ResolveCurrentStage(stageFixtures, history); ok {
		t.Errorf("expected no resolution for unmatched entry, got %+v", got)
	}
}

func TestLowestStage(t *testing.T) {
	shuffled := []Stage{stageFixtures[3], stageFixtures[0], stageFixtures[2]}
	got, ok := LowestStage(shuffled)
	if !ok || got.ID != 1 {
		t.Errorf("LowestStage = %+v ok=%v, want stage 1", got, ok)
	}

	if _, ok := LowestStage(nil); ok {
		t.Error("LowestStage(nil) should not resolve")
	}
}

// DenyTransition must deny every target with order <= current and allow
// every target above it, for all positions in the order sequence.
func TestDenyTransitionOrderingMatrix(t *testing.T) {
	for currentIdx, current := range stageFixtures {
		if IsTerminalKey(current.SystemKey) {
			continue
		}
		for targetIdx, target := range stageFixtures {
			reason := DenyTransition(current.Order, target, current.SystemKey)
			wantDeny := targetIdx <= currentIdx
			if wantDeny && reason == "" {
				t.Errorf("order %d -> %d: expected denial", current.Order, target.Order)
			}
			if !wantDeny && reason != "" {
				t.Errorf("order %d -> %d: unexpected denial: %s", current.Order, target.Order, reason)
			}
		}
	}
}

func TestDenyTransitionTerminalLock(t *testing.T) {
	for _, key := range []SystemKey{SystemKeyBooked, SystemKeyLost} {
		// Even a forward move is denied once the lead is closed.
		target := Stage{ID: 9, Name: "Anything", Order: 100}
		if reason := DenyTransition(1, target, key); reason == "" {
			t.Errorf("key %s: expected terminal lock denial", key)
		}
	}
}

// Enquiry(1) -> Booked(3) is allowed; afterwards Site Visit is denied by the lock.
func TestDenyTransitionSkipToBookedThenLocked(t *testing.T) {
	stages := []Stage{
		{ID: 1, Name: "Enquiry", Order: 1},
		{ID: 2, Name: "Site Visit", Order: 2, SystemKey: SystemKeySiteVisit},
		{ID: 3, Name: "Booked", Order: 3, SystemKey: SystemKeyBooked},
	}
	history := []StageHistoryEntry{
		{ID: 1, StageID: 1, EventDate: datePtr(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)), CreatedAt: time.Now()},
	}

	current, ok := ResolveCurrentStage(stages, history)
	if !ok || current.ID != 1 {
		t.Fatalf("resolved %+v ok=%v, want Enquiry", current, ok)
	}

	if reason := DenyTransition(current.Order, stages[2], current.SystemKey); reason != "" {
		t.Fatalf("Enquiry -> Booked should be allowed, got: %s", reason)
	}

	// After booking, the resolved key is BOOKED and everything is locked.
	if reason := DenyTransition(stages[2].Order, stages[1], stages[2].SystemKey); reason == "" {
		t.Fatal("Booked -> Site Visit should be denied by the terminal lock")
	}
}

func TestSortLogDescDoesNotMutateInput(t *testing.T) {
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	history := []StageHistoryEntry{
		{ID: 1, StageID: 1, CreatedAt: base},
		{ID: 2, StageID: 2, CreatedAt: base.AddDate(0, 0, 1)},
	}

	_ = SortLogDesc(history)
	if history[0].ID != 1 || history[1].ID != 2 {
		t.Error("SortLogDesc mutated its input")
	}
}
