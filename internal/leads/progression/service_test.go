package progression

import (
	"context"
	"strings"
	"testing"
	"time"

	"estateportal_backend/internal/events"
	"estateportal_backend/internal/leads/transport"
	"estateportal_backend/internal/salesapi"
	"estateportal_backend/platform/apperr"
)

type fakeGateway struct {
	lead        salesapi.Lead
	leadErr     error
	created     []salesapi.CreateStageEntryParams
	createErr   error
	nextEntryID int64
}

func (f *fakeGateway) GetLead(ctx context.Context, leadID int64) (salesapi.Lead, error) {
	if f.leadErr != nil {
		return salesapi.Lead{}, f.leadErr
	}
	return f.lead, nil
}

func (f *fakeGateway) CreateStageEntry(ctx context.Context, params salesapi.CreateStageEntryParams) (salesapi.StageHistoryEntry, error) {
	if f.createErr != nil {
		return salesapi.StageHistoryEntry{}, f.createErr
	}
	f.created = append(f.created, params)
	f.nextEntryID++
	return salesapi.StageHistoryEntry{
		ID:        f.nextEntryID,
		Stage:     params.Stage,
		Notes:     params.Notes,
		CreatedAt: salesapi.Timestamp{Time: time.Now()},
	}, nil
}

func wireStages() []salesapi.Stage {
	return []salesapi.Stage{
		{ID: 1, Name: "New", Order: 1},
		{ID: 2, Name: "Qualified", Order: 2},
		{ID: 3, Name: "Site Visit", Order: 3, SystemKey: "SITE_VISIT"},
		{ID: 4, Name: "Booked", Order: 4, SystemKey: "BOOKED"},
		{ID: 5, Name: "Lost", Order: 5, SystemKey: "LOST"},
	}
}

func historyAt(stageID int64) []salesapi.StageHistoryEntry {
	return []salesapi.StageHistoryEntry{
		{ID: 10, Stage: stageID, CreatedAt: salesapi.Timestamp{Time: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)}},
	}
}

func newService(gw *fakeGateway) *Service {
	return New(gw, events.NewInMemoryBus(nil))
}

func TestAdvanceStageAppendsEntry(t *testing.T) {
	gw := &fakeGateway{lead: salesapi.Lead{
		ID:           7,
		Status:       "ACTIVE",
		Stages:       wireStages(),
		StageHistory: historyAt(1),
	}}
	svc := newService(gw)

	entry, err := svc.AdvanceStage(context.Background(), 7, transport.AdvanceStageRequest{
		StageID: 2,
		Notes:   "qualified on call",
	})
	if err != nil {
		t.Fatalf("AdvanceStage: %v", err)
	}

	if len(gw.created) != 1 {
		t.Fatalf("created %d entries, want 1", len(gw.created))
	}
	got := gw.created[0]
	if got.SalesLead != 7 || got.Stage != 2 || got.Notes != "qualified on call" {
		t.Errorf("params = %+v", got)
	}
	if got.Status != "ACTIVE" {
		t.Errorf("status not carried: %+v", got)
	}
	if entry.StageID != 2 {
		t.Errorf("response stage = %d", entry.StageID)
	}
}

func TestAdvanceStageRequiresNote(t *testing.T) {
	gw := &fakeGateway{}
	svc := newService(gw)

	_, err := svc.AdvanceStage(context.Background(), 7, transport.AdvanceStageRequest{StageID: 2, Notes: "   "})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
	if len(gw.created) != 0 {
		t.Error("no network call may happen on a missing note")
	}
}

func TestAdvanceStageDeniesBackwardMove(t *testing.T) {
	gw := &fakeGateway{lead: salesapi.Lead{
		ID:           7,
		Stages:       wireStages(),
		StageHistory: historyAt(3),
	}}
	svc := newService(gw)

	for _, target := range []int64{2, 3} {
		_, err := svc.AdvanceStage(context.Background(), 7, transport.AdvanceStageRequest{StageID: target, Notes: "n"})
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("target %d: err = %v, want validation", target, err)
		}
	}
	if len(gw.created) != 0 {
		t.Error("denied transitions must not reach the backend")
	}
}

func TestAdvanceStageTerminalLock(t *testing.T) {
	for _, stageID := range []int64{4, 5} {
		gw := &fakeGateway{lead: salesapi.Lead{
			ID:           7,
			Stages:       wireStages(),
			StageHistory: historyAt(stageID),
		}}
		svc := newService(gw)

		_, err := svc.AdvanceStage(context.Background(), 7, transport.AdvanceStageRequest{StageID: 5, Notes: "n"})
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("stage %d: err = %v, want validation", stageID, err)
		}
		if !strings.Contains(err.Error(), "closed") {
			t.Errorf("lock reason should say the lead is closed, got %q", err.Error())
		}
	}
}

func TestAdvanceStageUnknownTarget(t *testing.T) {
	gw := &fakeGateway{lead: salesapi.Lead{ID: 7, Stages: wireStages(), StageHistory: historyAt(1)}}
	svc := newService(gw)

	_, err := svc.AdvanceStage(context.Background(), 7, transport.AdvanceStageRequest{StageID: 99, Notes: "n"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestAdvanceStageFreshLeadEntersLowestStage(t *testing.T) {
	gw := &fakeGateway{lead: salesapi.Lead{ID: 7, Stages: wireStages()}}
	svc := newService(gw)

	if _, err := svc.AdvanceStage(context.Background(), 7, transport.AdvanceStageRequest{StageID: 1, Notes: "created"}); err != nil {
		t.Fatalf("placing a fresh lead into the entry stage: %v", err)
	}
	if len(gw.created) != 1 {
		t.Fatalf("created %d entries, want 1", len(gw.created))
	}
}

func TestAdvanceStageFreshLeadCanSkipAhead(t *testing.T) {
	gw := &fakeGateway{lead: salesapi.Lead{ID: 7, Stages: wireStages()}}
	svc := newService(gw)

	if _, err := svc.AdvanceStage(context.Background(), 7, transport.AdvanceStageRequest{StageID: 2, Notes: "walk-in"}); err != nil {
		t.Fatalf("AdvanceStage: %v", err)
	}
}

func TestAdvanceStagePropagatesUpstreamError(t *testing.T) {
	gw := &fakeGateway{
		lead:      salesapi.Lead{ID: 7, Stages: wireStages(), StageHistory: historyAt(1)},
		createErr: apperr.Upstream("sales backend request failed", nil),
	}
	svc := newService(gw)

	_, err := svc.AdvanceStage(context.Background(), 7, transport.AdvanceStageRequest{StageID: 2, Notes: "n"})
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("err = %v, want upstream", err)
	}
}
