package salesapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estateportal_backend/platform/apperr"
	"estateportal_backend/platform/logger"
)

type testConfig struct {
	baseURL string
}

func (c testConfig) GetSalesAPIBaseURL() string        { return c.baseURL }
func (c testConfig) GetSalesAPITimeout() time.Duration { return 2 * time.Second }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(testConfig{baseURL: srv.URL}, logger.New("development"))
}

func TestGetLeadRequestShape(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(Lead{ID: 42, Name: "A. Buyer"})
	})

	ctx := WithToken(context.Background(), "tok-123")
	lead, err := client.GetLead(ctx, 42)
	if err != nil {
		t.Fatalf("GetLead: %v", err)
	}

	if gotPath != "/sales/sales-leads/42/" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "include_all_stage=true" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if lead.ID != 42 {
		t.Errorf("lead id = %d", lead.ID)
	}
}

func TestServerMessagePassthrough(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "stage transition not allowed"}`))
	})

	_, err := client.GetLead(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := err.(*apperr.Error)
	if !ok {
		t.Fatalf("expected *apperr.Error, got %T", err)
	}
	if appErr.Kind != apperr.KindValidation {
		t.Errorf("kind = %v, want KindValidation", appErr.Kind)
	}
	if appErr.Message != "stage transition not allowed" {
		t.Errorf("message = %q, want server message", appErr.Message)
	}
}

func TestGenericFallbackOnOpaqueError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>boom</html>"))
	})

	_, err := client.GetLead(context.Background(), 1)
	appErr, ok := err.(*apperr.Error)
	if !ok {
		t.Fatalf("expected *apperr.Error, got %T", err)
	}
	if appErr.Kind != apperr.KindUpstream {
		t.Errorf("kind = %v, want KindUpstream", appErr.Kind)
	}
	if appErr.Message != genericUpstreamMsg {
		t.Errorf("message = %q, want generic fallback", appErr.Message)
	}
}

func TestCreateSiteVisitSendsOffsetTime(t *testing.T) {
	var body CreateSiteVisitParams
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/sales/site-visits/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(SiteVisit{ID: 7, Status: "SCHEDULED", ScheduledAt: body.ScheduledAt})
	})

	visit, err := client.CreateSiteVisit(context.Background(), CreateSiteVisitParams{
		SalesLead:     42,
		InventoryUnit: 9,
		VisitType:     "VISIT",
		ScheduledAt:   "2026-02-01T14:30+05:30",
		MemberName:    "A. Buyer",
		MemberMobile:  "+919876543210",
	})
	if err != nil {
		t.Fatalf("CreateSiteVisit: %v", err)
	}

	if body.ScheduledAt != "2026-02-01T14:30+05:30" {
		t.Errorf("scheduled_at on the wire = %q", body.ScheduledAt)
	}
	if visit.ID != 7 {
		t.Errorf("visit id = %d", visit.ID)
	}
}

func TestDeleteInterestedUnit(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteInterestedUnit(context.Background(), 314); err != nil {
		t.Fatalf("DeleteInterestedUnit: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/sales/interested-units/314/" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}

func TestTimestampShapes(t *testing.T) {
	var entry StageHistoryEntry
	payload := `{"id": 3, "stage": 1, "event_date": "2026-01-05", "created_at": "2026-01-05T10:00:00Z", "notes": "walk-in"}`
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry.EventDate.IsZero() || entry.CreatedAt.IsZero() {
		t.Error("timestamps should parse")
	}

	var nullEntry StageHistoryEntry
	if err := json.Unmarshal([]byte(`{"id": 4, "stage": 1, "event_date": null, "created_at": "2026-01-05T10:00:00Z"}`), &nullEntry); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if nullEntry.EventDate.PtrTime() != nil {
		t.Error("null event_date should yield nil pointer")
	}
}
