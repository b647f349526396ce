package domain

import (
	"testing"
	"time"
)

func TestResolveStatusLabelExplicitLabelWins(t *testing.T) {
	a := Activity{
		StatusID:    7,
		StatusLabel: "In Discussion",
		History: []ActivityStatusHistoryEntry{
			{ID: 1, NewStatusLabel: "Open", CreatedAt: time.Now()},
		},
	}
	catalog := StatusCatalog{7: "Catalog Label"}

	if got := ResolveStatusLabel(a, catalog); got != "In Discussion" {
		t.Errorf("label = %q, want %q", got, "In Discussion")
	}
}

func TestResolveStatusLabelLatestHistoryEntry(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a := Activity{
		StatusID: 7,
		History: []ActivityStatusHistoryEntry{
			{ID: 1, NewStatusLabel: "Open", CreatedAt: base},
			{ID: 3, NewStatusLabel: "Follow Up", CreatedAt: base.AddDate(0, 0, 2)},
			{ID: 2, NewStatusLabel: "Closed", EventDate: datePtr(base.AddDate(0, 0, 1)), CreatedAt: base.AddDate(0, 0, 5)},
		},
	}

	// Entry 3 wins: its effective date (created_at) is later than entry 2's
	// explicit event date, which overrides its later created_at.
	if got := ResolveStatusLabel(a, nil); got != "Follow Up" {
		t.Errorf("label = %q, want %q", got, "Follow Up")
	}
}

func TestResolveStatusLabelCatalogFallback(t *testing.T) {
	a := Activity{
		StatusID: 7,
		History: []ActivityStatusHistoryEntry{
			{ID: 1, NewStatusLabel: "  ", CreatedAt: time.Now()},
		},
	}
	catalog := StatusCatalog{7: "Negotiating"}

	if got := ResolveStatusLabel(a, catalog); got != "Negotiating" {
		t.Errorf("label = %q, want %q", got, "Negotiating")
	}
}

func TestResolveStatusLabelLiteralFallback(t *testing.T) {
	if got := ResolveStatusLabel(Activity{StatusID: 99}, StatusCatalog{7: "Other"}); got != "Pending" {
		t.Errorf("label = %q, want %q", got, "Pending")
	}
	if got := ResolveStatusLabel(Activity{}, nil); got != "Pending" {
		t.Errorf("label = %q, want %q", got, "Pending")
	}
}
