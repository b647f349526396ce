package domain

import (
	"strings"
	"time"
)

// defaultStatusLabel is the literal fallback when no label source resolves.
const defaultStatusLabel = "Pending"

// ActivityStatusHistoryEntry is one audited status change on an activity.
// The comment is mandatory at the point of change; entries are append-only.
type ActivityStatusHistoryEntry struct {
	ID             int64
	OldStatusID    int64
	NewStatusID    int64
	NewStatusLabel string
	Comment        string
	Author         string
	EventDate      *time.Time
	CreatedAt      time.Time
}

// EffectiveAt returns the tie-break date, matching stage history semantics.
func (e ActivityStatusHistoryEntry) EffectiveAt() time.Time {
	if e.EventDate != nil {
		return *e.EventDate
	}
	return e.CreatedAt
}

// SortID returns the secondary tie-break key.
func (e ActivityStatusHistoryEntry) SortID() int64 { return e.ID }

// Activity is one tracked follow-up (call, meeting, task) on a lead.
type Activity struct {
	ID          int64
	Type        string
	Title       string
	Info        string
	EventDate   *time.Time
	StatusID    int64
	StatusLabel string
	History     []ActivityStatusHistoryEntry
}

// StatusCatalog maps project-scoped activity status ids to display labels.
type StatusCatalog map[int64]string

// ResolveStatusLabel resolves the human label for an activity's current
// status. No single field is authoritative, so the fallback chain is fixed:
// explicit label on the activity, then the latest history entry's label,
// then a catalog lookup by the current status id, then "Pending".
func ResolveStatusLabel(a Activity, catalog StatusCatalog) string {
	if label := strings.TrimSpace(a.StatusLabel); label != "" {
		return label
	}

	if len(a.History) > 0 {
		latest := SortLogDesc(a.History)[0]
		if label := strings.TrimSpace(latest.NewStatusLabel); label != "" {
			return label
		}
	}

	if label := strings.TrimSpace(catalog[a.StatusID]); label != "" {
		return label
	}

	return defaultStatusLabel
}
