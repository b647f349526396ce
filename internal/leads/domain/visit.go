package domain

import (
	"strings"
	"time"
)

// VisitType distinguishes a first visit from a revisit.
type VisitType string

const (
	VisitTypeVisit   VisitType = "VISIT"
	VisitTypeRevisit VisitType = "REVISIT"
)

// ParseVisitType normalizes a raw visit type at the boundary.
func ParseVisitType(raw string) (VisitType, bool) {
	switch VisitType(strings.ToUpper(strings.TrimSpace(raw))) {
	case VisitTypeVisit:
		return VisitTypeVisit, true
	case VisitTypeRevisit:
		return VisitTypeRevisit, true
	}
	return "", false
}

// VisitStatus is the visit lifecycle state.
type VisitStatus string

const (
	VisitStatusScheduled VisitStatus = "SCHEDULED"
	VisitStatusCompleted VisitStatus = "COMPLETED"
	VisitStatusCancelled VisitStatus = "CANCELLED"
	VisitStatusNoShow    VisitStatus = "NO_SHOW"
)

// ParseVisitStatus normalizes a raw status at the boundary.
func ParseVisitStatus(raw string) (VisitStatus, bool) {
	switch VisitStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case VisitStatusScheduled:
		return VisitStatusScheduled, true
	case VisitStatusCompleted:
		return VisitStatusCompleted, true
	case VisitStatusCancelled:
		return VisitStatusCancelled, true
	case VisitStatusNoShow:
		return VisitStatusNoShow, true
	}
	return "", false
}

// IsTerminalVisitStatus reports whether the status is a recorded result.
// No transition out of a terminal result exists: reopening a completed,
// cancelled or no-show visit is not supported.
func IsTerminalVisitStatus(s VisitStatus) bool {
	return s == VisitStatusCompleted || s == VisitStatusCancelled || s == VisitStatusNoShow
}

// VisitResultPayload carries the per-result mandatory details.
type VisitResultPayload struct {
	Note            string
	CancelledReason string
	NoShowReason    string
}

// DenyVisitResult validates recording a result on a visit. Returns a
// non-empty user-facing reason when the change is not allowed. The machine
// is SCHEDULED -> {COMPLETED, CANCELLED, NO_SHOW}; each result demands its
// own payload field, never silently defaulted.
func DenyVisitResult(current VisitStatus, result VisitStatus, payload VisitResultPayload) string {
	if IsTerminalVisitStatus(current) {
		return "visit already has a recorded result (" + string(current) + ")"
	}
	if current != VisitStatusScheduled {
		return "visit is not in a schedulable state"
	}

	switch result {
	case VisitStatusCompleted:
		if strings.TrimSpace(payload.Note) == "" {
			return "a note is required to complete a visit"
		}
	case VisitStatusCancelled:
		if strings.TrimSpace(payload.CancelledReason) == "" {
			return "a cancellation reason is required"
		}
	case VisitStatusNoShow:
		if strings.TrimSpace(payload.NoShowReason) == "" {
			return "a no-show reason is required"
		}
	default:
		return "unknown visit result \"" + string(result) + "\""
	}

	return ""
}

// RescheduleHistoryEntry records one move of a visit's scheduled time.
// The prior time survives only here.
type RescheduleHistoryEntry struct {
	ID             int64
	OldScheduledAt time.Time
	NewScheduledAt time.Time
	Reason         string
	Actor          string
	CreatedAt      time.Time
}
