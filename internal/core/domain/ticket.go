package domain

import "time"

// Placeholder is the display value used wherever a ticket carries no data
// for a column. It is a real facet value: users can exclude "-" like any
// other value on columns that keep it in their filter vocabulary.
const Placeholder = "-"

// TicketStatus is the backend's raw status value. New backend values pass
// through the label table unchanged, so this is deliberately an open set.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in_progress"
	StatusResolved   TicketStatus = "resolved"
	StatusClosed     TicketStatus = "closed"
)

// TicketPriority is the backend's raw priority value.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

// WorkType is the backend's raw work type value.
type WorkType string

const (
	WorkTypeIncident WorkType = "incident"
	WorkTypeRequest  WorkType = "request"
	WorkTypeChange   WorkType = "change"
	WorkTypeOther    WorkType = "other"
)

// PersonSummary is the nested requester/assignee summary attached to a
// ticket. Any field may be empty.
type PersonSummary struct {
	Name       string
	Title      string
	Department string
}

// Ticket is the read-only record the extraction engine operates on. The
// snapshot source guarantees ID and RequesterEmpNo; everything else may be
// absent and degrades to the placeholder at display time.
type Ticket struct {
	ID             int64
	Title          string
	Status         TicketStatus
	Priority       TicketPriority
	WorkType       *WorkType
	CategoryID     *int64
	CategoryIDs    []int64
	ProjectID      *int64
	ProjectName    *string
	RequesterEmpNo string
	Requester      *PersonSummary
	AssigneeEmpNo  *string
	Assignee       *PersonSummary
	Assignees      []PersonSummary
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
	ReopenCount    int
}

// CategoryMap resolves category IDs to display names. Supplied by the
// external category collaborator; unresolvable IDs render as the raw ID.
type CategoryMap map[int64]string

// Label tables for enumerated fields. Unknown raw values pass through
// unchanged so new backend values render without a deploy here.
var (
	statusLabels = map[TicketStatus]string{
		StatusOpen:       "Open",
		StatusInProgress: "In Progress",
		StatusResolved:   "Resolved",
		StatusClosed:     "Business Review",
	}

	priorityLabels = map[TicketPriority]string{
		PriorityLow:    "Low",
		PriorityMedium: "Medium",
		PriorityHigh:   "High",
		PriorityUrgent: "Urgent",
	}

	workTypeLabels = map[WorkType]string{
		WorkTypeIncident: "Incident",
		WorkTypeRequest:  "Request",
		WorkTypeChange:   "Change",
		WorkTypeOther:    "Other",
	}
)

// StatusLabel maps a raw status to its display label.
func StatusLabel(s TicketStatus) string {
	if s == "" {
		return Placeholder
	}
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// PriorityLabel maps a raw priority to its display label.
func PriorityLabel(p TicketPriority) string {
	if p == "" {
		return Placeholder
	}
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return string(p)
}

// WorkTypeLabel maps a raw work type to its display label. A nil work type
// renders as the placeholder.
func WorkTypeLabel(wt *WorkType) string {
	if wt == nil || *wt == "" {
		return Placeholder
	}
	if label, ok := workTypeLabels[*wt]; ok {
		return label
	}
	return string(*wt)
}

// timestampFor returns the ticket timestamp a datetime column reads from.
func (t *Ticket) timestampFor(key string) *time.Time {
	switch key {
	case ColumnCreatedAt:
		return t.CreatedAt
	case ColumnUpdatedAt:
		return t.UpdatedAt
	default:
		return nil
	}
}

// categoryIDList normalizes the single-ID and multi-ID category fields into
// one list, preferring the multi-ID form when present.
func (t *Ticket) categoryIDList() []int64 {
	if len(t.CategoryIDs) > 0 {
		return t.CategoryIDs
	}
	if t.CategoryID != nil {
		return []int64{*t.CategoryID}
	}
	return nil
}

// assigneeList normalizes the single and multi assignee summaries into one
// list, preferring the multi form when present.
func (t *Ticket) assigneeList() []PersonSummary {
	if len(t.Assignees) > 0 {
		return t.Assignees
	}
	if t.Assignee != nil {
		return []PersonSummary{*t.Assignee}
	}
	return nil
}
