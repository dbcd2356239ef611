package domain

import (
	"strconv"
	"strings"
	"time"
)

// displayTimeLayout renders timestamps for table cells and CSV export.
// Short date+time, local to the ticket's stored zone.
const displayTimeLayout = "2006-01-02 15:04"

// ExtractValue maps a ticket and column key to the normalized display
// string. The result is used both as the rendered cell and as the
// facet-matching key, so it must be deterministic: the same ticket and key
// always produce the same string, bit for bit.
func ExtractValue(t *Ticket, key string, categories CategoryMap) string {
	switch key {
	case ColumnRequesterName:
		if t.Requester != nil && t.Requester.Name != "" {
			return t.Requester.Name
		}
		if t.RequesterEmpNo != "" {
			return t.RequesterEmpNo
		}
		return Placeholder

	case ColumnRequesterTitle:
		if t.Requester != nil && t.Requester.Title != "" {
			return t.Requester.Title
		}
		return Placeholder

	case ColumnRequesterDepartment:
		if t.Requester != nil && t.Requester.Department != "" {
			return t.Requester.Department
		}
		return Placeholder

	case ColumnCategoryDisplay:
		ids := t.categoryIDList()
		names := make([]string, 0, len(ids))
		for _, id := range ids {
			if name, ok := categories[id]; ok && name != "" {
				names = append(names, name)
			} else {
				names = append(names, strconv.FormatInt(id, 10))
			}
		}
		if len(names) == 0 {
			return Placeholder
		}
		return strings.Join(names, ", ")

	case ColumnAssigneeDisplay:
		var names []string
		for _, a := range t.assigneeList() {
			if a.Name != "" {
				names = append(names, a.Name)
			}
		}
		if len(names) > 0 {
			return strings.Join(names, ", ")
		}
		if t.AssigneeEmpNo != nil && *t.AssigneeEmpNo != "" {
			return *t.AssigneeEmpNo
		}
		return Placeholder

	case ColumnStatus:
		return StatusLabel(t.Status)

	case ColumnPriority:
		return PriorityLabel(t.Priority)

	case ColumnWorkType:
		return WorkTypeLabel(t.WorkType)

	case ColumnCreatedAt:
		return formatTimestamp(t.CreatedAt)

	case ColumnUpdatedAt:
		return formatTimestamp(t.UpdatedAt)

	case ColumnReopenCount:
		return strconv.Itoa(t.ReopenCount)

	case ColumnID:
		return strconv.FormatInt(t.ID, 10)

	case ColumnTitle:
		return t.Title

	case ColumnProjectName:
		if t.ProjectName == nil {
			return Placeholder
		}
		return *t.ProjectName
	}

	// Unknown keys degrade to the placeholder, same as an absent field.
	return Placeholder
}

func formatTimestamp(ts *time.Time) string {
	if ts == nil {
		return Placeholder
	}
	return ts.Format(displayTimeLayout)
}
