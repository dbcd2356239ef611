package domain

// FilterKind tags how a column participates in faceted filtering.
type FilterKind string

const (
	// FilterKindNone marks display-only columns.
	FilterKindNone FilterKind = "none"
	// FilterKindDiscrete marks columns filtered by excluding display values.
	FilterKindDiscrete FilterKind = "discrete"
	// FilterKindDatetimeParts marks timestamp columns faceted by
	// year/month/day/hour exclusion sets.
	FilterKindDatetimeParts FilterKind = "datetime-parts"
	// FilterKindDayOfYearRange marks timestamp columns filtered by a year
	// inclusion set plus a day-of-year range.
	FilterKindDayOfYearRange FilterKind = "day-of-year-range"
)

// Column keys. These double as cell keys in query responses and as facet
// keys in filter state.
const (
	ColumnID                  = "id"
	ColumnTitle               = "title"
	ColumnStatus              = "status"
	ColumnPriority            = "priority"
	ColumnWorkType            = "work_type"
	ColumnProjectName         = "project_name"
	ColumnCategoryDisplay     = "category_display"
	ColumnRequesterName       = "requester_name"
	ColumnRequesterTitle      = "requester_title"
	ColumnRequesterDepartment = "requester_department"
	ColumnAssigneeDisplay     = "assignee_display"
	ColumnCreatedAt           = "created_at"
	ColumnUpdatedAt           = "updated_at"
	ColumnReopenCount         = "reopen_count"
)

// Datetime part names, appended to a column key to form a facet key
// (e.g. "created_at_year").
const (
	PartYear  = "year"
	PartMonth = "month"
	PartDay   = "day"
	PartHour  = "hour"
)

// PartKey builds the facet key for one calendar part of a datetime column.
func PartKey(columnKey, part string) string {
	return columnKey + "_" + part
}

// ColumnDefinition is static configuration describing one extractable
// column. Definitions are process-wide constants, never derived from data.
type ColumnDefinition struct {
	Key     string
	Label   string
	Section string
	Kind    FilterKind

	// DropPlaceholder removes the bare "-" sentinel from the column's
	// offered facet values. Set on columns where "-" means "no data" rather
	// than a meaningful filter target.
	DropPlaceholder bool
}

// Filterable reports whether the column participates in filtering at all.
func (c ColumnDefinition) Filterable() bool {
	return c.Kind != FilterKindNone
}

// Variant selects one of the two extract-page column catalogs.
type Variant string

const (
	// VariantExtract is the sectioned catalog with the day-of-year range
	// filter on created_at (the primary data-extract page).
	VariantExtract Variant = "extract"
	// VariantDatetime is the flat catalog with four-part datetime faceting
	// on created_at.
	VariantDatetime Variant = "datetime"
)

// Section labels for the extract variant, in display order.
const (
	SectionBasics  = "Basics"
	SectionProject = "Project & Category"
	SectionRequest = "Requester"
	SectionAssign  = "Assignment"
	SectionDates   = "Dates & Reopens"
)

// SectionOrder is the display order of extract-variant sections.
var SectionOrder = []string{SectionBasics, SectionProject, SectionRequest, SectionAssign, SectionDates}

var extractColumns = []ColumnDefinition{
	{Key: ColumnID, Label: "ID", Section: SectionBasics, Kind: FilterKindNone},
	{Key: ColumnTitle, Label: "Title", Section: SectionBasics, Kind: FilterKindNone},
	{Key: ColumnStatus, Label: "Status", Section: SectionBasics, Kind: FilterKindDiscrete},
	{Key: ColumnPriority, Label: "Priority", Section: SectionBasics, Kind: FilterKindDiscrete},
	{Key: ColumnWorkType, Label: "Work Type", Section: SectionBasics, Kind: FilterKindDiscrete},
	{Key: ColumnProjectName, Label: "Project", Section: SectionProject, Kind: FilterKindDiscrete},
	{Key: ColumnCategoryDisplay, Label: "Category", Section: SectionProject, Kind: FilterKindDiscrete, DropPlaceholder: true},
	{Key: ColumnRequesterName, Label: "Requester Name", Section: SectionRequest, Kind: FilterKindNone},
	{Key: ColumnRequesterTitle, Label: "Requester Title", Section: SectionRequest, Kind: FilterKindDiscrete},
	{Key: ColumnRequesterDepartment, Label: "Requester Department", Section: SectionRequest, Kind: FilterKindDiscrete},
	{Key: ColumnAssigneeDisplay, Label: "Assignee", Section: SectionAssign, Kind: FilterKindDiscrete, DropPlaceholder: true},
	{Key: ColumnCreatedAt, Label: "Created At", Section: SectionDates, Kind: FilterKindDayOfYearRange},
	{Key: ColumnUpdatedAt, Label: "Updated At", Section: SectionDates, Kind: FilterKindNone},
	{Key: ColumnReopenCount, Label: "Reopen Count", Section: SectionDates, Kind: FilterKindNone},
}

var datetimeColumns = []ColumnDefinition{
	{Key: ColumnID, Label: "ID", Kind: FilterKindNone},
	{Key: ColumnTitle, Label: "Title", Kind: FilterKindNone},
	{Key: ColumnStatus, Label: "Status", Kind: FilterKindDiscrete},
	{Key: ColumnPriority, Label: "Priority", Kind: FilterKindDiscrete},
	{Key: ColumnWorkType, Label: "Work Type", Kind: FilterKindDiscrete},
	{Key: ColumnProjectName, Label: "Project", Kind: FilterKindDiscrete},
	{Key: ColumnCategoryDisplay, Label: "Category", Kind: FilterKindDiscrete, DropPlaceholder: true},
	{Key: ColumnRequesterName, Label: "Requester Name", Kind: FilterKindNone},
	{Key: ColumnRequesterTitle, Label: "Requester Title", Kind: FilterKindDiscrete},
	{Key: ColumnRequesterDepartment, Label: "Requester Department", Kind: FilterKindDiscrete},
	{Key: ColumnAssigneeDisplay, Label: "Assignee", Kind: FilterKindDiscrete, DropPlaceholder: true},
	{Key: ColumnCreatedAt, Label: "Created At", Kind: FilterKindDatetimeParts},
	{Key: ColumnUpdatedAt, Label: "Updated At", Kind: FilterKindNone},
	{Key: ColumnReopenCount, Label: "Reopen Count", Kind: FilterKindNone},
}

// ColumnsFor returns the column catalog for a variant. The returned slice
// is a copy; callers may reorder or subset it freely.
func ColumnsFor(v Variant) []ColumnDefinition {
	var src []ColumnDefinition
	switch v {
	case VariantDatetime:
		src = datetimeColumns
	default:
		src = extractColumns
	}
	out := make([]ColumnDefinition, len(src))
	copy(out, src)
	return out
}

// FindColumn looks up a column by key within a catalog.
func FindColumn(columns []ColumnDefinition, key string) (ColumnDefinition, bool) {
	for _, c := range columns {
		if c.Key == key {
			return c, true
		}
	}
	return ColumnDefinition{}, false
}

// SelectColumns returns the catalog entries matching keys, in the order the
// keys are given. Unknown keys are reported back to the caller.
func SelectColumns(columns []ColumnDefinition, keys []string) ([]ColumnDefinition, []string) {
	selected := make([]ColumnDefinition, 0, len(keys))
	var unknown []string
	for _, key := range keys {
		col, ok := FindColumn(columns, key)
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		selected = append(selected, col)
	}
	return selected, unknown
}

// ParseVariant validates a variant query value. Empty selects the primary
// extract catalog.
func ParseVariant(s string) (Variant, bool) {
	switch s {
	case "", string(VariantExtract):
		return VariantExtract, true
	case string(VariantDatetime):
		return VariantDatetime, true
	default:
		return "", false
	}
}
