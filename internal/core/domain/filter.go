package domain

// ExclusionFacet is a set of display values that cause a record to be
// dropped. Empty or nil means no exclusion: every value passes. This is the
// default model for discrete columns.
type ExclusionFacet map[string]struct{}

// NewExclusionFacet builds an exclusion facet from a value list.
func NewExclusionFacet(values ...string) ExclusionFacet {
	f := make(ExclusionFacet, len(values))
	for _, v := range values {
		f[v] = struct{}{}
	}
	return f
}

// Excludes reports whether v is excluded.
func (f ExclusionFacet) Excludes(v string) bool {
	_, ok := f[v]
	return ok
}

// Empty reports whether the facet excludes nothing.
func (f ExclusionFacet) Empty() bool { return len(f) == 0 }

// Toggle flips v's membership and returns the updated facet. Toggling the
// same value twice restores the original set.
func (f ExclusionFacet) Toggle(v string) ExclusionFacet {
	if f == nil {
		f = make(ExclusionFacet)
	}
	if _, ok := f[v]; ok {
		delete(f, v)
	} else {
		f[v] = struct{}{}
	}
	return f
}

// Values returns the excluded values in unspecified order.
func (f ExclusionFacet) Values() []string {
	out := make([]string, 0, len(f))
	for v := range f {
		out = append(out, v)
	}
	return out
}

// InclusionFacet is a set of values of which a record must match one.
// Empty or nil means everything passes; non-empty means only listed values
// pass. Used by the year sub-facet of the day-of-year range column. Keep
// this distinct from ExclusionFacet: the two defaults look identical but
// diverge the moment a value is added.
type InclusionFacet map[string]struct{}

// NewInclusionFacet builds an inclusion facet from a value list.
func NewInclusionFacet(values ...string) InclusionFacet {
	f := make(InclusionFacet, len(values))
	for _, v := range values {
		f[v] = struct{}{}
	}
	return f
}

// Allows reports whether v passes the facet.
func (f InclusionFacet) Allows(v string) bool {
	if len(f) == 0 {
		return true
	}
	_, ok := f[v]
	return ok
}

// DayRangePercent is the dual-handle slider position, both handles in
// [0,100]. The UI maintains Start <= End by clamping each drag against the
// other handle; DragStart and DragEnd reproduce that contract.
type DayRangePercent struct {
	Start float64
	End   float64
}

// FullDayRange covers the whole year.
func FullDayRange() DayRangePercent {
	return DayRangePercent{Start: 0, End: 100}
}

// DragStart moves the start handle to pos, clamped to the track and to the
// end handle.
func (r DayRangePercent) DragStart(pos float64) DayRangePercent {
	r.Start = min(clampPercent(pos), r.End)
	return r
}

// DragEnd moves the end handle to pos, clamped to the track and to the
// start handle.
func (r DayRangePercent) DragEnd(pos float64) DayRangePercent {
	r.End = max(clampPercent(pos), r.Start)
	return r
}

func clampPercent(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// FilterState is the full facet selection for one extract page. Exclusions
// are keyed by column key, or by column-plus-part key for datetime parts
// (e.g. "created_at_year"). YearsIncluded and DayRange apply only to the
// day-of-year-range column.
type FilterState struct {
	Exclusions    map[string]ExclusionFacet
	YearsIncluded InclusionFacet
	DayRange      DayRangePercent
}

// NewFilterState returns the neutral state: nothing excluded, all years
// included, the day range spanning the whole year.
func NewFilterState() FilterState {
	return FilterState{
		Exclusions: make(map[string]ExclusionFacet),
		DayRange:   FullDayRange(),
	}
}

// ToggleExclusion flips one value's membership in a column's exclusion set.
func (s *FilterState) ToggleExclusion(key, value string) {
	if s.Exclusions == nil {
		s.Exclusions = make(map[string]ExclusionFacet)
	}
	s.Exclusions[key] = s.Exclusions[key].Toggle(value)
}

// exclusionFor returns the exclusion facet for a facet key, possibly nil.
func (s FilterState) exclusionFor(key string) ExclusionFacet {
	if s.Exclusions == nil {
		return nil
	}
	return s.Exclusions[key]
}
