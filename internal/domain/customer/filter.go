package customer

// FilterCriteria holds the optional search criteria for customer queries.
// A nil field means the criterion is absent and must not constrain the
// result set; all present criteria are AND-combined.
type FilterCriteria struct {
	FirstNameContains *string
	LastNameContains  *string
	MinCreditScore    *int
	MaxCreditScore    *int
	MinSalary         *float64
	MaxSalary         *float64
}

// IsEmpty reports whether no criterion is set, in which case the
// query degenerates to an unfiltered find-all
func (f FilterCriteria) IsEmpty() bool {
	return f.FirstNameContains == nil &&
		f.LastNameContains == nil &&
		f.MinCreditScore == nil &&
		f.MaxCreditScore == nil &&
		f.MinSalary == nil &&
		f.MaxSalary == nil
}
