package entities

// ListFilter is "all" or a single ResultType.
type ListFilter string

const ListFilterAll ListFilter = "all"

// Matches reports whether an item of type t passes the filter.
func (f ListFilter) Matches(t ResultType) bool {
	return f == ListFilterAll || ResultType(f) == t
}

// SortOrder orders list rows by name.
type SortOrder string

const (
	SortNameAsc  SortOrder = "name-asc"
	SortNameDesc SortOrder = "name-desc"
)

// ListRow is one rendered row of the results list.
type ListRow struct {
	ID          string     `json:"id"`
	Type        ResultType `json:"type"`
	Icon        string     `json:"icon"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	City        string     `json:"city,omitempty"`
	Highlighted bool       `json:"highlighted"`
}

// ListView is the filtered and sorted results list.
type ListView struct {
	Loading      bool       `json:"loading"`
	Skeletons    int        `json:"skeletons,omitempty"`
	Filter       ListFilter `json:"filter"`
	Sort         SortOrder  `json:"sort"`
	Total        int        `json:"total"`
	Rows         []ListRow  `json:"rows"`
	EmptyMessage string     `json:"empty_message,omitempty"`
}
