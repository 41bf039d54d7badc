package services

import (
	"fmt"
	"slices"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/localpulse/localpulse/internal/domain/entities"
	apperrors "github.com/localpulse/localpulse/pkg/errors"
)

const (
	// SkeletonCount is the number of placeholder rows shown while a search runs.
	SkeletonCount    = 5
	EmptyListMessage = "No results for this filter."
)

// ParseFilter accepts "all" or a result type; empty means all
func ParseFilter(s string) (entities.ListFilter, error) {
	if s == "" || entities.ListFilter(s) == entities.ListFilterAll {
		return entities.ListFilterAll, nil
	}
	if entities.ResultType(s).Valid() {
		return entities.ListFilter(s), nil
	}
	return "", apperrors.NewFieldValidationError("type", fmt.Sprintf("unknown type filter %q", s))
}

// ParseSort accepts "name-asc" or "name-desc"; empty means ascending
func ParseSort(s string) (entities.SortOrder, error) {
	switch entities.SortOrder(s) {
	case "", entities.SortNameAsc:
		return entities.SortNameAsc, nil
	case entities.SortNameDesc:
		return entities.SortNameDesc, nil
	}
	return "", apperrors.NewFieldValidationError("sort", fmt.Sprintf("unknown sort order %q", s))
}

// ResultsList builds the filtered and sorted list view
type ResultsList struct {
	tag language.Tag
}

// NewResultsList sorts names by the collation rules of locale, falling back to English
func NewResultsList(locale string) *ResultsList {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &ResultsList{tag: tag}
}

// View filters items by type and sorts them by name. While loading, the rows
// are replaced by skeleton placeholders.
func (l *ResultsList) View(items []entities.SearchResultItem, filter entities.ListFilter, order entities.SortOrder, hoveredID string, loading bool) entities.ListView {
	view := entities.ListView{
		Filter: filter,
		Sort:   order,
		Total:  len(items),
		Rows:   []entities.ListRow{},
	}
	if loading {
		view.Loading = true
		view.Skeletons = SkeletonCount
		return view
	}

	for _, item := range items {
		if !filter.Matches(item.Type) {
			continue
		}
		view.Rows = append(view.Rows, entities.ListRow{
			ID:          item.ID,
			Type:        item.Type,
			Icon:        item.Type.Icon(),
			Name:        item.Name,
			Description: item.Description,
			Location:    item.Location,
			City:        item.City,
			Highlighted: item.ID == hoveredID,
		})
	}

	// Collators keep internal buffers, so each call gets its own.
	c := collate.New(l.tag)
	sort.SliceStable(view.Rows, func(i, j int) bool {
		return c.CompareString(view.Rows[i].Name, view.Rows[j].Name) < 0
	})
	if order == entities.SortNameDesc {
		slices.Reverse(view.Rows)
	}

	if len(view.Rows) == 0 {
		view.EmptyMessage = EmptyListMessage
	}
	return view
}
