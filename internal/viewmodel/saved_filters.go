package viewmodel

import "github.com/Veraticus/payfilter/internal/model"

// SavedFilterItemView is one entry in the saved-filter list.
type SavedFilterItemView struct {
	ID        string
	Name      string
	Summary   string
	CreatedAt string
}

// NewSavedFilterList builds list entries in the order given.
func NewSavedFilterList(filters []model.SavedFilter) []SavedFilterItemView {
	items := make([]SavedFilterItemView, 0, len(filters))
	for _, f := range filters {
		items = append(items, SavedFilterItemView{
			ID:        f.ID,
			Name:      f.Name,
			Summary:   SavedFilterSummary(f.Filters),
			CreatedAt: FormatDate(f.CreatedAt),
		})
	}
	return items
}
