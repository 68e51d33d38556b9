package catalog

import (
	"github.com/example/signtutor/pkg/models"
)

// Index holds the loaded sign catalog with precomputed lookups. It is built
// once when the catalog loads, so selection and per-sign lookups are O(1)
// instead of scanning category lists.
type Index struct {
	order      []models.Sign
	byID       map[string]models.Sign
	byCategory map[string][]models.Sign
	categories []models.Category
}

// NewIndex builds an index over the given catalog. Sign order is preserved
// everywhere: it is the stable tie-break order for selection.
func NewIndex(categories []models.Category, signs []models.Sign) *Index {
	idx := &Index{
		order:      signs,
		byID:       make(map[string]models.Sign, len(signs)),
		byCategory: make(map[string][]models.Sign),
		categories: categories,
	}
	for _, s := range signs {
		idx.byID[s.ID] = s
		idx.byCategory[s.CategoryID] = append(idx.byCategory[s.CategoryID], s)
	}
	return idx
}

// Sign returns one sign by id.
func (idx *Index) Sign(id string) (models.Sign, bool) {
	s, ok := idx.byID[id]
	return s, ok
}

// Categories returns the catalog's categories.
func (idx *Index) Categories() []models.Category {
	return idx.categories
}

// Size returns the total number of signs in the catalog.
func (idx *Index) Size() int {
	return len(idx.order)
}

// Pool returns the candidate pool for a set of category ids, in catalog
// order. An empty selection yields an empty pool.
func (idx *Index) Pool(categoryIDs []string) []models.Sign {
	if len(categoryIDs) == 0 {
		return nil
	}
	wanted := make(map[string]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		wanted[id] = true
	}
	var pool []models.Sign
	for _, s := range idx.order {
		if wanted[s.CategoryID] {
			pool = append(pool, s)
		}
	}
	return pool
}
