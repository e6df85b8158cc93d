package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

// childQuery loads one collection type for many parent stores in a single
// statement and groups the rows by store id.
type childQuery[R any] struct {
	name  string
	build func(db *gorm.DB, storeIDs []string) *gorm.DB
	key   func(row *R) string
}

func (q childQuery[R]) load(db *gorm.DB, storeIDs []string) (map[string][]R, error) {
	grouped := make(map[string][]R, len(storeIDs))
	if len(storeIDs) == 0 {
		return grouped, nil
	}

	var rows []R
	if err := q.build(db, storeIDs).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading store %s: %w", q.name, err)
	}

	for i := range rows {
		k := q.key(&rows[i])
		grouped[k] = append(grouped[k], rows[i])
	}

	return grouped, nil
}
