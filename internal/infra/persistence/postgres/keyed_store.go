package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// keyedStore holds the queries shared by tables addressed through a unique key column.
// Entity-specific repositories embed it and add their own queries.
type keyedStore[M any] struct {
	db        *gorm.DB
	keyColumn string
}

func newKeyedStore[M any](db *gorm.DB, keyColumn string) keyedStore[M] {
	return keyedStore[M]{db: db, keyColumn: keyColumn}
}

func (s keyedStore[M]) create(ctx context.Context, m *M) error {
	return s.db.WithContext(ctx).Create(m).Error
}

// findByKey reads from the primary so a freshly rotated row is never served stale.
func (s keyedStore[M]) findByKey(ctx context.Context, key string) (*M, error) {
	var m M
	if err := s.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where(s.keyColumn+" = ?", key).
		Take(&m).Error; err != nil {
		return nil, err
	}

	return &m, nil
}

// compareAndSet applies set to the row with the given key only while guard holds.
// It reports whether the row was changed.
func (s keyedStore[M]) compareAndSet(ctx context.Context, key string, guard, set map[string]any) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(new(M)).
		Where(s.keyColumn+" = ?", key).
		Where(guard).
		Updates(set)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// updateWhere applies set to every row matching cond and returns the affected count.
func (s keyedStore[M]) updateWhere(ctx context.Context, cond, set map[string]any) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(new(M)).
		Where(cond).
		Updates(set)

	return res.RowsAffected, res.Error
}
