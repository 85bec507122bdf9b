package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/card-transactions-generator/models"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// HashPanRepositoryImpl implements HashPanRepository on Postgres
type HashPanRepositoryImpl struct {
	*BaseRepository[models.HashPan, models.HashPanFilter]
}

// NewHashPanRepository creates a new hash_pan repository
func NewHashPanRepository(db *gorm.DB, table string) HashPanRepository {
	return &HashPanRepositoryImpl{
		BaseRepository: NewBaseRepository[models.HashPan, models.HashPanFilter](db, table),
	}
}

// ByFilter retrieves hash_pans based on filter criteria
func (r *HashPanRepositoryImpl) ByFilter(ctx context.Context, filter models.HashPanFilter, orderBy string, limit, offset int) ([]*models.HashPan, error) {
	db := r.applyFilter(r.getDB(ctx), filter)

	if orderBy == "" {
		orderBy = "id ASC"
	}
	db = db.Order(orderBy)
	if limit > 0 {
		db = db.Limit(limit)
	}
	if offset > 0 {
		db = db.Offset(offset)
	}

	var rows []*models.HashPan
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find hash_pans by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of hash_pans matching the filter
func (r *HashPanRepositoryImpl) Count(ctx context.Context, filter models.HashPanFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.getDB(ctx).Model(&models.HashPan{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count hash_pans: %w", err)
	}
	return count, nil
}

// Exists checks if any hash_pan matching the filter exists
func (r *HashPanRepositoryImpl) Exists(ctx context.Context, filter models.HashPanFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ByIDs fetches the hash_pan of every existing id in one round trip
func (r *HashPanRepositoryImpl) ByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.ByFilter(ctx, models.HashPanFilter{IDs: ids}, "", 0, 0)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.HashPan
	}
	return out, nil
}

func (r *HashPanRepositoryImpl) applyFilter(db *gorm.DB, filter models.HashPanFilter) *gorm.DB {
	if len(filter.IDs) > 0 {
		db = db.Where("id = ANY(?)", pq.Array(filter.IDs))
	}
	return db
}
