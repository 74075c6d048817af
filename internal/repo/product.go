package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/mockshop/internal/models"
)

func (r *GormRepo) GetProducts(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	out := make(map[int64]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var products []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("get products: %w", translate(err))
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// createProductIfNotExists keeps the first write for an id; later payloads
// for the same id are ignored.
func createProductIfNotExists(tx *gorm.DB, p *models.Product) (bool, error) {
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(p)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
