package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/scrap_market/services/market/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(models.All()...)
}

// InTx runs fn against a repository bound to a single transaction.
// Returning an error from fn rolls every write back.
func (r *GormRepo) InTx(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

// sellerProducts is a subquery over the ids of every product the seller owns.
func (r *GormRepo) sellerProducts(ctx context.Context, sellerID uint) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&models.Product{}).Select("id").Where("user_id = ?", sellerID)
}

func notIn(q *gorm.DB, column string, ids []uint) *gorm.DB {
	if len(ids) == 0 {
		return q
	}
	return q.Where(column+" NOT IN ?", ids)
}
