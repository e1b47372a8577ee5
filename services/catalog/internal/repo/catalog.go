package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/microshop/services/catalog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateProduct stores prod together with its zero-valued stock.
func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(prod).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(&models.Stock{ProductID: prod.ID}).Error
	})
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &prod, nil
}

func (r *GormRepo) GetProducts(ctx context.Context, offset, limit int) ([]models.Product, error) {
	items := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).
		Order("name DESC").Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetProductsByIDs keeps the order of ids and skips ids that no longer exist.
func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var found []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	items := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			items = append(items, p)
		}
	}
	return items, nil
}

func (r *GormRepo) SearchProducts(ctx context.Context, q string, offset, limit int) ([]models.Product, error) {
	pattern := "%" + escapeLike(q) + "%"
	items := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?) ESCAPE '\\' OR LOWER(category) LIKE LOWER(?) ESCAPE '\\'", pattern, pattern).
		Order("name DESC").Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteProduct removes the product and its stock. The FK cascades as well;
// the explicit delete covers databases running without FK enforcement.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.Stock{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
