package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/microshop/services/catalog/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetStock overwrites price and quantity of the product's stock and marks it
// completed. A product that lost its stock row gets a fresh one first.
func (r *GormRepo) SetStock(ctx context.Context, productID uint, price decimal.Decimal, quantity int) (*models.Stock, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := updateStock(tx, productID, price, quantity)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		repaired, err := repairStock(tx, productID)
		if err != nil {
			return err
		}
		if !repaired {
			return ErrNotFound
		}
		_, err = updateStock(tx, productID, price, quantity)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.getStock(ctx, productID, false)
}

// GetCompletedStock returns the stock of productID if an admin has set it.
// A product found without any stock row is repaired on the way, and still
// answers ErrNotFound.
func (r *GormRepo) GetCompletedStock(ctx context.Context, productID uint) (*models.Stock, error) {
	stock, err := r.getStock(ctx, productID, true)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if _, rerr := repairStock(r.DB.WithContext(ctx), productID); rerr != nil {
		return nil, rerr
	}
	return nil, ErrNotFound
}

func (r *GormRepo) getStock(ctx context.Context, productID uint, completedOnly bool) (*models.Stock, error) {
	q := r.DB.WithContext(ctx).Preload("Product").Where("product_id = ?", productID)
	if completedOnly {
		q = q.Where("completed = ?", true)
	}
	var stock models.Stock
	if err := q.First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

func updateStock(tx *gorm.DB, productID uint, price decimal.Decimal, quantity int) (int64, error) {
	res := tx.Model(&models.Stock{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{
			"price":     price,
			"quantity":  quantity,
			"completed": true,
		})
	return res.RowsAffected, res.Error
}

// repairStock creates the zero-valued stock of an existing product that has
// none. It reports whether the product exists.
func repairStock(tx *gorm.DB, productID uint) (bool, error) {
	var count int64
	if err := tx.Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	err := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "product_id"}}, DoNothing: true}).
		Create(&models.Stock{ProductID: productID}).Error
	if err != nil {
		return true, err
	}
	return true, nil
}
