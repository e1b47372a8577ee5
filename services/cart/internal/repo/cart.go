package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/microshop/services/cart/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResolveCart returns the cart of username, creating it on first use. A
// concurrent creator losing the unique-index race re-reads the winner's row.
func (r *GormRepo) ResolveCart(ctx context.Context, username string) (*models.Cart, error) {
	db := r.DB.WithContext(ctx)

	var cart models.Cart
	err := db.Where("username = ?", username).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{Username: username}
	if err := db.Omit(clause.Associations).Create(&cart).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		cart = models.Cart{}
		if err := db.Where("username = ?", username).First(&cart).Error; err != nil {
			return nil, err
		}
	}
	return &cart, nil
}

func (r *GormRepo) AddItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(item).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).Where("id = ?", item.CartID).Update("updated_at", item.CreatedAt).Error
	})
}

// GetCart returns the cart of username with its items in insertion order.
func (r *GormRepo) GetCart(ctx context.Context, username string) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("username = ?", username).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// DeleteCart removes the cart of username and all of its items.
func (r *GormRepo) DeleteCart(ctx context.Context, username string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("username = ?", username).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cart).Error
	})
}
