package repo

import (
	"errors"

	"github.com/Skotchmaster/microshop/services/catalog/internal/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type GormRepo struct {
	DB *gorm.DB
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{}, &models.Stock{})
}
