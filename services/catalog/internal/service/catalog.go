package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/microshop/pkg/logging"
	"github.com/Skotchmaster/microshop/pkg/mykafka"
	"github.com/Skotchmaster/microshop/services/catalog/internal/models"
	"github.com/Skotchmaster/microshop/services/catalog/internal/repo"
	"github.com/Skotchmaster/microshop/services/catalog/internal/search"
	"github.com/Skotchmaster/microshop/services/catalog/internal/transport"
	"github.com/Skotchmaster/microshop/services/catalog/internal/util"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

var maxPrice = decimal.New(1, 8) // numeric(10,2)

type CatalogService struct {
	Repo   *repo.GormRepo
	Search search.Index
	Events mykafka.Publisher
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	name, category := strings.TrimSpace(req.Name), strings.TrimSpace(req.Category)
	if name == "" || category == "" {
		return nil, fmt.Errorf("name and category are required: %w", ErrValidation)
	}

	prod := &models.Product{Name: name, Category: category}
	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		return nil, err
	}

	if s.Search != nil {
		if err := s.Search.IndexProduct(ctx, prod); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "product_id", prod.ID, "error", err)
		}
	}
	s.emit(ctx, "product_created", transport.ProductEvent{ProductID: prod.ID, Name: prod.Name, Category: prod.Category})
	return prod, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product does not exist")
	}
	return prod, nil
}

func (s *CatalogService) GetProducts(ctx context.Context, page int) ([]models.Product, error) {
	offset, limit := util.Calculate(page, util.PageSize)
	return s.Repo.GetProducts(ctx, offset, limit)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return notFound(err, "product does not exist")
	}

	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_delete_failed", "product_id", id, "error", err)
		}
	}
	s.emit(ctx, "product_deleted", transport.ProductEvent{ProductID: id})
	return nil
}

func (s *CatalogService) SetStock(ctx context.Context, productID uint, req transport.SetStockRequest) (*models.Stock, error) {
	if req.Price.IsNegative() || req.Quantity < 0 {
		return nil, fmt.Errorf("price and quantity must not be negative: %w", ErrValidation)
	}
	if req.Price.GreaterThanOrEqual(maxPrice) {
		return nil, fmt.Errorf("price is too large: %w", ErrValidation)
	}
	price := req.Price.Round(2)

	stock, err := s.Repo.SetStock(ctx, productID, price, req.Quantity)
	if err != nil {
		return nil, notFound(err, "product does not exist")
	}

	s.emit(ctx, "stock_updated", transport.ProductEvent{ProductID: productID, Price: &stock.Price, Quantity: &stock.Quantity})
	return stock, nil
}

// GetStock answers only stocks an admin has completed.
func (s *CatalogService) GetStock(ctx context.Context, productID uint) (*models.Stock, error) {
	stock, err := s.Repo.GetCompletedStock(ctx, productID)
	if err != nil {
		return nil, notFound(err, "product or stock does not exist")
	}
	return stock, nil
}

// SearchProducts queries the search index when one is configured and falls
// back to a LIKE scan of the database otherwise or when the index fails.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, page int) ([]models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("query is required: %w", ErrValidation)
	}
	offset, limit := util.Calculate(page, util.PageSize)

	if s.Search != nil {
		ids, err := s.Search.Search(ctx, q, offset, limit)
		if err == nil {
			return s.Repo.GetProductsByIDs(ctx, ids)
		}
		logging.FromContext(ctx).Warn("search_index_query_failed", "query", q, "error", err)
	}
	return s.Repo.SearchProducts(ctx, q, offset, limit)
}

func (s *CatalogService) emit(ctx context.Context, typ string, ev transport.ProductEvent) {
	mykafka.Emit(ctx, s.Events, strconv.FormatUint(uint64(ev.ProductID), 10), mykafka.NewEvent(typ, ev))
}

func notFound(err error, msg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	}
	return err
}

// Message strips the sentinel suffix from an error built by this package.
func Message(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[:i]
	}
	return msg
}
