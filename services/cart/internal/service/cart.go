package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/microshop/pkg/authclient"
	"github.com/Skotchmaster/microshop/pkg/logging"
	"github.com/Skotchmaster/microshop/pkg/mykafka"
	"github.com/Skotchmaster/microshop/services/cart/internal/catalogclient"
	"github.com/Skotchmaster/microshop/services/cart/internal/models"
	"github.com/Skotchmaster/microshop/services/cart/internal/repo"
	"github.com/Skotchmaster/microshop/services/cart/internal/transport"
)

var (
	ErrValidation  = errors.New("validation")
	ErrNotFound    = errors.New("not found")
	ErrBadUpstream = errors.New("bad upstream")
)

type StockReader interface {
	GetStock(ctx context.Context, authorization string, productID uint) (*catalogclient.Stock, error)
}

type CartService struct {
	Repo    *repo.GormRepo
	Catalog StockReader
	Events  mykafka.Publisher
}

// AddItem snapshots the catalog's current price and description of productID
// into a new line of username's cart and returns the whole cart.
func (s *CartService) AddItem(ctx context.Context, username, authorization string, productID uint, quantity int) (*models.Cart, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add_item", "product_id", productID)

	if productID == 0 {
		return nil, fmt.Errorf("product_id is required: %w", ErrValidation)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be more than zero: %w", ErrValidation)
	}

	cart, err := s.Repo.ResolveCart(ctx, username)
	if err != nil {
		return nil, err
	}

	stock, err := s.Catalog.GetStock(ctx, authorization, productID)
	if err != nil {
		if errors.Is(err, catalogclient.ErrNotFound) {
			return nil, fmt.Errorf("product or stock does not exist: %w", ErrNotFound)
		}
		l.Warn("catalog_request_failed", "error", err)
		return nil, fmt.Errorf("%s: %w", upstreamMessage(err), ErrBadUpstream)
	}
	if !stock.Completed {
		return nil, fmt.Errorf("product or stock does not exist: %w", ErrNotFound)
	}

	item := &models.CartItem{
		CartID:          cart.ID,
		ProductID:       productID,
		ProductName:     stock.Product.Name,
		ProductCategory: stock.Product.Category,
		UnitPrice:       stock.Price,
		Price:           stock.Price.Mul(decimal.NewFromInt(int64(quantity))),
		Quantity:        quantity,
	}
	if err := s.Repo.AddItem(ctx, item); err != nil {
		return nil, err
	}

	mykafka.Emit(ctx, s.Events, username, mykafka.NewEvent("cart_item_added", transport.CartEvent{
		Username:  username,
		ProductID: productID,
		Quantity:  quantity,
		Price:     item.Price.StringFixed(2),
	}))

	return s.Repo.GetCart(ctx, username)
}

func (s *CartService) GetCart(ctx context.Context, username string) (*models.Cart, error) {
	cart, err := s.Repo.GetCart(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("shopping cart does not exist: %w", ErrNotFound)
		}
		return nil, err
	}
	return cart, nil
}

func (s *CartService) ClearCart(ctx context.Context, username string) error {
	if err := s.Repo.DeleteCart(ctx, username); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("shopping cart does not exist: %w", ErrNotFound)
		}
		return err
	}
	mykafka.Emit(ctx, s.Events, username, mykafka.NewEvent("cart_cleared", transport.CartEvent{Username: username}))
	return nil
}

func upstreamMessage(err error) string {
	var ue *authclient.UpstreamError
	if errors.As(err, &ue) {
		if ue.Body != "" {
			return fmt.Sprintf("catalog service error (%d): %s", ue.Status, ue.Body)
		}
		return fmt.Sprintf("catalog service error (%d)", ue.Status)
	}
	return "catalog service unavailable"
}

// Message strips the sentinel suffix from an error built by this package.
func Message(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[:i]
	}
	return msg
}
