package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/microshop/pkg/authclient"
	"github.com/Skotchmaster/microshop/pkg/db"
	"github.com/Skotchmaster/microshop/services/cart/internal/catalogclient"
	"github.com/Skotchmaster/microshop/services/cart/internal/repo"
)

type fakeCatalog struct {
	stocks map[uint]*catalogclient.Stock
	err    error
	auths  []string
}

func (f *fakeCatalog) GetStock(_ context.Context, authorization string, productID uint) (*catalogclient.Stock, error) {
	f.auths = append(f.auths, authorization)
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.stocks[productID]
	if !ok {
		return nil, catalogclient.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

type recordingPublisher struct {
	keys []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, key string, _ any) error {
	p.keys = append(p.keys, key)
	return nil
}
func (p *recordingPublisher) Close() error { return nil }

func newTestService(t *testing.T) (*CartService, *fakeCatalog, *recordingPublisher) {
	t.Helper()
	gdb, err := db.Open(context.Background(), "sqlite::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	cat := &fakeCatalog{stocks: map[uint]*catalogclient.Stock{
		1: {
			ProductID: 1,
			Price:     decimal.RequireFromString("9.99"),
			Quantity:  10,
			Completed: true,
			Product:   &catalogclient.Product{ID: 1, Name: "Mug", Category: "kitchen"},
		},
	}}
	pub := &recordingPublisher{}
	return &CartService{Repo: &repo.GormRepo{DB: gdb}, Catalog: cat, Events: pub}, cat, pub
}

func TestAddItem_SnapshotsCatalog(t *testing.T) {
	svc, cat, pub := newTestService(t)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "alice", "alice-token", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice-token"}, cat.auths)
	assert.Equal(t, []string{"alice"}, pub.keys)

	require.Len(t, cart.Items, 1)
	it := cart.Items[0]
	assert.Equal(t, "alice", cart.Username)
	assert.Equal(t, "Mug", it.ProductName)
	assert.Equal(t, "kitchen", it.ProductCategory)
	assert.Equal(t, "9.99", it.UnitPrice.StringFixed(2))
	assert.Equal(t, "19.98", it.Price.StringFixed(2))
	assert.Equal(t, 2, it.Quantity)
}

func TestAddItem_SnapshotIsNotRefreshed(t *testing.T) {
	svc, cat, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "alice", "tok", 1, 1)
	require.NoError(t, err)

	cat.stocks[1].Price = decimal.RequireFromString("20.00")
	cat.stocks[1].Product = &catalogclient.Product{ID: 1, Name: "Big Mug", Category: "kitchen"}

	cart, err := svc.AddItem(ctx, "alice", "tok", 1, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "Mug", cart.Items[0].ProductName)
	assert.Equal(t, "9.99", cart.Items[0].Price.StringFixed(2))
	assert.Equal(t, "Big Mug", cart.Items[1].ProductName)
	assert.Equal(t, "20.00", cart.Items[1].Price.StringFixed(2))

	got, err := svc.GetCart(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, got.ID)
	assert.Equal(t, "9.99", got.Items[0].Price.StringFixed(2))
}

func TestAddItem_Validation(t *testing.T) {
	svc, cat, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "alice", "tok", 0, 1)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.AddItem(ctx, "alice", "tok", 1, 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.AddItem(ctx, "alice", "tok", 1, -3)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, cat.auths)
}

func TestAddItem_CatalogFailures(t *testing.T) {
	svc, cat, pub := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "alice", "tok", 42, 1)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "product or stock does not exist", Message(err))

	cat.stocks[2] = &catalogclient.Stock{ProductID: 2, Product: &catalogclient.Product{ID: 2, Name: "x", Category: "y"}}
	_, err = svc.AddItem(ctx, "alice", "tok", 2, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	cat.err = &authclient.UpstreamError{Status: http.StatusUnauthorized, Body: "Unauthorized: Token is invalid"}
	_, err = svc.AddItem(ctx, "alice", "tok", 1, 1)
	require.ErrorIs(t, err, ErrBadUpstream)
	assert.Contains(t, Message(err), "Token is invalid")

	cat.err = errors.New("dial tcp: connection refused")
	_, err = svc.AddItem(ctx, "alice", "tok", 1, 1)
	require.ErrorIs(t, err, ErrBadUpstream)
	assert.Equal(t, "catalog service unavailable", Message(err))

	assert.Empty(t, pub.keys)

	// the cart was resolved before the catalog answered
	cart, err := svc.GetCart(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestGetAndClearCart(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetCart(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.ClearCart(ctx, "bob"), ErrNotFound)

	_, err = svc.AddItem(ctx, "bob", "tok", 1, 3)
	require.NoError(t, err)
	require.NoError(t, svc.ClearCart(ctx, "bob"))
	assert.Equal(t, []string{"bob", "bob"}, pub.keys)

	_, err = svc.GetCart(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}
