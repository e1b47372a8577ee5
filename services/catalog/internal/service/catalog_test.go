package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/microshop/pkg/db"
	"github.com/Skotchmaster/microshop/services/catalog/internal/models"
	"github.com/Skotchmaster/microshop/services/catalog/internal/repo"
	"github.com/Skotchmaster/microshop/services/catalog/internal/transport"
)

type fakeIndex struct {
	indexed []uint
	deleted []uint
	hits    []uint
	err     error
}

func (f *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, int, int) ([]uint, error) {
	return f.hits, f.err
}

type recordingPublisher struct {
	keys []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, key string, _ any) error {
	p.keys = append(p.keys, key)
	return nil
}
func (p *recordingPublisher) Close() error { return nil }

func newTestService(t *testing.T) (*CatalogService, *recordingPublisher) {
	t.Helper()
	gdb, err := db.Open(context.Background(), "sqlite::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	pub := &recordingPublisher{}
	return &CatalogService{Repo: &repo.GormRepo{DB: gdb}, Events: pub}, pub
}

func TestCreateProduct_Validation(t *testing.T) {
	svc, pub := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, transport.CreateProductRequest{Name: " ", Category: "x"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, pub.keys)

	p, err := svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "Mug", Category: "kitchen"})
	require.NoError(t, err)
	assert.Equal(t, "Mug", p.Name)
	assert.Len(t, pub.keys, 1)
}

func TestStockLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p, err := svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "Mug", Category: "kitchen"})
	require.NoError(t, err)

	_, err = svc.GetStock(ctx, p.ID)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "product or stock does not exist", Message(err))

	_, err = svc.SetStock(ctx, p.ID, transport.SetStockRequest{Price: decimal.NewFromInt(-1), Quantity: 1})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.SetStock(ctx, p.ID, transport.SetStockRequest{Price: decimal.NewFromInt(1), Quantity: -1})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.SetStock(ctx, p.ID, transport.SetStockRequest{Price: decimal.New(1, 9), Quantity: 1})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.SetStock(ctx, p.ID+100, transport.SetStockRequest{Price: decimal.NewFromInt(1), Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	s, err := svc.SetStock(ctx, p.ID, transport.SetStockRequest{Price: decimal.RequireFromString("9.994"), Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, "9.99", s.Price.StringFixed(2))

	s, err = svc.GetStock(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, s.Completed)
	assert.Equal(t, "Mug", s.Product.Name)
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := newTestService(t)
	idx := &fakeIndex{}
	svc.Search = idx
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "Mug", Category: "kitchen"})
	require.NoError(t, err)
	assert.Equal(t, []uint{p.ID}, idx.indexed)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	assert.Equal(t, []uint{p.ID}, idx.deleted)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, p.ID), ErrNotFound)
	_, err = svc.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetStock(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchProducts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mug, err := svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "Coffee Mug", Category: "kitchen"})
	require.NoError(t, err)
	lamp, err := svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "Desk Lamp", Category: "office"})
	require.NoError(t, err)

	_, err = svc.SearchProducts(ctx, "  ", 1)
	assert.ErrorIs(t, err, ErrValidation)

	items, err := svc.SearchProducts(ctx, "lamp", 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, lamp.ID, items[0].ID)

	svc.Search = &fakeIndex{hits: []uint{mug.ID, lamp.ID}}
	items, err = svc.SearchProducts(ctx, "anything", 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, mug.ID, items[0].ID)

	svc.Search = &fakeIndex{err: errors.New("cluster down")}
	items, err = svc.SearchProducts(ctx, "mug", 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, mug.ID, items[0].ID)
}
