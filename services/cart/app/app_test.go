package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgconfig "github.com/Skotchmaster/microshop/pkg/config"
	"github.com/Skotchmaster/microshop/pkg/db"
	"github.com/Skotchmaster/microshop/pkg/logging"
	authapp "github.com/Skotchmaster/microshop/services/auth/app"
	catalogapp "github.com/Skotchmaster/microshop/services/catalog/app"
)

type shop struct {
	identity *httptest.Server
	catalog  *httptest.Server
	cart     *httptest.Server
	authDB   *gorm.DB
}

func openDB(t *testing.T, migrate func(*gorm.DB) error) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(context.Background(), "sqlite::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	require.NoError(t, migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

func newShop(t *testing.T) *shop {
	t.Helper()
	l := logging.NewWithWriter(io.Discard, "error")
	s := &shop{}

	s.authDB = openDB(t, authapp.Migrate)
	s.identity = httptest.NewServer(authapp.New(pkgconfig.Config{
		JWTSecret: []byte("e2e-secret"),
		TokenTTL:  time.Minute,
	}, s.authDB, nil, l))
	t.Cleanup(s.identity.Close)

	s.catalog = httptest.NewServer(catalogapp.New(pkgconfig.Config{
		AuthHTTPURL:     s.identity.URL,
		UpstreamTimeout: 2 * time.Second,
		ESIndex:         "products",
	}, openDB(t, catalogapp.Migrate), catalogapp.Options{}, l))
	t.Cleanup(s.catalog.Close)

	s.cart = httptest.NewServer(New(pkgconfig.Config{
		AuthHTTPURL:     s.identity.URL,
		CatalogHTTPURL:  s.catalog.URL,
		UpstreamTimeout: 2 * time.Second,
	}, openDB(t, Migrate), nil, l))
	t.Cleanup(s.cart.Close)

	return s
}

func call(t *testing.T, method, url, auth string, body any, out any) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

func (s *shop) signup(t *testing.T, username string, admin bool) string {
	t.Helper()
	creds := map[string]string{"username": username, "password": "pw-" + username}
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, s.identity.URL+"/register", "", creds, nil))
	if admin {
		require.NoError(t, authapp.Promote(context.Background(), s.authDB, username))
	}
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, s.identity.URL+"/login", "", creds, &tok))
	require.NotEmpty(t, tok.AccessToken)
	return tok.AccessToken
}

type errorBody struct {
	Error string `json:"error"`
}

type cartItem struct {
	ProductID       uint   `json:"product_id"`
	ProductName     string `json:"product_name"`
	ProductCategory string `json:"product_category"`
	UnitPrice       string `json:"unit_price"`
	Price           string `json:"price"`
	Quantity        int    `json:"quantity"`
}

type cart struct {
	ID       uint       `json:"id"`
	Username string     `json:"username"`
	Items    []cartItem `json:"shopping_items"`
}

func TestShop_EndToEnd(t *testing.T) {
	s := newShop(t)
	alice := s.signup(t, "alice", false)
	bob := s.signup(t, "bob", true)

	var e errorBody
	code := call(t, http.MethodPost, s.catalog.URL+"/products", alice, map[string]string{"name": "Mug", "category": "kitchen"}, &e)
	assert.Equal(t, http.StatusUnauthorized, code)

	var product struct {
		ID uint `json:"id"`
	}
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, s.catalog.URL+"/products", bob, map[string]string{"name": "Mug", "category": "kitchen"}, &product))
	stocks := s.catalog.URL + "/products/" + strconv.Itoa(int(product.ID)) + "/stocks"

	// stock exists but has never been set
	code = call(t, http.MethodPost, s.cart.URL+"/shopping_carts", alice, map[string]any{"product_id": product.ID, "quantity": 2}, &e)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "product or stock does not exist", e.Error)

	require.Equal(t, http.StatusOK, call(t, http.MethodPost, stocks, bob, map[string]any{"price": "9.99", "quantity": 10}, nil))

	var c cart
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, s.cart.URL+"/shopping_carts", alice, map[string]any{"product_id": product.ID, "quantity": 2}, &c))
	assert.Equal(t, "alice", c.Username)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "Mug", c.Items[0].ProductName)
	assert.Equal(t, "kitchen", c.Items[0].ProductCategory)
	assert.Equal(t, "9.99", c.Items[0].UnitPrice)
	assert.Equal(t, "19.98", c.Items[0].Price)
	assert.Equal(t, 2, c.Items[0].Quantity)

	// a later price change does not touch existing lines
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, stocks, bob, map[string]any{"price": 5, "quantity": 10}, nil))
	var again cart
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, s.cart.URL+"/shopping_carts", alice, nil, &again))
	assert.Equal(t, c.ID, again.ID)
	require.Len(t, again.Items, 1)
	assert.Equal(t, "19.98", again.Items[0].Price)

	code = call(t, http.MethodGet, s.cart.URL+"/shopping_carts", bob, nil, &e)
	assert.Equal(t, http.StatusNotFound, code)

	code = call(t, http.MethodPost, s.cart.URL+"/shopping_carts", alice, map[string]any{"product_id": 999, "quantity": 1}, &e)
	assert.Equal(t, http.StatusNotFound, code)

	require.Equal(t, http.StatusNoContent, call(t, http.MethodDelete, s.cart.URL+"/shopping_carts", alice, nil, nil))
	assert.Equal(t, http.StatusNotFound, call(t, http.MethodGet, s.cart.URL+"/shopping_carts", alice, nil, nil))
}

func TestShop_DelegatedAuth(t *testing.T) {
	s := newShop(t)
	alice := s.signup(t, "alice", false)

	var e errorBody
	code := call(t, http.MethodGet, s.cart.URL+"/shopping_carts", "", nil, &e)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.NotEmpty(t, e.Error)

	code = call(t, http.MethodGet, s.cart.URL+"/shopping_carts", "not-a-token", nil, &e)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, e.Error, "Token is invalid")

	code = call(t, http.MethodGet, s.catalog.URL+"/products", "Bearer "+alice, nil, nil)
	assert.Equal(t, http.StatusOK, code)

	require.Equal(t, http.StatusOK, call(t, http.MethodPost, s.identity.URL+"/logout", alice, nil, nil))
	code = call(t, http.MethodGet, s.catalog.URL+"/products", alice, nil, &e)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, e.Error, "revoked")
}

func TestShop_CatalogUnavailable(t *testing.T) {
	s := newShop(t)
	alice := s.signup(t, "alice", false)
	s.catalog.Close()

	var e errorBody
	code := call(t, http.MethodPost, s.cart.URL+"/shopping_carts", alice, map[string]any{"product_id": 1, "quantity": 1}, &e)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "catalog service unavailable", e.Error)
}
