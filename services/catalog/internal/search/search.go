package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/microshop/services/catalog/internal/models"
)

// Index is the full-text index the catalog keeps next to its database.
type Index interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, q string, from, size int) ([]uint, error)
}

type document struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type ESIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewESIndex(es *elasticsearch.Client, index string) *ESIndex {
	return &ESIndex{ES: es, Index: index}
}

func (x *ESIndex) IndexProduct(ctx context.Context, p *models.Product) error {
	body, err := json.Marshal(document{ID: p.ID, Name: p.Name, Category: p.Category})
	if err != nil {
		return fmt.Errorf("search: marshal product: %w", err)
	}

	res, err := x.ES.Index(
		x.Index,
		bytes.NewReader(body),
		x.ES.Index.WithContext(ctx),
		x.ES.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
		x.ES.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("search: index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index product %d: %s", p.ID, responseError(res.StatusCode, res.Body))
	}
	return nil
}

func (x *ESIndex) DeleteProduct(ctx context.Context, id uint) error {
	res, err := x.ES.Delete(
		x.Index,
		strconv.FormatUint(uint64(id), 10),
		x.ES.Delete.WithContext(ctx),
		x.ES.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("search: delete product %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("search: delete product %d: %s", id, responseError(res.StatusCode, res.Body))
	}
	return nil
}

// Search returns the ids of matching products, best match first.
func (x *ESIndex) Search(ctx context.Context, q string, from, size int) ([]uint, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^2", "category"},
				"fuzziness": "AUTO",
			},
		},
		"from":    from,
		"size":    size,
		"_source": []string{"id"},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := x.ES.Search(
		x.ES.Search.WithContext(ctx),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", responseError(res.StatusCode, res.Body))
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return ids, nil
}

func responseError(status int, body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 1<<10))
	return fmt.Sprintf("status %d: %s", status, bytes.TrimSpace(raw))
}
