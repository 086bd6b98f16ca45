package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/avdeenkov/marketplace/internal/config"
	"github.com/avdeenkov/marketplace/internal/models"
)

// Client wraps the elasticsearch product index. A nil Client means search
// falls back to the SQL path in the catalog repo.
type Client struct {
	es    *elasticsearch.Client
	index string
}

func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.ESURL == "" {
		return nil, nil
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ESURL},
		Username:  cfg.ESUser,
		Password:  cfg.ESPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("search: new client: %w", err)
	}

	res, err := es.Info()
	if err != nil {
		return nil, fmt.Errorf("search: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: elasticsearch responded %s", res.Status())
	}

	return &Client{es: es, index: cfg.ESIndex}, nil
}

func (c *Client) IndexProduct(ctx context.Context, p *models.Product) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("search: marshal product: %w", err)
	}
	res, err := c.es.Index(c.index, bytes.NewReader(data),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(p.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("search: index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index responded %s", res.Status())
	}
	return nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	if c == nil {
		return nil
	}
	res, err := c.es.Delete(c.index, id, c.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search: delete: %w", err)
	}
	defer res.Body.Close()
	return nil
}

func (c *Client) Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: elasticsearch responded %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 }                  `json:"total"`
			Hits  []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}

// LikePattern builds the SQL fallback pattern for a raw query string.
func LikePattern(query string) string {
	return "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
}
