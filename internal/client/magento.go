package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"commerce/connector/internal/config"
	"commerce/connector/internal/domain"
	"commerce/connector/internal/metrics"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// CatalogService is the remote catalog gateway consumed by the cache and
// the mapper. All three operations are synchronous GraphQL calls.
type CatalogService interface {
	GetCategoryTree(ctx context.Context, rootID int) (*domain.CategoryTree, error)
	GetProductBySku(ctx context.Context, sku string) (*domain.Product, error)
	GetCategoryProducts(ctx context.Context, categoryID int) ([]*domain.Product, error)
}

type magentoClient struct {
	rl         ratelimit.Limiter
	config     config.MagentoConfig
	endpoint   string
	depth      int
	httpClient *resty.Client
	metrics    *metrics.Catalog
}

func NewMagentoClient(cfg config.MagentoConfig, categoryDepth int, m *metrics.Catalog) CatalogService {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Store", cfg.StoreView)

	if cfg.AuthToken != "" {
		client.SetAuthToken(cfg.AuthToken)
	}

	rps := cfg.MaxRequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	if categoryDepth <= 0 {
		categoryDepth = 5
	}

	return &magentoClient{
		rl:         ratelimit.New(rps),
		config:     cfg,
		endpoint:   cfg.Endpoint,
		depth:      categoryDepth,
		httpClient: client,
		metrics:    m,
	}
}

func (c *magentoClient) GetCategoryTree(ctx context.Context, rootID int) (*domain.CategoryTree, error) {
	data, err := c.execute(ctx, "getCategoryTree", categoryTreeQuery(rootID, c.depth))
	if err != nil {
		return nil, err
	}

	var out struct {
		Category *domain.CategoryTree `json:"category"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode category tree: %w", err)
	}

	if out.Category == nil {
		log.Warnf("No category tree returned for root %d", rootID)
		return nil, nil
	}

	log.Debugf("Fetched category tree for root %d", rootID)
	return out.Category, nil
}

func (c *magentoClient) GetProductBySku(ctx context.Context, sku string) (*domain.Product, error) {
	data, err := c.execute(ctx, "getProductBySku", productBySkuQuery(sku))
	if err != nil {
		return nil, err
	}

	items, err := decodeProductItems(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode product %s: %w", sku, err)
	}

	if len(items) == 0 {
		log.Debugf("No product found for sku %s", sku)
		return nil, nil
	}
	return items[0], nil
}

func (c *magentoClient) GetCategoryProducts(ctx context.Context, categoryID int) ([]*domain.Product, error) {
	data, err := c.execute(ctx, "getCategoryProducts", categoryProductsQuery(categoryID))
	if err != nil {
		return nil, err
	}

	items, err := decodeProductItems(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode products of category %d: %w", categoryID, err)
	}

	log.Debugf("Fetched %d products for category %d", len(items), categoryID)
	return items, nil
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

func (c *magentoClient) execute(ctx context.Context, operation, query string) (json.RawMessage, error) {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"query": query}).
		Post(c.endpoint)
	if err != nil {
		c.metrics.IncGateway(operation, metrics.ResultFailure)
		return nil, fmt.Errorf("failed to execute %s: %w", operation, err)
	}

	if resp.IsError() {
		c.metrics.IncGateway(operation, metrics.ResultFailure)
		return nil, fmt.Errorf("HTTP error for %s: %d %s", operation, resp.StatusCode(), resp.Status())
	}

	var envelope graphqlResponse
	if err := json.Unmarshal([]byte(resp.String()), &envelope); err != nil {
		c.metrics.IncGateway(operation, metrics.ResultFailure)
		return nil, fmt.Errorf("failed to decode %s response: %w", operation, err)
	}

	if len(envelope.Errors) > 0 {
		c.metrics.IncGateway(operation, metrics.ResultFailure)
		return nil, fmt.Errorf("%s returned errors: %s", operation, envelope.Errors[0].Message)
	}

	c.metrics.IncGateway(operation, metrics.ResultSuccess)
	return envelope.Data, nil
}

func decodeProductItems(data json.RawMessage) ([]*domain.Product, error) {
	var out struct {
		Products struct {
			Items []*domain.Product `json:"items"`
		} `json:"products"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out.Products.Items, nil
}
