package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"wallgrab/pkg/config"
	"wallgrab/pkg/errors"
	"wallgrab/pkg/logger"
	"wallgrab/pkg/models"
)

// ImagesQuery asks the catalog for the name of every stored image
const ImagesQuery = "{ images { name } }"

// Source lists the names already held by the catalog
type Source interface {
	FetchNames(ctx context.Context) (models.Inventory, error)
}

// Client queries the GraphQL catalog
type Client struct {
	endpoint string
	client   *resty.Client
	logger   logger.Logger
}

type graphqlRequest struct {
	Query string `json:"query"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type imagesResponse struct {
	Data struct {
		Images []struct {
			Name string `json:"name"`
		} `json:"images"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// New creates a catalog client from the inventory configuration.
// An empty endpoint is replaced by models.Sentinel, so the query fails.
func New(cfg config.InventoryConfig, log logger.Logger) *Client {
	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	return NewWithClient(cfg.Endpoint, client, log)
}

// NewWithClient creates a catalog client around an existing resty client
func NewWithClient(endpoint string, client *resty.Client, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if strings.TrimSpace(endpoint) == "" {
		endpoint = models.Sentinel
	}
	return &Client{endpoint: endpoint, client: client, logger: log}
}

// Endpoint returns the address queried by FetchNames
func (c *Client) Endpoint() string {
	return c.endpoint
}

// FetchNames issues a single images query and returns the set of names
func (c *Client) FetchNames(ctx context.Context) (models.Inventory, error) {
	res, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(graphqlRequest{Query: ImagesQuery}).
		Post(c.endpoint)
	if err != nil {
		return models.Inventory{}, errors.Wrap(errors.ErrorTypeInventory, err, "query catalog")
	}

	logger.LogRequest(c.logger, "POST", c.endpoint, res.StatusCode(), res.Time())

	if res.IsError() {
		return models.Inventory{}, errors.New(errors.ErrorTypeInventory,
			fmt.Sprintf("catalog responded with status %d", res.StatusCode())).WithCode(res.StatusCode())
	}

	var body imagesResponse
	if err := json.Unmarshal(res.Body(), &body); err != nil {
		return models.Inventory{}, errors.Wrap(errors.ErrorTypeInventory, err, "decode catalog response")
	}

	if len(body.Errors) > 0 {
		messages := make([]string, 0, len(body.Errors))
		for _, e := range body.Errors {
			messages = append(messages, e.Message)
		}
		return models.Inventory{}, errors.New(errors.ErrorTypeInventory,
			"catalog query failed: "+strings.Join(messages, "; "))
	}

	names := make([]string, 0, len(body.Data.Images))
	for _, img := range body.Data.Images {
		names = append(names, img.Name)
	}
	inv := models.NewInventory(names...)

	c.logger.InfoWithFields("Catalog loaded", map[string]interface{}{
		"endpoint": c.endpoint,
		"images":   inv.Len(),
	})
	return inv, nil
}
