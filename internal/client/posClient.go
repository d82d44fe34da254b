package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"pos-dashboard-sync/internal/config"
	"pos-dashboard-sync/internal/model"
	"time"
)

const headerAPIVersion = "X-Api-Version"

// APIError is a non-2xx response from the POS API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pos api error %d: %s", e.StatusCode, e.Body)
}

// IsRateLimited reports whether err is a 429 from the POS API.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}

// IsRemoteStatus reports whether err is any HTTP-level POS API error, as
// opposed to a transport failure that never produced a response.
func IsRemoteStatus(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

type PosClient interface {
	ListLocations(ctx context.Context) ([]model.PosLocation, error)
	ListCatalog(ctx context.Context, cursor string) (*model.CatalogPage, error)
	SearchOrders(ctx context.Context, req *model.OrderSearchRequest) (*model.OrderSearchPage, error)
	RetrieveOrder(ctx context.Context, orderID string) (*model.PosOrder, error)
}

type posClientImpl struct {
	httpClient  *http.Client
	baseApiURL  string
	accessToken string
	apiVersion  string
}

func NewPosClient(posCfg *config.Pos) PosClient {
	return &posClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:  posCfg.BaseApiURL,
		accessToken: posCfg.AccessToken,
		apiVersion:  posCfg.APIVersion,
	}
}

func (c *posClientImpl) ListLocations(ctx context.Context) ([]model.PosLocation, error) {
	var result struct {
		Locations []model.PosLocation `json:"locations"`
	}
	if err := c.do(ctx, http.MethodGet, "/v2/locations", nil, &result); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return result.Locations, nil
}

func (c *posClientImpl) ListCatalog(ctx context.Context, cursor string) (*model.CatalogPage, error) {
	path := "/v2/catalog/list"
	if cursor != "" {
		// the cursor is opaque and may carry reserved characters
		q := url.Values{}
		q.Set("cursor", cursor)
		path += "?" + q.Encode()
	}
	var page model.CatalogPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return &page, nil
}

func (c *posClientImpl) SearchOrders(ctx context.Context, req *model.OrderSearchRequest) (*model.OrderSearchPage, error) {
	payload := map[string]interface{}{
		"location_ids": []string{req.LocationID},
		"limit":        req.Limit,
		"query": map[string]interface{}{
			"filter": map[string]interface{}{
				"date_time_filter": map[string]interface{}{
					"created_at": map[string]string{
						"start_at": req.Begin.UTC().Format(time.RFC3339),
						"end_at":   req.End.UTC().Format(time.RFC3339),
					},
				},
				"state_filter": map[string]interface{}{
					"states": req.States,
				},
			},
			"sort": map[string]string{
				"sort_field": "CREATED_AT",
				"sort_order": "ASC",
			},
		},
	}
	if req.Cursor != "" {
		payload["cursor"] = req.Cursor
	}

	var page model.OrderSearchPage
	if err := c.do(ctx, http.MethodPost, "/v2/orders/search", payload, &page); err != nil {
		return nil, fmt.Errorf("search orders: %w", err)
	}
	return &page, nil
}

func (c *posClientImpl) RetrieveOrder(ctx context.Context, orderID string) (*model.PosOrder, error) {
	var result struct {
		Order model.PosOrder `json:"order"`
	}
	if err := c.do(ctx, http.MethodGet, "/v2/orders/"+orderID, nil, &result); err != nil {
		return nil, fmt.Errorf("retrieve order: %w", err)
	}
	return &result.Order, nil
}

func (c *posClientImpl) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal req payload: %w", err)
		}
		reqBody = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseApiURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerAPIVersion, c.apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode pos response: %w", err)
		}
	}
	return nil
}
