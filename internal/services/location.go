package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/AnshRaj112/butterfly-accounts/internal/models"
)

// LocationResolver turns the location of a partially built account into
// coordinates.
type LocationResolver interface {
	ResolveLocation(ctx context.Context, account *models.Account) (models.Coordinates, error)
}

// HTTPLocationClient calls the location validation service.
type HTTPLocationClient struct {
	url    string
	client *http.Client
}

func NewHTTPLocationClient(url string, timeout time.Duration) *HTTPLocationClient {
	return &HTTPLocationClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type locationRequest struct {
	User *models.Account `json:"user"`
}

func (c *HTTPLocationClient) ResolveLocation(ctx context.Context, account *models.Account) (models.Coordinates, error) {
	body, err := json.Marshal(locationRequest{User: account})
	if err != nil {
		return nil, fmt.Errorf("encode location request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build location request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: location service: %v", ErrDownstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: location service returned %d", ErrDownstream, resp.StatusCode)
	}

	var resolved models.Account
	if err := json.NewDecoder(resp.Body).Decode(&resolved); err != nil {
		return nil, fmt.Errorf("%w: decode location response: %v", ErrDownstream, err)
	}
	return resolved.BaseLocation.Coords, nil
}
