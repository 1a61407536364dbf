package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/feral-file/ff-holdings-reconciler/internal/adapter"
	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
)

// Cache backend paths
const (
	PATH_GET   = "/claims/get"
	PATH_BATCH = "/claims/batch"
	PATH_SET   = "/claims/set"
)

// Response is the envelope every cache endpoint answers with
type Response struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Result  json.RawMessage `json:"result"`
}

type getRequest struct {
	TokenID string `json:"tokenId"`
}

type batchRequest struct {
	TokenIDs []string `json:"tokenIds"`
}

type setRequest struct {
	TokenID string           `json:"tokenId"`
	Data    domain.ClaimData `json:"data"`
}

// Client defines the claim cache backend operations
//
//go:generate mockgen -source=client.go -destination=../../mocks/cache_client.go -package=mocks -mock_names=Client=MockCacheClient
type Client interface {
	// Get returns the cached claim data of one token; found is false on a miss
	Get(ctx context.Context, tokenID string) (data domain.ClaimData, found bool, err error)

	// GetMany returns the cached claim data of every token the backend knows about
	GetMany(ctx context.Context, tokenIDs []string) (map[string]domain.ClaimData, error)

	// Set stores the claim data of one token
	Set(ctx context.Context, tokenID string, data domain.ClaimData) error
}

// CacheClient implements Client over the cache backend's HTTP API
type CacheClient struct {
	httpClient adapter.HTTPClient
	baseURL    string
	apiKey     string
	json       adapter.JSON
}

// NewClient creates a new cache backend client
func NewClient(httpClient adapter.HTTPClient, baseURL, apiKey string, json adapter.JSON) Client {
	return &CacheClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		json:       json,
	}
}

// Get returns the cached claim data of one token
func (c *CacheClient) Get(ctx context.Context, tokenID string) (domain.ClaimData, bool, error) {
	result, err := c.post(ctx, PATH_GET, getRequest{TokenID: tokenID})
	if err != nil {
		return domain.ClaimData{}, false, err
	}
	if isEmpty(result) {
		return domain.ClaimData{}, false, nil
	}

	var data domain.ClaimData
	if err := c.json.Unmarshal(result, &data); err != nil {
		return domain.ClaimData{}, false, fmt.Errorf("%w: cache entry for %s: %v", domain.ErrMalformedResponse, tokenID, err)
	}

	return data, true, nil
}

// GetMany returns the cached claim data of the given tokens. Entries that fail to decode are left out.
func (c *CacheClient) GetMany(ctx context.Context, tokenIDs []string) (map[string]domain.ClaimData, error) {
	if len(tokenIDs) == 0 {
		return map[string]domain.ClaimData{}, nil
	}

	result, err := c.post(ctx, PATH_BATCH, batchRequest{TokenIDs: tokenIDs})
	if err != nil {
		return nil, err
	}
	if isEmpty(result) {
		return map[string]domain.ClaimData{}, nil
	}

	var entries map[string]json.RawMessage
	if err := c.json.Unmarshal(result, &entries); err != nil {
		return nil, fmt.Errorf("%w: cache batch: %v", domain.ErrMalformedResponse, err)
	}

	data := make(map[string]domain.ClaimData, len(entries))
	for tokenID, raw := range entries {
		if isEmpty(raw) {
			continue
		}
		var d domain.ClaimData
		if err := c.json.Unmarshal(raw, &d); err != nil {
			continue
		}
		data[tokenID] = d
	}

	return data, nil
}

// Set stores the claim data of one token
func (c *CacheClient) Set(ctx context.Context, tokenID string, data domain.ClaimData) error {
	_, err := c.post(ctx, PATH_SET, setRequest{TokenID: tokenID, Data: data})
	return err
}

// post sends a JSON body and returns the result of a successful envelope
func (c *CacheClient) post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	payload, err := c.json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache request: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	if c.apiKey != "" {
		headers["X-API-KEY"] = c.apiKey
	}

	respBody, err := c.httpClient.PostBytes(ctx, c.baseURL+path, headers, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to call cache %s: %w", path, err)
	}

	var resp Response
	if err := c.json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: cache %s: %v", domain.ErrMalformedResponse, path, err)
	}
	if resp.Status != domain.API_STATUS_OK {
		return nil, fmt.Errorf("%w: cache %s status %q: %s", domain.ErrSourceUnavailable, path, resp.Status, resp.Message)
	}

	return resp.Result, nil
}

func isEmpty(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null" || s == "{}"
}
