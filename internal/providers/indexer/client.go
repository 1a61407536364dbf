package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/feral-file/ff-holdings-reconciler/internal/adapter"
	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
	"github.com/feral-file/ff-holdings-reconciler/internal/logger"
)

// TransferQuery selects one page of one directional ledger slice
type TransferQuery struct {
	Contract  string
	Address   string
	Direction domain.Direction
	Cursor    string
	Limit     int
}

// TransferPage is one decoded page of the transfer ledger
type TransferPage struct {
	Records []domain.TransferRecord
	// Count is the number of list entries returned, including entries skipped during decoding
	Count  int
	Next   string
	Cursor string
}

// ContractBalance is one contract the owner holds tokens of
type ContractBalance struct {
	Contract string `json:"contract"`
	Name     string `json:"name,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
}

// TokenQuery selects one page of an owner's token listing
type TokenQuery struct {
	Owner  string
	Limit  int
	Cursor string
	Page   int
}

// TokenPage is one decoded page of an owner's token listing
type TokenPage struct {
	Records []domain.HoldingRecord
	Count   int
	Total   int
	Next    string
}

// Client defines the interface for indexer API operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/indexer_client.go -package=mocks -mock_names=Client=MockIndexerClient
type Client interface {
	// GetTransfers fetches one page of transfers for a contract, sent by or received by an address
	GetTransfers(ctx context.Context, query TransferQuery) (*TransferPage, error)

	// GetBalances fetches the contracts an owner holds tokens of
	GetBalances(ctx context.Context, owner string, limit int) ([]ContractBalance, error)

	// GetTokens fetches one page of the tokens an owner holds
	GetTokens(ctx context.Context, query TokenQuery) (*TokenPage, error)
}

// envelope is the common response wrapper; status "1" means success
type envelope struct {
	Status  json.RawMessage `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type listResult struct {
	List   []json.RawMessage `json:"list"`
	Next   json.RawMessage   `json:"next"`
	Cursor json.RawMessage   `json:"cursor"`
	Total  json.RawMessage   `json:"total"`
}

// IndexerClient implements Client over the indexer HTTP API
type IndexerClient struct {
	httpClient adapter.HTTPClient
	baseURL    string
	apiKey     string
	json       adapter.JSON
}

// NewClient creates a new indexer client
func NewClient(httpClient adapter.HTTPClient, baseURL string, apiKey string, json adapter.JSON) Client {
	return &IndexerClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		json:       json,
	}
}

// GetTransfers fetches one page of transfers
func (c *IndexerClient) GetTransfers(ctx context.Context, query TransferQuery) (*TransferPage, error) {
	if !query.Direction.Valid() {
		return nil, fmt.Errorf("invalid transfer direction %q", query.Direction)
	}

	params := url.Values{}
	params.Set("contract", query.Contract)
	params.Set(string(query.Direction), query.Address)
	if query.Cursor != "" {
		params.Set("cursor", query.Cursor)
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}

	result, err := c.getList(ctx, "/nft/transfers", params)
	if err != nil {
		return nil, err
	}

	page := &TransferPage{
		Count:  len(result.List),
		Next:   cursorString(result.Next),
		Cursor: cursorString(result.Cursor),
	}
	for i, raw := range result.List {
		rec, err := c.decodeTransfer(raw, query.Contract)
		if err != nil {
			logger.DebugCtx(ctx, "Skipping undecodable transfer record",
				zap.String("contract", query.Contract),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		page.Records = append(page.Records, rec)
	}

	return page, nil
}

// GetBalances fetches the contracts an owner holds tokens of
func (c *IndexerClient) GetBalances(ctx context.Context, owner string, limit int) ([]ContractBalance, error) {
	params := url.Values{}
	params.Set("owner", owner)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	result, err := c.getList(ctx, "/nft/balances", params)
	if err != nil {
		return nil, err
	}

	balances := make([]ContractBalance, 0, len(result.List))
	for _, raw := range result.List {
		var r record
		if err := c.json.Unmarshal(raw, &r); err != nil {
			continue
		}
		contract := r.str("contract", "contract_address", "contractAddress")
		if contract == "" {
			continue
		}
		balances = append(balances, ContractBalance{
			Contract: domain.NormalizeAddress(contract),
			Name:     r.str("name"),
			Symbol:   r.str("symbol"),
		})
	}

	return balances, nil
}

// GetTokens fetches one page of the tokens an owner holds
func (c *IndexerClient) GetTokens(ctx context.Context, query TokenQuery) (*TokenPage, error) {
	params := url.Values{}
	params.Set("owner", query.Owner)
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Cursor != "" {
		params.Set("cursor", query.Cursor)
	} else if query.Page > 0 {
		params.Set("page", strconv.Itoa(query.Page))
	}

	result, err := c.getList(ctx, "/nft/tokens", params)
	if err != nil {
		return nil, err
	}

	page := &TokenPage{
		Count: len(result.List),
		Next:  cursorString(result.Next),
		Total: -1,
	}
	if total, err := parseInteger(cursorString(result.Total)); err == nil {
		page.Total = int(total)
	}

	for i, raw := range result.List {
		holding, err := c.decodeToken(raw)
		if err != nil {
			logger.DebugCtx(ctx, "Skipping undecodable token record",
				zap.String("owner", query.Owner),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		page.Records = append(page.Records, holding)
	}

	return page, nil
}

// getList performs a GET request and unwraps the status envelope
func (c *IndexerClient) getList(ctx context.Context, path string, params url.Values) (*listResult, error) {
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	headers := map[string]string{
		"Accept": "application/json",
	}
	if c.apiKey != "" {
		headers["X-API-KEY"] = c.apiKey
	}

	respBody, err := c.httpClient.GetBytes(ctx, endpoint, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to call indexer %s: %w", path, err)
	}

	var env envelope
	if err := c.json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal indexer response: %v", domain.ErrMalformedResponse, err)
	}
	if status := cursorString(env.Status); status != domain.API_STATUS_OK {
		return nil, fmt.Errorf("%w: indexer %s returned status %q: %s", domain.ErrSourceUnavailable, path, status, env.Message)
	}

	var result listResult
	if isNull(env.Result) {
		return &result, nil
	}
	if err := c.json.Unmarshal(env.Result, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal indexer result: %v", domain.ErrMalformedResponse, err)
	}

	return &result, nil
}

// decodeTransfer decodes one transfer list entry. The queried contract is used when the entry omits it.
func (c *IndexerClient) decodeTransfer(raw json.RawMessage, contract string) (domain.TransferRecord, error) {
	var r record
	if err := c.json.Unmarshal(raw, &r); err != nil {
		return domain.TransferRecord{}, err
	}

	if v := r.str("contract", "contract_address", "contractAddress"); v != "" {
		contract = v
	}
	tokenID := r.str("tokenId", "token_id")
	if contract == "" || tokenID == "" {
		return domain.TransferRecord{}, fmt.Errorf("%w: missing contract or token id", domain.ErrMalformedResponse)
	}

	from := r.str("from", "from_address")
	to := r.str("to", "to_address")
	if from == "" || to == "" {
		return domain.TransferRecord{}, fmt.Errorf("%w: missing from or to", domain.ErrMalformedResponse)
	}

	timestamp, err := r.optionalInteger("timestamp", "block_timestamp", "blockTimestamp")
	if err != nil {
		return domain.TransferRecord{}, err
	}
	blockNumber, err := r.optionalInteger("blockNumber", "block_number")
	if err != nil {
		return domain.TransferRecord{}, err
	}

	return domain.TransferRecord{
		Identity:    domain.NewNFTIdentity(contract, tokenID),
		From:        domain.NormalizeAddress(from),
		To:          domain.NormalizeAddress(to),
		Timestamp:   max(timestamp, 0),
		BlockNumber: uint64(max(blockNumber, 0)),
	}, nil
}

// decodeToken decodes one token listing entry
func (c *IndexerClient) decodeToken(raw json.RawMessage) (domain.HoldingRecord, error) {
	var r record
	if err := c.json.Unmarshal(raw, &r); err != nil {
		return domain.HoldingRecord{}, err
	}

	contract := r.str("contract", "contract_address", "contractAddress")
	tokenID := r.str("tokenId", "token_id")
	if contract == "" || tokenID == "" {
		return domain.HoldingRecord{}, fmt.Errorf("%w: missing contract or token id", domain.ErrMalformedResponse)
	}

	balance := r.str("amount", "balance")
	if balance == "" {
		balance = "1"
	}

	return domain.HoldingRecord{
		Identity: domain.NewNFTIdentity(contract, tokenID),
		TokenURI: r.str("tokenUri", "token_uri"),
		Name:     r.str("name"),
		Symbol:   r.str("symbol"),
		Image:    r.str("image", "image_url"),
		Balance:  balance,
		Standard: domain.ParseTokenStandard(r.str("type", "standard")),
	}, nil
}
