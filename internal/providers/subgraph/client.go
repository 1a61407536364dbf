package subgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/feral-file/ff-holdings-reconciler/internal/adapter"
	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
)

const nftFields = `
    id
    totalReward
    delegatedTime
    approvedTime
    undelegatedTime
    lastUpdatedTime`

// QUERY_NFT looks up one token by id
const QUERY_NFT = `query GetNFT($id: ID!) {
  nft(id: $id) {` + nftFields + `
  }
}`

// QUERY_NFTS looks up a set of tokens by id
const QUERY_NFTS = `query GetNFTs($ids: [ID!]!, $first: Int!) {
  nfts(where: {id_in: $ids}, first: $first) {` + nftFields + `
  }
}`

// GraphQLRequest represents a GraphQL request
type GraphQLRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// GraphQLResponse represents a GraphQL response
type GraphQLResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors gqlerror.List              `json:"errors"`
}

// NFT is one token entity as the subgraph reports it. Numbers may arrive as strings or JSON numbers.
type NFT struct {
	ID              string          `json:"id"`
	TotalReward     json.RawMessage `json:"totalReward"`
	DelegatedTime   json.RawMessage `json:"delegatedTime"`
	ApprovedTime    json.RawMessage `json:"approvedTime"`
	UndelegatedTime json.RawMessage `json:"undelegatedTime"`
	LastUpdatedTime json.RawMessage `json:"lastUpdatedTime"`
}

// Client defines the subgraph operations used for reward figures
//
//go:generate mockgen -source=client.go -destination=../../mocks/subgraph_client.go -package=mocks -mock_names=Client=MockSubgraphClient
type Client interface {
	// GetNFT returns the reward figures of one token; nil when the subgraph does not know it
	GetNFT(ctx context.Context, tokenID string) (*domain.RewardInfo, error)

	// GetNFTs returns the reward figures of the tokens the subgraph knows about. Entities that fail to decode are skipped.
	GetNFTs(ctx context.Context, tokenIDs []string) ([]domain.RewardInfo, error)
}

// document is a parsed and validated query
type document struct {
	query         string
	operationName string
}

// SubgraphClient implements Client over a GraphQL endpoint
type SubgraphClient struct {
	httpClient adapter.HTTPClient
	url        string
	decimals   int32
	json       adapter.JSON
	nft        document
	nfts       document
}

// NewClient creates a new subgraph client. totalReward values are divided by 10^decimals.
func NewClient(httpClient adapter.HTTPClient, url string, decimals int32, json adapter.JSON) (Client, error) {
	nft, err := parseDocument(QUERY_NFT)
	if err != nil {
		return nil, err
	}
	nfts, err := parseDocument(QUERY_NFTS)
	if err != nil {
		return nil, err
	}

	return &SubgraphClient{
		httpClient: httpClient,
		url:        url,
		decimals:   decimals,
		json:       json,
		nft:        nft,
		nfts:       nfts,
	}, nil
}

// parseDocument checks the query syntax and takes the operation name from the document
func parseDocument(query string) (document, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "subgraph", Input: query})
	if err != nil {
		return document{}, fmt.Errorf("invalid subgraph query: %v", err)
	}
	if len(doc.Operations) != 1 || doc.Operations[0].Name == "" {
		return document{}, fmt.Errorf("subgraph query must hold exactly one named operation")
	}
	return document{query: query, operationName: doc.Operations[0].Name}, nil
}

// GetNFT returns the reward figures of one token
func (c *SubgraphClient) GetNFT(ctx context.Context, tokenID string) (*domain.RewardInfo, error) {
	data, err := c.execute(ctx, c.nft, map[string]interface{}{"id": tokenID})
	if err != nil {
		return nil, err
	}

	raw, ok := data["nft"]
	if !ok {
		return nil, fmt.Errorf("%w: subgraph response missing nft", domain.ErrMalformedResponse)
	}
	if isNull(raw) {
		return nil, nil
	}

	var node NFT
	if err := c.json.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("%w: subgraph nft: %v", domain.ErrMalformedResponse, err)
	}

	info, err := c.toRewardInfo(node)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// GetNFTs returns the reward figures of the tokens the subgraph knows about
func (c *SubgraphClient) GetNFTs(ctx context.Context, tokenIDs []string) ([]domain.RewardInfo, error) {
	if len(tokenIDs) == 0 {
		return nil, nil
	}

	data, err := c.execute(ctx, c.nfts, map[string]interface{}{
		"ids":   tokenIDs,
		"first": len(tokenIDs),
	})
	if err != nil {
		return nil, err
	}

	raw, ok := data["nfts"]
	if !ok || isNull(raw) {
		return nil, fmt.Errorf("%w: subgraph response missing nfts", domain.ErrMalformedResponse)
	}

	var nodes []json.RawMessage
	if err := c.json.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("%w: subgraph nfts: %v", domain.ErrMalformedResponse, err)
	}

	infos := make([]domain.RewardInfo, 0, len(nodes))
	for _, rawNode := range nodes {
		var node NFT
		if err := c.json.Unmarshal(rawNode, &node); err != nil {
			continue
		}
		info, err := c.toRewardInfo(node)
		if err != nil {
			continue
		}
		infos = append(infos, info)
	}

	return infos, nil
}

// execute posts a document and returns the data object of a successful response
func (c *SubgraphClient) execute(ctx context.Context, doc document, variables map[string]interface{}) (map[string]json.RawMessage, error) {
	requestBody, err := c.json.Marshal(GraphQLRequest{
		Query:         doc.query,
		Variables:     variables,
		OperationName: doc.operationName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	responseBody, err := c.httpClient.PostBytes(ctx, c.url, headers, bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to call subgraph %s: %w", doc.operationName, err)
	}

	var response GraphQLResponse
	if err := c.json.Unmarshal(responseBody, &response); err != nil {
		return nil, fmt.Errorf("%w: subgraph %s: %v", domain.ErrMalformedResponse, doc.operationName, err)
	}
	if len(response.Errors) > 0 {
		return nil, fmt.Errorf("%w: subgraph %s: %s", domain.ErrSourceUnavailable, doc.operationName, response.Errors.Error())
	}
	if response.Data == nil {
		return nil, fmt.Errorf("%w: subgraph %s returned no data", domain.ErrMalformedResponse, doc.operationName)
	}

	return response.Data, nil
}

// toRewardInfo converts an entity, scaling totalReward down by the token decimals
func (c *SubgraphClient) toRewardInfo(node NFT) (domain.RewardInfo, error) {
	tokenID := strings.TrimSpace(node.ID)
	if tokenID == "" {
		return domain.RewardInfo{}, fmt.Errorf("%w: subgraph nft without id", domain.ErrMalformedResponse)
	}

	reward, err := parseBigInt(node.TotalReward)
	if err != nil {
		return domain.RewardInfo{}, fmt.Errorf("%w: totalReward of %s: %v", domain.ErrMalformedResponse, tokenID, err)
	}

	info := domain.RewardInfo{
		TokenID:     tokenID,
		TotalReward: decimal.NewFromBigInt(reward, -c.decimals),
	}

	times := []struct {
		raw json.RawMessage
		dst *int64
	}{
		{node.DelegatedTime, &info.DelegatedTime},
		{node.ApprovedTime, &info.ApprovedTime},
		{node.UndelegatedTime, &info.UndelegatedTime},
		{node.LastUpdatedTime, &info.LastUpdatedTime},
	}
	for _, t := range times {
		v, err := parseBigInt(t.raw)
		if err != nil {
			return domain.RewardInfo{}, fmt.Errorf("%w: time field of %s: %v", domain.ErrMalformedResponse, tokenID, err)
		}
		if !v.IsInt64() {
			return domain.RewardInfo{}, fmt.Errorf("%w: time field of %s out of range", domain.ErrMalformedResponse, tokenID)
		}
		*t.dst = v.Int64()
	}

	return info, nil
}

// parseBigInt reads a BigInt scalar sent as a string or a JSON number. Absent and null read as zero.
func parseBigInt(raw json.RawMessage) (*big.Int, error) {
	if isNull(raw) {
		return new(big.Int), nil
	}

	s := strings.TrimSpace(string(raw))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	if s == "" {
		return new(big.Int), nil
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("not an integer: %q", s)
	}
	return v, nil
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}
