package subgraph_test

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-holdings-reconciler/internal/adapter"
	"github.com/feral-file/ff-holdings-reconciler/internal/domain"
	"github.com/feral-file/ff-holdings-reconciler/internal/logger"
	"github.com/feral-file/ff-holdings-reconciler/internal/mocks"
	"github.com/feral-file/ff-holdings-reconciler/internal/providers/subgraph"
)

const testSubgraphURL = "https://subgraph.example.com/query"

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func decodeRequest(t *testing.T, body io.Reader) subgraph.GraphQLRequest {
	t.Helper()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	var req subgraph.GraphQLRequest
	require.NoError(t, json.Unmarshal(raw, &req))
	return req
}

func newClient(t *testing.T, httpClient adapter.HTTPClient) subgraph.Client {
	t.Helper()
	client, err := subgraph.NewClient(httpClient, testSubgraphURL, 18, adapter.NewJSON())
	require.NoError(t, err)
	return client
}

func TestClient_GetNFT(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
	client := newClient(t, mockHTTPClient)

	mockHTTPClient.EXPECT().
		PostBytes(gomock.Any(), testSubgraphURL, gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, url string, headers map[string]string, body io.Reader) ([]byte, error) {
			req := decodeRequest(t, body)
			assert.Equal(t, "GetNFT", req.OperationName)
			assert.Equal(t, subgraph.QUERY_NFT, req.Query)
			assert.Equal(t, "42", req.Variables["id"])
			return []byte(`{"data":{"nft":{
				"id":"42",
				"totalReward":"50000000000000000000",
				"delegatedTime":"1700000000",
				"approvedTime":1700000100,
				"undelegatedTime":null,
				"lastUpdatedTime":"1700000200"
			}}}`), nil
		})

	info, err := client.GetNFT(context.Background(), "42")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "42", info.TokenID)
	assert.True(t, info.TotalReward.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, int64(1700000000), info.DelegatedTime)
	assert.Equal(t, int64(1700000100), info.ApprovedTime)
	assert.Equal(t, int64(0), info.UndelegatedTime)
	assert.Equal(t, int64(1700000200), info.LastUpdatedTime)
}

func TestClient_GetNFT_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
	client := newClient(t, mockHTTPClient)

	mockHTTPClient.EXPECT().
		PostBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte(`{"data":{"nft":null}}`), nil)

	info, err := client.GetNFT(context.Background(), "42")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestClient_GetNFTs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
	client := newClient(t, mockHTTPClient)

	mockHTTPClient.EXPECT().
		PostBytes(gomock.Any(), testSubgraphURL, gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, url string, headers map[string]string, body io.Reader) ([]byte, error) {
			req := decodeRequest(t, body)
			assert.Equal(t, "GetNFTs", req.OperationName)
			assert.Equal(t, []interface{}{"1", "2", "3"}, req.Variables["ids"])
			assert.EqualValues(t, 3, req.Variables["first"])
			return []byte(`{"data":{"nfts":[
				{"id":"1","totalReward":"1500000000000000000"},
				{"id":"2","totalReward":"not-a-number"},
				{"id":"3","totalReward":7}
			]}}`), nil
		})

	infos, err := client.GetNFTs(context.Background(), []string{"1", "2", "3"})
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "1", infos[0].TokenID)
	assert.Equal(t, "1.5", infos[0].TotalReward.String())
	assert.Equal(t, "3", infos[1].TokenID)
	assert.True(t, infos[1].TotalReward.Equal(decimal.RequireFromString("0.000000000000000007")))
}

func TestClient_GetNFTs_Failures(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected error
	}{
		{"graphql errors", `{"errors":[{"message":"indexing error"}]}`, domain.ErrSourceUnavailable},
		{"not json", `<html>`, domain.ErrMalformedResponse},
		{"no data", `{}`, domain.ErrMalformedResponse},
		{"missing field", `{"data":{}}`, domain.ErrMalformedResponse},
		{"wrong shape", `{"data":{"nfts":{"id":"1"}}}`, domain.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
			client := newClient(t, mockHTTPClient)

			mockHTTPClient.EXPECT().
				PostBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return([]byte(tt.body), nil)

			_, err := client.GetNFTs(context.Background(), []string{"1"})
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestClient_GetNFTs_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := newClient(t, mocks.NewMockHTTPClient(ctrl))

	infos, err := client.GetNFTs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, infos)
}
