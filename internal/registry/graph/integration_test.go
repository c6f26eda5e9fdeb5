package graph

import (
	"context"
	"os"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/nnlgsakib/DataFee-oracle/internal/registry"
	"github.com/nnlgsakib/DataFee-oracle/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphRegistryRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		uri = "bolt://localhost:7687"
	}
	ctx := context.Background()
	reg, err := New(ctx, Config{
		Client: ClientConfig{
			URI:      uri,
			Username: "neo4j",
			Password: os.Getenv("NEO4J_PASSWORD"),
			Database: "neo4j",
		},
		Ledger:    "integration-test",
		BatchSize: 1,
	}, nil)
	if err != nil {
		t.Skipf("neo4j not available: %v", err)
	}
	defer reg.Close(ctx)

	_, err = reg.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, "MATCH (n) WHERE n:Endpoint OR n:Batch OR n:Ledger DETACH DELETE n", nil)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	require.NoError(t, err)

	_, err = reg.AddEndpoint(ctx, "https://a.example/price", "")
	require.NoError(t, err)
	_, err = reg.AddEndpoint(ctx, "https://b.example/price", "x")
	require.NoError(t, err)
	eps, err := reg.ListEndpoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, []source.Endpoint{
		{URL: "https://a.example/price"},
		{URL: "https://b.example/price", Selector: "x"},
	}, eps)

	payload := registry.Payload{
		URLs: []string{"https://a.example/price", "https://b.example/price"},
		Data: []string{"p:1", "x:42"},
	}
	for want := uint64(1); want <= 2; want++ {
		h, err := reg.SubmitBatch(ctx, payload, registry.Options{CostLimit: 100})
		require.NoError(t, err)
		receipt, err := h.Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, receipt.Block)
	}

	records, err := reg.client.RunRead(ctx, "MATCH (e:Endpoint {url: $url}) RETURN e.data AS data", map[string]any{"url": "https://b.example/price"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "x:42", records[0]["data"])
}
