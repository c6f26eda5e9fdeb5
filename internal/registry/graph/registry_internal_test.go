package graph

import (
	"testing"

	"github.com/nnlgsakib/DataFee-oracle/internal/registry"
	"github.com/nnlgsakib/DataFee-oracle/internal/source"
	"github.com/stretchr/testify/assert"
)

func TestNewRegistryDefaults(t *testing.T) {
	r := newRegistry(nil, Config{}, nil)
	assert.Equal(t, defaultLedger, r.ledger)
	assert.Equal(t, defaultBatchSize, r.batchSize)
	assert.Equal(t, "Endpoint", r.labels.Endpoint)
	assert.Equal(t, "Batch", r.labels.Batch)
	assert.Equal(t, "Ledger", r.labels.Ledger)
}

func TestPayloadRows(t *testing.T) {
	rows := payloadRows(registry.Payload{URLs: []string{"A", "B"}, Data: []string{"p:1", "x:42"}})
	assert.Equal(t, []map[string]any{
		{"url": "A", "data": "p:1"},
		{"url": "B", "data": "x:42"},
	}, rows)
}

func TestRecordsToEndpoints(t *testing.T) {
	eps := recordsToEndpoints([]map[string]any{
		{"url": "A", "selector": ""},
		{"url": "", "selector": "skip"},
		{"url": "B", "selector": "x"},
	})
	assert.Equal(t, []source.Endpoint{{URL: "A"}, {URL: "B", Selector: "x"}}, eps)
}
