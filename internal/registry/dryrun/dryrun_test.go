package dryrun

import (
	"context"
	"testing"

	"github.com/nnlgsakib/DataFee-oracle/internal/registry"
	"github.com/nnlgsakib/DataFee-oracle/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitBatchSequence(t *testing.T) {
	ctx := context.Background()
	r := New(nil)
	p := registry.Payload{URLs: []string{"A", "B"}, Data: []string{"p:1", "x:42"}}

	cost, err := r.EstimateCost(ctx, p)
	require.NoError(t, err)
	assert.EqualValues(t, 8, cost)

	for want := uint64(1); want <= 2; want++ {
		h, err := r.SubmitBatch(ctx, p, registry.Options{CostLimit: cost})
		require.NoError(t, err)
		receipt, err := h.Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, receipt.Block)
		assert.Equal(t, h.ID(), receipt.TxID)
		assert.Equal(t, cost, receipt.CostUsed)
	}
}

func TestSubmitBatchRejectsInvalidPayload(t *testing.T) {
	_, err := New(nil).SubmitBatch(context.Background(), registry.Payload{URLs: []string{"A"}}, registry.Options{})
	assert.ErrorIs(t, err, registry.ErrLengthMismatch)
}

func TestEndpoints(t *testing.T) {
	ctx := context.Background()
	r := New(nil)
	_, err := r.AddEndpoint(ctx, "A", "")
	require.NoError(t, err)
	_, err = r.AddEndpoint(ctx, "B", "x")
	require.NoError(t, err)
	_, err = r.AddEndpoint(ctx, "A", "price")
	require.NoError(t, err)

	eps, err := r.ListEndpoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, []source.Endpoint{{URL: "A", Selector: "price"}, {URL: "B", Selector: "x"}}, eps)
}
