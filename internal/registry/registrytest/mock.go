// Package registrytest 提供基于 testify/mock 的 Registry 测试替身。
package registrytest

import (
	"context"
	"math/big"

	"github.com/nnlgsakib/DataFee-oracle/internal/registry"
	"github.com/nnlgsakib/DataFee-oracle/internal/source"
	"github.com/stretchr/testify/mock"
)

// Registry 是 registry.Registry 的 mock 实现。
type Registry struct {
	mock.Mock
}

var _ registry.Registry = (*Registry)(nil)

func (m *Registry) EstimateCost(ctx context.Context, payload registry.Payload) (uint64, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *Registry) FeeRate(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *Registry) SubmitBatch(ctx context.Context, payload registry.Payload, opts registry.Options) (registry.Handle, error) {
	args := m.Called(ctx, payload, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(registry.Handle), args.Error(1)
}

func (m *Registry) ListEndpoints(ctx context.Context) ([]source.Endpoint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]source.Endpoint), args.Error(1)
}

func (m *Registry) AddEndpoint(ctx context.Context, url, selector string) (registry.Handle, error) {
	args := m.Called(ctx, url, selector)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(registry.Handle), args.Error(1)
}

func (m *Registry) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// Handle 是 registry.Handle 的 mock 实现。
type Handle struct {
	mock.Mock
}

func (h *Handle) ID() string {
	return h.Called().String(0)
}

func (h *Handle) Wait(ctx context.Context) (registry.Receipt, error) {
	args := h.Called(ctx)
	return args.Get(0).(registry.Receipt), args.Error(1)
}
