// Package dryrun 实现只打日志、不落地的注册表，用于本地调试或没有账本时运行。
package dryrun

import (
	"context"
	"math/big"
	"sync"

	"github.com/google/uuid"
	"github.com/nnlgsakib/DataFee-oracle/internal/registry"
	"github.com/nnlgsakib/DataFee-oracle/internal/source"
	"go.uber.org/zap"
)

// Registry 是 registry.Registry 的日志实现，成本按 payload 字节数估算。
type Registry struct {
	logger *zap.Logger

	mu        sync.Mutex
	seq       uint64
	endpoints []source.Endpoint
}

func New(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{logger: logger}
}

func (r *Registry) EstimateCost(_ context.Context, payload registry.Payload) (uint64, error) {
	if err := payload.Validate(); err != nil {
		return 0, err
	}
	return payload.Size(), nil
}

func (r *Registry) FeeRate(context.Context) (*big.Int, error) {
	return new(big.Int), nil
}

func (r *Registry) SubmitBatch(_ context.Context, payload registry.Payload, opts registry.Options) (registry.Handle, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	receipt := registry.Receipt{TxID: uuid.NewString(), Block: seq, CostUsed: payload.Size()}
	for i := range payload.URLs {
		r.logger.Info("dry-run update",
			zap.String("tx", receipt.TxID),
			zap.String("url", payload.URLs[i]),
			zap.String("data", payload.Data[i]),
			zap.Uint64("cost_limit", opts.CostLimit))
	}
	return registry.DoneHandle{Receipt: receipt}, nil
}

func (r *Registry) ListEndpoints(context.Context) ([]source.Endpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]source.Endpoint, len(r.endpoints))
	copy(out, r.endpoints)
	return out, nil
}

// AddEndpoint 登记数据源；同一 URL 再次登记时更新 selector。
func (r *Registry) AddEndpoint(_ context.Context, url, selector string) (registry.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	replaced := false
	for i := range r.endpoints {
		if r.endpoints[i].URL == url {
			r.endpoints[i].Selector = selector
			replaced = true
		}
	}
	if !replaced {
		r.endpoints = append(r.endpoints, source.Endpoint{URL: url, Selector: selector})
	}
	r.logger.Info("dry-run endpoint registered", zap.String("url", url), zap.String("selector", selector))
	return registry.DoneHandle{Receipt: registry.Receipt{TxID: uuid.NewString(), Block: r.seq}}, nil
}

func (r *Registry) Close(context.Context) error {
	return nil
}
