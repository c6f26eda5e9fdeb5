// Package registry 定义链上/账本注册表的访问接口及其通用数据结构。
package registry

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/nnlgsakib/DataFee-oracle/internal/source"
)

var (
	// ErrLengthMismatch 表示 Payload 的 URLs 与 Data 长度不一致。
	ErrLengthMismatch = errors.New("payload urls and data length mismatch")
	// ErrEmptyPayload 表示 Payload 为空。
	ErrEmptyPayload = errors.New("payload is empty")
	// ErrReverted 表示交易已上链但执行失败。
	ErrReverted = errors.New("transaction reverted")
)

// Payload 是一次批量更新的并行数组，URLs[i] 对应 Data[i]。
type Payload struct {
	URLs []string `json:"urls"`
	Data []string `json:"data"`
}

// Validate 校验 Payload 的不变量。
func (p Payload) Validate() error {
	if len(p.URLs) != len(p.Data) {
		return fmt.Errorf("%w: %d urls, %d data", ErrLengthMismatch, len(p.URLs), len(p.Data))
	}
	if len(p.URLs) == 0 {
		return ErrEmptyPayload
	}
	return nil
}

// Size 返回 Payload 的字节数，用于不计 gas 的后端估算成本。
func (p Payload) Size() uint64 {
	var n uint64
	for i := range p.URLs {
		n += uint64(len(p.URLs[i]) + len(p.Data[i]))
	}
	return n
}

// Options 是提交时的执行参数。
type Options struct {
	CostLimit uint64
	FeeRate   *big.Int
}

// Receipt 是一次提交最终确认后的回执。
type Receipt struct {
	TxID     string `json:"tx_id"`
	Block    uint64 `json:"block"`
	CostUsed uint64 `json:"cost_used"`
}

// Handle 代表一笔已发出的提交，Wait 阻塞直到最终确认或失败。
type Handle interface {
	ID() string
	Wait(ctx context.Context) (Receipt, error)
}

// Registry 抽象外部注册表，便于替换为不同后端或测试替身。
type Registry interface {
	EstimateCost(ctx context.Context, payload Payload) (uint64, error)
	FeeRate(ctx context.Context) (*big.Int, error)
	SubmitBatch(ctx context.Context, payload Payload, opts Options) (Handle, error)
	ListEndpoints(ctx context.Context) ([]source.Endpoint, error)
	AddEndpoint(ctx context.Context, url, selector string) (Handle, error)
	Close(ctx context.Context) error
}

// DoneHandle 是已完成的 Handle，供同步提交的后端使用。
type DoneHandle struct {
	Receipt Receipt
}

func (h DoneHandle) ID() string {
	return h.Receipt.TxID
}

func (h DoneHandle) Wait(context.Context) (Receipt, error) {
	return h.Receipt, nil
}
