package submit

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/nnlgsakib/DataFee-oracle/internal/registry"
	"github.com/nnlgsakib/DataFee-oracle/internal/source"
	"go.uber.org/zap"
)

const (
	// DefaultMaxCost 单次提交允许的最大估算成本。
	DefaultMaxCost        uint64 = 5_000_000_000
	defaultConfirmTimeout        = 5 * time.Minute
)

// ErrCostCeiling 表示估算成本超过上限，本周期放弃提交。
var ErrCostCeiling = errors.New("estimated cost exceeds ceiling")

// Status 描述一次提交的结果。
type Status string

const (
	StatusNothingToSubmit Status = "nothing_to_submit"
	StatusTooExpensive    Status = "too_expensive"
	StatusFailed          Status = "failed"
	StatusSubmitted       Status = "submitted"
)

// Result 是 Submit 的显式返回值，错误不会向上抛出。
type Result struct {
	Status   Status            `json:"status"`
	URLs     []string          `json:"urls,omitempty"`
	Estimate uint64            `json:"estimate,omitempty"`
	FeeRate  *big.Int          `json:"fee_rate,omitempty"`
	TxID     string            `json:"tx_id,omitempty"`
	Receipt  *registry.Receipt `json:"receipt,omitempty"`
	Error    string            `json:"error,omitempty"`
	Err      error             `json:"-"`
}

// Config 配置 Submitter。
type Config struct {
	MaxCost        uint64
	ConfirmTimeout time.Duration
}

// Submitter 过滤批次并对注册表执行一次批量更新。
type Submitter struct {
	registry       registry.Registry
	maxCost        uint64
	confirmTimeout time.Duration
	logger         *zap.Logger
}

// NewSubmitter 创建 Submitter。
func NewSubmitter(reg registry.Registry, cfg Config, logger *zap.Logger) *Submitter {
	maxCost := cfg.MaxCost
	if maxCost == 0 {
		maxCost = DefaultMaxCost
	}
	timeout := cfg.ConfirmTimeout
	if timeout <= 0 {
		timeout = defaultConfirmTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{registry: reg, maxCost: maxCost, confirmTimeout: timeout, logger: logger}
}

// BuildPayload 去掉超限条目并按原顺序生成并行数组。
func BuildPayload(batch source.Batch) registry.Payload {
	var p registry.Payload
	for _, r := range batch {
		if r.Oversized {
			continue
		}
		p.URLs = append(p.URLs, r.URL)
		p.Data = append(p.Data, r.Summary)
	}
	return p
}

// Submit 过滤 batch 并最多发起一次提交。
func (s *Submitter) Submit(ctx context.Context, batch source.Batch) Result {
	payload := BuildPayload(batch)
	if len(payload.URLs) == 0 {
		s.logger.Info("no valid data to update the registry")
		return Result{Status: StatusNothingToSubmit}
	}

	res := Result{URLs: payload.URLs}
	log := s.logger.With(zap.Strings("urls", payload.URLs))
	for i := range payload.URLs {
		s.logger.Info("preparing update", zap.String("url", payload.URLs[i]), zap.String("data", payload.Data[i]))
	}

	feeRate, err := s.registry.FeeRate(ctx)
	if err != nil {
		return s.fail(log, res, fmt.Errorf("查询费率失败: %w", err))
	}
	res.FeeRate = feeRate

	estimate, err := s.registry.EstimateCost(ctx, payload)
	if err != nil {
		return s.fail(log, res, fmt.Errorf("估算成本失败: %w", err))
	}
	res.Estimate = estimate
	log.Info("estimated cost", zap.Uint64("estimate", estimate), zap.Stringer("fee_rate", feeRate))

	if estimate > s.maxCost {
		log.Info("response is too big to store", zap.Uint64("estimate", estimate), zap.Uint64("max_cost", s.maxCost))
		res.Status = StatusTooExpensive
		res.Err = fmt.Errorf("%w: %d > %d", ErrCostCeiling, estimate, s.maxCost)
		res.Error = res.Err.Error()
		return res
	}

	handle, err := s.registry.SubmitBatch(ctx, payload, registry.Options{CostLimit: estimate, FeeRate: feeRate})
	if err != nil {
		return s.fail(log, res, fmt.Errorf("提交批量更新失败: %w", err))
	}
	res.TxID = handle.ID()
	log.Info("transaction sent", zap.String("tx", res.TxID))

	waitCtx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()
	receipt, err := handle.Wait(waitCtx)
	if err != nil {
		return s.fail(log, res, fmt.Errorf("等待确认失败 tx=%s: %w", res.TxID, err))
	}

	res.Status = StatusSubmitted
	res.Receipt = &receipt
	log.Info("transaction confirmed",
		zap.String("tx", receipt.TxID),
		zap.Uint64("block", receipt.Block),
		zap.Uint64("cost_used", receipt.CostUsed))
	return res
}

func (s *Submitter) fail(log *zap.Logger, res Result, err error) Result {
	log.Error("error updating registry", zap.Error(err))
	res.Status = StatusFailed
	res.Err = err
	res.Error = err.Error()
	return res
}
