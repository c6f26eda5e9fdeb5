package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/nnlgsakib/DataFee-oracle/internal/source"
	"github.com/nnlgsakib/DataFee-oracle/internal/submit"
	"go.uber.org/zap"
)

// BatchCollector 在一个周期内抓取所有数据源。
type BatchCollector interface {
	Collect(ctx context.Context, endpoints []source.Endpoint) (source.Batch, source.Stats)
}

// BatchSubmitter 把一个批次提交到注册表。
type BatchSubmitter interface {
	Submit(ctx context.Context, batch source.Batch) submit.Result
}

// Counters 汇总进程启动以来的周期计数，供心跳日志使用。
type Counters struct {
	Cycles    int64  `json:"cycles"`
	Submitted int64  `json:"submitted"`
	Skipped   int64  `json:"skipped"`
	Failed    int64  `json:"failed"`
	Panics    int64  `json:"panics"`
	LastID    string `json:"last_id,omitempty"`
}

// Service 持有只读的数据源列表和周期流水线，并提供统一入口。
type Service struct {
	endpoints []source.Endpoint
	collector BatchCollector
	submitter BatchSubmitter
	logger    *zap.Logger

	running atomic.Bool

	mu       sync.RWMutex
	last     *CycleReport
	counters Counters
}

// NewService 创建 Service。endpoints 在进程生命周期内保持不变。
func NewService(endpoints []source.Endpoint, collector BatchCollector, submitter BatchSubmitter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	eps := make([]source.Endpoint, len(endpoints))
	copy(eps, endpoints)
	return &Service{
		endpoints: eps,
		collector: collector,
		submitter: submitter,
		logger:    logger,
	}
}

// Endpoints 返回数据源列表的副本。
func (s *Service) Endpoints() []source.Endpoint {
	out := make([]source.Endpoint, len(s.endpoints))
	copy(out, s.endpoints)
	return out
}

// Preview 只执行采集，不提交。
func (s *Service) Preview(ctx context.Context) (source.Batch, source.Stats) {
	return s.collector.Collect(ctx, s.endpoints)
}

// LastReport 返回最近一次周期的报告。
func (s *Service) LastReport() (CycleReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return CycleReport{}, false
	}
	return *s.last, true
}

// Counters 返回累计计数的快照。
func (s *Service) Counters() Counters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters
}

func (s *Service) record(report CycleReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &report
	s.counters.Cycles++
	s.counters.LastID = report.ID
	switch {
	case report.Panicked:
		s.counters.Panics++
	case report.Submission == nil:
		s.counters.Skipped++
	case report.Submission.Status == submit.StatusSubmitted:
		s.counters.Submitted++
	case report.Submission.Status == submit.StatusFailed:
		s.counters.Failed++
	default:
		s.counters.Skipped++
	}
}
