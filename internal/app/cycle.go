package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nnlgsakib/DataFee-oracle/internal/metrics"
	"github.com/nnlgsakib/DataFee-oracle/internal/source"
	"github.com/nnlgsakib/DataFee-oracle/internal/submit"
	"go.uber.org/zap"
)

var (
	// ErrCycleRunning 表示已有周期在执行，本次触发被跳过。
	ErrCycleRunning = errors.New("cycle already running")
	// ErrCyclePanic 表示周期内发生了 panic 并已恢复。
	ErrCyclePanic = errors.New("cycle panicked")
)

// CycleReport 描述一次周期的执行情况，仅用于状态查询。
type CycleReport struct {
	ID         string         `json:"id"`
	StartedAt  time.Time      `json:"started_at"`
	Duration   time.Duration  `json:"duration"`
	Endpoints  int            `json:"endpoints"`
	Collected  int            `json:"collected"`
	Failed     int            `json:"failed"`
	Oversized  int            `json:"oversized"`
	Batch      source.Batch   `json:"batch"`
	Submission *submit.Result `json:"submission,omitempty"`
	Panicked   bool           `json:"panicked,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// RunCycle 执行一次完整周期：采集、提交。
// 同一时刻只允许一个周期，重入时返回 ErrCycleRunning。周期内的 panic 会被恢复为 ErrCyclePanic。
func (s *Service) RunCycle(ctx context.Context) (report CycleReport, err error) {
	if !s.running.CompareAndSwap(false, true) {
		return CycleReport{}, ErrCycleRunning
	}
	defer s.running.Store(false)

	report = CycleReport{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Endpoints: len(s.endpoints),
	}
	log := s.logger.With(zap.String("cycle_id", report.ID))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCyclePanic, r)
			report.Panicked = true
			metrics.CyclePanics.Inc()
			log.Error("unhandled error in cycle", zap.Any("panic", r), zap.Stack("stack"))
		}
		if err != nil {
			report.Error = err.Error()
		}
		report.Duration = time.Since(report.StartedAt)
		metrics.CycleDuration.Observe(report.Duration.Seconds())
		s.record(report)
	}()

	log.Info("cycle started", zap.Int("endpoints", report.Endpoints))

	batch, stats := s.collector.Collect(ctx, s.endpoints)
	report.Batch = batch
	report.Collected = stats.Collected
	report.Failed = stats.Failed
	report.Oversized = stats.Oversized
	for kind, n := range stats.ByKind {
		metrics.FetchErrors.WithLabelValues(kind.String()).Add(float64(n))
	}
	metrics.Oversized.Add(float64(stats.Oversized))

	if len(batch) == 0 {
		log.Info("no data collected in this cycle", zap.Int("failed", stats.Failed))
		return report, nil
	}

	res := s.submitter.Submit(ctx, batch)
	report.Submission = &res
	metrics.Submissions.WithLabelValues(string(res.Status)).Inc()

	log.Info("cycle finished",
		zap.String("status", string(res.Status)),
		zap.Int("collected", report.Collected),
		zap.Int("failed", report.Failed),
		zap.Int("oversized", report.Oversized),
	)
	return report, nil
}
