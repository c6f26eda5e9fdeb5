package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nnlgsakib/DataFee-oracle/internal/app"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultInterval = 60 * time.Second

// Scheduler 按固定间隔触发周期函数。
type Scheduler struct {
	cronExpr   string
	runOnStart bool
	logger     *zap.Logger
	cron       *cron.Cron
	cycleFunc  func(context.Context) error
	parent     context.Context
	mu         sync.Mutex
	running    bool
}

// NewScheduler 根据配置构建调度器。
func NewScheduler(cfg app.Config, cycleFunc func(context.Context) error, logger *zap.Logger) *Scheduler {
	interval := cfg.Interval()
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cronExpr:   fmt.Sprintf("@every %s", interval),
		runOnStart: cfg.ShouldRunOnStart(),
		logger:     logger,
		cycleFunc:  cycleFunc,
	}
}

// Start 启动调度器，返回用于停止任务的函数。
func (s *Scheduler) Start(parent context.Context) context.CancelFunc {
	if s == nil {
		return func() {}
	}
	s.parent = parent
	c := cron.New()
	id, err := c.AddFunc(s.cronExpr, s.RunOnce)
	if err != nil {
		s.logger.Error("failed to register cron job", zap.String("cron", s.cronExpr), zap.Error(err))
		return func() {}
	}
	s.cron = c
	c.Start()
	entry := c.Entry(id)
	s.logger.Info("cycle scheduler started", zap.String("cron", s.cronExpr), zap.Time("next", entry.Next))

	if s.runOnStart {
		go s.RunOnce()
	}

	var once sync.Once
	stop := func() {
		once.Do(func() {
			ctx := s.cron.Stop()
			<-ctx.Done()
			s.logger.Info("cycle scheduler stopped")
		})
	}

	go func() {
		<-parent.Done()
		stop()
	}()

	return stop
}

// RunOnce 执行一次周期；上一次尚未结束时跳过。
func (s *Scheduler) RunOnce() {
	if s.cycleFunc == nil {
		s.logger.Warn("cycle function not configured")
		return
	}
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("previous cycle still running, skip current tick")
		return
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	runCtx := context.Background()
	if s.parent != nil {
		select {
		case <-s.parent.Done():
			s.logger.Info("scheduler context cancelled, skip cycle")
			return
		default:
		}
		runCtx = s.parent
	}

	start := time.Now()
	err := s.cycleFunc(runCtx)
	elapsed := time.Since(start)
	switch {
	case errors.Is(err, app.ErrCycleRunning):
		s.logger.Warn("manual cycle in progress, skip current tick")
	case err != nil:
		s.logger.Error("scheduled cycle failed", zap.Duration("duration", elapsed), zap.Error(err))
	default:
		s.logger.Info("scheduled cycle completed", zap.Duration("duration", elapsed))
	}
}
