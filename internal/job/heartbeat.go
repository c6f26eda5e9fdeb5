package job

import (
	"context"
	"strings"

	"github.com/nnlgsakib/DataFee-oracle/internal/app"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultHeartbeatCron = "@hourly"

// CounterSource 提供周期计数快照。
type CounterSource interface {
	Counters() app.Counters
}

// Heartbeat 定时输出周期计数，便于确认进程仍在工作。
type Heartbeat struct {
	cronExpr string
	source   CounterSource
	logger   *zap.Logger
	cron     *cron.Cron
}

func NewHeartbeat(cfg app.Config, source CounterSource, logger *zap.Logger) *Heartbeat {
	spec := strings.TrimSpace(cfg.Cycle.HeartbeatCron)
	if spec == "" {
		spec = defaultHeartbeatCron
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Heartbeat{cronExpr: spec, source: source, logger: logger}
}

// Beat 输出一次心跳日志。
func (h *Heartbeat) Beat() {
	c := h.source.Counters()
	h.logger.Info("oracle heartbeat",
		zap.Int64("cycles", c.Cycles),
		zap.Int64("submitted", c.Submitted),
		zap.Int64("skipped", c.Skipped),
		zap.Int64("failed", c.Failed),
		zap.Int64("panics", c.Panics),
		zap.String("last_cycle_id", c.LastID),
	)
}

// Start 启动心跳任务，返回停止函数。
func (h *Heartbeat) Start(parent context.Context) context.CancelFunc {
	if h == nil || h.source == nil {
		return func() {}
	}
	c := cron.New()
	if _, err := c.AddFunc(h.cronExpr, h.Beat); err != nil {
		h.logger.Error("failed to register heartbeat job", zap.String("cron", h.cronExpr), zap.Error(err))
		return func() {}
	}
	h.cron = c
	c.Start()
	h.logger.Info("heartbeat job started", zap.String("cron", h.cronExpr))

	stop := func() {
		ctx := h.cron.Stop()
		<-ctx.Done()
		h.logger.Info("heartbeat job stopped")
	}

	go func() {
		<-parent.Done()
		stop()
	}()

	return stop
}
