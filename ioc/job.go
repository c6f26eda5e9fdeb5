package ioc

import (
	"context"

	"github.com/nnlgsakib/DataFee-oracle/internal/app"
	"github.com/nnlgsakib/DataFee-oracle/internal/job"
	"go.uber.org/zap"
)

// InitScheduler 构建周期调度器。
func InitScheduler(cfg app.Config, svc *app.Service, logger *zap.Logger) *job.Scheduler {
	var cycleFn func(context.Context) error
	if svc != nil {
		cycleFn = func(ctx context.Context) error {
			_, err := svc.RunCycle(ctx)
			return err
		}
	}
	return job.NewScheduler(cfg, cycleFn, logger)
}

// InitHeartbeat 构建心跳任务。
func InitHeartbeat(cfg app.Config, svc *app.Service, logger *zap.Logger) *job.Heartbeat {
	return job.NewHeartbeat(cfg, svc, logger)
}
