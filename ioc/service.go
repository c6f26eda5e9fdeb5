package ioc

import (
	"context"

	"github.com/nnlgsakib/DataFee-oracle/internal/app"
	"github.com/nnlgsakib/DataFee-oracle/internal/registry"
	"github.com/nnlgsakib/DataFee-oracle/internal/source"
	"github.com/nnlgsakib/DataFee-oracle/internal/submit"
	"go.uber.org/zap"
)

// InitEndpoints 确定本进程使用的数据源列表。
func InitEndpoints(ctx context.Context, cfg app.Config, reg registry.Registry, logger *zap.Logger) ([]source.Endpoint, error) {
	return app.ResolveEndpoints(ctx, cfg, reg, logger)
}

// InitCollector 构建数据源采集器。
func InitCollector(cfg app.Config, logger *zap.Logger) *source.Collector {
	fetcher := source.NewFetcher(source.Config{
		Timeout:      cfg.FetchTimeout(),
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
		MaxDataSize:  cfg.Cycle.MaxDataSize,
		UserAgent:    cfg.Fetch.UserAgent,
	}, logger)
	return source.NewCollector(fetcher, cfg.Cycle.Concurrency, logger)
}

// InitSubmitter 构建批量提交器。
func InitSubmitter(cfg app.Config, reg registry.Registry, logger *zap.Logger) *submit.Submitter {
	return submit.NewSubmitter(reg, submit.Config{
		MaxCost:        cfg.Submit.MaxCost,
		ConfirmTimeout: cfg.ConfirmTimeout(),
	}, logger)
}

// InitAppService 构建周期服务。
func InitAppService(endpoints []source.Endpoint, collector *source.Collector, submitter *submit.Submitter, logger *zap.Logger) *app.Service {
	return app.NewService(endpoints, collector, submitter, logger)
}
