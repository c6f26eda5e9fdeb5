package app

import (
	"context"
	"fmt"

	"github.com/nnlgsakib/DataFee-oracle/internal/source"
	"go.uber.org/zap"
)

// EndpointLister 能列出注册表中登记的数据源。
type EndpointLister interface {
	ListEndpoints(ctx context.Context) ([]source.Endpoint, error)
}

// ResolveEndpoints 按配置确定数据源列表，registry 来源只在启动时读取一次。
func ResolveEndpoints(ctx context.Context, cfg Config, lister EndpointLister, logger *zap.Logger) ([]source.Endpoint, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Endpoints.Source {
	case EndpointSourceRegistry:
		if lister == nil {
			return nil, fmt.Errorf("registry 来源需要注册表连接")
		}
		eps, err := lister.ListEndpoints(ctx)
		if err != nil {
			return nil, fmt.Errorf("读取注册表数据源失败: %w", err)
		}
		if len(eps) == 0 {
			return nil, fmt.Errorf("注册表中没有数据源")
		}
		logger.Info("endpoints loaded from registry", zap.Int("count", len(eps)))
		return eps, nil
	case EndpointSourceConfig, "":
		eps := make([]source.Endpoint, len(cfg.Endpoints.Items))
		copy(eps, cfg.Endpoints.Items)
		logger.Info("endpoints loaded from config", zap.Int("count", len(eps)))
		return eps, nil
	default:
		return nil, fmt.Errorf("未知的数据源来源: %s", cfg.Endpoints.Source)
	}
}
