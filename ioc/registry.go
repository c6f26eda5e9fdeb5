package ioc

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nnlgsakib/DataFee-oracle/internal/app"
	"github.com/nnlgsakib/DataFee-oracle/internal/registry"
	"github.com/nnlgsakib/DataFee-oracle/internal/registry/dryrun"
	"github.com/nnlgsakib/DataFee-oracle/internal/registry/evm"
	"github.com/nnlgsakib/DataFee-oracle/internal/registry/graph"
	"github.com/nnlgsakib/DataFee-oracle/internal/util"
	"go.uber.org/zap"
)

const registryCloseTimeout = 5 * time.Second

// InitRegistry 按配置的后端连接注册表，连接失败按 registry.connect 重试。
func InitRegistry(ctx context.Context, cfg app.Config, logger *zap.Logger) (registry.Registry, func(), error) {
	dial, err := registryDialer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var reg registry.Registry
	backoff := time.Duration(cfg.Registry.Connect.BackoffSeconds) * time.Second
	err = util.Retry(ctx, cfg.Registry.Connect.Attempts, backoff, func(ctx context.Context) error {
		r, dialErr := dial(ctx)
		if dialErr != nil {
			return dialErr
		}
		reg = r
		return nil
	}, func(attempt int, err error) {
		logger.Warn("registry connection failed",
			zap.String("backend", cfg.Registry.Backend),
			zap.Int("attempt", attempt),
			zap.Error(err))
	})
	if err != nil {
		return nil, nil, fmt.Errorf("连接注册表失败: %w", err)
	}
	logger.Info("registry connected", zap.String("backend", cfg.Registry.Backend))

	cleanup := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), registryCloseTimeout)
		defer cancel()
		if err := reg.Close(closeCtx); err != nil {
			logger.Warn("close registry failed", zap.Error(err))
		}
	}
	return reg, cleanup, nil
}

func registryDialer(cfg app.Config, logger *zap.Logger) (func(context.Context) (registry.Registry, error), error) {
	switch cfg.Registry.Backend {
	case app.BackendEVM:
		key := strings.TrimSpace(os.Getenv(cfg.Registry.EVM.PrivateKeyEnv))
		if key == "" {
			return nil, fmt.Errorf("%w: 环境变量 %s 未设置", evm.ErrMissingKey, cfg.Registry.EVM.PrivateKeyEnv)
		}
		evmCfg := evm.Config{
			RPCURL:     cfg.Registry.EVM.RPCURL,
			Contract:   cfg.Registry.EVM.Contract,
			PrivateKey: key,
			ChainID:    cfg.Registry.EVM.ChainID,
		}
		return func(ctx context.Context) (registry.Registry, error) {
			return evm.Dial(ctx, evmCfg, logger)
		}, nil
	case app.BackendNeo4j:
		n := cfg.Registry.Neo4j
		graphCfg := graph.Config{
			Client: graph.ClientConfig{
				URI:                  n.URI,
				Username:             n.Username,
				Password:             n.Password,
				Database:             n.Database,
				MaxConnectionPool:    n.MaxConnectionPool,
				ConnectionTimeoutSec: n.ConnectTimeoutSecond,
			},
			Ledger:    n.Ledger,
			BatchSize: n.BatchSize,
		}
		return func(ctx context.Context) (registry.Registry, error) {
			return graph.New(ctx, graphCfg, logger)
		}, nil
	case app.BackendLog:
		return func(context.Context) (registry.Registry, error) {
			return dryrun.New(logger), nil
		}, nil
	default:
		return nil, fmt.Errorf("未知的注册表后端: %s", cfg.Registry.Backend)
	}
}
