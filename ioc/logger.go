package ioc

import (
	"github.com/nnlgsakib/DataFee-oracle/internal/app"
	"github.com/nnlgsakib/DataFee-oracle/pkg/logging"
	"go.uber.org/zap"
)

// InitLogger 构建全局 logger，cleanup 时刷新缓冲。
func InitLogger(cfg app.Config) (*zap.Logger, func(), error) {
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding})
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}
