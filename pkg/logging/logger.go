package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 控制 logger 的级别与编码。
type Options struct {
	Level    string
	Encoding string
}

// New 基于开发环境配置构建 zap logger，默认 console 编码、info 级别。
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Encoding = "console"
	if opts.Encoding != "" {
		cfg.Encoding = opts.Encoding
	}
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("解析日志级别失败: %w", err)
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}
