package ioc

import "github.com/nnlgsakib/DataFee-oracle/internal/app"

// ConfigPath 是配置文件路径，由 main 通过命令行参数传入。
type ConfigPath string

const DefaultConfigPath ConfigPath = "configs/config.yaml"

// InitConfig 读取应用配置。
func InitConfig(path ConfigPath) (app.Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	return app.LoadConfig(string(path))
}
