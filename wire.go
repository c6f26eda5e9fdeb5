//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/nnlgsakib/DataFee-oracle/ioc"
	"github.com/nnlgsakib/DataFee-oracle/pkg/server"
)

func InitApp(ctx context.Context, path ioc.ConfigPath) (*server.HTTPServer, func(), error) {
	panic(wire.Build(
		ioc.InitConfig,
		ioc.InitLogger,
		ioc.InitRegistry,
		ioc.InitEndpoints,
		ioc.InitCollector,
		ioc.InitSubmitter,
		ioc.InitAppService,
		ioc.InitMetrics,
		ioc.InitCycleHandler,
		ioc.InitGinEngine,
		ioc.InitScheduler,
		ioc.InitHeartbeat,
		server.NewHTTPServer,
	))
}
