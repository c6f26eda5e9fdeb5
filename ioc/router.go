package ioc

import (
	"github.com/gin-gonic/gin"
	"github.com/nnlgsakib/DataFee-oracle/internal/app"
	"github.com/nnlgsakib/DataFee-oracle/internal/metrics"
	"github.com/nnlgsakib/DataFee-oracle/internal/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// InitMetrics 构建独立的 prometheus registry 并注册指标。
func InitMetrics() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.MustRegister(reg)
	return reg
}

// InitCycleHandler 构建周期 HTTP 处理器。
func InitCycleHandler(svc *app.Service, logger *zap.Logger) *router.CycleHandler {
	return router.NewCycleHandler(svc, logger)
}

// InitGinEngine 构建 gin 引擎。
func InitGinEngine(cycleHandler *router.CycleHandler, reg *prometheus.Registry) *gin.Engine {
	return router.NewEngine(cycleHandler, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}
