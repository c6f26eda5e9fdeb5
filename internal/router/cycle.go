package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nnlgsakib/DataFee-oracle/internal/app"
	"github.com/nnlgsakib/DataFee-oracle/internal/source"
	"go.uber.org/zap"
)

// CycleService 是 HTTP 层依赖的周期服务能力。
type CycleService interface {
	RunCycle(ctx context.Context) (app.CycleReport, error)
	LastReport() (app.CycleReport, bool)
	Endpoints() []source.Endpoint
}

// CycleHandler 负责周期状态查询与手动触发。
type CycleHandler struct {
	svc    CycleService
	logger *zap.Logger
}

// NewCycleHandler 构建一个新的 CycleHandler。
func NewCycleHandler(svc CycleService, logger *zap.Logger) *CycleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CycleHandler{svc: svc, logger: logger}
}

// RegisterRoutes 将周期相关路由注册到给定的路由组。
func (h *CycleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cycles/last", h.handleLast)
	rg.POST("/cycles/run", h.handleRun)
	rg.GET("/endpoints", h.handleEndpoints)
}

func (h *CycleHandler) handleLast(c *gin.Context) {
	report, ok := h.svc.LastReport()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no cycle has run yet"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// handleRun 同步执行一个周期。周期使用与请求解绑的 context，客户端断开不会中止确认等待，
// 确认超时由 Submitter 控制。
func (h *CycleHandler) handleRun(c *gin.Context) {
	report, err := h.svc.RunCycle(context.WithoutCancel(c.Request.Context()))
	switch {
	case errors.Is(err, app.ErrCycleRunning):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		h.logger.Error("manual cycle failed", zap.String("cycle_id", report.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "report": report})
	default:
		c.JSON(http.StatusOK, report)
	}
}

func (h *CycleHandler) handleEndpoints(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"endpoints": h.svc.Endpoints()})
}
