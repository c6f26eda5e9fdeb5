package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "oracle_cycle_duration_seconds",
		Help:    "单个周期耗时",
		Buckets: prometheus.DefBuckets,
	})

	FetchErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oracle_fetch_errors_total",
		Help: "按类型统计的数据源抓取失败次数",
	}, []string{"kind"})

	Oversized = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "oracle_oversized_total",
		Help: "超过大小上限被丢弃的摘要数",
	})

	Submissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oracle_submissions_total",
		Help: "按结果统计的批量提交次数",
	}, []string{"status"})

	CyclePanics = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "oracle_cycle_panics_total",
		Help: "周期内被恢复的 panic 次数",
	})
)

// MustRegister 注册指标，可在 main 中调用。
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(CycleDuration, FetchErrors, Oversized, Submissions, CyclePanics)
}
