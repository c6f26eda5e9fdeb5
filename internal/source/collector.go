package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// EndpointFetcher 抽象单个数据源的抓取，便于测试替换。
type EndpointFetcher interface {
	FetchOne(ctx context.Context, ep Endpoint) (Result, error)
}

// Collector 在一个周期内对所有数据源执行抓取。
type Collector struct {
	fetcher     EndpointFetcher
	concurrency int
	logger      *zap.Logger
}

// NewCollector 创建 Collector，concurrency<=0 时按 1 处理（顺序执行）。
func NewCollector(fetcher EndpointFetcher, concurrency int, logger *zap.Logger) *Collector {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{fetcher: fetcher, concurrency: concurrency, logger: logger}
}

// Collect 抓取所有数据源，失败的数据源直接从 Batch 中省略，结果保持配置顺序。
func (c *Collector) Collect(ctx context.Context, endpoints []Endpoint) (Batch, Stats) {
	results := make([]*Result, len(endpoints))
	errs := make([]error, len(endpoints))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, ep := range endpoints {
		i, ep := i, ep
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("fetch %s panicked: %v", ep.URL, r)
				}
			}()
			res, fetchErr := c.fetcher.FetchOne(ctx, ep)
			if fetchErr != nil {
				errs[i] = fetchErr
				return nil
			}
			results[i] = &res
			return nil
		})
	}
	_ = g.Wait()

	stats := Stats{Total: len(endpoints), ByKind: make(map[Kind]int)}
	batch := make(Batch, 0, len(endpoints))
	for i, res := range results {
		if errs[i] != nil {
			stats.Failed++
			stats.ByKind[KindOf(errs[i])]++
			c.logger.Error("error processing url", zap.String("url", endpoints[i].URL), zap.Error(errs[i]))
			continue
		}
		if res == nil {
			continue
		}
		if res.Oversized {
			stats.Oversized++
		}
		batch = append(batch, *res)
	}
	stats.Collected = len(batch)
	return batch, stats
}
