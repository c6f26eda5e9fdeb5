// Package graph 以 Neo4j 作为账本实现注册表：每个批次是一个 Batch 节点，
// 由 Ledger 节点维护递增序号，Endpoint 节点保存各 URL 的最新数据。
package graph

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/nnlgsakib/DataFee-oracle/internal/cypher"
	"github.com/nnlgsakib/DataFee-oracle/internal/registry"
	"github.com/nnlgsakib/DataFee-oracle/internal/source"
	"github.com/nnlgsakib/DataFee-oracle/pkg/util"
	"go.uber.org/zap"
)

const (
	defaultLedger    = "datafee"
	defaultBatchSize = 100
)

// Config 配置 Neo4j 注册表。
type Config struct {
	Client    ClientConfig
	Ledger    string
	BatchSize int
	Labels    cypher.Labels
}

// Registry 是基于 Neo4j 的 registry.Registry 实现。
type Registry struct {
	client    *Client
	ledger    string
	batchSize int
	labels    cypher.Labels
	logger    *zap.Logger
}

// New 连接 Neo4j 并确保约束存在。
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Registry, error) {
	client, err := NewClient(ctx, cfg.Client)
	if err != nil {
		return nil, err
	}
	r := newRegistry(client, cfg, logger)
	if err := NewSchemaManager(client, r.labels).Ensure(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}
	return r, nil
}

func newRegistry(client *Client, cfg Config, logger *zap.Logger) *Registry {
	ledger := strings.TrimSpace(cfg.Ledger)
	if ledger == "" {
		ledger = defaultLedger
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	labels := cfg.Labels
	def := cypher.DefaultLabels()
	if labels.Endpoint == "" {
		labels.Endpoint = def.Endpoint
	}
	if labels.Batch == "" {
		labels.Batch = def.Batch
	}
	if labels.Ledger == "" {
		labels.Ledger = def.Ledger
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{client: client, ledger: ledger, batchSize: batchSize, labels: labels, logger: logger}
}

// EstimateCost 以 payload 字节数作为成本。
func (r *Registry) EstimateCost(_ context.Context, payload registry.Payload) (uint64, error) {
	if err := payload.Validate(); err != nil {
		return 0, err
	}
	return payload.Size(), nil
}

// FeeRate 图数据库没有费用概念，恒为 0。
func (r *Registry) FeeRate(context.Context) (*big.Int, error) {
	return new(big.Int), nil
}

// SubmitBatch 在一个写事务内登记批次并 upsert 所有 Endpoint，提交成功即视为确认。
func (r *Registry) SubmitBatch(ctx context.Context, payload registry.Payload, opts registry.Options) (registry.Handle, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	batchID := uuid.NewString()
	size := payload.Size()
	openQuery := cypher.MustTemplate("open_batch.cql", r.labels)
	upsertQuery := cypher.MustTemplate("upsert_endpoints.cql", r.labels)
	rows := payloadRows(payload)

	out, err := r.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, openQuery, map[string]any{
			"ledger":     r.ledger,
			"batch_id":   batchID,
			"size":       int64(size),
			"cost_limit": int64(opts.CostLimit),
		})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		seq, _ := record.Get("seq")

		for _, chunk := range util.Chunks(rows, r.batchSize) {
			res, err := tx.Run(ctx, upsertQuery, map[string]any{"batch_id": batchID, "rows": chunk})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return seq, nil
	})
	if err != nil {
		return nil, fmt.Errorf("写入批次失败 batch=%s: %w", batchID, err)
	}

	seq, ok := out.(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected ledger sequence type %T", out)
	}
	r.logger.Debug("graph batch committed", zap.String("batch_id", batchID), zap.Int64("seq", seq), zap.Int("rows", len(rows)))
	return registry.DoneHandle{Receipt: registry.Receipt{TxID: batchID, Block: uint64(seq), CostUsed: size}}, nil
}

// ListEndpoints 返回已登记的数据源。
func (r *Registry) ListEndpoints(ctx context.Context) ([]source.Endpoint, error) {
	records, err := r.client.RunRead(ctx, cypher.MustTemplate("list_endpoints.cql", r.labels), nil)
	if err != nil {
		return nil, fmt.Errorf("查询数据源失败: %w", err)
	}
	return recordsToEndpoints(records), nil
}

// AddEndpoint 登记数据源。
func (r *Registry) AddEndpoint(ctx context.Context, url, selector string) (registry.Handle, error) {
	query := cypher.MustTemplate("add_endpoint.cql", r.labels)
	_, err := r.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"url": url, "selector": selector})
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("登记数据源失败 url=%s: %w", url, err)
	}
	return registry.DoneHandle{Receipt: registry.Receipt{TxID: uuid.NewString()}}, nil
}

func (r *Registry) Close(ctx context.Context) error {
	return r.client.Close(ctx)
}

func payloadRows(p registry.Payload) []map[string]any {
	rows := make([]map[string]any, 0, len(p.URLs))
	for i := range p.URLs {
		rows = append(rows, map[string]any{"url": p.URLs[i], "data": p.Data[i]})
	}
	return rows
}

func recordsToEndpoints(records []map[string]any) []source.Endpoint {
	out := make([]source.Endpoint, 0, len(records))
	for _, rec := range records {
		url, _ := rec["url"].(string)
		if url == "" {
			continue
		}
		selector, _ := rec["selector"].(string)
		out = append(out, source.Endpoint{URL: url, Selector: selector})
	}
	return out
}
