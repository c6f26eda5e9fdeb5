package graph

import (
	"context"
	"fmt"

	"github.com/nnlgsakib/DataFee-oracle/internal/cypher"
)

// SchemaManager 负责初始化约束。
type SchemaManager struct {
	client *Client
	labels cypher.Labels
}

func NewSchemaManager(client *Client, labels cypher.Labels) *SchemaManager {
	return &SchemaManager{client: client, labels: labels}
}

func (m *SchemaManager) Ensure(ctx context.Context) error {
	for _, query := range cypher.Statements("init_schema.cql", m.labels) {
		if err := m.client.RunRaw(ctx, query, nil); err != nil {
			return fmt.Errorf("执行 schema 语句失败: %w", err)
		}
	}
	return nil
}
