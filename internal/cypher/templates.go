package cypher

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed *.cql
var files embed.FS

// Labels 是模板渲染所需的节点标签。
type Labels struct {
	Endpoint string
	Batch    string
	Ledger   string
}

// DefaultLabels 返回默认标签。
func DefaultLabels() Labels {
	return Labels{Endpoint: "Endpoint", Batch: "Batch", Ledger: "Ledger"}
}

// MustTemplate 解析指定模板并渲染，失败直接 panic，便于在初始化阶段暴露错误。
func MustTemplate(name string, data any) string {
	tmpl, err := template.New(name).ParseFS(files, name)
	if err != nil {
		panic(fmt.Errorf("parse template %s failed: %w", name, err))
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		panic(fmt.Errorf("execute template %s failed: %w", name, err))
	}
	return sb.String()
}

// Statements 渲染模板并按分号拆分为多条语句。
func Statements(name string, data any) []string {
	var out []string
	for _, raw := range strings.Split(MustTemplate(name, data), ";") {
		if stmt := strings.TrimSpace(raw); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
