package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nnlgsakib/DataFee-oracle/internal/source"
	"gopkg.in/yaml.v3"
)

const (
	EndpointSourceConfig   = "config"
	EndpointSourceRegistry = "registry"

	BackendEVM   = "evm"
	BackendNeo4j = "neo4j"
	BackendLog   = "log"

	defaultIntervalSeconds       = 60
	defaultConcurrency           = 4
	defaultFetchTimeoutSeconds   = 10
	defaultConfirmTimeoutSeconds = 300
	defaultHeartbeatCron         = "@hourly"
	defaultListen                = ":8080"
	defaultPrivateKeyEnv         = "ORACLE_OWNER_ACCOUNT"
)

// ErrInvalidConfig 表示配置校验失败。
var ErrInvalidConfig = errors.New("invalid configuration")

type Log struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

type HTTP struct {
	Listen   string `yaml:"listen"`
	Disabled bool   `yaml:"disabled"`
}

type Cycle struct {
	IntervalSeconds int    `yaml:"interval_seconds"`
	RunOnStart      *bool  `yaml:"run_on_start"`
	MaxDataSize     int    `yaml:"max_data_size"`
	Concurrency     int    `yaml:"concurrency"`
	HeartbeatCron   string `yaml:"heartbeat_cron"`
}

type Fetch struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxBodyBytes   int64  `yaml:"max_body_bytes"`
	UserAgent      string `yaml:"user_agent"`
}

type Submit struct {
	MaxCost               uint64 `yaml:"max_cost"`
	ConfirmTimeoutSeconds int    `yaml:"confirm_timeout_seconds"`
}

type Endpoints struct {
	Source string            `yaml:"source"`
	Items  []source.Endpoint `yaml:"items"`
}

type Retry struct {
	Attempts       int `yaml:"attempts"`
	BackoffSeconds int `yaml:"backoff_seconds"`
}

type EVM struct {
	RPCURL        string `yaml:"rpc_url"`
	Contract      string `yaml:"contract"`
	PrivateKeyEnv string `yaml:"private_key_env"`
	ChainID       int64  `yaml:"chain_id"`
}

type Neo4j struct {
	URI                  string `yaml:"uri"`
	Username             string `yaml:"username"`
	Password             string `yaml:"password"`
	Database             string `yaml:"database"`
	MaxConnectionPool    int    `yaml:"max_connections"`
	ConnectTimeoutSecond int    `yaml:"connect_timeout_second"`
	Ledger               string `yaml:"ledger"`
	BatchSize            int    `yaml:"batch_size"`
}

type Registry struct {
	Backend string `yaml:"backend"`
	Connect Retry  `yaml:"connect"`
	EVM     EVM    `yaml:"evm"`
	Neo4j   Neo4j  `yaml:"neo4j"`
}

type Config struct {
	Log       Log       `yaml:"log"`
	HTTP      HTTP      `yaml:"http"`
	Cycle     Cycle     `yaml:"cycle"`
	Fetch     Fetch     `yaml:"fetch"`
	Submit    Submit    `yaml:"submit"`
	Endpoints Endpoints `yaml:"endpoints"`
	Registry  Registry  `yaml:"registry"`
}

// LoadConfig 从文件加载配置，补全默认值并校验。
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("读取配置失败: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig 解析 YAML 配置。
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyDefaults 为未设置的字段填充默认值。
func (c *Config) ApplyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Encoding == "" {
		c.Log.Encoding = "console"
	}
	if strings.TrimSpace(c.HTTP.Listen) == "" {
		c.HTTP.Listen = defaultListen
	}
	if c.Cycle.IntervalSeconds == 0 {
		c.Cycle.IntervalSeconds = defaultIntervalSeconds
	}
	if c.Cycle.RunOnStart == nil {
		runOnStart := true
		c.Cycle.RunOnStart = &runOnStart
	}
	if c.Cycle.MaxDataSize == 0 {
		c.Cycle.MaxDataSize = source.DefaultMaxDataSize
	}
	if c.Cycle.Concurrency == 0 {
		c.Cycle.Concurrency = defaultConcurrency
	}
	if c.Cycle.HeartbeatCron == "" {
		c.Cycle.HeartbeatCron = defaultHeartbeatCron
	}
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = defaultFetchTimeoutSeconds
	}
	if c.Submit.ConfirmTimeoutSeconds == 0 {
		c.Submit.ConfirmTimeoutSeconds = defaultConfirmTimeoutSeconds
	}
	if c.Endpoints.Source == "" {
		c.Endpoints.Source = EndpointSourceConfig
	}
	if c.Registry.Backend == "" {
		c.Registry.Backend = BackendLog
	}
	if c.Registry.Connect.Attempts == 0 {
		c.Registry.Connect.Attempts = 3
	}
	if c.Registry.Connect.BackoffSeconds == 0 {
		c.Registry.Connect.BackoffSeconds = 2
	}
	if c.Registry.EVM.PrivateKeyEnv == "" {
		c.Registry.EVM.PrivateKeyEnv = defaultPrivateKeyEnv
	}
}

// Validate 校验配置。
func (c Config) Validate() error {
	var errs []error
	if c.Cycle.IntervalSeconds <= 0 {
		errs = append(errs, fmt.Errorf("cycle.interval_seconds must be positive"))
	}
	if c.Cycle.MaxDataSize < 0 {
		errs = append(errs, fmt.Errorf("cycle.max_data_size must be positive"))
	}
	switch c.Endpoints.Source {
	case EndpointSourceConfig:
		if len(c.Endpoints.Items) == 0 {
			errs = append(errs, fmt.Errorf("endpoints.items is empty"))
		}
		for i, ep := range c.Endpoints.Items {
			if strings.TrimSpace(ep.URL) == "" {
				errs = append(errs, fmt.Errorf("endpoints.items[%d].url is empty", i))
			}
		}
	case EndpointSourceRegistry:
	default:
		errs = append(errs, fmt.Errorf("unknown endpoints.source %q", c.Endpoints.Source))
	}
	switch c.Registry.Backend {
	case BackendLog:
	case BackendEVM:
		if c.Registry.EVM.RPCURL == "" || c.Registry.EVM.Contract == "" {
			errs = append(errs, fmt.Errorf("registry.evm.rpc_url and registry.evm.contract are required"))
		}
	case BackendNeo4j:
		if c.Registry.Neo4j.URI == "" {
			errs = append(errs, fmt.Errorf("registry.neo4j.uri is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown registry.backend %q", c.Registry.Backend))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ShouldRunOnStart 报告启动时是否立即执行一个周期。
func (c Config) ShouldRunOnStart() bool {
	return c.Cycle.RunOnStart == nil || *c.Cycle.RunOnStart
}

func (c Config) Interval() time.Duration {
	return time.Duration(c.Cycle.IntervalSeconds) * time.Second
}

func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

func (c Config) ConfirmTimeout() time.Duration {
	return time.Duration(c.Submit.ConfirmTimeoutSeconds) * time.Second
}
