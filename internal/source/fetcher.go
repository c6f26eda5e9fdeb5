package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nnlgsakib/DataFee-oracle/internal/normalize"
	"go.uber.org/zap"
)

const (
	// DefaultMaxDataSize 摘要允许的最大长度，以 UTF-16 码元计。
	DefaultMaxDataSize  = 5000
	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 4 << 20
	defaultUserAgent    = "datafee-oracle/1.0"
)

// Config 配置 Fetcher。
type Config struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	MaxDataSize  int
	UserAgent    string
	HTTPClient   *http.Client
}

// Fetcher 负责抓取单个数据源并生成抽取结果。
type Fetcher struct {
	httpClient   *http.Client
	maxBodyBytes int64
	maxDataSize  int
	userAgent    string
	logger       *zap.Logger
}

// NewFetcher 根据配置创建 Fetcher。
func NewFetcher(cfg Config, logger *zap.Logger) *Fetcher {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	maxData := cfg.MaxDataSize
	if maxData <= 0 {
		maxData = DefaultMaxDataSize
	}
	ua := strings.TrimSpace(cfg.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		httpClient:   client,
		maxBodyBytes: maxBody,
		maxDataSize:  maxData,
		userAgent:    ua,
		logger:       logger,
	}
}

// FetchOne 对 ep 发起一次 GET，失败时返回 *FetchError。
func (f *Fetcher) FetchOne(ctx context.Context, ep Endpoint) (Result, error) {
	log := f.logger.With(zap.String("url", ep.URL))
	log.Info("fetching data", zap.String("selector", ep.Selector))

	body, err := f.get(ctx, ep)
	if err != nil {
		f.logFailure(log, err)
		return Result{}, err
	}

	summary, err := normalize.ExtractBytes(body, ep.Selector)
	if err != nil {
		fe := &FetchError{URL: ep.URL, Kind: KindDecode, Err: err}
		f.logFailure(log, fe)
		return Result{}, fe
	}

	if size := DataSize(summary); size > f.maxDataSize {
		log.Info("data too big to log", zap.Int("size", size), zap.Int("limit", f.maxDataSize))
		return Result{URL: ep.URL, Oversized: true}, nil
	}
	log.Info("fetched data", zap.String("data", summary))
	return Result{URL: ep.URL, Summary: summary}, nil
}

func (f *Fetcher) get(ctx context.Context, ep Endpoint) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.URL, nil)
	if err != nil {
		return nil, &FetchError{URL: ep.URL, Kind: KindRequest, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)
	for k, v := range ep.Headers {
		req.Header.Set(k, v)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: ep.URL, Kind: KindNoResponse, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{
			URL:        ep.URL,
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Status:     reasonPhrase(resp),
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return nil, &FetchError{URL: ep.URL, Kind: KindNoResponse, Err: fmt.Errorf("读取响应失败: %w", err)}
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, &FetchError{URL: ep.URL, Kind: KindDecode, Err: fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, f.maxBodyBytes)}
	}
	return body, nil
}

func (f *Fetcher) logFailure(log *zap.Logger, err error) {
	var fe *FetchError
	if !errors.As(err, &fe) {
		log.Error("fetch failed", zap.Error(err))
		return
	}
	switch fe.Kind {
	case KindStatus:
		log.Error("endpoint responded with non-2xx status", zap.Int("status_code", fe.StatusCode), zap.String("status", fe.Status))
	case KindNoResponse:
		log.Error("no response received, the API might be offline", zap.Error(fe.Err))
	case KindRequest:
		log.Error("error setting up request", zap.Error(fe.Err))
	default:
		log.Error("response body is not usable", zap.Error(fe.Err))
	}
}

// DataSize 按 UTF-16 码元计算摘要长度，BMP 之外的字符计为 2。
func DataSize(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// reasonPhrase 返回服务端给出的状态描述，缺失时使用标准描述。
func reasonPhrase(resp *http.Response) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if phrase == "" {
		phrase = http.StatusText(resp.StatusCode)
	}
	return phrase
}
