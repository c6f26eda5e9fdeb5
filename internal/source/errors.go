package source

import (
	"errors"
	"fmt"
)

// Kind 对抓取失败进行分类。
type Kind int

const (
	// KindStatus 远端返回了非 2xx 状态码。
	KindStatus Kind = iota + 1
	// KindNoResponse 请求已发出但没有拿到完整响应（连接失败、超时、读取中断）。
	KindNoResponse
	// KindRequest 请求本身无法构建。
	KindRequest
	// KindDecode 响应体不可用（非 JSON 或超过大小上限）。
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindNoResponse:
		return "no_response"
	case KindRequest:
		return "request"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// ErrBodyTooLarge 表示响应体超过配置的读取上限。
var ErrBodyTooLarge = errors.New("response body exceeds limit")

// FetchError 是单个数据源抓取失败的错误。
type FetchError struct {
	URL        string
	Kind       Kind
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s responded with status %d: %s", e.URL, e.StatusCode, e.Status)
	case KindNoResponse:
		return fmt.Sprintf("no response received from %s: %v", e.URL, e.Err)
	case KindRequest:
		return fmt.Sprintf("error setting up request to %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("unusable response from %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOf 返回 err 链中 FetchError 的分类，不是 FetchError 时返回 0。
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
