package util

import (
	"context"
	"time"
)

// Retry 尝试执行 fn，失败则按指数退避重试，最后一次失败后不再等待。
// onErr 可为空，每次失败时以从 1 开始的尝试序号回调。
func Retry(ctx context.Context, attempts int, backoff time.Duration, fn func(ctx context.Context) error, onErr func(attempt int, err error)) error {
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if onErr != nil {
			onErr(i, err)
		}
		if i == attempts {
			break
		}
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
	return err
}
