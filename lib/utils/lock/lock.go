package lock

import (
	"context"
	"sync"
	"time"
)

var (
	lockMap sync.Map // map[key]chan struct{}, канал закрывается при освобождении
)

// WithDelay выполняет safeCode под блокировкой по ключу.
// Если блокировку не удалось получить за wait или контекст завершен, safeCode не выполняется и success = false
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	timeout := time.NewTimer(wait)
	defer timeout.Stop()
	own := make(chan struct{})
	for {
		current, loaded := lockMap.LoadOrStore(key, own)
		if !loaded {
			break
		}
		select {
		case <-current.(chan struct{}):
			// блокировка освобождена, пробуем снова
		case <-timeout.C:
			return false, nil
		case <-ctx.Done():
			return false, nil
		}
	}
	defer func() {
		lockMap.Delete(key)
		close(own)
	}()
	return true, safeCode()
}
