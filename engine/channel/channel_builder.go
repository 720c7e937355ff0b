package channel

import (
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// ChannelBuilderOption is a functional option for configuring a channel pair.
type ChannelBuilderOption func(*link)

// WithPool runs the asynchronous send variants on an existing worker pool.
//
// Parameters:
//   - pool: the pool host calls are submitted to
//
// Returns:
//   - ChannelBuilderOption: option function to apply
func WithPool(pool worker.DynamicWorkerPool) ChannelBuilderOption {
	return func(l *link) {
		l.submit = func(task worker.Task) {
			pool.SubmitTask(task)
		}
	}
}

// WithWorkers creates a dedicated worker pool for the asynchronous send variants.
// Values <= 0 leave the pool unset, and each async send gets its own goroutine.
//
// Parameters:
//   - workers: maximum number of concurrent host tasks
//
// Returns:
//   - ChannelBuilderOption: option function to apply
func WithWorkers(workers int) ChannelBuilderOption {
	return func(l *link) {
		if workers <= 0 {
			l.submit = nil
			return
		}
		pool := worker.NewDynamicWorkerPool(workers, 256, 1*time.Second)
		l.submit = func(task worker.Task) {
			pool.SubmitTask(task)
		}
	}
}
