package resource

import (
	"context"
	"fmt"
	"time"

	"imagesync/internal/prism"
)

// TaskPoller blocks until a remote asynchronous operation reaches a
// terminal state. This is the only suspension point in a pass.
type TaskPoller interface {
	// Wait returns the task's failure detail ("" on success). The wait
	// is bounded by the deadline when one is set, and by ctx always.
	Wait(ctx context.Context, taskUUID string) (string, error)
}

// DefaultTaskPoller implements TaskPoller with a capped linear backoff
type DefaultTaskPoller struct {
	client      prism.Client
	interval    time.Duration
	maxInterval time.Duration
	deadline    time.Duration
}

// PollOption configures a task poller
type PollOption func(*DefaultTaskPoller)

// WithInterval sets the base poll interval
func WithInterval(d time.Duration) PollOption {
	return func(p *DefaultTaskPoller) { p.interval = d }
}

// WithDeadline bounds the whole wait. Zero means wait until the task
// resolves or ctx is cancelled.
func WithDeadline(d time.Duration) PollOption {
	return func(p *DefaultTaskPoller) { p.deadline = d }
}

// NewTaskPoller creates a task poller for the given client
func NewTaskPoller(client prism.Client, opts ...PollOption) TaskPoller {
	poller := &DefaultTaskPoller{
		client:      client,
		interval:    2 * time.Second,
		maxInterval: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(poller)
	}
	return poller
}

// Wait polls the task until it terminates
func (p *DefaultTaskPoller) Wait(ctx context.Context, taskUUID string) (string, error) {
	if p.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.deadline)
		defer cancel()
	}

	delay := p.interval
	for {
		task, err := p.client.GetTask(ctx, taskUUID)
		if err != nil {
			return "", NewAPIError("", fmt.Sprintf("unable to poll task %s: %v", taskUUID, err), err)
		}

		if task.Terminal() {
			if task.Status == prism.TaskFailed {
				detail := task.ErrorDetail
				if detail == "" {
					detail = fmt.Sprintf("task %s failed", taskUUID)
				}
				return detail, nil
			}
			return "", nil
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("task %s did not complete: %w", taskUUID, ctx.Err())
		case <-time.After(delay):
		}

		delay += p.interval
		if delay > p.maxInterval {
			delay = p.maxInterval
		}
	}
}
