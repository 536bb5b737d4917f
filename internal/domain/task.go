package domain

import "context"

type taskHandleKey struct{}

// WithTaskHandle tags a context with the handle of the job run it belongs to.
// Jobs use the handle to keep artifacts of concurrent runs apart.
func WithTaskHandle(ctx context.Context, taskID string) context.Context {
	return context.WithValue(ctx, taskHandleKey{}, taskID)
}

// TaskHandle returns the job run handle carried by the context, or "" when
// the context does not belong to a job run.
func TaskHandle(ctx context.Context) string {
	id, _ := ctx.Value(taskHandleKey{}).(string)
	return id
}
