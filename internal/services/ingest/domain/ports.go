package domain

import "context"

// SubmitPort accepts real-time submissions
type SubmitPort interface {
	Submit(ctx context.Context, sub Submission) (SubmitResult, error)
}

// MetricsPort reports processing counts
type MetricsPort interface {
	Metrics(ctx context.Context) (Metrics, error)
}
