package queue

import "context"

// Job is a registered consumer for one message type. The scan worker
// pool looks jobs up by Type when it pulls a message off Redis.
type Job interface {
	// Name returns the unique identifier of the job.
	Name() string

	// Type returns the message type this job consumes.
	Type() string

	// Handle processes one message payload.
	Handle(ctx context.Context, payload interface{}) error
}
