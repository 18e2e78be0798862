package autocron

import "context"

type jobKey struct{}

// NewContext returns a copy of parent carrying job.
func NewContext(parent context.Context, job *Job) context.Context {
	return context.WithValue(parent, jobKey{}, job)
}

// FromContext returns the job whose action is running with ctx.
func FromContext(ctx context.Context) (*Job, bool) {
	job, ok := ctx.Value(jobKey{}).(*Job)
	return job, ok
}
