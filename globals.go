package autocron

import "context"

var registrar, _ = New()

// Configure the global registrar.
func Configure(opts ...Option) error {
	for _, opt := range opts {
		err := opt(registrar)
		if err != nil {
			return err
		}
	}
	return nil
}

// Register a job with the global registrar, which writes the current user's crontab.
func Register(ctx context.Context, identifier, script string, schedule interface{}, action Action) (*Job, error) {
	return registrar.Register(ctx, identifier, script, schedule, action)
}

// Schedule a script with the global registrar.
func Schedule(ctx context.Context, identifier, script string, schedule interface{}) (*Job, error) {
	return registrar.Schedule(ctx, identifier, script, schedule)
}

// Unregister removes a job from the global registrar's crontab.
func Unregister(ctx context.Context, identifier, script string) (int, error) {
	return registrar.Unregister(ctx, identifier, script)
}
