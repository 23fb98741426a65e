package health

import "context"

// BackendPinger checks search backend availability.
type BackendPinger interface {
	Ping(ctx context.Context) error
}
