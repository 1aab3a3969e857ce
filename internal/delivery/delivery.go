package delivery

import "context"

// Delivery is a transport entry point managed by the application lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}
