// Package transport defines what the server manager starts and stops.
package transport

import "context"

// Transport is a listener with a start/stop lifecycle.
// Start must return once the listener is bound; serving continues in the background.
type Transport interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Name() string
}
