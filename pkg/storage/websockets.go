package storage

import "context"

// ConnectionStore defines storage for live WebSocket connection IDs, used
// by the balance-update publisher.
type ConnectionStore interface {
	AddConnection(ctx context.Context, connectionID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
	GetAllConnections(ctx context.Context) ([]string, error)
}
