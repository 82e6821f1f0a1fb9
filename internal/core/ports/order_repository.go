// Package ports defines repository and transaction interfaces for the order
// domain. These interfaces establish contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// A successful Add or Update makes the full aggregate state, including the
// recomputed total and updatedAt, durably visible to subsequent Get calls.
type OrderRepository interface {
	// Add persists a new order aggregate together with all of its items.
	// The repository assigns the order's identifier on success; the order
	// must not already have one.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate. The write is
	// guarded by the aggregate's optimistic-lock version: if another writer
	// committed in between, Update fails without modifying storage.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier, items
	// included, in their original insertion order.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
