// Package queries contains read-only operations in the CQRS architecture.
// Query handlers go straight to the database and return flattened
// projections; they never mutate state.
package queries

import (
	"errors"
	"time"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves the full projection of a single order.
// The query is side-effect free: running it twice with no intervening
// mutation returns identical projections.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for the order with the given identifier.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderQueryIsNotConstructed if validation fails.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the identifier of the requested order.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the flattened, read-only view of an order's
// current state: identity, customer, items with derived subtotals, total,
// status, and timestamps. Plain data, no behavior.
type GetOrderQueryResponse struct {
	ID         kernel.UUID
	CustomerID string
	Items      []OrderItemView
	TotalPrice decimal.Decimal
	Status     order.Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderItemView is the projection of one line item.
type OrderItemView struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
	Subtotal  decimal.Decimal
}
