package commands

import (
	"time"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderResponse is a read-only projection of an order aggregate's state,
// returned by command handlers to their callers. Plain data, no behavior.
type OrderResponse struct {
	ID         kernel.UUID
	CustomerID string
	Items      []ItemResponse
	TotalPrice decimal.Decimal
	Status     order.Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ItemResponse is the projection of a single line item, including the
// derived subtotal.
type ItemResponse struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
	Subtotal  decimal.Decimal
}

// NewOrderResponse builds the projection of a persisted aggregate.
// The order must already carry a storage-assigned identifier.
func NewOrderResponse(aggregate *order.Order) OrderResponse {
	items := aggregate.Items()
	itemResponses := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		itemResponses = append(itemResponses, ItemResponse{
			ProductID: item.ProductID(),
			Quantity:  item.Quantity(),
			Price:     item.Price(),
			Subtotal:  item.Subtotal(),
		})
	}

	var id kernel.UUID
	if aggregateID := aggregate.ID(); aggregateID != nil {
		id = *aggregateID
	}

	return OrderResponse{
		ID:         id,
		CustomerID: aggregate.CustomerID(),
		Items:      itemResponses,
		TotalPrice: aggregate.TotalPrice(),
		Status:     aggregate.Status(),
		CreatedAt:  aggregate.CreatedAt(),
		UpdatedAt:  aggregate.UpdatedAt(),
	}
}
