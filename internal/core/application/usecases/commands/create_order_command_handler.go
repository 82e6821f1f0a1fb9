package commands

import (
	"context"

	"orderservice/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Builds the aggregate from the command, adds each item in input order, and
// persists everything within a single transaction so that a partially added
// order is never visible to other readers.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	response, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	fmt.Printf("order %s created with total %s", response.ID, response.TotalPrice)
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires an OrderUoWFactory for transactional persistence.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command and returns a projection of
// the persisted aggregate, including the identifier the storage layer
// assigned. On any failure storage is left unchanged.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (OrderResponse, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResponse{}, err
	}

	aggregate, err := order.NewOrder(cmd.CustomerID())
	if err != nil {
		return OrderResponse{}, err
	}

	for _, item := range cmd.Items() {
		if err = aggregate.AddItem(item); err != nil {
			return OrderResponse{}, err
		}
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return OrderResponse{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return OrderResponse{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return OrderResponse{}, err
	}

	return NewOrderResponse(aggregate), nil
}
