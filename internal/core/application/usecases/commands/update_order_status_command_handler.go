package commands

import (
	"context"
	"fmt"
)

// UpdateOrderStatusCommandHandler handles order status transitions.
// Loads the aggregate, delegates transition validation to the domain, and
// persists the change only when the transition succeeded. A rejected
// transition leaves storage untouched.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewUpdateOrderStatusCommandHandler creates a handler for status update operations.
// Requires an OrderUoWFactory for transactional persistence.
func NewUpdateOrderStatusCommandHandler(uowFactory OrderUoWFactory) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the status update command and returns a projection of
// the updated aggregate.
//
// Failure modes, all terminal for the request:
//   - the order does not exist: errs.ObjectNotFoundError unchanged
//   - the transition is not permitted: the domain's InvalidTransitionError,
//     wrapped with the order identifier for diagnostics, with no write issued
//   - the stored row changed under the writer: errs.VersionIsInvalidError
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (OrderResponse, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResponse{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return OrderResponse{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return OrderResponse{}, err
	}

	if err = aggregate.UpdateStatus(cmd.Status()); err != nil {
		return OrderResponse{}, fmt.Errorf("order %s: %w", cmd.OrderID(), err)
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return OrderResponse{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return OrderResponse{}, err
	}

	return NewOrderResponse(aggregate), nil
}
