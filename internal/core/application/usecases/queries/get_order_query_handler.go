package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves a single order projection from the database.
//
// Example:
//
//	handler := NewGetOrderQueryHandler(db)
//	query, _ := NewGetOrderQuery(orderID)
//
//	projection, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get order: %w", err)
//	}
//	fmt.Printf("order %s total %s\n", projection.ID, projection.TotalPrice)
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order queries.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query and builds the projection, items in their
// original insertion order. Returns an ObjectNotFoundError when no order
// with the requested identifier exists.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var response GetOrderQueryResponse

	var (
		id         uuid.UUID
		customerID string
		totalPrice decimal.Decimal
		statusName string
		createdAt  time.Time
		updatedAt  time.Time
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			total_price,
			status,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	err := row.Scan(&id, &customerID, &totalPrice, &statusName, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetOrderQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	status, err := order.StatusFromString(statusName)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	response.ID = orderID
	response.CustomerID = customerID
	response.TotalPrice = totalPrice
	response.Status = status
	response.CreatedAt = createdAt
	response.UpdatedAt = updatedAt

	items, err := h.loadItems(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	response.Items = items

	return response, nil
}

func (h GetOrderQueryHandler) loadItems(ctx context.Context, orderID kernel.UUID) ([]OrderItemView, error) {
	items := make([]OrderItemView, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			product_id,
			quantity,
			price
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			productID string
			quantity  int
			price     decimal.Decimal
		)

		if err = rows.Scan(&productID, &quantity, &price); err != nil {
			return nil, err
		}

		items = append(items, OrderItemView{
			ProductID: productID,
			Quantity:  quantity,
			Price:     price,
			Subtotal:  price.Mul(decimal.NewFromInt(int64(quantity))),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
