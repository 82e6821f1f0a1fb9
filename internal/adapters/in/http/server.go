// Package http exposes the order-management use cases over a REST API.
// Handlers translate between JSON payloads and application commands or
// queries; domain errors map onto HTTP status codes in one place.
package http

import (
	"errors"
	"net/http"
	"time"

	"orderservice/internal/core/application/usecases/commands"
	"orderservice/internal/core/application/usecases/queries"
	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateOrderItemRequest is one line item of an order creation request.
type CreateOrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"required,gt=0"`
	Price     string `json:"price"     validate:"required"`
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	CustomerID string                   `json:"customerId" validate:"required"`
	Items      []CreateOrderItemRequest `json:"items"      validate:"required,min=1,dive"`
}

// UpdateOrderStatusRequest is the body of PATCH /api/v1/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderItemResponse is one line item in an order response body.
type OrderItemResponse struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	Subtotal  string `json:"subtotal"`
}

// OrderResponse is the JSON view of an order returned by every endpoint.
type OrderResponse struct {
	ID         string              `json:"id"`
	CustomerID string              `json:"customerId"`
	Items      []OrderItemResponse `json:"items"`
	TotalPrice string              `json:"totalPrice"`
	Status     string              `json:"status"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler       commands.CreateOrderCommandHandler
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler

	// Query handlers
	getOrderHandler queries.GetOrderQueryHandler

	validate *validator.Validate
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		updateOrderStatusHandler: updateOrderStatusHandler,
		getOrderHandler:          getOrderHandler,
		validate:                 validator.New(),
	}
}

// RegisterRoutes attaches all order endpoints to the Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.GetHealth)

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id/status", s.UpdateOrderStatus)
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders - creates a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	if err := s.validate.Struct(request); err != nil {
		return badRequest(ctx, "invalid order data: "+err.Error())
	}

	items := make([]order.Item, 0, len(request.Items))
	for _, itemRequest := range request.Items {
		price, err := decimal.NewFromString(itemRequest.Price)
		if err != nil {
			return badRequest(ctx, "invalid item price: "+itemRequest.Price)
		}

		item, err := order.NewItem(itemRequest.ProductID, itemRequest.Quantity, price)
		if err != nil {
			return badRequest(ctx, "invalid item data: "+err.Error())
		}
		items = append(items, item)
	}

	cmd, err := commands.NewCreateOrderCommand(request.CustomerID, items)
	if err != nil {
		return badRequest(ctx, "invalid order data: "+err.Error())
	}

	response, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrderResponse(response))
}

// GetOrder handles GET /api/v1/orders/:id - retrieves a single order.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	projection, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapDomainError(ctx, err)
	}

	items := make([]OrderItemResponse, len(projection.Items))
	for i, item := range projection.Items {
		items[i] = OrderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.String(),
			Subtotal:  item.Subtotal.String(),
		}
	}

	return ctx.JSON(http.StatusOK, OrderResponse{
		ID:         projection.ID.String(),
		CustomerID: projection.CustomerID,
		Items:      items,
		TotalPrice: projection.TotalPrice.String(),
		Status:     projection.Status.String(),
		CreatedAt:  projection.CreatedAt,
		UpdatedAt:  projection.UpdatedAt,
	})
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status - advances the
// order state machine.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var request UpdateOrderStatusRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	if err = s.validate.Struct(request); err != nil {
		return badRequest(ctx, "invalid status data: "+err.Error())
	}

	status, err := order.StatusFromString(request.Status)
	if err != nil {
		return badRequest(ctx, "unknown status: "+request.Status)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, status)
	if err != nil {
		return badRequest(ctx, "invalid status data: "+err.Error())
	}

	response, err := s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapDomainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(response))
}

// toOrderResponse converts a command-side projection to the JSON view.
func toOrderResponse(response commands.OrderResponse) OrderResponse {
	items := make([]OrderItemResponse, len(response.Items))
	for i, item := range response.Items {
		items[i] = OrderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.String(),
			Subtotal:  item.Subtotal.String(),
		}
	}

	return OrderResponse{
		ID:         response.ID.String(),
		CustomerID: response.CustomerID,
		Items:      items,
		TotalPrice: response.TotalPrice.String(),
		Status:     response.Status.String(),
		CreatedAt:  response.CreatedAt,
		UpdatedAt:  response.UpdatedAt,
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// mapDomainError translates application and domain errors into HTTP responses.
func mapDomainError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "internal server error",
		})
	}
}
