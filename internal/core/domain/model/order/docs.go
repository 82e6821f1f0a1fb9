// Package order provides domain entities and business logic for order
// management. It implements the Order aggregate root with total-price
// computation and status lifecycle management.
//
// The package includes:
//   - Order: The aggregate root owning line items, total and lifecycle
//   - Item: A value object representing one line item
//   - Status: A state machine that enforces valid order status transitions
//
// Key business rules:
//   - An order's total price always equals the exact decimal sum of its
//     item subtotals (price × quantity per item)
//   - Order status follows a defined workflow:
//     CREATED -> PROCESSING -> COMPLETED, with CANCELLED reachable from
//     CREATED and PROCESSING; COMPLETED and CANCELLED are terminal
//   - Monetary values use exact decimal arithmetic, never binary floats
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
