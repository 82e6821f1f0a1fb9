package order

import (
	"errors"
	"strings"
	"time"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder factory method. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderIDAlreadyAssigned is returned when the storage layer attempts
	// to assign an identifier to an order that already has one.
	ErrOrderIDAlreadyAssigned = errors.New("order identifier is already assigned")
)

// Order represents a customer order in the system. It is the aggregate root
// that owns its line items, total-price computation, and status lifecycle.
//
// Order follows these invariants:
//   - Must have a non-empty customer identifier, immutable after creation
//   - totalPrice always equals the exact decimal sum of each item's subtotal
//   - Status transitions follow the state machine defined on Status
//   - Can only be created through NewOrder or rehydrated through RestoreOrder
//
// The identifier is absent until the storage layer assigns one on first
// persist. The struct uses private fields to ensure encapsulation and
// maintains its invariants through validated methods. None of the mutation
// methods perform I/O.
type Order struct {
	// id is the unique identifier, nil until first persisted
	id *kernel.UUID

	// customerID identifies the customer who placed the order
	customerID string

	// items is the ordered, append-only collection of line items
	items []Item

	// totalPrice is the exact decimal sum of all item subtotals
	totalPrice decimal.Decimal

	// status represents the current state in the order lifecycle
	status Status

	// createdAt is set once at construction
	createdAt time.Time

	// updatedAt is bumped on every mutation
	updatedAt time.Time

	// version is the optimistic-lock counter owned by the storage layer
	version int

	// isConstructed ensures the order was created via NewOrder or RestoreOrder
	isConstructed bool
}

// NewOrder creates a new Order for the given customer.
// The order starts with no items, zero total and Created status;
// createdAt and updatedAt are both set to the current time.
//
// Returns a validation error if customerID is empty or blank.
func NewOrder(customerID string) (*Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, errs.NewValueIsRequiredError("customerId")
	}

	now := time.Now().UTC()
	return &Order{
		customerID:    customerID,
		items:         make([]Item, 0),
		totalPrice:    decimal.Zero,
		status:        Created,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreOrder rehydrates an order from persisted state. The total price is
// recomputed from the items rather than trusted, so the sum invariant holds
// for every constructed aggregate.
func RestoreOrder(
	id kernel.UUID,
	customerID string,
	items []Item,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
	version int,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(customerID) == "" {
		return nil, errs.NewValueIsRequiredError("customerId")
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}

	restored := &Order{
		id:            &id,
		customerID:    customerID,
		items:         append(make([]Item, 0, len(items)), items...),
		status:        status,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		version:       version,
		isConstructed: true,
	}
	restored.totalPrice = restored.sumSubtotals()

	return restored, nil
}

// Validate ensures the Order instance was properly constructed through
// NewOrder or RestoreOrder. This prevents bypassing validation by directly
// instantiating the struct.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
// Orders without assigned identifiers are never equal.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id != nil && other.id != nil && o.id.IsEqual(*other.id)
}

// ID returns the order's identifier, or nil if the order has not been
// persisted yet.
func (o *Order) ID() *kernel.UUID {
	if o.id == nil {
		return nil
	}
	id := *o.id
	return &id
}

// AssignID sets the order's identifier. It is intended for the storage
// layer, which owns identifier assignment on first persist. Assigning an
// identifier twice fails with ErrOrderIDAlreadyAssigned.
func (o *Order) AssignID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if o.id != nil {
		return ErrOrderIDAlreadyAssigned
	}

	o.id = &id
	return nil
}

// CustomerID returns the identifier of the customer who placed the order.
func (o *Order) CustomerID() string {
	return o.customerID
}

// Items returns a defensive copy of the line items in insertion order.
// Mutating the returned slice does not affect the aggregate.
func (o *Order) Items() []Item {
	return append(make([]Item, 0, len(o.items)), o.items...)
}

// TotalPrice returns the exact decimal sum of all item subtotals.
func (o *Order) TotalPrice() decimal.Decimal {
	return o.totalPrice
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// CreatedAt returns the construction timestamp. Never mutated.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the timestamp of the last mutation.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Version returns the optimistic-lock counter as read from storage.
func (o *Order) Version() int {
	return o.version
}

// AddItem appends a line item and recalculates the total price as the exact
// decimal sum of all item subtotals. updatedAt is bumped as a side effect.
//
// No status restriction is enforced here: the application layer only adds
// items during creation.
func (o *Order) AddItem(item Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	o.items = append(o.items, item)
	o.recalculateTotal()
	return nil
}

// UpdateStatus transitions the order to newStatus after validating the
// transition against the state machine. On success the status is replaced
// and updatedAt is bumped. On failure the aggregate is left untouched and
// an InvalidTransitionError carrying both statuses is returned.
func (o *Order) UpdateStatus(newStatus Status) error {
	next, err := o.status.TransitionTo(newStatus)
	if err != nil {
		return err
	}

	o.status = next
	o.updatedAt = time.Now().UTC()
	return nil
}

// recalculateTotal restores the sum invariant after the item collection changes.
func (o *Order) recalculateTotal() {
	o.totalPrice = o.sumSubtotals()
	o.updatedAt = time.Now().UTC()
}

func (o *Order) sumSubtotals() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.items {
		total = total.Add(item.Subtotal())
	}
	return total
}
