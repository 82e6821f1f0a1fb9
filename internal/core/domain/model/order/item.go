package order

import (
	"errors"
	"fmt"

	"orderservice/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrItemIsNotConstructed is returned when an Item instance was not created
// through the NewItem factory function.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is a value object representing a single line item within an order.
// It has no lifecycle of its own: items are created only while adding them
// to an order and are persisted and retrieved only as part of their parent.
//
// Item invariants:
//   - productID is a non-empty string
//   - quantity is a positive integer
//   - price is a non-negative exact decimal unit price
type Item struct {
	productID string
	quantity  int
	price     decimal.Decimal

	isConstructed bool
}

// NewItem creates a line item with validation. This is the only way to
// obtain a valid Item.
func NewItem(productID string, quantity int, price decimal.Decimal) (Item, error) {
	item := Item{
		isConstructed: true,
	}

	if err := errors.Join(
		item.setProductID(productID),
		item.setQuantity(quantity),
		item.setPrice(price),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Validate ensures the Item was created through NewItem.
// The zero value fails with ErrItemIsNotConstructed.
func (i Item) Validate() error {
	if !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// ProductID returns the identifier of the ordered product.
func (i Item) ProductID() string {
	return i.productID
}

// Quantity returns the number of units ordered.
func (i Item) Quantity() int {
	return i.quantity
}

// Price returns the unit price.
func (i Item) Price() decimal.Decimal {
	return i.price
}

// Subtotal returns price multiplied by quantity using exact decimal
// arithmetic. The value is derived, never stored.
func (i Item) Subtotal() decimal.Decimal {
	return i.price.Mul(decimal.NewFromInt(int64(i.quantity)))
}

func (i *Item) setProductID(productID string) error {
	if productID == "" {
		return errs.NewValueIsRequiredError("productId")
	}
	i.productID = productID
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is negative", price))
	}
	i.price = price
	return nil
}
