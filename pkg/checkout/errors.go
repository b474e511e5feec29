package checkout

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrEmptyCart is returned when the user has no cart or a cart with no items.
var ErrEmptyCart = errors.New("cart is empty")

// ProductNotFoundError reports a cart line referencing a product that no
// longer exists in the catalog.
type ProductNotFoundError struct {
	Product bson.ObjectID
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.Product.Hex())
}

// InsufficientStockError reports a cart line requesting more units than the
// catalog currently holds.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q. Available: %d, Requested: %d",
		e.ProductName, e.Available, e.Requested)
}

// TransactionAbortedError wraps an infrastructure failure (lock conflict,
// storage unavailable) that aborted the checkout transaction. Callers surface
// it as a generic server error; the cause is for server-side logs only.
type TransactionAbortedError struct {
	Cause error
}

func (e *TransactionAbortedError) Error() string {
	return fmt.Sprintf("order transaction aborted: %v", e.Cause)
}

func (e *TransactionAbortedError) Unwrap() error {
	return e.Cause
}

// IsUserError reports whether err is one of the recoverable, user-facing
// checkout failures (as opposed to an infrastructure fault).
func IsUserError(err error) bool {
	var notFound *ProductNotFoundError
	var noStock *InsufficientStockError
	return errors.Is(err, ErrEmptyCart) || errors.As(err, &notFound) || errors.As(err, &noStock)
}
