package checkout

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/preneur/storefront-api/pkg/models"
)

// CartStore is the cart collaborator. The checkout flow only reads and
// deletes carts; building them is cart management's concern.
type CartStore interface {
	// GetCart returns the user's cart, or nil when the user has none.
	GetCart(ctx context.Context, userID bson.ObjectID) (*models.Cart, error)
	DeleteCart(ctx context.Context, cartID bson.ObjectID) error
}

// Catalog is the product collaborator. ReserveStock must be an atomic
// conditional decrement (decrement by qty only if stock >= qty) so that
// concurrent checkouts for the same product serialize at the storage
// boundary instead of racing a read-then-write.
type Catalog interface {
	// GetProduct returns the product, or nil when it does not exist.
	GetProduct(ctx context.Context, productID bson.ObjectID) (*models.Product, error)
	// ReserveStock decrements stock by qty, failing with
	// *InsufficientStockError if the decrement would go negative and
	// *ProductNotFoundError if the product vanished.
	ReserveStock(ctx context.Context, productID bson.ObjectID, qty int) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
}

// PurchaseHistory records which products a user has ever bought, feeding the
// recommendation engine. Updates are best-effort.
type PurchaseHistory interface {
	AddPurchasedProducts(ctx context.Context, userID bson.ObjectID, productIDs []bson.ObjectID) error
}

// TxRunner executes fn atomically: either every write fn performed is
// committed, or none are.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error)
}

// Service places orders: it validates the user's cart against live stock,
// reserves stock, persists an immutable order with frozen prices, records
// purchase history, and clears the cart, all inside one transaction.
type Service struct {
	Carts   CartStore
	Catalog Catalog
	Orders  OrderStore
	History PurchaseHistory
	Tx      TxRunner
}

// PlaceOrder runs the checkout flow for the authenticated user and returns
// the created order with line items resolved to full product detail.
//
// On failure the error is exactly one of ErrEmptyCart,
// *ProductNotFoundError, *InsufficientStockError or *TransactionAbortedError,
// and no state has changed.
func (s *Service) PlaceOrder(ctx context.Context, userID bson.ObjectID) (*models.PopulatedOrder, error) {
	result, err := s.Tx.WithTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		return s.placeOrder(ctx, userID)
	})
	if err != nil {
		if IsUserError(err) {
			return nil, err
		}
		return nil, &TransactionAbortedError{Cause: err}
	}
	return result.(*models.PopulatedOrder), nil
}

func (s *Service) placeOrder(ctx context.Context, userID bson.ObjectID) (*models.PopulatedOrder, error) {
	cart, err := s.Carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// Validate every line before any stock moves: if one line fails, the
	// whole order aborts with nothing deducted.
	products := make([]*models.Product, len(cart.Items))
	for i, line := range cart.Items {
		product, err := s.Catalog.GetProduct(ctx, line.Product)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, &ProductNotFoundError{Product: line.Product}
		}
		if product.Stock < line.Quantity {
			return nil, &InsufficientStockError{
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   line.Quantity,
			}
		}
		products[i] = product
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	populated := make([]models.PopulatedOrderItem, 0, len(cart.Items))
	productIDs := make([]bson.ObjectID, 0, len(cart.Items))

	for i, line := range cart.Items {
		if err := s.Catalog.ReserveStock(ctx, line.Product, line.Quantity); err != nil {
			return nil, err
		}

		// Snapshot the price as read during validation, never re-fetched.
		product := products[i]
		items = append(items, models.OrderItem{
			Product:  product.ID,
			Quantity: line.Quantity,
			Price:    product.Price,
		})
		productIDs = append(productIDs, product.ID)

		detail := *product
		detail.Stock -= line.Quantity
		populated = append(populated, models.PopulatedOrderItem{
			Product:  &detail,
			Quantity: line.Quantity,
			Price:    product.Price,
		})
	}

	order := &models.Order{
		User:      userID,
		Items:     items,
		CreatedAt: time.Now(),
	}
	order.TotalAmount = order.ComputeTotal()

	created, err := s.Orders.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	// Best-effort: a history failure must never roll back the order.
	if err := s.History.AddPurchasedProducts(ctx, userID, productIDs); err != nil {
		log.Printf("Warning: failed to record purchase history for user %s: %v", userID.Hex(), err)
	}

	// Delete the whole cart, not just its items, so a fresh cart is created
	// on the next add.
	if err := s.Carts.DeleteCart(ctx, cart.ID); err != nil {
		return nil, err
	}

	return &models.PopulatedOrder{
		ID:          created.ID,
		User:        created.User,
		Items:       populated,
		TotalAmount: created.TotalAmount,
		CreatedAt:   created.CreatedAt,
	}, nil
}
