package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/preneur/storefront-api/pkg/checkout"
	"github.com/preneur/storefront-api/pkg/models"
)

// NewCheckoutService wires the order placement flow to the Mongo-backed
// collaborators. All writes run inside one session transaction, so a failure
// at any step leaves stock, orders, history and the cart untouched.
func NewCheckoutService() *checkout.Service {
	return &checkout.Service{
		Carts:   cartStore{},
		Catalog: catalog{},
		Orders:  orderStore{},
		History: historyStore{},
		Tx:      txRunner{},
	}
}

type cartStore struct{}

func (cartStore) GetCart(ctx context.Context, userID bson.ObjectID) (*models.Cart, error) {
	return GetCartByUser(ctx, userID)
}

func (cartStore) DeleteCart(ctx context.Context, cartID bson.ObjectID) error {
	return DeleteCart(ctx, cartID)
}

type catalog struct{}

func (catalog) GetProduct(ctx context.Context, productID bson.ObjectID) (*models.Product, error) {
	return GetProductByID(ctx, productID)
}

// ReserveStock is a single conditional decrement: the stock >= qty filter
// makes the check and the deduction one atomic document update, so two
// concurrent checkouts can never both drain the same units.
func (catalog) ReserveStock(ctx context.Context, productID bson.ObjectID, qty int) error {
	collection := GetCollection("products")

	err := collection.FindOneAndUpdate(ctx,
		bson.D{
			{Key: "_id", Value: productID},
			{Key: "stock", Value: bson.D{{Key: "$gte", Value: qty}}},
		},
		bson.D{
			{Key: "$inc", Value: bson.D{{Key: "stock", Value: -qty}}},
			{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now()}}},
		},
	).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either the product vanished or stock fell short; re-read to say which.
		product, lookupErr := GetProductByID(ctx, productID)
		if lookupErr != nil {
			return lookupErr
		}
		if product == nil {
			return &checkout.ProductNotFoundError{Product: productID}
		}
		return &checkout.InsufficientStockError{
			ProductName: product.Name,
			Available:   product.Stock,
			Requested:   qty,
		}
	}
	return err
}

type orderStore struct{}

func (orderStore) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	return CreateOrder(ctx, order)
}

type historyStore struct{}

func (historyStore) AddPurchasedProducts(ctx context.Context, userID bson.ObjectID, productIDs []bson.ObjectID) error {
	return AddPurchasedProducts(ctx, userID, productIDs)
}

type txRunner struct{}

func (txRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	session, err := Client().StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	return session.WithTransaction(ctx, fn)
}
