package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/preneur/storefront-api/pkg/models"
)

// memStore is an in-memory stand-in for the Mongo-backed collaborators.
type memStore struct {
	mu       sync.Mutex
	products map[bson.ObjectID]*models.Product
	carts    map[bson.ObjectID]*models.Cart
	orders   []*models.Order
	history  map[bson.ObjectID]map[bson.ObjectID]bool

	failOrderInsert bool
	failHistory     bool
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[bson.ObjectID]*models.Product),
		carts:    make(map[bson.ObjectID]*models.Cart),
		history:  make(map[bson.ObjectID]map[bson.ObjectID]bool),
	}
}

func (s *memStore) GetCart(_ context.Context, userID bson.ObjectID) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cart := range s.carts {
		if cart.User == userID {
			copied := *cart
			copied.Items = append([]models.CartItem(nil), cart.Items...)
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memStore) DeleteCart(_ context.Context, cartID bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, cartID)
	return nil
}

func (s *memStore) GetProduct(_ context.Context, productID bson.ObjectID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[productID]
	if !ok {
		return nil, nil
	}
	copied := *product
	return &copied, nil
}

func (s *memStore) ReserveStock(_ context.Context, productID bson.ObjectID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[productID]
	if !ok {
		return &ProductNotFoundError{Product: productID}
	}
	if product.Stock < qty {
		return &InsufficientStockError{ProductName: product.Name, Available: product.Stock, Requested: qty}
	}
	product.Stock -= qty
	return nil
}

func (s *memStore) CreateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOrderInsert {
		return nil, errors.New("order insert failed")
	}
	created := *order
	created.ID = bson.NewObjectID()
	created.Items = append([]models.OrderItem(nil), order.Items...)
	s.orders = append(s.orders, &created)
	return &created, nil
}

func (s *memStore) AddPurchasedProducts(_ context.Context, userID bson.ObjectID, productIDs []bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failHistory {
		return errors.New("history write failed")
	}
	set := s.history[userID]
	if set == nil {
		set = make(map[bson.ObjectID]bool)
		s.history[userID] = set
	}
	for _, id := range productIDs {
		set[id] = true
	}
	return nil
}

type storeSnapshot struct {
	products map[bson.ObjectID]*models.Product
	carts    map[bson.ObjectID]*models.Cart
	orders   []*models.Order
	history  map[bson.ObjectID]map[bson.ObjectID]bool
}

func (s *memStore) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := storeSnapshot{
		products: make(map[bson.ObjectID]*models.Product, len(s.products)),
		carts:    make(map[bson.ObjectID]*models.Cart, len(s.carts)),
		orders:   append([]*models.Order(nil), s.orders...),
		history:  make(map[bson.ObjectID]map[bson.ObjectID]bool, len(s.history)),
	}
	for id, p := range s.products {
		copied := *p
		snap.products[id] = &copied
	}
	for id, c := range s.carts {
		copied := *c
		copied.Items = append([]models.CartItem(nil), c.Items...)
		snap.carts[id] = &copied
	}
	for user, set := range s.history {
		copiedSet := make(map[bson.ObjectID]bool, len(set))
		for id := range set {
			copiedSet[id] = true
		}
		snap.history[user] = copiedSet
	}
	return snap
}

func (s *memStore) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.carts = snap.carts
	s.orders = snap.orders
	s.history = snap.history
}

// memTx serializes transactions and rolls the store back on error, modeling
// the transactional checkout variant.
type memTx struct {
	mu    sync.Mutex
	store *memStore
}

func (t *memTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.store.snapshot()
	result, err := fn(ctx)
	if err != nil {
		t.store.restore(snap)
		return nil, err
	}
	return result, nil
}

type fixture struct {
	store   *memStore
	service *Service
}

func newFixture() *fixture {
	store := newMemStore()
	return &fixture{
		store: store,
		service: &Service{
			Carts:   store,
			Catalog: store,
			Orders:  store,
			History: store,
			Tx:      &memTx{store: store},
		},
	}
}

func (f *fixture) addProduct(name string, price models.Money, stock int) bson.ObjectID {
	id := bson.NewObjectID()
	f.store.products[id] = &models.Product{ID: id, Name: name, Price: price, Stock: stock}
	return id
}

func (f *fixture) addCart(userID bson.ObjectID, items ...models.CartItem) bson.ObjectID {
	id := bson.NewObjectID()
	f.store.carts[id] = &models.Cart{ID: id, User: userID, Items: items}
	return id
}

func TestPlaceOrderHappyPath(t *testing.T) {
	f := newFixture()
	userID := bson.NewObjectID()
	productID := f.addProduct("Mechanical Keyboard", models.Money(5000), 20)
	f.addCart(userID, models.CartItem{Product: productID, Quantity: 2})

	order, err := f.service.PlaceOrder(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)

	assert.Equal(t, models.Money(10000), order.TotalAmount, "totalAmount must be 100.00 exactly")
	assert.Equal(t, models.Money(5000), order.Items[0].Price)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "Mechanical Keyboard", order.Items[0].Product.Name)
	assert.Equal(t, 18, f.store.products[productID].Stock)

	cart, err := f.store.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, cart, "cart must be deleted after a successful order")

	require.Len(t, f.store.orders, 1)
	assert.True(t, f.store.history[userID][productID], "purchased product recorded in history")
}

func TestPlaceOrderTotalMatchesLineItems(t *testing.T) {
	f := newFixture()
	userID := bson.NewObjectID()
	keyboard := f.addProduct("Keyboard", models.Money(7999), 10)
	mouse := f.addProduct("Mouse", models.Money(2450), 10)
	f.addCart(userID,
		models.CartItem{Product: keyboard, Quantity: 3},
		models.CartItem{Product: mouse, Quantity: 2},
	)

	order, err := f.service.PlaceOrder(context.Background(), userID)
	require.NoError(t, err)

	var want models.Money
	for _, item := range order.Items {
		want += item.Price.Mul(item.Quantity)
	}
	assert.Equal(t, want, order.TotalAmount)
	assert.Equal(t, models.Money(3*7999+2*2450), order.TotalAmount)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newFixture()
	userID := bson.NewObjectID()

	_, err := f.service.PlaceOrder(context.Background(), userID)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.store.orders)

	// A cart document with zero items behaves the same as no cart.
	f.addCart(userID)
	_, err = f.service.PlaceOrder(context.Background(), userID)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.store.orders)
}

func TestPlaceOrderProductVanished(t *testing.T) {
	f := newFixture()
	userID := bson.NewObjectID()
	missing := bson.NewObjectID()
	f.addCart(userID, models.CartItem{Product: missing, Quantity: 1})

	_, err := f.service.PlaceOrder(context.Background(), userID)
	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, missing, notFound.Product)
	assert.Empty(t, f.store.orders)
}

func TestPlaceOrderInsufficientStockIsAllOrNothing(t *testing.T) {
	f := newFixture()
	userID := bson.NewObjectID()
	plenty := f.addProduct("In Stock", models.Money(1000), 50)
	scarce := f.addProduct("Nearly Gone", models.Money(2000), 1)
	f.addCart(userID,
		models.CartItem{Product: plenty, Quantity: 2},
		models.CartItem{Product: scarce, Quantity: 5},
	)

	_, err := f.service.PlaceOrder(context.Background(), userID)
	var noStock *InsufficientStockError
	require.ErrorAs(t, err, &noStock)
	assert.Equal(t, "Nearly Gone", noStock.ProductName)
	assert.Equal(t, 1, noStock.Available)
	assert.Equal(t, 5, noStock.Requested)

	// Not even the valid line was deducted, and nothing else changed.
	assert.Equal(t, 50, f.store.products[plenty].Stock)
	assert.Equal(t, 1, f.store.products[scarce].Stock)
	assert.Empty(t, f.store.orders)
	cart, _ := f.store.GetCart(context.Background(), userID)
	assert.NotNil(t, cart, "cart survives a failed order")
}

func TestPlaceOrderPriceFrozenAtPurchase(t *testing.T) {
	f := newFixture()
	userID := bson.NewObjectID()
	productID := f.addProduct("Headphones", models.Money(15000), 5)
	f.addCart(userID, models.CartItem{Product: productID, Quantity: 1})

	order, err := f.service.PlaceOrder(context.Background(), userID)
	require.NoError(t, err)

	// Reprice the product after purchase; the order must not move.
	f.store.products[productID].Price = models.Money(99900)

	stored := f.store.orders[0]
	assert.Equal(t, models.Money(15000), stored.Items[0].Price)
	assert.Equal(t, models.Money(15000), order.Items[0].Price)
	assert.Equal(t, models.Money(15000), stored.TotalAmount)
}

func TestPlaceOrderInfraFailureRollsBack(t *testing.T) {
	f := newFixture()
	userID := bson.NewObjectID()
	productID := f.addProduct("Monitor", models.Money(30000), 4)
	f.addCart(userID, models.CartItem{Product: productID, Quantity: 2})
	f.store.failOrderInsert = true

	_, err := f.service.PlaceOrder(context.Background(), userID)
	var aborted *TransactionAbortedError
	require.ErrorAs(t, err, &aborted)

	// The stock reservation made before the failing insert was rolled back.
	assert.Equal(t, 4, f.store.products[productID].Stock)
	assert.Empty(t, f.store.orders)
	cart, _ := f.store.GetCart(context.Background(), userID)
	assert.NotNil(t, cart)
}

func TestPlaceOrderHistoryFailureDoesNotBlockOrder(t *testing.T) {
	f := newFixture()
	userID := bson.NewObjectID()
	productID := f.addProduct("Webcam", models.Money(8000), 3)
	f.addCart(userID, models.CartItem{Product: productID, Quantity: 1})
	f.store.failHistory = true

	order, err := f.service.PlaceOrder(context.Background(), userID)
	require.NoError(t, err, "history failure is best-effort, the order still succeeds")
	assert.Equal(t, models.Money(8000), order.TotalAmount)
	assert.Equal(t, 2, f.store.products[productID].Stock)
	assert.Len(t, f.store.orders, 1)
}

func TestConcurrentOrdersNeverOversell(t *testing.T) {
	f := newFixture()
	productID := f.addProduct("Limited Edition", models.Money(2500), 10)

	userA := bson.NewObjectID()
	userB := bson.NewObjectID()
	// Each order alone fits in stock; together they exceed it.
	f.addCart(userA, models.CartItem{Product: productID, Quantity: 7})
	f.addCart(userB, models.CartItem{Product: productID, Quantity: 7})

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, userID := range []bson.ObjectID{userA, userB} {
		wg.Add(1)
		go func(i int, userID bson.ObjectID) {
			defer wg.Done()
			_, results[i] = f.service.PlaceOrder(context.Background(), userID)
		}(i, userID)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			var noStock *InsufficientStockError
			require.ErrorAs(t, err, &noStock)
		}
	}

	assert.Equal(t, 1, successes, "exactly one of the competing orders may win")
	assert.Equal(t, 3, f.store.products[productID].Stock)
	assert.GreaterOrEqual(t, f.store.products[productID].Stock, 0, "stock must never go negative")
	assert.Len(t, f.store.orders, 1)
}
