package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/preneur/storefront-api/pkg/models"
)

// ErrEmailTaken is returned when registering with an email that already has
// an account. The unique index on users.email is the backstop.
var ErrEmailTaken = errors.New("email already registered")

func CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	collection := GetCollection("users")

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.SetTimestamps()
	if user.PurchasedProducts == nil {
		user.PurchasedProducts = []bson.ObjectID{}
	}

	result, err := collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	user.ID = result.InsertedID.(bson.ObjectID)
	return user, nil
}

// GetUserByEmail returns the user, or nil when no account exists.
func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	collection := GetCollection("users")

	var user models.User
	err := collection.FindOne(ctx, bson.D{{Key: "email", Value: strings.ToLower(strings.TrimSpace(email))}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID returns the user, or nil when no account exists.
func GetUserByID(ctx context.Context, userID bson.ObjectID) (*models.User, error) {
	collection := GetCollection("users")

	var user models.User
	err := collection.FindOne(ctx, bson.D{{Key: "_id", Value: userID}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetRefreshToken stores the user's current refresh token; an empty token
// logs the user out.
func SetRefreshToken(ctx context.Context, userID bson.ObjectID, token string) error {
	collection := GetCollection("users")

	_, err := collection.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: userID}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "refresh_token", Value: token}}}},
	)
	return err
}

// AddPurchasedProducts unions productIDs into the user's purchase history.
func AddPurchasedProducts(ctx context.Context, userID bson.ObjectID, productIDs []bson.ObjectID) error {
	collection := GetCollection("users")

	_, err := collection.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: userID}},
		bson.D{{Key: "$addToSet", Value: bson.D{
			{Key: "purchased_products", Value: bson.D{{Key: "$each", Value: productIDs}}},
		}}},
	)
	return err
}
