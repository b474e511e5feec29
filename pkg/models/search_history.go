package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// SearchHistory records one keyword a user has searched for, with a usage
// count. One document per (user, keyword) pair, enforced by a unique index.
type SearchHistory struct {
	ID             bson.ObjectID `json:"id" bson:"_id,omitempty"`
	User           bson.ObjectID `json:"user" bson:"user"`
	Keyword        string        `json:"keyword" bson:"keyword"`
	Count          int           `json:"count" bson:"count"`
	LastSearchedAt time.Time     `json:"last_searched_at" bson:"last_searched_at"`
}
