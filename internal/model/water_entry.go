package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Bounds enforced on water entries at the request boundary.
const (
	MaxGlassesPerEntry = 50
	MaxNotesLength     = 500
)

// WaterEntry represents one day's water intake log, owned exclusively by a
// single user.
type WaterEntry struct {
	ID        bson.ObjectID `bson:"_id,omitempty"   json:"id"`
	UserID    bson.ObjectID `bson:"user_id"         json:"userId"`
	Date      time.Time     `bson:"date"            json:"date"`
	Glasses   int           `bson:"glasses"         json:"glasses"`
	Notes     string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time     `bson:"created_at"      json:"createdAt"`
	UpdatedAt time.Time     `bson:"updated_at"      json:"updatedAt"`
}
