package chat

import "time"

// Thread is a named per-user conversation container. The (UserID, Title)
// pair is unique; UpdatedAt is bumped on every new message and drives the
// most-recently-active listing order.
type Thread struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Title     string    `bson:"title" json:"title"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
