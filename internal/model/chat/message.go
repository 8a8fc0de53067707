package chat

import "time"

// Role labels one side of a conversation turn.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one immutable turn in a thread, totally ordered by CreatedAt
// (insertion order breaks ties). Lookup is only set on bot messages.
type Message struct {
	ID        string         `bson:"_id,omitempty" json:"id"`
	ThreadID  string         `bson:"threadId" json:"threadId"`
	Role      Role           `bson:"role" json:"role"`
	Text      string         `bson:"text" json:"text"`
	Lookup    *LookupPayload `bson:"lookup,omitempty" json:"lookup,omitempty"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
}

// LookupPayload records the catalog lookup behind a bot reply so history
// can be re-rendered later. Found distinguishes a resolved lookup from a
// soft failure; Reason is only set on failures.
type LookupPayload struct {
	Found      bool   `bson:"found" json:"found"`
	Title      string `bson:"title,omitempty" json:"title,omitempty"`
	Year       string `bson:"year,omitempty" json:"year,omitempty"`
	MediaType  string `bson:"mediaType,omitempty" json:"mediaType,omitempty"`
	IMDBRating string `bson:"imdbRating,omitempty" json:"imdbRating,omitempty"`
	Reason     string `bson:"reason,omitempty" json:"reason,omitempty"`
}
