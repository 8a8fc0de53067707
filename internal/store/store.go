// Package store defines the persistence boundary. Every query that reads
// or mutates a thread is scoped by the owning user id; cross-user access
// surfaces as ErrNotFound rather than leaking existence.
package store

import (
	"context"
	"errors"

	"github.com/cinechat/backend/internal/model/chat"
	"github.com/cinechat/backend/internal/model/user"
)

var (
	// ErrNotFound covers both absent documents and ownership mismatches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate reports a unique-index violation (email, userId+title).
	ErrDuplicate = errors.New("duplicate key")
)

// UserStore persists identity records.
type UserStore interface {
	// CreateUser inserts u and fills in its ID and CreatedAt.
	// Returns ErrDuplicate when the email is already registered.
	CreateUser(ctx context.Context, u *user.User) error
	FindUserByEmail(ctx context.Context, email string) (*user.User, error)
	// ListUsers returns one page of users, newest first, plus the total count.
	ListUsers(ctx context.Context, page, limit int) ([]user.Listing, int64, error)
}

// ThreadStore persists conversation containers.
type ThreadStore interface {
	// CreateThread inserts a thread for userID with the given title.
	// Returns ErrDuplicate when the user already has a thread so titled.
	CreateThread(ctx context.Context, userID, title string) (*chat.Thread, error)
	// FindThread fetches a thread only when it is owned by userID.
	FindThread(ctx context.Context, threadID, userID string) (*chat.Thread, error)
	// ListThreads returns all threads owned by userID, most recently active first.
	ListThreads(ctx context.Context, userID string) ([]chat.Thread, error)
	// ThreadTitles returns the titles of every thread owned by userID.
	ThreadTitles(ctx context.Context, userID string) ([]string, error)
	// TouchThread advances the thread's activity timestamp.
	TouchThread(ctx context.Context, threadID string) error
	// DeleteThread removes the thread and all of its messages.
	DeleteThread(ctx context.Context, threadID string) error
	// WipeThreads removes every thread owned by userID together with
	// their messages. Other users' data is untouched.
	WipeThreads(ctx context.Context, userID string) error
}

// MessageStore persists conversation turns.
type MessageStore interface {
	// AppendMessage inserts m and fills in its ID and CreatedAt.
	// Messages are append-only; insertion order is never reordered.
	AppendMessage(ctx context.Context, m *chat.Message) error
	// ListMessages returns up to limit of the thread's earliest messages,
	// oldest first.
	ListMessages(ctx context.Context, threadID string, limit int) ([]chat.Message, error)
}

// Store aggregates the full persistence surface.
type Store interface {
	UserStore
	ThreadStore
	MessageStore
}
