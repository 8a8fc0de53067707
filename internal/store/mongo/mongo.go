// Package mongodb implements the store interfaces on top of MongoDB.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cinechat/backend/internal/model/chat"
	"github.com/cinechat/backend/internal/model/user"
	"github.com/cinechat/backend/internal/store"
)

// Store talks to a single MongoDB database holding the users, threads
// and messages collections.
type Store struct {
	client   *mongo.Client
	users    *mongo.Collection
	threads  *mongo.Collection
	messages *mongo.Collection
}

// Connect dials the database, verifies the connection and ensures the
// indexes the domain invariants rely on.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:   client,
		users:    db.Collection("users"),
		threads:  db.Collection("threads"),
		messages: db.Collection("messages"),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// Disconnect releases the underlying client.
func (s *Store) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}

	_, err = s.threads.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// Authoritative guard for the per-user title invariant.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "title", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "updatedAt", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("ensure thread indexes: %w", err)
	}

	_, err = s.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "threadId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("ensure message indexes: %w", err)
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	u.ID = primitive.NewObjectID().Hex()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context, page, limit int) ([]user.Listing, int64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"email": 1, "createdAt": 1, "_id": 0})

	cur, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	items := make([]user.Listing, 0, limit)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}

	total, err := s.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return items, total, nil
}

func (s *Store) CreateThread(ctx context.Context, userID, title string) (*chat.Thread, error) {
	now := time.Now().UTC()
	th := &chat.Thread{
		ID:        primitive.NewObjectID().Hex(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.threads.InsertOne(ctx, th); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, store.ErrDuplicate
		}
		return nil, fmt.Errorf("insert thread: %w", err)
	}
	return th, nil
}

func (s *Store) FindThread(ctx context.Context, threadID, userID string) (*chat.Thread, error) {
	var th chat.Thread
	err := s.threads.FindOne(ctx, bson.M{"_id": threadID, "userId": userID}).Decode(&th)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find thread: %w", err)
	}
	return &th, nil
}

func (s *Store) ListThreads(ctx context.Context, userID string) ([]chat.Thread, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cur, err := s.threads.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	var items []chat.Thread
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode threads: %w", err)
	}
	return items, nil
}

func (s *Store) ThreadTitles(ctx context.Context, userID string) ([]string, error) {
	raw, err := s.threads.Distinct(ctx, "title", bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("list thread titles: %w", err)
	}
	titles := make([]string, 0, len(raw))
	for _, v := range raw {
		if t, ok := v.(string); ok {
			titles = append(titles, t)
		}
	}
	return titles, nil
}

func (s *Store) TouchThread(ctx context.Context, threadID string) error {
	_, err := s.threads.UpdateByID(ctx, threadID, bson.M{
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("touch thread: %w", err)
	}
	return nil
}

// DeleteThread removes the thread document first so readers, which always
// resolve the thread before its messages, stop seeing the conversation
// before the message cascade runs.
func (s *Store) DeleteThread(ctx context.Context, threadID string) error {
	if _, err := s.threads.DeleteOne(ctx, bson.M{"_id": threadID}); err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}
	if _, err := s.messages.DeleteMany(ctx, bson.M{"threadId": threadID}); err != nil {
		return fmt.Errorf("delete thread messages: %w", err)
	}
	return nil
}

func (s *Store) WipeThreads(ctx context.Context, userID string) error {
	raw, err := s.threads.Distinct(ctx, "_id", bson.M{"userId": userID})
	if err != nil {
		return fmt.Errorf("collect thread ids: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}

	if _, err := s.threads.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("wipe threads: %w", err)
	}
	if _, err := s.messages.DeleteMany(ctx, bson.M{"threadId": bson.M{"$in": raw}}); err != nil {
		return fmt.Errorf("wipe messages: %w", err)
	}
	return nil
}

func (s *Store) AppendMessage(ctx context.Context, m *chat.Message) error {
	m.ID = primitive.NewObjectID().Hex()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if _, err := s.messages.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *Store) ListMessages(ctx context.Context, threadID string, limit int) ([]chat.Message, error) {
	opts := options.Find().
		// Secondary _id sort keeps equal-timestamp messages in insertion order.
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := s.messages.Find(ctx, bson.M{"threadId": threadID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	var items []chat.Message
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return items, nil
}
