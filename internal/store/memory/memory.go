// Package memory provides a mutex-guarded in-memory store used by tests.
// It enforces the same uniqueness rules as the MongoDB adapter.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cinechat/backend/internal/model/chat"
	"github.com/cinechat/backend/internal/model/user"
	"github.com/cinechat/backend/internal/store"
)

// Store keeps everything in maps keyed by id. Message slices preserve
// insertion order, which is the tie-break for equal timestamps.
type Store struct {
	mu       sync.RWMutex
	users    map[string]user.User
	threads  map[string]chat.Thread
	messages map[string][]chat.Message
	userSeq  []string
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		users:    make(map[string]user.User),
		threads:  make(map[string]chat.Thread),
		messages: make(map[string][]chat.Message),
	}
}

func (s *Store) CreateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return store.ErrDuplicate
		}
	}

	u.ID = uuid.NewString()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	s.users[u.ID] = *u
	s.userSeq = append(s.userSeq, u.ID)
	return nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListUsers(_ context.Context, page, limit int) ([]user.Listing, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]user.User, 0, len(s.userSeq))
	for _, id := range s.userSeq {
		all = append(all, s.users[id])
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	items := make([]user.Listing, 0, end-start)
	for _, u := range all[start:end] {
		items = append(items, user.Listing{Email: u.Email, CreatedAt: u.CreatedAt})
	}
	return items, int64(len(all)), nil
}

func (s *Store) CreateThread(_ context.Context, userID, title string) (*chat.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, th := range s.threads {
		if th.UserID == userID && th.Title == title {
			return nil, store.ErrDuplicate
		}
	}

	now := time.Now().UTC()
	th := chat.Thread{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.threads[th.ID] = th
	s.messages[th.ID] = make([]chat.Message, 0, 8)
	copied := th
	return &copied, nil
}

func (s *Store) FindThread(_ context.Context, threadID, userID string) (*chat.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	th, ok := s.threads[threadID]
	if !ok || th.UserID != userID {
		return nil, store.ErrNotFound
	}
	copied := th
	return &copied, nil
}

func (s *Store) ListThreads(_ context.Context, userID string) ([]chat.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]chat.Thread, 0)
	for _, th := range s.threads {
		if th.UserID == userID {
			items = append(items, th)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})
	return items, nil
}

func (s *Store) ThreadTitles(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	titles := make([]string, 0)
	for _, th := range s.threads {
		if th.UserID == userID {
			titles = append(titles, th.Title)
		}
	}
	return titles, nil
}

func (s *Store) TouchThread(_ context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	th, ok := s.threads[threadID]
	if !ok {
		return store.ErrNotFound
	}
	th.UpdatedAt = time.Now().UTC()
	s.threads[threadID] = th
	return nil
}

func (s *Store) DeleteThread(_ context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.threads, threadID)
	delete(s.messages, threadID)
	return nil
}

func (s *Store) WipeThreads(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, th := range s.threads {
		if th.UserID == userID {
			delete(s.threads, id)
			delete(s.messages, id)
		}
	}
	return nil
}

func (s *Store) AppendMessage(_ context.Context, m *chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.threads[m.ThreadID]; !ok {
		return store.ErrNotFound
	}

	m.ID = uuid.NewString()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	s.messages[m.ThreadID] = append(s.messages[m.ThreadID], *m)
	return nil
}

func (s *Store) ListMessages(_ context.Context, threadID string, limit int) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[threadID]
	if limit > len(msgs) {
		limit = len(msgs)
	}
	copied := make([]chat.Message, limit)
	copy(copied, msgs[:limit])
	return copied, nil
}
