// Package chat implements the send-message pipeline and the thread
// read/list/delete use cases on top of the store and the catalog.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/cinechat/backend/internal/model/chat"
	"github.com/cinechat/backend/internal/service/catalog"
	"github.com/cinechat/backend/internal/store"
)

// ErrTextRequired rejects a send with an empty query.
var ErrTextRequired = errors.New("text is required")

// Lookup resolves a free-text query against the external catalog.
// *catalog.Resolver satisfies it; tests substitute fakes.
type Lookup interface {
	Resolve(ctx context.Context, query string) (*catalog.Result, error)
}

// Service composes the conversation store and the catalog lookup.
type Service struct {
	store  store.Store
	lookup Lookup
}

// NewService wires the service dependencies.
func NewService(st store.Store, lookup Lookup) *Service {
	return &Service{store: st, lookup: lookup}
}

// SendInput carries one send-message request.
type SendInput struct {
	UserID   string
	Text     string
	ThreadID string // resume an existing thread when set
	Title    string // optional title for a new thread
}

// SendResult is the outcome of a send: the thread (Created reports
// whether it was created by this call) and the persisted message pair.
type SendResult struct {
	Thread  *chat.Thread
	UserMsg *chat.Message
	BotMsg  *chat.Message
	Created bool
}

// Send runs the full pipeline: resolve or create the thread, persist the
// user message, look the query up, persist the paired bot reply and bump
// the thread's activity marker. A failed lookup never aborts the send;
// the failure is rendered into the bot reply instead.
func (s *Service) Send(ctx context.Context, in SendInput) (*SendResult, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrTextRequired
	}

	th, created, err := s.resolveThread(ctx, in)
	if err != nil {
		return nil, err
	}

	userMsg := &chat.Message{ThreadID: th.ID, Role: chat.RoleUser, Text: text}
	if err := s.store.AppendMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	res, err := s.lookup.Resolve(ctx, text)
	if err != nil {
		if errors.Is(err, catalog.ErrBadAPIKey) {
			log.Printf("[chat] catalog credential rejected: %v", err)
		} else {
			log.Printf("[chat] catalog lookup failed: %v", err)
		}
		res = &catalog.Result{Response: "False", Error: err.Error()}
	}

	botMsg := &chat.Message{
		ThreadID: th.ID,
		Role:     chat.RoleBot,
		Text:     catalog.FormatReply(res, text),
		Lookup:   payloadFrom(res),
	}
	if err := s.store.AppendMessage(ctx, botMsg); err != nil {
		return nil, fmt.Errorf("persist bot message: %w", err)
	}

	if err := s.store.TouchThread(ctx, th.ID); err != nil {
		return nil, fmt.Errorf("touch thread: %w", err)
	}

	return &SendResult{Thread: th, UserMsg: userMsg, BotMsg: botMsg, Created: created}, nil
}

// resolveThread reuses the caller's thread when an id is supplied (it must
// be owned by them) or creates a new one, auto-naming it when the supplied
// title is absent or collides with an existing thread of theirs.
func (s *Service) resolveThread(ctx context.Context, in SendInput) (*chat.Thread, bool, error) {
	if in.ThreadID != "" {
		th, err := s.store.FindThread(ctx, in.ThreadID, in.UserID)
		if err != nil {
			return nil, false, err
		}
		return th, false, nil
	}

	title := strings.TrimSpace(in.Title)
	if title != "" {
		taken, err := s.titleTaken(ctx, in.UserID, title)
		if err != nil {
			return nil, false, err
		}
		if taken {
			title = ""
		}
	}
	if title == "" {
		var err error
		title, err = s.NextTitle(ctx, in.UserID)
		if err != nil {
			return nil, false, err
		}
	}

	th, err := s.store.CreateThread(ctx, in.UserID, title)
	if errors.Is(err, store.ErrDuplicate) {
		// Lost a create race on the unique (userId, title) index:
		// recompute the name and retry once.
		title, err = s.NextTitle(ctx, in.UserID)
		if err != nil {
			return nil, false, err
		}
		th, err = s.store.CreateThread(ctx, in.UserID, title)
	}
	if err != nil {
		return nil, false, err
	}
	return th, true, nil
}

func (s *Service) titleTaken(ctx context.Context, userID, title string) (bool, error) {
	titles, err := s.store.ThreadTitles(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, t := range titles {
		if t == title {
			return true, nil
		}
	}
	return false, nil
}

var defaultTitleRe = regexp.MustCompile(`(?i)^chat\s+(\d+)$`)

// NextTitle computes the lowest free "Chat n" for the user, matching
// existing default titles case-insensitively.
func (s *Service) NextTitle(ctx context.Context, userID string) (string, error) {
	titles, err := s.store.ThreadTitles(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("scan thread titles: %w", err)
	}

	used := make(map[int]bool, len(titles))
	for _, t := range titles {
		if m := defaultTitleRe.FindStringSubmatch(t); m != nil {
			var n int
			if _, err := fmt.Sscanf(m[1], "%d", &n); err == nil && n > 0 {
				used[n] = true
			}
		}
	}

	n := 1
	for used[n] {
		n++
	}
	return fmt.Sprintf("Chat %d", n), nil
}

// History returns a thread owned by userID together with up to limit of
// its earliest messages, oldest first. The limit is clamped to [1,200];
// values <= 0 fall back to 100.
func (s *Service) History(ctx context.Context, threadID, userID string, limit int) (*chat.Thread, []chat.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 200 {
		limit = 200
	}

	th, err := s.store.FindThread(ctx, threadID, userID)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.store.ListMessages(ctx, th.ID, limit)
	if err != nil {
		return nil, nil, err
	}
	return th, msgs, nil
}

// ListThreads returns the user's threads, most recently active first.
func (s *Service) ListThreads(ctx context.Context, userID string) ([]chat.Thread, error) {
	return s.store.ListThreads(ctx, userID)
}

// DeleteThread removes a thread owned by userID and all its messages.
func (s *Service) DeleteThread(ctx context.Context, threadID, userID string) (*chat.Thread, error) {
	th, err := s.store.FindThread(ctx, threadID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteThread(ctx, th.ID); err != nil {
		return nil, err
	}
	return th, nil
}

// Wipe removes every thread and message owned by userID.
func (s *Service) Wipe(ctx context.Context, userID string) error {
	return s.store.WipeThreads(ctx, userID)
}

// payloadFrom condenses a catalog result into the stored lookup record.
func payloadFrom(res *catalog.Result) *chat.LookupPayload {
	if res == nil {
		return nil
	}
	if res.Failed() {
		reason := res.Error
		if reason == "" {
			reason = "Not found"
		}
		return &chat.LookupPayload{Reason: reason}
	}
	return &chat.LookupPayload{
		Found:      true,
		Title:      res.Title,
		Year:       res.Year,
		MediaType:  res.Type,
		IMDBRating: res.IMDBRating,
	}
}
