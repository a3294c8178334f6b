package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"robeurope-backend/internal/models"
	"robeurope-backend/internal/ws"
)

type fakeSock struct {
	mu   sync.Mutex
	msgs []ws.WSMessage
}

func (f *fakeSock) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, v.(ws.WSMessage))
	return nil
}

func (f *fakeSock) Close() error { return nil }

func (f *fakeSock) byType(msgType string) []ws.WSMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ws.WSMessage
	for _, m := range f.msgs {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

type fakeMessageStore struct {
	mu          sync.Mutex
	nextID      uint
	byID        map[uint]*models.Message
	createCalls int
	createErr   error
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{nextID: 1, byID: make(map[uint]*models.Message)}
}

func (f *fakeMessageStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	msg.ID = f.nextID
	msg.CreatedAt = time.Now()
	f.nextID++
	stored := *msg
	f.byID[msg.ID] = &stored
	return nil
}

func (f *fakeMessageStore) GetMessage(ctx context.Context, id uint) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *msg
	return &copied, nil
}

func (f *fakeMessageStore) ListMessages(ctx context.Context, room ws.RoomKey, limit, offset int) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// newest first, matching the real store's reverse-chronological page
	var out []models.Message
	for id := f.nextID - 1; id >= 1; id-- {
		msg, ok := f.byID[id]
		if !ok || msg.RoomKind != string(room.Kind) || msg.RoomID != room.EntityID {
			continue
		}
		out = append(out, *msg)
	}
	if offset < len(out) {
		out = out[offset:]
	} else {
		out = nil
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeReactionStore struct {
	mu      sync.Mutex
	reacted map[string]bool
}

func newFakeReactionStore() *fakeReactionStore {
	return &fakeReactionStore{reacted: make(map[string]bool)}
}

func (f *fakeReactionStore) ToggleReaction(ctx context.Context, messageID, userID uint, emoji string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%d:%d:%s", messageID, userID, emoji)
	if f.reacted[key] {
		delete(f.reacted, key)
		return false, nil
	}
	f.reacted[key] = true
	return true, nil
}

type fakeAuthz struct {
	allow bool
	err   error
}

func (f *fakeAuthz) IsMember(ctx context.Context, room ws.RoomKey, userID uint) (bool, error) {
	return f.allow, f.err
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[uint][]models.SessionFile
	putCalls int
	// onGet fires once after a read completes, before the value is returned.
	// Used to interleave a competing writer inside a read-modify-write.
	onGet func(teamID uint)
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uint][]models.SessionFile)}
}

func copyFiles(files []models.SessionFile) []models.SessionFile {
	out := make([]models.SessionFile, len(files))
	for i, f := range files {
		out[i] = f
		if f.Content != nil {
			content := *f.Content
			out[i].Content = &content
		}
	}
	return out
}

func (f *fakeSessionStore) GetSession(ctx context.Context, teamID uint) ([]models.SessionFile, error) {
	f.mu.Lock()
	files, ok := f.sessions[teamID]
	var copied []models.SessionFile
	if ok {
		copied = copyFiles(files)
	}
	hook := f.onGet
	f.onGet = nil
	f.mu.Unlock()

	if hook != nil {
		hook(teamID)
	}
	if !ok {
		return nil, nil
	}
	return copied, nil
}

func (f *fakeSessionStore) PutSession(ctx context.Context, teamID uint, files []models.SessionFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls++
	f.sessions[teamID] = copyFiles(files)
	return nil
}

func (f *fakeSessionStore) InitSession(ctx context.Context, teamID uint, defaults []models.SessionFile) ([]models.SessionFile, error) {
	f.mu.Lock()
	if _, ok := f.sessions[teamID]; !ok {
		f.sessions[teamID] = copyFiles(defaults)
	}
	files := copyFiles(f.sessions[teamID])
	f.mu.Unlock()
	return files, nil
}

type pushCall struct {
	sub   models.PushSubscription
	title string
	body  string
}

type fakePushDelivery struct {
	mu    sync.Mutex
	calls []pushCall
	err   error
	done  chan struct{}
}

func newFakePushDelivery() *fakePushDelivery {
	return &fakePushDelivery{done: make(chan struct{}, 16)}
}

func (f *fakePushDelivery) Send(ctx context.Context, sub models.PushSubscription, title, body string) error {
	f.mu.Lock()
	f.calls = append(f.calls, pushCall{sub: sub, title: title, body: body})
	err := f.err
	f.mu.Unlock()
	f.done <- struct{}{}
	return err
}

type fakeSubscriptionStore struct {
	mu   sync.Mutex
	subs map[uint][]models.PushSubscription
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{subs: make(map[uint][]models.PushSubscription)}
}

func (f *fakeSubscriptionStore) Subscriptions(ctx context.Context, userID uint) ([]models.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.PushSubscription(nil), f.subs[userID]...), nil
}

func (f *fakeSubscriptionStore) AddSubscription(ctx context.Context, userID uint, sub models.PushSubscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[userID] = append(f.subs[userID], sub)
	return nil
}

func (f *fakeSubscriptionStore) RemoveSubscription(ctx context.Context, userID uint, endpoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.subs[userID][:0]
	for _, sub := range f.subs[userID] {
		if sub.Endpoint != endpoint {
			kept = append(kept, sub)
		}
	}
	f.subs[userID] = kept
	return nil
}

type fakeNotificationStore struct {
	mu      sync.Mutex
	created []*models.Notification
}

func (f *fakeNotificationStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = uint(len(f.created) + 1)
	f.created = append(f.created, n)
	return nil
}

type fakeCompetitionStore struct {
	comps map[uint]models.Competition
	regs  map[uint][]uint
}

func (f *fakeCompetitionStore) UpcomingCompetitions(ctx context.Context, within time.Duration) ([]models.Competition, error) {
	var out []models.Competition
	for _, c := range f.comps {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCompetitionStore) RegisteredUserIDs(ctx context.Context, competitionID uint) ([]uint, error) {
	return f.regs[competitionID], nil
}

type fakeDedupStore struct {
	mu      sync.Mutex
	claimed map[string]bool
}

func newFakeDedupStore() *fakeDedupStore {
	return &fakeDedupStore{claimed: make(map[string]bool)}
}

func (f *fakeDedupStore) ClaimKey(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimed[key] {
		return false, nil
	}
	f.claimed[key] = true
	return true, nil
}
