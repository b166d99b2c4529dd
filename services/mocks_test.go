package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/hamboms/kbob-dating-app/models"
	"github.com/hamboms/kbob-dating-app/utils"
)

// In-memory store fakes mirroring the Dynamo key layouts, so service
// tests run without a database.

type memUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]models.User{}}
}

func (m *memUserStore) Create(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.UserID] = *u
	return nil
}

func (m *memUserStore) GetByID(ctx context.Context, userID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (m *memUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memUserStore) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.VerificationToken == token && token != "" {
			u := u
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memUserStore) MarkVerified(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.EmailVerified = true
	u.VerificationToken = ""
	u.TokenExpires = ""
	m.users[userID] = u
	return nil
}

func (m *memUserStore) UpdateProfile(ctx context.Context, userID string, p models.ProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.Name = p.Name
	u.Age = p.Age
	u.Gender = p.Gender
	u.Bio = p.Bio
	u.ProfileImage = p.ProfileImage
	m.users[userID] = u
	return nil
}

func (m *memUserStore) SetBanned(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.IsBanned = true
	m.users[userID] = u
	return nil
}

func (m *memUserStore) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
	return nil
}

func (m *memUserStore) ListEligible(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.users {
		if u.EmailVerified && !u.IsBanned {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

type memInteractionStore struct {
	mu    sync.Mutex
	likes map[string]models.LikeAction
	skips map[string]models.SkipAction
}

func newMemInteractionStore() *memInteractionStore {
	return &memInteractionStore{
		likes: map[string]models.LikeAction{},
		skips: map[string]models.SkipAction{},
	}
}

func pairKey(from, to string) string { return from + "|" + to }

func (m *memInteractionStore) PutLike(ctx context.Context, from, to string, createdAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.likes[pairKey(from, to)] = models.LikeAction{From: from, To: to, CreatedAt: models.FormatTime(createdAt)}
	return nil
}

func (m *memInteractionStore) GetLike(ctx context.Context, from, to string) (*models.LikeAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	like, ok := m.likes[pairKey(from, to)]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &like, nil
}

func (m *memInteractionStore) ListLikesFrom(ctx context.Context, from string) ([]models.LikeAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.LikeAction
	for _, like := range m.likes {
		if like.From == from {
			out = append(out, like)
		}
	}
	sortLikes(out)
	return out, nil
}

func (m *memInteractionStore) ListLikesTo(ctx context.Context, to string) ([]models.LikeAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.LikeAction
	for _, like := range m.likes {
		if like.To == to {
			out = append(out, like)
		}
	}
	sortLikes(out)
	return out, nil
}

func sortLikes(likes []models.LikeAction) {
	sort.Slice(likes, func(i, j int) bool {
		if likes[i].From != likes[j].From {
			return likes[i].From < likes[j].From
		}
		return likes[i].To < likes[j].To
	})
}

func (m *memInteractionStore) DeleteLikePair(ctx context.Context, a, b string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.likes, pairKey(a, b))
	delete(m.likes, pairKey(b, a))
	return nil
}

func (m *memInteractionStore) DeleteExpiredLikesTo(ctx context.Context, to string, cutoff time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, like := range m.likes {
		if like.To == to && !models.ParseTime(like.CreatedAt).After(cutoff) {
			delete(m.likes, key)
		}
	}
	return nil
}

func (m *memInteractionStore) UpsertSkip(ctx context.Context, from, to string, createdAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skips[pairKey(from, to)] = models.SkipAction{From: from, To: to, CreatedAt: models.FormatTime(createdAt)}
	return nil
}

func (m *memInteractionStore) ListSkipsFrom(ctx context.Context, from string) ([]models.SkipAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SkipAction
	for _, skip := range m.skips {
		if skip.From == from {
			out = append(out, skip)
		}
	}
	return out, nil
}

func (m *memInteractionStore) DeleteExpiredSkips(ctx context.Context, from string, cutoff time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, skip := range m.skips {
		if skip.From == from && !models.ParseTime(skip.CreatedAt).After(cutoff) {
			delete(m.skips, key)
		}
	}
	return nil
}

func (m *memInteractionStore) DeleteAllForUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, like := range m.likes {
		if like.From == userID || like.To == userID {
			delete(m.likes, key)
		}
	}
	for key, skip := range m.skips {
		if skip.From == userID || skip.To == userID {
			delete(m.skips, key)
		}
	}
	return nil
}

func (m *memInteractionStore) ListPartners(ctx context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]struct{}{}
	for _, like := range m.likes {
		if like.From == userID {
			seen[like.To] = struct{}{}
		}
		if like.To == userID {
			seen[like.From] = struct{}{}
		}
	}
	var out []string
	for partner := range seen {
		out = append(out, partner)
	}
	sort.Strings(out)
	return out, nil
}

type memMessageStore struct {
	mu    sync.Mutex
	rooms map[string][]models.ChatMessage
}

func newMemMessageStore() *memMessageStore {
	return &memMessageStore{rooms: map[string][]models.ChatMessage{}}
}

func (m *memMessageStore) Put(ctx context.Context, msg *models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[msg.RoomID] = append(m.rooms[msg.RoomID], *msg)
	return nil
}

func (m *memMessageStore) ListByRoom(ctx context.Context, roomID string) ([]models.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.rooms[roomID]
	out := make([]models.ChatMessage, len(msgs))
	copy(out, msgs)
	// Mirror the sort-key ordering of the real table.
	sort.SliceStable(out, func(i, j int) bool { return out[i].MessageID < out[j].MessageID })
	return out, nil
}

func (m *memMessageStore) ListRoomsWithUser(ctx context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for roomID := range m.rooms {
		if len(m.rooms[roomID]) > 0 && utils.IsParticipant(roomID, userID) {
			out = append(out, roomID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memMessageStore) DeleteRoom(ctx context.Context, roomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, roomID)
	return nil
}

type memReportStore struct {
	mu      sync.Mutex
	reports map[string]models.Report
}

func newMemReportStore() *memReportStore {
	return &memReportStore{reports: map[string]models.Report{}}
}

func (m *memReportStore) Put(ctx context.Context, r *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[pairKey(r.ReporterID, r.ReportedID)] = *r
	return nil
}

func (m *memReportStore) Get(ctx context.Context, reporterID, reportedID string) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[pairKey(reporterID, reportedID)]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &r, nil
}

func (m *memReportStore) ListAll(ctx context.Context) ([]models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Report
	for _, r := range m.reports {
		out = append(out, r)
	}
	return out, nil
}

func (m *memReportStore) DeleteAllForUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, r := range m.reports {
		if r.ReporterID == userID || r.ReportedID == userID {
			delete(m.reports, key)
		}
	}
	return nil
}

type memDeletedStore struct {
	mu         sync.Mutex
	tombstones map[string]models.DeletedUser
}

func newMemDeletedStore() *memDeletedStore {
	return &memDeletedStore{tombstones: map[string]models.DeletedUser{}}
}

func (m *memDeletedStore) Put(ctx context.Context, email string, deletedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tombstones[email] = models.DeletedUser{Email: email, DeletedAt: models.FormatTime(deletedAt)}
	return nil
}

func (m *memDeletedStore) Get(ctx context.Context, email string) (*models.DeletedUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tombstones[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &t, nil
}

// mockMailer records sent mails and can be told to fail.
type mockMailer struct {
	mu   sync.Mutex
	sent []string // recipient addresses
	urls []string // verification links, same order
	fail error
}

func (m *mockMailer) SendVerificationEmail(ctx context.Context, email, name, verificationURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, email)
	m.urls = append(m.urls, verificationURL)
	return nil
}

// mockPublisher records broadcast events and can be told to fail.
type mockPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	fail   error
}

type publishedEvent struct {
	RoomID  string
	Event   string
	Payload interface{}
}

func (m *mockPublisher) Publish(ctx context.Context, roomID, event string, payload interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.events = append(m.events, publishedEvent{RoomID: roomID, Event: event, Payload: payload})
	return nil
}

// Shared test helpers.

var errBoom = errors.New("boom")

func seedUser(t interface{ Helper() }, users *memUserStore, id string, verified bool) models.User {
	t.Helper()
	u := models.User{
		UserID:        id,
		Name:          "User " + id,
		Age:           25,
		Gender:        "other",
		Email:         id + "@example.com",
		EmailVerified: verified,
		CreatedAt:     models.FormatTime(time.Now()),
	}
	_ = users.Create(context.Background(), &u)
	return u
}

func mustRoomID(t interface{ Fatalf(string, ...interface{}) }, a, b string) string {
	roomID, err := utils.RoomID(a, b)
	if err != nil {
		t.Fatalf("room id for %s/%s: %v", a, b, err)
	}
	return roomID
}
