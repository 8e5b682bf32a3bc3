package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpconnect/internal/config"
	"helpconnect/internal/models"
	"helpconnect/internal/repository"
	"helpconnect/internal/session"
)

// memoryDB is a small in-memory stand-in for the SQL store that enforces the
// same unique and foreign key rules.
type memoryDB struct {
	mu       sync.Mutex
	users    []models.User
	requests []models.HelpRequest
	messages []models.Message
}

type memUsers struct{ db *memoryDB }
type memRequests struct{ db *memoryDB }
type memMessages struct{ db *memoryDB }

func (r memUsers) Create(_ context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == user.Username {
			return repository.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	user.ID = int64(len(r.db.users) + 1)
	r.db.users = append(r.db.users, *user)
	return nil
}

func (r memUsers) GetByID(_ context.Context, userID int64) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.ID == userID {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %d: %w", userID, repository.ErrNotFound)
}

func (r memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUsers) SetOnline(_ context.Context, userID int64, online bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.users {
		if r.db.users[i].ID == userID {
			r.db.users[i].IsOnline = online
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r memUsers) UpdatePassword(_ context.Context, userID int64, hash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.users {
		if r.db.users[i].ID == userID {
			r.db.users[i].PasswordHash = hash
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r memRequests) Create(_ context.Context, request *models.HelpRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if int(request.AuthorID) > len(r.db.users) || request.AuthorID <= 0 {
		return repository.ErrForeignKey
	}
	request.ID = int64(len(r.db.requests) + 1)
	r.db.requests = append(r.db.requests, *request)
	return nil
}

func (r memRequests) GetByID(_ context.Context, requestID int64) (*models.HelpRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, hr := range r.db.requests {
		if hr.ID == requestID {
			return &hr, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memRequests) List(_ context.Context, filter models.HelpRequestFilter) ([]models.HelpRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.HelpRequest{}
	for _, hr := range r.db.requests {
		if filter.Category != "" && hr.Category != filter.Category {
			continue
		}
		if filter.Status != "" && hr.Status != filter.Status {
			continue
		}
		out = append(out, hr)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r memRequests) ListRecent(ctx context.Context, limit int) ([]models.HelpRequest, error) {
	all, _ := r.List(ctx, models.HelpRequestFilter{})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r memRequests) UpdateStatus(context.Context, int64, string, time.Time) error {
	return nil
}

func (r memMessages) Create(_ context.Context, message *models.Message) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	message.ID = int64(len(r.db.messages) + 1)
	r.db.messages = append(r.db.messages, *message)
	return nil
}

func (r memMessages) GetByID(_ context.Context, messageID int64) (*models.Message, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, m := range r.db.messages {
		if m.ID == messageID {
			return &m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memMessages) ListByHelpRequest(_ context.Context, requestID int64) ([]models.Message, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Message{}
	for _, m := range r.db.messages {
		if m.HelpRequestID.Valid && m.HelpRequestID.Int64 == requestID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r memMessages) MarkRead(_ context.Context, messageID, receiverID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.messages {
		if r.db.messages[i].ID == messageID && r.db.messages[i].ReceiverID == receiverID {
			r.db.messages[i].IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func newScenarioServices(t *testing.T) (*Service, *memoryDB) {
	t.Helper()
	db := &memoryDB{}
	repo := &repository.Repository{
		User:        memUsers{db},
		HelpRequest: memRequests{db},
		Message:     memMessages{db},
	}
	tx := &mockTx{repo: repo}
	cfg := &config.Config{Session: config.Session{TTL: time.Hour}, MaxUploadSize: 1024}
	validate := NewValidator()

	svc := &Service{
		Auth:        NewAuthService(repo.User, session.NewMemoryStore(time.Hour), session.NewTokenCodec("scenario"), validate, cfg),
		HelpRequest: NewHelpRequestService(repo.HelpRequest, nil, nil, validate, cfg),
		Message:     NewMessageService(repo.Message, tx, validate),
	}
	return svc, db
}

func TestScenario_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, db := newScenarioServices(t)

	_, err := svc.Auth.Register(ctx, RegisterInput{
		Username: "alice", Email: "a@x.com", Password: "pw1", ConfirmPassword: "pw1", UserType: "disabled",
	})
	require.NoError(t, err)

	user, sess, err := svc.Auth.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.True(t, user.IsOnline)
	assert.True(t, db.users[0].IsOnline)

	current, err := svc.Auth.CurrentUser(ctx, sess.Token)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "alice", current.Username)

	require.NoError(t, svc.Auth.Logout(ctx, sess.Token))
	assert.False(t, db.users[0].IsOnline)

	current, err = svc.Auth.CurrentUser(ctx, sess.Token)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestScenario_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc, db := newScenarioServices(t)

	_, err := svc.Auth.Register(ctx, RegisterInput{
		Username: "bob", Email: "b@x.com", Password: "pw", ConfirmPassword: "pw", UserType: "volunteer",
	})
	require.NoError(t, err)

	_, err = svc.Auth.Register(ctx, RegisterInput{
		Username: "bob", Email: "other@x.com", Password: "pw", ConfirmPassword: "pw", UserType: "volunteer",
	})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Auth.Register(ctx, RegisterInput{
		Username: "robert", Email: "b@x.com", Password: "pw", ConfirmPassword: "pw",
	})
	assert.ErrorIs(t, err, ErrConflict)

	assert.Len(t, db.users, 1)
}

func TestScenario_CategoryFilter(t *testing.T) {
	ctx := context.Background()
	svc, _ := newScenarioServices(t)

	alice, err := svc.Auth.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "pw1", ConfirmPassword: "pw1"})
	require.NoError(t, err)

	hr := svc.HelpRequest.(*helpRequestService)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	hr.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	older, err := svc.HelpRequest.CreateHelpRequest(ctx, CreateHelpRequestInput{
		AuthorID: alice.ID, Title: "Need reading help", Description: "text", Category: "visual",
	})
	require.NoError(t, err)
	_, err = svc.HelpRequest.CreateHelpRequest(ctx, CreateHelpRequestInput{
		AuthorID: alice.ID, Title: "Sign language", Description: "call", Category: "hearing",
	})
	require.NoError(t, err)
	newer, err := svc.HelpRequest.CreateHelpRequest(ctx, CreateHelpRequestInput{
		AuthorID: alice.ID, Title: "Menu", Description: "read menu", Category: "visual",
	})
	require.NoError(t, err)

	visual, err := svc.HelpRequest.ListHelpRequests(ctx, models.HelpRequestFilter{Category: "visual"})
	require.NoError(t, err)
	require.Len(t, visual, 2)
	assert.Equal(t, newer.ID, visual[0].ID)
	assert.Equal(t, older.ID, visual[1].ID)

	hearing, err := svc.HelpRequest.ListHelpRequests(ctx, models.HelpRequestFilter{Category: "hearing"})
	require.NoError(t, err)
	require.Len(t, hearing, 1)
	assert.NotEqual(t, older.ID, hearing[0].ID)

	all, err := svc.HelpRequest.ListHelpRequests(ctx, models.HelpRequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt))
	}

	first, err := svc.HelpRequest.GetHelpRequest(ctx, older.ID)
	require.NoError(t, err)
	second, err := svc.HelpRequest.GetHelpRequest(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = svc.HelpRequest.CreateHelpRequest(ctx, CreateHelpRequestInput{
		AuthorID: 42, Title: "t", Description: "d", Category: "other",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScenario_MessageThread(t *testing.T) {
	ctx := context.Background()
	svc, _ := newScenarioServices(t)

	alice, err := svc.Auth.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "pw1", ConfirmPassword: "pw1"})
	require.NoError(t, err)
	bob, err := svc.Auth.Register(ctx, RegisterInput{Username: "bob", Email: "b@x.com", Password: "pw", ConfirmPassword: "pw", UserType: "volunteer"})
	require.NoError(t, err)

	request, err := svc.HelpRequest.CreateHelpRequest(ctx, CreateHelpRequestInput{
		AuthorID: alice.ID, Title: "Need reading help", Description: "text", Category: "visual",
	})
	require.NoError(t, err)

	sent, err := svc.Message.SendMessage(ctx, SendMessageInput{
		SenderID: alice.ID, ReceiverID: bob.ID, Content: "hello", HelpRequestID: &request.ID,
	})
	require.NoError(t, err)

	thread, err := svc.Message.ListThread(ctx, request.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, sent.ID, thread[0].ID)
	assert.Equal(t, "hello", thread[0].Content)
	assert.False(t, thread[0].IsRead)

	assert.ErrorIs(t, svc.Message.MarkRead(ctx, sent.ID, alice.ID), ErrForbidden)
	require.NoError(t, svc.Message.MarkRead(ctx, sent.ID, bob.ID))

	thread, err = svc.Message.ListThread(ctx, request.ID)
	require.NoError(t, err)
	assert.True(t, thread[0].IsRead)
}
