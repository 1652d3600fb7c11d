package http

import (
	"context"
	"strings"
	"sync"
	"time"

	"prolits/internal/domain/entity"
	domainerrors "prolits/internal/domain/errors"
	"prolits/internal/domain/repository"
	"prolits/internal/domain/service"

	"github.com/pkg/errors"
)

// memUserRepo is an in-memory repository.UserRepository with the same conflict rules as the postgres one.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func clone(u *entity.User) *entity.User {
	c := *u

	return &c
}

func (r *memUserRepo) byEmail(email string) *entity.User {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}

	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return clone(u), nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.byEmail(email)
	if u == nil {
		return nil, repository.ErrUserNotFound
	}

	return clone(u), nil
}

func (r *memUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok || r.byEmail(user.Email) != nil {
		return errors.WithStack(domainerrors.ErrUserAlreadyExists)
	}

	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.users[user.ID] = clone(user)

	return nil
}

func (r *memUserRepo) UpsertOAuth(_ context.Context, user *entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if other := r.byEmail(user.Email); other != nil && other.ID != user.ID {
		return nil, errors.WithStack(domainerrors.ErrUserAlreadyExists)
	}

	now := time.Now()
	stored, ok := r.users[user.ID]
	if !ok {
		stored = clone(user)
		stored.CreatedAt = now
		r.users[user.ID] = stored
	}
	stored.Email = user.Email
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.ProfileImageURL = user.ProfileImageURL
	stored.UpdatedAt = now

	return clone(stored), nil
}

func (r *memUserRepo) SetResetToken(_ context.Context, userID, token string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.ResetToken, u.ResetTokenExpiry = &token, &expiry

	return nil
}

func (r *memUserRepo) FindByResetToken(_ context.Context, token string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ResetToken != nil && *u.ResetToken == token {
			return clone(u), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) ClearResetToken(_ context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[userID]; ok && u.ResetToken != nil && *u.ResetToken == token {
		u.ResetToken, u.ResetTokenExpiry = nil, nil
	}

	return nil
}

// expireResetTokens moves every stored reset expiry to before now.
func (r *memUserRepo) expireResetTokens(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	past := now.Add(-time.Minute)
	for _, u := range r.users {
		if u.ResetToken != nil {
			u.ResetTokenExpiry = &past
		}
	}
}

func (r *memUserRepo) ConsumeResetToken(_ context.Context, token, passwordHash string, now time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ResetToken != nil && *u.ResetToken == token && u.HasLiveResetToken(now) {
			u.PasswordHash = &passwordHash
			u.ResetToken, u.ResetTokenExpiry = nil, nil

			return u.ID, nil
		}
	}

	return "", repository.ErrResetTokenNotConsumed
}

// captureNotifier records every reset message instead of delivering it.
type captureNotifier struct {
	mu       sync.Mutex
	messages []*service.PasswordResetMessage
}

func (n *captureNotifier) SendPasswordReset(_ context.Context, msg *service.PasswordResetMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.messages = append(n.messages, msg)

	return nil
}

func (n *captureNotifier) Close() error { return nil }

func (n *captureNotifier) sent() []*service.PasswordResetMessage {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]*service.PasswordResetMessage(nil), n.messages...)
}

// fakeProvider accepts the code "good-code" and asserts a fixed profile.
type fakeProvider struct {
	name    entity.AuthProvider
	subject string
	email   string
}

func (p *fakeProvider) Provider() entity.AuthProvider { return p.name }

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://idp.example/authorize?state=" + state
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (*entity.OAuthProfile, error) {
	if code != "good-code" {
		return nil, errors.New("invalid_grant")
	}

	return &entity.OAuthProfile{
		Provider:  p.name,
		Subject:   p.subject,
		Email:     p.email,
		FirstName: "Grace",
		LastName:  "Hopper",
	}, nil
}
