package impl

import (
	"context"
	"strings"
	"testing"

	"prolits/internal/domain/entity"
	domainerrors "prolits/internal/domain/errors"
	"prolits/internal/domain/repository"
	"prolits/internal/domain/service"
	mockRepo "prolits/internal/mocks/repository"
	mockSvc "prolits/internal/mocks/service"
	"prolits/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authServiceMocks struct {
	userRepo *mockRepo.MockUserRepository
	hasher   *mockSvc.MockPasswordHasher
	tokens   *mockSvc.MockTokenService
	events   *mockSvc.MockAuthEventRecorder
	google   *mockSvc.MockOAuthProvider
}

func newAuthServiceForTest(t *testing.T) (usecase.AuthUsecase, *authServiceMocks) {
	t.Helper()

	m := &authServiceMocks{
		userRepo: mockRepo.NewMockUserRepository(t),
		hasher:   mockSvc.NewMockPasswordHasher(t),
		tokens:   mockSvc.NewMockTokenService(t),
		events:   mockSvc.NewMockAuthEventRecorder(t),
		google:   mockSvc.NewMockOAuthProvider(t),
	}
	m.google.EXPECT().Provider().Return(entity.AuthProviderGoogle)

	srv := NewAuthService(AuthServiceParams{
		UserRepo:     m.userRepo,
		Hasher:       m.hasher,
		TokenService: m.tokens,
		Providers:    service.NewOAuthProviders(m.google, nil),
		Events:       m.events,
		Config:       newTestConfig(),
		Logger:       newDiscardLogger(),
	})

	return srv, m
}

func TestAuthService_Register_Success(t *testing.T) {
	srv, m := newAuthServiceForTest(t)
	ctx := context.Background()

	m.userRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(nil, repository.ErrUserNotFound)
	m.hasher.EXPECT().Hash("password123").Return("hashed", nil)
	m.userRepo.EXPECT().
		Create(ctx, mock.MatchedBy(func(u *entity.User) bool {
			return u.Email == "alice@example.com" &&
				u.AuthProvider == entity.AuthProviderManual &&
				u.Role == entity.RoleTenant &&
				u.PasswordHash != nil && *u.PasswordHash == "hashed" &&
				u.ID != ""
		})).
		Return(nil)
	m.tokens.EXPECT().
		Issue(mock.MatchedBy(func(id entity.Identity) bool {
			return id.Email == "alice@example.com" && id.Role == entity.RoleTenant
		})).
		Return("signed-token", nil)
	m.events.EXPECT().RecordAuthEvent(service.AuthEventRegister, service.AuthOutcomeSuccess).Return()

	out, err := srv.Register(ctx, &usecase.RegisterInput{
		Email:     "  alice@example.com ",
		Password:  "password123",
		FirstName: "Alice",
	})

	require.NoError(t, err)
	assert.Equal(t, "signed-token", out.Token)
	assert.Equal(t, "alice@example.com", out.User.Email)
	assert.Equal(t, "Alice", out.User.FirstName)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	srv, m := newAuthServiceForTest(t)
	ctx := context.Background()

	m.userRepo.EXPECT().FindByEmail(ctx, "alice@example.com").
		Return(newManualUser("u-1", "Alice@Example.com", "hash"), nil)
	m.events.EXPECT().RecordAuthEvent(service.AuthEventRegister, service.AuthOutcomeFailure).Return()

	_, err := srv.Register(ctx, &usecase.RegisterInput{Email: "alice@example.com", Password: "password123"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestAuthService_Register_ShortPasswordTouchesNothing(t *testing.T) {
	srv, m := newAuthServiceForTest(t)
	m.events.EXPECT().RecordAuthEvent(service.AuthEventRegister, service.AuthOutcomeFailure).Return()

	_, err := srv.Register(context.Background(), &usecase.RegisterInput{Email: "alice@example.com", Password: "short"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	m.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_OverlongPasswordRejected(t *testing.T) {
	srv, m := newAuthServiceForTest(t)
	m.events.EXPECT().RecordAuthEvent(service.AuthEventRegister, service.AuthOutcomeFailure).Return()

	_, err := srv.Register(context.Background(), &usecase.RegisterInput{
		Email:    "alice@example.com",
		Password: strings.Repeat("a", 80),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	m.hasher.AssertNotCalled(t, "Hash", mock.Anything)
	m.userRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestValidatePassword_Bounds(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "too short", password: "short", wantErr: true},
		{name: "minimum", password: "12345678"},
		{name: "exactly 72 bytes", password: strings.Repeat("a", 72)},
		{name: "73 bytes", password: strings.Repeat("a", 73), wantErr: true},
		// 30 runes but 90 bytes
		{name: "multibyte over byte cap", password: strings.Repeat("密", 30), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePassword(tt.password, 8)
			if tt.wantErr {
				assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthService_Register_CreateRaceSurfacesConflict(t *testing.T) {
	srv, m := newAuthServiceForTest(t)
	ctx := context.Background()

	m.userRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(nil, repository.ErrUserNotFound)
	m.hasher.EXPECT().Hash("password123").Return("hashed", nil)
	m.userRepo.EXPECT().Create(ctx, mock.Anything).Return(errors.WithStack(domainerrors.ErrUserAlreadyExists))
	m.events.EXPECT().RecordAuthEvent(service.AuthEventRegister, service.AuthOutcomeFailure).Return()

	_, err := srv.Register(ctx, &usecase.RegisterInput{Email: "alice@example.com", Password: "password123"})

	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestAuthService_Login_Success(t *testing.T) {
	srv, m := newAuthServiceForTest(t)
	ctx := context.Background()
	user := newManualUser("u-1", "alice@example.com", "hash")

	m.userRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(user, nil)
	m.hasher.EXPECT().Check("password123", "hash").Return(true)
	m.tokens.EXPECT().Issue(user.Identity()).Return("signed-token", nil)
	m.events.EXPECT().RecordAuthEvent(service.AuthEventLogin, service.AuthOutcomeSuccess).Return()

	out, err := srv.Login(ctx, &usecase.LoginInput{Email: "alice@example.com", Password: "password123"})

	require.NoError(t, err)
	assert.Equal(t, "signed-token", out.Token)
	assert.Equal(t, "u-1", out.User.ID)
}

func TestAuthService_Login_Failures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m *authServiceMocks)
	}{
		{
			name: "unknown email",
			setup: func(m *authServiceMocks) {
				m.userRepo.EXPECT().FindByEmail(mock.Anything, "alice@example.com").Return(nil, repository.ErrUserNotFound)
			},
		},
		{
			name: "wrong password",
			setup: func(m *authServiceMocks) {
				m.userRepo.EXPECT().FindByEmail(mock.Anything, "alice@example.com").
					Return(newManualUser("u-1", "alice@example.com", "hash"), nil)
				m.hasher.EXPECT().Check("password123", "hash").Return(false)
			},
		},
		{
			name: "oauth account",
			setup: func(m *authServiceMocks) {
				m.userRepo.EXPECT().FindByEmail(mock.Anything, "alice@example.com").
					Return(&entity.User{ID: "google_1", Email: "alice@example.com", AuthProvider: entity.AuthProviderGoogle}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, m := newAuthServiceForTest(t)
			tt.setup(m)
			m.events.EXPECT().RecordAuthEvent(service.AuthEventLogin, service.AuthOutcomeFailure).Return()

			_, err := srv.Login(context.Background(), &usecase.LoginInput{Email: "alice@example.com", Password: "password123"})

			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
		})
	}
}

func TestAuthService_CurrentUser_NotFound(t *testing.T) {
	srv, m := newAuthServiceForTest(t)
	ctx := context.Background()

	m.userRepo.EXPECT().FindByID(ctx, "gone").Return(nil, repository.ErrUserNotFound)

	_, err := srv.CurrentUser(ctx, "gone")

	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestAuthService_OAuthAuthorizeURL(t *testing.T) {
	srv, m := newAuthServiceForTest(t)
	m.google.EXPECT().AuthCodeURL("state-1").Return("https://accounts.example/auth?state=state-1")

	url, err := srv.OAuthAuthorizeURL("google", "state-1")
	require.NoError(t, err)
	assert.Equal(t, "https://accounts.example/auth?state=state-1", url)

	_, err = srv.OAuthAuthorizeURL("microsoft", "state-1")
	assert.True(t, errors.Is(err, domainerrors.ErrOAuthProviderNotFound))
}

func TestAuthService_OAuthLogin_Success(t *testing.T) {
	srv, m := newAuthServiceForTest(t)
	ctx := context.Background()
	profile := &entity.OAuthProfile{
		Provider:        entity.AuthProviderGoogle,
		Subject:         "1234",
		Email:           "alice@example.com",
		FirstName:       "Alice",
		LastName:        "Smith",
		ProfileImageURL: "https://img.example/alice.png",
	}
	stored := &entity.User{
		ID:           "google_1234",
		Email:        "alice@example.com",
		FirstName:    "Alice",
		LastName:     "Smith",
		AuthProvider: entity.AuthProviderGoogle,
		Role:         entity.RoleOwner,
	}

	m.google.EXPECT().Exchange(ctx, "code-1").Return(profile, nil)
	m.userRepo.EXPECT().
		UpsertOAuth(ctx, mock.MatchedBy(func(u *entity.User) bool {
			return u.ID == "google_1234" &&
				u.AuthProvider == entity.AuthProviderGoogle &&
				u.PasswordHash == nil &&
				u.ProfileImageURL == profile.ProfileImageURL
		})).
		Return(stored, nil)
	m.tokens.EXPECT().Issue(stored.Identity()).Return("signed-token", nil)
	m.events.EXPECT().RecordAuthEvent(service.AuthEventOAuthLogin, service.AuthOutcomeSuccess).Return()

	out, err := srv.OAuthLogin(ctx, &usecase.OAuthLoginInput{Provider: "google", Code: "code-1"})

	require.NoError(t, err)
	assert.Equal(t, "signed-token", out.Token)
	assert.Equal(t, entity.RoleOwner, out.User.Role)
}

func TestAuthService_OAuthLogin_MissingEmailCreatesNothing(t *testing.T) {
	srv, m := newAuthServiceForTest(t)
	ctx := context.Background()

	m.google.EXPECT().Exchange(ctx, "code-1").
		Return(&entity.OAuthProfile{Provider: entity.AuthProviderGoogle, Subject: "1234"}, nil)
	m.events.EXPECT().RecordAuthEvent(service.AuthEventOAuthLogin, service.AuthOutcomeFailure).Return()

	_, err := srv.OAuthLogin(ctx, &usecase.OAuthLoginInput{Provider: "google", Code: "code-1"})

	assert.True(t, errors.Is(err, domainerrors.ErrMissingEmailClaim))
	m.userRepo.AssertNotCalled(t, "UpsertOAuth", mock.Anything, mock.Anything)
}

func TestAuthService_OAuthLogin_UnknownProvider(t *testing.T) {
	srv, m := newAuthServiceForTest(t)
	m.events.EXPECT().RecordAuthEvent(service.AuthEventOAuthLogin, service.AuthOutcomeFailure).Return()

	_, err := srv.OAuthLogin(context.Background(), &usecase.OAuthLoginInput{Provider: "microsoft", Code: "code-1"})

	assert.True(t, errors.Is(err, domainerrors.ErrOAuthProviderNotFound))
}

func TestAuthService_OAuthLogin_ExchangeFailure(t *testing.T) {
	srv, m := newAuthServiceForTest(t)
	ctx := context.Background()

	m.google.EXPECT().Exchange(ctx, "bad").Return(nil, domainerrors.ErrOAuthFailed.WithDetails("invalid_grant"))
	m.events.EXPECT().RecordAuthEvent(service.AuthEventOAuthLogin, service.AuthOutcomeFailure).Return()

	_, err := srv.OAuthLogin(ctx, &usecase.OAuthLoginInput{Provider: "google", Code: "bad"})

	assert.True(t, errors.Is(err, domainerrors.ErrOAuthFailed))
}
