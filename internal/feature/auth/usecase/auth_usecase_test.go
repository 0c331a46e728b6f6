package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/platform/hasher"
	"recipe_backend/internal/shared/apperror"
)

// mockUserRepository is a mock implementation of the UserRepository interface.
type mockUserRepository struct {
	CreateFunc            func(ctx context.Context, user *entity.User) error
	FindByUsernameFunc    func(ctx context.Context, username string) (*entity.User, error)
	FindByIDFunc          func(ctx context.Context, id uint) (*entity.User, error)
	DeleteWithRecipesFunc func(ctx context.Context, id uint) (int64, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = 1
	return nil // Default: success
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) DeleteWithRecipes(ctx context.Context, id uint) (int64, error) {
	if m.DeleteWithRecipesFunc != nil {
		return m.DeleteWithRecipesFunc(ctx, id)
	}
	return 0, nil
}

// mockSessionRepository is a mock implementation of the SessionRepository interface.
type mockSessionRepository struct {
	DeleteByUserIDFunc func(ctx context.Context, userID uint) error
}

func (m *mockSessionRepository) Create(ctx context.Context, s *entity.Session) error { return nil }

func (m *mockSessionRepository) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	return nil, ErrSessionNotFound
}

func (m *mockSessionRepository) Delete(ctx context.Context, id string) error { return nil }

func (m *mockSessionRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	if m.DeleteByUserIDFunc != nil {
		return m.DeleteByUserIDFunc(ctx, userID)
	}
	return nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) { return 0, nil }

// fakeSession is an in-memory Session slot.
type fakeSession struct {
	userID       uint
	loggedIn     bool
	establishErr error
	clearErr     error
	established  int
	cleared      int
}

func (s *fakeSession) Establish(ctx context.Context, userID uint) error {
	s.established++
	if s.establishErr != nil {
		return s.establishErr
	}
	s.userID, s.loggedIn = userID, true
	return nil
}

func (s *fakeSession) Clear(ctx context.Context) error {
	s.cleared++
	s.userID, s.loggedIn = 0, false
	return s.clearErr
}

func (s *fakeSession) CurrentUserID(ctx context.Context) (uint, bool) {
	return s.userID, s.loggedIn
}

// countingHasher records how often Verify runs.
type countingHasher struct {
	*hasher.Bcrypt
	verifies int
}

func (h *countingHasher) Verify(plaintext, digest string) bool {
	h.verifies++
	return h.Bcrypt.Verify(plaintext, digest)
}

func newHasher() *countingHasher {
	return &countingHasher{Bcrypt: hasher.NewBcrypt(bcrypt.MinCost)}
}

func requireAppError(t *testing.T, err error, wantType apperror.ErrorType, wantMsg string) {
	t.Helper()

	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected *apperror.AppError, got %T: %v", err, err)
	assert.Equal(t, wantType, appErr.Type)
	assert.Equal(t, wantMsg, appErr.Message)
}

func TestAuthUsecase_Signup(t *testing.T) {
	t.Parallel()

	bio := "Loves pasta"

	tests := []struct {
		name       string
		input      SignupInput
		createFunc func(ctx context.Context, user *entity.User) error
		estErr     error
		wantType   apperror.ErrorType
		wantMsg    string
	}{
		{
			name:  "success",
			input: SignupInput{Username: "alice", Password: "secret", Bio: &bio},
		},
		{
			name:     "failure: missing username",
			input:    SignupInput{Password: "secret"},
			wantType: apperror.ValidationError,
			wantMsg:  "Username is required.",
		},
		{
			name:     "failure: missing password",
			input:    SignupInput{Username: "alice"},
			wantType: apperror.ValidationError,
			wantMsg:  "Password is required.",
		},
		{
			name:     "failure: username too long",
			input:    SignupInput{Username: strings.Repeat("a", 81), Password: "secret"},
			wantType: apperror.ValidationError,
			wantMsg:  "Username must be at most 80 characters long.",
		},
		{
			name:     "failure: password over 72 bytes",
			input:    SignupInput{Username: "alice", Password: strings.Repeat("p", 73)},
			wantType: apperror.ValidationError,
			wantMsg:  "Password must be at most 72 bytes long.",
		},
		{
			name:  "success: password of exactly 72 bytes",
			input: SignupInput{Username: "alice", Password: strings.Repeat("p", 72)},
		},
		{
			name:  "failure: duplicate username",
			input: SignupInput{Username: "alice", Password: "secret"},
			createFunc: func(ctx context.Context, user *entity.User) error {
				return ErrUsernameTaken
			},
			wantType: apperror.ConflictError,
			wantMsg:  "Username must be unique",
		},
		{
			name:  "failure: other integrity violation",
			input: SignupInput{Username: "alice", Password: "secret"},
			createFunc: func(ctx context.Context, user *entity.User) error {
				return errors.Join(ErrIntegrityViolation, errors.New("NOT NULL constraint failed"))
			},
			wantType: apperror.ConflictError,
			wantMsg:  "Username must be unique",
		},
		{
			name:  "failure: storage error",
			input: SignupInput{Username: "alice", Password: "secret"},
			createFunc: func(ctx context.Context, user *entity.User) error {
				return errors.New("disk I/O error")
			},
			wantType: apperror.InternalError,
			wantMsg:  "An unexpected error occurred during signup",
		},
		{
			name:     "failure: session store error",
			input:    SignupInput{Username: "alice", Password: "secret"},
			estErr:   errors.New("redis down"),
			wantType: apperror.InternalError,
			wantMsg:  "An unexpected error occurred during signup",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var created *entity.User
			repo := &mockUserRepository{
				CreateFunc: func(ctx context.Context, user *entity.User) error {
					created = user
					if tt.createFunc != nil {
						return tt.createFunc(ctx, user)
					}
					user.ID = 10
					return nil
				},
			}
			sess := &fakeSession{establishErr: tt.estErr}
			uc := NewAuthUsecase(repo, &mockSessionRepository{}, newHasher())

			user, err := uc.Signup(context.Background(), sess, tt.input)

			if tt.wantMsg != "" {
				require.Error(t, err)
				assert.Nil(t, user)
				requireAppError(t, err, tt.wantType, tt.wantMsg)
				if tt.estErr == nil {
					assert.Zero(t, sess.established, "no session on failure")
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, user)
			assert.Equal(t, uint(10), user.ID)
			assert.Equal(t, "alice", user.Username)
			assert.Equal(t, &bio, user.Bio)
			assert.NotEqual(t, "secret", user.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret")))

			id, ok := sess.CurrentUserID(context.Background())
			assert.True(t, ok)
			assert.Equal(t, uint(10), id)
		})
	}
}

func TestAuthUsecase_Signup_ValidationSkipsStorage(t *testing.T) {
	t.Parallel()

	called := false
	repo := &mockUserRepository{
		CreateFunc: func(ctx context.Context, user *entity.User) error {
			called = true
			return nil
		},
	}
	uc := NewAuthUsecase(repo, &mockSessionRepository{}, newHasher())

	_, err := uc.Signup(context.Background(), &fakeSession{}, SignupInput{Username: "", Password: "x"})

	require.Error(t, err)
	assert.False(t, called)
}

func TestAuthUsecase_Login(t *testing.T) {
	t.Parallel()

	h := hasher.NewBcrypt(bcrypt.MinCost)
	digest, err := h.Hash("password123")
	require.NoError(t, err)
	testUser := &entity.User{ID: 3, Username: "alice", PasswordHash: digest}

	findAlice := func(ctx context.Context, username string) (*entity.User, error) {
		if username == "alice" {
			return testUser, nil
		}
		return nil, ErrUserNotFound
	}

	tests := []struct {
		name         string
		username     string
		password     string
		findFunc     func(ctx context.Context, username string) (*entity.User, error)
		wantType     apperror.ErrorType
		wantMsg      string
		wantVerifies int
	}{
		{name: "success", username: "alice", password: "password123", findFunc: findAlice, wantVerifies: 1},
		{name: "failure: wrong password", username: "alice", password: "nope", findFunc: findAlice,
			wantType: apperror.AuthenticationError, wantMsg: "Invalid username or password", wantVerifies: 1},
		{name: "failure: unknown user still compares", username: "bob", password: "password123", findFunc: findAlice,
			wantType: apperror.AuthenticationError, wantMsg: "Invalid username or password", wantVerifies: 1},
		{name: "failure: missing password skips comparison", username: "alice", password: "", findFunc: findAlice,
			wantType: apperror.AuthenticationError, wantMsg: "Invalid username or password", wantVerifies: 0},
		{name: "failure: missing username", username: "", password: "password123", findFunc: findAlice,
			wantType: apperror.AuthenticationError, wantMsg: "Invalid username or password", wantVerifies: 0},
		{name: "failure: storage error", username: "alice", password: "password123",
			findFunc: func(ctx context.Context, username string) (*entity.User, error) {
				return nil, errors.New("db down")
			},
			wantType: apperror.InternalError, wantMsg: "An unexpected error occurred during login", wantVerifies: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			countH := newHasher()
			sess := &fakeSession{}
			uc := NewAuthUsecase(&mockUserRepository{FindByUsernameFunc: tt.findFunc}, &mockSessionRepository{}, countH)

			user, err := uc.Login(context.Background(), sess, tt.username, tt.password)

			assert.Equal(t, tt.wantVerifies, countH.verifies)
			if tt.wantMsg != "" {
				require.Error(t, err)
				assert.Nil(t, user)
				requireAppError(t, err, tt.wantType, tt.wantMsg)
				assert.Zero(t, sess.established)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, testUser, user)
			id, ok := sess.CurrentUserID(context.Background())
			assert.True(t, ok)
			assert.Equal(t, testUser.ID, id)
		})
	}
}

func TestAuthUsecase_CheckSession(t *testing.T) {
	t.Parallel()

	alice := &entity.User{ID: 3, Username: "alice"}

	tests := []struct {
		name     string
		sess     *fakeSession
		findFunc func(ctx context.Context, id uint) (*entity.User, error)
		wantUser *entity.User
	}{
		{
			name: "success",
			sess: &fakeSession{userID: 3, loggedIn: true},
			findFunc: func(ctx context.Context, id uint) (*entity.User, error) {
				if id == 3 {
					return alice, nil
				}
				return nil, ErrUserNotFound
			},
			wantUser: alice,
		},
		{
			name: "failure: anonymous",
			sess: &fakeSession{},
		},
		{
			name: "failure: user deleted after login",
			sess: &fakeSession{userID: 99, loggedIn: true},
		},
		{
			name: "failure: storage error reads as not logged in",
			sess: &fakeSession{userID: 3, loggedIn: true},
			findFunc: func(ctx context.Context, id uint) (*entity.User, error) {
				return nil, errors.New("db down")
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := NewAuthUsecase(&mockUserRepository{FindByIDFunc: tt.findFunc}, &mockSessionRepository{}, newHasher())

			user, err := uc.CheckSession(context.Background(), tt.sess)

			if tt.wantUser == nil {
				assert.ErrorIs(t, err, ErrNotLoggedIn)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, user)
		})
	}
}

func TestAuthUsecase_Logout(t *testing.T) {
	t.Parallel()

	t.Run("clears an authenticated session", func(t *testing.T) {
		t.Parallel()

		sess := &fakeSession{userID: 1, loggedIn: true}
		uc := NewAuthUsecase(&mockUserRepository{}, &mockSessionRepository{}, newHasher())

		uc.Logout(context.Background(), sess)

		_, ok := sess.CurrentUserID(context.Background())
		assert.False(t, ok)
		assert.Equal(t, 1, sess.cleared)
	})

	t.Run("idempotent and swallows store errors", func(t *testing.T) {
		t.Parallel()

		sess := &fakeSession{clearErr: errors.New("redis down")}
		uc := NewAuthUsecase(&mockUserRepository{}, &mockSessionRepository{}, newHasher())

		uc.Logout(context.Background(), sess)
		uc.Logout(context.Background(), sess)

		assert.Equal(t, 2, sess.cleared)
	})
}

func TestAuthUsecase_DeleteAccount(t *testing.T) {
	t.Parallel()

	t.Run("deletes user, recipes and sessions", func(t *testing.T) {
		t.Parallel()

		var deletedUser, revokedUser uint
		users := &mockUserRepository{
			FindByUsernameFunc: func(ctx context.Context, username string) (*entity.User, error) {
				return &entity.User{ID: 8, Username: username}, nil
			},
			DeleteWithRecipesFunc: func(ctx context.Context, id uint) (int64, error) {
				deletedUser = id
				return 2, nil
			},
		}
		sessions := &mockSessionRepository{
			DeleteByUserIDFunc: func(ctx context.Context, userID uint) error {
				revokedUser = userID
				return nil
			},
		}
		uc := NewAuthUsecase(users, sessions, newHasher())

		removed, err := uc.DeleteAccount(context.Background(), "alice")

		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)
		assert.Equal(t, uint(8), deletedUser)
		assert.Equal(t, uint(8), revokedUser)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		uc := NewAuthUsecase(&mockUserRepository{}, &mockSessionRepository{}, newHasher())

		_, err := uc.DeleteAccount(context.Background(), "ghost")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("delete failure keeps sessions", func(t *testing.T) {
		t.Parallel()

		revoked := false
		users := &mockUserRepository{
			FindByUsernameFunc: func(ctx context.Context, username string) (*entity.User, error) {
				return &entity.User{ID: 8}, nil
			},
			DeleteWithRecipesFunc: func(ctx context.Context, id uint) (int64, error) {
				return 0, errors.New("db down")
			},
		}
		sessions := &mockSessionRepository{
			DeleteByUserIDFunc: func(ctx context.Context, userID uint) error {
				revoked = true
				return nil
			},
		}
		uc := NewAuthUsecase(users, sessions, newHasher())

		_, err := uc.DeleteAccount(context.Background(), "alice")

		assert.Error(t, err)
		assert.False(t, revoked)
	})
}
