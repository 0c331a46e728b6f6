package usecase

import (
	"context"
	"errors"
	"log/slog"

	"recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/shared/apperror"
	"recipe_backend/internal/shared/validation"
)

const (
	msgUsernameRequired   = "Username is required."
	msgPasswordRequired   = "Password is required."
	msgUsernameTaken      = "Username must be unique"
	msgSignupFailed       = "An unexpected error occurred during signup"
	msgInvalidCredentials = "Invalid username or password"
	msgLoginFailed        = "An unexpected error occurred during login"
)

// dummyHash is compared against when the user does not exist, so that
// unknown usernames take as long as wrong passwords.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create persists a new user inside a transaction.
	// Returns ErrUsernameTaken when the username already exists.
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername returns ErrUserNotFound when no user matches.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByID returns ErrUserNotFound when no user matches.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// DeleteWithRecipes deletes the user and every recipe they own in one transaction.
	DeleteWithRecipes(ctx context.Context, id uint) (int64, error)
}

// Hasher hashes and verifies passwords.
type Hasher interface {
	entity.PasswordHasher
	Verify(plaintext, digest string) bool
}

// Session is the per-request session slot.
type Session interface {
	Establish(ctx context.Context, userID uint) error
	Clear(ctx context.Context) error
	CurrentUserID(ctx context.Context) (uint, bool)
}

// SignupInput carries the signup form. Bio and ImageURL are optional.
type SignupInput struct {
	Username string
	Password string
	Bio      *string
	ImageURL *string
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users    UserRepository
	sessions SessionRepository
	hasher   Hasher
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, sessions SessionRepository, hasher Hasher) *authUsecase {
	return &authUsecase{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
	}
}

// Signup registers a user and logs them in.
func (u *authUsecase) Signup(ctx context.Context, sess Session, in SignupInput) (*entity.User, error) {
	if !validation.Present(in.Username) {
		return nil, apperror.NewValidationError(msgUsernameRequired, nil)
	}
	if !validation.Present(in.Password) {
		return nil, apperror.NewValidationError(msgPasswordRequired, nil)
	}

	user, err := entity.NewUser(in.Username, in.Password, u.hasher, in.Bio, in.ImageURL)
	if err != nil {
		if apperror.IsValidation(err) {
			return nil, err
		}
		return nil, apperror.NewInternalError(msgSignupFailed, err)
	}

	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrIntegrityViolation) {
			return nil, apperror.NewConflictError(msgUsernameTaken, err)
		}
		return nil, apperror.NewInternalError(msgSignupFailed, err)
	}

	if err := sess.Establish(ctx, user.ID); err != nil {
		return nil, apperror.NewInternalError(msgSignupFailed, err)
	}
	return user, nil
}

// Login verifies the credentials and establishes a session.
// A bcrypt comparison runs even when the user does not exist.
func (u *authUsecase) Login(ctx context.Context, sess Session, username, password string) (*entity.User, error) {
	if !validation.Present(username) || !validation.Present(password) {
		return nil, apperror.NewAuthenticationError(msgInvalidCredentials, nil)
	}

	user, err := u.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, apperror.NewInternalError(msgLoginFailed, err)
	}

	digest := dummyHash
	if user != nil {
		digest = user.PasswordHash
	}
	if !u.hasher.Verify(password, digest) || user == nil {
		return nil, apperror.NewAuthenticationError(msgInvalidCredentials, nil)
	}

	if err := sess.Establish(ctx, user.ID); err != nil {
		return nil, apperror.NewInternalError(msgLoginFailed, err)
	}
	return user, nil
}

// CheckSession returns the logged-in user, or ErrNotLoggedIn.
func (u *authUsecase) CheckSession(ctx context.Context, sess Session) (*entity.User, error) {
	userID, ok := sess.CurrentUserID(ctx)
	if !ok {
		return nil, ErrNotLoggedIn
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			slog.Error("failed to load session user", "error", err, "user_id", userID)
		}
		return nil, ErrNotLoggedIn
	}
	return user, nil
}

// Logout clears the session. It never fails from the caller's point of view.
func (u *authUsecase) Logout(ctx context.Context, sess Session) {
	if err := sess.Clear(ctx); err != nil {
		slog.Warn("logout failed to clear session", "error", err)
	}
}

// DeleteAccount removes a user, their recipes and their sessions.
// It returns the number of recipes removed.
func (u *authUsecase) DeleteAccount(ctx context.Context, username string) (int64, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		return 0, err
	}

	removed, err := u.users.DeleteWithRecipes(ctx, user.ID)
	if err != nil {
		return 0, err
	}

	if err := u.sessions.DeleteByUserID(ctx, user.ID); err != nil {
		slog.Warn("failed to delete sessions of removed user", "error", err, "user_id", user.ID)
	}
	slog.Info("account deleted", "username", username, "recipes_removed", removed)
	return removed, nil
}
