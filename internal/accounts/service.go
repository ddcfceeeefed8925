package accounts

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/inkpress/inkpress/internal/shared"
)

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// VerificationMailer enqueues a verification email for delivery by the
// background worker.
type VerificationMailer interface {
	EnqueueVerificationEmail(ctx context.Context, userID int64, email string) error
}

// Service wraps account business rules.
type Service struct {
	logger *slog.Logger
	repo   RepositoryPort
	tokens TokenIssuer
	mailer VerificationMailer
}

// NewService constructs a new Service. The mailer may be nil when
// verification emails are disabled.
func NewService(logger *slog.Logger, repo RepositoryPort, tokens TokenIssuer, mailer VerificationMailer) *Service {
	return &Service{logger: logger, repo: repo, tokens: tokens, mailer: mailer}
}

// CreateAccountParams carries validated input for CreateAccount.
type CreateAccountParams struct {
	Username string
	Email    string
	Password string
}

// CreateAccount registers a new account with role Guest and an unverified
// email. Email uniqueness is checked before username, so the email message
// wins when both collide.
func (s *Service) CreateAccount(ctx context.Context, params CreateAccountParams) error {
	if err := s.checkEmailFree(ctx, params.Email, 0); err != nil {
		return err
	}
	if err := s.checkUsernameFree(ctx, params.Username, 0); err != nil {
		return err
	}
	hash, err := hashPassword(params.Password)
	if err != nil {
		return err
	}
	user := &User{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hash,
		Role:         shared.RoleGuest,
		Verified:     false,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return err
	}
	s.sendVerification(ctx, user.ID, user.Email)
	return nil
}

// Login verifies credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			return "", shared.ErrUserNotFound
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", shared.ErrWrongPassword
	}
	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// FindByID returns a single user, for myData and findUserById.
func (s *Service) FindByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// EditAccountParams carries the optional fields of an account edit. Nil
// fields are left untouched.
type EditAccountParams struct {
	Email    *string
	Username *string
	Password *string
}

// EditAccount applies a partial update to the caller's own account. Each
// supplied field is uniqueness-checked against all other users, email before
// username, failing on the first conflict. An email change resets the
// verified flag and re-sends the verification email.
func (s *Service) EditAccount(ctx context.Context, principalID int64, params EditAccountParams) error {
	user, err := s.repo.FindByID(ctx, principalID)
	if err != nil {
		return err
	}
	emailChanged := false
	if params.Email != nil && *params.Email != user.Email {
		if err := s.checkEmailFree(ctx, *params.Email, principalID); err != nil {
			return err
		}
		user.Email = *params.Email
		user.Verified = false
		emailChanged = true
	}
	if params.Username != nil && *params.Username != user.Username {
		if err := s.checkUsernameFree(ctx, *params.Username, principalID); err != nil {
			return err
		}
		user.Username = *params.Username
	}
	if params.Password != nil {
		hash, err := hashPassword(*params.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	if emailChanged {
		s.sendVerification(ctx, user.ID, user.Email)
	}
	return nil
}

// DeleteAccount removes the caller's own account. Posts keep existing with
// their author reference cleared by the persistence layer.
func (s *Service) DeleteAccount(ctx context.Context, principalID int64) error {
	return s.repo.Delete(ctx, principalID)
}

// ChangeRole overwrites the caller's own role. Any authenticated caller may
// set their own role; there is no admin gate on this operation.
func (s *Service) ChangeRole(ctx context.Context, principalID int64, role shared.Role) error {
	user, err := s.repo.FindByID(ctx, principalID)
	if err != nil {
		return err
	}
	user.Role = role
	return s.repo.Update(ctx, user)
}

func (s *Service) checkEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return shared.ErrEmailTaken
	}
	return nil
}

func (s *Service) checkUsernameFree(ctx context.Context, username string, selfID int64) error {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return shared.ErrUsernameTaken
	}
	return nil
}

// sendVerification enqueues the verification email. Delivery is best effort:
// a broken queue must not fail the account operation itself.
func (s *Service) sendVerification(ctx context.Context, userID int64, email string) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.EnqueueVerificationEmail(ctx, userID, email); err != nil && s.logger != nil {
		s.logger.Warn("enqueue verification email", slog.Int64("user_id", userID), slog.Any("error", err))
	}
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
