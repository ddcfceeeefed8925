package accounts_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpress/inkpress/internal/accounts"
	"github.com/inkpress/inkpress/internal/shared"
	_ "github.com/inkpress/inkpress/testing"
)

type mockRepository struct {
	users  map[int64]*accounts.User
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: make(map[int64]*accounts.User), nextID: 1}
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (*accounts.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*accounts.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (m *mockRepository) FindByUsername(ctx context.Context, username string) (*accounts.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (m *mockRepository) Create(ctx context.Context, user *accounts.User) error {
	user.ID = m.nextID
	m.nextID++
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockRepository) Update(ctx context.Context, user *accounts.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return shared.ErrUserNotFound
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return shared.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

type stubIssuer struct{}

func (stubIssuer) Issue(userID int64) (string, error) { return "token-for-user", nil }

type recordingMailer struct {
	enqueued []string
}

func (r *recordingMailer) EnqueueVerificationEmail(ctx context.Context, userID int64, email string) error {
	r.enqueued = append(r.enqueued, email)
	return nil
}

func newService(repo *mockRepository) (*accounts.Service, *recordingMailer) {
	mailer := &recordingMailer{}
	logger := slog.New(slog.DiscardHandler)
	return accounts.NewService(logger, repo, stubIssuer{}, mailer), mailer
}

func create(t *testing.T, service *accounts.Service, username, email, password string) {
	t.Helper()
	err := service.CreateAccount(context.Background(), accounts.CreateAccountParams{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
}

func TestCreateAccountAndLogin(t *testing.T) {
	repo := newMockRepository()
	service, mailer := newService(repo)

	create(t, service, "janedoe1", "jane@test.local", "correct-password")

	user, err := repo.FindByEmail(context.Background(), "jane@test.local")
	require.NoError(t, err)
	assert.Equal(t, shared.RoleGuest, user.Role)
	assert.False(t, user.Verified)
	assert.NotEqual(t, "correct-password", user.PasswordHash, "password must be hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-password")))
	assert.Equal(t, []string{"jane@test.local"}, mailer.enqueued)

	signed, err := service.Login(context.Background(), "jane@test.local", "correct-password")
	require.NoError(t, err)
	assert.NotEmpty(t, signed)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newMockRepository()
	service, _ := newService(repo)
	create(t, service, "janedoe1", "jane@test.local", "correct-password")

	signed, err := service.Login(context.Background(), "jane@test.local", "wrong-password")
	assert.ErrorIs(t, err, shared.ErrWrongPassword)
	assert.Empty(t, signed)
}

func TestLoginUnknownEmail(t *testing.T) {
	service, _ := newService(newMockRepository())

	_, err := service.Login(context.Background(), "nobody@test.local", "whatever-password")
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestCreateAccountDuplicates(t *testing.T) {
	repo := newMockRepository()
	service, _ := newService(repo)
	create(t, service, "janedoe1", "jane@test.local", "correct-password")

	err := service.CreateAccount(context.Background(), accounts.CreateAccountParams{
		Username: "someoneelse",
		Email:    "jane@test.local",
		Password: "other-password",
	})
	assert.ErrorIs(t, err, shared.ErrEmailTaken)

	err = service.CreateAccount(context.Background(), accounts.CreateAccountParams{
		Username: "janedoe1",
		Email:    "other@test.local",
		Password: "other-password",
	})
	assert.ErrorIs(t, err, shared.ErrUsernameTaken)

	// When both collide the email message wins.
	err = service.CreateAccount(context.Background(), accounts.CreateAccountParams{
		Username: "janedoe1",
		Email:    "jane@test.local",
		Password: "other-password",
	})
	assert.ErrorIs(t, err, shared.ErrEmailTaken)

	assert.Len(t, repo.users, 1)
}

func TestEditAccountEmailResetsVerified(t *testing.T) {
	repo := newMockRepository()
	service, mailer := newService(repo)
	create(t, service, "janedoe1", "jane@test.local", "correct-password")

	// Simulate a completed verification.
	repo.users[1].Verified = true

	newEmail := "jane+new@test.local"
	err := service.EditAccount(context.Background(), 1, accounts.EditAccountParams{Email: &newEmail})
	require.NoError(t, err)

	user := repo.users[1]
	assert.Equal(t, newEmail, user.Email)
	assert.False(t, user.Verified, "email change must reset verification")
	assert.Equal(t, []string{"jane@test.local", newEmail}, mailer.enqueued)
}

func TestEditAccountKeepsOwnFields(t *testing.T) {
	repo := newMockRepository()
	service, _ := newService(repo)
	create(t, service, "janedoe1", "jane@test.local", "correct-password")

	// Re-submitting one's own email and username is not a conflict.
	email, username := "jane@test.local", "janedoe1"
	err := service.EditAccount(context.Background(), 1, accounts.EditAccountParams{Email: &email, Username: &username})
	assert.NoError(t, err)
}

func TestEditAccountConflicts(t *testing.T) {
	repo := newMockRepository()
	service, _ := newService(repo)
	create(t, service, "janedoe1", "jane@test.local", "correct-password")
	create(t, service, "johndoe1", "john@test.local", "correct-password")

	takenEmail := "jane@test.local"
	err := service.EditAccount(context.Background(), 2, accounts.EditAccountParams{Email: &takenEmail})
	assert.ErrorIs(t, err, shared.ErrEmailTaken)

	takenUsername := "janedoe1"
	err = service.EditAccount(context.Background(), 2, accounts.EditAccountParams{Username: &takenUsername})
	assert.ErrorIs(t, err, shared.ErrUsernameTaken)

	// Email is checked before username when both collide.
	err = service.EditAccount(context.Background(), 2, accounts.EditAccountParams{Email: &takenEmail, Username: &takenUsername})
	assert.ErrorIs(t, err, shared.ErrEmailTaken)
}

func TestEditAccountRehashesPassword(t *testing.T) {
	repo := newMockRepository()
	service, _ := newService(repo)
	create(t, service, "janedoe1", "jane@test.local", "correct-password")
	oldHash := repo.users[1].PasswordHash

	newPassword := "next-password"
	err := service.EditAccount(context.Background(), 1, accounts.EditAccountParams{Password: &newPassword})
	require.NoError(t, err)

	assert.NotEqual(t, oldHash, repo.users[1].PasswordHash)
	_, err = service.Login(context.Background(), "jane@test.local", "next-password")
	assert.NoError(t, err)
}

func TestDeleteAccount(t *testing.T) {
	repo := newMockRepository()
	service, _ := newService(repo)
	create(t, service, "janedoe1", "jane@test.local", "correct-password")

	require.NoError(t, service.DeleteAccount(context.Background(), 1))
	assert.Empty(t, repo.users)

	assert.ErrorIs(t, service.DeleteAccount(context.Background(), 1), shared.ErrUserNotFound)
}

// Any authenticated caller may overwrite their own role; there is no admin
// gate on changeRole. This test pins the current behavior.
func TestChangeRoleIsSelfServe(t *testing.T) {
	repo := newMockRepository()
	service, _ := newService(repo)
	create(t, service, "janedoe1", "jane@test.local", "correct-password")
	require.Equal(t, shared.RoleGuest, repo.users[1].Role)

	require.NoError(t, service.ChangeRole(context.Background(), 1, shared.RoleAdmin))
	assert.Equal(t, shared.RoleAdmin, repo.users[1].Role)
}
