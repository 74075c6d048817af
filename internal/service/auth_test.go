package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/mockshop/internal/models"
	"github.com/Skotchmaster/mockshop/internal/repo"
	"github.com/Skotchmaster/mockshop/pkg/hash"
	"github.com/Skotchmaster/mockshop/pkg/mykafka"
	"github.com/Skotchmaster/mockshop/pkg/tokens"
)

func signupInput(username, email string) SignupInput {
	return SignupInput{Email: email, Username: username, Password: "p", Firstname: "A", Lastname: "B"}
}

func TestAuthService_Signup_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tests := []struct {
		name string
		in   SignupInput
	}{
		{name: "empty username", in: SignupInput{Email: "a@x.com", Password: "p"}},
		{name: "blank username", in: SignupInput{Username: "  ", Email: "a@x.com", Password: "p"}},
		{name: "empty email", in: SignupInput{Username: "a", Password: "p"}},
		{name: "empty password", in: SignupInput{Username: "a", Email: "a@x.com"}},
		{name: "password over bcrypt limit", in: SignupInput{Username: "a", Email: "a@x.com", Password: strings.Repeat("x", 80)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Signup(context.Background(), tt.in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err := f.repo.GetUserByUsername(context.Background(), "a")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestAuthService_Signup_AcceptsPasswordAtBcryptLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	pw := strings.Repeat("x", hash.MaxPasswordBytes)

	_, err := f.auth.Signup(ctx, SignupInput{Username: "a", Email: "a@x.com", Password: pw})
	require.NoError(t, err)
	_, err = f.auth.Login(ctx, "a", pw)
	assert.NoError(t, err)
}

func TestAuthService_Signup_StoresHashAndRejectsDuplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.auth.Signup(ctx, signupInput("a", "a@x.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)

	stored, err := f.repo.GetUserByUsername(ctx, "a")
	require.NoError(t, err)
	assert.NotEqual(t, "p", stored.PasswordHash)
	ok, err := hash.CheckPassword(stored.PasswordHash, "p")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, stored.TokenDigest)
	assert.Equal(t, models.Name{Firstname: "A", Lastname: "B"}, stored.Name)

	_, err = f.auth.Signup(ctx, signupInput("a", "other@x.com"))
	assert.ErrorIs(t, err, ErrConflict)
	_, err = f.auth.Signup(ctx, signupInput("b", "a@x.com"))
	assert.ErrorIs(t, err, ErrConflict)

	// usernames are compared exactly
	_, err = f.auth.Signup(ctx, signupInput("A", "upper@x.com"))
	assert.NoError(t, err)

	assert.Equal(t, []string{EventUserRegistered, EventUserRegistered}, f.events.types())
	assert.Equal(t, mykafka.TopicUserEvents, f.events.topics[0])
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.auth.Signup(ctx, signupInput("a", "a@x.com"))
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, "a", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.auth.Login(ctx, "nobody", "p")
	assert.ErrorIs(t, err, ErrUnauthorized)

	res, err := f.auth.Login(ctx, "a", "p")
	require.NoError(t, err)
	assert.Equal(t, "a", res.Username)

	username, err := f.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "a", username)

	stored, err := f.repo.GetUserByID(ctx, res.UserID)
	require.NoError(t, err)
	require.NotNil(t, stored.TokenDigest)
	assert.Equal(t, tokens.Digest(res.Token), *stored.TokenDigest)
}

func TestAuthService_SecondLoginRotatesToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.auth.Signup(ctx, signupInput("a", "a@x.com"))
	require.NoError(t, err)

	first, err := f.auth.Login(ctx, "a", "p")
	require.NoError(t, err)
	second, err := f.auth.Login(ctx, "a", "p")
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	stored, err := f.repo.GetUserByID(ctx, first.UserID)
	require.NoError(t, err)
	assert.Equal(t, tokens.Digest(second.Token), *stored.TokenDigest)
}

func TestAuthService_Logout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.auth.Signup(ctx, signupInput("a", "a@x.com"))
	require.NoError(t, err)
	res, err := f.auth.Login(ctx, "a", "p")
	require.NoError(t, err)

	user, err := f.repo.GetUserByID(ctx, res.UserID)
	require.NoError(t, err)
	require.NoError(t, f.auth.Logout(ctx, user))

	stored, err := f.repo.GetUserByID(ctx, res.UserID)
	require.NoError(t, err)
	assert.Nil(t, stored.TokenDigest)
	assert.Equal(t, []string{EventUserRegistered, EventUserLoggedIn, EventUserLoggedOut}, f.events.types())
}

type brokenHasher struct{}

func (brokenHasher) Hash(string) (string, error)         { return "", errors.New("hash failed") }
func (brokenHasher) Check(string, string) (bool, error) { return false, errors.New("corrupt hash") }

func TestAuthService_HashFailuresAreInternal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.auth.Signup(ctx, signupInput("a", "a@x.com"))
	require.NoError(t, err)

	broken := &AuthService{Users: f.repo, Tokens: f.tokens, Hasher: brokenHasher{}}

	_, err = broken.Signup(ctx, signupInput("b", "b@x.com"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrConflict)

	_, err = broken.Login(ctx, "a", "p")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

type failingUsers struct {
	UserStore
}

func (failingUsers) FindUserByUsernameOrEmail(context.Context, string, string) (*models.User, error) {
	return nil, errors.New("store down")
}

func (failingUsers) GetUserByUsername(context.Context, string) (*models.User, error) {
	return nil, errors.New("store down")
}

func TestAuthService_StoreFailuresAreInternal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	svc := &AuthService{Users: failingUsers{UserStore: f.repo}, Tokens: f.tokens}

	_, err := svc.Signup(ctx, signupInput("a", "a@x.com"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)

	_, err = svc.Login(ctx, "a", "p")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_PublishFailureDoesNotFailSignup(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.events.err = errors.New("broker unreachable")

	_, err := f.auth.Signup(context.Background(), signupInput("a", "a@x.com"))
	assert.NoError(t, err)
}
