package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/mockshop/internal/models"
	"github.com/Skotchmaster/mockshop/internal/repo"
	"github.com/Skotchmaster/mockshop/pkg/hash"
	"github.com/Skotchmaster/mockshop/pkg/logging"
	"github.com/Skotchmaster/mockshop/pkg/mykafka"
	"github.com/Skotchmaster/mockshop/pkg/tokens"
)

type AuthService struct {
	Users  UserStore
	Tokens TokenIssuer
	Hasher Hasher
	Events mykafka.Publisher
}

type SignupInput struct {
	Email     string
	Username  string
	Password  string
	Firstname string
	Lastname  string
}

type LoginResult struct {
	Token    string
	UserID   string
	Username string
}

func (s *AuthService) hasher() Hasher {
	if s.Hasher == nil {
		return Bcrypt{}
	}
	return s.Hasher
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup", "username", in.Username)

	switch {
	case strings.TrimSpace(in.Username) == "":
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	case strings.TrimSpace(in.Email) == "":
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	case in.Password == "":
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	case len(in.Password) > hash.MaxPasswordBytes:
		return nil, fmt.Errorf("%w: %w", ErrValidation, hash.ErrPasswordTooLong)
	}

	existing, err := s.Users.FindUserByUsernameOrEmail(ctx, in.Username, in.Email)
	switch {
	case err == nil && existing != nil:
		l.Warn("signup_error", "status", 400, "reason", "username or email taken")
		return nil, ErrConflict
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		l.Error("signup_error", "status", 500, "error", err)
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	pwHash, err := s.hasher().Hash(in.Password)
	if errors.Is(err, hash.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err != nil {
		l.Error("signup_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate user id: %w", err)
	}

	user := &models.User{
		ID:           id.String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: pwHash,
		Name:         models.Name{Firstname: in.Firstname, Lastname: in.Lastname},
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			l.Warn("signup_error", "status", 400, "reason", "unique index violation")
			return nil, ErrConflict
		}
		l.Error("signup_error", "status", 500, "error", err)
		return nil, err
	}

	publish(ctx, s.Events, mykafka.TopicUserEvents, user.ID, Event{
		Type: EventUserRegistered, UserID: user.ID, Username: user.Username,
	})
	l.Info("signup_successful", "user_id", user.ID)
	return user, nil
}

// Login replaces any previously stored session, so only the newest token
// stays valid.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown user")
			return nil, ErrUnauthorized
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	ok, err := s.hasher().Check(user.PasswordHash, password)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if !ok {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return nil, ErrUnauthorized
	}

	token, err := s.Tokens.Issue(user.Username)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	digest := tokens.Digest(token)
	if err := s.Users.SetToken(ctx, user.ID, &digest); err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot store token", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, mykafka.TopicUserEvents, user.ID, Event{
		Type: EventUserLoggedIn, UserID: user.ID, Username: user.Username,
	})
	return &LoginResult{Token: token, UserID: user.ID, Username: user.Username}, nil
}

func (s *AuthService) Logout(ctx context.Context, user *models.User) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout", "user_id", user.ID)

	if err := s.Users.SetToken(ctx, user.ID, nil); err != nil && !errors.Is(err, repo.ErrNotFound) {
		l.Error("logout_failed", "status", 500, "error", err)
		return err
	}

	publish(ctx, s.Events, mykafka.TopicUserEvents, user.ID, Event{
		Type: EventUserLoggedOut, UserID: user.ID, Username: user.Username,
	})
	return nil
}
