package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/mockshop/internal/models"
	"github.com/Skotchmaster/mockshop/internal/repo"
	"github.com/Skotchmaster/mockshop/pkg/lock"
	"github.com/Skotchmaster/mockshop/pkg/logging"
	"github.com/Skotchmaster/mockshop/pkg/mykafka"
)

type UserService struct {
	Users  UserStore
	Carts  CartStore
	Locker lock.Locker
	Events mykafka.Publisher
}

type UserView struct {
	User models.User
	Cart []models.CartEntry
}

func (s *UserService) Get(ctx context.Context, id string) (*UserView, error) {
	user, err := s.Users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	cart, err := s.Carts.GetCart(ctx, id)
	if err != nil {
		return nil, err
	}
	return &UserView{User: *user, Cart: cart}, nil
}

// Delete succeeds whether or not the user exists.
func (s *UserService) Delete(ctx context.Context, id string) error {
	l := logging.FromContext(ctx).With("svc", "users.delete", "target_id", id)

	var deleted bool
	err := withUserLock(ctx, s.Locker, id, func() error {
		var err error
		deleted, err = s.Users.DeleteUser(ctx, id)
		return err
	})
	if err != nil {
		l.Error("delete_user_error", "status", 500, "error", err)
		return err
	}

	if deleted {
		publish(ctx, s.Events, mykafka.TopicUserEvents, id, Event{Type: EventUserDeleted, UserID: id})
	}
	return nil
}
