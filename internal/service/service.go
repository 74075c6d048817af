package service

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/mockshop/internal/models"
	"github.com/Skotchmaster/mockshop/pkg/hash"
	"github.com/Skotchmaster/mockshop/pkg/logging"
	"github.com/Skotchmaster/mockshop/pkg/mykafka"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	UpdateUserField(ctx context.Context, id, field string, value any) error
	SetToken(ctx context.Context, id string, digest *string) error
	DeleteUser(ctx context.Context, id string) (bool, error)
}

type CartStore interface {
	AddToCart(ctx context.Context, userID string, product models.Product, quantity int) (bool, []models.CartEntry, error)
	GetCart(ctx context.Context, userID string) ([]models.CartEntry, error)
	GetProducts(ctx context.Context, ids []int64) (map[int64]models.Product, error)
	UpdateCartQuantity(ctx context.Context, userID string, productID int64, quantity int) (bool, error)
	RemoveFromCart(ctx context.Context, userID string, productID int64) (bool, error)
	ClearCart(ctx context.Context, userID string) error
}

type TokenIssuer interface {
	Issue(username string) (string, error)
}

type Hasher interface {
	Hash(password string) (string, error)
	Check(hash, password string) (bool, error)
}

type Bcrypt struct{}

func (Bcrypt) Hash(password string) (string, error) { return hash.HashPassword(password) }

func (Bcrypt) Check(h, password string) (bool, error) { return hash.CheckPassword(h, password) }

const (
	EventUserRegistered  = "user_registered"
	EventUserLoggedIn    = "user_logged_in"
	EventUserLoggedOut   = "user_logged_out"
	EventUserDeleted     = "user_deleted"
	EventCartItemAdded   = "cart_item_added"
	EventCartItemUpdated = "cart_item_updated"
	EventCartItemRemoved = "cart_item_removed"
	EventCartCleared     = "cart_cleared"
	EventProductCreated  = "product_created"
)

type Event struct {
	Type      string    `json:"type"`
	UserID    string    `json:"userId,omitempty"`
	Username  string    `json:"username,omitempty"`
	ProductID int64     `json:"productId,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	At        time.Time `json:"at"`
}

// publish never fails the caller; delivery problems are only logged.
func publish(ctx context.Context, p mykafka.Publisher, topic, key string, ev Event) {
	if p == nil {
		return
	}
	ev.At = time.Now().UTC()
	if err := p.PublishEvent(ctx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", ev.Type, "error", err)
	}
}
