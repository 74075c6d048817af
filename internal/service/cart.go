package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/mockshop/internal/models"
	"github.com/Skotchmaster/mockshop/pkg/lock"
	"github.com/Skotchmaster/mockshop/pkg/logging"
	"github.com/Skotchmaster/mockshop/pkg/mykafka"
)

type CartService struct {
	Store  CartStore
	Locker lock.Locker
	Events mykafka.Publisher
}

type AddItemInput struct {
	ProductID int64
	Quantity  int
	Title     string
	Price     float64
	Image     string
}

func cartLockKey(userID string) string {
	return "cart:" + userID
}

func withUserLock(ctx context.Context, l lock.Locker, userID string, fn func() error) error {
	unlock, err := l.Lock(ctx, cartLockKey(userID))
	if err != nil {
		return fmt.Errorf("acquire cart lock: %w", err)
	}
	defer unlock()
	return fn()
}

func (s *CartService) AddItem(ctx context.Context, userID string, in AddItemInput) ([]models.CartEntry, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "user_id", userID, "product_id", in.ProductID)

	if in.ProductID <= 0 {
		return nil, fmt.Errorf("%w: productId must be a positive integer", ErrValidation)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}

	var (
		created bool
		entries []models.CartEntry
	)
	err := withUserLock(ctx, s.Locker, userID, func() error {
		var err error
		created, entries, err = s.Store.AddToCart(ctx, userID, models.Product{
			ID:    in.ProductID,
			Title: in.Title,
			Price: in.Price,
			Image: in.Image,
		}, in.Quantity)
		return err
	})
	if err != nil {
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return nil, err
	}

	if created {
		publish(ctx, s.Events, mykafka.TopicProductEvents, fmt.Sprint(in.ProductID), Event{
			Type: EventProductCreated, UserID: userID, ProductID: in.ProductID,
		})
	}
	publish(ctx, s.Events, mykafka.TopicCartEvents, userID, Event{
		Type: EventCartItemAdded, UserID: userID, ProductID: in.ProductID, Quantity: in.Quantity,
	})
	return entries, nil
}

func (s *CartService) GetCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	return s.enrichedCart(ctx, userID)
}

// UpdateQuantity is a silent no-op when the cart has no entry for productID.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, productID int64, quantity int) ([]models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}

	var (
		changed bool
		items   []models.CartItem
	)
	err := withUserLock(ctx, s.Locker, userID, func() error {
		var err error
		if changed, err = s.Store.UpdateCartQuantity(ctx, userID, productID, quantity); err != nil {
			return err
		}
		items, err = s.enrichedCart(ctx, userID)
		return err
	})
	if err != nil {
		logging.FromContext(ctx).Error("update_cart_error", "status", 500, "user_id", userID, "error", err)
		return nil, err
	}

	if changed {
		publish(ctx, s.Events, mykafka.TopicCartEvents, userID, Event{
			Type: EventCartItemUpdated, UserID: userID, ProductID: productID, Quantity: quantity,
		})
	}
	return items, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID string, productID int64) ([]models.CartItem, error) {
	var (
		removed bool
		items   []models.CartItem
	)
	err := withUserLock(ctx, s.Locker, userID, func() error {
		var err error
		if removed, err = s.Store.RemoveFromCart(ctx, userID, productID); err != nil {
			return err
		}
		items, err = s.enrichedCart(ctx, userID)
		return err
	})
	if err != nil {
		logging.FromContext(ctx).Error("remove_from_cart_error", "status", 500, "user_id", userID, "error", err)
		return nil, err
	}

	if removed {
		publish(ctx, s.Events, mykafka.TopicCartEvents, userID, Event{
			Type: EventCartItemRemoved, UserID: userID, ProductID: productID,
		})
	}
	return items, nil
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	err := withUserLock(ctx, s.Locker, userID, func() error {
		return s.Store.ClearCart(ctx, userID)
	})
	if err != nil {
		logging.FromContext(ctx).Error("clear_cart_error", "status", 500, "user_id", userID, "error", err)
		return err
	}

	publish(ctx, s.Events, mykafka.TopicCartEvents, userID, Event{Type: EventCartCleared, UserID: userID})
	return nil
}

// enrichedCart joins the entries with current catalog metadata. Entries whose
// product is gone keep their position with nil metadata.
func (s *CartService) enrichedCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	entries, err := s.Store.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ProductID)
	}
	products, err := s.Store.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.CartItem, 0, len(entries))
	for _, e := range entries {
		item := models.CartItem{ProductID: e.ProductID, Quantity: e.Quantity}
		if p, ok := products[e.ProductID]; ok {
			item.Title, item.Price, item.Image = &p.Title, &p.Price, &p.Image
		} else {
			logging.FromContext(ctx).Warn("orphaned_cart_entry", "user_id", userID, "product_id", e.ProductID)
		}
		items = append(items, item)
	}
	return items, nil
}
