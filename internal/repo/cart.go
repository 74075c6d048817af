package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/mockshop/internal/models"
)

func getCart(tx *gorm.DB, userID string) ([]models.CartEntry, error) {
	items := []models.CartEntry{}
	if err := tx.Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCart(ctx context.Context, userID string) ([]models.CartEntry, error) {
	items, err := getCart(r.DB.WithContext(ctx), userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", translate(err))
	}
	return items, nil
}

// AddToCart registers the product on first reference, then overwrites the
// quantity of an existing entry or appends a new one. It returns whether the
// product was created and the resulting cart.
func (r *GormRepo) AddToCart(ctx context.Context, userID string, product models.Product, quantity int) (bool, []models.CartEntry, error) {
	var (
		created bool
		items   []models.CartEntry
	)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if created, err = createProductIfNotExists(tx, &product); err != nil {
			return err
		}

		res := tx.Model(&models.CartEntry{}).
			Where("user_id = ? AND product_id = ?", userID, product.ID).
			Update("quantity", quantity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			entry := models.CartEntry{UserID: userID, ProductID: product.ID, Quantity: quantity}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		items, err = getCart(tx, userID)
		return err
	})
	if err != nil {
		return false, nil, fmt.Errorf("add to cart: %w", translate(err))
	}
	return created, items, nil
}

// UpdateCartQuantity reports false when the user has no entry for productID.
func (r *GormRepo) UpdateCartQuantity(ctx context.Context, userID string, productID int64, quantity int) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.CartEntry{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return false, fmt.Errorf("update cart quantity: %w", translate(res.Error))
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) RemoveFromCart(ctx context.Context, userID string, productID int64) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartEntry{})
	if res.Error != nil {
		return false, fmt.Errorf("remove from cart: %w", translate(res.Error))
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID string) error {
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartEntry{}).Error; err != nil {
		return fmt.Errorf("clear cart: %w", translate(err))
	}
	return nil
}
