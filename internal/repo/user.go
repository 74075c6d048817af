package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/mockshop/internal/models"
)

const FieldToken = "token"

var updatableUserFields = map[string]struct{}{
	FieldToken: {},
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UpdateUserField sets a single column; a nil value stores NULL.
func (r *GormRepo) UpdateUserField(ctx context.Context, id, field string, value any) error {
	if _, ok := updatableUserFields[field]; !ok {
		return fmt.Errorf("update user: field %q is not updatable", field)
	}
	if value == nil {
		value = gorm.Expr("NULL")
	}

	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(field, value)
	if res.Error != nil {
		return fmt.Errorf("update user %s: %w", field, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes the user together with its cart entries.
func (r *GormRepo) DeleteUser(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.CartEntry{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete user: %w", translate(err))
	}
	return deleted, nil
}

// SetToken stores the digest of the live session token; nil revokes it.
func (r *GormRepo) SetToken(ctx context.Context, id string, digest *string) error {
	if digest == nil {
		return r.UpdateUserField(ctx, id, FieldToken, nil)
	}
	return r.UpdateUserField(ctx, id, FieldToken, *digest)
}
