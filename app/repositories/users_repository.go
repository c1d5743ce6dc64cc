package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"gorm.io/gorm"
)

type UserRepositoryImpl interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Activate(ctx context.Context, userID string) error
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
	Delete(ctx context.Context, userID string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepositoryImpl {
	return &userRepository{db}
}

// Create stores user as given; the password must already be hashed.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where(query, arg).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) Activate(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND is_active = ?", userID, false).
		Updates(map[string]interface{}{
			"is_active":  true,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to activate user %s: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("last_login", at)
	if result.Error != nil {
		return fmt.Errorf("failed to update last login for user %s: %w", userID, result.Error)
	}
	return nil
}

// Delete removes the user and the carts owned by them.
func (r *userRepository) Delete(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cartIDs := tx.Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("cart_id IN (?)", cartIDs).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart items of user %s: %w", userID, err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Cart{}).Error; err != nil {
			return fmt.Errorf("failed to delete carts of user %s: %w", userID, err)
		}
		if err := tx.Where("id = ?", userID).Delete(&models.User{}).Error; err != nil {
			return fmt.Errorf("failed to delete user %s: %w", userID, err)
		}
		return nil
	})
}
