package repository

import (
	"context"
	"strings"
	"time"

	"github.com/lshigami/StudyBuddy/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmailOrUserName(ctx context.Context, email, userName string) (bool, error)
	Search(ctx context.Context, query string, excludeID uint) ([]model.User, error)
	FindAllExcept(ctx context.Context, excludeID uint) ([]model.User, error)
	SetResetCode(ctx context.Context, id uint, codeHash []byte, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, id uint, passwordHash []byte) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmailOrUserName(ctx context.Context, email, userName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? OR user_name = ?", strings.ToLower(email), userName).
		Count(&count).Error
	return count > 0, err
}

// Search matches full name, user name or email case-insensitively.
func (r *userRepository) Search(ctx context.Context, query string, excludeID uint) ([]model.User, error) {
	var users []model.User
	pattern := "%" + strings.ToLower(query) + "%"
	err := r.db.WithContext(ctx).
		Where("id <> ?", excludeID).
		Where("LOWER(full_name) LIKE ? OR LOWER(user_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern, pattern).
		Order("full_name ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) FindAllExcept(ctx context.Context, excludeID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Where("id <> ?", excludeID).Order("full_name ASC").Find(&users).Error
	return users, err
}

func (r *userRepository) SetResetCode(ctx context.Context, id uint, codeHash []byte, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"reset_code_hash": codeHash, "reset_code_expires_at": expiresAt}).Error
}

// UpdatePassword also clears any pending reset code.
func (r *userRepository) UpdatePassword(ctx context.Context, id uint, passwordHash []byte) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash":         passwordHash,
			"reset_code_hash":       nil,
			"reset_code_expires_at": nil,
		}).Error
}
