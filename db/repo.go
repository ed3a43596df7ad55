package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"tooltrack/models"

	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Users

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *Repo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	err := r.DB.WithContext(ctx).Create(u).Error
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrConflict
	}
	return err
}

func (r *Repo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

// UpdateUser copies the mutable fields onto the persisted record, keyed by
// email, and refreshes updated_at.
func (r *Repo) UpdateUser(ctx context.Context, in *models.User) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(in.Email)).
		First(&u).Error; err != nil {
		return nil, notFound(err)
	}

	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.EmployeeID = in.EmployeeID
	u.ImageURL = in.ImageURL
	if in.Role != "" {
		u.Role = in.Role
	}
	if in.PasswordHash != nil {
		u.PasswordHash = in.PasswordHash
	}
	if err := r.DB.WithContext(ctx).Save(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) DeleteUserByEmail(ctx context.Context, email string) error {
	res := r.DB.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		Delete(&models.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) TouchUserSeen(ctx context.Context, email string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		Update("last_seen_at", gorm.Expr("NOW()")).Error
}

// Categories

func (r *Repo) FindCategoryByName(ctx context.Context, name string) (*models.ToolCategory, error) {
	var cat models.ToolCategory
	if err := r.DB.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		First(&cat).Error; err != nil {
		return nil, notFound(err)
	}
	return &cat, nil
}

func (r *Repo) FindOrCreateCategory(ctx context.Context, name string) (*models.ToolCategory, error) {
	cat, err := r.FindCategoryByName(ctx, name)
	if err == nil {
		return cat, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	cat = &models.ToolCategory{Name: name, CreatedAt: time.Now().UTC()}
	if err := r.DB.WithContext(ctx).Create(cat).Error; err != nil {
		return nil, err
	}
	return cat, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]models.ToolCategory, error) {
	var cats []models.ToolCategory
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&cats).Error
	return cats, err
}
