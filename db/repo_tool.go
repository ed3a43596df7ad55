package db

import (
	"context"
	"strings"

	"tooltrack/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateTool resolves the category by name (creating it on first use) and
// persists the tool. The saved record is returned directly; there is no
// separate "latest row" fetch.
func (r *Repo) CreateTool(ctx context.Context, t *models.Tool, categoryName string) (*models.Tool, error) {
	if strings.TrimSpace(t.Name) == "" {
		return nil, ErrValidation
	}
	if categoryName != "" {
		cat, err := r.FindOrCreateCategory(ctx, categoryName)
		if err != nil {
			return nil, err
		}
		t.CategoryID = &cat.ID
	}
	if t.Condition == "" {
		t.Condition = models.ConditionNew
	}
	if t.Status == "" {
		t.Status = models.StatusAvailable
	}
	if err := r.DB.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Repo) FindToolByID(ctx context.Context, id uint) (*models.Tool, error) {
	var t models.Tool
	if err := r.DB.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *Repo) FindToolByName(ctx context.Context, name string) (*models.Tool, error) {
	var t models.Tool
	if err := r.DB.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *Repo) ListTools(ctx context.Context) ([]models.Tool, error) {
	var tools []models.Tool
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&tools).Error
	return tools, err
}

func (r *Repo) ListToolsByCategory(ctx context.Context, category string) ([]models.Tool, error) {
	cat, err := r.FindCategoryByName(ctx, category)
	if err != nil {
		return nil, err
	}
	var tools []models.Tool
	err = r.DB.WithContext(ctx).
		Where("category_id = ?", cat.ID).
		Order("created_at DESC").
		Find(&tools).Error
	return tools, err
}

func (r *Repo) ListToolNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.DB.WithContext(ctx).Model(&models.Tool{}).
		Order("name ASC").
		Pluck("name", &names).Error
	return names, err
}

func (r *Repo) CountTools(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Tool{}).Count(&n).Error
	return n, err
}

// UpdateTool copies the editable fields onto the persisted record.
func (r *Repo) UpdateTool(ctx context.Context, in *models.Tool, categoryName string) (*models.Tool, error) {
	t, err := r.FindToolByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	t.Name = in.Name
	t.SerialNo = in.SerialNo
	t.Location = in.Location
	t.Description = in.Description
	t.DateAcquired = in.DateAcquired
	if in.Condition != "" {
		t.Condition = in.Condition
	}
	if in.ImageURL != "" {
		t.ImageURL = in.ImageURL
		t.ImageName = in.ImageName
	}
	if categoryName != "" {
		cat, err := r.FindOrCreateCategory(ctx, categoryName)
		if err != nil {
			return nil, err
		}
		t.CategoryID = &cat.ID
	}
	if err := r.DB.WithContext(ctx).Save(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// SetToolQR stores the generated QR blob's URL and object name on the tool.
func (r *Repo) SetToolQR(ctx context.Context, toolID uint, url, name string) (*models.Tool, error) {
	t, err := r.FindToolByID(ctx, toolID)
	if err != nil {
		return nil, err
	}
	t.QRURL = url
	t.QRName = name
	if err := r.DB.WithContext(ctx).Save(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTool removes the database row. The tool must not be out with a
// borrower or carry an open request; completed history stays behind and the
// listings tolerate the missing tool. Blob cleanup happens in the service
// layer before this is called.
func (r *Repo) DeleteTool(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.Tool
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&t, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if !t.Status.Deletable() {
			return ErrConflict
		}

		var open int64
		if err := tx.Model(&models.Transaction{}).
			Where("tool_id = ? AND status IN ?", id, openStatuses()).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrConflict
		}

		return tx.Delete(&models.Tool{}, "id = ?", id).Error
	})
}
