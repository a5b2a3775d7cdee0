package ticketcategories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, category *TicketCategory) error
	GetByID(ctx context.Context, eventID, id uuid.UUID) (*TicketCategory, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]TicketCategory, error)
	Update(ctx context.Context, category *TicketCategory) error
	Delete(ctx context.Context, eventID, id uuid.UUID) error

	// NameExists matches case-insensitively. excludeID skips the category being edited.
	NameExists(ctx context.Context, eventID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	// PopularNames returns the most used category names across all events.
	PopularNames(ctx context.Context, limit int) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, category *TicketCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *repository) GetByID(ctx context.Context, eventID, id uuid.UUID) (*TicketCategory, error) {
	var category TicketCategory
	err := r.db.WithContext(ctx).
		Where("id = ? AND event_id = ?", id, eventID).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]TicketCategory, error) {
	var categories []TicketCategory
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("sales_start ASC, name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *repository) Update(ctx context.Context, category *TicketCategory) error {
	return r.db.WithContext(ctx).Model(category).
		Select("name", "description", "quota", "price", "sales_start", "sales_end").
		Updates(category).Error
}

func (r *repository) Delete(ctx context.Context, eventID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND event_id = ?", id, eventID).
		Delete(&TicketCategory{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) NameExists(ctx context.Context, eventID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&TicketCategory{}).
		Where("event_id = ? AND LOWER(name) = ?", eventID, strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) PopularNames(ctx context.Context, limit int) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&TicketCategory{}).
		Select("name").
		Group("name").
		Order("COUNT(*) DESC, name ASC").
		Limit(limit).
		Pluck("name", &names).Error
	return names, err
}
