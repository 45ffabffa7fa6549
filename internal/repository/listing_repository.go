package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/local-guide/service-booking/internal/domain"
	"github.com/local-guide/service-booking/internal/domain/listing"
)

// ListingModel is the GORM model for the listings table.
type ListingModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	GuideID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Title        string    `gorm:"not null;size:200"`
	Location     string    `gorm:"size:200"`
	Description  string    `gorm:"size:2000"`
	FeeCents     int64     `gorm:"not null"`
	MinGroupSize int       `gorm:"not null;default:1"`
	MaxGroupSize int       `gorm:"not null"`
	IsActive     bool      `gorm:"not null;default:true;index"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ListingModel) TableName() string {
	return "listings"
}

// GormListingRepository is the GORM-based implementation of listing.Repository.
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository.
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// Get retrieves a listing by its unique identifier.
func (r *GormListingRepository) Get(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	var model ListingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Listing", id.String())
		}
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}
	return toDomainListing(&model), nil
}

// FindByGuideID retrieves listings owned by a guide with pagination.
func (r *GormListingRepository) FindByGuideID(ctx context.Context, guideID uuid.UUID, page, limit int) ([]*listing.Listing, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ListingModel{}).Where("guide_id = ?", guideID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count guide listings: %w", err)
	}

	var models []ListingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("guide_id = ?", guideID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find guide listings: %w", err)
	}
	return toDomainListings(models), total, nil
}

// ListActive retrieves active listings with pagination.
func (r *GormListingRepository) ListActive(ctx context.Context, page, limit int) ([]*listing.Listing, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ListingModel{}).Where("is_active = ?", true).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count active listings: %w", err)
	}

	var models []ListingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list active listings: %w", err)
	}
	return toDomainListings(models), total, nil
}

// Save persists a new listing.
func (r *GormListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	if err := r.db.WithContext(ctx).Create(toListingModel(l)).Error; err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}
	return nil
}

// Update persists changes to an existing listing.
func (r *GormListingRepository) Update(ctx context.Context, l *listing.Listing) error {
	l.UpdatedAt = time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&ListingModel{}).
		Where("id = ?", l.ID).
		Updates(map[string]interface{}{
			"title":          l.Title,
			"location":       l.Location,
			"description":    l.Description,
			"fee_cents":      l.FeeCents,
			"min_group_size": l.MinGroupSize,
			"max_group_size": l.MaxGroupSize,
			"is_active":      l.IsActive,
			"updated_at":     l.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update listing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Listing", l.ID.String())
	}
	return nil
}

// --- Helpers ---

func toListingModel(l *listing.Listing) *ListingModel {
	return &ListingModel{
		ID:           l.ID,
		GuideID:      l.GuideID,
		Title:        l.Title,
		Location:     l.Location,
		Description:  l.Description,
		FeeCents:     l.FeeCents,
		MinGroupSize: l.MinGroupSize,
		MaxGroupSize: l.MaxGroupSize,
		IsActive:     l.IsActive,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func toDomainListing(m *ListingModel) *listing.Listing {
	return &listing.Listing{
		ID:           m.ID,
		GuideID:      m.GuideID,
		Title:        m.Title,
		Location:     m.Location,
		Description:  m.Description,
		FeeCents:     m.FeeCents,
		MinGroupSize: m.MinGroupSize,
		MaxGroupSize: m.MaxGroupSize,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toDomainListings(models []ListingModel) []*listing.Listing {
	listings := make([]*listing.Listing, len(models))
	for i, m := range models {
		listings[i] = toDomainListing(&m)
	}
	return listings
}
