package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/local-guide/service-booking/internal/domain"
	"github.com/local-guide/service-booking/internal/domain/review"
)

// ReviewModel is the GORM model for the reviews table.
type ReviewModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	ListingID uuid.UUID `gorm:"type:uuid;index;not null"`
	TouristID uuid.UUID `gorm:"type:uuid;index;not null"`
	Rating    int       `gorm:"not null"`
	Comment   string    `gorm:"not null;size:2000"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ReviewModel) TableName() string {
	return "reviews"
}

// GormReviewRepository is the GORM-based implementation of review.Repository.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository.
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Create persists the review and flips the booking's review flag in one
// transaction. The conditional update on has_review closes the window where
// two submissions could both pass the service-level check; the unique index
// on booking_id is a second line of defense.
func (r *GormReviewRepository) Create(ctx context.Context, rev *review.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&BookingModel{}).
			Where("id = ? AND has_review = ?", rev.BookingID, false).
			Updates(map[string]interface{}{
				"has_review": true,
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to mark booking as reviewed: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewAlreadyReviewedError()
		}

		if err := tx.Create(toReviewModel(rev)).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return domain.NewAlreadyReviewedError()
			}
			return fmt.Errorf("failed to save review: %w", err)
		}
		return nil
	})
}

// FindByListingID retrieves reviews for a listing with pagination, newest first.
func (r *GormReviewRepository) FindByListingID(ctx context.Context, listingID uuid.UUID, page, limit int) ([]*review.Review, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ReviewModel{}).Where("listing_id = ?", listingID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var models []ReviewModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find reviews: %w", err)
	}

	reviews := make([]*review.Review, len(models))
	for i, m := range models {
		reviews[i] = toDomainReview(&m)
	}
	return reviews, total, nil
}

// RatingSummary returns the average rating and review count for a listing.
func (r *GormReviewRepository) RatingSummary(ctx context.Context, listingID uuid.UUID) (float64, int64, error) {
	type summary struct {
		Avg   float64
		Count int64
	}
	var result summary
	err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("listing_id = ?", listingID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to summarize ratings: %w", err)
	}
	return result.Avg, result.Count, nil
}

// --- Helpers ---

func toReviewModel(rev *review.Review) *ReviewModel {
	return &ReviewModel{
		ID:        rev.ID,
		BookingID: rev.BookingID,
		ListingID: rev.ListingID,
		TouristID: rev.TouristID,
		Rating:    rev.Rating,
		Comment:   rev.Comment,
		CreatedAt: rev.CreatedAt,
	}
}

func toDomainReview(m *ReviewModel) *review.Review {
	return &review.Review{
		ID:        m.ID,
		BookingID: m.BookingID,
		ListingID: m.ListingID,
		TouristID: m.TouristID,
		Rating:    m.Rating,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt,
	}
}
