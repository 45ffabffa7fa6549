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
	bookingDomain "github.com/local-guide/service-booking/internal/domain/booking"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// activeBookingIndex is the partial unique index enforcing one non-terminal
// booking per (tourist, listing) pair. See migrations/000001_init.up.sql.
const activeBookingIndex = "idx_bookings_active_tourist_listing"

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	ListingID       uuid.UUID `gorm:"type:uuid;index;not null"`
	TouristID       uuid.UUID `gorm:"type:uuid;index;not null"`
	GuideID         uuid.UUID `gorm:"type:uuid;index;not null"`
	Date            time.Time `gorm:"not null"`
	GroupSize       int       `gorm:"not null"`
	TotalPriceCents int64     `gorm:"not null"`
	Status          string    `gorm:"not null;size:20;index"`
	PaymentStatus   string    `gorm:"not null;size:20;default:'PENDING'"`
	HasReview       bool      `gorm:"not null;default:false"`
	Version         int64     `gorm:"not null;default:1"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByTouristID retrieves bookings created by a tourist with pagination.
func (r *GormBookingRepository) FindByTouristID(ctx context.Context, touristID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPage(ctx, "tourist_id = ?", touristID, page, limit)
}

// FindByGuideID retrieves bookings on listings owned by a guide with pagination.
func (r *GormBookingRepository) FindByGuideID(ctx context.Context, guideID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPage(ctx, "guide_id = ?", guideID, page, limit)
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toDomainBookings(models, total)
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// HasActiveBooking reports whether a non-terminal booking exists for the pair.
func (r *GormBookingRepository) HasActiveBooking(ctx context.Context, touristID, listingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("tourist_id = ? AND listing_id = ? AND status IN ?",
			touristID, listingID,
			[]string{string(bookingDomain.StatusPending), string(bookingDomain.StatusConfirmed)}).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check for active booking: %w", err)
	}
	return count > 0, nil
}

// FindLatestCompleted retrieves the most recent COMPLETED booking for the pair.
func (r *GormBookingRepository) FindLatestCompleted(ctx context.Context, touristID, listingID uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	err := r.db.WithContext(ctx).
		Where("tourist_id = ? AND listing_id = ? AND status = ?",
			touristID, listingID, string(bookingDomain.StatusCompleted)).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", "completed for listing "+listingID.String())
		}
		return nil, fmt.Errorf("failed to find completed booking: %w", err)
	}
	return toDomainBooking(&model)
}

// Save persists a new booking. A violation of the partial unique index on
// (tourist_id, listing_id) means a concurrent creation won the race.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == activeBookingIndex {
			return domain.NewDuplicateActiveBookingError()
		}
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking: the
// write applies only if the stored version is the one the aggregate was
// loaded with (current version - 1 after IncrementVersion).
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":         model.Status,
			"payment_status": model.PaymentStatus,
			"has_review":     model.HasReview,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// Delete removes a booking outright (admin hard delete).
func (r *GormBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&BookingModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Booking", id.String())
	}
	return nil
}

// --- Helpers ---

func (r *GormBookingRepository) findPage(ctx context.Context, cond string, arg uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where(cond, arg).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}
	return toDomainBookings(models, total)
}

func toDomainBookings(models []BookingModel, total int64) ([]*bookingDomain.Booking, int64, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:              bk.ID(),
		ListingID:       bk.ListingID(),
		TouristID:       bk.TouristID(),
		GuideID:         bk.GuideID(),
		Date:            bk.Date(),
		GroupSize:       bk.GroupSize(),
		TotalPriceCents: bk.TotalPriceCents(),
		Status:          string(bk.Status()),
		PaymentStatus:   string(bk.PaymentStatus()),
		HasReview:       bk.HasReview(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := bookingDomain.ParsePaymentStatus(m.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return bookingDomain.Reconstruct(
		m.ID,
		m.ListingID,
		m.TouristID,
		m.GuideID,
		m.Date,
		m.GroupSize,
		m.TotalPriceCents,
		status,
		paymentStatus,
		m.HasReview,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
