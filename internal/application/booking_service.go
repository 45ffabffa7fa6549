package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/local-guide/service-booking/internal/domain"
	bookingDomain "github.com/local-guide/service-booking/internal/domain/booking"
	"github.com/local-guide/service-booking/internal/domain/listing"
	"github.com/local-guide/service-booking/internal/events"
	"github.com/local-guide/service-booking/internal/kafka"
)

// EventPublisher is the slice of the Kafka producer the services need.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	ListingID uuid.UUID `json:"listing_id" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	GroupSize int       `json:"group_size" validate:"required,gt=0"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID `json:"id"`
	ListingID       uuid.UUID `json:"listing_id"`
	TouristID       uuid.UUID `json:"tourist_id"`
	GuideID         uuid.UUID `json:"guide_id"`
	Date            time.Time `json:"date"`
	GroupSize       int       `json:"group_size"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"payment_status"`
	HasReview       bool      `json:"has_review"`
	Version         int64     `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BookingService is the application service orchestrating the booking lifecycle.
type BookingService struct {
	repo     bookingDomain.Repository
	listings listing.Registry
	producer EventPublisher
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.Repository,
	listings listing.Registry,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		listings: listings,
		producer: producer,
		logger:   logger,
	}
}

// CreateBooking creates a PENDING booking for the given tourist. The listing's
// fee, bounds and active flag are read once, here; later listing changes never
// affect the created booking.
func (s *BookingService) CreateBooking(ctx context.Context, touristID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	l, err := s.listings.Get(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(l, touristID, req.Date, req.GroupSize)
	if err != nil {
		return nil, err
	}

	// One active booking per (tourist, listing). The early check gives a clean
	// error; the store's unique index closes the race between two creations.
	active, err := s.repo.HasActiveBooking(ctx, touristID, l.ID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, domain.NewDuplicateActiveBookingError()
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingCreatedEvent{
		BookingID:       bk.ID(),
		ListingID:       bk.ListingID(),
		TouristID:       bk.TouristID(),
		GuideID:         bk.GuideID(),
		Date:            bk.Date(),
		GroupSize:       bk.GroupSize(),
		TotalPriceCents: bk.TotalPriceCents(),
		OccurredAt:      time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCreated, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// TransitionBooking applies a status change requested by the actor. The
// authorization matrix is evaluated first, then the transition graph; the
// write succeeds only if the stored status is unchanged since the read.
func (s *BookingService) TransitionBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID, target bookingDomain.Status) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !bookingDomain.IsAllowed(actor, bk, target) {
		return nil, domain.NewForbiddenError("you are not allowed to perform this transition")
	}

	previous := bk.Status()
	if err := bk.TransitionTo(target); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingStatusChangedEvent{
		BookingID:      bk.ID(),
		ListingID:      bk.ListingID(),
		TouristID:      bk.TouristID(),
		GuideID:        bk.GuideID(),
		PreviousStatus: previous.String(),
		NewStatus:      bk.Status().String(),
		ActorID:        actor.ID,
		OccurredAt:     time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, eventTypeFor(target), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// SetPaymentStatus updates the payment lifecycle of a booking. It never
// touches the booking status; callers gate access (admin endpoint, payment
// events consumer).
func (s *BookingService) SetPaymentStatus(ctx context.Context, bookingID uuid.UUID, status bookingDomain.PaymentStatus) error {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := bk.SetPaymentStatus(status); err != nil {
		return err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return err
	}

	s.logger.Info("payment status updated",
		zap.String("booking_id", bookingID.String()),
		zap.String("payment_status", status.String()),
	)
	return nil
}

// HardDeleteBooking removes a booking outright, bypassing the state machine.
// Admin only.
func (s *BookingService) HardDeleteBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) error {
	if !bookingDomain.CanHardDelete(actor) {
		return domain.NewForbiddenError("only admins can delete bookings")
	}

	if _, err := s.repo.FindByID(ctx, bookingID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, bookingID); err != nil {
		return err
	}

	evt := events.BookingDeletedEvent{
		BookingID:  bookingID,
		ActorID:    actor.ID,
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingDeleted, evt)
	return nil
}

// GetBooking retrieves a single booking visible to the actor.
func (s *BookingService) GetBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bookingDomain.CanView(actor, bk) {
		return nil, domain.NewForbiddenError("you are not allowed to view this booking")
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// ListBookings returns the actor's scope: tourists see their own bookings,
// guides see bookings on their listings, admins see everything.
func (s *BookingService) ListBookings(ctx context.Context, actor domain.Actor, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	var (
		bookings []*bookingDomain.Booking
		total    int64
		err      error
	)
	switch actor.Role {
	case domain.RoleTourist:
		bookings, total, err = s.repo.FindByTouristID(ctx, actor.ID, page, limit)
	case domain.RoleGuide:
		bookings, total, err = s.repo.FindByGuideID(ctx, actor.ID, page, limit)
	case domain.RoleAdmin:
		bookings, total, err = s.repo.ListAll(ctx, page, limit)
	default:
		return nil, domain.NewForbiddenError("unknown role")
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{TotalBookings: total, ByStatus: counts}, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:              bk.ID(),
		ListingID:       bk.ListingID(),
		TouristID:       bk.TouristID(),
		GuideID:         bk.GuideID(),
		Date:            bk.Date(),
		GroupSize:       bk.GroupSize(),
		TotalPriceCents: bk.TotalPriceCents(),
		Status:          bk.Status().String(),
		PaymentStatus:   bk.PaymentStatus().String(),
		HasReview:       bk.HasReview(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func eventTypeFor(target bookingDomain.Status) string {
	switch target {
	case bookingDomain.StatusConfirmed:
		return events.BookingConfirmed
	case bookingDomain.StatusCompleted:
		return events.BookingCompleted
	case bookingDomain.StatusCancelled:
		return events.BookingCancelled
	default:
		return events.BookingCreated
	}
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent("service-booking", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
