package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/local-guide/service-booking/internal/application"
	"github.com/local-guide/service-booking/internal/domain"
	bookingDomain "github.com/local-guide/service-booking/internal/domain/booking"
	"github.com/local-guide/service-booking/internal/domain/listing"
	"github.com/local-guide/service-booking/internal/events"
	"github.com/local-guide/service-booking/internal/kafka"
)

// --- In-memory fakes ---

type memBookingRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*bookingDomain.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{items: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func cloneBooking(b *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.Reconstruct(
		b.ID(), b.ListingID(), b.TouristID(), b.GuideID(),
		b.Date(), b.GroupSize(), b.TotalPriceCents(),
		b.Status(), b.PaymentStatus(), b.HasReview(),
		b.Version(), b.CreatedAt(), b.UpdatedAt(),
	)
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking", id.String())
	}
	return cloneBooking(b), nil
}

func (r *memBookingRepo) FindByTouristID(_ context.Context, touristID uuid.UUID, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, b := range r.items {
		if b.TouristID() == touristID {
			out = append(out, cloneBooking(b))
		}
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) FindByGuideID(_ context.Context, guideID uuid.UUID, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, b := range r.items {
		if b.GuideID() == guideID {
			out = append(out, cloneBooking(b))
		}
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) ListAll(_ context.Context, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, b := range r.items {
		out = append(out, cloneBooking(b))
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, b := range r.items {
		counts[b.Status().String()]++
	}
	return counts, nil
}

func (r *memBookingRepo) HasActiveBooking(_ context.Context, touristID, listingID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.items {
		if b.TouristID() == touristID && b.ListingID() == listingID && b.Status().IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookingRepo) FindLatestCompleted(_ context.Context, touristID, listingID uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *bookingDomain.Booking
	for _, b := range r.items {
		if b.TouristID() != touristID || b.ListingID() != listingID || b.Status() != bookingDomain.StatusCompleted {
			continue
		}
		if latest == nil || b.CreatedAt().After(latest.CreatedAt()) {
			latest = b
		}
	}
	if latest == nil {
		return nil, domain.NewNotFoundError("booking", "completed")
	}
	return cloneBooking(latest), nil
}

func (r *memBookingRepo) Save(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.TouristID() == b.TouristID() && existing.ListingID() == b.ListingID() && existing.Status().IsActive() {
			return domain.NewDuplicateActiveBookingError()
		}
	}
	r.items[b.ID()] = cloneBooking(b)
	return nil
}

func (r *memBookingRepo) Update(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[b.ID()]
	if !ok {
		return domain.NewNotFoundError("booking", b.ID().String())
	}
	if stored.Version() != b.Version()-1 {
		return domain.NewConflictError("booking was modified concurrently, please retry")
	}
	r.items[b.ID()] = cloneBooking(b)
	return nil
}

func (r *memBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.NewNotFoundError("booking", id.String())
	}
	delete(r.items, id)
	return nil
}

// seed stores a booking bypassing the single-active-booking check.
func (r *memBookingRepo) seed(b *bookingDomain.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[b.ID()] = cloneBooking(b)
}

type memRegistry struct {
	listings map[uuid.UUID]*listing.Listing
}

func (r *memRegistry) Get(_ context.Context, id uuid.UUID) (*listing.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.NewNotFoundError("listing", id.String())
	}
	cp := *l
	return &cp, nil
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
}

func (p *capturingPublisher) PublishEvent(_ context.Context, _ string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// --- Fixtures ---

type bookingFixture struct {
	repo      *memBookingRepo
	registry  *memRegistry
	publisher *capturingPublisher
	service   *application.BookingService

	listing   *listing.Listing
	guideID   uuid.UUID
	touristID uuid.UUID
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	guideID := uuid.New()
	l, err := listing.NewListing(guideID, "Street food crawl", "Bangkok", "Five stops, bring appetite", 3000, 1, 6)
	require.NoError(t, err)

	repo := newMemBookingRepo()
	registry := &memRegistry{listings: map[uuid.UUID]*listing.Listing{l.ID: l}}
	publisher := &capturingPublisher{}
	svc := application.NewBookingService(repo, registry, publisher, zap.NewNop())

	return &bookingFixture{
		repo:      repo,
		registry:  registry,
		publisher: publisher,
		service:   svc,
		listing:   l,
		guideID:   guideID,
		touristID: uuid.New(),
	}
}

func (f *bookingFixture) createBooking(t *testing.T) *application.BookingDTO {
	t.Helper()
	dto, err := f.service.CreateBooking(context.Background(), f.touristID, application.CreateBookingRequest{
		ListingID: f.listing.ID,
		Date:      time.Now().UTC().Add(72 * time.Hour),
		GroupSize: 3,
	})
	require.NoError(t, err)
	return dto
}

func (f *bookingFixture) guide() domain.Actor {
	return domain.Actor{ID: f.guideID, Role: domain.RoleGuide}
}

func (f *bookingFixture) tourist() domain.Actor {
	return domain.Actor{ID: f.touristID, Role: domain.RoleTourist}
}

func admin() domain.Actor {
	return domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}
}

// --- Tests ---

func TestCreateBooking(t *testing.T) {
	f := newBookingFixture(t)

	dto := f.createBooking(t)

	assert.Equal(t, "PENDING", dto.Status)
	assert.Equal(t, "PENDING", dto.PaymentStatus)
	assert.Equal(t, int64(9000), dto.TotalPriceCents)
	assert.Equal(t, f.guideID, dto.GuideID)
	assert.Equal(t, int64(1), dto.Version)
	assert.Equal(t, []string{events.BookingCreated}, f.publisher.types())
}

func TestCreateBooking_DuplicateActive(t *testing.T) {
	f := newBookingFixture(t)
	f.createBooking(t)

	_, err := f.service.CreateBooking(context.Background(), f.touristID, application.CreateBookingRequest{
		ListingID: f.listing.ID,
		Date:      time.Now().UTC().Add(96 * time.Hour),
		GroupSize: 2,
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindDuplicateActiveBooking, domain.KindOf(err))
}

func TestCreateBooking_AllowedAfterCancellation(t *testing.T) {
	f := newBookingFixture(t)
	dto := f.createBooking(t)

	_, err := f.service.TransitionBooking(context.Background(), f.tourist(), dto.ID, bookingDomain.StatusCancelled)
	require.NoError(t, err)

	// A terminal booking releases the (tourist, listing) slot.
	_, err = f.service.CreateBooking(context.Background(), f.touristID, application.CreateBookingRequest{
		ListingID: f.listing.ID,
		Date:      time.Now().UTC().Add(96 * time.Hour),
		GroupSize: 2,
	})
	assert.NoError(t, err)
}

func TestCreateBooking_InactiveListing(t *testing.T) {
	f := newBookingFixture(t)
	f.listing.IsActive = false
	f.registry.listings[f.listing.ID] = f.listing

	_, err := f.service.CreateBooking(context.Background(), f.touristID, application.CreateBookingRequest{
		ListingID: f.listing.ID,
		Date:      time.Now().UTC().Add(72 * time.Hour),
		GroupSize: 3,
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindListingUnavailable, domain.KindOf(err))
}

func TestCreateBooking_UnknownListing(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.CreateBooking(context.Background(), f.touristID, application.CreateBookingRequest{
		ListingID: uuid.New(),
		Date:      time.Now().UTC().Add(72 * time.Hour),
		GroupSize: 3,
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestTransitionBooking_GuideDrivesLifecycle(t *testing.T) {
	f := newBookingFixture(t)
	dto := f.createBooking(t)

	confirmed, err := f.service.TransitionBooking(context.Background(), f.guide(), dto.ID, bookingDomain.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", confirmed.Status)
	assert.Equal(t, int64(2), confirmed.Version)

	completed, err := f.service.TransitionBooking(context.Background(), f.guide(), dto.ID, bookingDomain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", completed.Status)
	assert.Equal(t, int64(3), completed.Version)

	assert.Equal(t, []string{events.BookingCreated, events.BookingConfirmed, events.BookingCompleted}, f.publisher.types())
}

func TestTransitionBooking_TouristWithdrawsPending(t *testing.T) {
	f := newBookingFixture(t)
	dto := f.createBooking(t)

	cancelled, err := f.service.TransitionBooking(context.Background(), f.tourist(), dto.ID, bookingDomain.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)
}

func TestTransitionBooking_TouristCannotCancelConfirmed(t *testing.T) {
	f := newBookingFixture(t)
	dto := f.createBooking(t)

	_, err := f.service.TransitionBooking(context.Background(), f.guide(), dto.ID, bookingDomain.StatusConfirmed)
	require.NoError(t, err)

	_, err = f.service.TransitionBooking(context.Background(), f.tourist(), dto.ID, bookingDomain.StatusCancelled)
	require.Error(t, err)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestTransitionBooking_ForeignGuideDenied(t *testing.T) {
	f := newBookingFixture(t)
	dto := f.createBooking(t)

	otherGuide := domain.Actor{ID: uuid.New(), Role: domain.RoleGuide}
	_, err := f.service.TransitionBooking(context.Background(), otherGuide, dto.ID, bookingDomain.StatusConfirmed)
	require.Error(t, err)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestTransitionBooking_IllegalEdge(t *testing.T) {
	f := newBookingFixture(t)
	dto := f.createBooking(t)

	// PENDING -> COMPLETED skips confirmation, even for admins.
	_, err := f.service.TransitionBooking(context.Background(), admin(), dto.ID, bookingDomain.StatusCompleted)
	require.Error(t, err)
	assert.Equal(t, domain.KindIllegalTransition, domain.KindOf(err))
}

func TestTransitionBooking_TerminalStatesFrozen(t *testing.T) {
	f := newBookingFixture(t)
	dto := f.createBooking(t)

	_, err := f.service.TransitionBooking(context.Background(), f.tourist(), dto.ID, bookingDomain.StatusCancelled)
	require.NoError(t, err)

	_, err = f.service.TransitionBooking(context.Background(), admin(), dto.ID, bookingDomain.StatusConfirmed)
	require.Error(t, err)
	assert.Equal(t, domain.KindIllegalTransition, domain.KindOf(err))
}

func TestTransitionBooking_VersionConflict(t *testing.T) {
	f := newBookingFixture(t)
	dto := f.createBooking(t)

	// A concurrent writer bumps the stored version between our read and write.
	stale, err := f.repo.FindByID(context.Background(), dto.ID)
	require.NoError(t, err)
	stale.IncrementVersion()
	require.NoError(t, f.repo.Update(context.Background(), stale))

	stale.IncrementVersion()
	stale.IncrementVersion()
	err = f.repo.Update(context.Background(), stale)
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestSetPaymentStatus(t *testing.T) {
	f := newBookingFixture(t)
	dto := f.createBooking(t)

	require.NoError(t, f.service.SetPaymentStatus(context.Background(), dto.ID, bookingDomain.PaymentCompleted))

	got, err := f.service.GetBooking(context.Background(), f.tourist(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", got.PaymentStatus)
	assert.Equal(t, "PENDING", got.Status, "payment never drives the booking status")
}

func TestHardDeleteBooking(t *testing.T) {
	f := newBookingFixture(t)
	dto := f.createBooking(t)

	err := f.service.HardDeleteBooking(context.Background(), f.guide(), dto.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	require.NoError(t, f.service.HardDeleteBooking(context.Background(), admin(), dto.ID))

	_, err = f.service.GetBooking(context.Background(), admin(), dto.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Contains(t, f.publisher.types(), events.BookingDeleted)
}

func TestGetBooking_Visibility(t *testing.T) {
	f := newBookingFixture(t)
	dto := f.createBooking(t)

	_, err := f.service.GetBooking(context.Background(), f.tourist(), dto.ID)
	assert.NoError(t, err)

	_, err = f.service.GetBooking(context.Background(), f.guide(), dto.ID)
	assert.NoError(t, err)

	stranger := domain.Actor{ID: uuid.New(), Role: domain.RoleTourist}
	_, err = f.service.GetBooking(context.Background(), stranger, dto.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestGetBookingStats(t *testing.T) {
	f := newBookingFixture(t)
	dto := f.createBooking(t)
	_, err := f.service.TransitionBooking(context.Background(), f.guide(), dto.ID, bookingDomain.StatusConfirmed)
	require.NoError(t, err)

	stats, err := f.service.GetBookingStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.ByStatus["CONFIRMED"])
}
