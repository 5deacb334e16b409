package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	arenaserrors "paddock/internal/arenas/errors"
	bookingserrors "paddock/internal/bookings/errors"
	"paddock/internal/bookings/repository"
	"paddock/internal/bookings/validator"
	"paddock/pkg/config"
	apperrors "paddock/pkg/errors"
	"paddock/pkg/kafka"
	"paddock/pkg/model"
	"paddock/pkg/sanitizer"
	"paddock/pkg/timerange"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

type BookingService interface {
	Create(ctx context.Context, actor model.Actor, booking *model.Booking) (string, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, actor model.Actor, id string, updates *model.BookingUpdate) error
	Confirm(ctx context.Context, actor model.Actor, id string) error
	Cancel(ctx context.Context, actor model.Actor, id string) error
	CancelByToken(ctx context.Context, token string) error
	SearchByArena(ctx context.Context, arenaID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Booking, int64, error)
	WouldConflict(ctx context.Context, arenaID string, rng timerange.TimeRange, excludeID string) (bool, error)
}

// ArenaGetter is the slice of the arena repository the booking service needs.
type ArenaGetter interface {
	FindByID(ctx context.Context, id string) (*model.Arena, error)
}

// EventPublisher publishes booking lifecycle events. Satisfied by kafka.Producer.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// CacheInvalidator drops cached availability views after a state change.
type CacheInvalidator interface {
	InvalidateArena(ctx context.Context, arenaID string) error
}

// TokenSealer issues and parses guest cancel tokens. Satisfied by sealer.Sealer.
type TokenSealer interface {
	SealCancelToken(arenaID, bookingID string) (string, error)
	ParseCancelToken(token string) (arenaID, bookingID string, err error)
}

// BookingEvent is the lifecycle event payload published to Kafka.
type BookingEvent struct {
	BookingID string              `json:"booking_id"`
	ArenaID   string              `json:"arena_id"`
	Type      model.BookingType   `json:"type"`
	Status    model.BookingStatus `json:"status"`
	StartTime time.Time           `json:"start_time"`
	EndTime   time.Time           `json:"end_time"`
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.ArenaLockRepository
	arenas    ArenaGetter
	validator *validator.BookingValidator
	sealer    TokenSealer
	events    EventPublisher
	cache     CacheInvalidator
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.ArenaLockRepository,
	arenas ArenaGetter,
	validator *validator.BookingValidator,
	tokenSealer TokenSealer,
	events EventPublisher,
	cache CacheInvalidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		arenas:    arenas,
		validator: validator,
		sealer:    tokenSealer,
		events:    events,
		cache:     cache,
		cfg:       cfg,
	}
}

// Create inserts a booking on behalf of the actor. Staff bookings start
// confirmed and pass through the conflict check under the arena lock; everyone
// else gets a pending hold, which may overlap anything. For guest bookings the
// returned string is the opaque cancel token for the confirmation email.
func (s *bookingService) Create(ctx context.Context, actor model.Actor, booking *model.Booking) (string, error) {
	s.applyDefaults(actor, booking)
	s.sanitize(booking)

	if !actor.Role.CanCreate(booking.Type) {
		return "", apperrors.Forbidden(fmt.Sprintf("Role %q may not create %q bookings", actor.Role, booking.Type))
	}

	if err := s.validate(booking); err != nil {
		return "", err
	}

	if err := s.checkArenaBookable(ctx, booking.ArenaID); err != nil {
		return "", err
	}

	if booking.Blocks() {
		err := s.withArenaLock(ctx, booking.ArenaID, func() error {
			return s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
				if err := s.ensureNoConflict(sessCtx, booking.ArenaID, booking.Range(), ""); err != nil {
					return err
				}
				if err := s.repo.Create(sessCtx, booking); err != nil {
					return apperrors.Internal("Failed to create booking", err)
				}
				return nil
			})
		})
		if err != nil {
			s.cfg.Log.Error("Failed to create booking", "arena_id", booking.ArenaID, "error", err)
			return "", err
		}
	} else {
		if err := s.repo.Create(ctx, booking); err != nil {
			s.cfg.Log.Error("Failed to create booking", "arena_id", booking.ArenaID, "error", err)
			return "", apperrors.Internal("Failed to create booking", err)
		}
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"arena_id", booking.ArenaID,
		"type", booking.Type,
		"status", booking.Status,
		"start_time", booking.StartTime,
	)
	s.afterWrite(ctx, booking, EventBookingCreated)

	if booking.IsGuest() {
		token, err := s.sealer.SealCancelToken(booking.ArenaID, booking.ID)
		if err != nil {
			// The booking is already committed; the caller must know the
			// guest has no cancel link rather than get a silent empty token.
			s.cfg.Log.Error("Failed to seal guest cancel token", "id", booking.ID, "error", err)
			return "", apperrors.Internal("Booking was created but the cancellation token could not be issued", err)
		}
		return token, nil
	}
	return "", nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	return s.fetch(ctx, id)
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// Update patches the mutable booking fields. Time or arena changes on a
// confirmed booking re-run the conflict check under the arena lock.
func (s *bookingService) Update(ctx context.Context, actor model.Actor, id string, updates *model.BookingUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status.Terminal() {
		return apperrors.InvalidState("Cannot modify a cancelled booking")
	}
	if !actor.Role.Staff() && !existing.OwnedBy(actor) {
		return apperrors.Forbidden("Only the booking owner or staff may modify a booking")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := mergeBookingUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	timesChanged := updates.StartTime != nil || updates.EndTime != nil
	if merged.Blocks() && timesChanged {
		err = s.withArenaLock(ctx, merged.ArenaID, func() error {
			return s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
				if err := s.ensureNoConflict(sessCtx, merged.ArenaID, merged.Range(), id); err != nil {
					return err
				}
				if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
					return apperrors.Internal("Failed to update booking", err)
				}
				return nil
			})
		})
	} else {
		if _, updateErr := s.repo.Update(ctx, id, merged); updateErr != nil {
			err = apperrors.Internal("Failed to update booking", updateErr)
		}
	}
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking updated", "id", id)
	s.invalidate(ctx, merged.ArenaID)
	return nil
}

// Confirm promotes a pending booking to confirmed. Staff only. The status,
// interval, and conflict check are all re-read under the arena lock inside
// the transaction: the hold gave no reservation, and a cancel or time change
// may have landed between the initial read and the lock. The status write is
// conditional on the booking still being pending, so a concurrent cancel is
// never overwritten.
func (s *bookingService) Confirm(ctx context.Context, actor model.Actor, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if !actor.Role.Staff() {
		return apperrors.Forbidden("Only staff may confirm bookings")
	}

	booking, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if !booking.Status.CanTransitionTo(model.StatusConfirmed) {
		return apperrors.InvalidState(fmt.Sprintf("Cannot confirm a booking in status %q", booking.Status))
	}

	err = s.withArenaLock(ctx, booking.ArenaID, func() error {
		return s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			current, err := s.fetch(sessCtx, id)
			if err != nil {
				return err
			}
			if !current.Status.CanTransitionTo(model.StatusConfirmed) {
				return apperrors.InvalidState(fmt.Sprintf("Cannot confirm a booking in status %q", current.Status))
			}
			if err := s.ensureNoConflict(sessCtx, current.ArenaID, current.Range(), id); err != nil {
				return err
			}
			if err := s.repo.UpdateStatusFrom(sessCtx, id, model.StatusPending, model.StatusConfirmed); err != nil {
				if errors.Is(err, bookingserrors.ErrStaleStatus) {
					return apperrors.InvalidState("Booking changed state during confirmation")
				}
				return apperrors.Internal("Failed to confirm booking", err)
			}
			booking = current
			return nil
		})
	})
	if err != nil {
		s.cfg.Log.Error("Failed to confirm booking", "id", id, "error", err)
		return err
	}

	booking.Status = model.StatusConfirmed
	s.cfg.Log.Info("Booking confirmed", "id", id, "arena_id", booking.ArenaID)
	s.afterWrite(ctx, booking, EventBookingConfirmed)
	return nil
}

// Cancel marks the booking cancelled. Owner or staff. Cancelling an already
// cancelled booking succeeds without touching anything.
func (s *bookingService) Cancel(ctx context.Context, actor model.Actor, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if booking.Status == model.StatusCancelled {
		return nil
	}
	if !actor.Role.Staff() && !booking.OwnedBy(actor) {
		return apperrors.Forbidden("Only the booking owner or staff may cancel a booking")
	}

	return s.cancel(ctx, booking)
}

// CancelByToken cancels a guest booking through the opaque token from the
// confirmation email.
func (s *bookingService) CancelByToken(ctx context.Context, token string) error {
	arenaID, bookingID, err := s.sealer.ParseCancelToken(token)
	if err != nil {
		return apperrors.Forbidden("Invalid cancel token")
	}

	booking, err := s.fetch(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.ArenaID != arenaID {
		return apperrors.Forbidden("Invalid cancel token")
	}
	if booking.Status == model.StatusCancelled {
		return nil
	}

	return s.cancel(ctx, booking)
}

func (s *bookingService) cancel(ctx context.Context, booking *model.Booking) error {
	if err := s.repo.UpdateStatus(ctx, booking.ID, model.StatusCancelled); err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", booking.ID, "error", err)
		return apperrors.Internal("Failed to cancel booking", err)
	}

	booking.Status = model.StatusCancelled
	s.cfg.Log.Info("Booking cancelled", "id", booking.ID, "arena_id", booking.ArenaID)
	s.afterWrite(ctx, booking, EventBookingCancelled)
	return nil
}

func (s *bookingService) SearchByArena(ctx context.Context, arenaID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
	if arenaID == "" {
		return nil, 0, apperrors.InvalidInput("Arena ID is required")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByArena(ctx, arenaID, startTime, endTime)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings by arena", "arena_id", arenaID, "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindByArena(ctx, arenaID, startTime, endTime, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search bookings", "arena_id", arenaID, "error", err)
			errFind = apperrors.Internal("Failed to search bookings", err)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// WouldConflict reports whether a confirmed booking on the arena overlaps rng.
// This is the only authority for slot availability: pending holds and
// cancelled bookings never count.
func (s *bookingService) WouldConflict(ctx context.Context, arenaID string, rng timerange.TimeRange, excludeID string) (bool, error) {
	if arenaID == "" {
		return false, apperrors.InvalidInput("Arena ID is required")
	}

	blocking, err := s.repo.FindBlocking(ctx, arenaID, rng, excludeID)
	if err != nil {
		return false, apperrors.Internal("Failed to check for conflicts", err)
	}
	return len(blocking) > 0, nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(actor model.Actor, b *model.Booking) {
	// Status is never client-controlled; the actor's role decides.
	b.Status = actor.Role.DefaultStatus()
	if actor.Role != model.RoleGuest {
		b.OwnerID = actor.ID
	} else {
		b.OwnerID = ""
	}
	b.StartTime = b.StartTime.UTC()
	b.EndTime = b.EndTime.UTC()
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.Title = sanitizer.NormalizeTitle(b.Title)
	b.Notes = sanitizer.TrimAndNormalize(b.Notes)
	if b.Guest != nil {
		b.Guest.Name = sanitizer.NormalizeName(b.Guest.Name)
		b.Guest.Email = sanitizer.NormalizeEmail(b.Guest.Email)
		b.Guest.Phone = sanitizer.NormalizePhone(b.Guest.Phone)
	}
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) checkArenaBookable(ctx context.Context, arenaID string) error {
	arena, err := s.arenas.FindByID(ctx, arenaID)
	if err != nil {
		if errors.Is(err, arenaserrors.ErrNotFound) || errors.Is(err, arenaserrors.ErrInvalidID) {
			return apperrors.NotFoundWithID("Arena", arenaID)
		}
		return apperrors.Internal("Failed to check arena", err)
	}
	if !arena.Active {
		return apperrors.NotFoundWithID("Arena", arenaID)
	}
	return nil
}

func (s *bookingService) ensureNoConflict(ctx context.Context, arenaID string, rng timerange.TimeRange, excludeID string) error {
	blocking, err := s.repo.FindBlocking(ctx, arenaID, rng, excludeID)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}
	if len(blocking) > 0 {
		b := blocking[0]
		return apperrors.Conflict(fmt.Sprintf(
			"Arena is already booked from %s to %s",
			b.StartTime.Format(time.RFC3339),
			b.EndTime.Format(time.RFC3339),
		))
	}
	return nil
}

// withArenaLock runs fn while holding the advisory lock for the arena. A held
// lock surfaces as a conflict telling the caller to retry.
func (s *bookingService) withArenaLock(ctx context.Context, arenaID string, fn func() error) error {
	_, err := s.lockRepo.Acquire(ctx, arenaID, s.cfg.ArenaLockTTL)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("This arena is currently being booked by another request. Please try again.")
		}
		return apperrors.Internal("Failed to acquire arena lock", err)
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(ctx, arenaID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release arena lock", "arena_id", arenaID, "error", releaseErr)
		}
	}()

	return fn()
}

func mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.StartTime != nil {
		merged.StartTime = updates.StartTime.UTC()
	}
	if updates.EndTime != nil {
		merged.EndTime = updates.EndTime.UTC()
	}
	if updates.Title != nil {
		merged.Title = *updates.Title
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}
	if updates.HorseID != nil {
		merged.HorseID = *updates.HorseID
	}
	if updates.OpenToShare != nil {
		merged.OpenToShare = *updates.OpenToShare
	}

	return &merged
}

// afterWrite invalidates the availability cache and publishes the lifecycle
// event. Both are best-effort: the booking is already committed, a cache or
// broker hiccup must not fail the request.
func (s *bookingService) afterWrite(ctx context.Context, booking *model.Booking, eventType string) {
	s.invalidate(ctx, booking.ArenaID)

	if s.events == nil {
		return
	}
	msg := kafka.NewMessage().
		WithKey(booking.ArenaID).
		WithValue(BookingEvent{
			BookingID: booking.ID,
			ArenaID:   booking.ArenaID,
			Type:      booking.Type,
			Status:    booking.Status,
			StartTime: booking.StartTime,
			EndTime:   booking.EndTime,
		}).
		WithEventType(eventType).
		WithSource("bookings").
		Build()
	if err := s.events.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event", "event_type", eventType, "id", booking.ID, "error", err)
	}
}

func (s *bookingService) invalidate(ctx context.Context, arenaID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateArena(ctx, arenaID); err != nil {
		s.cfg.Log.Warn("Failed to invalidate availability cache", "arena_id", arenaID, "error", err)
	}
}

func (s *bookingService) fetch(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}
