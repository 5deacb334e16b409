package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	arenaserrors "paddock/internal/arenas/errors"
	"paddock/internal/arenas/repository"
	"paddock/internal/arenas/validator"
	"paddock/pkg/config"
	apperrors "paddock/pkg/errors"
	"paddock/pkg/model"
	"paddock/pkg/sanitizer"
)

type ArenaService interface {
	Create(ctx context.Context, actor model.Actor, arena *model.Arena) error
	GetByID(ctx context.Context, id string) (*model.Arena, error)
	GetAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Arena, int64, error)
	Update(ctx context.Context, actor model.Actor, id string, updates *model.ArenaUpdate) error
	Deactivate(ctx context.Context, actor model.Actor, id string) error
}

type arenaService struct {
	repo      repository.ArenaRepository
	validator *validator.ArenaValidator
	cfg       *config.Config
}

func NewArenaService(
	repo repository.ArenaRepository,
	validator *validator.ArenaValidator,
	cfg *config.Config,
) ArenaService {
	return &arenaService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// Create adds an arena. Staff only. Names are unique; the check and insert run
// in one transaction so concurrent creates cannot slip a duplicate through.
func (s *arenaService) Create(ctx context.Context, actor model.Actor, arena *model.Arena) error {
	if !actor.Role.Staff() {
		return apperrors.Forbidden("Only staff may manage arenas")
	}

	arena.Name = sanitizer.NormalizeName(arena.Name)
	arena.Surface = sanitizer.TrimAndNormalize(arena.Surface)
	arena.Active = true

	if err := s.validator.Validate(arena); err != nil {
		s.cfg.Log.Warn("Arena validation failed", "name", arena.Name, "error", err)
		return apperrors.Validation("Arena validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindByName(sessCtx, arena.Name)
		if err != nil && !errors.Is(err, arenaserrors.ErrNotFound) {
			return fmt.Errorf("failed to check for duplicate arena: %w", err)
		}
		if existing != nil {
			return apperrors.Conflict(fmt.Sprintf("Arena %q already exists (id: %s)", arena.Name, existing.ID))
		}

		if err := s.repo.Create(sessCtx, arena); err != nil {
			return fmt.Errorf("failed to create arena: %w", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create arena", "name", arena.Name, "error", err)
		return err
	}

	s.cfg.Log.Info("Arena created", "id", arena.ID, "name", arena.Name, "surface", arena.Surface)
	return nil
}

func (s *arenaService) GetByID(ctx context.Context, id string) (*model.Arena, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Arena ID cannot be empty")
	}

	arena, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, arenaserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Arena", id)
		}
		if errors.Is(err, arenaserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid arena ID format")
		}
		s.cfg.Log.Error("Failed to get arena by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve arena", err)
	}

	return arena, nil
}

func (s *arenaService) GetAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Arena, int64, error) {
	var count int64
	var arenas []*model.Arena
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx, activeOnly)
		if err != nil {
			s.cfg.Log.Error("Failed to count arenas", "error", err)
			errCount = apperrors.Internal("Failed to count arenas", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		arenas, err = s.repo.FindAll(ctx, activeOnly, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list arenas", "limit", limit, "offset", offset, "error", err)
			errFind = apperrors.Internal("Failed to retrieve arenas", err)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return arenas, count, nil
}

func (s *arenaService) Update(ctx context.Context, actor model.Actor, id string, updates *model.ArenaUpdate) error {
	if !actor.Role.Staff() {
		return apperrors.Forbidden("Only staff may manage arenas")
	}
	if id == "" {
		return apperrors.InvalidInput("Arena ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Arena update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := mergeArenaUpdates(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		return apperrors.Validation("Arena validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update arena", "id", id, "error", err)
		return apperrors.Internal("Failed to update arena", err)
	}

	s.cfg.Log.Info("Arena updated", "id", id, "name", merged.Name, "active", merged.Active)
	return nil
}

// Deactivate soft-disables the arena. Existing bookings stay on the books;
// new bookings against the arena are refused. Arenas are never hard-deleted.
func (s *arenaService) Deactivate(ctx context.Context, actor model.Actor, id string) error {
	if !actor.Role.Staff() {
		return apperrors.Forbidden("Only staff may manage arenas")
	}
	if id == "" {
		return apperrors.InvalidInput("Arena ID cannot be empty")
	}

	if err := s.repo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, arenaserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Arena", id)
		}
		if errors.Is(err, arenaserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid arena ID format")
		}
		s.cfg.Log.Error("Failed to deactivate arena", "id", id, "error", err)
		return apperrors.Internal("Failed to deactivate arena", err)
	}

	s.cfg.Log.Info("Arena deactivated", "id", id)
	return nil
}

func mergeArenaUpdates(existing *model.Arena, updates *model.ArenaUpdate) *model.Arena {
	merged := *existing

	if updates.Name != nil {
		merged.Name = sanitizer.NormalizeName(*updates.Name)
	}
	if updates.Surface != nil {
		merged.Surface = sanitizer.TrimAndNormalize(*updates.Surface)
	}
	if updates.Active != nil {
		merged.Active = *updates.Active
	}

	return &merged
}
