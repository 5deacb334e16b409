package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	arenaserrors "paddock/internal/arenas/errors"
	"paddock/internal/arenas/repository"
	"paddock/internal/arenas/validator"
	"paddock/pkg/config"
	mongotx "paddock/pkg/db/mongo"
	apperrors "paddock/pkg/errors"
	"paddock/pkg/logger"
	"paddock/pkg/model"
)

type mockArenaRepository struct {
	createFunc     func(ctx context.Context, arena *model.Arena) error
	findByIDFunc   func(ctx context.Context, id string) (*model.Arena, error)
	findByNameFunc func(ctx context.Context, name string) (*model.Arena, error)
	findAllFunc    func(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Arena, error)
	countFunc      func(ctx context.Context, activeOnly bool) (int64, error)
	updateFunc     func(ctx context.Context, id string, arena *model.Arena) (*mongo.UpdateResult, error)
	setActiveFunc  func(ctx context.Context, id string, active bool) error
}

func (m *mockArenaRepository) Create(ctx context.Context, arena *model.Arena) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, arena)
	}
	arena.ID = primitive.NewObjectID().Hex()
	return nil
}

func (m *mockArenaRepository) FindByID(ctx context.Context, id string) (*model.Arena, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Arena{ID: id, Name: "Main arena", Active: true}, nil
}

func (m *mockArenaRepository) FindByName(ctx context.Context, name string) (*model.Arena, error) {
	if m.findByNameFunc != nil {
		return m.findByNameFunc(ctx, name)
	}
	return nil, arenaserrors.ErrNotFound
}

func (m *mockArenaRepository) FindAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Arena, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, activeOnly, limit, offset)
	}
	return []*model.Arena{}, nil
}

func (m *mockArenaRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, activeOnly)
	}
	return 0, nil
}

func (m *mockArenaRepository) Update(ctx context.Context, id string, arena *model.Arena) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, arena)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockArenaRepository) SetActive(ctx context.Context, id string, active bool) error {
	if m.setActiveFunc != nil {
		return m.setActiveFunc(ctx, id, active)
	}
	return nil
}

func (m *mockArenaRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

var _ repository.ArenaRepository = (*mockArenaRepository)(nil)

func newTestService(t *testing.T, repo *mockArenaRepository) ArenaService {
	t.Helper()
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{
		Log:         log,
		ReadTimeout: 5 * time.Second,
	}
	return NewArenaService(repo, validator.NewArenaValidator(log), cfg)
}

func staffActor() model.Actor {
	return model.Actor{ID: primitive.NewObjectID().Hex(), Role: model.RoleStaff}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected app error with code %s, got %v", code, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected error code %s, got %s (%v)", code, appErr.Code, err)
	}
}

func TestCreate_Success(t *testing.T) {
	repo := &mockArenaRepository{}
	svc := newTestService(t, repo)

	arena := &model.Arena{Name: "  Outdoor School ", Surface: "sand"}
	if err := svc.Create(context.Background(), staffActor(), arena); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if arena.ID == "" {
		t.Error("expected arena ID to be assigned")
	}
	if arena.Name != "Outdoor School" {
		t.Errorf("expected trimmed name, got %q", arena.Name)
	}
	if !arena.Active {
		t.Error("expected new arena to be active")
	}
}

func TestCreate_RequiresStaff(t *testing.T) {
	svc := newTestService(t, &mockArenaRepository{})

	err := svc.Create(context.Background(), model.Actor{Role: model.RoleLivery, ID: primitive.NewObjectID().Hex()}, &model.Arena{Name: "Indoor"})
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestCreate_DuplicateName(t *testing.T) {
	existingID := primitive.NewObjectID().Hex()
	repo := &mockArenaRepository{
		findByNameFunc: func(ctx context.Context, name string) (*model.Arena, error) {
			return &model.Arena{ID: existingID, Name: name, Active: true}, nil
		},
		createFunc: func(ctx context.Context, arena *model.Arena) error {
			t.Error("Create must not be called for a duplicate name")
			return nil
		},
	}
	svc := newTestService(t, repo)

	err := svc.Create(context.Background(), staffActor(), &model.Arena{Name: "Main Arena", Surface: "fibre"})
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestCreate_InvalidSurface(t *testing.T) {
	svc := newTestService(t, &mockArenaRepository{})

	err := svc.Create(context.Background(), staffActor(), &model.Arena{Name: "Main Arena", Surface: "concrete"})
	assertAppErrorCode(t, err, apperrors.CodeValidation)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &mockArenaRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Arena, error) {
			return nil, arenaserrors.ErrNotFound
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.GetByID(context.Background(), primitive.NewObjectID().Hex())
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestGetAll_ConcurrentAccess(t *testing.T) {
	arenas := []*model.Arena{
		{ID: primitive.NewObjectID().Hex(), Name: "Main Arena", Active: true},
		{ID: primitive.NewObjectID().Hex(), Name: "Lunge Pen", Active: true},
	}
	repo := &mockArenaRepository{
		findAllFunc: func(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Arena, error) {
			if !activeOnly {
				t.Error("expected active-only listing")
			}
			return arenas, nil
		},
		countFunc: func(ctx context.Context, activeOnly bool) (int64, error) {
			return int64(len(arenas)), nil
		},
	}
	svc := newTestService(t, repo)

	got, count, err := svc.GetAll(context.Background(), true, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 arenas, got %d", len(got))
	}
}

func TestUpdate_MergesFields(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	var saved *model.Arena
	repo := &mockArenaRepository{
		findByIDFunc: func(ctx context.Context, gotID string) (*model.Arena, error) {
			return &model.Arena{ID: gotID, Name: "Main Arena", Surface: "sand", Active: true}, nil
		},
		updateFunc: func(ctx context.Context, id string, arena *model.Arena) (*mongo.UpdateResult, error) {
			saved = arena
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	svc := newTestService(t, repo)

	surface := "rubber"
	err := svc.Update(context.Background(), staffActor(), id, &model.ArenaUpdate{Surface: &surface})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil {
		t.Fatal("expected Update to be called")
	}
	if saved.Surface != "rubber" {
		t.Errorf("expected surface rubber, got %q", saved.Surface)
	}
	if saved.Name != "Main Arena" {
		t.Errorf("expected name preserved, got %q", saved.Name)
	}
}

func TestDeactivate(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	var gotActive *bool
	repo := &mockArenaRepository{
		setActiveFunc: func(ctx context.Context, gotID string, active bool) error {
			gotActive = &active
			return nil
		},
	}
	svc := newTestService(t, repo)

	if err := svc.Deactivate(context.Background(), staffActor(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotActive == nil || *gotActive {
		t.Error("expected SetActive(false)")
	}

	t.Run("requires staff", func(t *testing.T) {
		err := svc.Deactivate(context.Background(), model.Actor{Role: model.RoleGuest}, id)
		assertAppErrorCode(t, err, apperrors.CodeForbidden)
	})
}
