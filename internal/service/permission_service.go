package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/kittipat/movietix/internal/domain"
	"github.com/kittipat/movietix/internal/dto"
	"github.com/kittipat/movietix/internal/repository"
	"github.com/kittipat/movietix/pkg/telemetry"
)

// PermissionService defines the interface for permission catalog operations
type PermissionService interface {
	// List retrieves permissions with pagination
	List(ctx context.Context, p *dto.Pagination) ([]*domain.Permission, int64, error)
	// Get retrieves a permission by id
	Get(ctx context.Context, id string) (*domain.Permission, error)
	// Create adds a permission; names are unique and immutable afterwards
	Create(ctx context.Context, req *dto.CreatePermissionRequest) (*domain.Permission, error)
	// Update rewrites a permission's description
	Update(ctx context.Context, id string, req *dto.UpdatePermissionRequest) (*domain.Permission, error)
	// Delete removes a permission
	Delete(ctx context.Context, id string) error
}

// permissionService implements PermissionService
type permissionService struct {
	permissionRepo repository.PermissionRepository
}

// NewPermissionService creates a new PermissionService
func NewPermissionService(permissionRepo repository.PermissionRepository) PermissionService {
	return &permissionService{permissionRepo: permissionRepo}
}

// List retrieves permissions with pagination
func (s *permissionService) List(ctx context.Context, p *dto.Pagination) ([]*domain.Permission, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.permission.list")
	defer span.End()

	p.Normalize()
	permissions, total, err := s.permissionRepo.List(ctx, p.Limit(), p.Offset())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("count", len(permissions)))
	span.SetStatus(codes.Ok, "")
	return permissions, total, nil
}

// Get retrieves a permission by id
func (s *permissionService) Get(ctx context.Context, id string) (*domain.Permission, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.permission.get")
	defer span.End()

	span.SetAttributes(attribute.String("permission_id", id))

	permission, err := s.permissionRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if permission == nil {
		span.SetStatus(codes.Error, "permission not found")
		return nil, domain.ErrPermissionNotFound
	}

	span.SetStatus(codes.Ok, "")
	return permission, nil
}

// Create adds a permission
func (s *permissionService) Create(ctx context.Context, req *dto.CreatePermissionRequest) (*domain.Permission, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.permission.create")
	defer span.End()

	span.SetAttributes(attribute.String("permission_name", req.Name))

	exists, err := s.permissionRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if exists {
		span.SetStatus(codes.Error, "permission already exists")
		return nil, domain.ErrPermissionAlreadyExists
	}

	now := time.Now()
	permission := &domain.Permission{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.permissionRepo.Create(ctx, permission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("permission_id", permission.ID))
	span.SetStatus(codes.Ok, "")
	return permission, nil
}

// Update rewrites a permission's description; the name is immutable
func (s *permissionService) Update(ctx context.Context, id string, req *dto.UpdatePermissionRequest) (*domain.Permission, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.permission.update")
	defer span.End()

	span.SetAttributes(attribute.String("permission_id", id))

	permission, err := s.Get(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, "permission not found")
		return nil, err
	}

	permission.Description = req.Description
	permission.UpdatedAt = time.Now()

	if err := s.permissionRepo.Update(ctx, permission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return permission, nil
}

// Delete removes a permission
func (s *permissionService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.permission.delete")
	defer span.End()

	span.SetAttributes(attribute.String("permission_id", id))

	if err := s.permissionRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
