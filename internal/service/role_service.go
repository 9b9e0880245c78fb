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

// RoleService defines the interface for role administration. Changing a
// role's permissions affects tokens issued afterwards only; outstanding
// tokens keep the snapshot taken at login.
type RoleService interface {
	// List retrieves roles with pagination
	List(ctx context.Context, p *dto.Pagination) ([]*domain.Role, int64, error)
	// Get retrieves a role by id
	Get(ctx context.Context, id string) (*domain.Role, error)
	// Create adds a role with permissions referenced by name
	Create(ctx context.Context, req *dto.CreateRoleRequest) (*domain.Role, error)
	// Update renames a role and replaces its permission set
	Update(ctx context.Context, id string, req *dto.UpdateRoleRequest) (*domain.Role, error)
	// Delete removes a role
	Delete(ctx context.Context, id string) error
}

// roleService implements RoleService
type roleService struct {
	roleRepo       repository.RoleRepository
	permissionRepo repository.PermissionRepository
}

// NewRoleService creates a new RoleService
func NewRoleService(roleRepo repository.RoleRepository, permissionRepo repository.PermissionRepository) RoleService {
	return &roleService{roleRepo: roleRepo, permissionRepo: permissionRepo}
}

// List retrieves roles with pagination
func (s *roleService) List(ctx context.Context, p *dto.Pagination) ([]*domain.Role, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.role.list")
	defer span.End()

	p.Normalize()
	roles, total, err := s.roleRepo.List(ctx, p.Limit(), p.Offset())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("count", len(roles)))
	span.SetStatus(codes.Ok, "")
	return roles, total, nil
}

// Get retrieves a role by id
func (s *roleService) Get(ctx context.Context, id string) (*domain.Role, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.role.get")
	defer span.End()

	span.SetAttributes(attribute.String("role_id", id))

	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if role == nil {
		span.SetStatus(codes.Error, "role not found")
		return nil, domain.ErrRoleNotFound
	}

	span.SetStatus(codes.Ok, "")
	return role, nil
}

// Create adds a role with permissions referenced by name
func (s *roleService) Create(ctx context.Context, req *dto.CreateRoleRequest) (*domain.Role, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.role.create")
	defer span.End()

	span.SetAttributes(attribute.String("role_name", req.Name))

	exists, err := s.roleRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if exists {
		span.SetStatus(codes.Error, "role already exists")
		return nil, domain.ErrRoleAlreadyExists
	}

	permissionIDs, err := s.permissionRepo.ResolveNames(ctx, req.Permissions)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := time.Now()
	role := &domain.Role{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Permissions: req.Permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.roleRepo.Create(ctx, role, permissionIDs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("role_id", role.ID))
	span.SetStatus(codes.Ok, "")
	return role, nil
}

// Update renames a role and replaces its permission set
func (s *roleService) Update(ctx context.Context, id string, req *dto.UpdateRoleRequest) (*domain.Role, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.role.update")
	defer span.End()

	span.SetAttributes(attribute.String("role_id", id))

	role, err := s.Get(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, "role not found")
		return nil, err
	}

	if req.Name != role.Name {
		exists, err := s.roleRepo.ExistsByName(ctx, req.Name)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if exists {
			span.SetStatus(codes.Error, "role already exists")
			return nil, domain.ErrRoleAlreadyExists
		}
	}

	permissionIDs, err := s.permissionRepo.ResolveNames(ctx, req.Permissions)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	role.Name = req.Name
	role.Permissions = req.Permissions
	role.UpdatedAt = time.Now()

	if err := s.roleRepo.Update(ctx, role, permissionIDs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return role, nil
}

// Delete removes a role
func (s *roleService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.role.delete")
	defer span.End()

	span.SetAttributes(attribute.String("role_id", id))

	if err := s.roleRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
