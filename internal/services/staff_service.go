package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/repositories"
	"github.com/ida-management/backoffice/internal/search"
)

// StaffServiceDeps bundles collaborators for the staff service.
type StaffServiceDeps struct {
	Staff       repositories.StaffRepository
	Clock       func() time.Time
	IDGenerator func() string
	Logger      *zap.Logger
}

type staffService struct {
	staff  repositories.StaffRepository
	clock  func() time.Time
	newID  func() string
	logger *zap.Logger
}

// NewStaffService wires dependencies into a concrete StaffService.
func NewStaffService(deps StaffServiceDeps) (StaffService, error) {
	if deps.Staff == nil {
		return nil, errors.New("staff service: staff repository is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &staffService{
		staff:  deps.Staff,
		clock:  func() time.Time { return clock().UTC() },
		newID:  idGen,
		logger: logger,
	}, nil
}

func (s *staffService) ListStaff(ctx context.Context, term string) ([]*domain.StaffUser, error) {
	users, err := s.staff.List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return search.Filter(users, term,
		func(u *domain.StaffUser) string { return u.Name },
		func(u *domain.StaffUser) string { return u.Email },
	), nil
}

func (s *staffService) GetStaff(ctx context.Context, staffID string) (*domain.StaffUser, error) {
	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return nil, fmt.Errorf("%w: staff id is required", ErrInvalidInput)
	}
	user, err := s.staff.FindByID(ctx, staffID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return user, nil
}

func (s *staffService) CreateStaff(ctx context.Context, cmd UpsertStaffCommand) (*domain.StaffUser, error) {
	if err := validateStaffCommand(cmd); err != nil {
		return nil, err
	}

	now := s.clock()
	user := &domain.StaffUser{
		ID:        "staff-" + strings.ToLower(s.newID()),
		Name:      strings.TrimSpace(cmd.Name),
		Email:     strings.ToLower(strings.TrimSpace(cmd.Email)),
		Role:      cmd.Role,
		Active:    cmd.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.staff.Insert(ctx, user); err != nil {
		return nil, mapRepositoryError(err)
	}
	s.logger.Info("staff user created", zap.String("staff_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *staffService) UpdateStaff(ctx context.Context, staffID string, cmd UpsertStaffCommand) (*domain.StaffUser, error) {
	if err := validateStaffCommand(cmd); err != nil {
		return nil, err
	}

	user, err := s.GetStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(cmd.Name)
	user.Email = strings.ToLower(strings.TrimSpace(cmd.Email))
	user.Role = cmd.Role
	user.Active = cmd.Active
	user.UpdatedAt = s.clock()

	if err := s.staff.Update(ctx, user); err != nil {
		return nil, mapRepositoryError(err)
	}
	return user, nil
}

func (s *staffService) DeleteStaff(ctx context.Context, staffID string) error {
	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return fmt.Errorf("%w: staff id is required", ErrInvalidInput)
	}
	if err := s.staff.Delete(ctx, staffID); err != nil {
		return mapRepositoryError(err)
	}
	return nil
}

func validateStaffCommand(cmd UpsertStaffCommand) error {
	if strings.TrimSpace(cmd.Name) == "" {
		return fmt.Errorf("%w: staff name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(cmd.Email) == "" {
		return fmt.Errorf("%w: staff email is required", ErrInvalidInput)
	}
	switch cmd.Role {
	case domain.StaffRoleAdmin, domain.StaffRoleOperator, domain.StaffRoleViewer:
	default:
		return fmt.Errorf("%w: unknown staff role %q", ErrInvalidInput, cmd.Role)
	}
	return nil
}
