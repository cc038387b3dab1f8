package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/repositories"
)

var errStaffNotFound = errors.New("staff user not found")

// StaffRepository stores back-office accounts keyed by ID and enforces email uniqueness.
type StaffRepository struct {
	mu    sync.Mutex
	users map[string]*domain.StaffUser
}

// NewStaffRepository constructs an empty staff store.
func NewStaffRepository() *StaffRepository {
	return &StaffRepository{users: make(map[string]*domain.StaffUser)}
}

// List returns all staff users ordered by name.
func (r *StaffRepository) List(_ context.Context) ([]*domain.StaffUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]*domain.StaffUser, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		matched = append(matched, &clone)
	}
	slices.SortFunc(matched, func(a, b *domain.StaffUser) int {
		if c := slices.Compare([]byte(a.Name), []byte(b.Name)); c != 0 {
			return c
		}
		return slices.Compare([]byte(a.ID), []byte(b.ID))
	})
	return matched, nil
}

// FindByID returns the staff user with the given ID.
func (r *StaffRepository) FindByID(_ context.Context, staffID string) (*domain.StaffUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[staffID]
	if !ok {
		return nil, repositories.NewNotFoundError(fmt.Sprintf("staff %s", staffID), errStaffNotFound)
	}
	clone := *user
	return &clone, nil
}

// FindByEmail returns the staff user with the given email, matched case-insensitively.
func (r *StaffRepository) FindByEmail(_ context.Context, email string) (*domain.StaffUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user := r.findByEmailLocked(email); user != nil {
		clone := *user
		return &clone, nil
	}
	return nil, repositories.NewNotFoundError(fmt.Sprintf("staff email %s", email), errStaffNotFound)
}

// Insert stores a new staff user. Fails with a conflict when the email is taken.
func (r *StaffRepository) Insert(_ context.Context, user *domain.StaffUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return repositories.NewConflictError(fmt.Sprintf("staff %s", user.ID), errors.New("staff user already exists"))
	}
	if existing := r.findByEmailLocked(user.Email); existing != nil {
		return repositories.NewConflictError(fmt.Sprintf("staff email %s", user.Email), errors.New("email already in use"))
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

// Update replaces the stored staff user, keeping email uniqueness.
func (r *StaffRepository) Update(_ context.Context, user *domain.StaffUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return repositories.NewNotFoundError(fmt.Sprintf("staff %s", user.ID), errStaffNotFound)
	}
	if existing := r.findByEmailLocked(user.Email); existing != nil && existing.ID != user.ID {
		return repositories.NewConflictError(fmt.Sprintf("staff email %s", user.Email), errors.New("email already in use"))
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

// Delete removes the staff user.
func (r *StaffRepository) Delete(_ context.Context, staffID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[staffID]; !ok {
		return repositories.NewNotFoundError(fmt.Sprintf("staff %s", staffID), errStaffNotFound)
	}
	delete(r.users, staffID)
	return nil
}

func (r *StaffRepository) findByEmailLocked(email string) *domain.StaffUser {
	normalized := strings.ToLower(strings.TrimSpace(email))
	for _, user := range r.users {
		if strings.ToLower(user.Email) == normalized {
			return user
		}
	}
	return nil
}
