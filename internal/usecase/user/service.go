package user

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "fleetops/backend/internal/domain/auth"
)

// Service provides user management with self-scoping rules: a caller may act
// on its own record unless the operation demands more, and administrators may
// act on anyone else's.
type Service struct {
	repo    domain.UserRepository
	nowFunc func() time.Time
}

// NewService constructs a user service around the provided repository.
func NewService(repo domain.UserRepository) *Service {
	return &Service{
		repo:    repo,
		nowFunc: time.Now,
	}
}

// Actor identifies the authenticated caller. Roles come from the caller's
// token claims, not from a fresh lookup.
type Actor struct {
	ID    string
	Roles []domain.Role
}

func (a Actor) isAdmin() bool {
	return domain.HasRole(a.Roles, domain.RoleAdmin)
}

// Filter captures supported filters for listing users.
type Filter struct {
	Role string
}

// UpdateInput defines the payload to update a user. Nil fields are left
// untouched.
type UpdateInput struct {
	Email       *string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Roles       *[]domain.Role
}

// List returns users matching the supplied filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]*domain.User, error) {
	domainFilter := domain.UserFilter{}
	if trimmed := strings.TrimSpace(strings.ToLower(filter.Role)); trimmed != "" {
		role := domain.Role(trimmed)
		if !domain.ValidRole(role) {
			return nil, domain.ErrInvalidRole
		}
		domainFilter.Role = role
	}

	users, err := s.repo.List(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	return sanitizeUsers(users), nil
}

// Get retrieves a single user by its identifier.
func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("user id is required")
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// Update modifies the target user on behalf of the actor.
//
// Profile fields may be changed by the record's owner or an administrator.
// Roles may be changed only by an administrator, and never on the
// administrator's own record.
func (s *Service) Update(ctx context.Context, actor Actor, id string, input UpdateInput) (*domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("user id is required")
	}

	if actor.ID != id && !actor.isAdmin() {
		return nil, domain.ErrForbidden
	}
	if input.Roles != nil {
		if !actor.isAdmin() {
			return nil, domain.ErrForbidden
		}
		if actor.ID == id {
			return nil, domain.ErrForbidden
		}
		if len(*input.Roles) == 0 {
			return nil, domain.ErrInvalidRole
		}
		for _, r := range *input.Roles {
			if !domain.ValidRole(r) {
				return nil, domain.ErrInvalidRole
			}
		}
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email == "" {
			return nil, errors.New("email is required")
		}
		if email != user.Email {
			user.Email = email
			// An unconfirmed address must not keep the old one's status.
			user.VerifiedEmail = false
		}
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}

	now := s.nowFunc().UTC()
	user.UpdatedAt = now
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if input.Roles != nil {
		roles := *input.Roles
		if err := s.repo.UpdateRoles(ctx, id, roles, now); err != nil {
			return nil, err
		}
		user.Roles = roles
	}

	return sanitizeUser(user), nil
}

// Delete removes the target user on behalf of the actor. Deletion requires
// the admin role and is always refused on the actor's own record, so no
// principal can delete itself through this surface.
func (s *Service) Delete(ctx context.Context, actor Actor, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("user id is required")
	}

	if actor.ID != id && !actor.isAdmin() {
		return domain.ErrForbidden
	}
	if actor.ID == id {
		return domain.ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}

func sanitizeUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	c.PasswordHash = ""
	c.VerificationToken = ""
	c.VerificationExpires = time.Time{}
	return &c
}

func sanitizeUsers(items []*domain.User) []*domain.User {
	out := make([]*domain.User, 0, len(items))
	for _, item := range items {
		out = append(out, sanitizeUser(item))
	}
	return out
}
