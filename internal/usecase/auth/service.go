package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "fleetops/backend/internal/domain/auth"

	"github.com/google/uuid"
)

// Service coordinates authentication workflows between domain and infrastructure.
type Service struct {
	users   domain.UserRepository
	tokens  TokenManager
	nowFunc func() time.Time
}

// NewService constructs an auth service.
func NewService(users domain.UserRepository, tokens TokenManager) *Service {
	return &Service{
		users:   users,
		tokens:  tokens,
		nowFunc: time.Now,
	}
}

// Session is the result of a successful login or registration.
type Session struct {
	Token string
	User  *domain.User
}

// Principal is the request-scoped identity produced by token verification.
// It lives only for the duration of one request and is never persisted.
// Authorization decisions use Claims.Roles, i.e. roles as of token issuance.
type Principal struct {
	User   *domain.User
	Claims *Claims
}

// IsAdmin reports whether the principal's token carries the admin role.
func (p *Principal) IsAdmin() bool {
	return domain.HasRole(p.Claims.Roles, domain.RoleAdmin)
}

// RegisterInput defines the payload to create a new account.
type RegisterInput struct {
	Login       string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Roles       []domain.Role
}

// Register creates a new user and immediately logs it in, returning the
// initial session. The login must be unique (exact match) and so must the
// email; emails are normalised to lower case at this boundary.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	login := strings.TrimSpace(input.Login)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)
	if login == "" {
		return nil, errors.New("login is required")
	}
	if password == "" {
		return nil, errors.New("password is required")
	}

	roles := input.Roles
	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleUser}
	}
	for _, r := range roles {
		if !domain.ValidRole(r) {
			return nil, domain.ErrInvalidRole
		}
	}

	if _, err := s.users.GetByLoginOrEmail(ctx, login); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if email != "" {
		if _, err := s.users.GetByEmail(ctx, email); err == nil {
			return nil, domain.ErrUserExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Login:        login,
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		Roles:        roles,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.startSession(user)
}

// Login validates credentials and returns a session. Unknown identity and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, creds domain.Credentials) (*Session, error) {
	loginOrEmail := strings.TrimSpace(creds.LoginOrEmail)
	password := strings.TrimSpace(creds.Password)
	if loginOrEmail == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByLoginOrEmail(ctx, loginOrEmail)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.startSession(user)
}

// VerifyToken validates a session token and resolves the principal behind it.
func (s *Service) VerifyToken(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	return &Principal{User: sanitizeUser(user), Claims: claims}, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	currentPassword = strings.TrimSpace(currentPassword)
	newPassword = strings.TrimSpace(newPassword)
	if newPassword == "" {
		return errors.New("new password is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !CheckPassword(currentPassword, user.PasswordHash) {
		return domain.ErrPasswordMismatch
	}
	if currentPassword == newPassword {
		return domain.ErrPasswordUnchanged
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, userID, hashed, s.nowFunc().UTC())
}

func (s *Service) startSession(user *domain.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID, user.Login, user.Roles)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: sanitizeUser(user)}, nil
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
