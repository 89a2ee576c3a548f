package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/user"
)

// AccountRepository stores users and opens new company accounts.
type AccountRepository interface {
	// CreateAccount creates the company and its first user in one transaction.
	CreateAccount(ctx context.Context, companyName string, u *user.User) error
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

type TokenGenerator interface {
	Issue(identity Claims) (AuthTokens, error)
	ValidateAccessToken(token string) (*Claims, error)
	ValidateRefreshToken(token string) (*Claims, error)
}

type Service struct {
	repo       AccountRepository
	tokens     TokenGenerator
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo AccountRepository, tokens TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, bcryptCost: bcryptCost, logger: logger}
}

type SignupResult struct {
	AuthTokens
	User *user.User `json:"user"`
}

// Signup opens a company on the free tariff with the caller as its administrator.
func (s *Service) Signup(ctx context.Context, dto SignupDTO) (*SignupResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := user.NormalizeEmail(dto.Email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if _, ok := internal.IsAppError(err); !ok {
		return nil, s.wrap(err, "failed to check email")
	}

	hash, err := user.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, s.wrap(err, "failed to hash password")
	}

	u := &user.User{
		Email:        email,
		Name:         strings.TrimSpace(dto.Name),
		PasswordHash: hash,
		Role:         user.RoleAdmin,
		IsActive:     true,
	}
	if err := s.repo.CreateAccount(ctx, strings.TrimSpace(dto.CompanyName), u); err != nil {
		return nil, s.wrap(err, "failed to create account")
	}

	tokens, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	s.logger.Info("company signed up", "company_id", u.CompanyID, "user_id", u.ID)
	return &SignupResult{AuthTokens: tokens, User: u}, nil
}

func (s *Service) Login(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	u, err := s.repo.GetByEmail(ctx, user.NormalizeEmail(dto.Email))
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return AuthTokens{}, ErrInvalidCredentials
		}
		return AuthTokens{}, s.wrap(err, "failed to load user")
	}
	if err := user.VerifyPassword(u.PasswordHash, dto.Password); err != nil {
		s.logger.Warn("login failed: wrong password", "user_id", u.ID)
		return AuthTokens{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return AuthTokens{}, ErrUserInactive
	}

	return s.issue(u)
}

// Refresh exchanges a refresh token for a new pair, re-reading the user so role changes apply.
func (s *Service) Refresh(ctx context.Context, dto RefreshTokenDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}
	claims, err := s.tokens.ValidateRefreshToken(dto.RefreshToken)
	if err != nil {
		return AuthTokens{}, err
	}
	u, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, err
	}
	return s.issue(u)
}

// Logout only checks the token. Tokens are stateless and expire on their own.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return err
	}
	s.logger.Info("user logged out", "user_id", claims.UserID)
	return nil
}

// Authenticate resolves an access token into the request principal.
func (s *Service) Authenticate(ctx context.Context, token string) (*internal.Principal, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	u, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return &internal.Principal{
		UserID:      u.ID,
		CompanyID:   u.CompanyID,
		Email:       u.Email,
		Role:        string(u.Role),
		Permissions: u.Permissions,
	}, nil
}

func (s *Service) activeUser(ctx context.Context, id int64) (*user.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, ErrInvalidToken
		}
		return nil, s.wrap(err, "failed to load user", "user_id", id)
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}
	return u, nil
}

func (s *Service) issue(u *user.User) (AuthTokens, error) {
	tokens, err := s.tokens.Issue(Claims{UserID: u.ID, CompanyID: u.CompanyID, Email: u.Email, Role: string(u.Role)})
	if err != nil {
		return AuthTokens{}, s.wrap(err, "failed to sign tokens", "user_id", u.ID)
	}
	return tokens, nil
}

func (s *Service) wrap(err error, msg string, args ...any) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error(msg, append(args, "error", err)...)
	return internal.NewInternalError(msg, err)
}
