package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelbites/reelbites-backend/internal/partners"
	"github.com/reelbites/reelbites-backend/internal/users"
	pkgauth "github.com/reelbites/reelbites-backend/pkg/auth"
	"github.com/reelbites/reelbites-backend/pkg/auth/session"
	"github.com/reelbites/reelbites-backend/pkg/config"
	"github.com/reelbites/reelbites-backend/pkg/db"
	"github.com/reelbites/reelbites-backend/pkg/enums"
	pkgerrors "github.com/reelbites/reelbites-backend/pkg/errors"
	"github.com/reelbites/reelbites-backend/pkg/logger"
	"github.com/reelbites/reelbites-backend/pkg/security"
)

const minPasswordLength = 8

// SessionManager abstracts the Redis-backed refresh session lifecycle.
type SessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	UserRepo    *users.Repository
	PartnerRepo *partners.Repository
	Sessions    SessionManager
	JWT         config.JWTConfig
	Password    config.PasswordConfig
	Logger      *logger.Logger
}

// Service exposes signup, login, refresh, and logout for both actor roles.
type Service interface {
	RegisterUser(ctx context.Context, dto RegisterUserDTO) (AuthResultDTO, error)
	RegisterPartner(ctx context.Context, dto RegisterPartnerDTO) (AuthResultDTO, error)
	LoginUser(ctx context.Context, email, password string) (AuthResultDTO, error)
	LoginPartner(ctx context.Context, email, password string) (AuthResultDTO, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (TokenPairDTO, error)
	Logout(ctx context.Context, accessToken string) error
}

type service struct {
	userRepo    *users.Repository
	partnerRepo *partners.Repository
	sessions    SessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewService builds an auth service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.PartnerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner repo is required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session manager is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if strings.TrimSpace(params.JWT.Secret) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "jwt secret is required")
	}
	return &service{
		userRepo:    params.UserRepo,
		partnerRepo: params.PartnerRepo,
		sessions:    params.Sessions,
		jwtCfg:      params.JWT,
		passwordCfg: params.Password,
		logg:        params.Logger,
	}, nil
}

// RegisterUser creates a buyer account and signs it in.
func (s *service) RegisterUser(ctx context.Context, dto RegisterUserDTO) (AuthResultDTO, error) {
	dto.FullName = strings.TrimSpace(dto.FullName)
	dto.Email = normalizeEmail(dto.Email)
	if dto.FullName == "" {
		return AuthResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	if err := validateCredentials(dto.Email, dto.Password); err != nil {
		return AuthResultDTO{}, err
	}

	hash, err := security.HashPassword(dto.Password, s.passwordCfg)
	if err != nil {
		return AuthResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.userRepo.Create(ctx, users.CreateUserDTO{
		FullName:     dto.FullName,
		Email:        dto.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "users_email_key") {
			return AuthResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return AuthResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist user")
	}

	tokens, err := s.issueTokens(ctx, user.ID, enums.ActorRoleUser)
	if err != nil {
		return AuthResultDTO{}, err
	}
	return AuthResultDTO{Principal: principalFromUser(user), Tokens: tokens}, nil
}

// RegisterPartner creates a restaurant account and signs it in.
func (s *service) RegisterPartner(ctx context.Context, dto RegisterPartnerDTO) (AuthResultDTO, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	dto.ContactName = strings.TrimSpace(dto.ContactName)
	dto.Phone = strings.TrimSpace(dto.Phone)
	dto.Address = strings.TrimSpace(dto.Address)
	dto.Email = normalizeEmail(dto.Email)
	if dto.Name == "" {
		return AuthResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "business name is required")
	}
	if dto.ContactName == "" {
		return AuthResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "contact name is required")
	}
	if dto.Phone == "" {
		return AuthResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	if dto.Address == "" {
		return AuthResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	if err := validateCredentials(dto.Email, dto.Password); err != nil {
		return AuthResultDTO{}, err
	}

	hash, err := security.HashPassword(dto.Password, s.passwordCfg)
	if err != nil {
		return AuthResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	partner, err := s.partnerRepo.Create(ctx, partners.CreatePartnerDTO{
		Name:         dto.Name,
		ContactName:  dto.ContactName,
		Email:        dto.Email,
		PasswordHash: hash,
		Phone:        dto.Phone,
		Address:      dto.Address,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "food_partners_email_key") {
			return AuthResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return AuthResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist partner")
	}

	tokens, err := s.issueTokens(ctx, partner.ID, enums.ActorRolePartner)
	if err != nil {
		return AuthResultDTO{}, err
	}
	return AuthResultDTO{Principal: principalFromPartner(partner), Tokens: tokens}, nil
}

// LoginUser verifies buyer credentials and mints a token pair.
func (s *service) LoginUser(ctx context.Context, email, password string) (AuthResultDTO, error) {
	email = normalizeEmail(email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return AuthResultDTO{}, loginError(err)
	}
	if err := s.verifyPassword(ctx, password, user.PasswordHash); err != nil {
		return AuthResultDTO{}, err
	}
	tokens, err := s.issueTokens(ctx, user.ID, enums.ActorRoleUser)
	if err != nil {
		return AuthResultDTO{}, err
	}
	return AuthResultDTO{Principal: principalFromUser(user), Tokens: tokens}, nil
}

// LoginPartner verifies restaurant credentials and mints a token pair.
func (s *service) LoginPartner(ctx context.Context, email, password string) (AuthResultDTO, error) {
	email = normalizeEmail(email)
	partner, err := s.partnerRepo.FindByEmail(ctx, email)
	if err != nil {
		return AuthResultDTO{}, loginError(err)
	}
	if err := s.verifyPassword(ctx, password, partner.PasswordHash); err != nil {
		return AuthResultDTO{}, err
	}
	tokens, err := s.issueTokens(ctx, partner.ID, enums.ActorRolePartner)
	if err != nil {
		return AuthResultDTO{}, err
	}
	return AuthResultDTO{Principal: principalFromPartner(partner), Tokens: tokens}, nil
}

// Refresh rotates the refresh session behind the (possibly expired) access
// token and mints a fresh pair. The old pair stops working immediately.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (TokenPairDTO, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, strings.TrimSpace(accessToken))
	if err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, strings.TrimSpace(refreshToken))
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid refresh token")
		}
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	signed, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
		PrincipalID: claims.PrincipalID,
		Role:        claims.Role,
		JTI:         newAccessID,
	})
	if err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return TokenPairDTO{AccessToken: signed, RefreshToken: newRefresh}, nil
}

// Logout revokes the refresh session behind the access token. Expired access
// tokens can still log out.
func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, strings.TrimSpace(accessToken))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) issueTokens(ctx context.Context, principalID uuid.UUID, role enums.ActorRole) (TokenPairDTO, error) {
	accessID := session.NewAccessID()

	signed, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
		PrincipalID: principalID,
		Role:        role,
		JTI:         accessID,
	})
	if err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create refresh session")
	}
	return TokenPairDTO{AccessToken: signed, RefreshToken: refresh}, nil
}

func (s *service) verifyPassword(ctx context.Context, password, hash string) error {
	ok, err := security.VerifyPassword(password, hash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		s.logg.Warn(ctx, "login attempt with wrong password")
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	return nil
}

func validateCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if len(password) < minPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// loginError hides whether the email exists.
func loginError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid credentials")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
}
