package service

import (
	"context"
	"errors"

	"flightfinder/internal/auth/validator"
	userserrors "flightfinder/internal/users/errors"
	"flightfinder/internal/users/repository"
	"flightfinder/pkg/config"
	apperrors "flightfinder/pkg/errors"
	"flightfinder/pkg/model"
	"flightfinder/pkg/password"
	"flightfinder/pkg/sanitizer"
	"flightfinder/pkg/token"
)

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResult, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResult, error)
}

type authService struct {
	repo      repository.UserRepository
	validator *validator.AuthValidator
	hasher    *password.Hasher
	issuer    *token.Issuer
	cfg       *config.Config
}

func NewAuthService(
	repo repository.UserRepository,
	validator *validator.AuthValidator,
	hasher *password.Hasher,
	issuer *token.Issuer,
	cfg *config.Config,
) AuthService {
	return &authService{
		repo:      repo,
		validator: validator,
		hasher:    hasher,
		issuer:    issuer,
		cfg:       cfg,
	}
}

// Register creates a traveler or operator account. Travelers get a token
// immediately; operators start in pending and must wait for admin approval
// before they can log in.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResult, error) {
	s.sanitizeRegister(req)

	if err := s.validator.ValidateRegister(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("Registration request is invalid", validationErrs.Details())
		}
		return nil, apperrors.Internal("Failed to validate registration", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  hash,
		Phone:     req.Phone,
		Role:      req.Role,
	}
	if req.Role == model.RoleOperator {
		user.OperatorProfile = &model.OperatorProfile{
			CompanyName: req.CompanyName,
			Status:      model.OperatorPending,
		}
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, apperrors.DuplicateEmail()
		}
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User registered",
		"id", user.ID,
		"role", user.Role,
	)

	if user.Role == model.RoleOperator {
		return &model.AuthResult{User: user.Sanitized()}, nil
	}

	signed, exp, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	return &model.AuthResult{
		Token:     signed,
		ExpiresAt: exp,
		User:      user.Sanitized(),
	}, nil
}

// Login verifies the credentials and issues a bearer token. Unknown email
// and wrong password produce the same error.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResult, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)

	if err := s.validator.ValidateLogin(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("Login request is invalid", validationErrs.Details())
		}
		return nil, apperrors.Internal("Failed to validate login", err)
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.InvalidCredentials()
		}
		return nil, apperrors.Internal("Failed to look up user", err)
	}

	if !s.hasher.Verify(user.Password, req.Password) {
		return nil, apperrors.InvalidCredentials()
	}

	if req.AdminOnly && user.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("Admin access only")
	}

	if user.Role == model.RoleOperator && !user.IsApprovedOperator() {
		status := model.OperatorPending
		if user.OperatorProfile != nil {
			status = user.OperatorProfile.Status
		}
		s.cfg.Log.Info("Operator login blocked", "id", user.ID, "status", status)
		return nil, apperrors.Forbidden("Operator account is not approved")
	}

	signed, exp, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("User logged in", "id", user.ID, "role", user.Role)

	return &model.AuthResult{
		Token:     signed,
		ExpiresAt: exp,
		User:      user.Sanitized(),
	}, nil
}

func (s *authService) sanitizeRegister(req *model.RegisterRequest) {
	req.FirstName = sanitizer.NormalizeName(req.FirstName)
	req.LastName = sanitizer.NormalizeName(req.LastName)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Phone = sanitizer.SanitizePhone(req.Phone)
	req.CompanyName = sanitizer.TrimAndNormalize(req.CompanyName)
}
