package service

import (
	"context"
	"errors"

	userserrors "flightfinder/internal/users/errors"
	"flightfinder/internal/users/repository"
	"flightfinder/pkg/config"
	apperrors "flightfinder/pkg/errors"
	"flightfinder/pkg/model"
)

type AdminService interface {
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	ListUsers(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error)
	ListOperators(ctx context.Context, status string, limit int, offset int64) ([]*model.User, error)
	SetOperatorStatus(ctx context.Context, operatorID, status string) (*model.User, error)
}

type adminService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAdminService(userRepo repository.UserRepository, cfg *config.Config) AdminService {
	return &adminService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (s *adminService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) || errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("User", userID)
		}
		return nil, apperrors.Internal("Failed to retrieve profile", err)
	}
	return user.Sanitized(), nil
}

func (s *adminService) ListUsers(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	users, err := s.userRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve users", err)
	}
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count users", err)
	}

	return sanitizeAll(users), total, nil
}

func (s *adminService) ListOperators(ctx context.Context, status string, limit int, offset int64) ([]*model.User, error) {
	if status != "" && status != model.OperatorPending && status != model.OperatorApproved && status != model.OperatorRejected {
		return nil, apperrors.InvalidInput("status must be one of: pending, approved, rejected")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	operators, err := s.userRepo.FindOperatorsByStatus(ctx, status, limit, offset)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve operators", err)
	}

	return sanitizeAll(operators), nil
}

// SetOperatorStatus approves or rejects a pending operator account. The
// decision takes effect at the operator's next login attempt.
func (s *adminService) SetOperatorStatus(ctx context.Context, operatorID, status string) (*model.User, error) {
	if status != model.OperatorApproved && status != model.OperatorRejected {
		return nil, apperrors.InvalidInput("status must be approved or rejected")
	}

	result, err := s.userRepo.UpdateOperatorStatus(ctx, operatorID, status)
	if err != nil {
		if errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Operator", operatorID)
		}
		return nil, apperrors.Internal("Failed to update operator status", err)
	}
	if result.MatchedCount == 0 {
		return nil, apperrors.NotFoundWithID("Operator", operatorID)
	}

	s.cfg.Log.Info("Operator status updated", "id", operatorID, "status", status)

	user, err := s.userRepo.FindByID(ctx, operatorID)
	if err != nil {
		return nil, apperrors.Internal("Failed to reload operator", err)
	}
	return user.Sanitized(), nil
}

func sanitizeAll(users []*model.User) []*model.User {
	out := make([]*model.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}
	return out
}
