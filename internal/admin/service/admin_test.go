package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	userserrors "flightfinder/internal/users/errors"
	"flightfinder/pkg/config"
	apperrors "flightfinder/pkg/errors"
	"flightfinder/pkg/logger"
	"flightfinder/pkg/model"
)

type mockUserRepository struct {
	findByIDFunc             func(ctx context.Context, id string) (*model.User, error)
	updateOperatorStatusFunc func(ctx context.Context, id, status string) (*mongo.UpdateResult, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error { return nil }

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) FindOperatorsByStatus(ctx context.Context, status string, limit int, offset int64) ([]*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) UpdateOperatorStatus(ctx context.Context, id string, status string) (*mongo.UpdateResult, error) {
	if m.updateOperatorStatusFunc != nil {
		return m.updateOperatorStatusFunc(ctx, id, status)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) { return 0, nil }

func (m *mockUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	return 0, nil
}

func newTestAdminService(repo *mockUserRepository) AdminService {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	return NewAdminService(repo, &config.Config{Log: log})
}

func TestSetOperatorStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestAdminService(&mockUserRepository{})

	_, err := svc.SetOperatorStatus(context.Background(), "64b0c8f2a2b3c4d5e6f70003", "pending")

	require.Error(t, err)
	assert.Equal(t, 400, apperrors.AsAppError(err).StatusCode())
}

func TestSetOperatorStatusUnknownOperator(t *testing.T) {
	svc := newTestAdminService(&mockUserRepository{
		updateOperatorStatusFunc: func(ctx context.Context, id, status string) (*mongo.UpdateResult, error) {
			return &mongo.UpdateResult{MatchedCount: 0}, nil
		},
	})

	_, err := svc.SetOperatorStatus(context.Background(), "64b0c8f2a2b3c4d5e6f70003", model.OperatorApproved)

	require.Error(t, err)
	assert.Equal(t, 404, apperrors.AsAppError(err).StatusCode())
}

func TestSetOperatorStatusApproves(t *testing.T) {
	var gotStatus string
	svc := newTestAdminService(&mockUserRepository{
		updateOperatorStatusFunc: func(ctx context.Context, id, status string) (*mongo.UpdateResult, error) {
			gotStatus = status
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{
				ID:   id,
				Role: model.RoleOperator,
				OperatorProfile: &model.OperatorProfile{
					CompanyName: "Skylift Air",
					Status:      model.OperatorApproved,
				},
			}, nil
		},
	})

	user, err := svc.SetOperatorStatus(context.Background(), "64b0c8f2a2b3c4d5e6f70003", model.OperatorApproved)

	require.NoError(t, err)
	assert.Equal(t, model.OperatorApproved, gotStatus)
	assert.Equal(t, model.OperatorApproved, user.OperatorProfile.Status)
}

func TestListOperatorsRejectsUnknownStatusFilter(t *testing.T) {
	svc := newTestAdminService(&mockUserRepository{})

	_, err := svc.ListOperators(context.Background(), "suspended", 10, 0)

	require.Error(t, err)
	assert.Equal(t, 400, apperrors.AsAppError(err).StatusCode())
}
