package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"flightfinder/internal/auth/validator"
	userserrors "flightfinder/internal/users/errors"
	"flightfinder/pkg/config"
	apperrors "flightfinder/pkg/errors"
	"flightfinder/pkg/logger"
	"flightfinder/pkg/model"
	"flightfinder/pkg/password"
	"flightfinder/pkg/token"
)

type mockUserRepository struct {
	createFunc      func(ctx context.Context, user *model.User) error
	findByEmailFunc func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = "64b0c8f2a2b3c4d5e6f70001"
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) FindOperatorsByStatus(ctx context.Context, status string, limit int, offset int64) ([]*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) UpdateOperatorStatus(ctx context.Context, id string, status string) (*mongo.UpdateResult, error) {
	return nil, nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) { return 0, nil }

func (m *mockUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	return 0, nil
}

func newTestService(repo *mockUserRepository) AuthService {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	cfg := &config.Config{Log: log}
	return NewAuthService(
		repo,
		validator.NewAuthValidator(log),
		password.NewHasher(4),
		token.NewIssuer("test-secret", time.Hour),
		cfg,
	)
}

func TestRegisterTravelerIssuesToken(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	result, err := svc.Register(context.Background(), &model.RegisterRequest{
		FirstName: "Ada",
		Email:     "Ada@Example.com",
		Password:  "supersecret",
		Role:      model.RoleTraveler,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, model.RoleTraveler, result.User.Role)
	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.Empty(t, result.User.Password)
}

func TestRegisterOperatorStartsPendingWithoutToken(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	result, err := svc.Register(context.Background(), &model.RegisterRequest{
		FirstName:   "Skylift",
		Email:       "ops@skylift.io",
		Password:    "supersecret",
		Role:        model.RoleOperator,
		CompanyName: "Skylift Air",
	})

	require.NoError(t, err)
	assert.Empty(t, result.Token)
	require.NotNil(t, result.User.OperatorProfile)
	assert.Equal(t, model.OperatorPending, result.User.OperatorProfile.Status)
}

func TestRegisterOperatorRequiresCompanyName(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		FirstName: "Skylift",
		Email:     "ops@skylift.io",
		Password:  "supersecret",
		Role:      model.RoleOperator,
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.AsAppError(err).Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(&mockUserRepository{
		createFunc: func(ctx context.Context, user *model.User) error {
			return userserrors.ErrDuplicateEmail
		},
	})

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		FirstName: "Ada",
		Email:     "ada@example.com",
		Password:  "supersecret",
		Role:      model.RoleTraveler,
	})

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeDuplicateEmail, appErr.Code)
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestLoginUnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	hasher := password.NewHasher(4)
	hash, err := hasher.Hash("correct-password")
	require.NoError(t, err)

	svc := newTestService(&mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			if email == "known@example.com" {
				return &model.User{
					ID:       "64b0c8f2a2b3c4d5e6f70002",
					Email:    email,
					Password: hash,
					Role:     model.RoleTraveler,
				}, nil
			}
			return nil, userserrors.ErrNotFound
		},
	})

	_, errUnknown := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "unknown@example.com",
		Password: "whatever1",
	})
	_, errWrongPass := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "known@example.com",
		Password: "wrong-password",
	})

	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
	assert.Equal(t, apperrors.CodeInvalidCredentials, apperrors.AsAppError(errUnknown).Code)
}

func TestLoginSuccess(t *testing.T) {
	hasher := password.NewHasher(4)
	hash, err := hasher.Hash("correct-password")
	require.NoError(t, err)

	svc := newTestService(&mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{
				ID:       "64b0c8f2a2b3c4d5e6f70002",
				Email:    email,
				Password: hash,
				Role:     model.RoleTraveler,
			}, nil
		},
	})

	result, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "Known@Example.com",
		Password: "correct-password",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))
}

func TestLoginPendingOperatorForbidden(t *testing.T) {
	hasher := password.NewHasher(4)
	hash, err := hasher.Hash("correct-password")
	require.NoError(t, err)

	for _, status := range []string{model.OperatorPending, model.OperatorRejected} {
		svc := newTestService(&mockUserRepository{
			findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
				return &model.User{
					ID:       "64b0c8f2a2b3c4d5e6f70003",
					Email:    email,
					Password: hash,
					Role:     model.RoleOperator,
					OperatorProfile: &model.OperatorProfile{
						CompanyName: "Skylift Air",
						Status:      status,
					},
				}, nil
			},
		})

		_, err := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "ops@skylift.io",
			Password: "correct-password",
		})

		require.Error(t, err, status)
		assert.Equal(t, 403, apperrors.AsAppError(err).StatusCode(), status)
	}
}

func TestLoginAdminOnlyRejectsNonAdmin(t *testing.T) {
	hasher := password.NewHasher(4)
	hash, err := hasher.Hash("correct-password")
	require.NoError(t, err)

	roles := map[string]string{
		"traveler@example.com": model.RoleTraveler,
		"admin@example.com":    model.RoleAdmin,
	}
	svc := newTestService(&mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{
				ID:       "64b0c8f2a2b3c4d5e6f70004",
				Email:    email,
				Password: hash,
				Role:     roles[email],
			}, nil
		},
	})

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:     "traveler@example.com",
		Password:  "correct-password",
		AdminOnly: true,
	})
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.AsAppError(err).StatusCode())

	result, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:     "admin@example.com",
		Password:  "correct-password",
		AdminOnly: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}
