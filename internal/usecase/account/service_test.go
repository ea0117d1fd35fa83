package account

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/tradesim-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockAccountRepository is a mock implementation of AccountRepository for testing
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

func TestOpenAccount(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAccountRepository)
	service := NewAccountService(mockRepo, decimal.NewFromInt(100000), zap.NewNop())

	mockRepo.On("Create", ctx, mock.MatchedBy(func(a *domain.Account) bool {
		return a.Name == "Asha" && a.CashBalance.Equal(decimal.NewFromInt(100000)) && a.ID != uuid.Nil
	})).Return(nil).Once()

	account, err := service.OpenAccount(ctx, " Asha ")
	require.NoError(t, err)
	assert.Equal(t, "Asha", account.Name)
	assert.Equal(t, "100000.00", account.CashBalance.StringFixed(2))

	mockRepo.AssertExpectations(t)
}

func TestOpenAccount_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("blank name never reaches storage", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		service := NewAccountService(mockRepo, decimal.NewFromInt(100000), zap.NewNop())

		_, err := service.OpenAccount(ctx, "  ")
		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("storage failure is returned", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		service := NewAccountService(mockRepo, decimal.NewFromInt(100000), zap.NewNop())
		mockRepo.On("Create", ctx, mock.Anything).Return(domain.NewStorageError("failed to create account", errors.New("disk full")))

		_, err := service.OpenAccount(ctx, "Asha")
		assert.ErrorIs(t, err, domain.ErrStorageFailure)
	})
}

func TestGetAccount(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAccountRepository)
	service := NewAccountService(mockRepo, decimal.NewFromInt(100000), zap.NewNop())
	id := uuid.New()

	mockRepo.On("GetByID", ctx, id).Return(nil, domain.ErrAccountNotFound)

	_, err := service.GetAccount(ctx, id)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	mockRepo.AssertExpectations(t)
}
