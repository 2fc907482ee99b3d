package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/expense_sharing_app/internal/apperrors"
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/SscSPs/expense_sharing_app/internal/core/services"
	"github.com/SscSPs/expense_sharing_app/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomExpenses(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 30, 15, 0, 0, 0, time.UTC)
	users := []domain.User{{UserID: "a"}, {UserID: "b"}, {UserID: "c"}}

	userRepo := new(MockUserRepository)
	tagRepo := new(MockTagRepository)
	expenseSvc := new(MockExpenseWriter)
	userRepo.On("FindAllUsers", mock.Anything).Return(users, nil)
	tagRepo.On("FindTags", mock.Anything).Return([]domain.Tag{{TagID: "t1"}}, nil)

	var requests []dto.ExpenseRequest
	expenseSvc.On("CreateExpense", mock.Anything, mock.AnythingOfType("dto.ExpenseRequest"), mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			req := args.Get(1).(dto.ExpenseRequest)
			assert.Equal(t, req.PayerID, args.String(2))
			requests = append(requests, req)
		}).
		Return(&domain.Expense{}, nil)

	gen := services.NewGeneratorService(userRepo, tagRepo, expenseSvc, services.WithRandSeed(42), services.WithClock(func() time.Time { return now }))
	result, err := gen.GenerateRandomExpenses(ctx, dto.GenerateExpensesRequest{
		Count:     25,
		MinAmount: dec("5"),
		MaxAmount: dec("100"),
		DaysBack:  30,
	})

	require.NoError(t, err)
	assert.Equal(t, 25, result.Created)
	require.Len(t, requests, 25)

	total := dec("0")
	for _, req := range requests {
		total = total.Add(req.TotalAmount)
		assert.NotEmpty(t, req.Title)
		assert.True(t, req.SplitMode.IsValid())
		assert.True(t, req.TotalAmount.GreaterThanOrEqual(dec("5")) && req.TotalAmount.LessThanOrEqual(dec("100")))
		assert.LessOrEqual(t, req.TotalAmount.Exponent()*-1, int32(2))
		assert.False(t, req.Date.After(now))
		assert.False(t, req.Date.Before(now.AddDate(0, 0, -30)))
		assert.True(t, req.AmountsOmitted())
		require.NotEmpty(t, req.Details)
		assert.LessOrEqual(t, len(req.Details), len(users))

		seen := map[string]bool{}
		for _, d := range req.Details {
			assert.False(t, seen[d.UserID], "participant drawn twice")
			seen[d.UserID] = true
			require.NotNil(t, d.Shares)
			assert.True(t, *d.Shares >= 1 && *d.Shares <= 3)
		}
		if req.TagID != nil {
			assert.Equal(t, "t1", *req.TagID)
		}
	}
	assert.True(t, total.Equal(result.Total))
}

func TestGenerateRandomExpenses_NoUsers(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindAllUsers", mock.Anything).Return([]domain.User{}, nil)

	gen := services.NewGeneratorService(userRepo, new(MockTagRepository), new(MockExpenseWriter))
	_, err := gen.GenerateRandomExpenses(context.Background(), dto.GenerateExpensesRequest{
		Count:     1,
		MinAmount: dec("5"),
		MaxAmount: dec("10"),
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestGenerateRandomExpenses_InvalidRange(t *testing.T) {
	gen := services.NewGeneratorService(new(MockUserRepository), new(MockTagRepository), new(MockExpenseWriter))
	_, err := gen.GenerateRandomExpenses(context.Background(), dto.GenerateExpensesRequest{
		Count:     1,
		MinAmount: dec("50"),
		MaxAmount: dec("10"),
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}
