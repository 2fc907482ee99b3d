package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/expense_sharing_app/internal/apperrors"
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_sharing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_sharing_app/internal/core/ports/services"
	"github.com/SscSPs/expense_sharing_app/internal/core/services"
	"github.com/SscSPs/expense_sharing_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ExpenseServiceTestSuite struct {
	suite.Suite
	expenseRepo *MockExpenseRepository
	userRepo    *MockUserRepository
	tagRepo     *MockTagRepository
	auditRepo   *MockAuditRepository
	cache       *MockBalanceCache
	service     portssvc.ExpenseSvcFacade
	ctx         context.Context
	date        time.Time
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.expenseRepo = new(MockExpenseRepository)
	suite.userRepo = new(MockUserRepository)
	suite.tagRepo = new(MockTagRepository)
	suite.auditRepo = new(MockAuditRepository)
	suite.cache = new(MockBalanceCache)
	suite.service = services.NewExpenseService(
		suite.expenseRepo,
		suite.userRepo,
		suite.tagRepo,
		services.WithAuditSink(suite.auditRepo),
		services.WithBalanceCache(suite.cache),
	)
	suite.ctx = context.Background()
	suite.date = time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)
}

func (suite *ExpenseServiceTestSuite) knownUsers(ids ...string) {
	for _, id := range ids {
		suite.userRepo.On("FindUserByID", mock.Anything, id).Return(&domain.User{UserID: id}, nil).Maybe()
	}
}

func (suite *ExpenseServiceTestSuite) existingExpense() *domain.Expense {
	return &domain.Expense{
		ExpenseID:   "e1",
		Title:       "Restaurant",
		Date:        suite.date,
		TotalAmount: dec("50"),
		SplitMode:   domain.SplitByAmounts,
		PayerID:     "u1",
		Details: []domain.Detail{
			{DetailID: "d1", ExpenseID: "e1", UserID: "u1", Amount: dec("25")},
			{DetailID: "d2", ExpenseID: "e1", UserID: "u2", Amount: dec("25")},
		},
		AuditFields: domain.AuditFields{CreatedBy: "u1", CreatedAt: suite.date},
	}
}

func violationCodes(err error) []string {
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	codes := make([]string, len(verr.Violations))
	for i, v := range verr.Violations {
		codes[i] = v.Code
	}
	return codes
}

// --- Test Cases ---

func (suite *ExpenseServiceTestSuite) TestCreateExpense_AllocatesOmittedAmounts() {
	suite.knownUsers("u1", "u2", "u3")
	req := dto.ExpenseRequest{
		Title:       "Courses",
		Date:        suite.date,
		TotalAmount: dec("100"),
		SplitMode:   domain.SplitByShares,
		PayerID:     "u1",
		Details:     []dto.DetailRequest{{UserID: "u1"}, {UserID: "u2"}, {UserID: "u3"}},
	}

	suite.expenseRepo.On("SaveExpense", mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		return len(e.Details) == 3 &&
			e.Details[0].Amount.Equal(dec("33.33")) &&
			e.Details[1].Amount.Equal(dec("33.33")) &&
			e.Details[2].Amount.Equal(dec("33.34")) &&
			e.CreatedBy == "u2"
	})).Return(nil).Once()
	suite.cache.On("Invalidate", mock.Anything, []string{"u1", "u2", "u3"}).Return(nil).Once()
	suite.auditRepo.On("Record", mock.Anything, mock.MatchedBy(func(l domain.AuditLog) bool {
		return l.Action == domain.AuditCreate && l.UserID == "u2" && l.ExpenseID != nil &&
			l.Label == "Courses" && l.Amount.Equal(dec("100"))
	})).Return(nil).Once()

	created, err := suite.service.CreateExpense(suite.ctx, req, "u2")

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.ExpenseID)
	suite.Equal("33.34", created.Details[2].Amount.String())
	suite.expenseRepo.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
	suite.auditRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_AmountMismatchRejected() {
	suite.knownUsers("u1", "u2")
	req := dto.ExpenseRequest{
		Title:       "Essence",
		Date:        suite.date,
		TotalAmount: dec("100"),
		SplitMode:   domain.SplitByAmounts,
		PayerID:     "u1",
		Details: []dto.DetailRequest{
			{UserID: "u1", Amount: decPtr("60")},
			{UserID: "u2", Amount: decPtr("30")},
		},
	}

	created, err := suite.service.CreateExpense(suite.ctx, req, "u1")

	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
	var verr *apperrors.ValidationError
	suite.Require().ErrorAs(err, &verr)
	suite.Require().Len(verr.Violations, 1)
	suite.Equal("amount_mismatch", verr.Violations[0].Code)
	suite.Equal("100", verr.Violations[0].Expected.String())
	suite.Equal("90", verr.Violations[0].Actual.String())
	suite.expenseRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_SubCentAmountsValidatedAsStored() {
	suite.knownUsers("u1", "u2")
	details := make([]dto.DetailRequest, 10)
	for i := range details {
		details[i] = dto.DetailRequest{UserID: "u2", Amount: decPtr("0.005")}
	}
	details[0].UserID = "u1"
	req := dto.ExpenseRequest{
		Title:       "Bonbons",
		Date:        suite.date,
		TotalAmount: dec("0.05"),
		SplitMode:   domain.SplitByAmounts,
		PayerID:     "u1",
		Details:     details,
	}

	created, err := suite.service.CreateExpense(suite.ctx, req, "u1")

	suite.Nil(created)
	suite.Equal([]string{"amount_mismatch"}, violationCodes(err))
	suite.expenseRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_RoundsAmountsToCents() {
	suite.knownUsers("u1", "u2")
	req := dto.ExpenseRequest{
		Title:       "Boulangerie",
		Date:        suite.date,
		TotalAmount: dec("20.004"),
		SplitMode:   domain.SplitByAmounts,
		PayerID:     "u1",
		Details: []dto.DetailRequest{
			{UserID: "u1", Amount: decPtr("10.004")},
			{UserID: "u2", Amount: decPtr("9.996")},
		},
	}
	suite.expenseRepo.On("SaveExpense", mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		return e.TotalAmount.Equal(dec("20")) &&
			e.Details[0].Amount.Equal(dec("10")) &&
			e.Details[1].Amount.Equal(dec("10"))
	})).Return(nil).Once()
	suite.cache.On("Invalidate", mock.Anything, mock.Anything).Return(nil)
	suite.auditRepo.On("Record", mock.Anything, mock.Anything).Return(nil)

	created, err := suite.service.CreateExpense(suite.ctx, req, "u1")

	suite.Require().NoError(err)
	suite.Equal("20.00", created.TotalAmount.StringFixed(2))
	suite.Equal("10.00", created.Details[1].Amount.StringFixed(2))
	suite.expenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_WithinToleranceAccepted() {
	suite.knownUsers("u1", "u2")
	req := dto.ExpenseRequest{
		Title:       "Pharmacie",
		Date:        suite.date,
		TotalAmount: dec("100"),
		SplitMode:   domain.SplitByAmounts,
		PayerID:     "u1",
		Details: []dto.DetailRequest{
			{UserID: "u1", Amount: decPtr("60")},
			{UserID: "u2", Amount: decPtr("39.99")},
		},
	}
	suite.expenseRepo.On("SaveExpense", mock.Anything, mock.AnythingOfType("domain.Expense")).Return(nil).Once()
	suite.cache.On("Invalidate", mock.Anything, mock.Anything).Return(nil)
	suite.auditRepo.On("Record", mock.Anything, mock.Anything).Return(nil)

	created, err := suite.service.CreateExpense(suite.ctx, req, "u1")

	suite.Require().NoError(err)
	suite.Equal("39.99", created.Details[1].Amount.String())
	suite.expenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_UnknownReferences() {
	suite.knownUsers("u1")
	suite.userRepo.On("FindUserByID", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound)
	suite.tagRepo.On("FindTagByID", mock.Anything, "t-missing").Return(nil, apperrors.ErrNotFound)
	req := dto.ExpenseRequest{
		Title:       "Taxi",
		Date:        suite.date,
		TotalAmount: dec("20"),
		SplitMode:   domain.SplitByAmounts,
		PayerID:     "u1",
		TagID:       strPtr("t-missing"),
		Details:     []dto.DetailRequest{{UserID: "ghost", Amount: decPtr("20")}},
	}

	_, err := suite.service.CreateExpense(suite.ctx, req, "u1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ElementsMatch([]string{"unknown_user", "unknown_tag"}, violationCodes(err))
	suite.expenseRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_AuditFailureDoesNotFailWrite() {
	suite.knownUsers("u1")
	req := dto.ExpenseRequest{
		Title:       "Café",
		Date:        suite.date,
		TotalAmount: dec("3.50"),
		SplitMode:   domain.SplitByAmounts,
		PayerID:     "u1",
		Details:     []dto.DetailRequest{{UserID: "u1", Amount: decPtr("3.50")}},
	}
	suite.expenseRepo.On("SaveExpense", mock.Anything, mock.Anything).Return(nil).Once()
	suite.cache.On("Invalidate", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	suite.auditRepo.On("Record", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	created, err := suite.service.CreateExpense(suite.ctx, req, "u1")

	suite.NoError(err)
	suite.NotNil(created)
}

func (suite *ExpenseServiceTestSuite) TestGetExpenseByID_NonParticipantGetsNotFound() {
	suite.expenseRepo.On("FindExpenseByID", mock.Anything, "e1").Return(suite.existingExpense(), nil)

	expense, err := suite.service.GetExpenseByID(suite.ctx, "e1", "u3")

	suite.Nil(expense)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ExpenseServiceTestSuite) TestGetExpenseByID_Participant() {
	suite.expenseRepo.On("FindExpenseByID", mock.Anything, "e1").Return(suite.existingExpense(), nil)

	expense, err := suite.service.GetExpenseByID(suite.ctx, "e1", "u2")

	suite.Require().NoError(err)
	suite.Equal("Restaurant", expense.Title)
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_InvalidatesOldAndNewUsers() {
	suite.knownUsers("u3")
	suite.expenseRepo.On("FindExpenseByID", mock.Anything, "e1").Return(suite.existingExpense(), nil)
	req := dto.ExpenseRequest{
		Title:       "Restaurant",
		Date:        suite.date,
		TotalAmount: dec("50"),
		SplitMode:   domain.SplitByAmounts,
		PayerID:     "u3",
		Details:     []dto.DetailRequest{{UserID: "u3", Amount: decPtr("50")}},
	}
	suite.expenseRepo.On("UpdateExpense", mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		return e.ExpenseID == "e1" && e.CreatedBy == "u1" && e.LastUpdatedBy == "u2" && e.PayerID == "u3"
	})).Return(nil).Once()
	suite.cache.On("Invalidate", mock.Anything, []string{"u1", "u2", "u3"}).Return(nil).Once()
	suite.auditRepo.On("Record", mock.Anything, mock.MatchedBy(func(l domain.AuditLog) bool {
		return l.Action == domain.AuditUpdate && *l.ExpenseID == "e1"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateExpense(suite.ctx, "e1", req, "u2")

	suite.Require().NoError(err)
	suite.Equal("u3", updated.PayerID)
	suite.expenseRepo.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
	suite.auditRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_NonParticipant() {
	suite.expenseRepo.On("FindExpenseByID", mock.Anything, "e1").Return(suite.existingExpense(), nil)

	_, err := suite.service.UpdateExpense(suite.ctx, "e1", dto.ExpenseRequest{}, "u9")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.expenseRepo.AssertNotCalled(suite.T(), "UpdateExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_RecordsAuditWithoutExpenseReference() {
	suite.expenseRepo.On("FindExpenseByID", mock.Anything, "e1").Return(suite.existingExpense(), nil)
	suite.expenseRepo.On("DeleteExpense", mock.Anything, "e1").Return(nil).Once()
	suite.cache.On("Invalidate", mock.Anything, []string{"u1", "u2"}).Return(nil).Once()
	suite.auditRepo.On("Record", mock.Anything, mock.MatchedBy(func(l domain.AuditLog) bool {
		return l.Action == domain.AuditDelete && l.ExpenseID == nil && l.Label == "Restaurant" && l.Amount.Equal(dec("50"))
	})).Return(nil).Once()

	err := suite.service.DeleteExpense(suite.ctx, "e1", "u1")

	suite.Require().NoError(err)
	suite.expenseRepo.AssertExpectations(suite.T())
	suite.auditRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestListExpenses_ByTagSlug() {
	suite.tagRepo.On("FindTagBySlug", mock.Anything, "food").Return(&domain.Tag{TagID: "t1", Slug: "food"}, nil)
	suite.expenseRepo.On("FindExpenses", mock.Anything, mock.MatchedBy(func(f portsrepo.ExpenseFilter) bool {
		return f.ParticipantID == "u1" && f.TagID != nil && *f.TagID == "t1" && f.Limit == 20
	})).Return([]domain.Expense{*suite.existingExpense()}, "next", nil).Once()

	resp, err := suite.service.ListExpenses(suite.ctx, "u1", dto.ListExpensesParams{Tag: "food", Limit: 20})

	suite.Require().NoError(err)
	suite.Len(resp.Expenses, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next", *resp.NextToken)
}

func (suite *ExpenseServiceTestSuite) TestListExpenses_UnknownTagIsEmpty() {
	suite.tagRepo.On("FindTagBySlug", mock.Anything, "nope").Return(nil, apperrors.ErrNotFound)
	suite.tagRepo.On("FindTagByID", mock.Anything, "nope").Return(nil, apperrors.ErrNotFound)

	resp, err := suite.service.ListExpenses(suite.ctx, "u1", dto.ListExpensesParams{Tag: "nope", Limit: 20})

	suite.Require().NoError(err)
	suite.Empty(resp.Expenses)
	suite.Nil(resp.NextToken)
	suite.expenseRepo.AssertNotCalled(suite.T(), "FindExpenses", mock.Anything, mock.Anything)
}

func TestExpenseService(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
