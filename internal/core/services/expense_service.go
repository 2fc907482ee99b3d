package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/expense_sharing_app/internal/apperrors"
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_sharing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_sharing_app/internal/core/ports/services"
	"github.com/SscSPs/expense_sharing_app/internal/dto"
	"github.com/SscSPs/expense_sharing_app/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryFacade
	userRepo    portsrepo.UserReader
	tagRepo     portsrepo.TagReader
	auditSink   portsrepo.AuditSink
	cache       portsrepo.BalanceCache
}

// ExpenseServiceOption is a functional option for configuring the expense service
type ExpenseServiceOption func(*expenseService)

// WithAuditSink records every expense change.
func WithAuditSink(sink portsrepo.AuditSink) ExpenseServiceOption {
	return func(s *expenseService) {
		s.auditSink = sink
	}
}

// WithBalanceCache invalidates cached balances on every expense change.
func WithBalanceCache(cache portsrepo.BalanceCache) ExpenseServiceOption {
	return func(s *expenseService) {
		s.cache = cache
	}
}

// NewExpenseService creates a new expense service with the provided options
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryFacade, userRepo portsrepo.UserReader, tagRepo portsrepo.TagReader, options ...ExpenseServiceOption) portssvc.ExpenseSvcFacade {
	svc := &expenseService{
		expenseRepo: expenseRepo,
		userRepo:    userRepo,
		tagRepo:     tagRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

func (s *expenseService) GetExpenseByID(ctx context.Context, expenseID string, requestingUserID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense %s: %w", expenseID, err)
	}
	// Non-participants cannot tell a hidden expense from a missing one.
	if !expense.HasParticipant(requestingUserID) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, apperrors.ErrNotFound)
	}
	return expense, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, requestingUserID string, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error) {
	filter := portsrepo.ExpenseFilter{
		ParticipantID: requestingUserID,
		Limit:         params.Limit,
		NextToken:     params.NextToken,
	}

	if params.Tag != "" {
		tag, err := s.resolveTag(ctx, params.Tag)
		if errors.Is(err, apperrors.ErrNotFound) {
			resp := dto.ToListExpensesResponse(nil, nil)
			return &resp, nil
		}
		if err != nil {
			return nil, err
		}
		filter.TagID = &tag.TagID
	}

	expenses, nextToken, err := s.expenseRepo.FindExpenses(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses", slog.String("user_id", requestingUserID))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	resp := dto.ToListExpensesResponse(expenses, nextToken)
	return &resp, nil
}

// resolveTag accepts a tag slug or id.
func (s *expenseService) resolveTag(ctx context.Context, ref string) (*domain.Tag, error) {
	tag, err := s.tagRepo.FindTagBySlug(ctx, ref)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve tag %q: %w", ref, err)
	}
	tag, err = s.tagRepo.FindTagByID(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tag %q: %w", ref, err)
	}
	return tag, nil
}

func (s *expenseService) CreateExpense(ctx context.Context, req dto.ExpenseRequest, actorID string) (*domain.Expense, error) {
	now := time.Now().UTC()
	expense, err := s.buildExpense(ctx, uuid.NewString(), req)
	if err != nil {
		return nil, err
	}
	expense.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("expense_id", expense.ExpenseID))
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.invalidateBalances(ctx, expense.AffectedUserIDs())
	s.recordAudit(ctx, domain.AuditCreate, actorID, &expense)
	s.LogInfo(ctx, "Expense created",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("total_amount", expense.TotalAmount.String()))
	return &expense, nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, expenseID string, req dto.ExpenseRequest, actorID string) (*domain.Expense, error) {
	existing, err := s.GetExpenseByID(ctx, expenseID, actorID)
	if err != nil {
		return nil, err
	}

	expense, err := s.buildExpense(ctx, expenseID, req)
	if err != nil {
		return nil, err
	}
	expense.AuditFields = domain.AuditFields{
		CreatedAt:     existing.CreatedAt,
		CreatedBy:     existing.CreatedBy,
		LastUpdatedAt: time.Now().UTC(),
		LastUpdatedBy: actorID,
	}

	if err := s.expenseRepo.UpdateExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to update expense", slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to update expense %s: %w", expenseID, err)
	}

	s.invalidateBalances(ctx, append(existing.AffectedUserIDs(), expense.AffectedUserIDs()...))
	s.recordAudit(ctx, domain.AuditUpdate, actorID, &expense)
	s.LogInfo(ctx, "Expense updated", slog.String("expense_id", expenseID))
	return &expense, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, expenseID string, actorID string) error {
	existing, err := s.GetExpenseByID(ctx, expenseID, actorID)
	if err != nil {
		return err
	}

	if err := s.expenseRepo.DeleteExpense(ctx, expenseID); err != nil {
		s.LogError(ctx, err, "Failed to delete expense", slog.String("expense_id", expenseID))
		return fmt.Errorf("failed to delete expense %s: %w", expenseID, err)
	}

	s.invalidateBalances(ctx, existing.AffectedUserIDs())
	// The row is gone, so the entry keeps only the title and amount.
	deleted := *existing
	deleted.ExpenseID = ""
	s.recordAudit(ctx, domain.AuditDelete, actorID, &deleted)
	s.LogInfo(ctx, "Expense deleted", slog.String("expense_id", expenseID))
	return nil
}

// buildExpense turns a request into a validated expense. Amounts are rounded to
// cents before validation and allocated from the total when every detail omits its own.
func (s *expenseService) buildExpense(ctx context.Context, expenseID string, req dto.ExpenseRequest) (domain.Expense, error) {
	expense := domain.Expense{
		ExpenseID:   expenseID,
		Title:       req.Title,
		Date:        req.Date,
		TotalAmount: req.TotalAmount.Round(accounting.CentPlaces),
		SplitMode:   req.SplitMode,
		PayerID:     req.PayerID,
		TagID:       req.TagID,
		Details:     make([]domain.Detail, len(req.Details)),
	}
	for i, d := range req.Details {
		amount := decimal.Zero
		if d.Amount != nil {
			amount = d.Amount.Round(accounting.CentPlaces)
		}
		expense.Details[i] = domain.Detail{
			DetailID:  uuid.NewString(),
			ExpenseID: expenseID,
			UserID:    d.UserID,
			Shares:    d.Shares,
			Amount:    amount,
		}
	}

	if req.AmountsOmitted() && expense.SplitMode.IsValid() && !expense.TotalAmount.IsNegative() {
		if err := allocateDetails(&expense); err != nil {
			return domain.Expense{}, err
		}
	}

	result := accounting.ValidateExpense(expense)
	result.Violations = append(result.Violations, s.checkReferences(ctx, expense)...)
	if !result.OK() {
		s.LogDebug(ctx, "Expense rejected", slog.Int("violations", len(result.Violations)))
		return domain.Expense{}, result.Err()
	}
	return expense, nil
}

// allocateDetails fills detail amounts from the total. Shares default to 1.
func allocateDetails(expense *domain.Expense) error {
	participants := make([]accounting.Participant, len(expense.Details))
	for i, d := range expense.Details {
		weight := 1
		if d.Shares != nil {
			weight = *d.Shares
		}
		participants[i] = accounting.Participant{UserID: d.UserID, Weight: weight}
	}
	allocations, err := accounting.Allocate(expense.TotalAmount, expense.SplitMode, participants)
	if err != nil {
		// Rule violations are reported by ValidateExpense; nothing to allocate.
		if errors.Is(err, apperrors.ErrInvalidArgument) {
			return nil
		}
		return err
	}
	for i := range expense.Details {
		expense.Details[i].Amount = allocations[i].Amount
	}
	return nil
}

// checkReferences reports unknown payer, participants and tag.
func (s *expenseService) checkReferences(ctx context.Context, expense domain.Expense) []apperrors.Violation {
	var violations []apperrors.Violation

	checked := make(map[string]bool)
	userIDs := append([]string{expense.PayerID}, expense.ParticipantIDs()...)
	for _, id := range userIDs {
		if id == "" || checked[id] {
			continue
		}
		checked[id] = true
		if _, err := s.userRepo.FindUserByID(ctx, id); err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				s.LogError(ctx, err, "Failed to check expense user", slog.String("user_id", id))
			}
			violations = append(violations, apperrors.Violation{
				Code:    "unknown_user",
				Field:   "userID",
				Message: fmt.Sprintf("user %s does not exist", id),
			})
		}
	}

	if expense.TagID != nil {
		if _, err := s.tagRepo.FindTagByID(ctx, *expense.TagID); err != nil {
			violations = append(violations, apperrors.Violation{
				Code:    "unknown_tag",
				Field:   "tagID",
				Message: fmt.Sprintf("tag %s does not exist", *expense.TagID),
			})
		}
	}
	return violations
}

func (s *expenseService) invalidateBalances(ctx context.Context, userIDs []string) {
	if s.cache == nil || len(userIDs) == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, userIDs...); err != nil {
		s.LogWarn(ctx, err, "Failed to invalidate cached balances", slog.Any("user_ids", userIDs))
	}
}

// recordAudit never fails the write it describes.
func (s *expenseService) recordAudit(ctx context.Context, action domain.AuditAction, actorID string, expense *domain.Expense) {
	if s.auditSink == nil {
		return
	}
	entry := domain.AuditLog{
		LogID:     uuid.NewString(),
		Action:    action,
		UserID:    actorID,
		Label:     expense.Title,
		Amount:    expense.TotalAmount,
		CreatedAt: time.Now().UTC(),
	}
	if expense.ExpenseID != "" {
		id := expense.ExpenseID
		entry.ExpenseID = &id
	}
	if err := s.auditSink.Record(ctx, entry); err != nil {
		s.LogWarn(ctx, err, "Failed to record audit log", slog.String("action", string(action)))
	}
}
