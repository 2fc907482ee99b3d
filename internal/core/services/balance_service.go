package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_sharing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_sharing_app/internal/core/ports/services"
	"github.com/SscSPs/expense_sharing_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const historySheet = "History"

type balanceService struct {
	BaseService
	expenseRepo portsrepo.ExpenseReader
	userRepo    portsrepo.UserReader
	cache       portsrepo.BalanceCache
}

// NewBalanceService creates the balance service. cache may be nil.
func NewBalanceService(expenseRepo portsrepo.ExpenseReader, userRepo portsrepo.UserReader, cache portsrepo.BalanceCache) portssvc.BalanceSvcFacade {
	return &balanceService{
		expenseRepo: expenseRepo,
		userRepo:    userRepo,
		cache:       cache,
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

func (s *balanceService) GetUserBalance(ctx context.Context, userID string, includePartner bool) (decimal.Decimal, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get user %s: %w", userID, err)
	}

	own, err := s.ownBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	// Ledgers are summarised to a single paid amount: only their own balance matters here.
	var lookupErr error
	lookup := func(id string) (domain.UserLedger, bool) {
		balance, err := s.ownBalance(ctx, id)
		if err != nil {
			lookupErr = err
			return domain.UserLedger{}, false
		}
		return domain.UserLedger{UserID: id, Paid: []decimal.Decimal{balance}}, true
	}

	ledger := domain.UserLedger{UserID: userID, PartnerID: user.PartnerID, Paid: []decimal.Decimal{own}}
	balance := accounting.ComputeBalance(ledger, lookup, includePartner)
	if lookupErr != nil {
		return decimal.Zero, lookupErr
	}
	return balance, nil
}

func (s *balanceService) GetUserBalances(ctx context.Context, users []domain.User, includePartner bool) (map[string]decimal.Decimal, error) {
	owns := make(map[string]decimal.Decimal, len(users))
	var lookupErr error
	lookup := func(id string) (domain.UserLedger, bool) {
		own, ok := owns[id]
		if !ok {
			var err error
			own, err = s.ownBalance(ctx, id)
			if err != nil {
				lookupErr = err
				return domain.UserLedger{}, false
			}
			owns[id] = own
		}
		return domain.UserLedger{UserID: id, Paid: []decimal.Decimal{own}}, true
	}

	balances := make(map[string]decimal.Decimal, len(users))
	for _, u := range users {
		ledger, _ := lookup(u.UserID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		ledger.PartnerID = u.PartnerID
		balances[u.UserID] = accounting.ComputeBalance(ledger, lookup, includePartner)
		if lookupErr != nil {
			return nil, lookupErr
		}
	}
	s.LogDebug(ctx, "User balances computed", slog.Int("users", len(users)), slog.Int("ledgers", len(owns)))
	return balances, nil
}

// ownBalance returns the user's unpooled balance, from the cache when possible.
func (s *balanceService) ownBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetOwnBalance(ctx, userID)
		if err != nil {
			s.LogWarn(ctx, err, "Balance cache read failed", slog.String("user_id", userID))
		} else if ok {
			return cached, nil
		}
	}

	ledger, err := s.expenseRepo.GetUserLedger(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load ledger of %s: %w", userID, err)
	}
	own := accounting.OwnBalance(*ledger)

	if s.cache != nil {
		if err := s.cache.SetOwnBalance(ctx, userID, own); err != nil {
			s.LogWarn(ctx, err, "Balance cache write failed", slog.String("user_id", userID))
		}
	}
	return own, nil
}

func (s *balanceService) GetHistory(ctx context.Context) (domain.BalanceHistory, error) {
	_, history, err := s.history(ctx)
	return history, err
}

func (s *balanceService) history(ctx context.Context) ([]domain.User, domain.BalanceHistory, error) {
	users, err := s.userRepo.FindAllUsers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load users: %w", err)
	}
	expenses, err := s.expenseRepo.FindAllExpensesChronological(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	userIDs := make([]string, len(users))
	for i, u := range users {
		userIDs[i] = u.UserID
	}
	history := accounting.BuildHistory(userIDs, expenses)
	s.LogDebug(ctx, "Balance history built", slog.Int("expenses", len(expenses)), slog.Int("days", len(history)))
	return users, history, nil
}

// ExportHistoryXLSX writes one row per day and one column per user.
func (s *balanceService) ExportHistoryXLSX(ctx context.Context, w io.Writer) error {
	users, history, err := s.history(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, 0, len(users)+1)
	header = append(header, "Date")
	for _, u := range users {
		header = append(header, u.Username)
	}
	if err := f.SetSheetRow(historySheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, snapshot := range history {
		row := make([]any, 0, len(users)+1)
		row = append(row, snapshot.Date)
		for _, u := range users {
			row = append(row, snapshot.Balances[u.UserID].InexactFloat64())
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(historySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}
