package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/SscSPs/expense_sharing_app/internal/apperrors"
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_sharing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_sharing_app/internal/core/ports/services"
	"github.com/SscSPs/expense_sharing_app/internal/dto"
	"github.com/SscSPs/expense_sharing_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

var generatedTitles = []string{
	"Courses alimentaires",
	"Restaurant",
	"Essence",
	"Cinéma",
	"Pharmacie",
	"Café",
	"Transport",
	"Shopping",
	"Parking",
	"Bar",
	"Pizza",
	"Supermarché",
	"Boulangerie",
	"Fast-food",
	"Taxi",
	"Concert",
	"Théâtre",
	"Musée",
	"Sport",
	"Voyage",
}

type generatorService struct {
	BaseService
	userRepo   portsrepo.UserReader
	tagRepo    portsrepo.TagReader
	expenseSvc portssvc.ExpenseWriterSvc
	rng        *rand.Rand
	now        func() time.Time
}

// GeneratorOption configures the generator.
type GeneratorOption func(*generatorService)

// WithRandSeed makes a generation run reproducible.
func WithRandSeed(seed uint64) GeneratorOption {
	return func(s *generatorService) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithClock replaces time.Now for date generation.
func WithClock(now func() time.Time) GeneratorOption {
	return func(s *generatorService) {
		s.now = now
	}
}

// NewGeneratorService creates a generator that saves through the expense service.
func NewGeneratorService(userRepo portsrepo.UserReader, tagRepo portsrepo.TagReader, expenseSvc portssvc.ExpenseWriterSvc, options ...GeneratorOption) portssvc.GeneratorSvc {
	svc := &generatorService{
		userRepo:   userRepo,
		tagRepo:    tagRepo,
		expenseSvc: expenseSvc,
		now:        time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	if svc.rng == nil {
		svc.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return svc
}

func (s *generatorService) GenerateRandomExpenses(ctx context.Context, req dto.GenerateExpensesRequest) (*dto.GenerateExpensesResult, error) {
	if req.Count < 0 || req.DaysBack < 0 || req.MinAmount.IsNegative() || req.MaxAmount.LessThan(req.MinAmount) {
		return nil, fmt.Errorf("%w: count and days back must be positive and 0 <= min amount <= max amount", apperrors.ErrInvalidArgument)
	}

	users, err := s.userRepo.FindAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: no users found, create users first", apperrors.ErrInvalidArgument)
	}
	tags, err := s.tagRepo.FindTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}

	s.LogInfo(ctx, "Generating random expenses",
		slog.Int("count", req.Count), slog.Int("users", len(users)), slog.Int("tags", len(tags)))

	result := &dto.GenerateExpensesResult{Total: decimal.Zero}
	for i := 0; i < req.Count; i++ {
		expenseReq := s.randomExpense(req, users, tags)
		if _, err := s.expenseSvc.CreateExpense(ctx, expenseReq, expenseReq.PayerID); err != nil {
			return result, fmt.Errorf("failed to save generated expense %d: %w", i+1, err)
		}
		result.Created++
		result.Total = result.Total.Add(expenseReq.TotalAmount)
	}

	s.LogInfo(ctx, "Random expenses generated", slog.Int("created", result.Created), slog.String("total", result.Total.String()))
	return result, nil
}

// randomExpense draws an expense whose detail amounts are left for allocation.
func (s *generatorService) randomExpense(req dto.GenerateExpensesRequest, users []domain.User, tags []domain.Tag) dto.ExpenseRequest {
	minCents := req.MinAmount.Shift(accounting.CentPlaces).IntPart()
	maxCents := req.MaxAmount.Shift(accounting.CentPlaces).IntPart()
	cents := minCents + s.rng.Int64N(maxCents-minCents+1)

	mode := domain.SplitByShares
	if s.rng.IntN(2) == 1 {
		mode = domain.SplitByAmounts
	}

	expenseReq := dto.ExpenseRequest{
		Title:       generatedTitles[s.rng.IntN(len(generatedTitles))],
		Date:        s.now().UTC().AddDate(0, 0, -s.rng.IntN(req.DaysBack+1)),
		TotalAmount: decimal.New(cents, -accounting.CentPlaces),
		SplitMode:   mode,
		PayerID:     users[s.rng.IntN(len(users))].UserID,
	}
	if len(tags) > 0 && s.rng.IntN(2) == 1 {
		tagID := tags[s.rng.IntN(len(tags))].TagID
		expenseReq.TagID = &tagID
	}

	participants := 1 + s.rng.IntN(len(users))
	for _, idx := range s.rng.Perm(len(users))[:participants] {
		shares := 1 + s.rng.IntN(3)
		expenseReq.Details = append(expenseReq.Details, dto.DetailRequest{
			UserID: users[idx].UserID,
			Shares: &shares,
		})
	}
	return expenseReq
}
