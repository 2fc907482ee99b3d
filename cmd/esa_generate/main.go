// Command esa_generate fills the database with random expenses between existing users.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	portsrepo "github.com/SscSPs/expense_sharing_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_sharing_app/internal/core/services"
	"github.com/SscSPs/expense_sharing_app/internal/dto"
	"github.com/SscSPs/expense_sharing_app/internal/platform/config"
	"github.com/SscSPs/expense_sharing_app/internal/repositories/cache"
	"github.com/SscSPs/expense_sharing_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/expense_sharing_app/pkg/database"
	"github.com/SscSPs/expense_sharing_app/pkg/logging"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	generatorLockKey = "esa:lock:generator"
	generatorLockTTL = 2 * time.Minute
)

type options struct {
	count     int
	minAmount string
	maxAmount string
	daysBack  int
	seed      uint64
}

func main() {
	var opts options
	flag.IntVar(&opts.count, "count", 10, "number of expenses to generate")
	flag.StringVar(&opts.minAmount, "min-amount", "5", "minimum expense amount")
	flag.StringVar(&opts.maxAmount, "max-amount", "100", "maximum expense amount")
	flag.IntVar(&opts.daysBack, "days-back", 30, "spread expense dates over this many past days")
	flag.Uint64Var(&opts.seed, "seed", 0, "random seed, 0 for a random run")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.IsProduction, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(context.Background(), logger, cfg, opts); err != nil {
		logger.Error("Expense generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, opts options) error {
	req, err := opts.request()
	if err != nil {
		return err
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(dbPool)

	genCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var balanceCache portsrepo.BalanceCache = cache.NewMemoryBalanceCache(cfg.BalanceCacheTTL)
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()

		lock, err := obtainGeneratorLock(ctx, client)
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				logger.Warn("Failed to release generator lock", slog.String("error", err.Error()))
			}
		}()
		go keepLockAlive(genCtx, lock, generatorLockTTL, cancel, logger)
		// Stop refreshing before the lock is released.
		defer cancel(nil)
		// Generated expenses must evict the server's cached balances.
		balanceCache = cache.NewRedisBalanceCache(client, cfg.BalanceCacheTTL)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	expenseSvc := services.NewExpenseService(
		repos.ExpenseRepo,
		repos.UserRepo,
		repos.TagRepo,
		services.WithAuditSink(repos.AuditRepo),
		services.WithBalanceCache(balanceCache),
	)
	var genOpts []services.GeneratorOption
	if opts.seed != 0 {
		genOpts = append(genOpts, services.WithRandSeed(opts.seed))
	}
	generator := services.NewGeneratorService(repos.UserRepo, repos.TagRepo, expenseSvc, genOpts...)

	result, err := generator.GenerateRandomExpenses(genCtx, req)
	if cause := context.Cause(genCtx); cause != nil {
		err = errors.Join(err, cause)
	}
	if result != nil {
		fmt.Printf("%d expense(s) generated, total amount %s\n", result.Created, result.Total.StringFixed(2))
	}
	return err
}

func (o options) request() (dto.GenerateExpensesRequest, error) {
	minAmount, err := decimal.NewFromString(o.minAmount)
	if err != nil {
		return dto.GenerateExpensesRequest{}, fmt.Errorf("invalid -min-amount %q: %w", o.minAmount, err)
	}
	maxAmount, err := decimal.NewFromString(o.maxAmount)
	if err != nil {
		return dto.GenerateExpensesRequest{}, fmt.Errorf("invalid -max-amount %q: %w", o.maxAmount, err)
	}
	return dto.GenerateExpensesRequest{
		Count:     o.count,
		MinAmount: minAmount,
		MaxAmount: maxAmount,
		DaysBack:  o.daysBack,
	}, nil
}

// obtainGeneratorLock keeps two generator runs from interleaving. The lock is
// retried for a short while before giving up.
func obtainGeneratorLock(ctx context.Context, client *redis.Client) (*redislock.Lock, error) {
	locker := redislock.New(client)
	lock, err := locker.Obtain(ctx, generatorLockKey, generatorLockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(500*time.Millisecond), 10),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("another generator run holds %s", generatorLockKey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain generator lock: %w", err)
	}
	return lock, nil
}

// lockRefresher is the part of *redislock.Lock used to extend its TTL.
type lockRefresher interface {
	Refresh(ctx context.Context, ttl time.Duration, opt *redislock.Options) error
}

// keepLockAlive extends the lock every half TTL until ctx is done. When a
// refresh fails the run is cancelled with the refresh error as cause.
func keepLockAlive(ctx context.Context, lock lockRefresher, ttl time.Duration, cancel context.CancelCauseFunc, logger *slog.Logger) {
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := lock.Refresh(ctx, ttl, nil); err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Error("Lost generator lock", slog.String("error", err.Error()))
				cancel(fmt.Errorf("generator lock lost: %w", err))
				return
			}
			logger.Debug("Generator lock refreshed", slog.Duration("ttl", ttl))
		}
	}
}
