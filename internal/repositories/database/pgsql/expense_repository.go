package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/SscSPs/expense_sharing_app/internal/apperrors"
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_sharing_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_sharing_app/internal/models"
	"github.com/SscSPs/expense_sharing_app/internal/utils/mapping"
	"github.com/SscSPs/expense_sharing_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const expenseColumns = `
	e.expense_id, e.title, e.expense_date, e.total_amount, e.split_mode, e.payer_id, e.tag_id,
	e.created_at, e.created_by, e.last_updated_at, e.last_updated_by`

const insertDetailQuery = `
	INSERT INTO expense_details (detail_id, expense_id, user_id, shares, amount, position)
	VALUES ($1, $2, $3, $4, $5, $6);`

type PgxExpenseRepository struct {
	BaseRepository
}

// newPgxExpenseRepository creates a new repository for expenses and their details.
func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

func scanExpense(row rowScanner, m *models.Expense) error {
	return row.Scan(
		&m.ExpenseID,
		&m.Title,
		&m.ExpenseDate,
		&m.TotalAmount,
		&m.SplitMode,
		&m.PayerID,
		&m.TagID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
}

// queueDetails adds one insert per detail, keeping the request order in the position column.
func queueDetails(batch *pgx.Batch, expenseID string, details []domain.Detail) {
	for i, d := range details {
		md := mapping.ToModelDetail(d)
		batch.Queue(insertDetailQuery, md.DetailID, expenseID, md.UserID, md.Shares, md.Amount, i)
	}
}

// SaveExpense inserts the expense and its details in a single transaction.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	return r.withTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO expenses (
				expense_id, title, expense_date, total_amount, split_mode, payer_id, tag_id,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
		`
		_, err := tx.Exec(ctx, query,
			m.ExpenseID,
			m.Title,
			m.ExpenseDate,
			m.TotalAmount,
			m.SplitMode,
			m.PayerID,
			m.TagID,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		if err != nil {
			return translatePgError(err, "failed to insert expense "+m.ExpenseID)
		}

		batch := &pgx.Batch{}
		queueDetails(batch, m.ExpenseID, expense.Details)
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return translatePgError(err, "failed to insert details for expense "+m.ExpenseID)
		}
		return nil
	})
}

// UpdateExpense rewrites the expense row and replaces every detail.
func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	return r.withTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE expenses
			SET title = $2, expense_date = $3, total_amount = $4, split_mode = $5, payer_id = $6, tag_id = $7,
			    last_updated_at = $8, last_updated_by = $9
			WHERE expense_id = $1;
		`
		cmdTag, err := tx.Exec(ctx, query,
			m.ExpenseID,
			m.Title,
			m.ExpenseDate,
			m.TotalAmount,
			m.SplitMode,
			m.PayerID,
			m.TagID,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		if err != nil {
			return translatePgError(err, "failed to update expense "+m.ExpenseID)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}

		batch := &pgx.Batch{}
		batch.Queue(`DELETE FROM expense_details WHERE expense_id = $1;`, m.ExpenseID)
		queueDetails(batch, m.ExpenseID, expense.Details)
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return translatePgError(err, "failed to replace details for expense "+m.ExpenseID)
		}
		return nil
	})
}

// DeleteExpense removes the expense; details cascade.
func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1;`, expenseID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete expense "+expenseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindExpenseByID retrieves an expense with its details.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses e WHERE e.expense_id = $1;`

	var m models.Expense
	if err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find expense "+expenseID, err)
	}

	details, err := r.findDetails(ctx, []string{m.ExpenseID})
	if err != nil {
		return nil, err
	}
	expense := mapping.ToDomainExpense(m, details[m.ExpenseID])
	return &expense, nil
}

// FindExpenses lists expenses the participant shares in, newest first, using keyset pagination.
func (r *PgxExpenseRepository) FindExpenses(ctx context.Context, filter portsrepo.ExpenseFilter) ([]domain.Expense, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1 // one extra row tells us whether another page exists

	args := []any{filter.ParticipantID}
	query := `SELECT ` + expenseColumns + `
		FROM expenses e
		WHERE EXISTS (
			SELECT 1 FROM expense_details d WHERE d.expense_id = e.expense_id AND d.user_id = $1
		)`

	if filter.TagID != nil {
		args = append(args, *filter.TagID)
		query += " AND e.tag_id = $" + strconv.Itoa(len(args))
	}

	if filter.NextToken != nil && *filter.NextToken != "" {
		lastDate, lastID, decodeErr := pagination.DecodeToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastID)
		query += " AND (e.expense_date, e.expense_id) < ($" + strconv.Itoa(len(args)-1) + ", $" + strconv.Itoa(len(args)) + ")"
	}

	args = append(args, fetchLimit)
	query += " ORDER BY e.expense_date DESC, e.expense_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	modelExpenses, err := r.queryExpenses(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(modelExpenses) > limit {
		modelExpenses = modelExpenses[:limit]
		last := modelExpenses[limit-1]
		token := pagination.EncodeToken(last.ExpenseDate, last.ExpenseID)
		nextToken = &token
	}

	expenses, err := r.attachDetails(ctx, modelExpenses)
	if err != nil {
		return nil, nil, err
	}
	return expenses, nextToken, nil
}

// FindAllExpensesChronological loads every expense oldest first.
func (r *PgxExpenseRepository) FindAllExpensesChronological(ctx context.Context) ([]domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses e ORDER BY e.expense_date ASC, e.created_at ASC, e.expense_id ASC;`
	modelExpenses, err := r.queryExpenses(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.attachDetails(ctx, modelExpenses)
}

// GetUserLedger gathers what the user paid and owes with a single batch round trip.
func (r *PgxExpenseRepository) GetUserLedger(ctx context.Context, userID string) (*domain.UserLedger, error) {
	batch := &pgx.Batch{}
	batch.Queue(`SELECT partner_id FROM users WHERE user_id = $1;`, userID)
	batch.Queue(`SELECT total_amount FROM expenses WHERE payer_id = $1;`, userID)
	batch.Queue(`SELECT amount FROM expense_details WHERE user_id = $1;`, userID)

	br := r.Pool.SendBatch(ctx, batch)
	defer br.Close()

	ledger := &domain.UserLedger{UserID: userID}
	if err := br.QueryRow().Scan(&ledger.PartnerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to load user "+userID, err)
	}

	paid, err := collectAmounts(br)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to load amounts paid by "+userID, err)
	}
	owed, err := collectAmounts(br)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to load amounts owed by "+userID, err)
	}
	ledger.Paid = paid
	ledger.Owed = owed
	return ledger, nil
}

func collectAmounts(br pgx.BatchResults) ([]decimal.Decimal, error) {
	rows, err := br.Query()
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[decimal.Decimal])
}

func (r *PgxExpenseRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]models.Expense, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query expenses", err)
	}
	defer rows.Close()

	var result []models.Expense
	for rows.Next() {
		var m models.Expense
		if err := scanExpense(rows, &m); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan expense row", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating expense rows", err)
	}
	return result, nil
}

func (r *PgxExpenseRepository) attachDetails(ctx context.Context, modelExpenses []models.Expense) ([]domain.Expense, error) {
	expenses := make([]domain.Expense, 0, len(modelExpenses))
	if len(modelExpenses) == 0 {
		return expenses, nil
	}

	ids := make([]string, len(modelExpenses))
	for i, m := range modelExpenses {
		ids[i] = m.ExpenseID
	}
	details, err := r.findDetails(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, m := range modelExpenses {
		expenses = append(expenses, mapping.ToDomainExpense(m, details[m.ExpenseID]))
	}
	return expenses, nil
}

// findDetails loads the details of the given expenses grouped by expense, in insertion order.
func (r *PgxExpenseRepository) findDetails(ctx context.Context, expenseIDs []string) (map[string][]models.ExpenseDetail, error) {
	query := `
		SELECT detail_id, expense_id, user_id, shares, amount
		FROM expense_details
		WHERE expense_id = ANY($1)
		ORDER BY expense_id, position;
	`
	rows, err := r.Pool.Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query expense details", err)
	}
	defer rows.Close()

	byExpense := make(map[string][]models.ExpenseDetail, len(expenseIDs))
	for rows.Next() {
		var d models.ExpenseDetail
		if err := rows.Scan(&d.DetailID, &d.ExpenseID, &d.UserID, &d.Shares, &d.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan expense detail row", err)
		}
		byExpense[d.ExpenseID] = append(byExpense[d.ExpenseID], d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating expense detail rows", err)
	}
	return byExpense, nil
}
