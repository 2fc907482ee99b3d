package pgsql

import (
	"context"

	"github.com/SscSPs/expense_sharing_app/internal/apperrors"
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_sharing_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_sharing_app/internal/models"
	"github.com/SscSPs/expense_sharing_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAuditLogRepository stores expense change records.
type PgxAuditLogRepository struct {
	BaseRepository
}

func newPgxAuditLogRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditLogRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditLogRepository)(nil)

// Record inserts one audit entry.
func (r *PgxAuditLogRepository) Record(ctx context.Context, entry domain.AuditLog) error {
	m := mapping.ToModelAuditLog(entry)
	query := `
		INSERT INTO audit_logs (log_id, action, user_id, expense_id, label, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query, m.LogID, m.Action, m.UserID, m.ExpenseID, m.Label, m.Amount, m.CreatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit log "+m.LogID, err)
	}
	return nil
}

// ListAuditLogs returns entries newest first.
func (r *PgxAuditLogRepository) ListAuditLogs(ctx context.Context, limit int, offset int) ([]domain.AuditLog, error) {
	query := `
		SELECT log_id, action, user_id, expense_id, label, amount, created_at
		FROM audit_logs
		ORDER BY created_at DESC, log_id DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list audit logs", err)
	}
	defer rows.Close()

	logs := []domain.AuditLog{}
	for rows.Next() {
		var m models.AuditLog
		if err := rows.Scan(&m.LogID, &m.Action, &m.UserID, &m.ExpenseID, &m.Label, &m.Amount, &m.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit log row", err)
		}
		logs = append(logs, mapping.ToDomainAuditLog(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit log rows", err)
	}
	return logs, nil
}
