package pgsql

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/SscSPs/expense_sharing_app/internal/apperrors"
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_sharing_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_sharing_app/internal/models"
	"github.com/SscSPs/expense_sharing_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userSelect = `
	SELECT u.user_id, u.username, u.password_hash, u.login_token_hash, u.partner_id,
	       u.created_at, u.created_by, u.last_updated_at, u.last_updated_by,
	       COALESCE((SELECT array_agg(r.role ORDER BY r.role) FROM user_roles r WHERE r.user_id = u.user_id), '{}') AS roles,
	       COALESCE((SELECT array_agg(t.tag_id ORDER BY t.tag_id) FROM user_tags t WHERE t.user_id = u.user_id), '{}') AS tag_ids
	FROM users u`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PgxUserRepository implements the user repository using pgx.
type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new PgxUserRepository.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func scanUser(row rowScanner) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Username,
		&m.PasswordHash,
		&m.LoginTokenHash,
		&m.PartnerID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Roles,
		&m.TagIDs,
	)
	return m, err
}

func (r *PgxUserRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	m, err := scanUser(r.Pool.QueryRow(ctx, userSelect+" WHERE "+where+";", arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user", err)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

func (r *PgxUserRepository) findMany(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list users", err)
	}
	defer rows.Close()

	var ms []models.User
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan user row", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating user rows", err)
	}
	return mapping.ToDomainUserSlice(ms), nil
}

// FindUserByID retrieves a user by ID.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, "u.user_id = $1", userID)
}

// FindUserByUsername retrieves a user by exact username.
func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "u.username = $1", username)
}

// FindUserByToken retrieves the user whose stored login token hash matches.
func (r *PgxUserRepository) FindUserByToken(ctx context.Context, token string) (*domain.User, error) {
	return r.findOne(ctx, "u.login_token_hash = $1", token)
}

// FindUsers retrieves users ordered by username, optionally filtered by a substring of it.
func (r *PgxUserRepository) FindUsers(ctx context.Context, filter portsrepo.UserFilter) ([]domain.User, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := max(filter.Offset, 0)

	query := userSelect + `
		WHERE ($1 = '' OR u.username ILIKE '%' || $1 || '%')
		ORDER BY u.username ASC
		LIMIT $2 OFFSET $3;`
	return r.findMany(ctx, query, likeEscaper.Replace(filter.Username), limit, offset)
}

// FindAllUsers retrieves every user ordered by username.
func (r *PgxUserRepository) FindAllUsers(ctx context.Context) ([]domain.User, error) {
	return r.findMany(ctx, userSelect+" ORDER BY u.username ASC;")
}

// SaveUser inserts a user with its roles and tags.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	return r.withTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO users (user_id, username, password_hash, login_token_hash, partner_id,
			                   created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
		`
		_, err := tx.Exec(ctx, query,
			m.UserID,
			m.Username,
			m.PasswordHash,
			m.LoginTokenHash,
			m.PartnerID,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		if err != nil {
			return translatePgError(err, "failed to insert user "+m.UserID)
		}
		return replaceUserLinks(ctx, tx, m, false)
	})
}

// UpdateUser updates the username and replaces roles and tags.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	return r.withTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE users SET username = $2, last_updated_at = $3, last_updated_by = $4
			WHERE user_id = $1;
		`
		cmdTag, err := tx.Exec(ctx, query, m.UserID, m.Username, m.LastUpdatedAt, m.LastUpdatedBy)
		if err != nil {
			return translatePgError(err, "failed to update user "+m.UserID)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
		return replaceUserLinks(ctx, tx, m, true)
	})
}

// replaceUserLinks writes the role and tag join rows of a user, clearing old ones first when asked.
func replaceUserLinks(ctx context.Context, tx pgx.Tx, m models.User, clear bool) error {
	batch := &pgx.Batch{}
	if clear {
		batch.Queue(`DELETE FROM user_roles WHERE user_id = $1;`, m.UserID)
		batch.Queue(`DELETE FROM user_tags WHERE user_id = $1;`, m.UserID)
	}
	for _, role := range m.Roles {
		batch.Queue(`INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT DO NOTHING;`, m.UserID, role)
	}
	for _, tagID := range m.TagIDs {
		batch.Queue(`INSERT INTO user_tags (user_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING;`, m.UserID, tagID)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return translatePgError(err, "failed to write roles and tags for user "+m.UserID)
	}
	return nil
}

// UpdateCredentials sets the username and password hash and consumes the login token.
func (r *PgxUserRepository) UpdateCredentials(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		UPDATE users
		SET username = $2, password_hash = $3, login_token_hash = NULL, last_updated_at = $4, last_updated_by = $5
		WHERE user_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, m.UserID, m.Username, m.PasswordHash, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return translatePgError(err, "failed to update credentials of user "+m.UserID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetToken stores the hash of a freshly issued login token.
func (r *PgxUserRepository) SetToken(ctx context.Context, userID string, token string) error {
	query := `UPDATE users SET login_token_hash = $2, last_updated_at = $3 WHERE user_id = $1;`
	cmdTag, err := r.Pool.Exec(ctx, query, userID, token, time.Now().UTC())
	if err != nil {
		return translatePgError(err, "failed to store token of user "+userID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdatePartnerLinks rewrites partner_id for the given users.
// Links are cleared before being set so the unique constraint on partner_id holds at every step.
func (r *PgxUserRepository) UpdatePartnerLinks(ctx context.Context, users []domain.User) error {
	if len(users) == 0 {
		return nil
	}
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.UserID
	}

	return r.withTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT user_id FROM users WHERE user_id = ANY($1) ORDER BY user_id FOR UPDATE;`, ids)
		if err != nil {
			return apperrors.NewAppError(500, "failed to lock users", err)
		}
		locked, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return apperrors.NewAppError(500, "failed to lock users", err)
		}
		if len(locked) != len(ids) {
			return apperrors.ErrNotFound
		}

		now := time.Now().UTC()
		batch := &pgx.Batch{}
		batch.Queue(`UPDATE users SET partner_id = NULL WHERE user_id = ANY($1);`, ids)
		for _, u := range users {
			if u.PartnerID == nil {
				batch.Queue(`UPDATE users SET last_updated_at = $2, last_updated_by = $3 WHERE user_id = $1;`,
					u.UserID, now, u.LastUpdatedBy)
				continue
			}
			batch.Queue(`UPDATE users SET partner_id = $2, last_updated_at = $3, last_updated_by = $4 WHERE user_id = $1;`,
				u.UserID, *u.PartnerID, now, u.LastUpdatedBy)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return translatePgError(err, "failed to update partner links")
		}
		return nil
	})
}
