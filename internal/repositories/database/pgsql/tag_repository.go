package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/expense_sharing_app/internal/apperrors"
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_sharing_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_sharing_app/internal/models"
	"github.com/SscSPs/expense_sharing_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tagColumns = `tag_id, slug, label, created_at, created_by, last_updated_at, last_updated_by`

// PgxTagRepository implements the tag repository using pgx.
type PgxTagRepository struct {
	BaseRepository
}

// newPgxTagRepository creates a new PgxTagRepository.
func newPgxTagRepository(pool *pgxpool.Pool) portsrepo.TagRepositoryFacade {
	return &PgxTagRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TagRepositoryFacade = (*PgxTagRepository)(nil)

func scanTag(row rowScanner) (models.Tag, error) {
	var m models.Tag
	err := row.Scan(&m.TagID, &m.Slug, &m.Label, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

func (r *PgxTagRepository) findOne(ctx context.Context, where string, arg any) (*domain.Tag, error) {
	m, err := scanTag(r.Pool.QueryRow(ctx, `SELECT `+tagColumns+` FROM tags WHERE `+where+`;`, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find tag", err)
	}
	tag := mapping.ToDomainTag(m)
	return &tag, nil
}

// FindTagByID retrieves a tag by ID.
func (r *PgxTagRepository) FindTagByID(ctx context.Context, tagID string) (*domain.Tag, error) {
	return r.findOne(ctx, "tag_id = $1", tagID)
}

// FindTagBySlug retrieves a tag by slug.
func (r *PgxTagRepository) FindTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	return r.findOne(ctx, "slug = $1", slug)
}

// FindTags lists every tag ordered by slug.
func (r *PgxTagRepository) FindTags(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY slug ASC;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list tags", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		m, err := scanTag(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tag row", err)
		}
		tags = append(tags, mapping.ToDomainTag(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tag rows", err)
	}
	return tags, nil
}

// SaveTag inserts a new tag.
func (r *PgxTagRepository) SaveTag(ctx context.Context, tag domain.Tag) error {
	m := mapping.ToModelTag(tag)
	query := `INSERT INTO tags (` + tagColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	_, err := r.Pool.Exec(ctx, query, m.TagID, m.Slug, m.Label, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return translatePgError(err, "failed to insert tag "+m.Slug)
	}
	return nil
}

// UpdateTag rewrites slug and label.
func (r *PgxTagRepository) UpdateTag(ctx context.Context, tag domain.Tag) error {
	m := mapping.ToModelTag(tag)
	query := `UPDATE tags SET slug = $2, label = $3, last_updated_at = $4, last_updated_by = $5 WHERE tag_id = $1;`
	cmdTag, err := r.Pool.Exec(ctx, query, m.TagID, m.Slug, m.Label, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return translatePgError(err, "failed to update tag "+m.TagID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteTag removes a tag. Expenses and users referencing it lose the reference.
func (r *PgxTagRepository) DeleteTag(ctx context.Context, tagID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM tags WHERE tag_id = $1;`, tagID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete tag "+tagID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
