package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/agustinvidal/fintrack/internal/apperrors"
	"github.com/agustinvidal/fintrack/internal/core/domain"
	portsrepo "github.com/agustinvidal/fintrack/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxCategoryRepository implements the category repository using pgxpool.
type PgxCategoryRepository struct {
	BaseRepository
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

// NewPgxCategoryRepository creates a new PgxCategoryRepository.
func NewPgxCategoryRepository(db *pgxpool.Pool) *PgxCategoryRepository {
	return &PgxCategoryRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

const categoryColumns = `category_id, user_id, name, kind, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(
		&c.CategoryID, &c.UserID, &c.Name, &c.Kind, &c.IsActive,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveCategory persists a new category.
func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		category.CategoryID, category.UserID, category.Name, category.Kind, category.IsActive,
		category.CreatedAt, category.CreatedBy, category.LastUpdatedAt, category.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: category %s", apperrors.ErrDuplicate, category.CategoryID)
		}
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// FindCategoryByID retrieves a category by its ID.
func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE category_id = $1`,
		categoryID,
	)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: category %s", apperrors.ErrNotFound, categoryID)
		}
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return category, nil
}

// ListCategoriesByUser retrieves all active categories owned by a user.
func (r *PgxCategoryRepository) ListCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *category)
	}
	return categories, rows.Err()
}
