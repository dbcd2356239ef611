package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itdesk/extract-service/internal/core/domain"
	"github.com/itdesk/extract-service/internal/core/ports"
)

// CategorySource is the secondary adapter that loads the category catalog
// from PostgreSQL.
type CategorySource struct {
	pool *pgxpool.Pool
}

var _ ports.CategorySource = (*CategorySource)(nil)

// NewCategorySource creates a new postgres category source.
func NewCategorySource(pool *pgxpool.Pool) *CategorySource {
	return &CategorySource{pool: pool}
}

// LoadCategories loads the id -> name mapping for every ticket category.
func (s *CategorySource) LoadCategories(ctx context.Context) (domain.CategoryMap, error) {
	const query = `SELECT id, name FROM ticket_categories`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := make(domain.CategoryMap)
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}
	return categories, nil
}
