package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"stayfinder_backend/internal/listings/model"
	"stayfinder_backend/internal/search/domain"
	"stayfinder_backend/internal/search/normalizer"
)

// TextFilter is the compiled text path: (OR of clauses) AND property type AND
// price AND amenities.
type TextFilter struct {
	Condition    normalizer.Condition
	PropertyType string
	Price        domain.PriceRange
	Amenities    []string
}

// Repository is the read side of the listing store used by search.
type Repository interface {
	FindByText(ctx context.Context, filter TextFilter) ([]model.Listing, error)
	FindWithCoordinates(ctx context.Context) ([]model.Listing, error)
}

// Repo implements Repository over PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new search repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

var fieldColumns = map[normalizer.Field]string{
	normalizer.FieldName:        "name",
	normalizer.FieldCity:        "city",
	normalizer.FieldLocation:    "location",
	normalizer.FieldDescription: "description",
	normalizer.FieldAddress:     "address",
}

// FindByText runs the text path. Rows come back oldest first with id as the
// tiebreak so repeated searches return the same order.
func (r *Repo) FindByText(ctx context.Context, filter TextFilter) ([]model.Listing, error) {
	where, args := BuildTextWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE %s ORDER BY created_at ASC, id ASC`, model.SelectColumns, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search listings by text: %w", err)
	}
	items, err := model.CollectRows(rows)
	if err != nil {
		return nil, fmt.Errorf("scan text search results: %w", err)
	}
	return items, nil
}

// FindWithCoordinates returns every listing with a coordinate pair, in the
// same stable order as the text path.
func (r *Repo) FindWithCoordinates(ctx context.Context) ([]model.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY created_at ASC, id ASC`, model.SelectColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load geo candidates: %w", err)
	}
	items, err := model.CollectRows(rows)
	if err != nil {
		return nil, fmt.Errorf("scan geo candidates: %w", err)
	}
	return items, nil
}

// BuildTextWhere renders filter as a WHERE clause with positional arguments.
func BuildTextWhere(filter TextFilter) (string, []interface{}) {
	conditions := make([]string, 0, 4)
	args := make([]interface{}, 0, len(filter.Condition.Clauses)+4)
	argIdx := 1

	if !filter.Condition.MatchAll() {
		ors := make([]string, 0, len(filter.Condition.Clauses))
		for _, clause := range filter.Condition.Clauses {
			ors = append(ors, fmt.Sprintf("%s ~* $%d", fieldColumns[clause.Field], argIdx))
			args = append(args, clause.PostgresPattern())
			argIdx++
		}
		conditions = append(conditions, "("+strings.Join(ors, " OR ")+")")
	}

	if pt := strings.TrimSpace(filter.PropertyType); pt != "" {
		conditions = append(conditions, fmt.Sprintf("starts_with(lower(property_type), lower($%d))", argIdx))
		args = append(args, pt)
		argIdx++
	}

	conditions = append(conditions, fmt.Sprintf("price BETWEEN $%d AND $%d", argIdx, argIdx+1))
	args = append(args, filter.Price.Min, filter.Price.Max)
	argIdx += 2

	if len(filter.Amenities) > 0 {
		conditions = append(conditions, fmt.Sprintf("amenities @> $%d", argIdx))
		args = append(args, filter.Amenities)
	}

	return strings.Join(conditions, " AND "), args
}
