package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shopsmart/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const productColumns = "id, title, description, price, stock, category_id, features, rating_number, created_at, updated_at"

type ProductRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProductRepository(db *pgxpool.Pool, logger *zap.Logger) *ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger,
	}
}

// KeywordSearch runs a full-text match against product titles, ranked by
// relevance.
func (r *ProductRepository) KeywordSearch(ctx context.Context, term string, limit int) ([]*models.Product, error) {
	if strings.TrimSpace(term) == "" {
		return nil, models.ErrEmptyQuery
	}

	query := squirrel.Select(strings.Split(productColumns, ", ")...).
		From("products").
		Where("deleted_at IS NULL").
		Where(squirrel.Expr("to_tsvector('english', title) @@ websearch_to_tsquery('english', ?)", term)).
		OrderByClause("ts_rank(to_tsvector('english', title), websearch_to_tsquery('english', ?)) DESC", term).
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, storeErr("keyword search", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeErr("keyword search", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// SimilaritySearch returns items whose embedding reaches threshold cosine
// similarity against the query vector, best match first. Unindexed items are
// skipped.
func (r *ProductRepository) SimilaritySearch(ctx context.Context, vector []float32, threshold float64, limit int) ([]models.ScoredProduct, error) {
	vec := vectorLiteral(vector)

	query := squirrel.Select(strings.Split(productColumns, ", ")...).
		Column(squirrel.Expr("1 - (embedding <=> ?::vector) AS score", vec)).
		From("products").
		Where("deleted_at IS NULL").
		Where("embedding IS NOT NULL").
		Where(squirrel.Expr("1 - (embedding <=> ?::vector) >= ?", vec, threshold)).
		OrderBy("score DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, storeErr("similarity search", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeErr("similarity search", err)
	}
	defer rows.Close()

	var results []models.ScoredProduct
	for rows.Next() {
		var sp models.ScoredProduct
		if err := scanProductInto(rows, &sp.Product, &sp.Score); err != nil {
			return nil, storeErr("similarity search", err)
		}
		results = append(results, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("similarity search", err)
	}

	return results, nil
}

// TopRated returns items ordered by descending rating count, optionally
// pre-filtered by a title keyword.
func (r *ProductRepository) TopRated(ctx context.Context, limit int, keyword string) ([]*models.Product, error) {
	query := squirrel.Select(strings.Split(productColumns, ", ")...).
		From("products").
		Where("deleted_at IS NULL").
		OrderBy("rating_number DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	if keyword != "" {
		query = query.Where(squirrel.ILike{"title": "%" + keyword + "%"})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, storeErr("top rated", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeErr("top rated", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetForIndexing fetches the four fields an item's embedding is derived from,
// with the category reference resolved to its name.
func (r *ProductRepository) GetForIndexing(ctx context.Context, id int64) (*models.IndexSource, error) {
	query := squirrel.Select("p.id", "p.title", "p.description", "COALESCE(c.name, '')", "p.features").
		From("products p").
		LeftJoin("categories c ON c.id = p.category_id").
		Where(squirrel.Eq{"p.id": id}).
		Where("p.deleted_at IS NULL").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, storeErr("get for indexing", err)
	}

	var src models.IndexSource
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&src.ID, &src.Title, &src.Description, &src.CategoryName, &src.Features,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("get for indexing", err)
	}

	return &src, nil
}

// UpdateEmbedding writes a freshly computed vector onto a single item.
// Last-writer-wins; no read-modify-write involved.
func (r *ProductRepository) UpdateEmbedding(ctx context.Context, id int64, vector []float32) error {
	query := squirrel.Update("products").
		Set("embedding", squirrel.Expr("?::vector", vectorLiteral(vector))).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where("deleted_at IS NULL").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return storeErr("update embedding", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return storeErr("update embedding", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", id, models.ErrNotFound)
	}

	return nil
}

// ListIDs returns every non-deleted product id, for the bulk reindex pass.
func (r *ProductRepository) ListIDs(ctx context.Context) ([]int64, error) {
	query := squirrel.Select("id").
		From("products").
		Where("deleted_at IS NULL").
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, storeErr("list ids", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeErr("list ids", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("list ids", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list ids", err)
	}

	return ids, nil
}

func scanProducts(rows pgx.Rows) ([]*models.Product, error) {
	var products []*models.Product
	for rows.Next() {
		var p models.Product
		if err := scanProductInto(rows, &p); err != nil {
			return nil, storeErr("scan product", err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("scan product", err)
	}
	return products, nil
}

// scanProductInto scans the productColumns set plus any trailing extras.
func scanProductInto(rows pgx.Rows, p *models.Product, extra ...any) error {
	dest := []any{
		&p.ID, &p.Title, &p.Description, &p.Price, &p.Stock, &p.CategoryID,
		&p.Features, &p.RatingNumber, &p.CreatedAt, &p.UpdatedAt,
	}
	dest = append(dest, extra...)
	return rows.Scan(dest...)
}

// vectorLiteral renders a float slice in pgvector's input format, "[1,2,3]".
func vectorLiteral(vector []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vector {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, models.ErrStoreUnavailable, err)
}
