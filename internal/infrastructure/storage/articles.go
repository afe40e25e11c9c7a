package storage

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Mashfooq/be-news-aggregator/internal/domain"
	"github.com/Mashfooq/be-news-aggregator/internal/ports"
)

var _ ports.ArticleStore = (*Store)(nil)
var _ ports.ArticleReader = (*Store)(nil)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// UpsertArticle inserts the article or, when the URL is already known,
// updates the existing row in place. Last write wins on conflicting
// source/category when two providers report the same URL.
func (s *Store) UpsertArticle(ctx context.Context, article domain.Article) error {
	query := `INSERT INTO articles (title, content, url, image_url, source_id, category_id, published_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              ON CONFLICT (url) DO UPDATE
              SET title = EXCLUDED.title,
                  content = EXCLUDED.content,
                  image_url = EXCLUDED.image_url,
                  source_id = EXCLUDED.source_id,
                  category_id = EXCLUDED.category_id,
                  published_at = EXCLUDED.published_at,
                  updated_at = NOW()`

	_, err := s.pool.Exec(ctx, query,
		article.Title,
		article.Content,
		article.URL,
		article.ImageURL,
		article.SourceID,
		article.CategoryID,
		article.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert article %s: %w", article.URL, err)
	}

	return nil
}

// ListArticles returns one page of filtered articles, newest first, together
// with the total match count.
func (s *Store) ListArticles(ctx context.Context, filter domain.ArticleFilter) ([]domain.ArticleView, int, error) {
	countSQL, countArgs, err := countArticlesQuery(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	listSQL, listArgs, err := listArticlesQuery(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var views []domain.ArticleView
	for rows.Next() {
		view, err := scanArticleView(rows)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}

	return views, total, rows.Err()
}

// GetArticle fetches a single article with its source and category names.
func (s *Store) GetArticle(ctx context.Context, id int64) (domain.ArticleView, error) {
	query := `SELECT a.id, a.title, a.content, a.url, a.image_url,
                     a.source_id, a.category_id, a.published_at, s.name, c.name
              FROM articles a
              JOIN sources s ON s.id = a.source_id
              JOIN categories c ON c.id = a.category_id
              WHERE a.id = $1`

	view, err := scanArticleView(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ArticleView{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ArticleView{}, fmt.Errorf("get article %d: %w", id, err)
	}

	return view, nil
}

func scanArticleView(row pgx.Row) (domain.ArticleView, error) {
	var view domain.ArticleView
	err := row.Scan(
		&view.ID,
		&view.Title,
		&view.Content,
		&view.URL,
		&view.ImageURL,
		&view.SourceID,
		&view.CategoryID,
		&view.PublishedAt,
		&view.SourceName,
		&view.CategoryName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ArticleView{}, err
		}
		return domain.ArticleView{}, fmt.Errorf("scan article: %w", err)
	}
	return view, nil
}

func listArticlesQuery(filter domain.ArticleFilter) (string, []any, error) {
	q := psql.Select(
		"a.id", "a.title", "a.content", "a.url", "a.image_url",
		"a.source_id", "a.category_id", "a.published_at", "s.name", "c.name").
		From("articles a").
		Join("sources s ON s.id = a.source_id").
		Join("categories c ON c.id = a.category_id")

	q = applyArticleFilter(q, filter)

	page, perPage := pageBounds(filter)
	q = q.OrderBy("a.published_at DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage))

	return q.ToSql()
}

func countArticlesQuery(filter domain.ArticleFilter) (string, []any, error) {
	// Filters only touch articles columns, so the count skips the joins.
	return applyArticleFilter(psql.Select("COUNT(*)").From("articles a"), filter).ToSql()
}

func applyArticleFilter(q sq.SelectBuilder, filter domain.ArticleFilter) sq.SelectBuilder {
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where(sq.Or{
			sq.ILike{"a.title": like},
			sq.ILike{"a.content": like},
		})
	}
	if filter.Date != "" {
		q = q.Where("a.published_at::date = ?", filter.Date)
	}
	if filter.CategoryID > 0 {
		q = q.Where(sq.Eq{"a.category_id": filter.CategoryID})
	}
	if filter.SourceID > 0 {
		q = q.Where(sq.Eq{"a.source_id": filter.SourceID})
	}
	if len(filter.CategoryIDs) > 0 {
		q = q.Where(sq.Eq{"a.category_id": filter.CategoryIDs})
	}
	if len(filter.SourceIDs) > 0 {
		q = q.Where(sq.Eq{"a.source_id": filter.SourceIDs})
	}
	return q
}

func pageBounds(filter domain.ArticleFilter) (page, perPage int) {
	page = filter.Page
	if page < 1 {
		page = 1
	}
	perPage = filter.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}
