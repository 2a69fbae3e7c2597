package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/accessroute/internal/core/domain"
)

const forumColumns = `id::text, title, content, author, posted_at, likes, replies, category`

// ForumRepo implements ports.ForumPostRepository with pgx.
type ForumRepo struct {
	db *DB
}

// NewForumRepo creates a new ForumRepo.
func NewForumRepo(db *DB) *ForumRepo {
	return &ForumRepo{db: db}
}

func scanPost(row pgx.Row) (*domain.ForumPost, error) {
	var p domain.ForumPost
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Author, &p.PostedAt, &p.Likes, &p.Replies, &p.Category); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// List returns posts newest first, optionally restricted to one category.
func (r *ForumRepo) List(ctx context.Context, category domain.ForumCategory, limit int) ([]domain.ForumPost, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+forumColumns+`
		FROM forum_posts
		WHERE $1 = '' OR category = $1
		ORDER BY posted_at DESC, id
		LIMIT $2
	`, string(category), limit)
	if err != nil {
		return nil, fmt.Errorf("list forum posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.ForumPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// Create inserts a post and fills in its generated ID.
func (r *ForumRepo) Create(ctx context.Context, p *domain.ForumPost) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO forum_posts (title, content, author, posted_at, likes, replies, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id::text
	`, p.Title, p.Content, p.Author, p.PostedAt, p.Likes, p.Replies, p.Category).Scan(&p.ID)
}

// IncrementLikes adds one like and returns the updated post.
func (r *ForumRepo) IncrementLikes(ctx context.Context, id string) (*domain.ForumPost, error) {
	return scanPost(r.db.Pool.QueryRow(ctx, `
		UPDATE forum_posts SET likes = likes + 1
		WHERE id::text = $1
		RETURNING `+forumColumns, id))
}
