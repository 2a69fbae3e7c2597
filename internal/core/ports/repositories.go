package ports

import (
	"context"

	"github.com/samirrijal/accessroute/internal/core/domain"
)

// HazardReportRepository persists community hazard reports.
type HazardReportRepository interface {
	// List returns reports newest first.
	List(ctx context.Context, limit int) ([]domain.HazardReport, error)
	GetByID(ctx context.Context, id string) (*domain.HazardReport, error)
	Create(ctx context.Context, report *domain.HazardReport) error
	UpdateStatus(ctx context.Context, id string, status domain.HazardStatus) (*domain.HazardReport, error)
	// IncrementUpvotes atomically adds one upvote and returns the updated report.
	IncrementUpvotes(ctx context.Context, id string) (*domain.HazardReport, error)
}

// ForumPostRepository persists community forum posts.
type ForumPostRepository interface {
	// List returns posts newest first; an empty category lists every post.
	List(ctx context.Context, category domain.ForumCategory, limit int) ([]domain.ForumPost, error)
	Create(ctx context.Context, post *domain.ForumPost) error
	IncrementLikes(ctx context.Context, id string) (*domain.ForumPost, error)
}
