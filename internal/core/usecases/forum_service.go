package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samirrijal/accessroute/internal/core/domain"
	"github.com/samirrijal/accessroute/internal/core/ports"
)

const forumListLimit = 100

var forumCategories = []domain.ForumCategory{
	domain.ForumGeneral, domain.ForumTravelTips, domain.ForumAccessibility, domain.ForumEquipment,
}

func forumListKey(category domain.ForumCategory) string {
	if category == "" {
		return "community:forum:all"
	}
	return "community:forum:" + string(category)
}

// ForumService manages community forum posts.
type ForumService struct {
	repo   ports.ForumPostRepository
	events ports.EventPublisher
	cache  ports.CacheService
	now    func() time.Time
}

// NewForumService creates a new ForumService.
func NewForumService(repo ports.ForumPostRepository, events ports.EventPublisher, cache ports.CacheService) *ForumService {
	return &ForumService{repo: repo, events: events, cache: cache, now: time.Now}
}

// List returns posts newest first, optionally restricted to one category.
func (s *ForumService) List(ctx context.Context, category domain.ForumCategory) ([]domain.ForumPost, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidRequest, category)
	}
	return readThrough(ctx, s.cache, "forum", forumListKey(category), communityTTL, func() ([]domain.ForumPost, error) {
		return s.repo.List(ctx, category, forumListLimit)
	})
}

// Create validates and stores a new post.
func (s *ForumService) Create(ctx context.Context, p *domain.ForumPost) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Content = strings.TrimSpace(p.Content)
	p.Author = strings.TrimSpace(p.Author)

	switch {
	case p.Title == "":
		return fmt.Errorf("%w: title is required", domain.ErrInvalidRequest)
	case p.Content == "":
		return fmt.Errorf("%w: content is required", domain.ErrInvalidRequest)
	case p.Author == "":
		return fmt.Errorf("%w: author is required", domain.ErrInvalidRequest)
	}
	if p.Category == "" {
		p.Category = domain.ForumGeneral
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrInvalidRequest, p.Category)
	}
	p.Likes, p.Replies = 0, 0
	p.PostedAt = s.now().UTC()

	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create forum post: %w", err)
	}
	s.changed(ctx, domain.ChangeCreated, p.ID)
	return nil
}

// Like adds one like to a post.
func (s *ForumService) Like(ctx context.Context, id string) (*domain.ForumPost, error) {
	p, err := s.repo.IncrementLikes(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("like forum post: %w", err)
	}
	s.changed(ctx, domain.ChangeUpdated, id)
	return p, nil
}

// Invalidate drops every cached forum list.
func (s *ForumService) Invalidate(ctx context.Context) {
	keys := []string{forumListKey("")}
	for _, c := range forumCategories {
		keys = append(keys, forumListKey(c))
	}
	invalidate(ctx, s.cache, keys...)
}

func (s *ForumService) changed(ctx context.Context, action domain.ChangeAction, id string) {
	s.Invalidate(ctx)
	publishChange(ctx, s.events, domain.ChangeEvent{
		Table:  domain.TableForumPosts,
		Action: action,
		ID:     id,
		At:     s.now().UTC(),
	})
}
