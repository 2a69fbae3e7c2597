package usecases_test

import (
	"context"
	"sync"

	"github.com/samirrijal/accessroute/internal/core/domain"
)

// --- Mock providers ---

type mockDirections struct {
	directionsFn func(ctx context.Context, req domain.DirectionsRequest) (domain.DirectionsResponse, error)
	calls        int
}

func (m *mockDirections) Directions(ctx context.Context, req domain.DirectionsRequest) (domain.DirectionsResponse, error) {
	m.calls++
	if m.directionsFn != nil {
		return m.directionsFn(ctx, req)
	}
	return domain.DirectionsResponse{}, nil
}

type mockIsochrones struct {
	isochroneFn func(ctx context.Context, center domain.Coordinate, profile domain.Profile, rangeSeconds int) (*domain.Isochrone, error)
}

func (m *mockIsochrones) Isochrone(ctx context.Context, center domain.Coordinate, profile domain.Profile, rangeSeconds int) (*domain.Isochrone, error) {
	if m.isochroneFn != nil {
		return m.isochroneFn(ctx, center, profile, rangeSeconds)
	}
	return &domain.Isochrone{Center: center, RangeSeconds: rangeSeconds}, nil
}

type mockLookup struct {
	nodesFn func(ctx context.Context, q domain.POIQuery) ([]domain.Place, error)
	calls   int
}

func (m *mockLookup) Nodes(ctx context.Context, q domain.POIQuery) ([]domain.Place, error) {
	m.calls++
	if m.nodesFn != nil {
		return m.nodesFn(ctx, q)
	}
	return nil, nil
}

type mockPOIs struct {
	queryFn func(ctx context.Context, query string) ([]domain.Place, error)
}

func (m *mockPOIs) QueryPlaces(ctx context.Context, query string) ([]domain.Place, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, query)
	}
	return nil, nil
}

// --- Mock cache ---

type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

// --- Mock repositories ---

type mockHazardRepo struct {
	listFn         func(ctx context.Context, limit int) ([]domain.HazardReport, error)
	getByIDFn      func(ctx context.Context, id string) (*domain.HazardReport, error)
	createFn       func(ctx context.Context, r *domain.HazardReport) error
	updateStatusFn func(ctx context.Context, id string, status domain.HazardStatus) (*domain.HazardReport, error)
	upvoteFn       func(ctx context.Context, id string) (*domain.HazardReport, error)
	listCalls      int
}

func (m *mockHazardRepo) List(ctx context.Context, limit int) ([]domain.HazardReport, error) {
	m.listCalls++
	if m.listFn != nil {
		return m.listFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockHazardRepo) GetByID(ctx context.Context, id string) (*domain.HazardReport, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockHazardRepo) Create(ctx context.Context, r *domain.HazardReport) error {
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	r.ID = "hazard-1"
	return nil
}

func (m *mockHazardRepo) UpdateStatus(ctx context.Context, id string, status domain.HazardStatus) (*domain.HazardReport, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return &domain.HazardReport{ID: id, Status: status}, nil
}

func (m *mockHazardRepo) IncrementUpvotes(ctx context.Context, id string) (*domain.HazardReport, error) {
	if m.upvoteFn != nil {
		return m.upvoteFn(ctx, id)
	}
	return &domain.HazardReport{ID: id, Upvotes: 1}, nil
}

type mockForumRepo struct {
	listFn    func(ctx context.Context, category domain.ForumCategory, limit int) ([]domain.ForumPost, error)
	createFn  func(ctx context.Context, p *domain.ForumPost) error
	likeFn    func(ctx context.Context, id string) (*domain.ForumPost, error)
	listCalls int
}

func (m *mockForumRepo) List(ctx context.Context, category domain.ForumCategory, limit int) ([]domain.ForumPost, error) {
	m.listCalls++
	if m.listFn != nil {
		return m.listFn(ctx, category, limit)
	}
	return nil, nil
}

func (m *mockForumRepo) Create(ctx context.Context, p *domain.ForumPost) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	p.ID = "post-1"
	return nil
}

func (m *mockForumRepo) IncrementLikes(ctx context.Context, id string) (*domain.ForumPost, error) {
	if m.likeFn != nil {
		return m.likeFn(ctx, id)
	}
	return &domain.ForumPost{ID: id, Likes: 1}, nil
}

// --- Mock publisher / scheduler ---

type mockPublisher struct {
	events []domain.ChangeEvent
	err    error
}

func (m *mockPublisher) PublishChange(ctx context.Context, ev domain.ChangeEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, ev)
	return nil
}

type mockScheduler struct {
	scheduled []string
	err       error
}

func (m *mockScheduler) ScheduleExpiry(ctx context.Context, hazardID string) error {
	if m.err != nil {
		return m.err
	}
	m.scheduled = append(m.scheduled, hazardID)
	return nil
}
