package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samirrijal/accessroute/internal/core/domain"
	"github.com/samirrijal/accessroute/internal/core/ports"
	"github.com/samirrijal/accessroute/internal/pkg/metrics"
)

const (
	hazardListKey   = "community:hazards"
	hazardListLimit = 100
)

// HazardService manages community hazard reports.
type HazardService struct {
	repo      ports.HazardReportRepository
	events    ports.EventPublisher
	scheduler ports.HazardScheduler
	cache     ports.CacheService
	now       func() time.Time
}

// NewHazardService creates a new HazardService. scheduler may be nil when no
// workflow engine is configured.
func NewHazardService(repo ports.HazardReportRepository, events ports.EventPublisher, scheduler ports.HazardScheduler, cache ports.CacheService) *HazardService {
	return &HazardService{repo: repo, events: events, scheduler: scheduler, cache: cache, now: time.Now}
}

// List returns the latest reports, newest first.
func (s *HazardService) List(ctx context.Context) ([]domain.HazardReport, error) {
	return readThrough(ctx, s.cache, "hazards", hazardListKey, communityTTL, func() ([]domain.HazardReport, error) {
		return s.repo.List(ctx, hazardListLimit)
	})
}

// Create validates and stores a new report, schedules its expiry and announces it.
func (s *HazardService) Create(ctx context.Context, r *domain.HazardReport) error {
	r.Location = strings.TrimSpace(r.Location)
	r.Issue = strings.TrimSpace(r.Issue)
	r.ReportedBy = strings.TrimSpace(r.ReportedBy)

	switch {
	case r.Location == "":
		return fmt.Errorf("%w: location is required", domain.ErrInvalidRequest)
	case r.Issue == "":
		return fmt.Errorf("%w: issue is required", domain.ErrInvalidRequest)
	case r.ReportedBy == "":
		return fmt.Errorf("%w: reported_by is required", domain.ErrInvalidRequest)
	case (r.Latitude == nil) != (r.Longitude == nil):
		return fmt.Errorf("%w: latitude and longitude must be given together", domain.ErrInvalidRequest)
	}
	if r.Latitude != nil && !(domain.Coordinate{Lat: *r.Latitude, Lon: *r.Longitude}).Valid() {
		return fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidRequest)
	}

	if r.Status == "" {
		r.Status = domain.HazardActive
	}
	if !r.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidRequest, r.Status)
	}
	r.Upvotes = 0
	r.ReportedAt = s.now().UTC()

	if err := s.repo.Create(ctx, r); err != nil {
		return fmt.Errorf("create hazard report: %w", err)
	}

	// The report is stored; nothing below fails the request.
	if s.scheduler != nil {
		if err := s.scheduler.ScheduleExpiry(ctx, r.ID); err != nil {
			metrics.CommunitySideEffectFailures.WithLabelValues(domain.TableHazardReports, "schedule").Inc()
			slog.ErrorContext(ctx, "hazard expiry not scheduled", "hazard_id", r.ID, "error", err)
		}
	}
	s.changed(ctx, domain.ChangeCreated, r.ID)
	return nil
}

// UpdateStatus moves a report to status.
func (s *HazardService) UpdateStatus(ctx context.Context, id string, status domain.HazardStatus) (*domain.HazardReport, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidRequest, status)
	}
	r, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update hazard status: %w", err)
	}
	s.changed(ctx, domain.ChangeUpdated, id)
	return r, nil
}

// Upvote confirms a report once more.
func (s *HazardService) Upvote(ctx context.Context, id string) (*domain.HazardReport, error) {
	r, err := s.repo.IncrementUpvotes(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("upvote hazard: %w", err)
	}
	s.changed(ctx, domain.ChangeUpdated, id)
	return r, nil
}

// Expire resolves the report if it is still active and has fewer than
// minUpvotes confirmations. It reports whether the report was resolved.
func (s *HazardService) Expire(ctx context.Context, id string, minUpvotes int) (bool, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("load hazard: %w", err)
	}
	if r.Status != domain.HazardActive || r.Upvotes >= minUpvotes {
		return false, nil
	}
	if _, err := s.repo.UpdateStatus(ctx, id, domain.HazardResolved); err != nil {
		return false, fmt.Errorf("resolve hazard: %w", err)
	}
	metrics.HazardsExpired.Inc()
	slog.InfoContext(ctx, "hazard report expired", "hazard_id", id, "upvotes", r.Upvotes)
	s.changed(ctx, domain.ChangeUpdated, id)
	return true, nil
}

// Invalidate drops the cached report list.
func (s *HazardService) Invalidate(ctx context.Context) {
	invalidate(ctx, s.cache, hazardListKey)
}

// changed drops the cached list and publishes the change. The write is
// already committed, so a publish failure is logged and counted only; the
// shared cache has been invalidated either way.
func (s *HazardService) changed(ctx context.Context, action domain.ChangeAction, id string) {
	s.Invalidate(ctx)
	publishChange(ctx, s.events, domain.ChangeEvent{
		Table:  domain.TableHazardReports,
		Action: action,
		ID:     id,
		At:     s.now().UTC(),
	})
}
