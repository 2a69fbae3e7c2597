package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/accessroute/internal/core/domain"
)

const hazardColumns = `id::text, location, issue, description, status, reported_at, reported_by, upvotes, latitude, longitude`

// HazardRepo implements ports.HazardReportRepository with pgx.
type HazardRepo struct {
	db *DB
}

// NewHazardRepo creates a new HazardRepo.
func NewHazardRepo(db *DB) *HazardRepo {
	return &HazardRepo{db: db}
}

func scanHazard(row pgx.Row) (*domain.HazardReport, error) {
	var h domain.HazardReport
	if err := row.Scan(
		&h.ID, &h.Location, &h.Issue, &h.Description, &h.Status,
		&h.ReportedAt, &h.ReportedBy, &h.Upvotes, &h.Latitude, &h.Longitude,
	); err != nil {
		return nil, notFound(err)
	}
	return &h, nil
}

// List returns up to limit reports, newest first.
func (r *HazardRepo) List(ctx context.Context, limit int) ([]domain.HazardReport, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+hazardColumns+`
		FROM hazard_reports
		ORDER BY reported_at DESC, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list hazards: %w", err)
	}
	defer rows.Close()

	reports := []domain.HazardReport{}
	for rows.Next() {
		h, err := scanHazard(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *h)
	}
	return reports, rows.Err()
}

// GetByID returns one report or domain.ErrNotFound.
func (r *HazardRepo) GetByID(ctx context.Context, id string) (*domain.HazardReport, error) {
	return scanHazard(r.db.Pool.QueryRow(ctx, `
		SELECT `+hazardColumns+` FROM hazard_reports WHERE id::text = $1
	`, id))
}

// Create inserts a report and fills in its generated ID.
func (r *HazardRepo) Create(ctx context.Context, h *domain.HazardReport) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO hazard_reports (location, issue, description, status, reported_at, reported_by, upvotes, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id::text
	`, h.Location, h.Issue, h.Description, h.Status, h.ReportedAt, h.ReportedBy,
		h.Upvotes, h.Latitude, h.Longitude).Scan(&h.ID)
}

// UpdateStatus sets the status and returns the updated report.
func (r *HazardRepo) UpdateStatus(ctx context.Context, id string, status domain.HazardStatus) (*domain.HazardReport, error) {
	return scanHazard(r.db.Pool.QueryRow(ctx, `
		UPDATE hazard_reports SET status = $2
		WHERE id::text = $1
		RETURNING `+hazardColumns, id, status))
}

// IncrementUpvotes adds one upvote in a single statement so concurrent
// upvotes are never lost.
func (r *HazardRepo) IncrementUpvotes(ctx context.Context, id string) (*domain.HazardReport, error) {
	return scanHazard(r.db.Pool.QueryRow(ctx, `
		UPDATE hazard_reports SET upvotes = upvotes + 1
		WHERE id::text = $1
		RETURNING `+hazardColumns, id))
}
