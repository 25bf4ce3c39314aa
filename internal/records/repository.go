package records

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Repository provides read-only access to visit and hit records.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository over the given database connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// toNaiveUTC normalizes a timestamp to naive UTC before range comparison.
// Stored record timestamps carry no timezone, so range bounds must not either.
func toNaiveUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), u.Nanosecond(), time.UTC)
}

// VisitsBetween fetches all visits whose timestamp lies within the inclusive
// from/to bounds.
func (r *Repository) VisitsBetween(ctx context.Context, from, to time.Time) ([]Visit, error) {
	var visits []Visit
	err := r.db.WithContext(ctx).
		Where("dateTime BETWEEN ? AND ?", toNaiveUTC(from), toNaiveUTC(to)).
		Order("dateTime ASC").
		Find(&visits).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching visits: %w", err)
	}
	return visits, nil
}

// HitsByWatchIDs fetches the hits matching the given watch identifiers.
// Identifiers with no matching hit are simply absent from the result.
func (r *Repository) HitsByWatchIDs(ctx context.Context, watchIDs []string) ([]Hit, error) {
	if len(watchIDs) == 0 {
		return nil, nil
	}

	var hits []Hit
	err := r.db.WithContext(ctx).
		Where("watch_id IN ?", watchIDs).
		Find(&hits).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching hits: %w", err)
	}
	return hits, nil
}
