// Package reports persists generated comparison payloads so repeated requests
// for the same periods can be served without re-aggregating, and enforces the
// bounded retention of historical aggregates.
package reports

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"vihorki/internal/metrics"
)

// SavedReport is one stored comparison payload.
type SavedReport struct {
	ID                uint      `gorm:"primaryKey;autoIncrement"`
	PeriodKey         string    `gorm:"uniqueIndex;size:64;not null"`
	BaselineVersion   string    `gorm:"not null"`
	ComparisonVersion string    `gorm:"not null"`
	Payload           string    `gorm:"type:text;not null"`
	GeneratedAt       time.Time `gorm:"index;not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PeriodKey derives the stable lookup key for a comparison run from its
// period bounds and version labels.
func PeriodKey(baselineStart, baselineEnd, comparisonStart, comparisonEnd time.Time, v1, v2 string) string {
	raw := fmt.Sprintf("%d:%d:%d:%d:%s:%s",
		baselineStart.Unix(), baselineEnd.Unix(),
		comparisonStart.Unix(), comparisonEnd.Unix(),
		v1, v2)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Save stores the payload under its period key, replacing any previous run
// for the same key.
func Save(db *gorm.DB, periodKey string, payload *metrics.MetricsPayload) (*SavedReport, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}

	report := SavedReport{
		PeriodKey:         periodKey,
		BaselineVersion:   payload.Releases[0].ReleaseInfo.Version,
		ComparisonVersion: payload.Releases[1].ReleaseInfo.Version,
		Payload:           string(body),
		GeneratedAt:       payload.Metadata.GeneratedAt,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("period_key = ?", periodKey).Delete(&SavedReport{}).Error; err != nil {
			return err
		}
		return tx.Create(&report).Error
	})
	if err != nil {
		return nil, fmt.Errorf("saving report: %w", err)
	}

	return &report, nil
}

// GetByID fetches a stored report by its identifier.
func GetByID(db *gorm.DB, id uint) (*SavedReport, error) {
	var report SavedReport
	if err := db.First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// GetByPeriodKey fetches a stored report by its period key, returning nil
// when no run for the key exists.
func GetByPeriodKey(db *gorm.DB, periodKey string) (*SavedReport, error) {
	var report SavedReport
	err := db.Where("period_key = ?", periodKey).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// DecodePayload unmarshals the stored payload JSON.
func (r *SavedReport) DecodePayload() (*metrics.MetricsPayload, error) {
	var payload metrics.MetricsPayload
	if err := json.Unmarshal([]byte(r.Payload), &payload); err != nil {
		return nil, fmt.Errorf("decoding stored payload: %w", err)
	}
	return &payload, nil
}

// DeleteOlderThan removes reports generated before the cutoff and returns the
// number deleted.
func DeleteOlderThan(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("generated_at < ?", cutoff).Delete(&SavedReport{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
