package reports_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vihorki/internal/metrics"
	"vihorki/internal/reports"
	"vihorki/internal/testsupport"
)

func testPayload(generatedAt time.Time) *metrics.MetricsPayload {
	return &metrics.MetricsPayload{
		Metadata: metrics.Metadata{
			ProjectName: "Analytics Project",
			GeneratedAt: generatedAt,
			DataSource:  "sqlite_analytics",
		},
		Releases: []metrics.Release{
			{ReleaseInfo: metrics.ReleaseInfo{Version: "v1.0.0", TotalVisits: 3}},
			{ReleaseInfo: metrics.ReleaseInfo{Version: "v2.0.0", TotalVisits: 5}},
		},
	}
}

func TestPeriodKeyIsStableAndDistinct(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	key := reports.PeriodKey(start, end, end, end.AddDate(0, 0, 7), "v1", "v2")
	same := reports.PeriodKey(start, end, end, end.AddDate(0, 0, 7), "v1", "v2")
	assert.Equal(t, key, same)
	assert.Len(t, key, 64)

	otherVersion := reports.PeriodKey(start, end, end, end.AddDate(0, 0, 7), "v1", "v3")
	assert.NotEqual(t, key, otherVersion)

	otherBounds := reports.PeriodKey(start.Add(time.Second), end, end, end.AddDate(0, 0, 7), "v1", "v2")
	assert.NotEqual(t, key, otherBounds)
}

func TestSaveAndFetchRoundtrip(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	generatedAt := time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC)

	saved, err := reports.Save(db, "key-roundtrip", testPayload(generatedAt))
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, "v1.0.0", saved.BaselineVersion)
	assert.Equal(t, "v2.0.0", saved.ComparisonVersion)

	fetched, err := reports.GetByPeriodKey(db, "key-roundtrip")
	require.NoError(t, err)
	require.NotNil(t, fetched)

	payload, err := fetched.DecodePayload()
	require.NoError(t, err)
	require.Len(t, payload.Releases, 2)
	assert.Equal(t, 3, payload.Releases[0].ReleaseInfo.TotalVisits)
	assert.Equal(t, "Analytics Project", payload.Metadata.ProjectName)

	byID, err := reports.GetByID(db, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, fetched.PeriodKey, byID.PeriodKey)
}

func TestSaveReplacesExistingRun(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	first, err := reports.Save(db, "key-replace", testPayload(time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	updated := testPayload(time.Date(2024, 7, 16, 10, 0, 0, 0, time.UTC))
	updated.Releases[0].ReleaseInfo.TotalVisits = 99
	second, err := reports.Save(db, "key-replace", updated)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&reports.SavedReport{}).Where("period_key = ?", "key-replace").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	fetched, err := reports.GetByPeriodKey(db, "key-replace")
	require.NoError(t, err)
	payload, err := fetched.DecodePayload()
	require.NoError(t, err)
	assert.Equal(t, 99, payload.Releases[0].ReleaseInfo.TotalVisits)
}

func TestGetByPeriodKeyMissingReturnsNil(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	fetched, err := reports.GetByPeriodKey(db, "no-such-key")
	require.NoError(t, err)
	assert.Nil(t, fetched)
}

func TestGetByIDMissingReturnsNotFound(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	_, err := reports.GetByID(db, 424242)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteOlderThan(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	old := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 7, 14, 0, 0, 0, 0, time.UTC)

	_, err := reports.Save(db, "key-old", testPayload(old))
	require.NoError(t, err)
	_, err = reports.Save(db, "key-recent", testPayload(recent))
	require.NoError(t, err)

	deleted, err := reports.DeleteOlderThan(db, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	remaining, err := reports.GetByPeriodKey(db, "key-recent")
	require.NoError(t, err)
	assert.NotNil(t, remaining)

	gone, err := reports.GetByPeriodKey(db, "key-old")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
