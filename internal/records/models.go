// Package records defines the persisted visit/hit record models and the
// read-only repository used to fetch them for aggregation.
package records

import (
	"strings"
	"time"
)

// Device categories as stored on visit records.
const (
	DeviceCategoryDesktop = 1
	DeviceCategoryMobile  = 2
)

// Visit represents one user session record with its aggregate attributes.
// Column names follow the upstream analytics export schema.
type Visit struct {
	VisitID               int64     `gorm:"primaryKey;column:visitId"`
	WatchIDs              string    `gorm:"column:watchIDs"`
	DateTime              time.Time `gorm:"column:dateTime;index"`
	IsNewUser             bool      `gorm:"column:isNewUser"`
	StartURL              string    `gorm:"column:startURL"`
	EndURL                string    `gorm:"column:endURL"`
	PageViews             int       `gorm:"column:pageViews"`
	VisitDuration         int       `gorm:"column:visitDuration"`
	RegionCity            string    `gorm:"column:regionCity"`
	ClientID              string    `gorm:"column:clientID"`
	LastSearchEngineRoot  string    `gorm:"column:lastSearchEngineRoot"`
	DeviceCategory        int       `gorm:"column:deviceCategory"`
	MobilePhone           string    `gorm:"column:mobilePhone"`
	MobilePhoneModel      string    `gorm:"column:mobilePhoneModel"`
	OperatingSystem       string    `gorm:"column:operatingSystem"`
	Browser               string    `gorm:"column:browser"`
	ScreenFormat          string    `gorm:"column:screenFormat"`
	ScreenOrientationName string    `gorm:"column:screenOrientationName"`
}

// TableName overrides the default gorm table name.
func (Visit) TableName() string {
	return "visits"
}

// ParsedWatchIDs returns the visit's hit identifiers, split from the
// comma-joined list with blank entries and stray whitespace filtered out.
func (v Visit) ParsedWatchIDs() []string {
	return ParseWatchIDs(v.WatchIDs)
}

// Hit represents one page-view event belonging to a visit.
type Hit struct {
	WatchID     string    `gorm:"primaryKey;column:watch_id"`
	ClientID    string    `gorm:"column:client_id"`
	URL         string    `gorm:"column:url"`
	DatetimeHit time.Time `gorm:"column:datetime_hit;index"`
	Title       string    `gorm:"column:title"`
}

// TableName overrides the default gorm table name.
func (Hit) TableName() string {
	return "hits"
}

// ParseWatchIDs splits a comma-joined watch ID list into clean identifiers.
// Empty segments and whitespace-only entries are dropped, never propagated.
func ParseWatchIDs(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
