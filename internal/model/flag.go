package model

import "time"

// FeatureFlag is the master record for one feature. The service never
// writes this table; flags are administered out of band.
type FeatureFlag struct {
	ID                uint64    `gorm:"primaryKey" json:"id"`
	FlagID            string    `gorm:"column:flag_id;size:128;uniqueIndex;not null" json:"flag_id"`
	ManuallyActivated bool      `gorm:"default:false" json:"manually_activated"`
	ReleaseDate       time.Time `json:"release_date"`
	UpdatedAt         time.Time `json:"updated_at"`
}
