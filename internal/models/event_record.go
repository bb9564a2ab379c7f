package models

import "time"

// Direction values accepted by the qualification gate.
const (
	DirectionLong  = "long"
	DirectionShort = "short"
)

// EventRecord is a qualified trading signal, immutable once committed.
// The fingerprint (SHA-256 of the raw headline) is the identity key; the
// store enforces at most one record per fingerprint.
type EventRecord struct {
	Fingerprint string `gorm:"primaryKey;type:varchar(64)"`
	Headline    string `gorm:"type:text;not null"`
	Summary     string `gorm:"type:text"`

	Confidence int    `gorm:"not null"`
	Direction  string `gorm:"type:varchar(10);not null"`
	Reason     string `gorm:"type:text"`
	EventType  string `gorm:"type:varchar(30);index"`
	Sentiment  string `gorm:"type:varchar(10)"`

	// JSON array of affected ticker symbols.
	Assets string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (EventRecord) TableName() string {
	return "events"
}
