package models

import "time"

// BookingAuditLog records the outcome of one booking attempt. It is an audit
// trail only; the bridge never reads it back.
type BookingAuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RequestID string `gorm:"size:64;index" json:"request_id"`
	Channel   string `gorm:"size:20;not null" json:"channel"`
	Action    string `gorm:"size:50;not null" json:"action"`
	Stage     string `gorm:"size:40" json:"stage"`

	PatientID *int64 `json:"patient_id"`
	Metadata  string `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
}
