package audit

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/ninsaude-scheduler/internal/logger"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/models"
)

// Sink persists audit events.
type Sink interface {
	Write(ctx context.Context, ev Event) error
}

// GormSink stores events in booking_audit_logs.
type GormSink struct {
	db *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) Write(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.BookingAuditLog{
		RequestID: ev.RequestID,
		Channel:   ev.Channel,
		Action:    ev.Action,
		Stage:     ev.Stage,
		PatientID: ev.PatientID,
		Metadata:  metaJSON,
	}

	return s.db.WithContext(ctx).Create(&row).Error
}

// LogSink writes events to the structured log. Used when no database is configured.
type LogSink struct {
	logger logger.Logger
}

func NewLogSink(l logger.Logger) *LogSink {
	return &LogSink{logger: l}
}

func (s *LogSink) Write(_ context.Context, ev Event) error {
	s.logger.Info("audit",
		"request_id", ev.RequestID,
		"channel", ev.Channel,
		"action", ev.Action,
		"stage", ev.Stage,
		"patient_id", ev.PatientID,
		"metadata", ev.Metadata,
	)
	return nil
}
