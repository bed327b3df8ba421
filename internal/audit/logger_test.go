package audit

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/ninsaude-scheduler/internal/logger"
)

func TestGormSinkInsertsRow(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "booking_audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	patientID := int64(42)
	err = NewGormSink(gdb).Write(context.Background(), Event{
		RequestID: "req-1",
		Channel:   "agendar",
		Action:    ActionBookingCreated,
		Stage:     "creating_appointment",
		PatientID: &patientID,
		Metadata:  map[string]any{"data": "2024-05-10"},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogSinkNeverFails(t *testing.T) {
	err := NewLogSink(logger.Nop()).Write(context.Background(), Event{Action: ActionBookingFailed})
	assert.NoError(t, err)
}
