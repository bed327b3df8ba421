package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/ninsaude-scheduler/internal/config"
)

func TestNewDBWithoutURL(t *testing.T) {
	db, err := NewDB(&config.Config{})
	require.NoError(t, err)
	assert.Nil(t, db)
	assert.NoError(t, Close(db))
}
