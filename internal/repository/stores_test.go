package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/arcade-hub-api/pkg/config"
)

func TestOpenStoresPostgres(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverPostgres}}
	stores, err := OpenStores(context.Background(), cfg, db, nil)
	require.NoError(t, err)
	assert.Equal(t, config.StoreDriverPostgres, stores.Driver)
	assert.IsType(t, &EventRepository{}, stores.Events)
	assert.IsType(t, &HighscoreRepository{}, stores.Highscores)
	assert.IsType(t, &ContentRepository{}, stores.Content)
	assert.NoError(t, stores.Close(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenStoresPostgresNeedsDB(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverPostgres}}
	_, err := OpenStores(context.Background(), cfg, nil, nil)
	assert.Error(t, err)
}
