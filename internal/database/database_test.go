package database

import (
	"context"
	"errors"
	"kaudio/config"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheConstants(t *testing.T) {
	assert.Equal(t, 0, SESSION_CACHE_INDEX)
	assert.Equal(t, 1, USER_CACHE_INDEX)
	assert.Equal(t, 2, EVENTS_CACHE_INDEX)
	assert.Equal(t, 3, STATS_CACHE_INDEX)
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{
		DatabaseHost:     "localhost",
		DatabasePort:     5432,
		DatabaseUser:     "kaudio",
		DatabasePassword: "secret",
		DatabaseName:     "kaudio_db",
	})

	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "port=5432")
	assert.Contains(t, dsn, "dbname=kaudio_db")
	assert.Contains(t, dsn, "TimeZone=UTC")
}

func TestGormConfig_TranslatesErrors(t *testing.T) {
	cfg := GormConfig()

	assert.True(t, cfg.TranslateError)
	assert.True(t, cfg.SkipDefaultTransaction)
}

func TestIndexes_IncludeLikeAlbumUniqueness(t *testing.T) {
	found := false
	for _, stmt := range Indexes {
		if strings.Contains(stmt, "idx_user_activities_like_album") {
			found = true
			assert.Contains(t, stmt, "UNIQUE")
			assert.Contains(t, stmt, "activity_type = 'like_album'")
		}
	}
	assert.True(t, found)
}

func TestCacheBuilder_WithoutClient(t *testing.T) {
	builder := NewCacheBuilder(nil, "genres").
		WithContext(context.Background()).
		WithHash("stats")

	assert.Equal(t, "stats:genres", builder.Key())

	var out []string
	found, err := builder.Get(&out)
	assert.False(t, found)
	assert.True(t, errors.Is(err, ErrCacheUnavailable))

	assert.True(t, errors.Is(builder.WithStruct([]string{"a"}).Set(), ErrCacheUnavailable))
	assert.True(t, errors.Is(builder.Delete(), ErrCacheUnavailable))
}
