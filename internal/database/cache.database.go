package database

import (
	"context"
	"fmt"
	"kaudio/config"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

// Valkey database index organization
const (
	// SESSION_CACHE_INDEX (DB 0) - revoked token ids until they expire
	SESSION_CACHE_INDEX = iota

	// USER_CACHE_INDEX (DB 1) - user profiles keyed by id
	USER_CACHE_INDEX

	// EVENTS_CACHE_INDEX (DB 2) - pub/sub for the event bus
	EVENTS_CACHE_INDEX

	// STATS_CACHE_INDEX (DB 3) - genre and artist rollups
	STATS_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	newClient := func(index int) (CacheClient, error) {
		return valkey.NewClient(
			valkey.ClientOption{
				InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
				SelectDB:    index,
			},
		)
	}

	var cacheDB Cache
	var err error

	if cacheDB.Session, err = newClient(SESSION_CACHE_INDEX); err != nil {
		return log.Err("failed to create session valkey client", err)
	}
	if cacheDB.User, err = newClient(USER_CACHE_INDEX); err != nil {
		return log.Err("failed to create user valkey client", err)
	}
	if cacheDB.Events, err = newClient(EVENTS_CACHE_INDEX); err != nil {
		return log.Err("failed to create events valkey client", err)
	}
	if cacheDB.Stats, err = newClient(STATS_CACHE_INDEX); err != nil {
		return log.Err("failed to create stats valkey client", err)
	}

	s.Cache = cacheDB

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, cacheDB)
	}

	return nil
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").File("cache.database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var client CacheClient
	var dbName string

	switch index {
	case SESSION_CACHE_INDEX:
		client = cacheDB.Session
		dbName = "Session"
	case USER_CACHE_INDEX:
		client = cacheDB.User
		dbName = "User"
	case EVENTS_CACHE_INDEX:
		client = cacheDB.Events
		dbName = "Events"
	case STATS_CACHE_INDEX:
		client = cacheDB.Stats
		dbName = "Stats"
	default:
		log.Warn("Invalid cache database index", "index", index)
		return
	}

	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index, "dbName", dbName)
		return
	}

	log.Info("Successfully cleared cache database", "index", index, "dbName", dbName)
}
